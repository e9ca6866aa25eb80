// Package problem provides RFC 7807 Problem Details for HTTP APIs.
// See: https://www.rfc-editor.org/rfc/rfc7807
package problem

import (
	"fmt"
	"net/http"
)

// Detail represents an RFC 7807 Problem Details response.
type Detail struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`
	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`
	// Status is the HTTP status code for this occurrence.
	Status int `json:"status"`
	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`
	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p Detail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p Detail) WithDetail(detail string) Detail {
	p.Detail = detail
	return p
}

// WithInstance returns a copy with the given instance URI.
func (p Detail) WithInstance(instance string) Detail {
	p.Instance = instance
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p Detail) WithExtension(key string, value any) Detail {
	if p.Extensions == nil {
		p.Extensions = make(map[string]any)
	}
	p.Extensions[key] = value
	return p
}

// Problem types as URI references.
const (
	TypeValidation        = "/problems/validation-error"
	TypeNotFound          = "/problems/not-found"
	TypeConflict          = "/problems/conflict"
	TypeInternal          = "/problems/internal-error"
	TypeUnauthorized      = "/problems/unauthorized"
	TypeForbidden         = "/problems/forbidden"
	TypeBadRequest        = "/problems/bad-request"
	TypeInsufficientStock = "/problems/insufficient-stock"
)

// Pre-defined problem templates for common scenarios.
var (
	// NotFound indicates the requested resource was not found.
	NotFound = Detail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// Validation indicates the request failed validation.
	Validation = Detail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	// BadRequest indicates the request was malformed.
	BadRequest = Detail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// Conflict indicates a conflict with the current state.
	Conflict = Detail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	// Internal indicates an unexpected server error.
	Internal = Detail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// Unauthorized indicates missing or invalid authentication.
	Unauthorized = Detail{
		Type:   TypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
	}

	// Forbidden indicates the action is not allowed.
	Forbidden = Detail{
		Type:   TypeForbidden,
		Title:  "Forbidden",
		Status: http.StatusForbidden,
	}

	// InsufficientStock indicates an order mutation exceeds available inventory.
	InsufficientStock = Detail{
		Type:   TypeInsufficientStock,
		Title:  "Insufficient Stock",
		Status: http.StatusConflict,
	}
)

// NewNotFound creates a not found problem for a specific resource.
func NewNotFound(resourceType string, identifier any) Detail {
	return NotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}

// NewValidation creates a validation problem with field-level details.
func NewValidation(fieldErrors map[string]string) Detail {
	return Validation.WithExtension("fields", fieldErrors)
}
