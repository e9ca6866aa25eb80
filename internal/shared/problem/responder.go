package problem

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentType is the media type for Problem Details responses.
const ContentType = "application/problem+json"

// Responder sends Problem Details responses.
type Responder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
}

// NewResponder creates a problem responder with optional base URI.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// DefaultResponder uses relative URIs for problem types.
var DefaultResponder = NewResponder("")

// Respond sends a Detail response with proper content type.
func (r *Responder) Respond(c *gin.Context, p Detail) {
	if r.BaseURI != "" && len(p.Type) > 0 && p.Type[0] == '/' {
		p.Type = r.BaseURI + p.Type
	}
	if p.Instance == "" {
		p.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentType)
	c.JSON(p.Status, p)
}

// RespondError converts an error to a Detail and responds. Errors that are
// already a Detail pass through; everything else becomes a 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var p Detail
	if errors.As(err, &p) {
		r.Respond(c, p)
		return
	}
	r.Respond(c, Internal.WithDetail(err.Error()))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, p Detail) {
	DefaultResponder.Respond(c, p)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// StatusFromError extracts the HTTP status from an error if possible.
func StatusFromError(err error) int {
	var p Detail
	if errors.As(err, &p) {
		return p.Status
	}
	return http.StatusInternalServerError
}
