// Package httpapi exposes the shop's bounded contexts over a gin REST API.
package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	authports "github.com/avetrov/go-shop-api/internal/domains/auth/ports"
	catalogapp "github.com/avetrov/go-shop-api/internal/domains/catalog/application"
	catalogports "github.com/avetrov/go-shop-api/internal/domains/catalog/ports"
	orderapp "github.com/avetrov/go-shop-api/internal/domains/orders/application"
	orderports "github.com/avetrov/go-shop-api/internal/domains/orders/ports"
	userapp "github.com/avetrov/go-shop-api/internal/domains/users/application"
	userports "github.com/avetrov/go-shop-api/internal/domains/users/ports"
	"github.com/avetrov/go-shop-api/internal/shared/problem"
)

// respondError maps application and port errors onto problem details.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orderports.ErrOrderNotFound):
		problem.Respond(c, problem.NewNotFound("order", c.Param("id")))
	case errors.Is(err, orderports.ErrProductNotFound):
		problem.Respond(c, problem.NewNotFound("product", c.Param("id")))
	case errors.Is(err, orderports.ErrLineItemNotFound):
		problem.Respond(c, problem.NewNotFound("order detail", c.Param("id")))
	case errors.Is(err, catalogports.ErrNotFound):
		problem.Respond(c, problem.NewNotFound("product", c.Param("id")))
	case errors.Is(err, userports.ErrNotFound):
		problem.Respond(c, problem.NewNotFound("user", c.Param("id")))
	case errors.Is(err, orderapp.ErrInsufficientStock):
		problem.Respond(c, problem.InsufficientStock.WithDetail(err.Error()))
	case errors.Is(err, userports.ErrEmailTaken):
		problem.Respond(c, problem.Conflict.WithDetail("email is already registered"))
	case errors.Is(err, orderapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, userapp.ErrInvalidInput):
		problem.Respond(c, problem.Validation.WithDetail(err.Error()))
	case errors.Is(err, authports.ErrInvalidCredentials):
		problem.Respond(c, problem.Unauthorized.WithDetail("invalid email or password"))
	case errors.Is(err, authports.ErrNotVerified):
		problem.Respond(c, problem.Forbidden.WithDetail("email address is not verified"))
	case errors.Is(err, authports.ErrInvalidCode):
		problem.Respond(c, problem.Validation.WithDetail("verification code is invalid"))
	case errors.Is(err, authports.ErrInvalidToken), errors.Is(err, authports.ErrTokenRevoked):
		problem.Respond(c, problem.Unauthorized.WithDetail("token is invalid or revoked"))
	default:
		problem.RespondError(c, err)
	}
}

func bindingProblem(c *gin.Context, err error) {
	problem.Respond(c, problem.BadRequest.WithDetail(err.Error()))
}
