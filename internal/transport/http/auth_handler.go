package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authapp "github.com/avetrov/go-shop-api/internal/domains/auth/application"
	userdomain "github.com/avetrov/go-shop-api/internal/domains/users/domain"
	userports "github.com/avetrov/go-shop-api/internal/domains/users/ports"
	"github.com/avetrov/go-shop-api/internal/shared/problem"
)

// AuthHandler serves registration, verification, and session routes.
type AuthHandler struct {
	auth  *authapp.Service
	users userports.Service
}

func NewAuthHandler(auth *authapp.Service, users userports.Service) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

type registerRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	FullName        string `json:"fullName" binding:"required,min=3"`
	PhoneNumber     string `json:"phoneNumber" binding:"required"`
	ShippingAddress string `json:"shippingAddress" binding:"required,min=10"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	err := h.auth.Register(c.Request.Context(), userports.CreateUser{
		Email:           req.Email,
		Password:        req.Password,
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
		Role:            userdomain.RoleUser,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "verification code sent"})
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=4"`
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	session, err := h.auth.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := currentToken(c)
	if token == "" {
		problem.Respond(c, problem.Unauthorized.WithDetail("missing bearer token"))
		return
	}
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		problem.Respond(c, problem.Unauthorized.WithDetail("missing bearer token"))
		return
	}
	user, err := h.users.Get(c.Request.Context(), claims.Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

type sessionResponse struct {
	AccessToken string       `json:"accessToken"`
	User        userResponse `json:"user"`
}

func toSessionResponse(session *authapp.Session) sessionResponse {
	return sessionResponse{
		AccessToken: session.AccessToken,
		User:        toUserResponse(session.User),
	}
}
