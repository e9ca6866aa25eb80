package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	userdomain "github.com/avetrov/go-shop-api/internal/domains/users/domain"
	userports "github.com/avetrov/go-shop-api/internal/domains/users/ports"
	"github.com/avetrov/go-shop-api/internal/shared/problem"
)

// UsersHandler serves account administration routes.
type UsersHandler struct {
	users userports.Service
}

func NewUsersHandler(users userports.Service) *UsersHandler {
	return &UsersHandler{users: users}
}

type createUserRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	FullName        string `json:"fullName" binding:"required,min=3"`
	PhoneNumber     string `json:"phoneNumber" binding:"required"`
	ShippingAddress string `json:"shippingAddress" binding:"required,min=10"`
	Role            string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	user, err := h.users.Create(c.Request.Context(), userports.CreateUser{
		Email:           req.Email,
		Password:        req.Password,
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
		Role:            userdomain.Role(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	c.JSON(http.StatusOK, out)
}

func (h *UsersHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isSelfOrAdmin(c, id) {
		problem.Respond(c, problem.Forbidden.WithDetail("cannot access another user's account"))
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

type updateUserRequest struct {
	Password        *string `json:"password" binding:"omitempty,min=6"`
	FullName        *string `json:"fullName" binding:"omitempty,min=3"`
	PhoneNumber     *string `json:"phoneNumber"`
	ShippingAddress *string `json:"shippingAddress" binding:"omitempty,min=10"`
	Role            *string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

func (h *UsersHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !isSelfOrAdmin(c, id) {
		problem.Respond(c, problem.Forbidden.WithDetail("cannot modify another user's account"))
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingProblem(c, err)
		return
	}
	params := userports.UpdateUser{
		Password:        req.Password,
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
	}
	if req.Role != nil {
		// Only admins may change roles.
		claims := currentClaims(c)
		if claims == nil || claims.Role != string(userdomain.RoleAdmin) {
			problem.Respond(c, problem.Forbidden.WithDetail("only admins may change roles"))
			return
		}
		role := userdomain.Role(*req.Role)
		params.Role = &role
	}
	user, err := h.users.Update(c.Request.Context(), id, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UsersHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type userResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	PhoneNumber     string    `json:"phoneNumber"`
	ShippingAddress string    `json:"shippingAddress"`
	Role            string    `json:"role"`
	IsVerified      bool      `json:"isVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toUserResponse(user *userdomain.User) userResponse {
	return userResponse{
		ID:              user.ID,
		Email:           user.Email,
		FullName:        user.FullName,
		PhoneNumber:     user.PhoneNumber,
		ShippingAddress: user.ShippingAddress,
		Role:            string(user.Role),
		IsVerified:      user.IsVerified,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
