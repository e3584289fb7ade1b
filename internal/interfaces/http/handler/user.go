package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/vetcare/backend/internal/application/identity"
	"github.com/vetcare/backend/internal/domain/identity"
)

// UserHandler handles staff account API endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents a request to register a staff account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=100"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Role     string `json:"role" binding:"required,oneof=ADMIN VET TECH RECEPTION"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
}

// UpdateUserRequest represents a request to update a staff account
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Role  string `json:"role" binding:"required,oneof=ADMIN VET TECH RECEPTION"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
}

// Create registers a new staff account
func (h *UserHandler) Create(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), hospitalID, getRole(c), identityapp.CreateUserRequest{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     identity.Role(req.Role),
		Email:    req.Email,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, user)
}

// GetByID retrieves a staff account
func (h *UserHandler) GetByID(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), hospitalID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// List retrieves staff accounts with optional filtering
func (h *UserHandler) List(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	q := bindListQuery(c)
	filter := identityapp.UserListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := identity.Role(roleStr)
		filter.Role = &role
	}
	active, err := queryBoolPtr(c, "active")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.Active = active

	users, total, err := h.userService.List(c.Request.Context(), hospitalID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// Update updates a staff account's details
func (h *UserHandler) Update(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), hospitalID, userID, getRole(c), identityapp.UpdateUserRequest{
		Name:  req.Name,
		Role:  identity.Role(req.Role),
		Email: req.Email,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// Deactivate disables a staff account
func (h *UserHandler) Deactivate(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), hospitalID, userID, getRole(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate re-enables a staff account
func (h *UserHandler) Activate(c *gin.Context) {
	hospitalID, err := getHospitalID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.Activate(c.Request.Context(), hospitalID, userID, getRole(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
