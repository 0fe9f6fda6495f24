package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantcrm/internal/models"
	"tenantcrm/internal/services"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// @Summary      Register a tenant
// @Description  Creates a tenant and its administrator and returns a token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.RegisterRequest  true  "Registration data"
// @Success      201      {object}  models.AuthResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary      Sign in
// @Description  tenantDomain selects the tenant when the email exists in several
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "Credentials"
// @Success      200      {object}  models.AuthResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary   Current user
// @Tags      Auth
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  models.User
// @Failure   401  {object}  ErrorResponse
// @Router    /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	user, err := h.userService.Me(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
