package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// AuthHandler handles login and the current-user endpoint.
type AuthHandler struct {
	svc     *service.AuthService
	userSvc *service.UserService
}

func NewAuthHandler(svc *service.AuthService, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc, userSvc: userSvc}
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, resp)
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor := GetActor(c)
	user, err := h.userSvc.Get(c.Request.Context(), actor, actor.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, user)
}
