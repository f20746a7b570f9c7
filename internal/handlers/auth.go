package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/apperr"
	"messenger-service/internal/models"
	"messenger-service/internal/service"
)

type AccountService interface {
	Register(ctx context.Context, in service.RegisterInput) (models.User, error)
	Login(ctx context.Context, phone string) (models.User, error)
}

// AuthHandler serves POST /auth.
type AuthHandler struct {
	accounts AccountService
}

func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

const (
	actionRegister = "register"
	actionLogin    = "login"
)

func (h *AuthHandler) Post(c *gin.Context) {
	var req struct {
		Action string `json:"action"`
		Phone  string `json:"phone"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		setAction(c, actionUnknown)
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	var (
		user models.User
		err  error
	)
	switch req.Action {
	case actionRegister:
		setAction(c, req.Action)
		user, err = h.accounts.Register(c.Request.Context(), service.RegisterInput{Phone: req.Phone, Name: req.Name, Avatar: req.Avatar})
	case actionLogin:
		setAction(c, req.Action)
		user, err = h.accounts.Login(c.Request.Context(), req.Phone)
	default:
		setAction(c, actionUnknown)
		err = apperr.Validation("unknown action")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

var _ AccountService = (*service.Accounts)(nil)
