package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopadmin/internal/api/user"
	"shopadmin/internal/session"
	"shopadmin/pkg/utils"
)

// SessionManager writes the auth token
type SessionManager interface {
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
}

type loginRequest struct {
	Token string `json:"token"`
}

// AccountHandler session and account endpoints
type AccountHandler struct {
	session SessionManager
	users   user.API
}

// NewAccountHandler creates an account handler
func NewAccountHandler(s SessionManager, users user.API) *AccountHandler {
	return &AccountHandler{session: s, users: users}
}

// Login stores the token the caller obtained from the backend
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.session.Login(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, session.ErrEmptyToken) {
			utils.APIErrorResponse(c, utils.NewValidationError(http.StatusUnprocessableEntity,
				err.Error(), map[string]string{"token": "token is required"}))
			return
		}
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to store token")
		return
	}
	utils.SuccessResponse(c, gin.H{"loggedIn": true})
}

// Logout clears the stored token
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to clear token")
		return
	}
	utils.SuccessResponse(c, gin.H{"loggedIn": false})
}

// Info returns the logged in shop account
func (h *AccountHandler) Info(c *gin.Context) {
	info, err := h.users.Info(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}
