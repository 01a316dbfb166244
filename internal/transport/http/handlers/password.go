package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soclink/account-service/internal/usecase"
)

// PasswordHandler exposes the password reset endpoints.
type PasswordHandler struct {
	reset      *usecase.PasswordResetService
	dispatcher NotificationDispatcher
	isDev      bool
}

func NewPasswordHandler(reset *usecase.PasswordResetService, dispatcher NotificationDispatcher, isDev bool) *PasswordHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	return &PasswordHandler{reset: reset, dispatcher: dispatcher, isDev: isDev}
}

// RegisterRoutes binds reset endpoints; limit middleware guards the request
// endpoint against token farming.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup, limit []gin.HandlerFunc) {
	r.POST("/password/reset", append(limit, h.RequestReset)...)
	r.POST("/password/reset/confirm", h.ConfirmReset)
}

// RequestReset issues a single-use reset token for the given email.
func (h *PasswordHandler) RequestReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset payload"))
		return
	}

	ip := c.ClientIP()
	var ipPtr *string
	if ip != "" {
		ipPtr = &ip
	}

	result, err := h.reset.RequestReset(c.Request.Context(), req.Email, ipPtr)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "User not found"))
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to request password reset"))
		}
		return
	}

	if err := h.dispatcher.SendPasswordReset(c.Request.Context(), PasswordResetNotification{
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Token:   result.Token,
		Expires: result.ExpiresAt,
	}); err != nil {
		_ = c.Error(err)
	}

	resp := PasswordResetResponse{
		Message:   "password reset requested",
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if h.isDev {
		if token := strings.TrimSpace(result.Token); token != "" {
			resp.DevToken = &token
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmReset redeems a reset token and sets the new password.
func (h *PasswordHandler) ConfirmReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid confirmation payload"))
		return
	}

	if err := h.reset.ConfirmReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, usecase.ErrExpiredToken):
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "reset token expired"))
		case errors.Is(err, usecase.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid reset token"))
		case errors.Is(err, usecase.ErrPasswordPolicyViolation), errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to reset password"))
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
