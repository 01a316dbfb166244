package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/core/port"
	"github.com/soclink/account-service/internal/transport/http/middleware"
	"github.com/soclink/account-service/internal/usecase"
)

// ProfileHandler exposes profile, presence and friends endpoints. All of
// them require an authenticated session.
type ProfileHandler struct {
	users *usecase.UserService
}

func NewProfileHandler(users *usecase.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// RegisterRoutes binds the profile endpoints onto an authenticated group.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.PATCH("/profile", h.UpdateProfile)
	r.PUT("/status", h.UpdateStatus)
	r.GET("/friends", h.ListFriends)
	r.POST("/friends/:id", h.AddFriend)
	r.DELETE("/friends/:id", h.RemoveFriend)
}

// UpdateProfile applies partial changes to fullName and bio.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, port.ProfileUpdate{
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "User not found"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to update profile"))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": newUserSummary(user)})
}

// UpdateStatus sets the presence status shown on the profile.
func (h *ProfileHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	if err := h.users.UpdateStatus(c.Request.Context(), userID, domain.UserStatus(req.Status)); err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "User not found"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to update status"))
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "status updated"})
}

// ListFriends returns the authenticated user's friends set.
func (h *ProfileHandler) ListFriends(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	friends, err := h.users.ListFriends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list friends"))
		return
	}

	payload := make([]FriendPayload, 0, len(friends))
	for _, friend := range friends {
		payload = append(payload, FriendPayload{FriendID: friend.FriendID, AddedAt: friend.AddedAt})
	}

	c.JSON(http.StatusOK, FriendsListResponse{Friends: payload, Total: len(payload)})
}

// AddFriend links another account into the friends set.
func (h *ProfileHandler) AddFriend(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	friendID := c.Param("id")
	if err := h.users.AddFriend(c.Request.Context(), userID, friendID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "User not found"))
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to add friend"))
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "friend added"})
}

// RemoveFriend removes an account from the friends set.
func (h *ProfileHandler) RemoveFriend(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	friendID := c.Param("id")
	if err := h.users.RemoveFriend(c.Request.Context(), userID, friendID); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "friend not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to remove friend"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "friend removed"})
}
