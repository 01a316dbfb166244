package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soclink/account-service/internal/transport/http/middleware"
	"github.com/soclink/account-service/internal/usecase"
)

// CookieSettings controls the session cookie attributes.
type CookieSettings struct {
	// Secure is set outside development so the cookie only travels over TLS.
	Secure bool
	// MaxAge mirrors the session token TTL, in seconds.
	MaxAge int
}

// UserHandler exposes signup, login, logout, verification and the current
// user's profile.
type UserHandler struct {
	registration *usecase.RegistrationService
	auth         *usecase.AuthService
	users        *usecase.UserService
	dispatcher   NotificationDispatcher
	cookie       CookieSettings
	isDev        bool
}

func NewUserHandler(
	registration *usecase.RegistrationService,
	auth *usecase.AuthService,
	users *usecase.UserService,
	dispatcher NotificationDispatcher,
	cookie CookieSettings,
	isDev bool,
) *UserHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	return &UserHandler{
		registration: registration,
		auth:         auth,
		users:        users,
		dispatcher:   dispatcher,
		cookie:       cookie,
		isDev:        isDev,
	}
}

// RegisterRoutes binds the account endpoints. The authRequired middleware
// guards everything that needs an authenticated session.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc, signupLimit, loginLimit []gin.HandlerFunc) {
	r.POST("/signup", append(signupLimit, h.Signup)...)
	r.POST("/login", append(loginLimit, h.Login)...)
	r.POST("/verify", h.Verify)
	r.POST("/logout", authRequired, h.Logout)
	r.GET("/me", authRequired, h.Me)
}

// Signup creates a new account.
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid signup payload"))
		return
	}

	result, err := h.registration.RegisterUser(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDuplicateUser):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "User already exists"))
		case errors.Is(err, usecase.ErrPasswordPolicyViolation), errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create account"))
		}
		return
	}

	if err := h.dispatcher.SendEmailVerification(c.Request.Context(), VerificationNotification{
		Email:    result.User.Email,
		Username: result.User.Username,
		Token:    result.VerificationToken,
		Expires:  result.VerificationTokenExpires,
	}); err != nil {
		// Delivery problems must not fail the signup itself.
		_ = c.Error(err)
	}

	resp := SignupResponse{
		Success: true,
		User:    newUserSummary(result.User),
		Message: "verification email sent",
	}
	if h.isDev {
		if token := strings.TrimSpace(result.VerificationToken); token != "" {
			resp.DevVerificationToken = &token
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// Login checks credentials and sets the session cookie. An unknown email
// answers 404 and a wrong password 400; the split matches the documented
// API contract.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	ip := c.ClientIP()
	var ipPtr *string
	if ip != "" {
		ipPtr = &ip
	}

	result, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password, ipPtr)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "User not found"))
		case errors.Is(err, usecase.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Invalid password"))
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "login failed"))
		}
		return
	}

	h.setSessionCookie(c, result.Token)

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		User: LoginUser{
			ID:       result.User.ID,
			Username: result.User.Username,
			Email:    result.User.Email,
		},
	})
}

// Logout clears the session cookie and flips presence to offline. The token
// itself stays formally valid until its expiry.
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID); err != nil && !errors.Is(err, usecase.ErrUserNotFound) {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "logout failed"))
		return
	}

	h.clearSessionCookie(c)

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load profile"))
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		User:         newUserSummary(profile.User),
		FriendsCount: profile.FriendsCount,
	})
}

// Verify redeems an email verification token.
func (h *UserHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid verification payload"))
		return
	}

	user, err := h.registration.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrExpiredToken):
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "verification token expired"))
		case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid verification token"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "verification failed"))
		}
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{Success: true, User: newUserSummary(user)})
}

func (h *UserHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}

func (h *UserHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cookie.Secure, true)
}
