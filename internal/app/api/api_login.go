package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userapp "github.com/Apurer/spottythings-api/internal/domains/users/application"
	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

// LoginAPI serves sessions and password recovery under /api/l.
type LoginAPI struct {
	users  userports.Service
	resets userports.ResetOrchestrator
	logger *slog.Logger
}

func NewLoginAPI(users userports.Service, resets userports.ResetOrchestrator, logger *slog.Logger) *LoginAPI {
	return &LoginAPI{users: users, resets: resets, logger: logger}
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetRequest struct {
	Username string `json:"username"`
}

// Post /api/l/signIn
func (api *LoginAPI) SignIn(c *gin.Context) {
	var payload signInRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFailure(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	session, err := api.users.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, userapp.ErrAuthentication) || errors.Is(err, userapp.ErrInvalidInput) {
			respondFailure(c, http.StatusBadRequest, msgBadCredentials)
			return
		}
		api.logger.ErrorContext(c.Request.Context(), "sign in failed", slog.String("error", err.Error()))
		respondFailure(c, http.StatusInternalServerError, msgInternal)
		return
	}
	username := session.Claims.Username
	c.Header(TokenHeader, session.Token)
	c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: fmt.Sprintf("Welcome on your account, %s!", username),
		ID:      username,
		Token:   session.Token,
	})
}

// Post /api/l/ripristino
func (api *LoginAPI) ResetPassword(c *gin.Context) {
	var payload resetRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFailure(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" {
		respondFailure(c, http.StatusNotFound, msgUserNotFound)
		return
	}
	ctx := c.Request.Context()
	if _, err := api.users.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, userports.ErrNotFound) {
			respondFailure(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		api.logger.ErrorContext(ctx, "password reset lookup failed", slog.String("username", username), slog.String("error", err.Error()))
		respondFailure(c, http.StatusInternalServerError, msgInternal)
		return
	}
	if err := api.resets.ResetPassword(ctx, username); err != nil {
		api.logger.ErrorContext(ctx, "password reset failed", slog.String("username", username), slog.String("error", err.Error()))
		respondFailure(c, http.StatusInternalServerError, msgInternal)
		return
	}
	respondOK(c, http.StatusOK, msgResetSent)
}

// Get /api/l/logout
func (api *LoginAPI) Logout(c *gin.Context) {
	raw := requestToken(c)
	if raw == "" {
		respondOK(c, http.StatusOK, msgAlreadyLoggedOut)
		return
	}
	if err := api.users.Logout(c.Request.Context(), raw); err != nil {
		api.logger.ErrorContext(c.Request.Context(), "logout failed", slog.String("error", err.Error()))
		respondFailure(c, http.StatusInternalServerError, msgInternal)
		return
	}
	respondOK(c, http.StatusOK, msgLoggedOut)
}
