package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	usermapper "github.com/Apurer/spottythings-api/internal/domains/users/adapters/http/mapper"
	userapp "github.com/Apurer/spottythings-api/internal/domains/users/application"
	userports "github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

// UsersAPI serves account management under /api/u.
type UsersAPI struct {
	users  userports.Service
	logger *slog.Logger
}

func NewUsersAPI(users userports.Service, logger *slog.Logger) *UsersAPI {
	return &UsersAPI{users: users, logger: logger}
}

type updatePasswordRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Post /api/u/signUp
func (api *UsersAPI) SignUp(c *gin.Context) {
	var payload usermapper.User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFailure(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	user, err := usermapper.ToDomainUser(payload)
	if err != nil {
		respondFailure(c, http.StatusBadRequest, err.Error())
		return
	}
	created, err := api.users.SignUp(c.Request.Context(), user)
	if err != nil {
		api.respondUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apiResponse{Success: true, Message: msgSignedUp, ID: created.Username})
}

// Delete /api/u/deleteu/:username
func (api *UsersAPI) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	if !authorizedFor(c, username) {
		respondFailure(c, http.StatusForbidden, msgForbidden)
		return
	}
	if err := api.users.Delete(c.Request.Context(), username); err != nil {
		api.respondUserError(c, err)
		return
	}
	respondOK(c, http.StatusOK, msgDeleted)
}

// Patch /api/u/updatep
func (api *UsersAPI) UpdatePassword(c *gin.Context) {
	var payload updatePasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFailure(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if !authorizedFor(c, payload.Username) {
		respondFailure(c, http.StatusForbidden, msgForbidden)
		return
	}
	if _, err := api.users.UpdatePassword(c.Request.Context(), payload.Username, payload.Password); err != nil {
		api.respondUserError(c, err)
		return
	}
	respondOK(c, http.StatusOK, msgPasswordUpdated)
}

func (api *UsersAPI) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, userapp.ErrInvalidInput):
		respondFailure(c, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, userapp.ErrConflict):
		respondFailure(c, http.StatusConflict, msgUsernameTaken)
	case errors.Is(err, userports.ErrNotFound):
		respondFailure(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, userapp.ErrAuthentication):
		respondFailure(c, http.StatusBadRequest, msgBadCredentials)
	default:
		api.logger.ErrorContext(c.Request.Context(), "user request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		respondFailure(c, http.StatusInternalServerError, msgInternal)
	}
}

// validationMessage strips the application wrapper so clients see the domain rule.
func validationMessage(err error) string {
	var multi interface{ Unwrap() []error }
	if errors.As(err, &multi) {
		if wrapped := multi.Unwrap(); len(wrapped) == 2 && errors.Is(wrapped[0], userapp.ErrInvalidInput) {
			return wrapped[1].Error()
		}
	}
	return err.Error()
}
