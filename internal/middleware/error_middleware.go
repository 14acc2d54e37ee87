package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. The message of a
// wrapped CustomError is preserved; bare sentinels get a generic message.
func HandleAPIError(c *gin.Context, err error) {
	message := ""
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		message = custom.Message
	}

	respond := func(status int, code dto.ErrorCode, fallback string) {
		if message == "" {
			message = fallback
		}
		c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrInvalidFormat):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrActionNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Action not found")
	case errors.Is(err, apperrors.ErrCommentNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Comment not found")
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already registered")
	case errors.Is(err, apperrors.ErrAlreadyJoined):
		respond(http.StatusConflict, dto.ErrorCodeResourceConflict, "Already joined this action")
	case errors.Is(err, apperrors.ErrActionFull):
		respond(http.StatusConflict, dto.ErrorCodeResourceConflict, "Action is full")
	case errors.Is(err, apperrors.ErrTagSelectionRequired):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Select at least one participation tag")
	case errors.Is(err, apperrors.ErrConflict):
		respond(http.StatusConflict, dto.ErrorCodeResourceConflict, "Conflict")
	default:
		// Never leak internal error text on the 500 path
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
