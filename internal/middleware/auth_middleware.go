package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weiting/stellact/internal/app/models"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/pkg/apperrors"
	"github.com/weiting/stellact/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextUserIDKey = "userID"
	ContextUserKey   = "currentUser"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.UserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// JWTAuth validates the bearer token and loads the account behind it into
// the request context. Requests without a valid, live account are rejected.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolveUser(c)
		if err != nil {
			m.abortUnauthorized(c, err)
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// OptionalAuth loads the account when a valid token is present but lets
// anonymous requests through. Used on read endpoints that personalize their
// response for logged-in users.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		user, err := m.resolveUser(c)
		if err == nil {
			c.Set(ContextUserIDKey, user.ID)
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolveUser(c *gin.Context) (*models.User, error) {
	tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return nil, err
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		return nil, err
	}

	// The token may outlive the account, so the store is the authority
	user, err := m.userRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (m *AuthMiddleware) abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrorCodeUnauthorized
	message := "Authentication required"
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		code = dto.ErrorCodeExpiredToken
		message = "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		code = dto.ErrorCodeInvalidToken
		message = "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// CurrentUser returns the account the auth middleware resolved, or nil for
// anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
