package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"learnhub/internal/application/authz"
	"learnhub/internal/infrastructure/auth"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth verifies the access token and attaches the account identity
// to the request context. The token is read from the auth cookie first,
// then from the Authorization header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetTokenFromCookie(c, utils.AccessTokenCookie)

		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
				c.Abort()
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
				c.Abort()
				return
			}

			token = parts[1]
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != auth.TokenTypeAccess {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAccountID, claims.AccountID)
		c.Set(constants.ContextKeyExternalID, claims.ExternalID)

		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present but
// never rejects the request.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetTokenFromCookie(c, utils.AccessTokenCookie)

		if token == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			} else {
				c.Next()
				return
			}
		}

		claims, err := m.jwtService.Verify(token)
		if err == nil && claims.TokenType == auth.TokenTypeAccess {
			c.Set(constants.ContextKeyAccountID, claims.AccountID)
			c.Set(constants.ContextKeyExternalID, claims.ExternalID)
		}

		c.Next()
	}
}

// IdentityFromContext rebuilds the authz identity from the values the auth
// middleware stored. Returns nil when the request is unauthenticated, which
// the gates translate to a 401.
func IdentityFromContext(c *gin.Context) *authz.Identity {
	accountID, exists := c.Get(constants.ContextKeyAccountID)
	if !exists {
		return nil
	}

	id, ok := accountID.(uint)
	if !ok {
		return nil
	}

	externalID, _ := c.Get(constants.ContextKeyExternalID)
	ext, _ := externalID.(string)

	return &authz.Identity{
		AccountID:  id,
		ExternalID: ext,
	}
}
