// File: internal/middleware/auth.go
package middleware

import (
	"wallet_backend/internal/common"
	"wallet_backend/internal/firebase"
	"wallet_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates a Gin middleware that verifies a Firebase ID token and
// resolves (or lazily creates) the local user record for the authenticated caller.
func AuthMiddleware(firebaseService *firebase.FirebaseService, userService shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		firebaseToken, err := firebaseService.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("Token validation failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		usr, wasCreated, err := userService.GetOrCreateUserFromFirebaseClaims(c.Request.Context(), firebaseToken)
		if err != nil {
			logger.Error("Failed to resolve local user from Firebase claims",
				zap.String("firebaseUID", firebaseToken.UID), zap.Error(err))
			common.RespondWithError(c, err)
			return
		}
		if wasCreated {
			logger.Info("Local user provisioned on first authenticated request",
				zap.String("userID", usr.ID.String()))
		}

		c.Set(common.UserIDKey, usr.ID)
		if usr.Email != nil {
			c.Set(common.UserEmailKey, *usr.Email)
		}
		c.Set(common.UserRoleKey, usr.Role)
		c.Set(common.FirebaseUIDKey, firebaseToken.UID)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
