// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"kuwait_portal_backend/internal/common"
	"kuwait_portal_backend/internal/firebase"
	"kuwait_portal_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for storing the authenticated profile's ID
	UserIDKey = "userID"
	// UserRoleKey is the context key for storing the authenticated profile's role
	UserRoleKey = "userRole"
	// ProfileKey stores the whole shared.Profile
	ProfileKey = "userProfile"
)

// AuthMiddleware verifies the Firebase bearer token and resolves (lazily
// creating) the local profile for it.
func AuthMiddleware(firebaseService *firebase.FirebaseService, profileService shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := firebaseService.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("Token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		profile, wasCreated, err := profileService.GetOrCreateProfileFromFirebaseClaims(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to resolve profile for verified token", zap.String("uid", token.UID), zap.Error(err))
			common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not resolve your profile."))
			return
		}
		if wasCreated {
			logger.Debug("Profile lazily created during authentication", zap.String("profileID", profile.ID.String()))
		}

		c.Set(UserIDKey, profile.ID)
		c.Set(UserRoleKey, profile.Role)
		c.Set(ProfileKey, profile)

		c.Next()
	}
}

// GetUserIDFromContext retrieves the profile ID from the Gin context.
// Returns uuid.Nil if not found.
func GetUserIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

// GetUserRoleFromContext retrieves the profile role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) string {
	val, exists := c.Get(UserRoleKey)
	if !exists {
		return ""
	}
	role, ok := val.(string)
	if !ok {
		return ""
	}
	return role
}

// GetProfileFromContext retrieves the full shared.Profile from the Gin context.
func GetProfileFromContext(c *gin.Context) *shared.Profile {
	val, exists := c.Get(ProfileKey)
	if !exists {
		return nil
	}
	profile, ok := val.(*shared.Profile)
	if !ok {
		return nil
	}
	return profile
}

// RoleAuthMiddleware checks that the authenticated profile has one of the
// required roles. Must run after AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRoleFromContext(c)
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
