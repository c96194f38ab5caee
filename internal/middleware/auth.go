package middleware

import (
	"context"
	"net/http"
	"strings"

	"grapebd/g2g/config"
	"grapebd/g2g/internal/auth"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// AuthRequired validates the bearer token, loads the caller's profile and stores the
// session on the context. Role and status come from the profile, not the token.
func AuthRequired(cfg *config.JWTConfig, profiles ProfileGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		p, err := profiles.GetByID(c.Request.Context(), claims.ProfileID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "profile not found"})
			return
		}
		if p.IsSuspended() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account suspended"})
			return
		}
		session.Set(c, &session.Session{Profile: p, Claims: claims})
		c.Next()
	}
}

// GetProfileID returns the caller's profile id (must be used after AuthRequired).
func GetProfileID(c *gin.Context) uuid.UUID {
	s := session.From(c)
	if s == nil {
		return uuid.Nil
	}
	return s.ProfileID()
}
