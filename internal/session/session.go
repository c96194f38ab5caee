package session

import (
	"grapebd/g2g/internal/auth"
	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKey = "session"

// Session is the authenticated caller of one request.
type Session struct {
	Profile *models.Profile
	Claims  *auth.Claims
}

func (s *Session) ProfileID() uuid.UUID {
	return s.Profile.ID
}

func (s *Session) Actor() domain.Actor {
	return s.Profile.Actor()
}

func (s *Session) IsAdmin() bool {
	return s.Profile.IsAdmin()
}

func Set(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// From returns the session put on the context by the auth middleware, or nil.
func From(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}
