package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grapebd/g2g/config"
	"grapebd/g2g/internal/auth"
	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type profileMap map[uuid.UUID]*models.Profile

func (m profileMap) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

var jwtCfg = &config.JWTConfig{AccessSecret: "s", RefreshSecret: "r", AccessExpiry: time.Minute, RefreshExpiry: time.Hour}

func newEngine(profiles ProfileGetter) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(jwtCfg, profiles), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": session.From(c).ProfileID()})
	})
	r.GET("/admin", AuthRequired(jwtCfg, profiles), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func bearer(t *testing.T, p *models.Profile) string {
	t.Helper()
	tok, err := auth.GenerateAccessToken(jwtCfg, p.ID, p.Email, p.Role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(r http.Handler, path, authz string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	member := &models.Profile{ID: uuid.New(), Role: domain.RoleMember, Status: domain.ProfileStatusActive}
	suspended := &models.Profile{ID: uuid.New(), Role: domain.RoleMember, Status: domain.ProfileStatusSuspended}
	ghost := &models.Profile{ID: uuid.New(), Role: domain.RoleMember}
	r := newEngine(profileMap{member.ID: member, suspended.ID: suspended})

	tests := []struct {
		name  string
		authz string
		want  int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"unknown profile", bearer(t, ghost), http.StatusUnauthorized},
		{"suspended", bearer(t, suspended), http.StatusForbidden},
		{"ok", bearer(t, member), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(r, "/me", tt.authz).Code)
		})
	}
}

func TestAdminRequiredReadsRoleFromProfile(t *testing.T) {
	admin := &models.Profile{ID: uuid.New(), Role: domain.RoleAdmin, Status: domain.ProfileStatusActive}
	demoted := &models.Profile{ID: uuid.New(), Role: domain.RoleAdmin, Status: domain.ProfileStatusActive}
	profiles := profileMap{admin.ID: admin, demoted.ID: demoted}
	r := newEngine(profiles)
	staleToken := bearer(t, demoted)
	demoted.Role = domain.RoleMember

	assert.Equal(t, http.StatusNoContent, do(r, "/admin", bearer(t, admin)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", staleToken).Code)
}

func TestInMemoryRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewInMemoryRateLimiter(2, time.Minute)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/ping", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/ping", "").Code)
}

func TestInMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewInMemoryRateLimiter(1, time.Minute)
	ctx := context.Background()
	assert.True(t, l.Allow(ctx, "a"))
	assert.False(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "b"))
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	l := NewRedisRateLimiter(client, 1, time.Minute)
	ctx := context.Background()
	assert.True(t, l.Allow(ctx, "a"))
	assert.True(t, l.Allow(ctx, "a"))
}
