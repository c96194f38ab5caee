package service

import (
	"context"
	"strings"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type TokenStore interface {
	Upsert(ctx context.Context, t *models.FcmToken) error
	Delete(ctx context.Context, userID uuid.UUID, token string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FcmToken, error)
}

type PermissionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

// PermissionState tells the client whether to ask the browser for permission.
type PermissionState struct {
	Permission   string `json:"permission"`
	ShouldPrompt bool   `json:"should_prompt"`
}

// TokenService owns the push permission and device token lifecycle.
type TokenService struct {
	tokens   TokenStore
	profiles PermissionStore
}

func NewTokenService(tokens TokenStore, profiles PermissionStore) *TokenService {
	return &TokenService{tokens: tokens, profiles: profiles}
}

func (s *TokenService) GetPushPermission(ctx context.Context, userID uuid.UUID) (*PermissionState, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, found(err, "profile")
	}
	perm := p.PushPermission
	if perm == "" {
		perm = domain.PushPermissionDefault
	}
	return &PermissionState{Permission: perm, ShouldPrompt: perm == domain.PushPermissionDefault}, nil
}

// SetPushPermission records the browser's answer. Once answered it is never reset to
// default, so a denial is not prompted for again.
func (s *TokenService) SetPushPermission(ctx context.Context, userID uuid.UUID, perm string) (*PermissionState, error) {
	if perm != domain.PushPermissionGranted && perm != domain.PushPermissionDenied {
		return nil, invalid("permission must be granted or denied")
	}
	if err := s.profiles.UpdateFields(ctx, userID, map[string]interface{}{"push_permission": perm}); err != nil {
		return nil, found(err, "profile")
	}
	return &PermissionState{Permission: perm}, nil
}

// RegisterToken upserts on (user, token). Several devices per user are kept.
func (s *TokenService) RegisterToken(ctx context.Context, userID uuid.UUID, token, deviceInfo string) (*models.FcmToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("token is required")
	}
	t := &models.FcmToken{UserID: userID, Token: token, DeviceInfo: truncate(deviceInfo, 255)}
	if err := s.tokens.Upsert(ctx, t); err != nil {
		return nil, errors.Wrap(err, "save push token")
	}
	if _, err := s.SetPushPermission(ctx, userID, domain.PushPermissionGranted); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TokenService) UnregisterToken(ctx context.Context, userID uuid.UUID, token string) error {
	if strings.TrimSpace(token) == "" {
		return invalid("token is required")
	}
	return s.tokens.Delete(ctx, userID, token)
}

func (s *TokenService) ListTokens(ctx context.Context, userID uuid.UUID) ([]models.FcmToken, error) {
	return s.tokens.ListByUser(ctx, userID)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
