package service

import (
	"context"
	"net/mail"
	"strings"

	"grapebd/g2g/config"
	"grapebd/g2g/internal/auth"
	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

// AuthStore is the part of the profile repository sign-in needs.
type AuthStore interface {
	CreateWithIdentity(ctx context.Context, ident *models.AuthIdentity, p *models.Profile) error
	GetIdentityByEmail(ctx context.Context, email string) (*models.AuthIdentity, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Count(ctx context.Context) (int64, error)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

type AuthService struct {
	cfg   *config.Config
	store AuthStore
}

func NewAuthService(cfg *config.Config, store AuthStore) *AuthService {
	return &AuthService{cfg: cfg, store: store}
}

// Register creates the identity and its profile together. The first account, or the
// configured admin email, becomes an active admin; everyone else starts as a pending
// member until an admin activates them.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Profile, *TokenPair, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, invalid("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, nil, invalid("password must be at least 8 characters")
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, nil, invalid("full name is required")
	}
	_, err := s.store.GetIdentityByEmail(ctx, email)
	if err == nil {
		return nil, nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, nil, err
	}
	p := &models.Profile{
		FullName:       name,
		Email:          email,
		Phone:          strings.TrimSpace(in.Phone),
		Role:           domain.RoleMember,
		Status:         domain.ProfileStatusPending,
		PushPermission: domain.PushPermissionDefault,
	}
	if count == 0 || (s.cfg.Admin.Email != "" && email == s.cfg.Admin.Email) {
		p.Role = domain.RoleAdmin
		p.Status = domain.ProfileStatusActive
	}
	ident := &models.AuthIdentity{Email: email, PasswordHash: string(hash)}
	if err := s.store.CreateWithIdentity(ctx, ident, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailExists
		}
		return nil, nil, errors.Wrap(err, "create account")
	}
	pair, err := s.issue(p)
	if err != nil {
		return p, nil, err
	}
	return p, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, *TokenPair, error) {
	ident, err := s.store.GetIdentityByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCreds
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCreds
	}
	p, err := s.store.GetByUserID(ctx, ident.ID)
	if err != nil {
		return nil, nil, found(err, "profile")
	}
	if p.IsSuspended() {
		return nil, nil, ErrSuspended
	}
	pair, err := s.issue(p)
	if err != nil {
		return nil, nil, err
	}
	return p, pair, nil
}

// Refresh trades a refresh token for a new pair, re-reading role and status.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	id, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	if p.IsSuspended() {
		return nil, ErrSuspended
	}
	return s.issue(p)
}

func (s *AuthService) issue(p *models.Profile) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, p.ID, p.Email, p.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, p.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
