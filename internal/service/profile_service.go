package service

import (
	"context"
	"io"
	"strings"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/pkg/imaging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	List(ctx context.Context, search, status string, page, limit int) ([]models.Profile, int64, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// UpdateProfileInput holds the self-editable fields. Nil means unchanged.
type UpdateProfileInput struct {
	FullName       *string
	Phone          *string
	CourierAddress *string
}

type ProfileService struct {
	store  ProfileStore
	images ImageUploader
	log    *logrus.Entry
}

func NewProfileService(store ProfileStore, images ImageUploader) *ProfileService {
	return &ProfileService{store: store, images: images, log: logging.For("profiles")}
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := s.store.GetByID(ctx, id)
	return p, found(err, "profile")
}

func (s *ProfileService) UpdateProfile(ctx context.Context, actor domain.Actor, id uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	fields := map[string]interface{}{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, invalid("full name cannot be empty")
		}
		fields["full_name"] = name
	}
	if in.Phone != nil {
		fields["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.CourierAddress != nil {
		fields["courier_address"] = strings.TrimSpace(*in.CourierAddress)
	}
	if len(fields) > 0 {
		if err := s.store.UpdateFields(ctx, id, fields); err != nil {
			return nil, found(err, "profile")
		}
	}
	return s.GetProfile(ctx, id)
}

// UploadAvatar stores an avatar-sized copy and points the profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, id uuid.UUID, r io.Reader) (*models.Profile, error) {
	u, err := s.images.Upload(ctx, r, imaging.AvatarOptions, "avatars")
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateFields(ctx, id, map[string]interface{}{"profile_image": u}); err != nil {
		return nil, found(err, "profile")
	}
	return s.GetProfile(ctx, id)
}

func (s *ProfileService) ListProfiles(ctx context.Context, search, status string, page, limit int) ([]models.Profile, int64, error) {
	if status != "" && !domain.ValidProfileStatus(status) {
		return nil, 0, invalid("unknown profile status")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.store.List(ctx, strings.TrimSpace(search), status, page, limit)
}

func (s *ProfileService) SetStatus(ctx context.Context, admin domain.Actor, id uuid.UUID, status string) (*models.Profile, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	if !domain.ValidProfileStatus(status) {
		return nil, invalid("unknown profile status")
	}
	if id == admin.ID && status != domain.ProfileStatusActive {
		return nil, invalid("admins cannot deactivate themselves")
	}
	if err := s.store.UpdateFields(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, found(err, "profile")
	}
	s.log.WithFields(logrus.Fields{"profile_id": id, "status": status, "by": admin.ID}).Info("profile status changed")
	return s.GetProfile(ctx, id)
}

func (s *ProfileService) SetRole(ctx context.Context, admin domain.Actor, id uuid.UUID, role string) (*models.Profile, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	if !domain.ValidRole(role) {
		return nil, invalid("unknown role")
	}
	if id == admin.ID && role != domain.RoleAdmin {
		return nil, invalid("admins cannot demote themselves")
	}
	if err := s.store.UpdateFields(ctx, id, map[string]interface{}{"role": role}); err != nil {
		return nil, found(err, "profile")
	}
	s.log.WithFields(logrus.Fields{"profile_id": id, "role": role, "by": admin.ID}).Info("profile role changed")
	return s.GetProfile(ctx, id)
}

// DeleteProfile removes the member and all of their content in one transaction.
func (s *ProfileService) DeleteProfile(ctx context.Context, admin domain.Actor, id uuid.UUID) error {
	if !admin.IsAdmin() {
		return ErrForbidden
	}
	if id == admin.ID {
		return invalid("admins cannot delete themselves")
	}
	if err := s.store.DeleteCascade(ctx, id); err != nil {
		return found(err, "profile")
	}
	s.log.WithFields(logrus.Fields{"profile_id": id, "by": admin.ID}).Warn("profile deleted")
	return nil
}

// StatusCounts reports how many profiles are in each status, zero-filled.
func (s *ProfileService) StatusCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range domain.ProfileStatuses {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}
	return counts, nil
}
