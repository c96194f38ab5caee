package service

import (
	"context"
	"io"
	"net/url"
	"strings"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/pkg/imaging"

	"github.com/google/uuid"
)

type CatalogStore interface {
	CreateVariety(ctx context.Context, v *models.Variety) error
	GetVariety(ctx context.Context, id uuid.UUID) (*models.Variety, error)
	SaveVariety(ctx context.Context, v *models.Variety) error
	DeleteVariety(ctx context.Context, id uuid.UUID) error
	ListVarieties(ctx context.Context, activeOnly bool) ([]models.Variety, error)
	CountVarietyReferences(ctx context.Context, id uuid.UUID) (int64, error)

	CreateRound(ctx context.Context, g *models.GiftRound) error
	GetRound(ctx context.Context, id uuid.UUID) (*models.GiftRound, error)
	SaveRound(ctx context.Context, g *models.GiftRound) error
	DeleteRound(ctx context.Context, id uuid.UUID) error
	ListRounds(ctx context.Context, activeOnly bool) ([]models.GiftRound, error)
	CountRoundReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

// ImageUploader compresses and stores an image, returning its URL.
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader, opts imaging.Options, folder string) (string, error)
}

type VarietyInput struct {
	Name        string
	Description string
	DetailsURL  string
	IsActive    *bool
}

type RoundInput struct {
	Title       string
	Description string
	IsActive    *bool
}

// CatalogService manages the admin-owned varieties and gift rounds.
type CatalogService struct {
	store  CatalogStore
	images ImageUploader
}

func NewCatalogService(store CatalogStore, images ImageUploader) *CatalogService {
	return &CatalogService{store: store, images: images}
}

func (s *CatalogService) ListVarieties(ctx context.Context, viewer domain.Actor) ([]models.Variety, error) {
	return s.store.ListVarieties(ctx, !viewer.IsAdmin())
}

func (s *CatalogService) GetVariety(ctx context.Context, id uuid.UUID) (*models.Variety, error) {
	v, err := s.store.GetVariety(ctx, id)
	return v, found(err, "variety")
}

func (s *CatalogService) CreateVariety(ctx context.Context, admin domain.Actor, in VarietyInput) (*models.Variety, error) {
	v := &models.Variety{IsActive: true}
	if err := applyVariety(v, in); err != nil {
		return nil, err
	}
	createdBy := admin.ID
	v.CreatedBy = &createdBy
	if err := s.store.CreateVariety(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *CatalogService) UpdateVariety(ctx context.Context, id uuid.UUID, in VarietyInput) (*models.Variety, error) {
	v, err := s.store.GetVariety(ctx, id)
	if err != nil {
		return nil, found(err, "variety")
	}
	if err := applyVariety(v, in); err != nil {
		return nil, err
	}
	return v, s.store.SaveVariety(ctx, v)
}

func (s *CatalogService) SetVarietyActive(ctx context.Context, id uuid.UUID, active bool) (*models.Variety, error) {
	return s.UpdateVariety(ctx, id, VarietyInput{IsActive: &active})
}

// UploadVarietyImage stores a thumbnail-sized copy of the image on the variety.
func (s *CatalogService) UploadVarietyImage(ctx context.Context, id uuid.UUID, r io.Reader) (*models.Variety, error) {
	v, err := s.store.GetVariety(ctx, id)
	if err != nil {
		return nil, found(err, "variety")
	}
	u, err := s.images.Upload(ctx, r, imaging.ThumbnailOptions, "varieties")
	if err != nil {
		return nil, err
	}
	v.ThumbnailImage = u
	return v, s.store.SaveVariety(ctx, v)
}

// DeleteVariety refuses while stock or gifts still point at the variety.
func (s *CatalogService) DeleteVariety(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetVariety(ctx, id); err != nil {
		return found(err, "variety")
	}
	n, err := s.store.CountVarietyReferences(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	return s.store.DeleteVariety(ctx, id)
}

func (s *CatalogService) ListRounds(ctx context.Context, viewer domain.Actor) ([]models.GiftRound, error) {
	return s.store.ListRounds(ctx, !viewer.IsAdmin())
}

func (s *CatalogService) CreateRound(ctx context.Context, in RoundInput) (*models.GiftRound, error) {
	g := &models.GiftRound{IsActive: true}
	if err := applyRound(g, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateRound(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *CatalogService) UpdateRound(ctx context.Context, id uuid.UUID, in RoundInput) (*models.GiftRound, error) {
	g, err := s.store.GetRound(ctx, id)
	if err != nil {
		return nil, found(err, "gift round")
	}
	if err := applyRound(g, in); err != nil {
		return nil, err
	}
	return g, s.store.SaveRound(ctx, g)
}

func (s *CatalogService) SetRoundActive(ctx context.Context, id uuid.UUID, active bool) (*models.GiftRound, error) {
	return s.UpdateRound(ctx, id, RoundInput{IsActive: &active})
}

func (s *CatalogService) DeleteRound(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetRound(ctx, id); err != nil {
		return found(err, "gift round")
	}
	n, err := s.store.CountRoundReferences(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	return s.store.DeleteRound(ctx, id)
}

// applyVariety copies non-empty fields of in onto v. A new variety needs a name.
func applyVariety(v *models.Variety, in VarietyInput) error {
	if name := strings.TrimSpace(in.Name); name != "" {
		v.Name = name
	}
	if v.Name == "" {
		return invalid("name is required")
	}
	if in.Description != "" {
		v.Description = strings.TrimSpace(in.Description)
	}
	if in.DetailsURL != "" {
		u, err := url.Parse(strings.TrimSpace(in.DetailsURL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("details_url must be an http(s) link")
		}
		v.DetailsURL = u.String()
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
	return nil
}

func applyRound(g *models.GiftRound, in RoundInput) error {
	if title := strings.TrimSpace(in.Title); title != "" {
		g.Title = title
	}
	if g.Title == "" {
		return invalid("title is required")
	}
	if in.Description != "" {
		g.Description = strings.TrimSpace(in.Description)
	}
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}
	return nil
}
