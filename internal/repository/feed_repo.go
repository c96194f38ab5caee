package repository

import (
	"context"

	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

func (r *FeedRepository) CreatePost(ctx context.Context, p *models.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *FeedRepository) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost removes a post with its comments and reactions.
func (r *FeedRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
}

// ListPosts returns newest posts with author, comments (oldest first) and reactions.
func (r *FeedRepository) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	var list []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.Author").
		Preload("Reactions").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *FeedRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *FeedRepository) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *FeedRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}

func (r *FeedRepository) GetReaction(ctx context.Context, postID, userID uuid.UUID) (*models.Reaction, error) {
	var rc models.Reaction
	err := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// UpsertReaction writes the single reaction slot for (post, user).
func (r *FeedRepository) UpsertReaction(ctx context.Context, rc *models.Reaction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "updated_at"}),
	}).Create(rc).Error
}

func (r *FeedRepository) DeleteReaction(ctx context.Context, postID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Reaction{}).Error
}
