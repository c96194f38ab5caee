package service

import (
	"context"
	"io"
	"strings"
	"time"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/pkg/imaging"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type FeedStore interface {
	CreatePost(ctx context.Context, p *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	GetReaction(ctx context.Context, postID, userID uuid.UUID) (*models.Reaction, error)
	UpsertReaction(ctx context.Context, r *models.Reaction) error
	DeleteReaction(ctx context.Context, postID, userID uuid.UUID) error
}

// ReactionResult tags what a React call did to the caller's single reaction slot.
type ReactionResult string

const (
	ReactionAdded    ReactionResult = "added"
	ReactionReplaced ReactionResult = "replaced"
	ReactionRemoved  ReactionResult = "removed"
)

// ReactionOutcome lets a client confirm or roll back its optimistic update.
type ReactionOutcome struct {
	Result   ReactionResult `json:"result"`
	Type     string         `json:"reaction_type,omitempty"`
	Previous string         `json:"previous_type,omitempty"`
}

// PostView is a post as the feed shows it to one viewer.
type PostView struct {
	models.Post
	ReactionCounts map[string]int `json:"reaction_counts"`
	MyReaction     string         `json:"my_reaction,omitempty"`
}

type FeedService struct {
	store  FeedStore
	images ImageUploader
	events EventPublisher
	log    *logrus.Entry
}

func NewFeedService(store FeedStore, images ImageUploader, events EventPublisher) *FeedService {
	return &FeedService{store: store, images: images, events: events, log: logging.For("feed")}
}

// CreatePost needs text, an image or both. The image is recompressed to the post budget.
func (s *FeedService) CreatePost(ctx context.Context, author uuid.UUID, content string, image io.Reader) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && image == nil {
		return nil, invalid("a post needs text or an image")
	}
	p := &models.Post{UserID: author, Content: content}
	if image != nil {
		u, err := s.images.Upload(ctx, image, imaging.PostOptions, "posts")
		if err != nil {
			return nil, err
		}
		p.ImageURL = u
	}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	publish(s.events, s.log, domain.TablePosts, domain.OpInsert, p.ID, p)
	return p, nil
}

func (s *FeedService) DeletePost(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return found(err, "post")
	}
	if p.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		return err
	}
	publish(s.events, s.log, domain.TablePosts, domain.OpDelete, id, nil)
	return nil
}

// ListFeed returns newest posts with comments, reaction counts and the viewer's reaction.
func (s *FeedService) ListFeed(ctx context.Context, viewer uuid.UUID, limit, offset int) ([]PostView, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	posts, err := s.store.ListPosts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v := PostView{Post: p, ReactionCounts: map[string]int{}}
		for _, r := range p.Reactions {
			v.ReactionCounts[r.ReactionType]++
			if r.UserID == viewer {
				v.MyReaction = r.ReactionType
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// AddComment appends a comment. Comments are never edited.
func (s *FeedService) AddComment(ctx context.Context, author, postID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("comment is empty")
	}
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, found(err, "post")
	}
	c := &models.Comment{PostID: postID, UserID: author, Content: content}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	publish(s.events, s.log, domain.TableComments, domain.OpInsert, c.ID, c)
	return c, nil
}

func (s *FeedService) DeleteComment(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	c, err := s.store.GetComment(ctx, id)
	if err != nil {
		return found(err, "comment")
	}
	if c.UserID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return err
	}
	publish(s.events, s.log, domain.TableComments, domain.OpDelete, id, nil)
	return nil
}

// React toggles the caller's reaction: the same type again removes it, a different type
// replaces it.
func (s *FeedService) React(ctx context.Context, user, postID uuid.UUID, reactionType string) (*ReactionOutcome, error) {
	if !domain.ValidReaction(reactionType) {
		return nil, invalid("unknown reaction type")
	}
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, found(err, "post")
	}
	existing, err := s.store.GetReaction(ctx, postID, user)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ReactionType == reactionType {
		if err := s.store.DeleteReaction(ctx, postID, user); err != nil {
			return nil, err
		}
		publish(s.events, s.log, domain.TableReactions, domain.OpDelete, existing.ID, existing)
		return &ReactionOutcome{Result: ReactionRemoved, Previous: reactionType}, nil
	}
	r := &models.Reaction{PostID: postID, UserID: user, ReactionType: reactionType, UpdatedAt: time.Now()}
	if err := s.store.UpsertReaction(ctx, r); err != nil {
		return nil, err
	}
	if existing != nil {
		publish(s.events, s.log, domain.TableReactions, domain.OpUpdate, existing.ID, r)
		return &ReactionOutcome{Result: ReactionReplaced, Type: reactionType, Previous: existing.ReactionType}, nil
	}
	publish(s.events, s.log, domain.TableReactions, domain.OpInsert, r.ID, r)
	return &ReactionOutcome{Result: ReactionAdded, Type: reactionType}, nil
}
