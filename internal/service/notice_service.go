package service

import (
	"context"
	"strings"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type NoticeStore interface {
	Create(ctx context.Context, n *models.Notice) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.NoticeWithRead, error)
	MarkRead(ctx context.Context, noticeID, userID uuid.UUID) error
}

// NoticeService publishes admin announcements to every member.
type NoticeService struct {
	store  NoticeStore
	events EventPublisher
	log    *logrus.Entry
}

func NewNoticeService(store NoticeStore, events EventPublisher) *NoticeService {
	return &NoticeService{store: store, events: events, log: logging.For("notices")}
}

func (s *NoticeService) CreateNotice(ctx context.Context, author uuid.UUID, title, body string) (*models.Notice, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	n := &models.Notice{AuthorID: author, Title: title, Body: strings.TrimSpace(body)}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}
	publish(s.events, s.log, domain.TableNotices, domain.OpInsert, n.ID, n)
	return n, nil
}

func (s *NoticeService) DeleteNotice(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return found(err, "notice")
	}
	publish(s.events, s.log, domain.TableNotices, domain.OpDelete, id, nil)
	return nil
}

func (s *NoticeService) ListNotices(ctx context.Context, viewer uuid.UUID) ([]models.NoticeWithRead, error) {
	return s.store.ListForUser(ctx, viewer)
}

func (s *NoticeService) MarkRead(ctx context.Context, viewer, noticeID uuid.UUID) error {
	return s.store.MarkRead(ctx, noticeID, viewer)
}
