package service

import (
	"context"
	"encoding/json"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// Pusher sends to all devices of a user.
type Pusher interface {
	SendToUser(ctx context.Context, userID uuid.UUID, msg PushMessage) ([]PushResult, error)
}

type NotificationService struct {
	repo   NotificationStore
	pusher Pusher
	events EventPublisher
	log    *logrus.Entry
}

func NewNotificationService(repo NotificationStore, pusher Pusher, events EventPublisher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, events: events, log: logging.For("notify")}
}

// Notify stores an inbox row, tells open tabs about it and pushes to the user's devices.
// Only the inbox write can fail the call.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, title, body string, data map[string]string) error {
	payload := withType(notifType, data)
	raw, _ := json.Marshal(payload)
	n := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   datatypes.JSON(raw),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	publish(s.events, s.log, domain.TableNotifications, domain.OpInsert, n.ID, n, userID)
	s.push(ctx, userID, title, body, payload)
	return nil
}

// Push sends without an inbox row, for events that already have their own realtime row.
func (s *NotificationService) Push(ctx context.Context, userID uuid.UUID, notifType, title, body string, data map[string]string) {
	s.push(ctx, userID, title, body, withType(notifType, data))
}

func (s *NotificationService) push(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) {
	if s.pusher == nil {
		return
	}
	if _, err := s.pusher.SendToUser(ctx, userID, PushMessage{Title: title, Body: body, Data: data}); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("push dispatch failed")
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func withType(notifType string, data map[string]string) map[string]string {
	out := make(map[string]string, len(data)+2)
	for k, v := range data {
		out[k] = v
	}
	out["type"] = notifType
	if out["click_action"] == "" {
		out["click_action"] = "/"
	}
	return out
}
