package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"grapebd/g2g/internal/domain"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"
	"grapebd/g2g/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const maxMessageLen = 4000

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	Thread(ctx context.Context, a, b uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error)
	DeleteThread(ctx context.Context, a, b uuid.UUID) (int64, error)
	UnreadCountsBySender(ctx context.Context, receiverID uuid.UUID) (map[uuid.UUID]int64, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]repository.ConversationRow, error)
}

type ProfileLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Conversation is one row of the inbox list.
type Conversation struct {
	Partner       models.ProfileSummary `json:"partner"`
	LastMessage   string                `json:"last_message"`
	LastMessageAt time.Time             `json:"last_message_at"`
	Unread        int64                 `json:"unread"`
}

type MessageService struct {
	messages MessageStore
	profiles ProfileLookup
	notifier Notifier
	events   EventPublisher
	log      *logrus.Entry
}

func NewMessageService(messages MessageStore, profiles ProfileLookup, notifier Notifier, events EventPublisher) *MessageService {
	return &MessageService{messages: messages, profiles: profiles, notifier: notifier, events: events, log: logging.For("messages")}
}

// SendMessage stores the message and then pushes to the receiver. The push is best
// effort and never fails the send.
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("message is empty")
	}
	if len([]rune(content)) > maxMessageLen {
		return nil, invalid("message is too long")
	}
	if senderID == receiverID {
		return nil, invalid("cannot message yourself")
	}
	receiver, err := s.profiles.GetByID(ctx, receiverID)
	if err != nil {
		return nil, found(err, "receiver")
	}
	if receiver.IsSuspended() {
		return nil, errors.Wrap(ErrProfileInactive, "receiver")
	}
	m := &models.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	publish(s.events, s.log, domain.TableMessages, domain.OpInsert, m.ID, m, senderID, receiverID)

	if s.notifier != nil {
		title := "New message"
		if sender, err := s.profiles.GetByID(ctx, senderID); err == nil {
			title = "New message from " + name(sender)
		}
		s.notifier.Push(ctx, receiverID, domain.NotifNewMessage, title, truncate(content, 120), map[string]string{
			"sender_id":    senderID.String(),
			"message_id":   m.ID.String(),
			"click_action": "/messages?user=" + senderID.String(),
		})
	}
	return m, nil
}

// FetchThread returns the conversation oldest first and marks what other sent to me as read.
func (s *MessageService) FetchThread(ctx context.Context, me, other uuid.UUID) ([]models.Message, error) {
	list, err := s.messages.Thread(ctx, me, other)
	if err != nil {
		return nil, err
	}
	n, err := s.messages.MarkRead(ctx, me, other)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		for i := range list {
			if list[i].SenderID == other && list[i].ReceiverID == me {
				list[i].IsRead = true
			}
		}
		publish(s.events, s.log, domain.TableMessages, domain.OpUpdate, uuid.Nil, nil, me, other)
	}
	return list, nil
}

// ClearThread hard-deletes both directions of the conversation.
func (s *MessageService) ClearThread(ctx context.Context, me, other uuid.UUID) (int64, error) {
	n, err := s.messages.DeleteThread(ctx, me, other)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		publish(s.events, s.log, domain.TableMessages, domain.OpDelete, uuid.Nil, nil, me, other)
	}
	return n, nil
}

// UnreadCounts maps each partner to the number of their messages I have not read.
func (s *MessageService) UnreadCounts(ctx context.Context, me uuid.UUID) (map[uuid.UUID]int64, error) {
	return s.messages.UnreadCountsBySender(ctx, me)
}

func (s *MessageService) UnreadTotal(ctx context.Context, me uuid.UUID) (int64, error) {
	counts, err := s.messages.UnreadCountsBySender(ctx, me)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// Conversations lists partners newest first, skipping partners whose profile is gone.
func (s *MessageService) Conversations(ctx context.Context, me uuid.UUID) ([]Conversation, error) {
	rows, err := s.messages.Conversations(ctx, me)
	if err != nil {
		return nil, err
	}
	unread, err := s.messages.UnreadCountsBySender(ctx, me)
	if err != nil {
		return nil, err
	}
	out := make([]Conversation, 0, len(rows))
	for _, r := range rows {
		p, err := s.profiles.GetByID(ctx, r.PartnerID)
		if err != nil {
			continue
		}
		out = append(out, Conversation{
			Partner:       p.Summary(),
			LastMessage:   r.LastMessage,
			LastMessageAt: r.LastMessageAt,
			Unread:        unread[r.PartnerID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}
