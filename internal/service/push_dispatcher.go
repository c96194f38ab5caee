package service

import (
	"context"
	"time"

	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// PushSender delivers to a single device token.
type PushSender interface {
	Send(ctx context.Context, token string, msg PushMessage) error
}

type PushTokenStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FcmToken, error)
	DeleteByToken(ctx context.Context, token string) error
}

const (
	PushDelivered = "delivered"
	PushPruned    = "pruned"
	PushFailed    = "failed"
)

// PushResult is the outcome for one token.
type PushResult struct {
	Token  string `json:"token"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// PushDispatcher fans a message out to every device of a user and prunes tokens the
// provider reports as unregistered.
type PushDispatcher struct {
	tokens  PushTokenStore
	sender  PushSender
	limiter ratelimit.Limiter
	log     *logrus.Entry
}

// NewPushDispatcher throttles sends to perSecond; zero or less disables throttling.
func NewPushDispatcher(tokens PushTokenStore, sender PushSender, perSecond int) *PushDispatcher {
	limiter := ratelimit.NewUnlimited()
	if perSecond > 0 {
		limiter = ratelimit.New(perSecond, ratelimit.WithoutSlack)
	}
	return &PushDispatcher{tokens: tokens, sender: sender, limiter: limiter, log: logging.For("fcm")}
}

// Enabled is false when no push provider is configured.
func (d *PushDispatcher) Enabled() bool {
	return d != nil && d.sender != nil
}

func (d *PushDispatcher) SendToUser(ctx context.Context, userID uuid.UUID, msg PushMessage) ([]PushResult, error) {
	if !d.Enabled() {
		return nil, nil
	}
	tokens, err := d.tokens.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list push tokens")
	}
	data := make(map[string]string, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	if data["click_action"] == "" {
		data["click_action"] = "/"
	}
	msg.Data = data
	results := make([]PushResult, 0, len(tokens))
	for _, t := range tokens {
		d.limiter.Take()
		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := d.sender.Send(sendCtx, t.Token, msg)
		cancel()
		res := PushResult{Token: t.Token, Status: PushDelivered}
		switch {
		case errors.Is(err, ErrTokenUnregistered):
			res.Status = PushPruned
			if derr := d.tokens.DeleteByToken(ctx, t.Token); derr != nil {
				d.log.WithError(derr).Warn("failed to delete stale token")
			} else {
				d.log.WithField("user_id", userID).WithField("token", maskToken(t.Token)).Info("deleted unregistered token")
			}
		case err != nil:
			res.Status = PushFailed
			res.Error = err.Error()
			d.log.WithError(err).WithField("user_id", userID).WithField("token", maskToken(t.Token)).Warn("push send failed")
		}
		results = append(results, res)
	}
	return results, nil
}

func maskToken(t string) string {
	if len(t) <= 12 {
		return "***"
	}
	return t[:6] + "..." + t[len(t)-6:]
}
