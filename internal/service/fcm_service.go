package service

import (
	"context"
	"strings"

	"grapebd/g2g/internal/logging"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// PushMessage is one notification addressed to a device token.
type PushMessage struct {
	Title string
	Body  string
	// Data always carries click_action, the in-app path to open on click.
	Data map[string]string
}

// FCMService sends push notifications via Firebase Cloud Messaging.
type FCMService struct {
	client    *messaging.Client
	publicURL string
}

// NewFCMService creates an FCM service. Returns nil if Firebase is not configured.
func NewFCMService(serviceAccountPath, publicURL string) *FCMService {
	log := logging.For("fcm")
	if serviceAccountPath == "" {
		return nil
	}
	ctx := context.Background()
	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.WithError(err).Error("failed to init Firebase app")
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.WithError(err).Error("failed to get Messaging client")
		return nil
	}
	return &FCMService{client: client, publicURL: strings.TrimRight(publicURL, "/")}
}

// Send delivers msg to token. A token the provider no longer knows yields ErrTokenUnregistered.
func (s *FCMService) Send(ctx context.Context, token string, msg PushMessage) error {
	if s == nil || token == "" {
		return nil
	}
	_, err := s.client.Send(ctx, buildMessage(token, msg, s.publicURL))
	if err != nil {
		if messaging.IsUnregistered(err) {
			return ErrTokenUnregistered
		}
		return err
	}
	return nil
}

// buildMessage carries the click contract for the service worker: an "open" action that
// focuses or opens the app at click_action, and a "close" action that only dismisses.
func buildMessage(token string, msg PushMessage, publicURL string) *messaging.Message {
	data := make(map[string]string, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	if data["click_action"] == "" {
		data["click_action"] = "/"
	}
	m := &messaging.Message{
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data:  data,
		Token: token,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{"Urgency": "high"},
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
				Icon:  "/icons/icon-192x192.png",
				Badge: "/icons/badge-72x72.png",
				Tag:   data["type"],
				Actions: []*messaging.WebpushNotificationAction{
					{Action: "open", Title: "Open"},
					{Action: "close", Title: "Close"},
				},
				Data: map[string]interface{}{"click_action": data["click_action"]},
			},
		},
	}
	// FCM only accepts absolute https links.
	if strings.HasPrefix(publicURL, "https://") {
		m.Webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: publicURL + data["click_action"]}
	}
	return m
}
