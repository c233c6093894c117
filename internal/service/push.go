package service

import (
	"context"
	"fmt"

	"wardrobe-rental-backend/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// PushSender is the part of the FCM client the push service uses.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebasePushService struct {
	sender PushSender
}

func NewPushService(sender PushSender) PushService {
	return &firebasePushService{sender: sender}
}

// NewFirebasePushService builds an FCM client from a service account file.
func NewFirebasePushService(ctx context.Context, projectID, credentialsFile string) (PushService, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return NewPushService(client), nil
}

func (s *firebasePushService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	logger.ExternalServiceCall("FirebaseMessaging", "Send", "title", title)
	id, err := s.sender.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	logger.ExternalServiceResult("FirebaseMessaging", "Send", err, "messageID", id)
	return err
}

type logPushService struct{}

func NewLogPushService() PushService {
	return logPushService{}
}

func (logPushService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	logger.Debug("Push notification (not sent)", "title", title)
	return nil
}
