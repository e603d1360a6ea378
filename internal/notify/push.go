package notify

import (
	"context"
	"fmt"

	"encore-rentals/internal/logger"
	"encore-rentals/internal/repository"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Messenger is the part of the FCM client PushNotifier uses.
type Messenger interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

// NewFCMClient builds a messaging client from a service account file.
func NewFCMClient(ctx context.Context, credentialsFile string) (*messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return client, nil
}

// PushNotifier sends the message to every registered device of the user.
type PushNotifier struct {
	devices   repository.DeviceTokenRepository
	messenger Messenger
}

func NewPushNotifier(devices repository.DeviceTokenRepository, messenger Messenger) *PushNotifier {
	return &PushNotifier{devices: devices, messenger: messenger}
}

func (n *PushNotifier) Notify(ctx context.Context, msg Message) error {
	tokens, err := n.devices.ListByUser(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("failed to list devices of %s: %w", msg.UserID, err)
	}
	if len(tokens) == 0 {
		return nil
	}

	messages := make([]*messaging.Message, 0, len(tokens))
	for _, t := range tokens {
		messages = append(messages, pushMessage(t.Token, msg))
	}

	logger.ExternalServiceCall("fcm", "send_each", "user_id", msg.UserID, "devices", len(messages))
	resp, err := n.messenger.SendEach(ctx, messages)
	if err != nil {
		err = fmt.Errorf("failed to send push notification: %w", err)
		logger.ExternalServiceResult("fcm", "send_each", err)
		return err
	}
	if resp.FailureCount > 0 {
		logger.Warn("Some push notifications failed", "user_id", msg.UserID, "failed", resp.FailureCount, "sent", resp.SuccessCount)
	}
	if resp.SuccessCount == 0 {
		err = fmt.Errorf("push notification rejected for all %d devices", resp.FailureCount)
	}
	logger.ExternalServiceResult("fcm", "send_each", err)
	return err
}

func pushMessage(token string, msg Message) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{Title: msg.Title, Body: msg.Body},
					Sound: "default",
				},
			},
		},
	}
}
