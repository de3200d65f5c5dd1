package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/models"
	"clipers-engine/internal/store"
)

// SESService is the subset of the SES client the email channel needs.
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailChannel delivers events as emails via Amazon SES. The recipient
// address is resolved from the user store at delivery time.
type EmailChannel struct {
	ses       SESService
	users     store.UserStore
	fromEmail string
	logger    *zap.Logger
}

func NewEmailChannel(sesClient SESService, users store.UserStore, fromEmail string, logger *zap.Logger) *EmailChannel {
	return &EmailChannel{
		ses:       sesClient,
		users:     users,
		fromEmail: fromEmail,
		logger:    logger,
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Handle(ctx context.Context, event *models.NotificationEvent) error {
	user, err := c.users.FindByID(ctx, event.UserID)
	if err != nil {
		return apperrors.NewNotificationError(c.Name(), fmt.Errorf("resolve recipient: %w", err))
	}
	if user.Email == "" {
		c.logger.Warn("User has no email address, skipping delivery",
			zap.String("user_id", event.UserID))
		return nil
	}

	subject := subjectFor(event)
	input := &ses.SendEmailInput{
		Source: aws.String(c.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{user.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(event.Message)},
			},
		},
	}

	if _, err := c.ses.SendEmail(ctx, input); err != nil {
		return apperrors.NewNotificationError(c.Name(), err)
	}

	c.logger.Info("Email notification sent",
		zap.String("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
	return nil
}

func subjectFor(event *models.NotificationEvent) string {
	switch event.Type {
	case models.EventJobMatched:
		return "You have a new job match"
	case models.EventCliperProcessed:
		return "Your video resume is ready"
	case models.EventUserRegistered:
		return "Welcome to Clipers"
	default:
		return "You have a new notification"
	}
}
