package notify

import (
	"context"

	"go.uber.org/zap"

	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/models"
	"clipers-engine/internal/store"
)

// InAppChannel persists events so the client can list them in the app.
type InAppChannel struct {
	notifications store.NotificationStore
	logger        *zap.Logger
}

func NewInAppChannel(notifications store.NotificationStore, logger *zap.Logger) *InAppChannel {
	return &InAppChannel{notifications: notifications, logger: logger}
}

func (c *InAppChannel) Name() string { return "in_app" }

func (c *InAppChannel) Handle(ctx context.Context, event *models.NotificationEvent) error {
	if err := c.notifications.Insert(ctx, event); err != nil {
		return apperrors.NewNotificationError(c.Name(), err)
	}
	c.logger.Debug("In-app notification stored",
		zap.String("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
	return nil
}
