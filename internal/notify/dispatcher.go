// Package notify fans notification events out to registered delivery channels.
package notify

import (
	"context"

	"go.uber.org/zap"

	"clipers-engine/internal/common/metrics"
	"clipers-engine/internal/models"
)

// Handler is one delivery channel. A handler that cannot deliver returns an
// error; it must not panic.
type Handler interface {
	Name() string
	Handle(ctx context.Context, event *models.NotificationEvent) error
}

// Dispatcher delivers each event to every registered handler. One handler
// failing never prevents the others from running, and Dispatch itself never
// returns an error to the producer.
type Dispatcher struct {
	handlers []Handler
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

func (d *Dispatcher) Register(h Handler) {
	d.handlers = append(d.handlers, h)
	d.logger.Info("Notification channel registered", zap.String("channel", h.Name()))
}

func (d *Dispatcher) Dispatch(ctx context.Context, event *models.NotificationEvent) {
	for _, h := range d.handlers {
		if err := h.Handle(ctx, event); err != nil {
			metrics.NotificationsDispatched.WithLabelValues(h.Name(), "error").Inc()
			d.logger.Error("Notification delivery failed",
				zap.String("channel", h.Name()),
				zap.String("event_type", string(event.Type)),
				zap.String("user_id", event.UserID),
				zap.Error(err))
			continue
		}
		metrics.NotificationsDispatched.WithLabelValues(h.Name(), "ok").Inc()
	}
}
