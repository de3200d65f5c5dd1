package models

import "time"

type EventType string

const (
	EventUserRegistered  EventType = "USER_REGISTERED"
	EventPostLiked       EventType = "POST_LIKED"
	EventPostCommented   EventType = "POST_COMMENTED"
	EventJobMatched      EventType = "JOB_MATCHED"
	EventCliperProcessed EventType = "CLIPER_PROCESSED"
)

// NotificationEvent is what producers publish and every registered channel
// receives. Channels decide for themselves whether to act on a given type.
type NotificationEvent struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"userId"`
	ActorID   string    `json:"actorId,omitempty"`
	EntityID  string    `json:"entityId,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewNotificationEvent(eventType EventType, userID, message string) *NotificationEvent {
	return &NotificationEvent{
		Type:      eventType,
		UserID:    userID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
