package realtime

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAccessGranted  EventType = "access_granted"
	EventAccessAdvanced EventType = "access_advanced"
	EventWeekAdvanced   EventType = "week_advanced"
	EventPassCompleted  EventType = "pass_completed"
	EventJobUpdated     EventType = "job_updated"
)

// Event is a progression notification. UserID is uuid.Nil for events that
// describe a whole pass.
type Event struct {
	Type   EventType      `json:"type"`
	UserID uuid.UUID      `json:"user_id"`
	Data   map[string]any `json:"data,omitempty"`
	At     time.Time      `json:"at"`
}

func NewEvent(t EventType, userID uuid.UUID, data map[string]any) Event {
	return Event{Type: t, UserID: userID, Data: data, At: time.Now().UTC()}
}
