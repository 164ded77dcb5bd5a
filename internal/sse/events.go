// Package sse implements Server-Sent Events for live generation progress and registry updates.
package sse

import (
	"time"

	"github.com/myshelfapp/myshelf-server/internal/status"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventStatus carries a generation status snapshot.
	EventStatus EventType = "generation.status"
	// EventRegistryUpdated signals that the registry document changed on
	// disk; dashboards should refetch the user list.
	EventRegistryUpdated EventType = "registry.updated"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// StatusEventData is the data payload for generation status events.
type StatusEventData struct {
	Status status.Snapshot `json:"status"`
}

// RegistryUpdatedEventData is the data payload for registry change events.
type RegistryUpdatedEventData struct {
	UpdatedAt time.Time `json:"updated_at"`
	Path      string    `json:"path"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewStatusEvent creates a generation status event.
func NewStatusEvent(snap status.Snapshot) Event {
	return Event{
		Type:      EventStatus,
		Timestamp: time.Now(),
		Data:      StatusEventData{Status: snap},
	}
}

// NewRegistryUpdatedEvent creates a registry change event.
func NewRegistryUpdatedEvent(path string) Event {
	return Event{
		Type:      EventRegistryUpdated,
		Timestamp: time.Now(),
		Data:      RegistryUpdatedEventData{UpdatedAt: time.Now(), Path: path},
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      HeartbeatEventData{ServerTime: time.Now()},
	}
}
