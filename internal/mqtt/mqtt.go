// Package mqtt provides MQTT publishing with abstraction for testing.
// Publishing is a diagnostic side channel: the control loop never depends
// on it and keeps running when the broker is unreachable.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/stanley/scent-assist/internal/logic"
)

// Topic is the MQTT topic for fan control events.
const Topic = "home/scentassist/fan/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/scentassist/fan/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a fan control event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event FanEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// FanEvent describes a control transition to publish.
type FanEvent struct {
	Timestamp time.Time
	Type      logic.EventType
	// Manual marks a pushbutton-triggered transition.
	Manual bool
	// Relay is the relay level after the transition.
	Relay bool
	// State is the control state committed after the transition.
	State logic.State
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Fan FanPayload `json:"fan"`
}

// FanPayload contains the fan event details.
type FanPayload struct {
	Timestamp string       `json:"timestamp"`
	Event     string       `json:"event"`
	Manual    bool         `json:"manual,omitempty"`
	Relay     OutputState  `json:"relay"`
	Control   ControlState `json:"control"`
}

// OutputState represents the relay output level.
type OutputState struct {
	State string `json:"state"`
}

// ControlState represents the control state machine's state.
type ControlState struct {
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for a fan event.
func FormatPayload(event FanEvent) ([]byte, error) {
	relay := "OFF"
	if event.Relay {
		relay = "ON"
	}
	payload := Payload{
		Fan: FanPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Manual:    event.Manual,
			Relay:     OutputState{State: relay},
			Control:   ControlState{State: string(event.State)},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
