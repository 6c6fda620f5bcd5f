package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stanley/scent-assist/internal/logic"
)

func TestFormatPayloadFanOn(t *testing.T) {
	event := FanEvent{
		Timestamp: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Type:      logic.EventFanOn,
		Relay:     true,
		State:     logic.StateIdle,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Fan.Timestamp != "2026-03-15T10:30:00Z" {
		t.Errorf("timestamp: got %q", parsed.Fan.Timestamp)
	}
	if parsed.Fan.Event != "FAN_ON" {
		t.Errorf("event: got %q, want FAN_ON", parsed.Fan.Event)
	}
	if parsed.Fan.Relay.State != "ON" {
		t.Errorf("relay state: got %q, want ON", parsed.Fan.Relay.State)
	}
	if parsed.Fan.Control.State != "IDLE" {
		t.Errorf("control state: got %q, want IDLE", parsed.Fan.Control.State)
	}
	if parsed.Fan.Manual {
		t.Error("manual: got true, want false")
	}
}

func TestFormatPayloadManualOff(t *testing.T) {
	event := FanEvent{
		Timestamp: time.Date(2026, 3, 15, 10, 45, 0, 0, time.UTC),
		Type:      logic.EventFanOff,
		Manual:    true,
		Relay:     false,
		State:     logic.StateIdle,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Fan.Event != "FAN_OFF" {
		t.Errorf("event: got %q, want FAN_OFF", parsed.Fan.Event)
	}
	if parsed.Fan.Relay.State != "OFF" {
		t.Errorf("relay state: got %q, want OFF", parsed.Fan.Relay.State)
	}
	if !parsed.Fan.Manual {
		t.Error("manual: got false, want true")
	}
}

func TestFormatPayloadTimestampNonUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	event := FanEvent{
		Timestamp: time.Date(2026, 3, 15, 11, 30, 0, 0, loc),
		Type:      logic.EventMotionConfirmed,
		State:     logic.StateDetected,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	// Always serialized in UTC.
	if parsed.Fan.Timestamp != "2026-03-15T10:30:00Z" {
		t.Errorf("timestamp: got %q, want UTC normalized", parsed.Fan.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %q, want SHUTDOWN", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %q, want SIGTERM", parsed.System.Reason)
	}
	if parsed.System.Timestamp != "2026-03-15T10:30:00Z" {
		t.Errorf("timestamp: got %q", parsed.System.Timestamp)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Event:     "HEARTBEAT",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["system"]["reason"]; ok {
		t.Error("empty reason should be omitted")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	event := SystemEvent{
		Timestamp:  time.Now(),
		Event:      "STARTUP",
		RawPayload: raw,
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := FanEvent{
		Timestamp: time.Now(),
		Type:      logic.EventFanOn,
		Relay:     true,
		State:     logic.StateIdle,
	}
	if err := f.Publish(event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != logic.EventFanOn {
		t.Errorf("event type: got %s", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}

	var parsed Payload
	if err := json.Unmarshal(f.Payloads[0], &parsed); err != nil {
		t.Errorf("recorded payload invalid: %v", err)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")
	f.PublishSystemError = errors.New("broker down")

	if err := f.Publish(FanEvent{}); err == nil {
		t.Error("expected publish error")
	}
	if err := f.PublishSystem(SystemEvent{}); err == nil {
		t.Error("expected system publish error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes must not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(FanEvent{Type: logic.EventFanOn})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Connected = true
	f.Close()

	f.Reset()

	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("Reset did not clear events")
	}
	if f.Closed || f.Connected {
		t.Error("Reset did not clear flags")
	}
}
