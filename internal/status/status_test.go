package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stanley/scent-assist/internal/logic"
)

func testConfig() Config {
	return Config{
		PollMs:      50,
		HeartbeatMs: 900000,
		DelayMs:     300000,
		RunMs:       120000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPPort:    ":8080",
	}
}

func TestNewTrackerDefaults(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if snap.ControlState != logic.StateIdle {
		t.Errorf("initial control state: got %s, want IDLE", snap.ControlState)
	}
	if snap.FanRunning {
		t.Error("fan running in fresh tracker")
	}
	if !snap.StartTime.Equal(start) {
		t.Errorf("start time: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("config broker: got %q", snap.Config.Broker)
	}
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	timers := logic.Timers{Delay: 250000, Run: 0, Lockout: 100000}
	counts := logic.EventCounts{MotionConfirmed: 2, DelayArmed: 2, FanOn: 1}
	tr.Update(logic.StateIdle, true, true, timers, counts)

	snap := tr.Snapshot()
	if !snap.FanRunning {
		t.Error("fan running not updated")
	}
	if !snap.MotionConfirmed {
		t.Error("motion confirmed not updated")
	}
	if snap.Timers.Delay != 250000 {
		t.Errorf("delay timer: got %d, want 250000", snap.Timers.Delay)
	}
	if snap.Timers.Lockout != 100000 {
		t.Errorf("lockout timer: got %d, want 100000", snap.Timers.Lockout)
	}
	if snap.Counts.FanOn != 1 {
		t.Errorf("fan on count: got %d, want 1", snap.Counts.FanOn)
	}
}

func TestSnapshotIsValueCopy(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	snap1 := tr.Snapshot()

	tr.Update(logic.StateIdle, true, false, logic.Timers{Run: 120000}, logic.EventCounts{FanOn: 1})

	if snap1.FanRunning {
		t.Error("earlier snapshot mutated by later update")
	}
	snap2 := tr.Snapshot()
	if !snap2.FanRunning {
		t.Error("later snapshot missing update")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	up := snap.Uptime()
	if up < 89*time.Second || up > 92*time.Second {
		t.Errorf("uptime: got %v, want ~90s", up)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("MQTTConnected not set")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("MQTTConnected not cleared")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())
	tr.Update(logic.StateIdle, true, false,
		logic.Timers{Run: 60000, Blind: 0},
		logic.EventCounts{FanOn: 3, FanOff: 2, MotionConfirmed: 5, DelayArmed: 4})
	tr.SetMQTTConnected(true)

	data := FormatJSON(tr.Snapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.ControlState != "IDLE" {
		t.Errorf("control_state: got %q, want IDLE", s.ControlState)
	}
	if s.Fan != "ON" {
		t.Errorf("fan: got %q, want ON", s.Fan)
	}
	if s.Timers.Run != 60000 {
		t.Errorf("timers.run: got %d, want 60000", s.Timers.Run)
	}
	if !s.MQTT.Connected {
		t.Error("mqtt.connected: got false")
	}
	if s.Counts.FanOn != 3 || s.Counts.FanOff != 2 || s.Counts.MotionConfirmed != 5 || s.Counts.DelayArmed != 4 {
		t.Errorf("counts: got %+v", s.Counts)
	}
	if s.Config.DelayMs != 300000 || s.Config.RunMs != 120000 {
		t.Errorf("config constants: got %+v", s.Config)
	}
	if s.Event != "" {
		t.Errorf("web JSON must not carry an event field, got %q", s.Event)
	}
	if s.Network != nil {
		t.Error("network should be omitted when unset")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	tr.SetNetwork(&NetworkInfo{
		Type:   "wifi",
		IP:     "192.168.1.42",
		Status: "connected",
		SSID:   "HomeNet",
	})

	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Event != "SHUTDOWN" {
		t.Errorf("event: got %q, want SHUTDOWN", s.Event)
	}
	if s.Reason != "SIGTERM" {
		t.Errorf("reason: got %q, want SIGTERM", s.Reason)
	}
	if s.Network == nil {
		t.Fatal("network missing from status event")
	}
	if s.Network.IP != "192.168.1.42" {
		t.Errorf("network.ip: got %q", s.Network.IP)
	}
	if s.Network.SSID != "HomeNet" {
		t.Errorf("network.ssid: got %q", s.Network.SSID)
	}
}

func TestFormatJSONEmptyStateUnknown(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	tr.Update("", false, false, logic.Timers{}, logic.EventCounts{})

	data := FormatJSON(tr.Snapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.ControlState != "UNKNOWN" {
		t.Errorf("control_state: got %q, want UNKNOWN", parsed.Status.ControlState)
	}
}
