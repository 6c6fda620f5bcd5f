package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event           string       `json:"event,omitempty"`
	Reason          string       `json:"reason,omitempty"`
	ControlState    string       `json:"control_state"`
	Fan             string       `json:"fan"`
	MotionConfirmed bool         `json:"motion_confirmed"`
	Timers          TimersJSON   `json:"timers_ms"`
	UptimeSeconds   int64        `json:"uptime_seconds"`
	StartTime       string       `json:"start_time"`
	Timestamp       string       `json:"timestamp"`
	MQTT            MQTTStatus   `json:"mqtt"`
	Counts          CountsJSON   `json:"event_counts"`
	Network         *NetworkJSON `json:"network,omitempty"`
	Config          ConfigJSON   `json:"config"`
}

// TimersJSON is the JSON representation of remaining countdowns.
type TimersJSON struct {
	Delay   int64 `json:"delay"`
	Run     int64 `json:"run"`
	Lockout int64 `json:"lockout"`
	Blind   int64 `json:"blind"`
	Settle  int64 `json:"settle"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	MotionConfirmed int `json:"motion_confirmed"`
	DelayArmed      int `json:"delay_armed"`
	FanOn           int `json:"fan_on"`
	FanOff          int `json:"fan_off"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	DelayMs     int64  `json:"delay_ms"`
	RunMs       int64  `json:"run_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	WSBroker    string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	fan := "OFF"
	if snap.FanRunning {
		fan = "ON"
	}
	state := string(snap.ControlState)
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		ControlState:    state,
		Fan:             fan,
		MotionConfirmed: snap.MotionConfirmed,
		Timers: TimersJSON{
			Delay:   snap.Timers.Delay,
			Run:     snap.Timers.Run,
			Lockout: snap.Timers.Lockout,
			Blind:   snap.Timers.Blind,
			Settle:  snap.Timers.Settle,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			MotionConfirmed: snap.Counts.MotionConfirmed,
			DelayArmed:      snap.Counts.DelayArmed,
			FanOn:           snap.Counts.FanOn,
			FanOff:          snap.Counts.FanOff,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			DelayMs:     snap.Config.DelayMs,
			RunMs:       snap.Config.RunMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			WSBroker:    snap.Config.WSBroker,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
