// Package status provides a thread-safe status tracker for the scent-assist daemon.
// It is read by HTTP handlers and serialized into MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/stanley/scent-assist/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	DelayMs     int64 // activation delay control constant
	RunMs       int64 // fan run control constant
	Broker      string
	HTTPPort    string
	WSBroker    string // Websocket broker URL for browser MQTT (empty = disabled)
}

// TimerMillis holds the remaining time on each control countdown.
type TimerMillis struct {
	Delay   int64
	Run     int64
	Lockout int64
	Blind   int64
	Settle  int64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	ControlState    logic.State
	FanRunning      bool
	MotionConfirmed bool
	Timers          TimerMillis
	Counts          logic.EventCounts
	StartTime       time.Time
	Now             time.Time
	MQTTConnected   bool
	Network         *NetworkInfo
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			ControlState: logic.StateIdle,
			StartTime:    startTime,
			Config:       cfg,
		},
	}
}

// Update sets the control state, output flags, timers, and event counts.
// Called from the control loop on every tick.
func (t *Tracker) Update(state logic.State, fanRunning, motionConfirmed bool, timers logic.Timers, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.ControlState = state
	t.snap.FanRunning = fanRunning
	t.snap.MotionConfirmed = motionConfirmed
	t.snap.Timers = TimerMillis{
		Delay:   int64(timers.Delay),
		Run:     int64(timers.Run),
		Lockout: int64(timers.Lockout),
		Blind:   int64(timers.Blind),
		Settle:  int64(timers.Settle),
	}
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
