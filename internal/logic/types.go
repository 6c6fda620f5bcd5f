// Package logic contains the pure control core for the exhaust-fan cycle.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// The clock is always injected as a uint32 millisecond counter, which wraps
// at 2^32 like a microcontroller tick register; all duration math tolerates
// the wrap.
package logic

// State represents the control state machine's operating state.
type State string

const (
	StateIdle     State = "IDLE"
	StateDetected State = "DETECTED"
	StateActivate State = "ACTIVATE"
	StateReset    State = "RESET"
)

// EventType represents a control transition event.
type EventType string

const (
	EventMotionConfirmed EventType = "MOTION_CONFIRMED"
	EventDelayArmed      EventType = "DELAY_ARMED"
	EventFanOn           EventType = "FAN_ON"
	EventFanOff          EventType = "FAN_OFF"
)

// Event represents a control transition to be logged or published.
// Events carry no timestamps; wall time belongs to the caller.
type Event struct {
	Type EventType
	// Manual is true when the transition was caused by the pushbutton
	// rather than the motion sensor or a timer expiry.
	Manual bool
}

// Input represents a single sample of the hardware inputs.
type Input struct {
	// Motion is the raw sensor magnitude. A digital sensor reports 0 or a
	// fixed high value; an analog front-end may report any quantized level.
	Motion uint16
	// Button is the manual-activate pushbutton level.
	Button bool
}

// Output represents the hardware output levels after a tick.
type Output struct {
	Relay     bool
	StatusLED bool
	// ActivityLED mirrors the most recent raw spike, before debouncing.
	ActivityLED bool
}

// Timers is a snapshot of the remaining time on each countdown, in
// milliseconds. Zero means expired or not armed.
type Timers struct {
	Delay   uint32
	Run     uint32
	Lockout uint32
	Blind   uint32
	Settle  uint32
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	MotionConfirmed int
	DelayArmed      int
	FanOn           int
	FanOff          int
}

// Config holds the compile-time control constants. All durations are in
// milliseconds on the injected clock.
type Config struct {
	// DelayTime is the activation delay between a confirmed detection and
	// the fan starting.
	DelayTime uint32
	// RunTime is how long the fan runs once activated.
	RunTime uint32
	// HeartbeatBlink is the off-phase of the status LED while quiescent.
	HeartbeatBlink uint32
	// WaitingBlink is the off-phase of the status LED while the activation
	// delay is counting down.
	WaitingBlink uint32
	// FlashTime is the fixed on-phase of the status LED in either blink mode.
	FlashTime uint32
	// RedetectLockout suppresses new detections after one has been accepted.
	RedetectLockout uint32
	// MotionBlind suppresses the motion input after the fan stops, so the
	// airflow disturbance from the fan itself cannot retrigger a cycle.
	MotionBlind uint32
	// SettleTime is the pause after a relay actuation during which inputs
	// are ignored while contacts and transients settle.
	SettleTime uint32

	// FilterWindow is the size of the moving-average buffer.
	FilterWindow int
	// ConfirmWindow is the number of consecutive spiking samples required
	// to confirm a detection.
	ConfirmWindow int
	// SampleInterval rate-limits the qualifier; at most one raw reading is
	// consumed per interval.
	SampleInterval uint32
	// SpikeMultiplier scales the dynamic threshold above the baseline.
	SpikeMultiplier float64
	// MinThreshold is the floor of the dynamic threshold, rejecting tiny
	// baseline noise.
	MinThreshold float64
	// Smoothing is the single-pole filter coefficient in (0,1); the weight
	// given to the moving average versus the raw sample.
	Smoothing float64
}

// DefaultConfig returns the shipped control constants.
func DefaultConfig() Config {
	return Config{
		DelayTime:       5 * 60 * 1000, // 5 minutes
		RunTime:         2 * 60 * 1000, // 2 minutes
		HeartbeatBlink:  5 * 1000,      // 5 seconds
		WaitingBlink:    100,
		FlashTime:       100,
		RedetectLockout: 3 * 60 * 1000, // 3 minutes
		MotionBlind:     30 * 1000,     // 30 seconds
		SettleTime:      500,

		FilterWindow:    10,
		ConfirmWindow:   5,
		SampleInterval:  100,
		SpikeMultiplier: 1.2,
		MinThreshold:    64,
		Smoothing:       0.6,
	}
}
