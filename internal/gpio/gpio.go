// Package gpio provides GPIO access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// Default pin assignments (BCM numbering).
const (
	DefaultPinMotion   = 17 // PIR motion sensor output
	DefaultPinButton   = 27 // manual-activate pushbutton
	DefaultPinRelay    = 22 // fan relay drive
	DefaultPinLED      = 23 // status LED
	DefaultPinActivity = 24 // raw-activity LED
)

// RawHigh is the magnitude reported for an active digital motion input.
// The control core treats readings as quantized magnitudes, so an analog
// sensor front-end can substitute without changing the logic.
const RawHigh = 1023

// Sample represents a single input reading.
type Sample struct {
	// Motion is the raw sensor magnitude (0 or RawHigh for a digital PIR).
	Motion uint16
	// Button is the pushbutton level (true = pressed).
	Button bool
}

// Reader reads the input pins.
type Reader interface {
	// Read returns the raw motion magnitude and the pushbutton level.
	Read() (uint16, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Writer drives the output pins.
type Writer interface {
	SetRelay(on bool) error
	SetStatusLED(on bool) error
	SetActivityLED(on bool) error

	// Close drives all outputs low and releases GPIO resources.
	Close() error
}
