//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads input pins from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip      *gpiocdev.Chip
	motionPin *gpiocdev.Line
	buttonPin *gpiocdev.Line
}

// NewRealReader creates a GPIO reader for actual Raspberry Pi hardware.
func NewRealReader(pinMotion, pinButton int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Request lines as input with pull-down to match Pi boot defaults.
	// PIR modules and the pushbutton both drive the line high when active.
	motionLine, err := chip.RequestLine(pinMotion, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request motion pin %d: %w", pinMotion, err)
	}

	buttonLine, err := chip.RequestLine(pinButton, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		motionLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pinButton, err)
	}

	return &RealReader{
		chip:      chip,
		motionPin: motionLine,
		buttonPin: buttonLine,
	}, nil
}

// Read returns the raw motion magnitude and pushbutton level.
// The digital motion line maps to 0 or RawHigh so the qualifier sees the
// same scale an analog front-end would produce.
func (r *RealReader) Read() (uint16, bool, error) {
	motionRaw, err := r.motionPin.Value()
	if err != nil {
		return 0, false, fmt.Errorf("read motion pin: %w", err)
	}

	buttonRaw, err := r.buttonPin.Value()
	if err != nil {
		return 0, false, fmt.Errorf("read button pin: %w", err)
	}

	var motion uint16
	if motionRaw != 0 {
		motion = RawHigh
	}
	return motion, buttonRaw != 0, nil
}

// Close releases GPIO resources.
// Reconfigures pins to input with pull-down (matching Pi boot defaults)
// before closing to ensure clean state for system shutdown/reboot.
func (r *RealReader) Close() error {
	var errs []error

	for _, pin := range []*gpiocdev.Line{r.motionPin, r.buttonPin} {
		if pin == nil {
			continue
		}
		if err := pin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure input pin: %w", err))
		}
		if err := pin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close input pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealWriter drives output pins on actual hardware.
type RealWriter struct {
	chip        *gpiocdev.Chip
	relayPin    *gpiocdev.Line
	ledPin      *gpiocdev.Line
	activityPin *gpiocdev.Line
}

// NewRealWriter creates a GPIO writer for actual Raspberry Pi hardware.
// All outputs start low (relay open, LEDs off).
func NewRealWriter(pinRelay, pinLED, pinActivity int) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &RealWriter{chip: chip}
	for _, req := range []struct {
		pin  int
		name string
		line **gpiocdev.Line
	}{
		{pinRelay, "relay", &w.relayPin},
		{pinLED, "status led", &w.ledPin},
		{pinActivity, "activity led", &w.activityPin},
	} {
		line, err := chip.RequestLine(req.pin, gpiocdev.AsOutput(0))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", req.name, req.pin, err)
		}
		*req.line = line
	}

	return w, nil
}

func setLine(line *gpiocdev.Line, name string, on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("set %s pin: %w", name, err)
	}
	return nil
}

// SetRelay drives the fan relay.
func (w *RealWriter) SetRelay(on bool) error {
	return setLine(w.relayPin, "relay", on)
}

// SetStatusLED drives the status LED.
func (w *RealWriter) SetStatusLED(on bool) error {
	return setLine(w.ledPin, "status led", on)
}

// SetActivityLED drives the raw-activity LED.
func (w *RealWriter) SetActivityLED(on bool) error {
	return setLine(w.activityPin, "activity led", on)
}

// Close drives all outputs low, then reconfigures the pins to input with
// pull-down (matching Pi boot defaults) and releases them. The relay must
// never be left energized by a daemon restart.
func (w *RealWriter) Close() error {
	var errs []error

	for _, out := range []struct {
		line *gpiocdev.Line
		name string
	}{
		{w.relayPin, "relay"},
		{w.ledPin, "status led"},
		{w.activityPin, "activity led"},
	} {
		if out.line == nil {
			continue
		}
		if err := out.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s pin: %w", out.name, err))
		}
		if err := out.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", out.name, err))
		}
		if err := out.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", out.name, err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
