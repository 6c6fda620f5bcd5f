//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(pinMotion, pinButton int) (*RealReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (uint16, bool, error) {
	return 0, false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// NewRealWriter returns an error on non-Linux platforms.
func NewRealWriter(pinRelay, pinLED, pinActivity int) (*RealWriter, error) {
	return nil, errUnsupported
}

// SetRelay is not implemented on non-Linux platforms.
func (w *RealWriter) SetRelay(on bool) error { return errUnsupported }

// SetStatusLED is not implemented on non-Linux platforms.
func (w *RealWriter) SetStatusLED(on bool) error { return errUnsupported }

// SetActivityLED is not implemented on non-Linux platforms.
func (w *RealWriter) SetActivityLED(on bool) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (w *RealWriter) Close() error { return nil }
