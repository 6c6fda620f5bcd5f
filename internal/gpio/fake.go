package gpio

import "errors"

// FakeReader is a test double that returns scripted input values.
type FakeReader struct {
	// Samples contains scripted readings. Each call to Read() consumes
	// the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (uint16, bool, error) {
	if f.ReadError != nil {
		return 0, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.Motion, sample.Button, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeWriter records output levels for test assertions.
type FakeWriter struct {
	// Current levels.
	Relay    bool
	Status   bool
	Activity bool

	// Change histories: one entry per Set call that changed the level.
	RelayChanges    []bool
	StatusChanges   []bool
	ActivityChanges []bool

	// SetError, if set, will be returned by all Set methods.
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeWriter creates a FakeWriter with all outputs low.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// SetRelay records the relay level.
func (f *FakeWriter) SetRelay(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	if on != f.Relay {
		f.RelayChanges = append(f.RelayChanges, on)
	}
	f.Relay = on
	return nil
}

// SetStatusLED records the status LED level.
func (f *FakeWriter) SetStatusLED(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	if on != f.Status {
		f.StatusChanges = append(f.StatusChanges, on)
	}
	f.Status = on
	return nil
}

// SetActivityLED records the activity LED level.
func (f *FakeWriter) SetActivityLED(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	if on != f.Activity {
		f.ActivityChanges = append(f.ActivityChanges, on)
	}
	f.Activity = on
	return nil
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}
