package logic

import "math"

// Qualifier converts raw sensor magnitudes into a debounced detection
// signal. A sample "spikes" when it exceeds a dynamic threshold above the
// moving-average baseline; a detection is confirmed only when the last
// ConfirmWindow samples all spiked.
type Qualifier struct {
	cfg Config

	// window holds the last FilterWindow raw readings. Cold-start entries
	// are zero, biasing the average low until the window fills — acceptable
	// since the system starts quiescent.
	window []uint16
	idx    int

	// history is a ConfirmWindow-wide bit register of spike results,
	// newest sample in bit 0.
	history uint32
	mask    uint32

	smoothed  float64
	average   float64
	lastShift uint32
	primed    bool
	confirmed bool
}

// NewQualifier creates a Qualifier with the given control constants.
func NewQualifier(cfg Config) *Qualifier {
	return &Qualifier{
		cfg:    cfg,
		window: make([]uint16, cfg.FilterWindow),
		mask:   (1 << uint(cfg.ConfirmWindow)) - 1,
	}
}

// Sample consumes one raw reading and returns the confirmed detection
// state. Readings are rate-limited: if less than SampleInterval has passed
// since the last accepted reading, the raw value is discarded and the
// previously confirmed value is held.
func (q *Qualifier) Sample(now uint32, raw uint16) bool {
	if q.primed && Elapsed(now, q.lastShift) < q.cfg.SampleInterval {
		return q.confirmed
	}
	q.primed = true
	q.lastShift = now

	q.window[q.idx] = raw
	q.idx = (q.idx + 1) % len(q.window)

	var sum int
	for _, v := range q.window {
		sum += int(v)
	}
	q.average = float64(sum) / float64(len(q.window))

	// Single-pole smoothing: lean toward the baseline so one noisy sample
	// cannot spike on its own.
	q.smoothed = q.average*q.cfg.Smoothing + float64(raw)*(1-q.cfg.Smoothing)

	threshold := q.cfg.SpikeMultiplier * math.Max(q.cfg.MinThreshold, q.average)
	spike := q.smoothed > threshold

	q.history <<= 1
	if spike {
		q.history |= 1
	}
	q.history &= q.mask

	q.confirmed = q.history == q.mask
	return q.confirmed
}

// Confirmed returns the current debounced detection state.
func (q *Qualifier) Confirmed() bool {
	return q.confirmed
}

// Spiking reports whether the most recent accepted sample spiked.
// Drives the raw-activity indicator.
func (q *Qualifier) Spiking() bool {
	return q.history&1 == 1
}

// Average returns the current moving-average baseline.
func (q *Qualifier) Average() float64 {
	return q.average
}
