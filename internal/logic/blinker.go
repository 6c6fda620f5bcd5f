package logic

// Blinker toggles an LED on a countdown. The on-phase is a fixed short
// flash; the off-phase is the period passed to Tick, so a long period
// reads as a rare heartbeat flash and a short period as fast pulsing.
type Blinker struct {
	flash     uint32
	remaining uint32
	last      uint32
	on        bool
	primed    bool
}

// NewBlinker creates a Blinker with the given flash (on-phase) duration.
func NewBlinker(flash uint32) *Blinker {
	return &Blinker{flash: flash}
}

// Tick ages the current phase and toggles the LED on expiry. period
// governs the off-phase length and may differ between calls; the phase in
// progress keeps its original duration. Returns the LED level.
func (b *Blinker) Tick(now, period uint32) bool {
	if !b.primed {
		b.primed = true
		b.last = now
	}
	b.remaining = Countdown(b.remaining, Elapsed(now, b.last))
	b.last = now

	if b.remaining == 0 {
		b.on = !b.on
		if b.on {
			b.remaining = b.flash
		} else {
			b.remaining = period
		}
	}
	return b.on
}

// On returns the current LED level without advancing the phase.
func (b *Blinker) On() bool {
	return b.on
}
