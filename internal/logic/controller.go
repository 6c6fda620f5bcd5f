package logic

// Controller is the top-level control state machine. Each Tick it ages the
// active countdowns, qualifies the motion input, drives the status LED, and
// runs one state step: IDLE evaluates its guards, the other states perform
// their entry action and fall back to IDLE.
//
// Not safe for concurrent use; the control loop owns it exclusively.
type Controller struct {
	cfg       Config
	qualifier *Qualifier
	blinker   *Blinker

	state  State
	last   uint32
	primed bool

	delayRemaining   uint32
	delayArmed       bool
	runRemaining     uint32
	lockoutRemaining uint32
	blindRemaining   uint32
	settleRemaining  uint32

	fanRunning bool
	relay      bool
	led        bool

	// manual marks a pending ACTIVATE/RESET as pushbutton-triggered.
	manual bool

	counts EventCounts
}

// NewController creates a Controller in IDLE with all outputs off.
func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:       cfg,
		qualifier: NewQualifier(cfg),
		blinker:   NewBlinker(cfg.FlashTime),
		state:     StateIdle,
	}
}

// Tick runs one control cycle at the given clock reading and returns the
// output levels plus any transition events that occurred.
func (c *Controller) Tick(now uint32, in Input) (Output, []Event) {
	var elapsed uint32
	if c.primed {
		elapsed = Elapsed(now, c.last)
	}
	c.primed = true
	c.last = now

	if c.delayArmed {
		c.delayRemaining = Countdown(c.delayRemaining, elapsed)
	}
	if c.fanRunning {
		c.runRemaining = Countdown(c.runRemaining, elapsed)
	}
	c.lockoutRemaining = Countdown(c.lockoutRemaining, elapsed)
	c.blindRemaining = Countdown(c.blindRemaining, elapsed)

	// Settle pause: the rest of the cycle is suspended until it expires.
	// Inputs are not sampled, mirroring a hard debounce delay.
	if c.settleRemaining > 0 {
		c.settleRemaining = Countdown(c.settleRemaining, elapsed)
		if c.settleRemaining > 0 {
			return c.output(), nil
		}
	}

	motion := c.qualifier.Sample(now, in.Motion)
	if c.blindRemaining > 0 {
		motion = false
	}

	// Status LED: solid while the fan runs, fast pulse while the activation
	// delay counts down, slow heartbeat otherwise.
	switch {
	case c.fanRunning:
		c.led = true
	case c.delayArmed && c.delayRemaining > 0:
		c.led = c.blinker.Tick(now, c.cfg.WaitingBlink)
	default:
		c.led = c.blinker.Tick(now, c.cfg.HeartbeatBlink)
	}

	var events []Event
	next := c.state

	switch c.state {
	case StateIdle:
		switch {
		case motion && c.lockoutRemaining == 0:
			next = StateDetected
			events = c.record(events, Event{Type: EventMotionConfirmed})
		case in.Button && !c.fanRunning:
			next = StateActivate
			c.manual = true
		case c.delayArmed && c.delayRemaining == 0:
			next = StateActivate
		case in.Button && c.fanRunning:
			next = StateReset
			c.manual = true
		case c.fanRunning && c.runRemaining == 0:
			next = StateReset
		}

	case StateDetected:
		if c.fanRunning {
			// Motion during an active run: restart the run timer.
			next = StateActivate
		} else {
			c.delayRemaining = c.cfg.DelayTime
			c.delayArmed = true
			c.lockoutRemaining = c.cfg.RedetectLockout
			events = c.record(events, Event{Type: EventDelayArmed})
			next = StateIdle
		}

	case StateActivate:
		c.relay = true
		c.led = true
		c.fanRunning = true
		c.runRemaining = c.cfg.RunTime
		c.delayRemaining = 0
		c.delayArmed = false
		c.settleRemaining = c.cfg.SettleTime
		events = c.record(events, Event{Type: EventFanOn, Manual: c.manual})
		c.manual = false
		next = StateIdle

	case StateReset:
		c.relay = false
		c.led = false
		c.fanRunning = false
		c.runRemaining = 0
		c.blindRemaining = c.cfg.MotionBlind
		if c.manual {
			// A manual stop waits out the full blind period before
			// accepting any input again.
			c.settleRemaining = c.cfg.MotionBlind
		} else {
			c.settleRemaining = c.cfg.SettleTime
		}
		events = c.record(events, Event{Type: EventFanOff, Manual: c.manual})
		c.manual = false
		next = StateIdle
	}

	c.state = next
	return c.output(), events
}

func (c *Controller) record(events []Event, e Event) []Event {
	switch e.Type {
	case EventMotionConfirmed:
		c.counts.MotionConfirmed++
	case EventDelayArmed:
		c.counts.DelayArmed++
	case EventFanOn:
		c.counts.FanOn++
	case EventFanOff:
		c.counts.FanOff++
	}
	return append(events, e)
}

func (c *Controller) output() Output {
	return Output{
		Relay:       c.relay,
		StatusLED:   c.led,
		ActivityLED: c.qualifier.Spiking(),
	}
}

// State returns the current control state.
func (c *Controller) State() State {
	return c.state
}

// FanRunning reports whether the fan is currently running.
func (c *Controller) FanRunning() bool {
	return c.fanRunning
}

// MotionConfirmed returns the qualifier's debounced detection state.
func (c *Controller) MotionConfirmed() bool {
	return c.qualifier.Confirmed()
}

// Timers returns the remaining time on each countdown.
func (c *Controller) Timers() Timers {
	return Timers{
		Delay:   c.delayRemaining,
		Run:     c.runRemaining,
		Lockout: c.lockoutRemaining,
		Blind:   c.blindRemaining,
		Settle:  c.settleRemaining,
	}
}

// Counts returns the transition event counts since startup.
func (c *Controller) Counts() EventCounts {
	return c.counts
}
