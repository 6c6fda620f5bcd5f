package mqtt

import "log"

// queuedMsg holds a serialized message waiting for the broker to come back.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox is a bounded FIFO for messages that could not be delivered. When
// full it drops the oldest entry, so a long outage keeps the most recent
// history. Not safe for concurrent use; the caller synchronizes.
type outbox struct {
	msgs    []queuedMsg
	bound   int
	dropped bool // a drop was logged since the last drain
}

func newOutbox(bound int) *outbox {
	return &outbox{bound: bound}
}

func (o *outbox) push(m queuedMsg) {
	if len(o.msgs) == o.bound {
		if !o.dropped {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.bound)
			o.dropped = true
		}
		copy(o.msgs, o.msgs[1:])
		o.msgs[len(o.msgs)-1] = m
		return
	}
	o.msgs = append(o.msgs, m)
}

func (o *outbox) drainAll() []queuedMsg {
	if len(o.msgs) == 0 {
		return nil
	}
	out := o.msgs
	o.msgs = nil
	o.dropped = false
	return out
}

func (o *outbox) len() int {
	return len(o.msgs)
}
