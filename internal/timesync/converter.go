package timesync

import (
	"time"
)

// DefaultUnit is the tick of the tunnel logs.
const DefaultUnit = time.Millisecond

// Converter translates timestamps between the receiver and sender time bases.
type Converter struct {
	senderRef   int64
	receiverRef int64
	anchor      time.Time
	unit        time.Duration
}

// NewConverter creates a converter from the reference timestamps of the
// sender (egress) and receiver (ingress) logs.
// The wall-clock anchor defaults to the Unix epoch; see WithWallClock.
func NewConverter(senderRef, receiverRef int64) *Converter {
	return &Converter{
		senderRef:   senderRef,
		receiverRef: receiverRef,
		anchor:      time.Unix(0, 0),
		unit:        DefaultUnit,
	}
}

// WithWallClock returns a copy of the converter that places the sender
// reference at anchor and counts one timestamp tick as unit.
// A non-positive unit keeps DefaultUnit.
func (c *Converter) WithWallClock(anchor time.Time, unit time.Duration) *Converter {
	cp := *c
	cp.anchor = anchor
	if unit > 0 {
		cp.unit = unit
	}
	return &cp
}

// Offset returns sender reference minus receiver reference.
func (c *Converter) Offset() int64 {
	return c.senderRef - c.receiverRef
}

// ToSenderBase converts a receiver-side timestamp into the sender time base.
// This is a pure function of the two reference timestamps.
func (c *Converter) ToSenderBase(receiverTs int64) int64 {
	return receiverTs - c.Offset()
}

// WallClock converts a sender-base timestamp to wall-clock time.
func (c *Converter) WallClock(senderTs int64) time.Time {
	return c.anchor.Add(time.Duration(senderTs) * c.unit)
}

// Anchor returns the wall-clock time of the sender reference.
func (c *Converter) Anchor() time.Time {
	return c.anchor
}

// Unit returns the duration of one timestamp tick.
func (c *Converter) Unit() time.Duration {
	return c.unit
}
