package correlate

// Kind identifies the three event types of the combined timeline.
type Kind int

const (
	// KindSent marks a packet leaving the sender.
	KindSent Kind = iota
	// KindArrived marks a packet reaching the receiver.
	KindArrived
	// KindLatency is an arrival annotated with its transit time.
	KindLatency
)

func (k Kind) String() string {
	switch k {
	case KindSent:
		return "sent"
	case KindArrived:
		return "arrived"
	case KindLatency:
		return "latency"
	default:
		return "unknown"
	}
}

// Event is one entry of the combined timeline. All timestamps are in the
// sender's time base.
type Event struct {
	Kind      Kind
	PacketID  int64
	Timestamp int64
	Size      int64
	// Delta is the transit time, only set on KindLatency events.
	Delta int64
}

// SentAt returns the departure timestamp of the packet. For Sent events this
// is the event timestamp itself; for Latency events it is derived from Delta.
// Arrived events do not carry it and return their own timestamp.
func (e Event) SentAt() int64 {
	if e.Kind == KindLatency {
		return e.Timestamp - e.Delta
	}
	return e.Timestamp
}
