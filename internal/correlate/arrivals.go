package correlate

import (
	"github.com/mrzor/tunnel-log-combiner/internal/tunnellog"
)

// RecordSource is the read side of a tunnel log.
// *tunnellog.Reader implements it.
type RecordSource interface {
	Header() tunnellog.Header
	Next() bool
	Record() tunnellog.Record
	Err() error
}

// Arrival is what the receiver recorded for one packet.
type Arrival struct {
	Timestamp int64
	Size      int64
}

// ArrivalTable maps packet ids to their arrival record.
// It is filled once by BuildArrivalTable and only queried afterwards.
type ArrivalTable struct {
	reference int64
	arrivals  map[int64]Arrival // packet id -> arrival
}

// BuildArrivalTable drains an ingress log. A duplicated packet id keeps the
// last line seen.
func BuildArrivalTable(ingress RecordSource) (*ArrivalTable, error) {
	t := &ArrivalTable{
		reference: ingress.Header().Reference,
		arrivals:  make(map[int64]Arrival),
	}

	for ingress.Next() {
		rec := ingress.Record()
		t.arrivals[rec.PacketID] = Arrival{Timestamp: rec.Timestamp, Size: rec.Size}
	}
	if err := ingress.Err(); err != nil {
		return nil, err
	}

	return t, nil
}

// Reference returns the receiver's reference timestamp.
func (t *ArrivalTable) Reference() int64 {
	return t.reference
}

// Lookup returns the arrival of a packet (query).
func (t *ArrivalTable) Lookup(packetID int64) (Arrival, bool) {
	a, ok := t.arrivals[packetID]
	return a, ok
}

// Len returns the number of distinct packets that arrived.
func (t *ArrivalTable) Len() int {
	return len(t.arrivals)
}
