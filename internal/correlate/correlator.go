package correlate

import (
	"fmt"

	"github.com/mrzor/tunnel-log-combiner/internal/timesync"
	"github.com/mrzor/tunnel-log-combiner/internal/tunnellog"
)

// Options tune the failure policy of a Correlator.
type Options struct {
	// CollectViolations keeps going after a size mismatch and reports all
	// mismatches at the end instead of stopping at the first one.
	CollectViolations bool
}

// Summary counts what a correlation run saw.
type Summary struct {
	Sent       int
	Matched    int
	Unmatched  int
	Violations int
	MinLatency int64
	MaxLatency int64
	sumLatency int64
}

// MeanLatency returns the average transit time of matched packets, or 0.
func (s Summary) MeanLatency() float64 {
	if s.Matched == 0 {
		return 0
	}
	return float64(s.sumLatency) / float64(s.Matched)
}

func (s *Summary) addLatency(delta int64) {
	if s.Matched == 0 || delta < s.MinLatency {
		s.MinLatency = delta
	}
	if s.Matched == 0 || delta > s.MaxLatency {
		s.MaxLatency = delta
	}
	s.Matched++
	s.sumLatency += delta
}

// Result is the outcome of a correlation run.
type Result struct {
	Events    []Event
	Converter *timesync.Converter
	Summary   Summary
}

// Correlator walks an egress log against an ArrivalTable.
type Correlator struct {
	arrivals *ArrivalTable
	opts     Options
}

// New creates a Correlator for a fully built ArrivalTable.
func New(arrivals *ArrivalTable, opts Options) *Correlator {
	return &Correlator{
		arrivals: arrivals,
		opts:     opts,
	}
}

// Correlate reads every egress record and produces the combined timeline.
//
// On a size mismatch it returns a nil Result and the *IntegrityViolation,
// unless Options.CollectViolations is set; then it returns the full Result
// together with a Violations error. Errors from the egress source are
// returned as is.
func (c *Correlator) Correlate(egress RecordSource) (*Result, error) {
	conv := timesync.NewConverter(egress.Header().Reference, c.arrivals.Reference())
	res := &Result{Converter: conv}

	var violations Violations
	for egress.Next() {
		sent := egress.Record()
		res.Events = append(res.Events, Event{
			Kind:      KindSent,
			PacketID:  sent.PacketID,
			Timestamp: sent.Timestamp,
			Size:      sent.Size,
		})
		res.Summary.Sent++

		arrival, ok := c.arrivals.Lookup(sent.PacketID)
		if !ok {
			res.Summary.Unmatched++
			continue
		}

		if arrival.Size != sent.Size {
			v := &IntegrityViolation{
				PacketID:    sent.PacketID,
				SentSize:    sent.Size,
				ArrivedSize: arrival.Size,
			}
			if !c.opts.CollectViolations {
				return nil, v
			}
			violations = append(violations, v)
			res.Summary.Violations++
			continue
		}

		translated := conv.ToSenderBase(arrival.Timestamp)
		delta := translated - sent.Timestamp
		res.Events = append(res.Events,
			Event{
				Kind:      KindArrived,
				PacketID:  sent.PacketID,
				Timestamp: translated,
				Size:      sent.Size,
			},
			Event{
				Kind:      KindLatency,
				PacketID:  sent.PacketID,
				Timestamp: translated,
				Size:      sent.Size,
				Delta:     delta,
			},
		)
		res.Summary.addLatency(delta)
	}
	if err := egress.Err(); err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return res, violations
	}
	return res, nil
}

// Files correlates the logs at the two paths. The ingress log is read to
// completion and closed before the egress log is opened.
func Files(ingressPath, egressPath string, opts Options) (*Result, error) {
	arrivals, err := loadArrivals(ingressPath)
	if err != nil {
		return nil, err
	}

	egress, err := tunnellog.Open(egressPath)
	if err != nil {
		return nil, fmt.Errorf("egress log: %w", err)
	}
	defer func() {
		_ = egress.Close() //nolint:errcheck // Read-only file, defer cleanup
	}()

	return New(arrivals, opts).Correlate(egress)
}

func loadArrivals(path string) (*ArrivalTable, error) {
	ingress, err := tunnellog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingress log: %w", err)
	}
	defer func() {
		_ = ingress.Close() //nolint:errcheck // Read-only file, defer cleanup
	}()

	return BuildArrivalTable(ingress)
}
