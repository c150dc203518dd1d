package output

import (
	"context"

	"github.com/mrzor/tunnel-log-combiner/internal/correlate"
	"github.com/mrzor/tunnel-log-combiner/internal/timesync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names produced by SpanExporter.
const (
	SpanTimeline = "tunnel.timeline"
	SpanTransit  = "packet.transit"
	SpanSent     = "packet.sent"
)

// SpanExporter turns a timeline into OpenTelemetry spans.
//
// Every packet becomes a child of one tunnel.timeline span:
//   - packet.transit from departure to arrival for packets that arrived
//   - a zero-length packet.sent span for packets with no arrival
type SpanExporter struct {
	tracer    trace.Tracer
	converter *timesync.Converter
}

// NewSpanExporter creates an exporter. converter maps sender-base
// timestamps to wall-clock span times.
func NewSpanExporter(tracer trace.Tracer, converter *timesync.Converter) *SpanExporter {
	return &SpanExporter{
		tracer:    tracer,
		converter: converter,
	}
}

// Export starts and ends the spans for events and returns how many packet
// spans were created. Spans are handed to the tracer provider; flushing is
// the provider's job.
func (e *SpanExporter) Export(ctx context.Context, events []correlate.Event) int {
	if len(events) == 0 {
		return 0
	}

	first, last := timeBounds(events)
	ctx, root := e.tracer.Start(ctx, SpanTimeline,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(e.converter.WallClock(first)),
		trace.WithAttributes(
			attribute.Int64("tunnel.clock_offset", e.converter.Offset()),
			attribute.Int("tunnel.events", len(events)),
		),
	)

	count := 0
	var pending *correlate.Event
	for i := range events {
		ev := events[i]
		switch ev.Kind {
		case correlate.KindSent:
			if pending != nil {
				e.exportSent(ctx, *pending)
				count++
			}
			pending = &events[i]
		case correlate.KindLatency:
			if pending != nil && pending.PacketID == ev.PacketID {
				pending = nil
			}
			e.exportTransit(ctx, ev)
			count++
		}
	}
	if pending != nil {
		e.exportSent(ctx, *pending)
		count++
	}

	root.SetAttributes(attribute.Int("tunnel.packets", count))
	root.End(trace.WithTimestamp(e.converter.WallClock(last)))

	return count
}

// exportTransit creates the span of a packet that made it through.
func (e *SpanExporter) exportTransit(ctx context.Context, ev correlate.Event) {
	_, span := e.tracer.Start(ctx, SpanTransit,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithTimestamp(e.converter.WallClock(ev.SentAt())),
	)

	span.SetAttributes(
		attribute.Int64("packet.id", ev.PacketID),
		attribute.Int64("packet.size", ev.Size),
		attribute.Int64("packet.sent_ts", ev.SentAt()),
		attribute.Int64("packet.arrived_ts", ev.Timestamp),
		attribute.Int64("packet.latency", ev.Delta),
		attribute.Bool("packet.arrived", true),
	)
	span.SetStatus(codes.Ok, "Packet arrived")

	span.End(trace.WithTimestamp(e.converter.WallClock(ev.Timestamp)))
}

// exportSent creates the marker span of a packet with no arrival record.
func (e *SpanExporter) exportSent(ctx context.Context, ev correlate.Event) {
	start := e.converter.WallClock(ev.Timestamp)
	_, span := e.tracer.Start(ctx, SpanSent,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithTimestamp(start),
	)

	span.SetAttributes(
		attribute.Int64("packet.id", ev.PacketID),
		attribute.Int64("packet.size", ev.Size),
		attribute.Int64("packet.sent_ts", ev.Timestamp),
		attribute.Bool("packet.arrived", false),
	)

	span.End(trace.WithTimestamp(start))
}

// timeBounds returns the earliest departure and the latest event timestamp.
func timeBounds(events []correlate.Event) (int64, int64) {
	first, last := events[0].SentAt(), events[0].Timestamp
	for _, ev := range events[1:] {
		if s := ev.SentAt(); s < first {
			first = s
		}
		if ev.Timestamp > last {
			last = ev.Timestamp
		}
	}
	return first, last
}
