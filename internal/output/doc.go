// Package output renders the combined timeline.
//
// Formatters write the events they are given, in the order given:
//   - TextFormatter: the canonical line format read by the plotting scripts
//   - JSONLinesFormatter: one JSON object per event
//
// SpanExporter is not a Formatter. It turns the timeline into OpenTelemetry
// spans, one per packet, timed with timesync wall-clock conversion.
//
// Nothing in this package sorts events.
package output
