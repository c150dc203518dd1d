// Package correlate joins the egress and ingress logs of a tunnel into one
// timeline.
//
// The ingress log is consumed first into an ArrivalTable keyed by packet id.
// The egress log is then walked in file order; every sent packet yields a
// Sent event, and packets that also show up in the ArrivalTable yield an
// Arrived and a Latency event whose timestamps are translated into the
// sender's time base by timesync.Converter.
//
// Failure policy:
//   - a packet that never arrived is not an error, it only gets a Sent event
//   - a packet whose size changed in transit is an IntegrityViolation; by
//     default the correlation stops there, with Options.CollectViolations it
//     skips the packet's arrival events and reports every violation at the end
//   - parse errors from either log abort the correlation unchanged
//
// Events are kept in insertion order and never sorted.
package correlate
