// Package filter selects timeline events with an expr-lang expression.
//
// Expressions see one event at a time through these variables:
//
//	kind    string  "sent", "arrived" or "latency"
//	packet  int     packet id
//	ts      int     timestamp in the sender time base
//	size    int     packet size in bytes
//	delta   int     transit time (latency events only, 0 otherwise)
//
// Example: kind == "latency" && delta > 100
package filter
