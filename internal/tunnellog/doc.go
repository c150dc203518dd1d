// Package tunnellog reads the packet logs written by the tunnel endpoints.
//
// Both the ingress log (receiver side) and the egress log (sender side) share
// one format:
//
//	# mahimahi mm-tunnelserver ingress: 1234    <- header, colon-separated
//	1250 - 17 - 1500                          <- timestamp - packet id - size
//
// The header carries the reference timestamp: the process-local clock value
// at the moment the log was opened. Every data line is stamped with the same
// clock. Whitespace around fields is ignored and leading zeros are accepted.
//
// Logs whose path ends in ".zst" are decompressed on the fly.
package tunnellog
