// Package timesync reconciles the clocks of the two tunnel endpoints.
//
// Each endpoint stamps its log with a private clock and records the clock
// reading at log start in the header (the reference timestamp). Data line
// timestamps count from that reference, so a sender line and a receiver line
// with the same value did not happen at the same instant unless both logs
// were opened at once. The Converter shifts receiver timestamps by the
// difference of the two references so that both logs share the sender's
// time base. Clock drift is not corrected: both clocks are assumed to advance
// at the same rate.
//
// For exporters that need absolute times, the Converter also maps sender
// timestamps to wall-clock time from an anchor (the wall-clock instant of the
// sender reference) and a tick unit.
package timesync
