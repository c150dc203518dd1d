package correlate

import (
	"fmt"
	"strings"
)

// IntegrityViolation reports a packet whose size differs between the two logs.
type IntegrityViolation struct {
	PacketID    int64
	SentSize    int64
	ArrivedSize int64
}

func (e *IntegrityViolation) Error() string {
	return fmt.Sprintf("packet %d came into tunnel with size %d but left with size %d",
		e.PacketID, e.SentSize, e.ArrivedSize)
}

// Violations collects every IntegrityViolation of a run when
// Options.CollectViolations is set.
type Violations []*IntegrityViolation

func (v Violations) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	msgs := make([]string, len(v))
	for i, iv := range v {
		msgs[i] = iv.Error()
	}
	return fmt.Sprintf("%d packets changed size in transit:\n%s", len(v), strings.Join(msgs, "\n"))
}

// Unwrap exposes the individual violations to errors.As and errors.Is.
func (v Violations) Unwrap() []error {
	errs := make([]error, len(v))
	for i, iv := range v {
		errs[i] = iv
	}
	return errs
}
