package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/mrzor/tunnel-log-combiner/internal/correlate"
)

// ErrUnknownKind is returned for events that no output format can render.
var ErrUnknownKind = errors.New("unknown event kind")

// Formatter writes a timeline to w.
type Formatter interface {
	Format(w io.Writer, events []correlate.Event) error
}

// Format names accepted by NewFormatter.
const (
	FormatText       = "text"
	FormatJSONLines  = "jsonl"
	defaultFormatter = FormatText
)

// NewFormatter returns the formatter registered under name.
// An empty name selects the text formatter.
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", defaultFormatter:
		return &TextFormatter{}, nil
	case FormatJSONLines:
		return &JSONLinesFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", name, FormatText, FormatJSONLines)
	}
}

// checkKind rejects events that have no rendering.
func checkKind(ev correlate.Event) error {
	switch ev.Kind {
	case correlate.KindSent, correlate.KindArrived, correlate.KindLatency:
		return nil
	default:
		return fmt.Errorf("%w: %d (packet %d)", ErrUnknownKind, int(ev.Kind), ev.PacketID)
	}
}
