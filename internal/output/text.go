package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/mrzor/tunnel-log-combiner/internal/correlate"
)

// BaseHeader opens the text output. All timestamps that follow are in the
// sender time base, whose origin is the sender's reference timestamp.
const BaseHeader = "# base timestamp: 0"

// TextFormatter writes the line format:
//
//	<ts> + <size>            sent
//	<ts> # <size>            arrived
//	<ts> - <size> <delta>    latency
type TextFormatter struct{}

// Format writes the header followed by one line per event.
func (f *TextFormatter) Format(w io.Writer, events []correlate.Event) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(BaseHeader + "\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var buf []byte
	for _, ev := range events {
		var err error
		buf, err = AppendTextLine(buf[:0], ev)
		if err != nil {
			return err
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// AppendTextLine appends the text rendering of ev, without newline, to dst.
// Events of an unknown kind have no line format and are rejected.
func AppendTextLine(dst []byte, ev correlate.Event) ([]byte, error) {
	if err := checkKind(ev); err != nil {
		return dst, err
	}

	dst = strconv.AppendInt(dst, ev.Timestamp, 10)
	switch ev.Kind {
	case correlate.KindSent:
		dst = append(dst, " + "...)
		dst = strconv.AppendInt(dst, ev.Size, 10)
	case correlate.KindArrived:
		dst = append(dst, " # "...)
		dst = strconv.AppendInt(dst, ev.Size, 10)
	case correlate.KindLatency:
		dst = append(dst, " - "...)
		dst = strconv.AppendInt(dst, ev.Size, 10)
		dst = append(dst, ' ')
		dst = strconv.AppendInt(dst, ev.Delta, 10)
	}
	return dst, nil
}
