package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/mrzor/tunnel-log-combiner/internal/correlate"
	"github.com/valyala/fastjson"
)

// JSONLinesFormatter writes one JSON object per event:
//
//	{"kind":"latency","packet":1,"ts":150,"size":10,"delta":30}
//
// "delta" is only present on latency events. There is no header line.
type JSONLinesFormatter struct{}

// Format writes every event as a JSON line.
func (f *JSONLinesFormatter) Format(w io.Writer, events []correlate.Event) error {
	bw := bufio.NewWriter(w)

	var arena fastjson.Arena
	var buf []byte
	for _, ev := range events {
		if err := checkKind(ev); err != nil {
			return err
		}
		arena.Reset()
		buf = eventValue(&arena, ev).MarshalTo(buf[:0])
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

func eventValue(a *fastjson.Arena, ev correlate.Event) *fastjson.Value {
	obj := a.NewObject()
	obj.Set("kind", a.NewString(ev.Kind.String()))
	obj.Set("packet", a.NewNumberString(strconv.FormatInt(ev.PacketID, 10)))
	obj.Set("ts", a.NewNumberString(strconv.FormatInt(ev.Timestamp, 10)))
	obj.Set("size", a.NewNumberString(strconv.FormatInt(ev.Size, 10)))
	if ev.Kind == correlate.KindLatency {
		obj.Set("delta", a.NewNumberString(strconv.FormatInt(ev.Delta, 10)))
	}
	return obj
}
