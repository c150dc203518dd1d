package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mrzor/tunnel-log-combiner/internal/correlate"
	"github.com/mrzor/tunnel-log-combiner/internal/tunnellog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func combine(t *testing.T, ingress, egress string) []correlate.Event {
	t.Helper()
	in, err := tunnellog.NewReader("ingress.log", strings.NewReader(ingress))
	require.NoError(t, err)
	table, err := correlate.BuildArrivalTable(in)
	require.NoError(t, err)

	out, err := tunnellog.NewReader("egress.log", strings.NewReader(egress))
	require.NoError(t, err)
	res, err := correlate.New(table, correlate.Options{}).Correlate(out)
	require.NoError(t, err)
	return res.Events
}

func TestTextFormatter_EndToEnd(t *testing.T) {
	events := combine(t, "log:start:50\n200-1-10\n", "log:start:100\n120-1-10\n")

	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, events))

	want := "# base timestamp: 0\n" +
		"120 + 10\n" +
		"150 # 10\n" +
		"150 - 10 30\n"
	assert.Equal(t, want, buf.String())
}

func TestTextFormatter_Unmatched(t *testing.T) {
	events := combine(t, "log:start:50\n200-1-10\n", "log:start:100\n120-1-10\n130-2-20\n")

	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, events))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "130 + 20", lines[len(lines)-1])
	for _, line := range lines {
		assert.NotContains(t, line, "# 20")
		assert.NotContains(t, line, "- 20")
	}
}

func TestTextFormatter_Canonicalizes(t *testing.T) {
	events := combine(t, "log:start:0\n 0200 - 007 - 0010 \n", "log:start:0\n 007 - 007 - 0010 \n")

	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, events))

	assert.Equal(t, "# base timestamp: 0\n7 + 10\n200 # 10\n200 - 10 193\n", buf.String())
}

func TestTextFormatter_EmptyTimeline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, nil))
	assert.Equal(t, BaseHeader+"\n", buf.String())
}

func TestAppendTextLine(t *testing.T) {
	tests := []struct {
		name string
		ev   correlate.Event
		want string
	}{
		{
			name: "sent",
			ev:   correlate.Event{Kind: correlate.KindSent, Timestamp: 120, Size: 10},
			want: "120 + 10",
		},
		{
			name: "arrived",
			ev:   correlate.Event{Kind: correlate.KindArrived, Timestamp: 150, Size: 10},
			want: "150 # 10",
		},
		{
			name: "latency",
			ev:   correlate.Event{Kind: correlate.KindLatency, Timestamp: 150, Size: 10, Delta: 30},
			want: "150 - 10 30",
		},
		{
			name: "negative translated timestamp",
			ev:   correlate.Event{Kind: correlate.KindLatency, Timestamp: -5, Size: 1, Delta: 2},
			want: "-5 - 1 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AppendTextLine(nil, tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextFormatter_WriteError(t *testing.T) {
	events := []correlate.Event{{Kind: correlate.KindSent, Timestamp: 1, Size: 1}}
	err := (&TextFormatter{}).Format(failingWriter{}, events)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)
	assert.IsType(t, &TextFormatter{}, f)

	f, err = NewFormatter(FormatJSONLines)
	require.NoError(t, err)
	assert.IsType(t, &JSONLinesFormatter{}, f)

	_, err = NewFormatter("xml")
	assert.Error(t, err)
}

func TestAppendTextLine_UnknownKind(t *testing.T) {
	got, err := AppendTextLine([]byte("keep"), correlate.Event{Kind: correlate.Kind(7), PacketID: 3, Timestamp: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "keep", string(got))
}

func TestTextFormatter_UnknownKind(t *testing.T) {
	events := []correlate.Event{
		{Kind: correlate.KindSent, Timestamp: 1, Size: 1},
		{Kind: correlate.Kind(7), Timestamp: 2, Size: 2},
	}

	var buf bytes.Buffer
	err := (&TextFormatter{}).Format(&buf, events)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Empty(t, buf.String(), "nothing is flushed once a line cannot be rendered")
}
