package tunnellog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrFieldCount is returned when a line does not split into the expected number of fields.
	ErrFieldCount = errors.New("wrong field count")
	// ErrMissingHeader is returned for a log that does not even contain a header line.
	ErrMissingHeader = errors.New("missing header line")
)

const (
	headerSeparator = ":"
	recordSeparator = "-"
)

// Header is the first line of a log.
type Header struct {
	// Labels are the free-form fields in front of the reference timestamp.
	Labels []string
	// Reference is the clock reading when the log was started.
	Reference int64
}

// Record is one data line: a packet seen at Timestamp with Size bytes.
type Record struct {
	Timestamp int64
	PacketID  int64
	Size      int64
}

// ParseHeader parses a "label:label:timestamp" header line. The tunnel
// endpoints themselves write a single label ("# mahimahi ... ingress: 1234"),
// so two fields are accepted as well. The timestamp is always the last field.
func ParseHeader(line string) (Header, error) {
	fields := strings.Split(line, headerSeparator)
	if len(fields) < 2 || len(fields) > 3 {
		return Header{}, fmt.Errorf("%w: header wants 2 or 3 colon-separated fields, got %d", ErrFieldCount, len(fields))
	}

	last := len(fields) - 1
	ref, err := parseField("reference timestamp", fields[last])
	if err != nil {
		return Header{}, err
	}

	labels := make([]string, 0, last)
	for _, f := range fields[:last] {
		labels = append(labels, strings.TrimSpace(f))
	}

	return Header{Labels: labels, Reference: ref}, nil
}

// ParseRecord parses a "timestamp - packet_id - size" data line.
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(line, recordSeparator)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("%w: record wants 3 hyphen-separated fields, got %d", ErrFieldCount, len(fields))
	}

	ts, err := parseField("timestamp", fields[0])
	if err != nil {
		return Record{}, err
	}
	id, err := parseField("packet id", fields[1])
	if err != nil {
		return Record{}, err
	}
	size, err := parseField("size", fields[2])
	if err != nil {
		return Record{}, err
	}

	return Record{Timestamp: ts, PacketID: id, Size: size}, nil
}

// parseField reads a base-10 integer, ignoring surrounding whitespace.
func parseField(name, raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v, nil
}
