package tunnellog

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Header
		wantErr error
	}{
		{
			name: "mahimahi ingress header",
			line: "# mahimahi mm-tunnelserver ingress: 1234",
			want: Header{Labels: []string{"# mahimahi mm-tunnelserver ingress"}, Reference: 1234},
		},
		{
			name: "plain labels",
			line: "log:start:50",
			want: Header{Labels: []string{"log", "start"}, Reference: 50},
		},
		{
			name: "whitespace and carriage return",
			line: "log:start: 0050 \r",
			want: Header{Labels: []string{"log", "start"}, Reference: 50},
		},
		{
			name:    "no separator",
			line:    "50",
			wantErr: ErrFieldCount,
		},
		{
			name:    "too many fields",
			line:    "a:b:c:50",
			wantErr: ErrFieldCount,
		},
		{
			name:    "non-numeric timestamp",
			line:    "log:start:soon",
			wantErr: strconv.ErrSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHeader(tt.line)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Record
		wantErr error
	}{
		{
			name: "compact",
			line: "200-1-10",
			want: Record{Timestamp: 200, PacketID: 1, Size: 10},
		},
		{
			name: "spaced as written by the tunnel",
			line: "1250 - 17 - 1500",
			want: Record{Timestamp: 1250, PacketID: 17, Size: 1500},
		},
		{
			name: "leading zeros and padding",
			line: " 007 - 007 - 007 ",
			want: Record{Timestamp: 7, PacketID: 7, Size: 7},
		},
		{
			name:    "blank line",
			line:    "",
			wantErr: ErrFieldCount,
		},
		{
			name:    "two fields",
			line:    "200-1",
			wantErr: ErrFieldCount,
		},
		{
			name:    "four fields",
			line:    "200-1-10-4",
			wantErr: ErrFieldCount,
		},
		{
			name:    "non-numeric size",
			line:    "200-1-ten",
			wantErr: strconv.ErrSyntax,
		},
		{
			name:    "overflowing packet id",
			line:    "200-99999999999999999999-10",
			wantErr: strconv.ErrRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.line)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
