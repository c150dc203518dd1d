package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestParseOTELConfig_Defaults(t *testing.T) {
	cfg, err := ParseOTELConfig()
	require.NoError(t, err)
	assert.Equal(t, "combine-tunnel-logs", cfg.ServiceName)
}

func TestOTELConfig_GetEndpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  OTELConfig
		want string
	}{
		{name: "default", cfg: OTELConfig{}, want: "localhost:4318"},
		{name: "exporter endpoint", cfg: OTELConfig{ExporterEndpoint: "collector:4318"}, want: "collector:4318"},
		{
			name: "traces endpoint wins",
			cfg:  OTELConfig{ExporterEndpoint: "collector:4318", TracesEndpoint: "traces:4318"},
			want: "traces:4318",
		},
		{name: "scheme stripped", cfg: OTELConfig{ExporterEndpoint: "http://collector:4318/"}, want: "collector:4318"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.GetEndpoint())
		})
	}
}

func TestOTELConfig_ParseResourceAttributes(t *testing.T) {
	cfg := OTELConfig{ResourceAttributes: "deployment.environment=lab, host.name = box1 ,broken,=nokey"}

	assert.Equal(t, []attribute.KeyValue{
		attribute.String("deployment.environment", "lab"),
		attribute.String("host.name", "box1"),
	}, cfg.ParseResourceAttributes())

	assert.Empty(t, (&OTELConfig{}).ParseResourceAttributes())
}
