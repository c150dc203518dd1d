package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds the combiner settings.
type Config struct {
	// IngressLog is the receiver-side log written by mm-tunnelserver
	IngressLog string `env:"TUNNEL_INGRESS_LOG" envDefault:"/tmp/tunnelserver.ingress.log"`
	// EgressLog is the sender-side log written by mm-tunnelclient
	EgressLog string `env:"TUNNEL_EGRESS_LOG" envDefault:"/tmp/tunnelclient.egress.log"`
	// Format selects the output formatter (text or jsonl)
	Format string `env:"TUNNEL_OUTPUT_FORMAT" envDefault:"text"`
	// Filter is an optional expr-lang event selection expression
	Filter string `env:"TUNNEL_FILTER"`
	// KeepGoing reports every size mismatch instead of stopping at the first
	KeepGoing bool `env:"TUNNEL_KEEP_GOING"`
	// OTLP exports the timeline as OpenTelemetry spans
	OTLP bool `env:"TUNNEL_OTLP"`
	// TimeUnit is the duration of one log timestamp tick
	TimeUnit time.Duration `env:"TUNNEL_TIME_UNIT" envDefault:"1ms"`
	// Anchor is the RFC 3339 wall-clock time of the sender log start, used for spans
	Anchor string `env:"TUNNEL_ANCHOR"`
	// Quiet suppresses the run summary on stderr
	Quiet bool `env:"TUNNEL_QUIET"`
}

// Load reads the .env file at dotenvPath if it exists, then the environment.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", dotenvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return &cfg, nil
}

// AddFlags registers the command-line flags on cmd. Current field values
// become the flag defaults, so call it after Load.
func (c *Config) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.IngressLog, "ingress-log", "i", c.IngressLog, "Receiver-side (ingress) log, .zst accepted")
	flags.StringVarP(&c.EgressLog, "egress-log", "e", c.EgressLog, "Sender-side (egress) log, .zst accepted")
	flags.StringVarP(&c.Format, "format", "f", c.Format, "Output format: text|jsonl")
	flags.StringVar(&c.Filter, "filter", c.Filter, `Event filter expression, e.g. 'kind == "latency" && delta > 100'`)
	flags.BoolVar(&c.KeepGoing, "keep-going", c.KeepGoing, "Report all size mismatches instead of stopping at the first")
	flags.BoolVar(&c.OTLP, "otlp", c.OTLP, "Export packets as OpenTelemetry spans (OTEL_* env vars)")
	flags.DurationVar(&c.TimeUnit, "time-unit", c.TimeUnit, "Duration of one log timestamp tick")
	flags.StringVar(&c.Anchor, "anchor", c.Anchor, "RFC 3339 wall-clock time of the sender log start (default: now)")
	flags.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "Do not log the run summary")
}

// Validate checks values the flag parser cannot.
func (c *Config) Validate() error {
	if c.IngressLog == "" {
		return fmt.Errorf("ingress log path is required")
	}
	if c.EgressLog == "" {
		return fmt.Errorf("egress log path is required")
	}
	switch c.Format {
	case "text", "jsonl":
	default:
		return fmt.Errorf("invalid format %q: use text|jsonl", c.Format)
	}
	if c.TimeUnit <= 0 {
		return fmt.Errorf("time unit must be positive, got %s", c.TimeUnit)
	}
	if _, err := c.AnchorTime(time.Time{}); err != nil {
		return err
	}
	return nil
}

// AnchorTime parses Anchor, returning fallback when it is unset.
func (c *Config) AnchorTime(fallback time.Time) (time.Time, error) {
	if c.Anchor == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339Nano, c.Anchor)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid anchor %q: %w", c.Anchor, err)
	}
	return t, nil
}
