// combine-tunnel-logs merges the ingress and egress logs of a packet tunnel
// into one timeline in the sender's time base.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrzor/tunnel-log-combiner/internal/config"
	"github.com/mrzor/tunnel-log-combiner/internal/correlate"
	"github.com/mrzor/tunnel-log-combiner/internal/filter"
	"github.com/mrzor/tunnel-log-combiner/internal/otel"
	"github.com/mrzor/tunnel-log-combiner/internal/output"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

// Version information injected at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd, err := newRootCommand(".env")
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// newRootCommand builds the CLI. Environment and .env values are loaded
// first so that they become the flag defaults.
func newRootCommand(dotenvPath string) (*cobra.Command, error) {
	cfg, err := config.Load(dotenvPath)
	if err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:   "combine-tunnel-logs",
		Short: "Merge tunnel ingress and egress logs into one timeline",
		Long: "combine-tunnel-logs correlates the egress log of mm-tunnelclient with the ingress log\n" +
			"of mm-tunnelserver by packet id and prints when each packet left, when it arrived\n" +
			"and how long it took, all in the sender's time base.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}
	cfg.AddFlags(cmd)

	return cmd, nil
}

func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	formatter, err := output.NewFormatter(cfg.Format)
	if err != nil {
		return err
	}
	eventFilter, err := filter.New(cfg.Filter)
	if err != nil {
		return err
	}

	res, corrErr := correlate.Files(cfg.IngressLog, cfg.EgressLog, correlate.Options{
		CollectViolations: cfg.KeepGoing,
	})
	if res == nil {
		return corrErr
	}

	events, err := eventFilter.Apply(res.Events)
	if err != nil {
		return err
	}

	if err := formatter.Format(stdout, events); err != nil {
		return err
	}

	if cfg.OTLP {
		if err := exportSpans(ctx, cfg, eventFilter, res); err != nil {
			return err
		}
	}

	if !cfg.Quiet {
		logSummary(res.Summary)
	}

	// With --keep-going the timeline is printed and the mismatches still fail
	// the run. main logs the returned Violations once.
	return corrErr
}

// setupOTEL initializes the OTEL provider and returns a tracer and cleanup function.
func setupOTEL() (trace.Tracer, func(), error) {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return nil, nil, err
	}

	tp, err := otel.InitProvider(otelCfg, version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OTEL provider: %w", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownProvider(shutdownCtx, tp); err != nil {
			log.Printf("Error shutting down OTEL provider: %v", err)
		}
	}

	return tp.Tracer("combine-tunnel-logs"), cleanup, nil
}

// exportSpans sends the timeline to the OTLP collector.
func exportSpans(ctx context.Context, cfg *config.Config, eventFilter *filter.Filter, res *correlate.Result) error {
	tracer, cleanup, err := setupOTEL()
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := exportTimeline(ctx, tracer, cfg, eventFilter, res)
	if err != nil {
		return err
	}
	log.Printf("Exported %d packet spans", n)

	return nil
}

// exportTimeline turns the selected packets into spans. Spans need every
// event of a packet to tell transits from lost packets, so the filter picks
// whole packets instead of single events.
func exportTimeline(ctx context.Context, tracer trace.Tracer, cfg *config.Config, eventFilter *filter.Filter, res *correlate.Result) (int, error) {
	anchor, err := cfg.AnchorTime(time.Now())
	if err != nil {
		return 0, err
	}

	packets, err := eventFilter.ApplyPackets(res.Events)
	if err != nil {
		return 0, err
	}

	exporter := output.NewSpanExporter(tracer, res.Converter.WithWallClock(anchor, cfg.TimeUnit))
	return exporter.Export(ctx, packets), nil
}

func logSummary(s correlate.Summary) {
	log.Printf("Correlated %d sent packets: %d arrived, %d never arrived, %d changed size",
		s.Sent, s.Matched, s.Unmatched, s.Violations)
	if s.Matched > 0 {
		log.Printf("Latency: min=%d mean=%.1f max=%d", s.MinLatency, s.MeanLatency(), s.MaxLatency)
	}
}
