package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/columnwatch/internal/checks"
	"github.com/alexanderjulianmartinez/columnwatch/internal/config"
	"github.com/alexanderjulianmartinez/columnwatch/internal/logging"
	"github.com/alexanderjulianmartinez/columnwatch/internal/metrics"
	"github.com/alexanderjulianmartinez/columnwatch/internal/sink"
	"github.com/alexanderjulianmartinez/columnwatch/internal/source/sqldb"
	"github.com/alexanderjulianmartinez/columnwatch/internal/suite"
	"github.com/alexanderjulianmartinez/columnwatch/internal/telemetry"
	"github.com/alexanderjulianmartinez/columnwatch/pkg/types"
)

var errUnhealthy = errors.New("one or more checks did not succeed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "columnwatch error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 2 {
		printUsage(stdout)
		return nil
	}

	switch args[1] {
	case "check":
		return runCheck(ctx, args[2:], stdout, stderr)
	case "kinds":
		return runKinds(stdout)
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

func runCheck(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config.yaml")
	metricsFile := fs.String("metrics-file", "", "Write Prometheus metrics to this file")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath == "" {
		return fmt.Errorf("missing required flag: --config")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, *verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	src, err := sqldb.Open(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	tel := telemetry.New()
	runner := suite.NewRunner(checks.NewRegistry(logger), src, src,
		suite.WithLogger(logger),
		suite.WithConcurrency(cfg.Concurrency),
		suite.WithMetrics(tel),
	)

	logger.Info("running checks",
		zap.String("source", cfg.Source.Type),
		zap.Int("tables", len(cfg.Tables)),
		zap.Int("concurrency", cfg.Concurrency))

	report, err := runner.Run(ctx, cfg.Tables)
	if err != nil {
		return err
	}

	pub, err := sink.New(cfg.Output, stdout, logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	if err := pub.Publish(ctx, report); err != nil {
		return err
	}
	printSummary(stderr, report)

	if *metricsFile != "" {
		if err := tel.WriteTextfile(*metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if cfg.FailOnUnhealthy && !report.Healthy() {
		return errUnhealthy
	}
	return nil
}

func runKinds(w io.Writer) error {
	fmt.Fprintln(w, "Checks:")
	for _, kind := range checks.NewRegistry(zap.NewNop()).Kinds() {
		fmt.Fprintf(w, "  %s\n", kind)
	}
	fmt.Fprintln(w, "Metrics:")
	for _, name := range metrics.Names() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	return nil
}

func printSummary(w io.Writer, report *suite.Report) {
	for _, r := range report.Results {
		fmt.Fprintf(w, "[%s] %s/%s: %s\n", suite.SeverityForStatus(r.Outcome.Status), r.Table, r.Check, r.Outcome.Result)
	}
	counts := report.Summary()
	fmt.Fprintf(w, "run %s: %d success, %d failed, %d aborted\n", report.RunID,
		counts[types.StatusSuccess], counts[types.StatusFailed], counts[types.StatusAborted])
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `columnwatch - column data-quality checks

Usage:
  columnwatch check --config <path> [--metrics-file <path>] [--verbose]
  columnwatch kinds

Commands:
  check     Run the configured checks once and publish the outcomes
  kinds     List the supported check kinds and metrics
  help      Show this help message
`)
}
