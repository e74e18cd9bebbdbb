package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/prepoint/internal/config"
	"github.com/signalsfoundry/prepoint/internal/job"
	"github.com/signalsfoundry/prepoint/internal/logging"
	"github.com/signalsfoundry/prepoint/internal/observability"
	"github.com/signalsfoundry/prepoint/session"
	"github.com/signalsfoundry/prepoint/timectrl"
)

// Options are the command-line inputs of one run.
type Options struct {
	ConfigPath   string
	JobPath      string
	SharpCapPath string // "-" reads the block from stdin
	Now          string // RFC3339; empty means the wall clock
}

func main() {
	var opts Options
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to a prepoint.yaml config file")
	flag.StringVar(&opts.JobPath, "job", "", "Path to a TOML job file with site, target and plate texts")
	flag.StringVar(&opts.SharpCapPath, "sharpcap", "", "SharpCap plate solution text file, or - for stdin")
	flag.StringVar(&opts.Now, "now", "", "Pin the clock to this RFC3339 instant")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "prepoint:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts Options, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logCfg := cfg.Logging()
	logCfg.Output = stderr
	log := logging.New(logCfg)
	ctx = logging.ContextWithLogger(ctx, log)

	tracerCfg := cfg.Tracer()
	tracerCfg.Writer = stderr
	shutdown, err := observability.InitTracing(ctx, tracerCfg, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewPointingCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	clock, err := clockFor(opts.Now)
	if err != nil {
		return err
	}

	s := session.New(
		session.WithClock(clock),
		session.WithLogger(log),
		session.WithMetricsRecorder(collector),
		session.WithRotationTolerance(cfg.Pointing.RotationToleranceDeg),
		session.WithSecondsPlaces(cfg.Pointing.SecondsPlaces),
	)

	if opts.JobPath != "" {
		j, err := job.Load(opts.JobPath)
		if err != nil {
			return err
		}
		if err := j.Apply(ctx, s); err != nil {
			log.Warn(ctx, "job applied with refusals", logging.Err(err))
		}
	}

	if opts.SharpCapPath != "" {
		text, err := readSharpCap(opts.SharpCapPath, stdin)
		if err != nil {
			return err
		}
		if _, err := s.ImportSharpCap(ctx, text); err != nil {
			return fmt.Errorf("import sharpcap: %w", err)
		}
	}

	writeReadbacks(stdout, s)

	var moveErr error
	if report, err := s.Move(ctx); err != nil {
		fmt.Fprintf(stdout, "move      %s\n", session.NoData)
		moveErr = err
	} else {
		writeMove(stdout, report)
	}

	if cfg.Metrics.Dump {
		fmt.Fprintln(stdout)
		if err := collector.WriteText(stdout); err != nil {
			return err
		}
	}
	return moveErr
}

func clockFor(now string) (timectrl.Clock, error) {
	if now == "" {
		return timectrl.SystemClock{}, nil
	}
	t, err := time.Parse(time.RFC3339, now)
	if err != nil {
		return nil, fmt.Errorf("parse -now: %w", err)
	}
	return timectrl.NewManualClock(t), nil
}

func readSharpCap(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		if stdin == nil {
			return "", errors.New("read sharpcap: no stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read sharpcap: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read sharpcap: %w", err)
	}
	return string(data), nil
}
