package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/hupe1980/qtensor"
	"github.com/hupe1980/qtensor/numa"
	"github.com/hupe1980/qtensor/quant"
)

type benchConfig struct {
	dtype       string
	scheme      string
	iterations  int64
	policy      string
	prefault    bool
	memoryLimit int64
	shapes      []Shape
}

var defaultShapes = []Shape{
	{Rows: 1, Cols: 4096},
	{Rows: 128, Cols: 4096},
	{Rows: 32, Cols: 4096},
	{Rows: 512, Cols: 4096},
	{Rows: 7, Cols: 4096},
}

type benchReport struct {
	RunID         string  `json:"run_id" yaml:"run_id"`
	DType         string  `json:"dtype" yaml:"dtype"`
	Scheme        string  `json:"scheme" yaml:"scheme"`
	Policy        string  `json:"policy" yaml:"policy"`
	Shapes        []Shape `json:"shapes" yaml:"shapes"`
	Iterations    int64   `json:"iterations" yaml:"iterations"`
	Resizes       int64   `json:"resizes" yaml:"resizes"`
	Reallocations int64   `json:"reallocations" yaml:"reallocations"`
	ReuseRatio    float64 `json:"reuse_ratio" yaml:"reuse_ratio"`
	AllocBytes    int64   `json:"alloc_bytes" yaml:"alloc_bytes"`
	AllocAvgNanos int64   `json:"alloc_avg_ns" yaml:"alloc_avg_ns"`
	PeakBytes     int64   `json:"peak_bytes" yaml:"peak_bytes"`
	Leaked        uint64  `json:"leaked" yaml:"leaked"`
	DurationNanos int64   `json:"duration_ns" yaml:"duration_ns"`
	NanosPerOp    int64   `json:"ns_per_resize" yaml:"ns_per_resize"`
}

func benchCmd() *cli.Command {
	var (
		cfg         benchConfig
		profilePath string
		shapeArgs   []string
	)

	flags := append([]cli.Flag{}, commonFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "YAML workload profile; flags override its values",
			Destination: &profilePath,
		},
		&cli.StringFlag{
			Name:        "dtype",
			Usage:       "element type (float32, float64, float16, bfloat16, int32, int8, uint8, w8a8)",
			Value:       "float32",
			Destination: &cfg.dtype,
		},
		&cli.StringFlag{
			Name:        "scheme",
			Usage:       "quantization scheme for int8, uint8 and w8a8 (e.g. per-channel-affine)",
			Value:       "undefined",
			Destination: &cfg.scheme,
		},
		&cli.Int64Flag{
			Name:        "iterations",
			Aliases:     []string{"n"},
			Usage:       "number of passes over the shape list",
			Value:       100,
			Destination: &cfg.iterations,
		},
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "NUMA policy (local, bind, interleave, none)",
			Value:       "local",
			Destination: &cfg.policy,
		},
		&cli.BoolFlag{
			Name:        "prefault",
			Usage:       "touch pages right after allocation",
			Destination: &cfg.prefault,
		},
		&cli.Int64Flag{
			Name:        "memory-limit",
			Usage:       "allocator budget in bytes (0 = unlimited)",
			Destination: &cfg.memoryLimit,
		},
		&cli.StringSliceFlag{
			Name:        "shape",
			Usage:       "matrix shape ROWSxCOLS, repeatable",
			Destination: &shapeArgs,
		},
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Replay a sequence of matrix shapes and report buffer reuse",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := newLogger(os.Stderr)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			cfg.shapes = defaultShapes
			if len(shapeArgs) > 0 {
				if cfg.shapes, err = parseShapes(shapeArgs); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}
			if profilePath != "" {
				p, err := loadProfile(profilePath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: load profile: %v", err), 1)
				}
				applyBenchProfile(cmd, p, &cfg)
			}

			report, err := runBench(ctx, cfg, log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			return stdoutReport(report, func(w io.Writer) { printBenchReport(w, report) })
		},
	}
}

func runBench(ctx context.Context, cfg benchConfig, log *slog.Logger) (benchReport, error) {
	if cfg.iterations <= 0 {
		return benchReport{}, fmt.Errorf("iterations must be positive, got %d", cfg.iterations)
	}
	if len(cfg.shapes) == 0 {
		return benchReport{}, fmt.Errorf("no shapes to replay")
	}
	policy, err := numa.ParsePolicy(cfg.policy)
	if err != nil {
		return benchReport{}, err
	}
	scheme, err := quant.ParseScheme(cfg.scheme)
	if err != nil {
		return benchReport{}, err
	}

	alloc, err := numa.NewMmapAllocator(
		numa.WithPolicy(policy),
		numa.WithPrefault(cfg.prefault),
		numa.WithMemoryLimit(cfg.memoryLimit),
		numa.WithLogger(log),
	)
	if err != nil {
		return benchReport{}, err
	}
	tracker := numa.NewTracker(alloc)
	metrics := &qtensor.BasicMetricsCollector{}

	opts := []qtensor.Option{
		qtensor.WithAllocator(tracker),
		qtensor.WithMetricsCollector(metrics),
		qtensor.WithLogger(qtensor.NewLogger(log.Handler()).WithKind("matrix")),
	}

	runID := uuid.NewString()
	log.Info("bench started",
		"run_id", runID,
		"dtype", cfg.dtype,
		"scheme", scheme.String(),
		"policy", policy.String(),
		"shapes", len(cfg.shapes),
		"iterations", cfg.iterations,
	)

	var elapsed time.Duration
	switch strings.ToLower(cfg.dtype) {
	case "float32", "f32":
		elapsed, err = replay[float32](ctx, cfg, scheme, opts)
	case "float64", "f64":
		elapsed, err = replay[float64](ctx, cfg, scheme, opts)
	case "float16", "f16":
		elapsed, err = replay[qtensor.Float16](ctx, cfg, scheme, opts)
	case "bfloat16", "bf16":
		elapsed, err = replay[qtensor.BFloat16](ctx, cfg, scheme, opts)
	case "int32":
		elapsed, err = replay[int32](ctx, cfg, scheme, opts)
	case "int8", "s8":
		elapsed, err = replay[int8](ctx, cfg, scheme, opts)
	case "uint8", "u8":
		elapsed, err = replay[uint8](ctx, cfg, scheme, opts)
	case "w8a8":
		elapsed, err = replay[qtensor.W8A8](ctx, cfg, scheme, opts)
	default:
		return benchReport{}, fmt.Errorf("unknown dtype %q", cfg.dtype)
	}
	if err != nil {
		return benchReport{}, err
	}

	ms := metrics.Stats()
	as := tracker.Stats()
	report := benchReport{
		RunID:         runID,
		DType:         strings.ToLower(cfg.dtype),
		Scheme:        scheme.String(),
		Policy:        policy.String(),
		Shapes:        cfg.shapes,
		Iterations:    cfg.iterations,
		Resizes:       ms.ResizeCount,
		Reallocations: ms.ReallocCount,
		ReuseRatio:    ms.ReuseRatio(),
		AllocBytes:    ms.AllocBytes,
		AllocAvgNanos: ms.AllocAvgNanos,
		PeakBytes:     as.PeakBytes,
		Leaked:        tracker.LiveCount(),
		DurationNanos: elapsed.Nanoseconds(),
	}
	if ms.ResizeCount > 0 {
		report.NanosPerOp = elapsed.Nanoseconds() / ms.ResizeCount
	}

	log.Info("bench finished", "run_id", runID, "duration", elapsed)
	return report, nil
}

// replay resizes one matrix through every shape, cfg.iterations times, and
// writes the last row after each resize so the pages are touched.
func replay[T qtensor.Element](ctx context.Context, cfg benchConfig, scheme quant.Scheme, opts []qtensor.Option) (time.Duration, error) {
	if scheme.IsDefined() && !qtensor.IsQuantizable[T]() {
		return 0, fmt.Errorf("dtype %s cannot carry scheme %s", cfg.dtype, scheme)
	}

	m := qtensor.NewMatrix[T](opts...)
	defer m.Release()
	m.SetQScheme(scheme)

	var one T
	one++

	start := time.Now()
	for range cfg.iterations {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for _, s := range cfg.shapes {
			if err := m.Resize(s.Rows, s.Cols); err != nil {
				return 0, fmt.Errorf("resize to %s: %w", s, err)
			}
			row := m.Row(s.Rows - 1)
			row[len(row)-1] = one
		}
	}
	return time.Since(start), nil
}

func printBenchReport(w io.Writer, r benchReport) {
	shapes := make([]string, len(r.Shapes))
	for i, s := range r.Shapes {
		shapes[i] = s.String()
	}

	_, _ = fmt.Fprintln(w, "=== qtensor bench ===")
	_, _ = fmt.Fprintf(w, "Run:           %s\n", r.RunID)
	_, _ = fmt.Fprintf(w, "DType:         %s\n", r.DType)
	_, _ = fmt.Fprintf(w, "Scheme:        %s\n", r.Scheme)
	_, _ = fmt.Fprintf(w, "Policy:        %s\n", r.Policy)
	_, _ = fmt.Fprintf(w, "Shapes:        %s\n", strings.Join(shapes, " "))
	_, _ = fmt.Fprintf(w, "Iterations:    %d\n", r.Iterations)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Resizes:       %d\n", r.Resizes)
	_, _ = fmt.Fprintf(w, "Reallocations: %d\n", r.Reallocations)
	_, _ = fmt.Fprintf(w, "Reuse:         %.2f%%\n", r.ReuseRatio*100)
	_, _ = fmt.Fprintf(w, "Allocated:     %d bytes (avg %s per allocation)\n", r.AllocBytes, time.Duration(r.AllocAvgNanos))
	_, _ = fmt.Fprintf(w, "Peak:          %d bytes\n", r.PeakBytes)
	_, _ = fmt.Fprintf(w, "Leaked:        %d\n", r.Leaked)
	_, _ = fmt.Fprintf(w, "Duration:      %s (%s per resize)\n", time.Duration(r.DurationNanos), time.Duration(r.NanosPerOp))
}
