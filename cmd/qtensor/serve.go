package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/qtensor/numa"
)

// maxServeIterations caps the passes a single HTTP bench request may ask for.
const maxServeIterations = 10_000

// benchRequest is the body of POST /v1/bench. Zero fields take the bench
// command defaults.
type benchRequest struct {
	DType       string   `json:"dtype"`
	Scheme      string   `json:"scheme"`
	Iterations  int64    `json:"iterations"`
	Policy      string   `json:"policy"`
	Prefault    bool     `json:"prefault"`
	MemoryLimit int64    `json:"memory_limit"`
	Shapes      []string `json:"shapes"`
}

func (r benchRequest) config() (benchConfig, error) {
	cfg := benchConfig{
		dtype:       r.DType,
		scheme:      r.Scheme,
		iterations:  r.Iterations,
		policy:      r.Policy,
		prefault:    r.Prefault,
		memoryLimit: r.MemoryLimit,
		shapes:      defaultShapes,
	}
	if cfg.dtype == "" {
		cfg.dtype = "float32"
	}
	if cfg.scheme == "" {
		cfg.scheme = "undefined"
	}
	if cfg.iterations == 0 {
		cfg.iterations = 100
	}
	if cfg.iterations > maxServeIterations {
		return cfg, fmt.Errorf("iterations %d exceeds limit %d", cfg.iterations, maxServeIterations)
	}
	if len(r.Shapes) > 0 {
		shapes, err := parseShapes(r.Shapes)
		if err != nil {
			return cfg, err
		}
		cfg.shapes = shapes
	}
	return cfg, nil
}

type server struct {
	sysfsRoot string
	log       *slog.Logger

	// bench admits one run at a time.
	bench *semaphore.Weighted
}

func newServer(sysfsRoot string, log *slog.Logger) *server {
	return &server{
		sysfsRoot: sysfsRoot,
		log:       log,
		bench:     semaphore.NewWeighted(1),
	}
}

func (s *server) register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/topology", s.handleTopology)
	e.POST("/v1/bench", s.handleBench)
}

type healthReport struct {
	Status string `json:"status"`
	versionInfo
}

func (s *server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, healthReport{Status: "ok", versionInfo: resolveVersion()})
}

func (s *server) handleTopology(c *echo.Context) error {
	return c.JSON(http.StatusOK, buildTopologyReport(s.sysfsRoot, s.log))
}

func (s *server) handleBench(c *echo.Context) error {
	var req benchRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return writeError(c, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
	}
	cfg, err := req.config()
	if err != nil {
		return writeError(c, http.StatusBadRequest, err.Error())
	}

	if !s.bench.TryAcquire(1) {
		return writeError(c, http.StatusTooManyRequests, "a bench is already running")
	}
	defer s.bench.Release(1)

	report, err := runBench(c.Request().Context(), cfg, s.log)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, report)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return writeError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, numa.ErrMemoryLimitExceeded):
		return writeError(c, http.StatusInsufficientStorage, err.Error())
	default:
		return writeError(c, http.StatusBadRequest, err.Error())
	}
}

func writeError(c *echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func serveCmd() *cli.Command {
	var (
		addr        string
		sysfsRoot   string
		readTimeout time.Duration
	)

	flags := append([]cli.Flag{}, commonFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "sysfs",
			Usage:       "NUMA node directory",
			Value:       numa.SysfsNodePath,
			Destination: &sysfsRoot,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read header timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve topology and bench reports over HTTP",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := newLogger(os.Stderr)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			newServer(sysfsRoot, log).register(e)

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
