package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hupe1980/qtensor/internal/codec"
)

var (
	logLevel     string
	logFormat    string
	outputFormat string
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"o"},
			Usage:       "output format (text, json, yaml)",
			Value:       "text",
			Destination: &outputFormat,
		},
	}
}

func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(logFormat) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", logFormat)
	}
}

// writeReport writes v with the codec named by --format. The text format is
// rendered by text.
func writeReport(w io.Writer, v any, text func(io.Writer)) error {
	if strings.EqualFold(outputFormat, "text") || outputFormat == "" {
		text(w)
		return nil
	}
	c, err := codec.ByName(outputFormat)
	if err != nil {
		return err
	}
	b, err := c.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.Name(), err)
	}
	_, err = w.Write(b)
	return err
}

func stdoutReport(v any, text func(io.Writer)) error {
	return writeReport(os.Stdout, v, text)
}
