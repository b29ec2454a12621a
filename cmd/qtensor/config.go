package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Shape is one matrix shape of a bench profile.
type Shape struct {
	Rows int `yaml:"rows" json:"rows"`
	Cols int `yaml:"cols" json:"cols"`
}

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.Rows, s.Cols) }

// parseShape parses "ROWSxCOLS".
func parseShape(s string) (Shape, error) {
	r, c, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Shape{}, fmt.Errorf("invalid shape %q: want ROWSxCOLS", s)
	}
	rows, err := strconv.Atoi(r)
	if err != nil {
		return Shape{}, fmt.Errorf("invalid shape %q: %w", s, err)
	}
	cols, err := strconv.Atoi(c)
	if err != nil {
		return Shape{}, fmt.Errorf("invalid shape %q: %w", s, err)
	}
	if rows <= 0 || cols <= 0 {
		return Shape{}, fmt.Errorf("invalid shape %q: dimensions must be positive", s)
	}
	return Shape{Rows: rows, Cols: cols}, nil
}

// parseShapes parses every argument with parseShape.
func parseShapes(args []string) ([]Shape, error) {
	shapes := make([]Shape, 0, len(args))
	for _, arg := range args {
		s, err := parseShape(arg)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// BenchProfile is a bench workload file.
// All scalar fields are pointers so we can distinguish "not set" from zero values.
type BenchProfile struct {
	DType       *string `yaml:"dtype"`
	Scheme      *string `yaml:"scheme"`
	Iterations  *int64  `yaml:"iterations"`
	Policy      *string `yaml:"policy"`
	Prefault    *bool   `yaml:"prefault"`
	MemoryLimit *int64  `yaml:"memory_limit"`
	Shapes      []Shape `yaml:"shapes"`
}

func loadProfile(path string) (BenchProfile, error) {
	var p BenchProfile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, s := range p.Shapes {
		if s.Rows <= 0 || s.Cols <= 0 {
			return p, fmt.Errorf("parse %s: invalid shape %s", path, s)
		}
	}
	return p, nil
}

// applyBenchProfile applies profile values to bench command variables
// when the corresponding CLI flag was not explicitly set.
func applyBenchProfile(c *cli.Command, p BenchProfile, cfg *benchConfig) {
	if p.DType != nil && !c.IsSet("dtype") {
		cfg.dtype = *p.DType
	}
	if p.Scheme != nil && !c.IsSet("scheme") {
		cfg.scheme = *p.Scheme
	}
	if p.Iterations != nil && !c.IsSet("iterations") {
		cfg.iterations = *p.Iterations
	}
	if p.Policy != nil && !c.IsSet("policy") {
		cfg.policy = *p.Policy
	}
	if p.Prefault != nil && !c.IsSet("prefault") {
		cfg.prefault = *p.Prefault
	}
	if p.MemoryLimit != nil && !c.IsSet("memory-limit") {
		cfg.memoryLimit = *p.MemoryLimit
	}
	if len(p.Shapes) > 0 && !c.IsSet("shape") {
		cfg.shapes = p.Shapes
	}
}
