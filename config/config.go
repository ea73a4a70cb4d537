// Package config supplies the engine's already-parsed scalars and raw
// shape definitions. All file-format and validation failures surface
// here, at the boundary; the simulation core never produces user-facing
// text.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/namsral/flag"
)

// ErrInvalidConfig is wrapped by all scalar-validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	GridWidth      int
	GridHeight     int
	PopulationSize int
	SelectionSize  int
	MutateRate     float64
	Threads        int

	ShapesPath  string
	SeedFile    string
	Generations int
	LogFile     string
	DBPath      string
	Debug       bool
}

// Load parses flags (or their TETRO_-prefixed environment equivalents)
// into the config.
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSetWithEnvPrefix("tetro", "TETRO", flag.ContinueOnError)
	fs.IntVar(&c.GridWidth, "grid-width", 10, "number of columns in the grid")
	fs.IntVar(&c.GridHeight, "grid-height", 20, "number of rows in the grid")
	fs.IntVar(&c.PopulationSize, "population-size", 40, "number of instances per generation")
	fs.IntVar(&c.SelectionSize, "selection-size", 12, "number of top instances eligible as crossover parents")
	fs.Float64Var(&c.MutateRate, "mutate-rate", 0.1, "per-weight mutation probability")
	fs.IntVar(&c.Threads, "threads", runtime.NumCPU(), "worker threads for per-tick updates")
	fs.StringVar(&c.ShapesPath, "shapes-path", "", "shape definition file; empty uses the built-in set")
	fs.StringVar(&c.SeedFile, "seed-file", "", "seed file for reproducible runs")
	fs.IntVar(&c.Generations, "generations", 0, "run this many generations headlessly and exit; 0 starts the shell")
	fs.StringVar(&c.LogFile, "log-file", "/tmp/tetro-generations.csv", "per-generation CSV log")
	fs.StringVar(&c.DBPath, "db-path", "", "sqlite training log; empty disables it")
	fs.BoolVar(&c.Debug, "debug", false, "debug logging")
	return fs.Parse(args)
}

// Validate checks the evolution controller's preconditions once, at
// startup. Violations are fatal configuration errors, never a per-tick
// concern.
func (c *Config) Validate() error {
	if c.GridWidth < 4 || c.GridHeight < 4 {
		return fmt.Errorf("%w: grid must be at least 4x4, got %dx%d",
			ErrInvalidConfig, c.GridWidth, c.GridHeight)
	}
	if c.PopulationSize < 2 {
		return fmt.Errorf("%w: population size %d < 2", ErrInvalidConfig, c.PopulationSize)
	}
	if c.SelectionSize < 2 || c.SelectionSize > c.PopulationSize {
		return fmt.Errorf("%w: selection size %d must be in [2, population size %d]",
			ErrInvalidConfig, c.SelectionSize, c.PopulationSize)
	}
	if c.MutateRate < 0 || c.MutateRate > 1 {
		return fmt.Errorf("%w: mutate rate %v outside [0, 1]", ErrInvalidConfig, c.MutateRate)
	}
	if c.Threads < 1 {
		return fmt.Errorf("%w: threads %d < 1", ErrInvalidConfig, c.Threads)
	}
	return nil
}
