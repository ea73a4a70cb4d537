package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetro/automatic"
	"github.com/domino14/tetro/config"
	"github.com/domino14/tetro/shell"
	"github.com/domino14/tetro/tetromino"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	log.Logger = log.Output(output)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	defs, err := loadShapes(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("loading shape definitions")
	}
	set, err := tetromino.NewSet(defs, cfg.GridWidth, cfg.GridHeight)
	if err != nil {
		log.Fatal().Err(err).Msg("building geometry table")
	}
	log.Info().Int("shapes", set.NumShapes()).
		Int("grid-width", cfg.GridWidth).Int("grid-height", cfg.GridHeight).
		Msg("geometry table ready")

	seed := automatic.NewSeed()
	if cfg.SeedFile != "" {
		seeds, err := automatic.LoadSeeds(cfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("loading seed file")
		}
		if len(seeds) == 0 {
			log.Fatal().Str("file", cfg.SeedFile).Msg("seed file holds no seeds")
		}
		seed = seeds[0]
	}
	log.Info().Int64("seed", seed).Msg("master seed")

	if cfg.Generations > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sig
			log.Info().Msg("got quit signal...")
			cancel()
		}()
		if err := automatic.Train(ctx, cfg, set, seed); err != nil {
			log.Fatal().Err(err).Msg("training failed")
		}
		return
	}

	sc, err := shell.NewShellController(cfg, set, seed)
	if err != nil {
		log.Fatal().Err(err).Msg("starting shell")
	}
	sc.Loop()
}

func loadShapes(cfg *config.Config) ([]tetromino.ShapeDefinition, error) {
	if cfg.ShapesPath != "" {
		return config.LoadShapeDefinitions(cfg.ShapesPath)
	}
	return config.DefaultShapeDefinitions()
}
