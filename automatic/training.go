package automatic

// Headless training: play generation after generation with no
// spectator attached, logging one CSV row per generation and optionally
// recording results to the training-log store.

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tetro/config"
	"github.com/domino14/tetro/tetromino"
	"github.com/domino14/tetro/weightstore"
)

// Train runs cfg.Generations full generations and blocks until they
// finish or the context is canceled. Per-generation CSV rows go to
// cfg.LogFile; if cfg.DBPath is set, each generation's best weights are
// also recorded in the sqlite training log.
func Train(ctx context.Context, cfg *config.Config, set *tetromino.Set, seed int64) error {
	logfile, err := os.Create(cfg.LogFile)
	if err != nil {
		return err
	}

	var store *weightstore.Store
	if cfg.DBPath != "" {
		store, err = weightstore.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	logChan := make(chan string, 100)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logfile.WriteString("generation,best,mean,topmean\n")
		for msg := range logChan {
			logfile.WriteString(msg)
		}
		logfile.Close()
		log.Debug().Msg("generation logger exiting")
	}()

	runner, err := NewPopulationRunner(cfg, set, seed, logChan)
	if err != nil {
		close(logChan)
		wg.Wait()
		return err
	}

	log.Info().Int("generations", cfg.Generations).
		Int("population", cfg.PopulationSize).
		Int64("seed", seed).
		Msg("starting training")

	trainErr := func() error {
		for i := 0; i < cfg.Generations; i++ {
			res, err := runner.RunGeneration(ctx)
			if err != nil {
				return err
			}
			log.Info().Int("generation", res.Generation).
				Int("best", res.Fitnesses[0]).
				Float64("mean", res.Mean).
				Msg("generation-complete")
			if store != nil {
				if err := store.RecordGeneration(res.Generation, res.Fitnesses[0],
					res.Mean, res.BestWeights); err != nil {
					return err
				}
			}
		}
		return nil
	}()

	close(logChan)
	wg.Wait()
	return trainErr
}
