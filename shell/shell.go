// Package shell is the interactive front end: it drives the population
// runner, spectates instances and saves or loads weight snapshots. It
// reads simulation state strictly read-only between commands.
package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetro/automatic"
	"github.com/domino14/tetro/config"
	"github.com/domino14/tetro/tetromino"
	"github.com/domino14/tetro/weightstore"
)

// ShellController owns the readline loop and the population it drives.
type ShellController struct {
	l   *readline.Instance
	cfg *config.Config
	set *tetromino.Set

	runner     *automatic.PopulationRunner
	store      *weightstore.Store
	spectating int
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController builds the controller and its population runner.
func NewShellController(cfg *config.Config, set *tetromino.Set, seed int64) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtetro>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	runner, err := automatic.NewPopulationRunner(cfg, set, seed, nil)
	if err != nil {
		return nil, err
	}
	sc := &ShellController{l: l, cfg: cfg, set: set, runner: runner}
	if cfg.DBPath != "" {
		sc.store, err = weightstore.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "gen [n] - play n full generations (default 1)\n")
	io.WriteString(w, "show - display the spectated instance's board\n")
	io.WriteString(w, "n / p - spectate the next / previous instance\n")
	io.WriteString(w, "top - spectate the live instance with the most lines cleared\n")
	io.WriteString(w, "stats - summary of the last finished generation\n")
	io.WriteString(w, "weights - the spectated instance's weight vector\n")
	io.WriteString(w, "save <path> - save the spectated instance's weights as YAML\n")
	io.WriteString(w, "load <path> - replace the spectated instance's weights from YAML\n")
	io.WriteString(w, "best [n] - best recorded generations from the training log\n")
	io.WriteString(w, "seeds <path> [n] - write n fresh master seeds for -seed-file (default 1)\n")
	io.WriteString(w, "exit - quit\n")
}

// Loop runs the readline command loop until exit or EOF.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			break
		}
		sc.handle(fields)
	}
	if sc.store != nil {
		sc.store.Close()
	}
	log.Debug().Msg("Exiting readline loop...")
}

func (sc *ShellController) handle(fields []string) {
	w := sc.l.Stderr()
	switch fields[0] {
	case "help":
		usage(w)
	case "gen":
		n := 1
		if len(fields) > 1 {
			var err error
			if n, err = strconv.Atoi(fields[1]); err != nil || n < 1 {
				showMessage("gen needs a positive count", w)
				return
			}
		}
		sc.runGenerations(n, w)
	case "show":
		g := sc.runner.Game(sc.spectating)
		status := "alive"
		if g.Over() {
			status = "lost"
		}
		showMessage(fmt.Sprintf("instance %d/%d (%s), lines cleared: %d",
			sc.spectating+1, sc.runner.NumInstances(), status, g.LinesCleared()), w)
		showMessage(g.Grid().ToDisplayText(sc.set, g.CurrentPiece()), w)
	case "n", "p":
		delta := 1
		if fields[0] == "p" {
			delta = -1
		}
		n := sc.runner.NumInstances()
		sc.spectating = ((sc.spectating+delta)%n + n) % n
		showMessage(fmt.Sprintf("spectating instance %d/%d", sc.spectating+1, n), w)
	case "top":
		best, bestLines := -1, -1
		for i := 0; i < sc.runner.NumInstances(); i++ {
			g := sc.runner.Game(i)
			if !g.Over() && g.LinesCleared() > bestLines {
				best, bestLines = i, g.LinesCleared()
			}
		}
		if best == -1 {
			showMessage("no live instances", w)
			return
		}
		sc.spectating = best
		showMessage(fmt.Sprintf("spectating instance %d with %d lines cleared",
			best+1, bestLines), w)
	case "stats":
		res := sc.runner.LastResult()
		if res == nil {
			showMessage("no generation has finished yet", w)
			return
		}
		if err := res.WriteSummary(w); err != nil {
			showMessage(err.Error(), w)
		}
	case "weights":
		sc.showWeights(w)
	case "save":
		if len(fields) < 2 {
			showMessage("save needs a path", w)
			return
		}
		err := weightstore.SaveWeights(sc.runner.Weights(sc.spectating), fields[1])
		if err != nil {
			showMessage(err.Error(), w)
			return
		}
		showMessage("saved "+fields[1], w)
	case "load":
		if len(fields) < 2 {
			showMessage("load needs a path", w)
			return
		}
		weights, err := weightstore.LoadWeights(fields[1])
		if err != nil {
			showMessage(err.Error(), w)
			return
		}
		if err := sc.runner.SetWeights(sc.spectating, weights); err != nil {
			showMessage(err.Error(), w)
			return
		}
		showMessage(fmt.Sprintf("instance %d now uses weights from %s",
			sc.spectating+1, fields[1]), w)
	case "best":
		sc.showBest(fields, w)
	case "seeds":
		if len(fields) < 2 {
			showMessage("seeds needs a path", w)
			return
		}
		n := 1
		if len(fields) > 2 {
			var err error
			if n, err = strconv.Atoi(fields[2]); err != nil || n < 1 {
				showMessage("seeds needs a positive count", w)
				return
			}
		}
		if err := automatic.SaveSeeds(automatic.GenerateSeeds(n), fields[1]); err != nil {
			showMessage(err.Error(), w)
			return
		}
		showMessage(fmt.Sprintf("wrote %d seed(s) to %s", n, fields[1]), w)
	default:
		showMessage("unknown command; try help", w)
	}
}

func (sc *ShellController) runGenerations(n int, w io.Writer) {
	for i := 0; i < n; i++ {
		res, err := sc.runner.RunGeneration(context.Background())
		if err != nil {
			showMessage(err.Error(), w)
			return
		}
		if err := res.WriteSummary(w); err != nil {
			showMessage(err.Error(), w)
			return
		}
		if sc.store != nil {
			if err := sc.store.RecordGeneration(res.Generation, res.Fitnesses[0],
				res.Mean, res.BestWeights); err != nil {
				showMessage(err.Error(), w)
				return
			}
		}
	}
}

func (sc *ShellController) showWeights(w io.Writer) {
	weights := sc.runner.Weights(sc.spectating)
	showMessage(fmt.Sprintf("instance %d", sc.spectating+1), w)
	showMessage("row filled weights:  "+formatFloats(weights.RowFilled), w)
	showMessage("hole height weights: "+formatFloats(weights.HoleHeight), w)
	showMessage("column diff weights: "+formatFloats(weights.ColumnDiff), w)
}

func (sc *ShellController) showBest(fields []string, w io.Writer) {
	if sc.store == nil {
		showMessage("no training log configured (-db-path)", w)
		return
	}
	n := 5
	if len(fields) > 1 {
		var err error
		if n, err = strconv.Atoi(fields[1]); err != nil || n < 1 {
			showMessage("best needs a positive count", w)
			return
		}
	}
	recs, err := sc.store.Best(n)
	if err != nil {
		showMessage(err.Error(), w)
		return
	}
	for _, rec := range recs {
		showMessage(fmt.Sprintf("%s gen %d: best %d lines, mean %.2f",
			rec.CreatedAt, rec.Generation, rec.BestLines, rec.Mean), w)
	}
}

func formatFloats(vals []float64) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = fmt.Sprintf("%.2f", v)
	}
	return "[" + strings.Join(strs, ", ") + "]"
}
