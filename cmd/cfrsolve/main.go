// Command cfrsolve is a small CLI around package cfr: it trains a solver
// over one of the bundled fixtures, reports its progress, and can
// checkpoint and resume training through an on-disk LevelDB store. It is a
// convenience wrapper, not the package's product surface — the importable
// API lives in pkg/game and pkg/cfr.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/behrlich/cfrsolve/internal/fixtures"
	"github.com/behrlich/cfrsolve/pkg/cfr"
	"github.com/behrlich/cfrsolve/pkg/game"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train   TrainCmd   `cmd:"" help:"run CFR training over a fixture game and report progress"`
	Inspect InspectCmd `cmd:"" help:"train briefly and print an information set's strategy"`
}

// TrainCmd runs a solver to completion, optionally checkpointing to and
// resuming from an on-disk store.
type TrainCmd struct {
	Game            string `help:"fixture to train on (rps|kuhn|tictactoe|ocp)" enum:"rps,kuhn,tictactoe,ocp" default:"kuhn"`
	Variant         string `help:"CFR variant (vanilla|cfrplus|dcfr)" enum:"vanilla,cfrplus,dcfr" default:"vanilla"`
	Iterations      int    `help:"number of CFR iterations to run" default:"1000"`
	ProgressEvery   int    `help:"log progress every N iterations (0 disables)" default:"100"`
	CheckpointPath  string `help:"LevelDB directory to checkpoint solver state to"`
	CheckpointEvery int    `help:"checkpoint interval in iterations (0 disables)" default:"0"`
	ResumeFrom      string `help:"LevelDB directory to resume solver state from"`
}

// InspectCmd trains briefly in memory and prints one information set's
// average strategy, for spot-checking a fixture without a full run.
type InspectCmd struct {
	Game       string `help:"fixture to train on (rps|kuhn|tictactoe|ocp)" enum:"rps,kuhn,tictactoe,ocp" default:"kuhn"`
	Variant    string `help:"CFR variant (vanilla|cfrplus|dcfr)" enum:"vanilla,cfrplus,dcfr" default:"vanilla"`
	Iterations int    `help:"number of CFR iterations to run before inspecting" default:"100"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("cfrsolve"),
		kong.Description("Regret-minimization solver for extensive-form games"),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	var err error
	switch ctx.Command() {
	case "train":
		err = cli.Train.Run(logger)
	case "inspect":
		err = cli.Inspect.Run(logger)
	default:
		err = errors.Errorf("unknown command: %s", ctx.Command())
	}

	if err != nil {
		logger.Fatal("cfrsolve failed", "err", err)
	}
}

func buildFixture(name string) (*game.Tree, error) {
	switch name {
	case "rps":
		return fixtures.RockPaperScissors(2), nil
	case "kuhn":
		return fixtures.KuhnPoker(), nil
	case "tictactoe":
		return fixtures.TicTacToe(), nil
	case "ocp":
		return fixtures.OneCardPoker(1, [2]int{1, 2}, [2]int{100, 100}), nil
	default:
		return nil, errors.Errorf("unknown fixture %q", name)
	}
}

func buildVariant(name string) (cfr.Variant, error) {
	switch name {
	case "vanilla":
		return cfr.Vanilla{}, nil
	case "cfrplus":
		return cfr.CFRPlus{}, nil
	case "dcfr":
		return cfr.DefaultDiscounted(), nil
	default:
		return nil, errors.Errorf("unknown variant %q", name)
	}
}

// Run implements TrainCmd.
func (cmd *TrainCmd) Run(logger *log.Logger) error {
	tree, err := buildFixture(cmd.Game)
	if err != nil {
		return err
	}
	variant, err := buildVariant(cmd.Variant)
	if err != nil {
		return err
	}

	solver := cfr.NewSolver(tree, variant)

	var store *checkpointStore
	if cmd.CheckpointPath != "" {
		store, err = openCheckpointStore(cmd.CheckpointPath)
		if err != nil {
			return errors.Wrap(err, "open checkpoint store")
		}
		defer store.Close()
	}

	if cmd.ResumeFrom != "" {
		resumeStore, err := openCheckpointStore(cmd.ResumeFrom)
		if err != nil {
			return errors.Wrap(err, "open resume store")
		}
		defer resumeStore.Close()

		iteration, states, err := resumeStore.Load()
		if err != nil {
			return errors.Wrap(err, "load checkpoint")
		}
		solver.Restore(iteration, states)
		logger.Info("resumed from checkpoint", "path", cmd.ResumeFrom, "iteration", iteration)
	}

	logger.Info("training started", "game", cmd.Game, "variant", cmd.Variant, "iterations", cmd.Iterations)

	for i := 0; i < cmd.Iterations; i++ {
		root := solver.Step()

		if cmd.ProgressEvery > 0 && solver.Iteration()%cmd.ProgressEvery == 0 {
			logger.Info("progress", "iteration", solver.Iteration(), "root_value", root)
		}

		if store != nil && cmd.CheckpointEvery > 0 && solver.Iteration()%cmd.CheckpointEvery == 0 {
			iteration, states := solver.Checkpoint()
			if err := store.Save(iteration, states); err != nil {
				return errors.Wrap(err, "save checkpoint")
			}
			logger.Debug("checkpointed", "iteration", iteration)
		}
	}

	if store != nil {
		iteration, states := solver.Checkpoint()
		if err := store.Save(iteration, states); err != nil {
			return errors.Wrap(err, "save final checkpoint")
		}
	}

	ev, err := solver.ExpectedValue(nil)
	if err != nil {
		return errors.Wrap(err, "expected value")
	}
	logger.Info("training complete", "iterations", solver.Iteration(), "expected_value", ev)
	fmt.Printf("expected value at root: %v\n", ev)
	return nil
}

// Run implements InspectCmd.
func (cmd *InspectCmd) Run(logger *log.Logger) error {
	tree, err := buildFixture(cmd.Game)
	if err != nil {
		return err
	}
	variant, err := buildVariant(cmd.Variant)
	if err != nil {
		return err
	}

	solver := cfr.NewSolver(tree, variant)
	for i := 0; i < cmd.Iterations; i++ {
		solver.Step()
	}

	logger.Info("inspecting", "game", cmd.Game, "info_sets", tree.NumInfoSets())
	for _, is := range tree.InfoSets() {
		strat, err := solver.Query(is)
		if err != nil {
			return errors.Wrap(err, "query")
		}
		fmt.Printf("%s => %v\n", is, strat)
	}
	return nil
}
