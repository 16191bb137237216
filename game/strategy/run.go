package strategy

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wricardo/artofwar/game/engine"
)

// Options bounds a headless match
type Options struct {
	// Rounds is the number of army moves to attempt; each round is one
	// move followed by StepsPerRound generations
	Rounds        int
	StepsPerRound int
}

// DefaultOptions plays 20 rounds of 25 generations
func DefaultOptions() Options {
	return Options{Rounds: 20, StepsPerRound: 25}
}

// Report summarizes a headless match
type Report struct {
	Base       engine.Position `json:"base"`
	Computer   engine.Position `json:"computer"`
	Rounds     int             `json:"rounds"`
	ArmyMoves  int             `json:"army_moves"`
	Generation int             `json:"generation"`
	Outcome    *engine.Outcome `json:"outcome,omitempty"`
}

// Run plays game to completion or until opts runs out, letting s choose the
// player's moves. A game whose base was preloaded skips base placement.
func Run(ctx context.Context, game *engine.Game, s Strategy, opts Options, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.StepsPerRound < 1 {
		opts.StepsPerRound = 1
	}

	report := &Report{}
	if game.Phase() == engine.PhaseAwaitingBase {
		base := s.BaseMove(game.GetState())
		if _, err := game.PlacePlayerBase(base.X, base.Y); err != nil {
			return nil, errors.Wrapf(err, "failed to place base at %s", base)
		}
	}
	report.Base, _ = game.PlayerBase()
	report.Computer, _ = game.ComputerBase()

	for round := 0; round < opts.Rounds && !game.IsGameOver(); round++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Rounds++

		if move, ok := s.NextMove(game.GetState()); ok {
			if _, err := game.PlacePlayerMove(move.X, move.Y); err != nil {
				return report, errors.Wrapf(err, "round %d", report.Rounds)
			}
			report.ArmyMoves++
		}

		for i := 0; i < opts.StepsPerRound && !game.IsGameOver(); i++ {
			if _, err := game.Step(); err != nil {
				return report, errors.Wrapf(err, "round %d", report.Rounds)
			}
		}

		logger.Debug("round finished",
			zap.Int("round", report.Rounds),
			zap.Int("generation", game.Generation()))
	}

	report.Generation = game.Generation()
	report.Outcome = game.Outcome()
	return report, nil
}
