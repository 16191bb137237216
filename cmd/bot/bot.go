package main

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/strategy"
)

// PlayOptions bounds the bot's attempts
type PlayOptions struct {
	Attempts      int
	Rounds        int
	StepsPerRound int
}

// AttemptResult summarizes one attempt
type AttemptResult struct {
	Attempt    int
	ArmyMoves  int
	Generation int
	Outcome    *engine.Outcome
}

// Won reports whether the player destroyed every enemy base
func (r *AttemptResult) Won() bool {
	return r.Outcome != nil && r.Outcome.Winner == engine.Player
}

// Play keeps resetting the client's session and replaying it with s until
// the player wins or the attempts run out. It returns every attempt played.
func Play(ctx context.Context, client *Client, s strategy.Strategy, opts PlayOptions, logger *zap.Logger) ([]*AttemptResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []*AttemptResult
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		state, err := client.Reset(ctx)
		if err != nil {
			return results, err
		}
		s.Reset()

		result, err := playAttempt(ctx, client, s, state, opts, logger)
		if err != nil {
			return results, errors.Wrapf(err, "attempt %d", attempt)
		}
		result.Attempt = attempt
		results = append(results, result)

		logger.Info("attempt finished",
			zap.Int("attempt", attempt),
			zap.Int("army_moves", result.ArmyMoves),
			zap.Int("generation", result.Generation),
			zap.Bool("won", result.Won()))

		if result.Won() {
			break
		}
	}
	return results, nil
}

func playAttempt(ctx context.Context, client *Client, s strategy.Strategy, state *engine.GameState, opts PlayOptions, logger *zap.Logger) (*AttemptResult, error) {
	result := &AttemptResult{}

	if state.Phase == engine.PhaseAwaitingBase {
		placed, err := client.PlaceBase(ctx, s.BaseMove(state))
		if err != nil {
			return nil, err
		}
		logger.Debug("bases placed",
			zap.Stringer("player", placed.Player),
			zap.Stringer("computer", placed.Computer))
		state = placed.GameState
	}

	for round := 0; round < opts.Rounds && state.Outcome == nil; round++ {
		if move, ok := s.NextMove(state); ok {
			placed, err := client.PlaceArmy(ctx, move)
			var apiErr *APIError
			switch {
			case errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest:
				// The board moved under the plan; skip to the step
				logger.Debug("army move rejected", zap.Stringer("position", move), zap.String("reason", apiErr.Message))
			case err != nil:
				return nil, err
			default:
				result.ArmyMoves++
				state = placed.GameState
			}
		}

		stepped, err := client.Step(ctx, opts.StepsPerRound)
		if err != nil {
			return nil, err
		}
		state = stepped.GameState
	}

	result.Generation = state.Generation
	result.Outcome = state.Outcome
	return result, nil
}
