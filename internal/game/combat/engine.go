package combat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/event"
)

// Result summarises a finished Run.
type Result struct {
	// Rounds is the round the last turn was played in.
	Rounds int
	// Over is false when the round limit stopped the battle first.
	Over       bool
	PlayersWon bool
}

// Runner drives a Battle turn by turn, asking an Oracle for every decision and
// dispatching events to listeners after each turn.
type Runner struct {
	Battle    *Battle
	Oracle    Oracle
	Listeners []event.Listener
	// MaxRounds stops the battle after this many rounds; <= 0 means no limit.
	MaxRounds int
	Logger    *zap.Logger
}

// Run plays turns until one side is wiped out, the round limit is reached, or ctx is
// done. An oracle error or an invalid decision aborts the run.
//
// Precondition: Battle, Oracle and Logger must be non-nil.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	b := r.Battle
	rounds := b.Round()
	for {
		if over, won := b.Outcome(); over {
			r.Logger.Info("battle over", zap.Int("round", rounds), zap.Bool("players_won", won))
			return Result{Rounds: rounds, Over: true, PlayersWon: won}, nil
		}
		if r.MaxRounds > 0 && b.Round() > r.MaxRounds {
			r.Logger.Info("round limit reached", zap.Int("max_rounds", r.MaxRounds))
			return Result{Rounds: r.MaxRounds}, nil
		}
		if err := ctx.Err(); err != nil {
			return Result{Rounds: rounds}, err
		}
		rounds = b.Round()
		if err := r.turn(ctx); err != nil {
			return Result{Rounds: rounds}, err
		}
	}
}

func (r *Runner) turn(ctx context.Context) error {
	b := r.Battle
	defer b.Dispatch(r.Listeners...)
	id, alive := b.StartTurn()
	if alive {
		if over, _ := b.Outcome(); !over {
			d, err := r.Oracle.Decide(ctx, b, id)
			if err != nil {
				return fmt.Errorf("deciding for character %d: %w", id, err)
			}
			if err := b.Act(id, d); err != nil {
				return fmt.Errorf("character %d: %w", id, err)
			}
		}
	}
	b.EndTurn()
	return nil
}
