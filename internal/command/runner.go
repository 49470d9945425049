package command

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/filter"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// Observer is notified of every finished run.
type Observer interface {
	ObserveOutcome(o Outcome)
}

// Runner dispatches batch runs to the command implementing their action.
// Runs are serialized.
type Runner struct {
	mu       sync.Mutex
	opts     Options
	observer Observer
}

// NewRunner returns a runner. observer may be nil.
func NewRunner(opts Options, observer Observer) *Runner {
	return &Runner{opts: opts, observer: observer}
}

// Run executes args against snap. The returned Outcome carries a sealed
// log. An error is returned only for an unknown action, a graph access
// failure or a violated transaction invariant.
func (r *Runner) Run(args types.Arguments, snap model.Snapshot) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if args.Action == "" {
		return Outcome{}, types.ErrActionRequired
	}

	fs, err := filter.NewService(args.Criteria(), snap.Site)
	if err != nil {
		if errors.Is(err, filter.ErrInvalidExpression) {
			o := Outcome{
				Action: args.Action,
				State:  StateAborted,
				Log:    &transaction.Log{},
				Reason: fmt.Errorf("%w: %w", types.ErrValidation, err),
			}
			r.opts.logger().Warn("command aborted",
				slog.String("action", string(args.Action)),
				slog.String("reason", o.Reason.Error()))
			return r.finish(o), nil
		}
		return Outcome{}, err
	}
	if _, err := fs.ProcessFilters(snap.Iteration); err != nil {
		return Outcome{}, fmt.Errorf("process filters: %w", err)
	}

	var o Outcome
	switch args.Action {
	case types.ActionChangeDomain:
		o, err = NewDomainCommand(args, snap, fs, r.opts).ChangeDomain()
	case types.ActionChangeParameterOwnership:
		o, err = NewDomainCommand(args, snap, fs, r.opts).ChangeParameterOwnership()
	case types.ActionSetGenericOwners:
		o, err = NewDomainCommand(args, snap, fs, r.opts).SetGenericEquipmentOwnership()
	case types.ActionSetScale:
		o, err = NewScaleCommand(args, snap, fs, r.opts).AssignMeasurementScale()
	case types.ActionStandardizeDimensionsInMM:
		o, err = NewScaleCommand(args, snap, fs, r.opts).StandardizeDimensionsInMillimetre()
	case types.ActionSubscribe:
		o, err = NewSubscriptionCommand(args, snap, fs, r.opts).Subscribe()
	case types.ActionSetSubscriptionSwitch:
		o, err = NewSubscriptionCommand(args, snap, fs, r.opts).SetSubscriptionSwitch()
	default:
		return Outcome{}, fmt.Errorf("%w %q", types.ErrUnknownAction, args.Action)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", args.Action, err)
	}
	return r.finish(o), nil
}

func (r *Runner) finish(o Outcome) Outcome {
	o.Log.Seal()
	if r.observer != nil {
		r.observer.ObserveOutcome(o)
	}
	return o
}
