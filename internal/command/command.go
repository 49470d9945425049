// Package command turns a validated batch intent into a Transaction Log.
//
// A command resolves its arguments against a read-only snapshot, asks the
// filter service which element definitions take part, applies its business
// rule and records the resulting changes through a transaction.Builder.
// Commands never mutate the graph and never commit. A command whose
// arguments do not resolve aborts with an empty log.
package command

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/filter"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// State is the lifecycle position of a command.
type State int

// Command states. Aborted and Built are terminal.
const (
	StateUnvalidated State = iota
	StateValidating
	StateAborted
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateUnvalidated:
		return "unvalidated"
	case StateValidating:
		return "validating"
	case StateAborted:
		return "aborted"
	case StateBuilt:
		return "built"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is the result of one command run. Log is never nil; it is empty
// when State is StateAborted. Reason explains an abort and wraps
// types.ErrValidation.
type Outcome struct {
	Action types.Action
	State  State
	Log    *transaction.Log
	Reason error
}

// Options carries the settings shared by all commands.
type Options struct {
	Logger *slog.Logger

	// GenericOwners maps parameter type short names to domain short names
	// for SetGenericOwners. Nil selects DefaultGenericOwners.
	GenericOwners map[string]string

	// MillimetreScale is the short name of the target scale of
	// StandardizeDimensionsInMillimeter. Empty selects "mm".
	MillimetreScale string
}

// DefaultMillimetreScale is the scale short name used when
// Options.MillimetreScale is empty.
const DefaultMillimetreScale = "mm"

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// base holds what every command needs for one run.
type base struct {
	action    types.Action
	args      types.Arguments
	snap      model.Snapshot
	filter    *filter.Service
	builder   *transaction.Builder
	logger    *slog.Logger
	runLogger *slog.Logger
	state     State

	// warnedUnfiltered is set once the empty-filter warning was logged
	// for the current run.
	warnedUnfiltered bool
}

func newBase(args types.Arguments, snap model.Snapshot, fs *filter.Service, opts Options) base {
	return base{
		args:    args,
		snap:    snap,
		filter:  fs,
		builder: transaction.NewBuilder(snap),
		logger:  opts.logger(),
		state:   StateUnvalidated,
	}
}

// State returns the lifecycle position of the last run.
func (c *base) State() State {
	return c.state
}

func (c *base) begin(action types.Action) {
	c.action = action
	c.state = StateValidating
	c.warnedUnfiltered = false
	c.runLogger = c.logger.With(slog.String("action", string(action)))
}

func (c *base) abort(format string, args ...any) Outcome {
	c.state = StateAborted
	reason := fmt.Errorf("%w: %s", types.ErrValidation, fmt.Sprintf(format, args...))
	c.runLogger.Warn("command aborted", slog.String("reason", reason.Error()))
	return Outcome{Action: c.action, State: StateAborted, Log: &transaction.Log{}, Reason: reason}
}

func (c *base) built(log *transaction.Log) Outcome {
	c.state = StateBuilt
	c.runLogger.Info("command built", slog.Int("transactions", log.Len()))
	return Outcome{Action: c.action, State: StateBuilt, Log: log}
}

// elementDefinitions returns the element definitions the run may touch:
// filtered in, and named like Arguments.ElementDefinition when it is set.
// Restrictive criteria that match nothing still admit everything; that case
// is logged once per run.
func (c *base) elementDefinitions() []*types.ElementDefinition {
	c.warnIfUnfiltered()
	var out []*types.ElementDefinition
	for _, ed := range c.snap.Iteration.ElementDefinitions() {
		if c.args.ElementDefinition != "" && ed.ShortName != c.args.ElementDefinition {
			continue
		}
		if !c.filter.IsFilteredInOrFilterIsEmpty(ed) {
			continue
		}
		out = append(out, ed)
	}
	return out
}

func (c *base) warnIfUnfiltered() {
	if c.warnedUnfiltered || !c.filter.Result().IsEmpty() {
		return
	}
	cr := c.filter.Criteria()
	if len(cr.ExcludedOwners) == 0 && len(cr.FilteredCategories) == 0 &&
		len(cr.IncludedOwners) == 0 && strings.TrimSpace(cr.Where) == "" {
		return
	}
	c.warnedUnfiltered = true
	c.runLogger.Warn("filter matched no element definitions, running unfiltered",
		slog.Any("included_owners", cr.IncludedOwners),
		slog.Any("excluded_owners", cr.ExcludedOwners),
		slog.Any("categories", cr.FilteredCategories),
		slog.String("where", cr.Where))
}

// typeName returns the short name of the parameter type of p.
func (c *base) typeName(p *types.Parameter) (string, error) {
	pt, err := c.snap.ParameterTypeOf(p)
	if err != nil {
		return "", err
	}
	return pt.ShortName, nil
}

// selected reports whether p is named by names (an empty list names every
// parameter) and passes the filter's parameter selection.
func (c *base) selected(p *types.Parameter, names []string) (bool, error) {
	name, err := c.typeName(p)
	if err != nil {
		return false, err
	}
	if len(names) > 0 && !slices.Contains(names, name) {
		return false, nil
	}
	return c.filter.IsParameterSpecifiedOrAny(p), nil
}

func (c *base) domainName(id string) string {
	if d, ok := c.snap.Site.Domain(id); ok {
		return d.ShortName
	}
	return id
}

func (c *base) scaleName(id string) string {
	if s, ok := c.snap.Site.Scale(id); ok {
		return s.ShortName
	}
	return id
}

// changeOwner records one transaction moving thing to domainID.
func (c *base) changeOwner(log *transaction.Log, thing types.HasOwner, domainID, context string) error {
	tx := c.builder.NewTransaction(context)
	w, err := c.builder.Edit(tx, thing)
	if err != nil {
		return err
	}
	w.(types.HasOwner).SetOwner(domainID)
	if _, err := c.builder.RecordUpdate(tx, w, transaction.AttrOwner); err != nil {
		return err
	}
	c.runLogger.Debug("owner change",
		slog.String("kind", string(thing.ThingKind())),
		slog.String("id", thing.ThingID()),
		slog.String("from", c.domainName(thing.OwnerID())),
		slog.String("to", c.domainName(domainID)))
	return log.Append(tx)
}
