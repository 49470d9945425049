package command

import (
	"fmt"
	"log/slog"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/filter"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// ScaleCommand changes the measurement scale of quantity-kind parameters.
type ScaleCommand struct {
	base
	millimetre string
}

// NewScaleCommand returns a scale command for one run.
func NewScaleCommand(args types.Arguments, snap model.Snapshot, fs *filter.Service, opts Options) *ScaleCommand {
	mm := opts.MillimetreScale
	if mm == "" {
		mm = DefaultMillimetreScale
	}
	return &ScaleCommand{base: newBase(args, snap, fs, opts), millimetre: mm}
}

// AssignMeasurementScale sets Scale on every named quantity-kind parameter
// of the selected element definitions. Parameter types whose possible
// scales exclude the target are skipped.
func (c *ScaleCommand) AssignMeasurementScale() (Outcome, error) {
	c.begin(types.ActionSetScale)

	scale, ok := c.snap.Site.ScaleByShortName(c.args.Scale)
	if !ok {
		return c.abort("scale %q not found", c.args.Scale), nil
	}
	if len(c.args.Parameters) == 0 {
		return c.abort("no parameters given"), nil
	}

	log := &transaction.Log{}
	for _, ed := range c.elementDefinitions() {
		params, err := c.snap.Iteration.ParametersOf(ed)
		if err != nil {
			return Outcome{}, err
		}
		for _, p := range params {
			ok, err := c.selected(p, c.args.Parameters)
			if err != nil {
				return Outcome{}, err
			}
			if !ok || p.Scale == scale.ID {
				continue
			}
			pt, err := c.snap.ParameterTypeOf(p)
			if err != nil {
				return Outcome{}, err
			}
			if !pt.QuantityKind {
				continue
			}
			if !pt.AdmitsScale(scale.ID) {
				c.runLogger.Warn("scale not admitted by parameter type",
					slog.String("element_definition", ed.ShortName),
					slog.String("parameter_type", pt.ShortName),
					slog.String("scale", scale.ShortName))
				continue
			}

			tx := c.builder.NewTransaction(fmt.Sprintf("%s %s.%s: %s -> %s",
				c.action, ed.ShortName, pt.ShortName, c.scaleName(p.Scale), scale.ShortName))
			if err := c.setScale(tx, p, scale.ID); err != nil {
				return Outcome{}, err
			}
			if err := log.Append(tx); err != nil {
				return Outcome{}, err
			}
		}
	}
	return c.built(log), nil
}

// StandardizeDimensionsInMillimetre moves every quantity-kind parameter
// whose type admits millimetres onto that scale. Subscriptions that follow
// the parameter's scale move with it in the same transaction; subscriptions
// carrying their own scale are left alone.
func (c *ScaleCommand) StandardizeDimensionsInMillimetre() (Outcome, error) {
	c.begin(types.ActionStandardizeDimensionsInMM)

	mm, ok := c.snap.Site.ScaleByShortName(c.millimetre)
	if !ok {
		return c.abort("scale %q not found", c.millimetre), nil
	}

	log := &transaction.Log{}
	for _, ed := range c.elementDefinitions() {
		params, err := c.snap.Iteration.ParametersOf(ed)
		if err != nil {
			return Outcome{}, err
		}
		for _, p := range params {
			ok, err := c.selected(p, c.args.Parameters)
			if err != nil {
				return Outcome{}, err
			}
			if !ok || p.Scale == mm.ID {
				continue
			}
			pt, err := c.snap.ParameterTypeOf(p)
			if err != nil {
				return Outcome{}, err
			}
			if !pt.QuantityKind || len(pt.PossibleScales) == 0 || !pt.AdmitsScale(mm.ID) {
				continue
			}

			tx := c.builder.NewTransaction(fmt.Sprintf("%s %s.%s: %s -> %s",
				c.action, ed.ShortName, pt.ShortName, c.scaleName(p.Scale), mm.ShortName))
			subs, err := c.snap.Iteration.SubscriptionsOf(p)
			if err != nil {
				return Outcome{}, err
			}
			for _, s := range subs {
				if s.Scale != p.Scale {
					continue
				}
				if err := c.setScale(tx, s, mm.ID); err != nil {
					return Outcome{}, err
				}
			}
			if err := c.setScale(tx, p, mm.ID); err != nil {
				return Outcome{}, err
			}
			if err := log.Append(tx); err != nil {
				return Outcome{}, err
			}
		}
	}
	return c.built(log), nil
}

func (c *ScaleCommand) setScale(tx *transaction.Transaction, thing types.HasScale, scaleID string) error {
	w, err := c.builder.Edit(tx, thing)
	if err != nil {
		return err
	}
	w.(types.HasScale).SetScale(scaleID)
	_, err = c.builder.RecordUpdate(tx, w, transaction.AttrScale)
	return err
}
