package command

import (
	"fmt"
	"log/slog"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/filter"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// SubscriptionCommand creates and updates parameter subscriptions of the
// included owners.
type SubscriptionCommand struct {
	base
	newID func() string
}

// NewSubscriptionCommand returns a subscription command for one run.
func NewSubscriptionCommand(args types.Arguments, snap model.Snapshot, fs *filter.Service, opts Options) *SubscriptionCommand {
	return &SubscriptionCommand{base: newBase(args, snap, fs, opts), newID: transaction.NewID}
}

// Subscribe subscribes every included owner to the selected parameters it
// neither owns nor already subscribes to. New subscriptions copy the
// parameter's scale and start on the MANUAL switch.
func (c *SubscriptionCommand) Subscribe() (Outcome, error) {
	c.begin(types.ActionSubscribe)

	if len(c.args.IncludedOwners) == 0 {
		return c.abort("no included owners given"), nil
	}
	owners := c.filter.Result().IncludedOwners()
	if len(owners) == 0 {
		return c.abort("none of the included owners %v resolve", c.args.IncludedOwners), nil
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
			if !ok {
				continue
			}
			subs, err := c.snap.Iteration.SubscriptionsOf(p)
			if err != nil {
				return Outcome{}, err
			}
			subscribed := make(map[string]bool, len(subs))
			for _, s := range subs {
				subscribed[s.Owner] = true
			}

			name, err := c.typeName(p)
			if err != nil {
				return Outcome{}, err
			}
			tx := c.builder.NewTransaction(fmt.Sprintf("%s %s.%s", c.action, ed.ShortName, name))
			var added []*types.ParameterSubscription
			for _, d := range owners {
				if d.ID == p.Owner || subscribed[d.ID] {
					continue
				}
				added = append(added, &types.ParameterSubscription{
					ID:          c.newID(),
					Container:   p.ID,
					Owner:       d.ID,
					Scale:       p.Scale,
					ValueSwitch: types.ValueSwitchManual,
				})
			}
			if len(added) == 0 {
				continue
			}

			w, err := c.builder.Edit(tx, p)
			if err != nil {
				return Outcome{}, err
			}
			wp := w.(*types.Parameter)
			for _, s := range added {
				if err := c.builder.RecordAdd(tx, s); err != nil {
					return Outcome{}, err
				}
				wp.Subscriptions = append(wp.Subscriptions, s.ID)
				c.runLogger.Debug("subscription added",
					slog.String("element_definition", ed.ShortName),
					slog.String("parameter_type", name),
					slog.String("owner", c.domainName(s.Owner)))
			}
			if _, err := c.builder.RecordUpdate(tx, wp, transaction.AttrSubscriptions); err != nil {
				return Outcome{}, err
			}
			if err := log.Append(tx); err != nil {
				return Outcome{}, err
			}
		}
	}
	return c.built(log), nil
}

// SetSubscriptionSwitch sets ValueSwitch on the included owners'
// subscriptions to the selected parameters.
func (c *SubscriptionCommand) SetSubscriptionSwitch() (Outcome, error) {
	c.begin(types.ActionSetSubscriptionSwitch)

	if !types.IsValidValueSwitch(c.args.ValueSwitch) {
		return c.abort("value switch %q is not one of %s, %s, %s", c.args.ValueSwitch,
			types.ValueSwitchComputed, types.ValueSwitchManual, types.ValueSwitchReference), nil
	}
	result := c.filter.Result()

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
			if !ok {
				continue
			}
			subs, err := c.snap.Iteration.SubscriptionsOf(p)
			if err != nil {
				return Outcome{}, err
			}
			name, err := c.typeName(p)
			if err != nil {
				return Outcome{}, err
			}
			tx := c.builder.NewTransaction(fmt.Sprintf("%s %s.%s: %s", c.action, ed.ShortName, name, c.args.ValueSwitch))
			for _, s := range subs {
				if !result.IsOwnerIncluded(s.Owner) || s.ValueSwitch == c.args.ValueSwitch {
					continue
				}
				w, err := c.builder.Edit(tx, s)
				if err != nil {
					return Outcome{}, err
				}
				w.(*types.ParameterSubscription).ValueSwitch = c.args.ValueSwitch
				if _, err := c.builder.RecordUpdate(tx, w, transaction.AttrValueSwitch); err != nil {
					return Outcome{}, err
				}
			}
			if err := log.Append(tx); err != nil {
				return Outcome{}, err
			}
		}
	}
	return c.built(log), nil
}
