package command

import (
	"fmt"
	"maps"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/filter"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// DefaultGenericOwners is the parameter type to domain table applied by
// SetGenericEquipmentOwnership when no other table is configured.
var DefaultGenericOwners = map[string]string{
	"m":       "MEC",
	"n_items": "SYS",
	"P_on":    "PWR",
	"P_stby":  "PWR",
	"T_op":    "THE",
}

// DomainCommand reassigns ownership of element definitions, usages and
// parameters.
type DomainCommand struct {
	base
	genericOwners map[string]string
}

// NewDomainCommand returns a domain command for one run.
func NewDomainCommand(args types.Arguments, snap model.Snapshot, fs *filter.Service, opts Options) *DomainCommand {
	owners := opts.GenericOwners
	if owners == nil {
		owners = DefaultGenericOwners
	}
	return &DomainCommand{
		base:          newBase(args, snap, fs, opts),
		genericOwners: maps.Clone(owners),
	}
}

// ChangeDomain moves an element definition, the named parameters of it and
// the usages of it from Domain to ToDomain. Only nodes owned by Domain
// change. An empty Parameters list selects every parameter.
func (c *DomainCommand) ChangeDomain() (Outcome, error) {
	c.begin(types.ActionChangeDomain)
	site := c.snap.Site

	from, ok := site.DomainByShortName(c.args.Domain)
	if !ok {
		return c.abort("source domain %q not found", c.args.Domain), nil
	}
	to, ok := site.DomainByShortName(c.args.ToDomain)
	if !ok {
		return c.abort("target domain %q not found", c.args.ToDomain), nil
	}
	if from.ID == to.ID {
		return c.abort("source and target domain are both %q", from.ShortName), nil
	}
	if c.args.ElementDefinition == "" {
		return c.abort("element definition required"), nil
	}

	type plan struct {
		ed     *types.ElementDefinition
		params []*types.Parameter
		usages []*types.ElementUsage
	}
	var plans []plan
	for _, ed := range c.elementDefinitions() {
		if ed.Owner != from.ID {
			continue
		}
		p := plan{ed: ed}
		params, err := c.snap.Iteration.ParametersOf(ed)
		if err != nil {
			return Outcome{}, err
		}
		for _, param := range params {
			if param.Owner != from.ID {
				continue
			}
			ok, err := c.selected(param, c.args.Parameters)
			if err != nil {
				return Outcome{}, err
			}
			if ok {
				p.params = append(p.params, param)
			}
		}
		if len(p.params) == 0 {
			continue
		}
		usages, err := c.snap.Iteration.UsagesReferencing(ed.ID)
		if err != nil {
			return Outcome{}, err
		}
		for _, u := range usages {
			if u.Owner == from.ID {
				p.usages = append(p.usages, u)
			}
		}
		plans = append(plans, p)
	}
	if len(plans) == 0 {
		return c.abort("no element definition %q owned by %q with matching parameters",
			c.args.ElementDefinition, from.ShortName), nil
	}

	log := &transaction.Log{}
	for _, p := range plans {
		context := fmt.Sprintf("%s %s: %s -> %s", c.action, p.ed.ShortName, from.ShortName, to.ShortName)
		if err := c.changeOwner(log, p.ed, to.ID, context); err != nil {
			return Outcome{}, err
		}
		for _, param := range p.params {
			if err := c.changeOwner(log, param, to.ID, context); err != nil {
				return Outcome{}, err
			}
		}
		for _, u := range p.usages {
			if err := c.changeOwner(log, u, to.ID, context); err != nil {
				return Outcome{}, err
			}
		}
	}
	return c.built(log), nil
}

// ChangeParameterOwnership gives every named parameter of the selected
// element definitions to Domain.
func (c *DomainCommand) ChangeParameterOwnership() (Outcome, error) {
	c.begin(types.ActionChangeParameterOwnership)

	to, ok := c.snap.Site.DomainByShortName(c.args.Domain)
	if !ok {
		return c.abort("target domain %q not found", c.args.Domain), nil
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
			if p.Owner == to.ID {
				continue
			}
			ok, err := c.selected(p, c.args.Parameters)
			if err != nil {
				return Outcome{}, err
			}
			if !ok {
				continue
			}
			context := fmt.Sprintf("%s %s: -> %s", c.action, ed.ShortName, to.ShortName)
			if err := c.changeOwner(log, p, to.ID, context); err != nil {
				return Outcome{}, err
			}
		}
	}
	return c.built(log), nil
}

// SetGenericEquipmentOwnership assigns each parameter whose type appears in
// the generic owners table to the domain the table names. When Domain is
// set only parameters it currently owns are reassigned.
func (c *DomainCommand) SetGenericEquipmentOwnership() (Outcome, error) {
	c.begin(types.ActionSetGenericOwners)
	site := c.snap.Site

	if len(c.snap.Iteration.ElementDefinitionsNamed(c.args.ElementDefinition)) == 0 {
		return c.abort("element definition %q not found", c.args.ElementDefinition), nil
	}
	var source *types.DomainOfExpertise
	if c.args.Domain != "" {
		d, ok := site.DomainByShortName(c.args.Domain)
		if !ok {
			return c.abort("source domain %q not found", c.args.Domain), nil
		}
		source = d
	}

	type change struct {
		ed    *types.ElementDefinition
		param *types.Parameter
		to    *types.DomainOfExpertise
	}
	var changes []change
	for _, ed := range c.elementDefinitions() {
		params, err := c.snap.Iteration.ParametersOf(ed)
		if err != nil {
			return Outcome{}, err
		}
		for _, p := range params {
			if source != nil && p.Owner != source.ID {
				continue
			}
			name, err := c.typeName(p)
			if err != nil {
				return Outcome{}, err
			}
			target, ok := c.genericOwners[name]
			if !ok || !c.filter.IsParameterSpecifiedOrAny(p) {
				continue
			}
			to, ok := site.DomainByShortName(target)
			if !ok {
				return c.abort("generic owner %q of parameter %q not found", target, name), nil
			}
			if p.Owner != to.ID {
				changes = append(changes, change{ed: ed, param: p, to: to})
			}
		}
	}

	log := &transaction.Log{}
	for _, ch := range changes {
		context := fmt.Sprintf("%s %s: -> %s", c.action, ch.ed.ShortName, ch.to.ShortName)
		if err := c.changeOwner(log, ch.param, ch.to.ID, context); err != nil {
			return Outcome{}, err
		}
	}
	return c.built(log), nil
}
