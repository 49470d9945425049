// Package model holds the read-only engineering model graph a batch run
// works against: the Iteration arena of element definitions, usages,
// parameters and subscriptions, and the SiteDirectory of domains, categories,
// scales and parameter types.
//
// Nodes are addressed by identity. Containment is kept as identity lists on
// the container; nothing holds a pointer to another node.
package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// Graph access errors. They indicate a corrupt snapshot and are returned to
// the caller as hard failures.
var (
	ErrMissingThing    = errors.New("thing not found in graph")
	ErrDuplicateThing  = errors.New("duplicate thing identity")
	ErrUnsupportedKind = errors.New("kind not held by this container")
)

// Lookup resolves a node by identity.
type Lookup interface {
	Thing(id string) (types.Thing, bool)
}

// Iteration is the element graph of one engineering model iteration.
type Iteration struct {
	ModelShortName string

	things   map[string]types.Thing
	elements []string
}

// NewIteration returns an empty iteration for the named model.
func NewIteration(modelShortName string) *Iteration {
	return &Iteration{
		ModelShortName: modelShortName,
		things:         make(map[string]types.Thing),
	}
}

// Add inserts a node and links it into its container. Containers must be
// added before the nodes they contain.
func (it *Iteration) Add(t types.Thing) error {
	id := t.ThingID()
	if id == "" {
		return fmt.Errorf("add %s: %w: empty identity", t.ThingKind(), ErrMissingThing)
	}
	if _, exists := it.things[id]; exists {
		return fmt.Errorf("add %s %s: %w", t.ThingKind(), id, ErrDuplicateThing)
	}

	switch v := t.(type) {
	case *types.ElementDefinition:
		it.elements = append(it.elements, id)
	case *types.ElementUsage:
		container, err := it.ElementDefinition(v.Container)
		if err != nil {
			return fmt.Errorf("add usage %s: %w", id, err)
		}
		container.ContainedElements = appendMissing(container.ContainedElements, id)
	case *types.Parameter:
		container, err := it.ElementDefinition(v.Container)
		if err != nil {
			return fmt.Errorf("add parameter %s: %w", id, err)
		}
		container.Parameters = appendMissing(container.Parameters, id)
	case *types.ParameterSubscription:
		container, err := it.Parameter(v.Container)
		if err != nil {
			return fmt.Errorf("add subscription %s: %w", id, err)
		}
		container.Subscriptions = appendMissing(container.Subscriptions, id)
	default:
		return fmt.Errorf("add %s %s: %w", t.ThingKind(), id, ErrUnsupportedKind)
	}

	it.things[id] = t
	return nil
}

// Thing returns the node with the given identity.
func (it *Iteration) Thing(id string) (types.Thing, bool) {
	t, ok := it.things[id]
	return t, ok
}

// Len returns the number of nodes in the iteration.
func (it *Iteration) Len() int {
	return len(it.things)
}

// ElementDefinitions returns every element definition in declaration order.
func (it *Iteration) ElementDefinitions() []*types.ElementDefinition {
	out := make([]*types.ElementDefinition, 0, len(it.elements))
	for _, id := range it.elements {
		if ed, ok := it.things[id].(*types.ElementDefinition); ok {
			out = append(out, ed)
		}
	}
	return out
}

// ElementDefinitionsNamed returns the element definitions whose short name
// equals shortName, in declaration order. Short names are not unique.
func (it *Iteration) ElementDefinitionsNamed(shortName string) []*types.ElementDefinition {
	var out []*types.ElementDefinition
	for _, ed := range it.ElementDefinitions() {
		if ed.ShortName == shortName {
			out = append(out, ed)
		}
	}
	return out
}

// ElementDefinition returns the element definition with the given identity.
func (it *Iteration) ElementDefinition(id string) (*types.ElementDefinition, error) {
	return lookup[*types.ElementDefinition](it.things, id, types.KindElementDefinition)
}

// Usage returns the element usage with the given identity.
func (it *Iteration) Usage(id string) (*types.ElementUsage, error) {
	return lookup[*types.ElementUsage](it.things, id, types.KindElementUsage)
}

// Parameter returns the parameter with the given identity.
func (it *Iteration) Parameter(id string) (*types.Parameter, error) {
	return lookup[*types.Parameter](it.things, id, types.KindParameter)
}

// Subscription returns the parameter subscription with the given identity.
func (it *Iteration) Subscription(id string) (*types.ParameterSubscription, error) {
	return lookup[*types.ParameterSubscription](it.things, id, types.KindParameterSubscription)
}

// ParametersOf returns the parameters contained by ed in declaration order.
func (it *Iteration) ParametersOf(ed *types.ElementDefinition) ([]*types.Parameter, error) {
	out := make([]*types.Parameter, 0, len(ed.Parameters))
	for _, id := range ed.Parameters {
		p, err := it.Parameter(id)
		if err != nil {
			return nil, fmt.Errorf("parameters of %s: %w", ed.ShortName, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// SubscriptionsOf returns the subscriptions of p in declaration order.
func (it *Iteration) SubscriptionsOf(p *types.Parameter) ([]*types.ParameterSubscription, error) {
	out := make([]*types.ParameterSubscription, 0, len(p.Subscriptions))
	for _, id := range p.Subscriptions {
		s, err := it.Subscription(id)
		if err != nil {
			return nil, fmt.Errorf("subscriptions of %s: %w", p.ID, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// UsagesOf returns the element usages contained by ed.
func (it *Iteration) UsagesOf(ed *types.ElementDefinition) ([]*types.ElementUsage, error) {
	out := make([]*types.ElementUsage, 0, len(ed.ContainedElements))
	for _, id := range ed.ContainedElements {
		u, err := it.Usage(id)
		if err != nil {
			return nil, fmt.Errorf("usages of %s: %w", ed.ShortName, err)
		}
		out = append(out, u)
	}
	return out, nil
}

// UsagesReferencing returns every element usage, across all containers,
// that instantiates the element definition edID.
func (it *Iteration) UsagesReferencing(edID string) ([]*types.ElementUsage, error) {
	var out []*types.ElementUsage
	for _, container := range it.ElementDefinitions() {
		usages, err := it.UsagesOf(container)
		if err != nil {
			return nil, err
		}
		for _, u := range usages {
			if u.ElementDefinition == edID {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

// Changes is the part of a finished transaction that Apply consumes.
type Changes interface {
	Added() []types.Thing
	Updated() []types.Thing
}

// Apply folds committed changes into the iteration. Updated nodes replace
// their predecessors; added nodes are linked into their containers.
func (it *Iteration) Apply(c Changes) error {
	for _, t := range c.Updated() {
		prev, ok := it.things[t.ThingID()]
		if !ok {
			return fmt.Errorf("apply update %s: %w", t.ThingID(), ErrMissingThing)
		}
		if prev.ThingKind() != t.ThingKind() {
			return fmt.Errorf("apply update %s: %w: kind changed from %s to %s",
				t.ThingID(), ErrUnsupportedKind, prev.ThingKind(), t.ThingKind())
		}
		it.things[t.ThingID()] = t.Clone()
	}
	for _, t := range c.Added() {
		if err := it.Add(t.Clone()); err != nil {
			return fmt.Errorf("apply add: %w", err)
		}
	}
	return nil
}

func lookup[T types.Thing](things map[string]types.Thing, id string, kind types.Kind) (T, error) {
	var zero T
	t, ok := things[id]
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", kind, id, ErrMissingThing)
	}
	v, ok := t.(T)
	if !ok {
		return zero, fmt.Errorf("%s %s: %w: found %s", kind, id, ErrMissingThing, t.ThingKind())
	}
	return v, nil
}

func appendMissing(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
