// Package modeltest builds in-memory engineering models for tests.
package modeltest

import (
	"fmt"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// Builder assembles a snapshot node by node. Identities are deterministic:
// a kind prefix and a sequence number. Builder methods panic on graph
// errors; they are only used to set up fixtures.
type Builder struct {
	Iteration *model.Iteration
	Site      *model.SiteDirectory
	seq       int
}

// New returns a builder for an empty model.
func New(modelShortName string) *Builder {
	return &Builder{
		Iteration: model.NewIteration(modelShortName),
		Site:      model.NewSiteDirectory(),
	}
}

// Snapshot returns the model built so far.
func (b *Builder) Snapshot() model.Snapshot {
	return model.Snapshot{Iteration: b.Iteration, Site: b.Site}
}

func (b *Builder) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%03d", prefix, b.seq)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Domain adds a domain of expertise.
func (b *Builder) Domain(shortName string) *types.DomainOfExpertise {
	d := &types.DomainOfExpertise{ID: b.nextID("domain"), ShortName: shortName, Name: shortName}
	must(b.Site.Add(d))
	return d
}

// Category adds a category.
func (b *Builder) Category(shortName string) *types.Category {
	c := &types.Category{ID: b.nextID("category"), ShortName: shortName, Name: shortName}
	must(b.Site.Add(c))
	return c
}

// Scale adds a measurement scale.
func (b *Builder) Scale(shortName, unit string) *types.MeasurementScale {
	s := &types.MeasurementScale{ID: b.nextID("scale"), ShortName: shortName, Name: shortName, Unit: unit}
	must(b.Site.Add(s))
	return s
}

// QuantityKind adds a quantity-kind parameter type admitting the given
// scales; the first one is the default scale.
func (b *Builder) QuantityKind(shortName string, scales ...*types.MeasurementScale) *types.ParameterType {
	pt := &types.ParameterType{ID: b.nextID("ptype"), ShortName: shortName, Name: shortName, QuantityKind: true}
	for i, s := range scales {
		if i == 0 {
			pt.DefaultScale = s.ID
		}
		pt.PossibleScales = append(pt.PossibleScales, s.ID)
	}
	must(b.Site.Add(pt))
	return pt
}

// ScalarType adds a parameter type that carries no scale.
func (b *Builder) ScalarType(shortName string) *types.ParameterType {
	pt := &types.ParameterType{ID: b.nextID("ptype"), ShortName: shortName, Name: shortName}
	must(b.Site.Add(pt))
	return pt
}

// ElementDefinition adds an element definition.
func (b *Builder) ElementDefinition(shortName string, owner *types.DomainOfExpertise, categories ...*types.Category) *types.ElementDefinition {
	ed := &types.ElementDefinition{ID: b.nextID("ed"), ShortName: shortName, Name: shortName, Owner: owner.ID}
	for _, c := range categories {
		ed.Categories = append(ed.Categories, c.ID)
	}
	must(b.Iteration.Add(ed))
	return ed
}

// Usage adds a usage of def inside container.
func (b *Builder) Usage(container, def *types.ElementDefinition, owner *types.DomainOfExpertise) *types.ElementUsage {
	u := &types.ElementUsage{
		ID:                b.nextID("usage"),
		ShortName:         def.ShortName + "_u",
		Name:              def.Name,
		Owner:             owner.ID,
		Container:         container.ID,
		ElementDefinition: def.ID,
	}
	must(b.Iteration.Add(u))
	return u
}

// Parameter adds a parameter of type pt to ed. scale may be nil.
func (b *Builder) Parameter(ed *types.ElementDefinition, pt *types.ParameterType, owner *types.DomainOfExpertise, scale *types.MeasurementScale) *types.Parameter {
	p := &types.Parameter{ID: b.nextID("param"), Container: ed.ID, Owner: owner.ID, ParameterType: pt.ID}
	if scale != nil {
		p.Scale = scale.ID
	}
	must(b.Iteration.Add(p))
	return p
}

// Subscription adds a subscription of owner to p. scale may be nil.
func (b *Builder) Subscription(p *types.Parameter, owner *types.DomainOfExpertise, scale *types.MeasurementScale, valueSwitch string) *types.ParameterSubscription {
	s := &types.ParameterSubscription{ID: b.nextID("sub"), Container: p.ID, Owner: owner.ID, ValueSwitch: valueSwitch}
	if scale != nil {
		s.Scale = scale.ID
	}
	must(b.Iteration.Add(s))
	return s
}
