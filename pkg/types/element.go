package types

import "slices"

// ElementDefinition is a reusable, domain-owned description of a system
// component. Parameters and ContainedElements list the identities of the
// nodes it contains, in declaration order.
type ElementDefinition struct {
	ID                string   `json:"id"`
	ShortName         string   `json:"short_name"`
	Name              string   `json:"name"`
	Owner             string   `json:"owner"`
	Categories        []string `json:"categories,omitempty"`
	Parameters        []string `json:"-"`
	ContainedElements []string `json:"-"`
}

// ThingID returns the element definition identifier.
func (e *ElementDefinition) ThingID() string { return e.ID }

// ThingKind returns KindElementDefinition.
func (e *ElementDefinition) ThingKind() Kind { return KindElementDefinition }

// OwnerID returns the owning domain of expertise.
func (e *ElementDefinition) OwnerID() string { return e.Owner }

// SetOwner sets the owning domain of expertise.
func (e *ElementDefinition) SetOwner(d string) { e.Owner = d }

// Clone returns a deep copy of the element definition.
func (e *ElementDefinition) Clone() Thing {
	c := *e
	c.Categories = slices.Clone(e.Categories)
	c.Parameters = slices.Clone(e.Parameters)
	c.ContainedElements = slices.Clone(e.ContainedElements)
	return &c
}

// ElementUsage instantiates ElementDefinition inside the composition of
// Container, another element definition.
type ElementUsage struct {
	ID                string   `json:"id"`
	ShortName         string   `json:"short_name"`
	Name              string   `json:"name"`
	Owner             string   `json:"owner"`
	Container         string   `json:"container"`
	ElementDefinition string   `json:"element_definition"`
	Categories        []string `json:"categories,omitempty"`
}

// ThingID returns the element usage identifier.
func (u *ElementUsage) ThingID() string { return u.ID }

// ThingKind returns KindElementUsage.
func (u *ElementUsage) ThingKind() Kind { return KindElementUsage }

// OwnerID returns the owning domain of expertise.
func (u *ElementUsage) OwnerID() string { return u.Owner }

// SetOwner sets the owning domain of expertise.
func (u *ElementUsage) SetOwner(d string) { u.Owner = d }

// Clone returns a deep copy of the element usage.
func (u *ElementUsage) Clone() Thing {
	c := *u
	c.Categories = slices.Clone(u.Categories)
	return &c
}
