package model

import (
	"fmt"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// SiteDirectory holds the reference data shared by all models: domains of
// expertise, categories, measurement scales and parameter types.
type SiteDirectory struct {
	things         map[string]types.Thing
	domains        []*types.DomainOfExpertise
	categories     []*types.Category
	scales         []*types.MeasurementScale
	parameterTypes []*types.ParameterType
}

// NewSiteDirectory returns an empty directory.
func NewSiteDirectory() *SiteDirectory {
	return &SiteDirectory{things: make(map[string]types.Thing)}
}

// Add inserts a reference data node.
func (s *SiteDirectory) Add(t types.Thing) error {
	id := t.ThingID()
	if id == "" {
		return fmt.Errorf("add %s: %w: empty identity", t.ThingKind(), ErrMissingThing)
	}
	if _, exists := s.things[id]; exists {
		return fmt.Errorf("add %s %s: %w", t.ThingKind(), id, ErrDuplicateThing)
	}
	switch v := t.(type) {
	case *types.DomainOfExpertise:
		s.domains = append(s.domains, v)
	case *types.Category:
		s.categories = append(s.categories, v)
	case *types.MeasurementScale:
		s.scales = append(s.scales, v)
	case *types.ParameterType:
		s.parameterTypes = append(s.parameterTypes, v)
	default:
		return fmt.Errorf("add %s %s: %w", t.ThingKind(), id, ErrUnsupportedKind)
	}
	s.things[id] = t
	return nil
}

// Thing returns the reference node with the given identity.
func (s *SiteDirectory) Thing(id string) (types.Thing, bool) {
	t, ok := s.things[id]
	return t, ok
}

// Domains returns every domain in declaration order.
func (s *SiteDirectory) Domains() []*types.DomainOfExpertise {
	out := make([]*types.DomainOfExpertise, len(s.domains))
	copy(out, s.domains)
	return out
}

// Domain returns the domain with the given identity.
func (s *SiteDirectory) Domain(id string) (*types.DomainOfExpertise, bool) {
	d, ok := s.things[id].(*types.DomainOfExpertise)
	return d, ok
}

// DomainByShortName returns the first domain named shortName.
func (s *SiteDirectory) DomainByShortName(shortName string) (*types.DomainOfExpertise, bool) {
	for _, d := range s.domains {
		if d.ShortName == shortName {
			return d, true
		}
	}
	return nil, false
}

// Categories returns every category in declaration order.
func (s *SiteDirectory) Categories() []*types.Category {
	out := make([]*types.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Category returns the category with the given identity.
func (s *SiteDirectory) Category(id string) (*types.Category, bool) {
	c, ok := s.things[id].(*types.Category)
	return c, ok
}

// Scales returns every measurement scale in declaration order.
func (s *SiteDirectory) Scales() []*types.MeasurementScale {
	out := make([]*types.MeasurementScale, len(s.scales))
	copy(out, s.scales)
	return out
}

// Scale returns the scale with the given identity.
func (s *SiteDirectory) Scale(id string) (*types.MeasurementScale, bool) {
	sc, ok := s.things[id].(*types.MeasurementScale)
	return sc, ok
}

// ScaleByShortName returns the first scale named shortName.
func (s *SiteDirectory) ScaleByShortName(shortName string) (*types.MeasurementScale, bool) {
	for _, sc := range s.scales {
		if sc.ShortName == shortName {
			return sc, true
		}
	}
	return nil, false
}

// ParameterTypes returns every parameter type in declaration order.
func (s *SiteDirectory) ParameterTypes() []*types.ParameterType {
	out := make([]*types.ParameterType, len(s.parameterTypes))
	copy(out, s.parameterTypes)
	return out
}

// ParameterType returns the parameter type with the given identity.
func (s *SiteDirectory) ParameterType(id string) (*types.ParameterType, bool) {
	pt, ok := s.things[id].(*types.ParameterType)
	return pt, ok
}
