package model

import (
	"fmt"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// Snapshot pairs an iteration with the site directory it references. A
// command treats it as immutable for the whole run.
type Snapshot struct {
	Iteration *Iteration
	Site      *SiteDirectory
}

// Thing resolves an identity against the iteration first, then the site
// directory.
func (s Snapshot) Thing(id string) (types.Thing, bool) {
	if t, ok := s.Iteration.Thing(id); ok {
		return t, true
	}
	return s.Site.Thing(id)
}

// ParameterTypeOf returns the type of p. A dangling reference is a graph
// access error.
func (s Snapshot) ParameterTypeOf(p *types.Parameter) (*types.ParameterType, error) {
	pt, ok := s.Site.ParameterType(p.ParameterType)
	if !ok {
		return nil, fmt.Errorf("parameter type %s of parameter %s: %w", p.ParameterType, p.ID, ErrMissingThing)
	}
	return pt, nil
}

// OwnerShortName returns the short name of the owning domain, or "" when the
// owner does not resolve.
func (s Snapshot) OwnerShortName(t types.HasOwner) string {
	if d, ok := s.Site.Domain(t.OwnerID()); ok {
		return d.ShortName
	}
	return ""
}
