// Package filter decides which nodes of the model graph take part in a
// batch run. A Service evaluates the run's FilterCriteria against an
// iteration and keeps the latest Result; every evaluation produces a new
// Result, earlier ones are never modified.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// ErrInvalidExpression is returned when the Where predicate does not
// compile to a boolean expression.
var ErrInvalidExpression = errors.New("invalid filter expression")

// Result is the outcome of one ProcessFilters call.
type Result struct {
	owners     []*types.DomainOfExpertise
	ownerIDs   map[string]bool
	elements   []*types.ElementDefinition
	elementIDs map[string]bool
}

// IncludedOwners returns the included domains in site directory order.
func (r *Result) IncludedOwners() []*types.DomainOfExpertise {
	return slices.Clone(r.owners)
}

// IsOwnerIncluded reports whether domainID is an included owner.
func (r *Result) IsOwnerIncluded(domainID string) bool {
	return r.ownerIDs[domainID]
}

// ElementDefinitions returns the filtered element definitions in
// declaration order.
func (r *Result) ElementDefinitions() []*types.ElementDefinition {
	return slices.Clone(r.elements)
}

// Contains reports whether id is a filtered element definition.
func (r *Result) Contains(id string) bool {
	return r.elementIDs[id]
}

// IsEmpty reports whether no element definition passed the filter.
func (r *Result) IsEmpty() bool {
	return len(r.elements) == 0
}

func emptyResult() *Result {
	return &Result{ownerIDs: map[string]bool{}, elementIDs: map[string]bool{}}
}

// Service evaluates filter criteria for one command invocation.
type Service struct {
	criteria types.FilterCriteria
	site     *model.SiteDirectory
	where    cel.Program
	current  *Result
}

// NewService returns a service for criteria. The Where predicate, if any,
// is compiled here.
func NewService(criteria types.FilterCriteria, site *model.SiteDirectory) (*Service, error) {
	s := &Service{criteria: criteria, site: site, current: emptyResult()}
	if strings.TrimSpace(criteria.Where) != "" {
		prg, err := compileWhere(criteria.Where)
		if err != nil {
			return nil, err
		}
		s.where = prg
	}
	return s, nil
}

// Criteria returns the criteria the service was built with.
func (s *Service) Criteria() types.FilterCriteria {
	return s.criteria
}

// Result returns the result of the last ProcessFilters call.
func (s *Service) Result() *Result {
	return s.current
}

// ProcessFilters computes the included owners and the filtered element
// definitions of it, replaces the current result and returns it. Calling
// it again on the same graph yields an equal result.
func (s *Service) ProcessFilters(it *model.Iteration) (*Result, error) {
	r := emptyResult()

	for _, d := range s.site.Domains() {
		if slices.Contains(s.criteria.ExcludedOwners, d.ShortName) {
			continue
		}
		if len(s.criteria.IncludedOwners) > 0 && !slices.Contains(s.criteria.IncludedOwners, d.ShortName) {
			continue
		}
		if r.ownerIDs[d.ID] {
			continue
		}
		r.owners = append(r.owners, d)
		r.ownerIDs[d.ID] = true
	}

	for _, ed := range it.ElementDefinitions() {
		keep, err := s.keep(ed, r)
		if err != nil {
			return nil, err
		}
		if keep {
			r.elements = append(r.elements, ed)
			r.elementIDs[ed.ID] = true
		}
	}

	s.current = r
	return r, nil
}

func (s *Service) keep(ed *types.ElementDefinition, r *Result) (bool, error) {
	if !r.ownerIDs[ed.Owner] {
		return false, nil
	}
	if s.criteria.ElementDefinition != "" && ed.ShortName != s.criteria.ElementDefinition {
		return false, nil
	}
	categories := s.categoryNames(ed.Categories)
	if len(s.criteria.FilteredCategories) > 0 && !intersects(categories, s.criteria.FilteredCategories) {
		return false, nil
	}
	if s.where == nil {
		return true, nil
	}

	owner := ""
	if d, ok := s.site.Domain(ed.Owner); ok {
		owner = d.ShortName
	}
	out, _, err := s.where.Eval(map[string]any{
		"shortName":  ed.ShortName,
		"name":       ed.Name,
		"owner":      owner,
		"categories": categories,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate where on %s: %w", ed.ShortName, err)
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate where on %s: %w: non-boolean result", ed.ShortName, ErrInvalidExpression)
	}
	return v, nil
}

// Clear resets the current result to the empty result.
func (s *Service) Clear() {
	s.current = emptyResult()
}

// IsFilteredInOrFilterIsEmpty reports whether thing is a filtered element
// definition. An empty filtered set admits everything.
func (s *Service) IsFilteredInOrFilterIsEmpty(thing types.Thing) bool {
	if s.current.IsEmpty() {
		return true
	}
	return s.current.Contains(thing.ThingID())
}

// IsParameterSpecifiedOrAny reports whether the type of p is one of the
// selected parameters. No selection admits every parameter.
func (s *Service) IsParameterSpecifiedOrAny(p *types.Parameter) bool {
	if len(s.criteria.SelectedParameters) == 0 {
		return true
	}
	pt, ok := s.site.ParameterType(p.ParameterType)
	if !ok {
		return false
	}
	return slices.Contains(s.criteria.SelectedParameters, pt.ShortName)
}

func (s *Service) categoryNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.site.Category(id); ok {
			names = append(names, c.ShortName)
		}
	}
	return names
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if slices.Contains(b, v) {
			return true
		}
	}
	return false
}

func compileWhere(expr string) (cel.Program, error) {
	env, err := cel.NewEnv(
		cel.Variable("shortName", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("owner", cel.StringType),
		cel.Variable("categories", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("where environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q must be boolean, got %s", ErrInvalidExpression, expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return prg, nil
}
