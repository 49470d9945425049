package types

import (
	"fmt"
	"slices"
	"strings"
)

// Action selects the operation a batch run performs.
type Action string

// Supported actions.
const (
	ActionChangeDomain              Action = "ChangeDomain"
	ActionChangeParameterOwnership  Action = "ChangeParameterOwnership"
	ActionSetGenericOwners          Action = "SetGenericOwners"
	ActionSetScale                  Action = "SetScale"
	ActionStandardizeDimensionsInMM Action = "StandardizeDimensionsInMillimeter"
	ActionSubscribe                 Action = "Subscribe"
	ActionSetSubscriptionSwitch     Action = "SetSubscriptionSwitch"
)

// Actions lists every supported action in help order.
var Actions = []Action{
	ActionChangeDomain,
	ActionChangeParameterOwnership,
	ActionSetGenericOwners,
	ActionSetScale,
	ActionStandardizeDimensionsInMM,
	ActionSubscribe,
	ActionSetSubscriptionSwitch,
}

// ParseAction maps a name to its Action, ignoring case.
func ParseAction(name string) (Action, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrActionRequired
	}
	for _, a := range Actions {
		if strings.EqualFold(string(a), name) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownAction, name)
}

// FilterCriteria holds the inclusion and exclusion options of one run. It is
// built once per command invocation and not modified afterwards.
type FilterCriteria struct {
	IncludedOwners     []string
	ExcludedOwners     []string
	FilteredCategories []string
	SelectedParameters []string
	ElementDefinition  string
	Domain             string

	// Where is an optional CEL predicate over element definitions.
	Where string
}

// Arguments is the configuration consumed by the command engine.
type Arguments struct {
	Action            Action
	Model             string
	ElementDefinition string
	Parameters        []string
	Domain            string
	ToDomain          string
	Scale             string
	ValueSwitch       string

	IncludedOwners     []string
	ExcludedOwners     []string
	FilteredCategories []string
	SelectedParameters []string
	Where              string

	DryRun bool
}

// Criteria derives the filter criteria for this run. The returned value
// shares no slices with a.
func (a Arguments) Criteria() FilterCriteria {
	return FilterCriteria{
		IncludedOwners:     slices.Clone(a.IncludedOwners),
		ExcludedOwners:     slices.Clone(a.ExcludedOwners),
		FilteredCategories: slices.Clone(a.FilteredCategories),
		SelectedParameters: slices.Clone(a.SelectedParameters),
		ElementDefinition:  a.ElementDefinition,
		Domain:             a.Domain,
		Where:              a.Where,
	}
}

// Validate checks the arguments that can be checked without a model.
func (a Arguments) Validate() error {
	if a.Action == "" {
		return ErrActionRequired
	}
	if !slices.Contains(Actions, a.Action) {
		return fmt.Errorf("%w %q", ErrUnknownAction, a.Action)
	}
	if a.ValueSwitch != "" && !IsValidValueSwitch(a.ValueSwitch) {
		return fmt.Errorf("%w %q", ErrInvalidValueSwitch, a.ValueSwitch)
	}
	return nil
}
