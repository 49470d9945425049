package types

import "slices"

// Value switch positions of a parameter subscription.
const (
	ValueSwitchComputed  = "COMPUTED"
	ValueSwitchManual    = "MANUAL"
	ValueSwitchReference = "REFERENCE"
)

var validValueSwitches = map[string]bool{
	ValueSwitchComputed:  true,
	ValueSwitchManual:    true,
	ValueSwitchReference: true,
}

// IsValidValueSwitch reports whether s names a value switch position.
func IsValidValueSwitch(s string) bool {
	return validValueSwitches[s]
}

// Parameter is a value holder attached to an element definition. Scale is
// set only for quantity-kind parameter types.
type Parameter struct {
	ID            string   `json:"id"`
	Container     string   `json:"container"`
	Owner         string   `json:"owner"`
	ParameterType string   `json:"parameter_type"`
	Scale         string   `json:"scale,omitempty"`
	Subscriptions []string `json:"-"`
}

// ThingID returns the parameter identifier.
func (p *Parameter) ThingID() string { return p.ID }

// ThingKind returns KindParameter.
func (p *Parameter) ThingKind() Kind { return KindParameter }

// OwnerID returns the owning domain of expertise.
func (p *Parameter) OwnerID() string { return p.Owner }

// SetOwner sets the owning domain of expertise.
func (p *Parameter) SetOwner(d string) { p.Owner = d }

// ScaleID returns the measurement scale.
func (p *Parameter) ScaleID() string { return p.Scale }

// SetScale sets the measurement scale.
func (p *Parameter) SetScale(s string) { p.Scale = s }

// Clone returns a deep copy of the parameter.
func (p *Parameter) Clone() Thing {
	c := *p
	c.Subscriptions = slices.Clone(p.Subscriptions)
	return &c
}

// ParameterSubscription is a domain's view onto a parameter it does not own.
// Scale normally mirrors the subscribed parameter; a differing scale is an
// independent override.
type ParameterSubscription struct {
	ID          string `json:"id"`
	Container   string `json:"container"`
	Owner       string `json:"owner"`
	Scale       string `json:"scale,omitempty"`
	ValueSwitch string `json:"value_switch"`
}

// ThingID returns the parameter subscription identifier.
func (s *ParameterSubscription) ThingID() string { return s.ID }

// ThingKind returns KindParameterSubscription.
func (s *ParameterSubscription) ThingKind() Kind { return KindParameterSubscription }

// OwnerID returns the owning domain of expertise.
func (s *ParameterSubscription) OwnerID() string { return s.Owner }

// SetOwner sets the owning domain of expertise.
func (s *ParameterSubscription) SetOwner(d string) { s.Owner = d }

// ScaleID returns the measurement scale.
func (s *ParameterSubscription) ScaleID() string { return s.Scale }

// SetScale sets the measurement scale.
func (s *ParameterSubscription) SetScale(sc string) { s.Scale = sc }

// Clone returns a deep copy of the parameter subscription.
func (s *ParameterSubscription) Clone() Thing {
	c := *s
	return &c
}
