package types

import "slices"

// DomainOfExpertise is the organizational owner of model nodes.
type DomainOfExpertise struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

// ThingID returns the domain of expertise identifier.
func (d *DomainOfExpertise) ThingID() string { return d.ID }

// ThingKind returns KindDomainOfExpertise.
func (d *DomainOfExpertise) ThingKind() Kind { return KindDomainOfExpertise }

// Clone returns a deep copy of the domain of expertise.
func (d *DomainOfExpertise) Clone() Thing {
	c := *d
	return &c
}

// Category classifies element definitions and usages.
type Category struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

// ThingID returns the category identifier.
func (c *Category) ThingID() string { return c.ID }

// ThingKind returns KindCategory.
func (c *Category) ThingKind() Kind { return KindCategory }

// Clone returns a deep copy of the category.
func (c *Category) Clone() Thing {
	cp := *c
	return &cp
}

// MeasurementScale is a unit-bearing scale such as "mm" or "km".
type MeasurementScale struct {
	ID        string `json:"id"`
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
}

// ThingID returns the measurement scale identifier.
func (s *MeasurementScale) ThingID() string { return s.ID }

// ThingKind returns KindMeasurementScale.
func (s *MeasurementScale) ThingKind() Kind { return KindMeasurementScale }

// Clone returns a deep copy of the measurement scale.
func (s *MeasurementScale) Clone() Thing {
	c := *s
	return &c
}

// ParameterType types a parameter. Only quantity kinds carry a scale.
type ParameterType struct {
	ID             string   `json:"id"`
	ShortName      string   `json:"short_name"`
	Name           string   `json:"name"`
	QuantityKind   bool     `json:"quantity_kind"`
	DefaultScale   string   `json:"default_scale,omitempty"`
	PossibleScales []string `json:"possible_scales,omitempty"`
}

// ThingID returns the parameter type identifier.
func (p *ParameterType) ThingID() string { return p.ID }

// ThingKind returns KindParameterType.
func (p *ParameterType) ThingKind() Kind { return KindParameterType }

// Clone returns a deep copy of the parameter type.
func (p *ParameterType) Clone() Thing {
	c := *p
	c.PossibleScales = slices.Clone(p.PossibleScales)
	return &c
}

// AdmitsScale reports whether scaleID may be assigned to parameters of this
// type. Non-quantity kinds admit no scale; a quantity kind without a
// PossibleScales list admits any scale.
func (p *ParameterType) AdmitsScale(scaleID string) bool {
	if !p.QuantityKind {
		return false
	}
	if len(p.PossibleScales) == 0 {
		return true
	}
	return slices.Contains(p.PossibleScales, scaleID)
}
