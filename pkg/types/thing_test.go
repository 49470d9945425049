package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	_ HasOwner = (*ElementDefinition)(nil)
	_ HasOwner = (*ElementUsage)(nil)
	_ HasOwner = (*Parameter)(nil)
	_ HasOwner = (*ParameterSubscription)(nil)
	_ HasScale = (*Parameter)(nil)
	_ HasScale = (*ParameterSubscription)(nil)
	_ Thing    = (*DomainOfExpertise)(nil)
	_ Thing    = (*Category)(nil)
	_ Thing    = (*MeasurementScale)(nil)
	_ Thing    = (*ParameterType)(nil)
)

func TestCloneIsIndependent(t *testing.T) {
	ed := &ElementDefinition{
		ID:         "ed-1",
		ShortName:  "bat",
		Owner:      "d-1",
		Categories: []string{"c-1"},
		Parameters: []string{"p-1", "p-2"},
	}

	c := ed.Clone().(*ElementDefinition)
	c.SetOwner("d-2")
	c.Categories[0] = "c-2"
	c.Parameters = append(c.Parameters[:1], "p-3")

	assert.Equal(t, "d-1", ed.Owner)
	assert.Equal(t, []string{"c-1"}, ed.Categories)
	assert.Equal(t, []string{"p-1", "p-2"}, ed.Parameters)

	p := &Parameter{ID: "p-1", Scale: "s-1", Subscriptions: []string{"sub-1"}}
	pc := p.Clone().(*Parameter)
	pc.SetScale("s-2")
	pc.Subscriptions[0] = "sub-2"
	assert.Equal(t, "s-1", p.ScaleID())
	assert.Equal(t, []string{"sub-1"}, p.Subscriptions)
}

func TestThingKinds(t *testing.T) {
	tests := []struct {
		thing Thing
		want  Kind
	}{
		{&DomainOfExpertise{}, KindDomainOfExpertise},
		{&Category{}, KindCategory},
		{&MeasurementScale{}, KindMeasurementScale},
		{&ParameterType{}, KindParameterType},
		{&ElementDefinition{}, KindElementDefinition},
		{&ElementUsage{}, KindElementUsage},
		{&Parameter{}, KindParameter},
		{&ParameterSubscription{}, KindParameterSubscription},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.thing.ThingKind())
	}
}

func TestParameterTypeAdmitsScale(t *testing.T) {
	length := &ParameterType{QuantityKind: true, PossibleScales: []string{"mm", "m"}}
	anyScale := &ParameterType{QuantityKind: true}
	text := &ParameterType{QuantityKind: false}

	assert.True(t, length.AdmitsScale("mm"))
	assert.False(t, length.AdmitsScale("kg"))
	assert.True(t, anyScale.AdmitsScale("kg"))
	assert.False(t, text.AdmitsScale("mm"))
}

func TestIsValidValueSwitch(t *testing.T) {
	assert.True(t, IsValidValueSwitch(ValueSwitchComputed))
	assert.True(t, IsValidValueSwitch(ValueSwitchManual))
	assert.True(t, IsValidValueSwitch(ValueSwitchReference))
	assert.False(t, IsValidValueSwitch("computed"))
	assert.False(t, IsValidValueSwitch(""))
}
