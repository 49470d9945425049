package modeltest

import (
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// Fixture is the "TEST" engineering model shared by the command tests.
//
//	testElementDefinition   (testDomain)  testParameter[m] testParameter2[kg] P_mean[W] color
//	testElementDefinition2  (testDomain)  l[m] (subs: testDomain2 l[m] MANUAL, testDomain3 l[km] COMPUTED) t
//	                                      2 usages of testElementDefinition (testDomain)
//	testElementDefinition3  (testDomain2) l[mm]
//	                                      2 usages of testElementDefinition (testDomain), 1 (testDomain2)
//	testElementDefinition4  (testDomain)  m[kg] n_items P_on[W]
//	                                      2 usages of testElementDefinition (testDomain)
type Fixture struct {
	*Builder

	Domain, Domain2, Domain3 *types.DomainOfExpertise
	MEC, PWR, SYS, THE       *types.DomainOfExpertise

	Equipment, Structure *types.Category

	MetreScale, KilometerScale, MillimeterScale *types.MeasurementScale
	KilogramScale, WattScale                    *types.MeasurementScale

	TestParameterType, TestParameter2Type, PMeanType *types.ParameterType
	LengthType, TimeType, ColorType                  *types.ParameterType
	MassType, ItemsType, PowerOnType                 *types.ParameterType

	TestElementDefinition  *types.ElementDefinition
	TestElementDefinition2 *types.ElementDefinition
	TestElementDefinition3 *types.ElementDefinition
	TestElementDefinition4 *types.ElementDefinition

	TestParameter, TestParameter2, PMean, Color *types.Parameter
	Length, Time, LengthED3                     *types.Parameter
	Parameter5, Parameter6, Parameter7          *types.Parameter

	SubscriptionDomain2, SubscriptionDomain3 *types.ParameterSubscription

	UsagesOfTestElementDefinition []*types.ElementUsage
}

// NewFixture builds the TEST model.
func NewFixture() *Fixture {
	f := &Fixture{Builder: New("TEST")}

	f.Domain = f.Builder.Domain("testDomain")
	f.Domain2 = f.Builder.Domain("testDomain2")
	f.Domain3 = f.Builder.Domain("testDomain3")
	f.MEC = f.Builder.Domain("MEC")
	f.PWR = f.Builder.Domain("PWR")
	f.SYS = f.Builder.Domain("SYS")
	f.THE = f.Builder.Domain("THE")

	f.Equipment = f.Category("equipment")
	f.Structure = f.Category("structure")

	f.MetreScale = f.Scale("m", "metre")
	f.KilometerScale = f.Scale("km", "kilometre")
	f.MillimeterScale = f.Scale("mm", "millimetre")
	f.KilogramScale = f.Scale("kg", "kilogram")
	f.WattScale = f.Scale("W", "watt")

	f.TestParameterType = f.QuantityKind("testParameter", f.MetreScale, f.KilometerScale, f.MillimeterScale)
	f.TestParameter2Type = f.QuantityKind("testParameter2", f.KilogramScale)
	f.PMeanType = f.QuantityKind("P_mean", f.WattScale)
	f.LengthType = f.QuantityKind("l", f.MetreScale, f.KilometerScale, f.MillimeterScale)
	f.TimeType = f.ScalarType("t")
	f.ColorType = f.ScalarType("color")
	f.MassType = f.QuantityKind("m", f.KilogramScale)
	f.ItemsType = f.ScalarType("n_items")
	f.PowerOnType = f.QuantityKind("P_on", f.WattScale)

	f.TestElementDefinition = f.ElementDefinition("testElementDefinition", f.Domain, f.Equipment)
	f.TestElementDefinition2 = f.ElementDefinition("testElementDefinition2", f.Domain, f.Structure)
	f.TestElementDefinition3 = f.ElementDefinition("testElementDefinition3", f.Domain2)
	f.TestElementDefinition4 = f.ElementDefinition("testElementDefinition4", f.Domain, f.Equipment)

	f.TestParameter = f.Parameter(f.TestElementDefinition, f.TestParameterType, f.Domain, f.MetreScale)
	f.TestParameter2 = f.Parameter(f.TestElementDefinition, f.TestParameter2Type, f.Domain, f.KilogramScale)
	f.PMean = f.Parameter(f.TestElementDefinition, f.PMeanType, f.Domain, f.WattScale)
	f.Color = f.Parameter(f.TestElementDefinition, f.ColorType, f.Domain, nil)

	f.Length = f.Parameter(f.TestElementDefinition2, f.LengthType, f.Domain, f.MetreScale)
	f.Time = f.Parameter(f.TestElementDefinition2, f.TimeType, f.Domain, nil)
	f.SubscriptionDomain2 = f.Subscription(f.Length, f.Domain2, f.MetreScale, types.ValueSwitchManual)
	f.SubscriptionDomain3 = f.Subscription(f.Length, f.Domain3, f.KilometerScale, types.ValueSwitchComputed)

	f.LengthED3 = f.Parameter(f.TestElementDefinition3, f.LengthType, f.Domain2, f.MillimeterScale)

	f.Parameter5 = f.Parameter(f.TestElementDefinition4, f.MassType, f.Domain, f.KilogramScale)
	f.Parameter6 = f.Parameter(f.TestElementDefinition4, f.ItemsType, f.Domain, nil)
	f.Parameter7 = f.Parameter(f.TestElementDefinition4, f.PowerOnType, f.Domain, f.WattScale)

	for _, c := range []struct {
		container *types.ElementDefinition
		owner     *types.DomainOfExpertise
	}{
		{f.TestElementDefinition2, f.Domain},
		{f.TestElementDefinition2, f.Domain},
		{f.TestElementDefinition3, f.Domain},
		{f.TestElementDefinition3, f.Domain},
		{f.TestElementDefinition3, f.Domain2},
		{f.TestElementDefinition4, f.Domain},
		{f.TestElementDefinition4, f.Domain},
	} {
		u := f.Usage(c.container, f.TestElementDefinition, c.owner)
		f.UsagesOfTestElementDefinition = append(f.UsagesOfTestElementDefinition, u)
	}

	return f
}

// Snapshot returns the fixture graph.
func (f *Fixture) Snapshot() model.Snapshot {
	return f.Builder.Snapshot()
}
