package types

// Kind names a node variant. The set is closed; see the Kind constants.
type Kind string

// Node kinds.
const (
	KindDomainOfExpertise     Kind = "domain_of_expertise"
	KindCategory              Kind = "category"
	KindMeasurementScale      Kind = "measurement_scale"
	KindParameterType         Kind = "parameter_type"
	KindElementDefinition     Kind = "element_definition"
	KindElementUsage          Kind = "element_usage"
	KindParameter             Kind = "parameter"
	KindParameterSubscription Kind = "parameter_subscription"
)

// Thing is any addressable model node.
type Thing interface {
	// ThingID returns the stable identity assigned by the graph.
	ThingID() string

	// ThingKind returns the node variant.
	ThingKind() Kind

	// Clone returns a deep copy. Mutating the copy never affects the
	// original, so clones are used as post-change snapshots.
	Clone() Thing
}

// HasOwner is implemented by nodes that belong to exactly one domain of
// expertise: element definitions, element usages, parameters and
// parameter subscriptions.
type HasOwner interface {
	Thing
	OwnerID() string
	SetOwner(domainID string)
}

// HasScale is implemented by nodes that carry a measurement scale
// reference: parameters and parameter subscriptions.
type HasScale interface {
	Thing
	ScaleID() string
	SetScale(scaleID string)
}
