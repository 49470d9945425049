package store

import (
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// JSONL file names inside a model directory.
const (
	domainsJSONL            = "domains.jsonl"
	categoriesJSONL         = "categories.jsonl"
	scalesJSONL             = "scales.jsonl"
	parameterTypesJSONL     = "parameter_types.jsonl"
	elementDefinitionsJSONL = "element_definitions.jsonl"
	elementUsagesJSONL      = "element_usages.jsonl"
	parametersJSONL         = "parameters.jsonl"
	subscriptionsJSONL      = "subscriptions.jsonl"
	transactionsJSONL       = "transactions.jsonl"
)

type columnKind int

const (
	colText columnKind = iota
	colBool
	colJSON
)

type column struct {
	name string
	kind columnKind
}

// tableMapping ties a JSONL file to its SQLite table. JSON keys equal
// column names. newThing is nil for the journal.
type tableMapping struct {
	file     string
	table    string
	kind     types.Kind
	columns  []column
	newThing func() types.Thing
}

func text(names ...string) []column {
	cols := make([]column, len(names))
	for i, n := range names {
		cols[i] = column{name: n}
	}
	return cols
}

// tableMappings lists the model tables in load order: reference data
// first, then containers before the nodes they contain.
var tableMappings = []tableMapping{
	{
		file: domainsJSONL, table: "domains", kind: types.KindDomainOfExpertise,
		columns:  text("id", "short_name", "name"),
		newThing: func() types.Thing { return &types.DomainOfExpertise{} },
	},
	{
		file: categoriesJSONL, table: "categories", kind: types.KindCategory,
		columns:  text("id", "short_name", "name"),
		newThing: func() types.Thing { return &types.Category{} },
	},
	{
		file: scalesJSONL, table: "scales", kind: types.KindMeasurementScale,
		columns:  text("id", "short_name", "name", "unit"),
		newThing: func() types.Thing { return &types.MeasurementScale{} },
	},
	{
		file: parameterTypesJSONL, table: "parameter_types", kind: types.KindParameterType,
		columns: append(text("id", "short_name", "name"),
			column{"quantity_kind", colBool},
			column{"default_scale", colText},
			column{"possible_scales", colJSON}),
		newThing: func() types.Thing { return &types.ParameterType{} },
	},
	{
		file: elementDefinitionsJSONL, table: "element_definitions", kind: types.KindElementDefinition,
		columns:  append(text("id", "short_name", "name", "owner"), column{"categories", colJSON}),
		newThing: func() types.Thing { return &types.ElementDefinition{} },
	},
	{
		file: elementUsagesJSONL, table: "element_usages", kind: types.KindElementUsage,
		columns: append(text("id", "short_name", "name", "owner", "container", "element_definition"),
			column{"categories", colJSON}),
		newThing: func() types.Thing { return &types.ElementUsage{} },
	},
	{
		file: parametersJSONL, table: "parameters", kind: types.KindParameter,
		columns:  text("id", "container", "owner", "parameter_type", "scale"),
		newThing: func() types.Thing { return &types.Parameter{} },
	},
	{
		file: subscriptionsJSONL, table: "subscriptions", kind: types.KindParameterSubscription,
		columns:  text("id", "container", "owner", "scale", "value_switch"),
		newThing: func() types.Thing { return &types.ParameterSubscription{} },
	},
	{
		file: transactionsJSONL, table: "transactions",
		columns: append(text("id", "context", "committed_at"), column{"records", colJSON}),
	},
}

func mappingFor(kind types.Kind) (tableMapping, bool) {
	for _, m := range tableMappings {
		if m.newThing != nil && m.kind == kind {
			return m, true
		}
	}
	return tableMapping{}, false
}

func journalMapping() tableMapping {
	return tableMappings[len(tableMappings)-1]
}
