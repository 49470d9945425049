package store

// Schema DDL. Every model table carries an ordinal column that preserves
// declaration order across load and persist.
const (
	createDomains = `CREATE TABLE domains (
    id TEXT PRIMARY KEY,
    short_name TEXT NOT NULL,
    name TEXT,
    ordinal INTEGER NOT NULL
);`

	createCategories = `CREATE TABLE categories (
    id TEXT PRIMARY KEY,
    short_name TEXT NOT NULL,
    name TEXT,
    ordinal INTEGER NOT NULL
);`

	createScales = `CREATE TABLE scales (
    id TEXT PRIMARY KEY,
    short_name TEXT NOT NULL,
    name TEXT,
    unit TEXT,
    ordinal INTEGER NOT NULL
);`

	createParameterTypes = `CREATE TABLE parameter_types (
    id TEXT PRIMARY KEY,
    short_name TEXT NOT NULL,
    name TEXT,
    quantity_kind INTEGER NOT NULL DEFAULT 0,
    default_scale TEXT,
    possible_scales TEXT,
    ordinal INTEGER NOT NULL
);`

	createElementDefinitions = `CREATE TABLE element_definitions (
    id TEXT PRIMARY KEY,
    short_name TEXT NOT NULL,
    name TEXT,
    owner TEXT NOT NULL,
    categories TEXT,
    ordinal INTEGER NOT NULL
);`

	createElementUsages = `CREATE TABLE element_usages (
    id TEXT PRIMARY KEY,
    short_name TEXT NOT NULL,
    name TEXT,
    owner TEXT NOT NULL,
    container TEXT NOT NULL,
    element_definition TEXT NOT NULL,
    categories TEXT,
    ordinal INTEGER NOT NULL
);`

	createParameters = `CREATE TABLE parameters (
    id TEXT PRIMARY KEY,
    container TEXT NOT NULL,
    owner TEXT NOT NULL,
    parameter_type TEXT NOT NULL,
    scale TEXT,
    ordinal INTEGER NOT NULL
);`

	createSubscriptions = `CREATE TABLE subscriptions (
    id TEXT PRIMARY KEY,
    container TEXT NOT NULL,
    owner TEXT NOT NULL,
    scale TEXT,
    value_switch TEXT NOT NULL,
    ordinal INTEGER NOT NULL
);`

	createTransactions = `CREATE TABLE transactions (
    id TEXT PRIMARY KEY,
    context TEXT,
    committed_at TEXT NOT NULL,
    records TEXT NOT NULL,
    ordinal INTEGER NOT NULL
);`
)

// Index DDL for containment lookups.
const (
	idxUsagesContainer      = `CREATE INDEX idx_element_usages_container ON element_usages(container);`
	idxUsagesDefinition     = `CREATE INDEX idx_element_usages_definition ON element_usages(element_definition);`
	idxParametersContainer  = `CREATE INDEX idx_parameters_container ON parameters(container);`
	idxSubscriptionsContain = `CREATE INDEX idx_subscriptions_container ON subscriptions(container);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createDomains,
	createCategories,
	createScales,
	createParameterTypes,
	createElementDefinitions,
	createElementUsages,
	createParameters,
	createSubscriptions,
	createTransactions,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxUsagesContainer,
	idxUsagesDefinition,
	idxParametersContainer,
	idxSubscriptionsContain,
}
