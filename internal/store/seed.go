package store

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// builtInDomains are the owners named by the default generic owners table.
var builtInDomains = []types.DomainOfExpertise{
	{ShortName: "SYS", Name: "System"},
	{ShortName: "MEC", Name: "Mechanical"},
	{ShortName: "PWR", Name: "Power"},
	{ShortName: "THE", Name: "Thermal"},
}

var builtInScales = []types.MeasurementScale{
	{ShortName: "m", Name: "metre", Unit: "m"},
	{ShortName: "km", Name: "kilometre", Unit: "km"},
	{ShortName: "mm", Name: "millimetre", Unit: "mm"},
	{ShortName: "kg", Name: "kilogram", Unit: "kg"},
	{ShortName: "W", Name: "watt", Unit: "W"},
	{ShortName: "s", Name: "second", Unit: "s"},
	{ShortName: "degC", Name: "degree Celsius", Unit: "°C"},
}

func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// seedReferenceData inserts the built-in domains and scales into empty
// tables and persists the files it filled.
func seedReferenceData(db *sql.DB, dir string) error {
	var domains, scales []types.Thing
	for _, d := range builtInDomains {
		d.ID = generateUUID()
		domains = append(domains, &d)
	}
	for _, s := range builtInScales {
		s.ID = generateUUID()
		scales = append(scales, &s)
	}

	if err := seedTable(db, dir, types.KindDomainOfExpertise, domains); err != nil {
		return err
	}
	return seedTable(db, dir, types.KindMeasurementScale, scales)
}

func seedTable(db *sql.DB, dir string, kind types.Kind, things []types.Thing) error {
	m, ok := mappingFor(kind)
	if !ok {
		return fmt.Errorf("seed %s: %w", kind, ErrUnsupportedKind)
	}

	var n int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", m.table)).Scan(&n); err != nil {
		return fmt.Errorf("counting %s: %w", m.table, err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, thing := range things {
		if err := insertThing(tx, m, thing); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s seed: %w", m.table, err)
	}

	records, err := scanRows(db, m)
	if err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(dir, m.file), records); err != nil {
		return fmt.Errorf("persisting %s: %w", m.file, err)
	}
	return nil
}
