package store

import (
	"encoding/json"
	"fmt"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// JournalEntry is one line of transactions.jsonl.
type JournalEntry struct {
	ID          string          `json:"id"`
	Context     string          `json:"context"`
	CommittedAt string          `json:"committed_at"`
	Records     []JournalRecord `json:"records"`
}

// JournalRecord names one node a committed transaction touched.
type JournalRecord struct {
	Op   string     `json:"op"`
	Kind types.Kind `json:"kind"`
	ID   string     `json:"id"`
}

func isReferenceKind(k types.Kind) bool {
	switch k {
	case types.KindDomainOfExpertise, types.KindCategory, types.KindMeasurementScale, types.KindParameterType:
		return true
	}
	return false
}

func decodeThing(m tableMapping, rec json.RawMessage) (types.Thing, error) {
	thing := m.newThing()
	if err := json.Unmarshal(rec, thing); err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", m.table, err)
	}
	return thing, nil
}

// encodeThing returns the column map of thing, keyed like its JSONL record.
func encodeThing(thing types.Thing) (map[string]any, error) {
	b, err := json.Marshal(thing)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %s: %w", thing.ThingKind(), thing.ThingID(), err)
	}
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("encoding %s %s: %w", thing.ThingKind(), thing.ThingID(), err)
	}
	return obj, nil
}
