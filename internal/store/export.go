package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// WriteModel writes snap as the JSONL files of a model directory, replacing
// the node files already there. The transaction journal is left untouched.
// The directory must not be attached while it is written.
func WriteModel(dir string, snap model.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	files := make(map[string][]json.RawMessage, len(tableMappings))
	add := func(file string, thing types.Thing) error {
		b, err := json.Marshal(thing)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", thing.ThingKind(), thing.ThingID(), err)
		}
		files[file] = append(files[file], b)
		return nil
	}

	var things []types.Thing
	for _, d := range snap.Site.Domains() {
		things = append(things, d)
	}
	for _, c := range snap.Site.Categories() {
		things = append(things, c)
	}
	for _, s := range snap.Site.Scales() {
		things = append(things, s)
	}
	for _, pt := range snap.Site.ParameterTypes() {
		things = append(things, pt)
	}
	it := snap.Iteration
	for _, ed := range it.ElementDefinitions() {
		things = append(things, ed)
		usages, err := it.UsagesOf(ed)
		if err != nil {
			return err
		}
		for _, u := range usages {
			things = append(things, u)
		}
		params, err := it.ParametersOf(ed)
		if err != nil {
			return err
		}
		for _, p := range params {
			things = append(things, p)
			subs, err := it.SubscriptionsOf(p)
			if err != nil {
				return err
			}
			for _, s := range subs {
				things = append(things, s)
			}
		}
	}
	for _, th := range things {
		m, ok := mappingFor(th.ThingKind())
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedKind, th.ThingKind())
		}
		if err := add(m.file, th); err != nil {
			return err
		}
	}

	for _, m := range tableMappings {
		if m.newThing == nil {
			continue
		}
		if err := writeJSONL(filepath.Join(dir, m.file), files[m.file]); err != nil {
			return fmt.Errorf("writing %s: %w", m.file, err)
		}
	}
	return nil
}
