package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
)

// writeSnapshot writes snap as the JSONL files of model dir.
func writeSnapshot(t *testing.T, dir string, snap model.Snapshot) {
	t.Helper()
	require.NoError(t, WriteModel(dir, snap))
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	records, err := readJSONL(path)
	require.NoError(t, err)
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		var obj map[string]any
		require.NoError(t, json.Unmarshal(rec, &obj))
		out = append(out, obj)
	}
	return out
}

func attach(t *testing.T, cfg Config) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { b.Detach() })
	return b
}
