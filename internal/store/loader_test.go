package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONLTolerance(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		jsonl    string
		countSQL string
		wantRows int
		checkSQL string
		checkVal string
	}{
		{
			name: "unknown fields are ignored",
			file: domainsJSONL,
			jsonl: `{"id":"d-1","short_name":"SYS","name":"System","color":"blue","rank":3}
`,
			countSQL: "SELECT COUNT(*) FROM domains",
			wantRows: 1,
			checkSQL: "SELECT short_name FROM domains WHERE id = 'd-1'",
			checkVal: "SYS",
		},
		{
			name: "malformed lines are skipped",
			file: scalesJSONL,
			jsonl: `{"id":"s-1","short_name":"mm","unit":"mm"}
{not json
{"id":"s-2","short_name":"km","unit":"km"}
`,
			countSQL: "SELECT COUNT(*) FROM scales",
			wantRows: 2,
			checkSQL: "SELECT short_name FROM scales WHERE ordinal = 1",
			checkVal: "km",
		},
		{
			name: "constraint violations are skipped",
			file: parametersJSONL,
			jsonl: `{"id":"p-1","container":"ed-1","owner":"d-1","parameter_type":"t-1"}
{"id":"p-1","container":"ed-1","owner":"d-2","parameter_type":"t-1"}
{"id":"p-2","owner":"d-1","parameter_type":"t-1"}
`,
			countSQL: "SELECT COUNT(*) FROM parameters",
			wantRows: 1,
			checkSQL: "SELECT owner FROM parameters WHERE id = 'p-1'",
			checkVal: "d-1",
		},
		{
			name: "arrays are stored as JSON text",
			file: parameterTypesJSONL,
			jsonl: `{"id":"t-1","short_name":"l","quantity_kind":true,"possible_scales":["s-1","s-2"]}
`,
			countSQL: "SELECT COUNT(*) FROM parameter_types WHERE quantity_kind = 1",
			wantRows: 1,
			checkSQL: "SELECT possible_scales FROM parameter_types WHERE id = 't-1'",
			checkVal: `["s-1","s-2"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			dir := filepath.Join(tmpDir, "TEST")
			require.NoError(t, os.MkdirAll(dir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.jsonl), 0o644))

			b := attach(t, Config{DataDir: tmpDir, Model: "TEST"})

			var n int
			require.NoError(t, b.db.QueryRow(tt.countSQL).Scan(&n))
			assert.Equal(t, tt.wantRows, n)

			var got string
			require.NoError(t, b.db.QueryRow(tt.checkSQL).Scan(&got))
			assert.Equal(t, tt.checkVal, got)
		})
	}
}

func TestWriteJSONLAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	require.NoError(t, writeJSONL(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")
}

func TestInitJSONLFilesKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, domainsJSONL)
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"d-1","short_name":"SYS"}`+"\n"), 0o644))

	require.NoError(t, initJSONLFiles(dir))
	assert.Len(t, readLines(t, path), 1)
	for _, m := range tableMappings {
		assert.FileExists(t, filepath.Join(dir, m.file))
	}
}
