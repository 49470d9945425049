package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model/modeltest"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/paths"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/store"
)

// workspace is an isolated config and data directory pair.
type workspace struct {
	configDir string
	dataDir   string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")
	return workspace{configDir: t.TempDir(), dataDir: t.TempDir()}
}

// withFixture writes the TEST model into the data directory.
func (w workspace) withFixture(t *testing.T) *modeltest.Fixture {
	t.Helper()
	f := modeltest.NewFixture()
	require.NoError(t, store.WriteModel(filepath.Join(w.dataDir, "TEST"), f.Snapshot()))
	return f
}

func (w workspace) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(w.configDir, paths.ConfigFileName), []byte(content), 0o644))
}

// exec runs batchedit with args plus the workspace directories.
func (w workspace) exec(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append(append([]string{}, args...), "--config-dir", w.configDir, "--data-dir", w.dataDir)
	code = run(context.Background(), NewRootCmd(), full, &out, &errOut)
	return out.String(), errOut.String(), code
}

// load attaches the model and returns its current graph.
func (w workspace) load(t *testing.T, name string) model.Snapshot {
	t.Helper()
	b := store.NewBackend()
	require.NoError(t, b.Attach(store.Config{DataDir: w.dataDir, Model: name}))
	defer b.Detach()
	snap, err := b.Load()
	require.NoError(t, err)
	return snap
}
