package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model/modeltest"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// ownerLog moves the owner of each parameter to Domain2, one transaction per
// parameter, and seals the log.
func ownerLog(t *testing.T, f *modeltest.Fixture, params ...*types.Parameter) *transaction.Log {
	t.Helper()
	b := transaction.NewBuilder(f.Snapshot())
	log := &transaction.Log{}
	for _, p := range params {
		tx := b.NewTransaction("owner " + p.ID)
		th, err := b.Edit(tx, p)
		require.NoError(t, err)
		th.(types.HasOwner).SetOwner(f.Domain2.ID)
		_, err = b.RecordUpdate(tx, th, transaction.AttrOwner)
		require.NoError(t, err)
		require.NoError(t, log.Append(tx))
	}
	log.Seal()
	return log
}

func TestEncode(t *testing.T) {
	f := modeltest.NewFixture()
	log := ownerLog(t, f, f.TestParameter, f.TestParameter2)

	data, err := Encode(log)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 2)

	var got struct {
		ID      string `json:"id"`
		Context string `json:"context"`
		Records []struct {
			Op    string          `json:"op"`
			Kind  string          `json:"kind"`
			ID    string          `json:"id"`
			Thing json.RawMessage `json:"thing"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(lines[0], &got))
	assert.Equal(t, log.Transactions()[0].ID, got.ID)
	assert.Equal(t, "owner "+f.TestParameter.ID, got.Context)
	require.Len(t, got.Records, 1)
	assert.Equal(t, transaction.OpUpdate, got.Records[0].Op)
	assert.Equal(t, f.TestParameter.ID, got.Records[0].ID)
	assert.Contains(t, string(got.Records[0].Thing), f.Domain2.ID)
}

func TestEncodeEmptyLog(t *testing.T) {
	data, err := Encode(&transaction.Log{})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestKey(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "TEST/20260304T040607Z-ChangeDomain.jsonl", Key("TEST", "ChangeDomain", at))
}

func TestFileSinkWrite(t *testing.T) {
	f := modeltest.NewFixture()
	log := ownerLog(t, f, f.TestParameter)
	dir := t.TempDir()
	sink := &FileSink{Dir: dir}

	key := Key("TEST", "ChangeDomain", time.Now())
	require.NoError(t, Write(context.Background(), sink, key, log))

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	want, err := Encode(log)
	require.NoError(t, err)
	assert.Equal(t, want, data)

	leftovers, err := filepath.Glob(filepath.Join(dir, "TEST", ".archive-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileSinkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &FileSink{Dir: t.TempDir()}
	assert.ErrorIs(t, sink.Put(ctx, "k.jsonl", []byte("{}\n")), context.Canceled)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	sink, err := Open(ctx, KindNone, "")
	require.NoError(t, err)
	assert.Nil(t, sink)

	_, err = Open(ctx, KindFS, "")
	assert.ErrorIs(t, err, ErrDirRequired)

	sink, err = Open(ctx, KindFS, "/tmp/archive")
	require.NoError(t, err)
	assert.IsType(t, &FileSink{}, sink)

	_, err = Open(ctx, "ftp", "")
	assert.ErrorIs(t, err, ErrUnknownKind)

	t.Setenv("BATCHEDIT_ARCHIVE_S3_BUCKET", "")
	_, err = Open(ctx, KindS3, "")
	assert.ErrorIs(t, err, ErrBucketRequired)
}
