package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/command"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model/modeltest"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

func TestCommitRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	f := modeltest.NewFixture()
	writeSnapshot(t, filepath.Join(tmpDir, "TEST"), f.Snapshot())
	cfg := Config{DataDir: tmpDir, Model: "TEST"}

	b := attach(t, cfg)
	snap, err := b.Load()
	require.NoError(t, err)

	o, err := command.NewRunner(command.Options{}, nil).Run(types.Arguments{
		Action:            types.ActionChangeDomain,
		Parameters:        []string{"testParameter", "testParameter2", "P_mean"},
		ElementDefinition: "testElementDefinition",
		Domain:            "testDomain",
		ToDomain:          "testDomain2",
	}, snap)
	require.NoError(t, err)
	require.Equal(t, 10, o.Log.Len())

	report, err := b.Commit(context.Background(), o.Log)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Committed)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Skipped)

	ed, err := snap.Iteration.ElementDefinition(f.TestElementDefinition.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Domain2.ID, ed.Owner, "loaded snapshot follows commits")

	journal, err := b.Journal()
	require.NoError(t, err)
	require.Len(t, journal, 10)
	assert.Equal(t, o.Log.Transactions()[0].ID, journal[0].ID)
	assert.Equal(t, types.KindElementDefinition, journal[0].Records[0].Kind)

	require.NoError(t, b.Detach())

	b2 := attach(t, cfg)
	snap2, err := b2.Load()
	require.NoError(t, err)
	ed, err = snap2.Iteration.ElementDefinition(f.TestElementDefinition.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Domain2.ID, ed.Owner)
	eds := snap2.Iteration.ElementDefinitions()
	assert.Equal(t, "testElementDefinition", eds[0].ShortName, "order survives rewrite")

	p, err := snap2.Iteration.Parameter(f.Color.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Domain.ID, p.Owner)

	lines := readLines(t, filepath.Join(tmpDir, "TEST", transactionsJSONL))
	assert.Len(t, lines, 10)
}

func TestCommitAddedSubscriptions(t *testing.T) {
	tmpDir := t.TempDir()
	f := modeltest.NewFixture()
	writeSnapshot(t, filepath.Join(tmpDir, "TEST"), f.Snapshot())
	cfg := Config{DataDir: tmpDir, Model: "TEST"}

	b := attach(t, cfg)
	snap, err := b.Load()
	require.NoError(t, err)

	o, err := command.NewRunner(command.Options{}, nil).Run(types.Arguments{
		Action:            types.ActionSubscribe,
		Parameters:        []string{"testParameter"},
		ElementDefinition: "testElementDefinition",
		IncludedOwners:    []string{"testDomain", "testDomain2"},
	}, snap)
	require.NoError(t, err)
	require.Equal(t, 1, o.Log.Len())

	_, err = b.Commit(context.Background(), o.Log)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	snap2, err := attach(t, cfg).Load()
	require.NoError(t, err)
	p, err := snap2.Iteration.Parameter(f.TestParameter.ID)
	require.NoError(t, err)
	subs, err := snap2.Iteration.SubscriptionsOf(p)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, f.Domain2.ID, subs[0].Owner)
	assert.Equal(t, types.ValueSwitchManual, subs[0].ValueSwitch)
}

func TestCommitRequiresSealedLog(t *testing.T) {
	b := attach(t, Config{DataDir: t.TempDir(), Model: "TEST"})
	_, err := b.Commit(context.Background(), &transaction.Log{})
	assert.ErrorIs(t, err, ErrLogNotSealed)
}

func TestCommitFailureSkipsRest(t *testing.T) {
	f := modeltest.NewFixture()
	o, err := command.NewRunner(command.Options{}, nil).Run(types.Arguments{
		Action:      types.ActionSetSubscriptionSwitch,
		ValueSwitch: types.ValueSwitchReference,
	}, f.Snapshot())
	require.NoError(t, err)

	log := &transaction.Log{}
	builder := transaction.NewBuilder(f.Snapshot())
	tx := builder.NewTransaction("first")
	th, err := builder.Edit(tx, f.TestParameter)
	require.NoError(t, err)
	th.(types.HasOwner).SetOwner(f.Domain2.ID)
	_, err = builder.RecordUpdate(tx, th, transaction.AttrOwner)
	require.NoError(t, err)
	require.NoError(t, log.Append(tx))
	for _, other := range o.Log.Transactions() {
		require.NoError(t, log.Append(other))
	}
	log.Seal()

	// The store holds an empty model, so the first update has no row.
	b := attach(t, Config{DataDir: t.TempDir(), Model: "TEST"})
	report, err := b.Commit(context.Background(), log)
	assert.ErrorIs(t, err, ErrCommitFailed)
	assert.ErrorIs(t, err, ErrMissingRow)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, log.Len()-1, report.Skipped)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.True(t, tx.Sealed(), "log untouched")
}

func TestCommitCancelled(t *testing.T) {
	tmpDir := t.TempDir()
	f := modeltest.NewFixture()
	writeSnapshot(t, filepath.Join(tmpDir, "TEST"), f.Snapshot())
	b := attach(t, Config{DataDir: tmpDir, Model: "TEST"})
	snap, err := b.Load()
	require.NoError(t, err)

	o, err := command.NewRunner(command.Options{}, nil).Run(types.Arguments{
		Action: types.ActionStandardizeDimensionsInMM,
	}, snap)
	require.NoError(t, err)
	require.Equal(t, 2, o.Log.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := b.Commit(ctx, o.Log)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, report.Skipped)
	assert.Zero(t, report.Committed)
}
