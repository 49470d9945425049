package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/command"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/filter"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model/modeltest"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

func newFilter(t *testing.T, f *modeltest.Fixture, args types.Arguments) *filter.Service {
	t.Helper()
	fs, err := filter.NewService(args.Criteria(), f.Site)
	require.NoError(t, err)
	_, err = fs.ProcessFilters(f.Iteration)
	require.NoError(t, err)
	return fs
}

func updated(log *transaction.Log) []types.Thing {
	var out []types.Thing
	for _, tx := range log.Transactions() {
		out = append(out, tx.Updated()...)
	}
	return out
}

func added(log *transaction.Log) []types.Thing {
	var out []types.Thing
	for _, tx := range log.Transactions() {
		out = append(out, tx.Added()...)
	}
	return out
}

func apply(t *testing.T, f *modeltest.Fixture, log *transaction.Log) {
	t.Helper()
	for _, tx := range log.Transactions() {
		require.NoError(t, f.Iteration.Apply(tx))
	}
}

func requireAborted(t *testing.T, o command.Outcome, err error) {
	t.Helper()
	require.NoError(t, err)
	require.Equal(t, command.StateAborted, o.State)
	require.NotNil(t, o.Log)
	require.True(t, o.Log.IsEmpty())
	require.ErrorIs(t, o.Reason, types.ErrValidation)
}

func requireBuilt(t *testing.T, o command.Outcome, err error, transactions int) {
	t.Helper()
	require.NoError(t, err)
	require.Equal(t, command.StateBuilt, o.State, "reason: %v", o.Reason)
	require.Nil(t, o.Reason)
	require.Equal(t, transactions, o.Log.Len())
}
