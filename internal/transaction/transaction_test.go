package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

func TestLogAppendAndSeal(t *testing.T) {
	f, b := newBuilder(t)
	var log transaction.Log

	require.NoError(t, log.Append(b.NewTransaction("empty")))
	assert.True(t, log.IsEmpty(), "empty transactions are dropped")

	tx := b.NewTransaction("owner")
	th, err := b.Edit(tx, f.TestParameter)
	require.NoError(t, err)
	th.(types.HasOwner).SetOwner(f.Domain2.ID)
	_, err = b.RecordUpdate(tx, th, transaction.AttrOwner)
	require.NoError(t, err)
	require.NoError(t, log.Append(tx))
	assert.Equal(t, 1, log.Len())

	log.Seal()
	assert.True(t, log.Sealed())
	assert.True(t, tx.Sealed())

	assert.ErrorIs(t, log.Append(b.NewTransaction("late")), transaction.ErrSealed)
	_, err = b.Edit(tx, f.TestParameter)
	assert.ErrorIs(t, err, transaction.ErrSealed)
	_, err = b.RecordUpdate(tx, th, transaction.AttrOwner)
	assert.ErrorIs(t, err, transaction.ErrSealed)
	assert.ErrorIs(t, b.RecordAdd(tx, &types.ParameterSubscription{ID: "x"}), transaction.ErrSealed)
}

func TestNilLog(t *testing.T) {
	var log *transaction.Log
	assert.Equal(t, 0, log.Len())
	assert.True(t, log.IsEmpty())
	assert.Nil(t, log.Transactions())
}
