// Package transaction records the intended mutations of a batch run. A
// Transaction holds post-change copies of nodes; nothing here touches the
// model graph. Transactions are grouped into a Log which is sealed when it
// is handed to the commit gateway.
package transaction

import (
	"slices"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// Record operations.
const (
	OpAdd    = "add"
	OpUpdate = "update"
)

// Transaction is one atomic unit of change. AddedThing and UpdatedThing are
// keyed by node identity and never share a key.
type Transaction struct {
	ID      string
	Context string

	AddedThing   map[string]types.Thing
	UpdatedThing map[string]types.Thing

	addOrder    []string
	updateOrder []string
	sealed      bool
}

func newTransaction(id, context string) *Transaction {
	return &Transaction{
		ID:           id,
		Context:      context,
		AddedThing:   make(map[string]types.Thing),
		UpdatedThing: make(map[string]types.Thing),
	}
}

// Added returns the added nodes in recording order.
func (tx *Transaction) Added() []types.Thing {
	out := make([]types.Thing, 0, len(tx.addOrder))
	for _, id := range tx.addOrder {
		out = append(out, tx.AddedThing[id])
	}
	return out
}

// Updated returns the updated nodes in recording order.
func (tx *Transaction) Updated() []types.Thing {
	out := make([]types.Thing, 0, len(tx.updateOrder))
	for _, id := range tx.updateOrder {
		out = append(out, tx.UpdatedThing[id])
	}
	return out
}

// IsEmpty reports whether the transaction records no change.
func (tx *Transaction) IsEmpty() bool {
	return len(tx.AddedThing) == 0 && len(tx.UpdatedThing) == 0
}

// Sealed reports whether the transaction can still be modified.
func (tx *Transaction) Sealed() bool {
	return tx.sealed
}

// Record is the serialized form of one change.
type Record struct {
	Op    string      `json:"op"`
	Kind  types.Kind  `json:"kind"`
	ID    string      `json:"id"`
	Thing types.Thing `json:"thing"`
}

// Records lists the changes of tx, additions first, each group in
// recording order.
func (tx *Transaction) Records() []Record {
	out := make([]Record, 0, len(tx.addOrder)+len(tx.updateOrder))
	for _, t := range tx.Added() {
		out = append(out, Record{Op: OpAdd, Kind: t.ThingKind(), ID: t.ThingID(), Thing: t})
	}
	for _, t := range tx.Updated() {
		out = append(out, Record{Op: OpUpdate, Kind: t.ThingKind(), ID: t.ThingID(), Thing: t})
	}
	return out
}

// Log is the ordered list of transactions produced by one command.
type Log struct {
	transactions []*Transaction
	sealed       bool
}

// Append adds tx to the log. Empty transactions are dropped.
func (l *Log) Append(tx *Transaction) error {
	if l.sealed {
		return ErrSealed
	}
	if tx == nil || tx.IsEmpty() {
		return nil
	}
	l.transactions = append(l.transactions, tx)
	return nil
}

// Transactions returns the transactions in order.
func (l *Log) Transactions() []*Transaction {
	if l == nil {
		return nil
	}
	return slices.Clone(l.transactions)
}

// Len returns the number of transactions.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.transactions)
}

// IsEmpty reports whether the log holds no transaction.
func (l *Log) IsEmpty() bool {
	return l.Len() == 0
}

// Seal freezes the log and every transaction in it.
func (l *Log) Seal() {
	l.sealed = true
	for _, tx := range l.transactions {
		tx.sealed = true
	}
}

// Sealed reports whether Seal was called.
func (l *Log) Sealed() bool {
	return l.sealed
}
