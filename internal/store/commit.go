package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// Status is the commit result of one transaction.
type Status string

// Transaction statuses.
const (
	StatusCommitted Status = "committed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// TransactionResult reports one transaction of a commit.
type TransactionResult struct {
	ID      string `json:"id"`
	Context string `json:"context"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Report summarizes a commit.
type Report struct {
	Results   []TransactionResult `json:"results"`
	Committed int                 `json:"committed"`
	Failed    int                 `json:"failed"`
	Skipped   int                 `json:"skipped"`
}

func (r *Report) add(res TransactionResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case StatusCommitted:
		r.Committed++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	}
}

// Commit applies a sealed log, one SQL transaction per batch transaction,
// in log order. After the first failure or once ctx is done the remaining
// transactions are skipped. The JSONL files of every touched table are then
// rewritten from the database. The log itself is never modified.
func (b *Backend) Commit(ctx context.Context, log *transaction.Log) (Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var report Report
	if !b.attached {
		return report, ErrDetached
	}
	if !log.Sealed() {
		return report, ErrLogNotSealed
	}

	touched := map[string]tableMapping{}
	var firstErr error
	for _, tx := range log.Transactions() {
		res := TransactionResult{ID: tx.ID, Context: tx.Context}
		if firstErr != nil || ctx.Err() != nil {
			res.Status = StatusSkipped
			report.add(res)
			continue
		}
		if err := b.commitOne(ctx, tx, touched); err != nil {
			firstErr = fmt.Errorf("transaction %s: %w", tx.ID, err)
			res.Status = StatusFailed
			res.Error = err.Error()
			report.add(res)
			continue
		}
		res.Status = StatusCommitted
		report.add(res)

		if b.snapshot != nil {
			if err := b.snapshot.Iteration.Apply(tx); err != nil {
				b.snapshot = nil
			}
		}
	}

	if report.Committed > 0 {
		touched[transactionsJSONL] = journalMapping()
		for _, m := range touched {
			records, err := scanRows(b.db, m)
			if err != nil {
				return report, err
			}
			if err := writeJSONL(filepath.Join(b.dir, m.file), records); err != nil {
				return report, fmt.Errorf("persisting %s: %w", m.file, err)
			}
		}
	}

	if firstErr != nil {
		return report, fmt.Errorf("%w: %w", ErrCommitFailed, firstErr)
	}
	if err := ctx.Err(); err != nil && report.Skipped > 0 {
		return report, err
	}
	return report, nil
}

func (b *Backend) commitOne(ctx context.Context, tx *transaction.Transaction, touched map[string]tableMapping) error {
	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	records := tx.Records()
	pending := map[string]tableMapping{}
	entries := make([]JournalRecord, 0, len(records))
	for _, rec := range records {
		m, ok := mappingFor(rec.Kind)
		if !ok {
			return fmt.Errorf("%s %s: %w", rec.Kind, rec.ID, ErrUnsupportedKind)
		}
		switch rec.Op {
		case transaction.OpAdd:
			err = insertThing(sqlTx, m, rec.Thing)
		case transaction.OpUpdate:
			err = updateThing(sqlTx, m, rec.Thing)
		default:
			err = fmt.Errorf("unknown record op %q", rec.Op)
		}
		if err != nil {
			return err
		}
		pending[m.file] = m
		entries = append(entries, JournalRecord{Op: rec.Op, Kind: rec.Kind, ID: rec.ID})
	}

	if err := journal(sqlTx, tx, entries); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	for k, m := range pending {
		touched[k] = m
	}
	return nil
}

// insertThing appends thing to the end of its table.
func insertThing(tx *sql.Tx, m tableMapping, thing types.Thing) error {
	obj, err := encodeThing(thing)
	if err != nil {
		return err
	}
	names := columnNames(m.columns)
	q := fmt.Sprintf("INSERT INTO %s (%s, ordinal) VALUES (%s, (SELECT COALESCE(MAX(ordinal), -1) + 1 FROM %s))",
		m.table, strings.Join(names, ", "), placeholders(len(names)), m.table)
	if _, err := tx.Exec(q, rowValues(m.columns, obj)...); err != nil {
		return fmt.Errorf("insert %s %s: %w", thing.ThingKind(), thing.ThingID(), err)
	}
	return nil
}

// updateThing overwrites every column of an existing row.
func updateThing(tx *sql.Tx, m tableMapping, thing types.Thing) error {
	obj, err := encodeThing(thing)
	if err != nil {
		return err
	}
	sets := make([]string, 0, len(m.columns))
	var idArg any
	args := rowValues(m.columns, obj)
	var setArgs []any
	for i, col := range m.columns {
		if col.name == "id" {
			idArg = args[i]
			continue
		}
		sets = append(sets, col.name+" = ?")
		setArgs = append(setArgs, args[i])
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", m.table, strings.Join(sets, ", "))
	res, err := tx.Exec(q, append(setArgs, idArg)...)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", thing.ThingKind(), thing.ThingID(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update %s %s: %w", thing.ThingKind(), thing.ThingID(), ErrMissingRow)
	}
	return nil
}

func journal(tx *sql.Tx, t *transaction.Transaction, entries []JournalRecord) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}
	_, err = tx.Exec(
		"INSERT INTO transactions (id, context, committed_at, records, ordinal) VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(ordinal), -1) + 1 FROM transactions))",
		t.ID, t.Context, time.Now().UTC().Format(time.RFC3339), string(b))
	if err != nil {
		return fmt.Errorf("journal %s: %w", t.ID, err)
	}
	return nil
}

// Journal returns the committed transactions in commit order.
func (b *Backend) Journal() ([]JournalEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, ErrDetached
	}
	records, err := scanRows(b.db, journalMapping())
	if err != nil {
		return nil, err
	}
	out := make([]JournalEntry, 0, len(records))
	for _, rec := range records {
		var j JournalEntry
		if err := json.Unmarshal(rec, &j); err != nil {
			return nil, fmt.Errorf("decoding journal: %w", err)
		}
		out = append(out, j)
	}
	return out, nil
}
