// Package archive keeps a copy of every committed transaction log outside
// the model directory. A log is encoded as JSONL, one transaction per line,
// and handed to a Sink under a key derived from the model, the action and
// the time of the run.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/transaction"
)

// Archive kinds accepted by Open.
const (
	KindNone = ""
	KindFS   = "fs"
	KindS3   = "s3"
)

var (
	// ErrUnknownKind is returned by Open for an unsupported archive kind.
	ErrUnknownKind = errors.New("unknown archive kind")

	// ErrBucketRequired is returned when the S3 sink has no bucket.
	ErrBucketRequired = errors.New("s3 bucket required")

	// ErrDirRequired is returned when the file sink has no directory.
	ErrDirRequired = errors.New("archive directory required")
)

// Sink stores archived logs.
type Sink interface {
	Put(ctx context.Context, key string, data []byte) error
}

type entry struct {
	ID      string               `json:"id"`
	Context string               `json:"context"`
	Records []transaction.Record `json:"records"`
}

// Encode renders log as JSONL.
func Encode(log *transaction.Log) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, tx := range log.Transactions() {
		if err := enc.Encode(entry{ID: tx.ID, Context: tx.Context, Records: tx.Records()}); err != nil {
			return nil, fmt.Errorf("encoding transaction %s: %w", tx.ID, err)
		}
	}
	return buf.Bytes(), nil
}

// Key returns the object key of a run: <model>/<UTC timestamp>-<action>.jsonl.
func Key(model, action string, at time.Time) string {
	return path.Join(model, at.UTC().Format("20060102T150405Z")+"-"+action+".jsonl")
}

// Write encodes log and stores it in sink under key.
func Write(ctx context.Context, sink Sink, key string, log *transaction.Log) error {
	data, err := Encode(log)
	if err != nil {
		return err
	}
	if err := sink.Put(ctx, key, data); err != nil {
		return fmt.Errorf("archiving %s: %w", key, err)
	}
	return nil
}

// Open returns the sink for kind. KindNone yields a nil sink and no error.
// The S3 sink reads its settings from the environment.
func Open(ctx context.Context, kind, dir string) (Sink, error) {
	switch kind {
	case KindNone:
		return nil, nil
	case KindFS:
		if dir == "" {
			return nil, ErrDirRequired
		}
		return &FileSink{Dir: dir}, nil
	case KindS3:
		cfg, err := LoadS3Config()
		if err != nil {
			return nil, err
		}
		sink, err := NewS3Sink(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
