package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/workouttracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

const SQLiteFileName = "workout_tracker.db"

// SQLiteStore keeps documents in a single key/value table.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (or creates) the database at dir/workout_tracker.db.
func OpenSQLiteStore(ctx context.Context, dir string) (*SQLiteStore, error) {
	if dir == "" {
		return nil, errors.New("data dir cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, SQLiteFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer; sqlite serialises anyway and this avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	log.Debugf("kvstore: sqlite db opened at [%s]", dbPath)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.sqlite.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var value []byte
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("select kv value: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.sqlite.set")
	span.SetAttributes(attribute.String("key", key), attribute.Int("size", len(value)))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if key == "" {
		return ErrEmptyKey
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert kv value: %w", err)
	}
	return nil
}

// Delete removes all given keys in one transaction.
func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.sqlite.delete")
	span.SetAttributes(attribute.StringSlice("keys", keys))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("kvstore: rollback delete: %s", rbErr)
			}
		}
	}()

	for _, key := range keys {
		if _, err = tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			return fmt.Errorf("delete kv [%s]: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
