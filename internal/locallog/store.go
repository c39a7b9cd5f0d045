package locallog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dagbolade/proposal-box/internal/answer"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the local log as a single JSON array under StorageKey.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return store, nil
}

// Append adds rec to the end of the log. A missing or unreadable slot is
// replaced by a fresh array holding only rec.
func (s *SQLiteStore) Append(ctx context.Context, rec answer.Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	const maxRetries = 3
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.appendTx(ctx, rec)
		if err == nil {
			return nil
		}

		if isLockError(err) {
			if werr := retryWait(ctx, attempt); werr != nil {
				return fmt.Errorf("%w: append: %w", ErrUnavailable, werr)
			}
			continue
		}

		return fmt.Errorf("%w: append: %w", ErrUnavailable, err)
	}

	return fmt.Errorf("%w: append after %d retries: %w", ErrUnavailable, maxRetries, err)
}

// Read returns the log in insertion order.
func (s *SQLiteStore) Read(ctx context.Context) ([]answer.Record, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, querySelectValue, StorageKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLogMissing
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrUnavailable, err)
	}

	return decodeLog(raw)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initializeSchema() error {
	for _, stmt := range schemaStatements() {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("execute schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) appendTx(ctx context.Context, rec answer.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var raw string
	records := []answer.Record{}

	err = tx.QueryRowContext(ctx, querySelectValue, StorageKey).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("select: %w", err)
	default:
		if existing, decodeErr := decodeLog(raw); decodeErr == nil {
			records = existing
		}
	}

	value, err := encodeLog(append(records, rec))
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if _, err := tx.ExecContext(ctx, queryUpsertValue, StorageKey, value); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	return tx.Commit()
}

// retryWait backs off before the next lock retry, returning early with the
// context error so a cancelled caller releases the mutex.
func retryWait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(time.Duration(attempt+1) * 10 * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isLockError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
