package locallog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dagbolade/proposal-box/internal/answer"
)

func TestAppendAndRead(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	t1 := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	if err := store.Append(ctx, answer.NewRecord(answer.ChoiceReject, t1)); err != nil {
		t.Fatalf("failed to append reject: %v", err)
	}
	if err := store.Append(ctx, answer.NewRecord(answer.ChoiceAccept, t2)); err != nil {
		t.Fatalf("failed to append accept: %v", err)
	}

	records, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Insertion order is kept.
	if records[0].Choice != "Reject" || records[1].Choice != "Accept" {
		t.Errorf("unexpected order: %+v", records)
	}
	if records[1].Time != "2026-02-14T10:01:00.000Z" {
		t.Errorf("unexpected time: %s", records[1].Time)
	}
}

func TestReadMissing(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	_, err := store.Read(context.Background())
	if !errors.Is(err, ErrLogMissing) {
		t.Fatalf("expected ErrLogMissing, got %v", err)
	}
}

func TestReadCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{bad"},
		{"object", `{"choice":"Accept"}`},
		{"string", `"Accept"`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			defer store.Close()

			writeRaw(t, store, tt.value)

			_, err := store.Read(context.Background())
			if !errors.Is(err, ErrLogCorrupt) {
				t.Errorf("expected ErrLogCorrupt, got %v", err)
			}
		})
	}
}

func TestAppendReplacesCorruptLog(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	writeRaw(t, store, "not json at all")

	if err := store.Append(ctx, answer.NewRecord(answer.ChoiceAccept, time.Now())); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	records, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestReadToleratesOddElements(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	writeRaw(t, store, `[{"choice":"Accept","time":"2026-02-14T10:00:00.000Z"}, 42, {"choice":"Reject"}]`)

	records, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1] != (answer.Record{}) {
		t.Errorf("expected empty record for non-object element, got %+v", records[1])
	}
	if records[2].Choice != "Reject" || records[2].Time != "" {
		t.Errorf("unexpected record: %+v", records[2])
	}
}

func TestDeleteRefused(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.Append(ctx, answer.NewRecord(answer.ChoiceAccept, time.Now())); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	_, err := store.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", StorageKey)
	if err == nil {
		t.Fatal("expected DELETE to fail, but it succeeded")
	}
	if !strings.Contains(err.Error(), "not allowed") && !strings.Contains(err.Error(), "FAIL") {
		t.Errorf("expected trigger error, got: %v", err)
	}
}

func TestAppendValidation(t *testing.T) {
	tests := []struct {
		name      string
		rec       answer.Record
		expectErr bool
	}{
		{"valid", answer.Record{Choice: "Accept", Time: "2026-02-14T10:00:00.000Z"}, false},
		{"bad choice", answer.Record{Choice: "Maybe", Time: "2026-02-14T10:00:00.000Z"}, true},
		{"bad time", answer.Record{Choice: "Reject", Time: "now"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecord(tt.rec)
			if (err != nil) != tt.expectErr {
				t.Errorf("expected error: %v, got: %v", tt.expectErr, err)
			}
		})
	}
}

func TestConcurrentAppends(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	const numWrites = 20

	var wg sync.WaitGroup
	errs := make(chan error, numWrites)
	for i := 0; i < numWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Append(ctx, answer.NewRecord(answer.ChoiceReject, time.Now()))
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	records, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != numWrites {
		t.Errorf("expected %d records, got %d", numWrites, len(records))
	}
}

func TestSequentialAppends(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		rec := answer.NewRecord(answer.ChoiceAccept, base.Add(time.Duration(i)*time.Second))
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	records, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 50 {
		t.Fatalf("expected 50 records, got %d", len(records))
	}
	if want := fmt.Sprintf("2026-01-01T00:00:%02d.000Z", 49); records[49].Time != want {
		t.Errorf("expected last time %s, got %s", want, records[49].Time)
	}
}

func setupTestStore(t *testing.T) *SQLiteStore {
	dbPath := filepath.Join(t.TempDir(), "local.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func writeRaw(t *testing.T, s *SQLiteStore, value string) {
	t.Helper()
	if _, err := s.db.ExecContext(context.Background(), queryUpsertValue, StorageKey, value); err != nil {
		t.Fatalf("failed to write raw value: %v", err)
	}
}

func TestRetryWait(t *testing.T) {
	if err := retryWait(context.Background(), 0); err != nil {
		t.Fatalf("expected nil after backoff, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := retryWait(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("cancelled wait took %v", elapsed)
	}
}

func TestAppendCancelledReleasesLock(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Append(ctx, answer.NewRecord(answer.ChoiceReject, time.Now()))
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected ErrUnavailable wrapping context.Canceled, got %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- store.Append(context.Background(), answer.NewRecord(answer.ChoiceAccept, time.Now()))
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("append after cancellation failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("append blocked after a cancelled caller")
	}

	records, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 1 || records[0].Choice != string(answer.ChoiceAccept) {
		t.Fatalf("expected only the accepted record, got %+v", records)
	}
}
