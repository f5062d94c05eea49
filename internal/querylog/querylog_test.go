package querylog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/peytonlabs/peyton/internal/log"
)

type fakeRow struct {
	id  string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.id
	return nil
}

type fakeDB struct {
	row      fakeRow
	lastSQL  string
	lastArgs []any
	called   chan struct{}
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.lastSQL = sql
	db.lastArgs = args
	if db.called != nil {
		close(db.called)
	}
	return db.row
}

func TestLogInsertsRecord(t *testing.T) {
	db := &fakeDB{row: fakeRow{id: "0d0a6a30-6f4e-4f72-9f2b-2f6f2e1c8f11"}}
	store, err := NewStore(db, log.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	id, err := store.Log(context.Background(), map[string]any{"query": "what is a list?"})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if id.String() != "0d0a6a30-6f4e-4f72-9f2b-2f6f2e1c8f11" {
		t.Errorf("id = %s", id)
	}
	if !strings.Contains(db.lastSQL, "INSERT INTO query_log") {
		t.Errorf("unexpected sql: %s", db.lastSQL)
	}

	var fields map[string]any
	if err := json.Unmarshal(db.lastArgs[0].([]byte), &fields); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if fields["query"] != "what is a list?" {
		t.Errorf("payload = %v", fields)
	}
}

func TestLogRejectsEmptyFields(t *testing.T) {
	store, err := NewStore(&fakeDB{}, log.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Log(context.Background(), nil); err == nil {
		t.Error("expected error for empty fields")
	}
}

func TestLogWrapsDatabaseError(t *testing.T) {
	dbErr := errors.New("connection refused")
	store, err := NewStore(&fakeDB{row: fakeRow{err: dbErr}}, log.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Log(context.Background(), map[string]any{"query": "q"}); !errors.Is(err, dbErr) {
		t.Errorf("got %v, want wrapped database error", err)
	}
}

// A failing log store must not surface to the caller: LogQuery returns
// immediately and the insert error is swallowed.
func TestLogQuerySwallowsFailure(t *testing.T) {
	db := &fakeDB{
		row:    fakeRow{err: errors.New("log store unreachable")},
		called: make(chan struct{}),
	}
	store, err := NewStore(db, log.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	store.LogQuery("what are dictionaries?")

	select {
	case <-db.called:
	case <-time.After(2 * time.Second):
		t.Fatal("insert was never attempted")
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(nil, log.NewNop()); err == nil {
		t.Error("expected error for nil db")
	}
	if _, err := NewStore(&fakeDB{}, nil); err == nil {
		t.Error("expected error for nil logger")
	}
}
