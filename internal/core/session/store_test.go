package session

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	payload := []byte(`{"id":"d1","state":"building_cart"}`)
	if err := store.Save("d1", "b1", payload, time.Now()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load("d1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Load = %s, want %s", got, payload)
	}
}

func TestSaveUpsertsExistingDraft(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("d1", "b1", []byte(`{"v":1}`), time.Now()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("d1", "b1", []byte(`{"v":2}`), time.Now()); err != nil {
		t.Fatalf("Save (update): %v", err)
	}

	got, err := store.Load("d1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("Load = %s, want latest payload", got)
	}

	payloads, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(payloads) != 1 {
		t.Errorf("LoadAll returned %d payloads, want 1", len(payloads))
	}
}

func TestLoadMissingDraft(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Load("nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Load(missing) = %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteStaleKeepsRecentDrafts(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	if err := store.Save("old", "b1", []byte(`{}`), now.Add(-48*time.Hour)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("fresh", "b1", []byte(`{}`), now); err != nil {
		t.Fatalf("Save: %v", err)
	}

	deleted, err := store.DeleteStale(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteStale: %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteStale = %d, want 1", deleted)
	}
	if _, err := store.Load("fresh"); err != nil {
		t.Errorf("fresh draft should survive: %v", err)
	}
	if _, err := store.Load("old"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("old draft should be gone, got err = %v", err)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save("d1", "b1", []byte(`{"id":"d1"}`), time.Now()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore (reopen): %v", err)
	}
	defer reopened.Close()

	payloads, err := reopened.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("LoadAll after reopen returned %d payloads, want 1", len(payloads))
	}
}
