package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func setupTestJSONStore(t *testing.T) (*JSONStore, func()) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "deedlog.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init json store: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tempDir)
	}
	return store, cleanup
}

func TestJSONStore_ApplyAndGet(t *testing.T) {
	store, cleanup := setupTestJSONStore(t)
	defer cleanup()

	if _, ok, err := store.Get("streak"); err != nil || ok {
		t.Fatalf("expected absent key on fresh store, got ok=%v err=%v", ok, err)
	}

	if err := store.Apply(map[string]string{"streak": "3", "lastCheckIn": "2024-01-10"}, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	v, ok, err := store.Get("streak")
	if err != nil || !ok || v != "3" {
		t.Errorf("Get(streak) = %q, %v, %v", v, ok, err)
	}

	if err := store.Apply(nil, []string{"lastCheckIn"}); err != nil {
		t.Fatalf("Apply delete failed: %v", err)
	}
	if _, ok, _ := store.Get("lastCheckIn"); ok {
		t.Error("expected lastCheckIn to be deleted")
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"streak"}) {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestJSONStore_PersistsAcrossInstances(t *testing.T) {
	store, cleanup := setupTestJSONStore(t)
	defer cleanup()

	if err := store.Apply(map[string]string{"deeds": `[{"date":"2024-01-10","deed":"x","emoji":"😊"}]`}, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	reopened := NewJSONStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v, ok, err := reopened.Get("deeds")
	if err != nil || !ok {
		t.Fatalf("expected deeds after reload, ok=%v err=%v", ok, err)
	}
	if v != `[{"date":"2024-01-10","deed":"x","emoji":"😊"}]` {
		t.Errorf("unexpected deeds value %q", v)
	}

	// No temp files should be left behind by the atomic write.
	entries, err := os.ReadDir(filepath.Dir(store.GetConfigPath()))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the store file, found %d entries", len(entries))
	}
}

func TestJSONStore_Lifecycle(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "deedlog.json")

	store := NewJSONStore(path)
	if err := store.Apply(map[string]string{"a": "b"}, nil); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded before load, got %v", err)
	}
	if err := store.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := NewJSONStore(path).Init(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized on second init, got %v", err)
	}

	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONStore(path).Load(); err == nil {
		t.Error("expected parse error for corrupted store")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(map[string]string{"streak": "1"})

	store.WriteErr = errors.New("disk full")
	if err := store.Apply(map[string]string{"streak": "2"}, nil); err == nil {
		t.Fatal("expected write error")
	}
	if v, _, _ := store.Get("streak"); v != "1" {
		t.Errorf("failed write changed value to %q", v)
	}

	store.WriteErr = nil
	if err := store.Apply(map[string]string{"streak": "2"}, []string{"missing"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if v, _, _ := store.Get("streak"); v != "2" {
		t.Errorf("expected streak 2, got %q", v)
	}
}
