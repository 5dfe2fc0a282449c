package credential

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", "credentials.json"))
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("gemini_api_key", "secret-1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load("gemini_api_key")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "secret-1" {
		t.Errorf("Value mismatch: got %s, want secret-1", got)
	}
	if !store.Has("gemini_api_key") {
		t.Error("Has should return true after Save")
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if store.Has("nope") {
		t.Error("Has should return false for missing name")
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("a", "1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if store.Has("a") {
		t.Error("Expected value to be deleted")
	}
	if err := store.Delete("a"); err != nil {
		t.Errorf("Deleting a missing value should not fail: %v", err)
	}
}

func TestStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("a", "1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected permissions 0600, got %o", perm)
	}

	dirInfo, err := os.Stat(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("Stat dir failed: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0700 {
		t.Errorf("Expected directory permissions 0700, got %o", perm)
	}
}

func TestStore_Names(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"openai_api_key", "gemini_api_key"} {
		if err := store.Save(name, "x"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	names := store.Names()
	if len(names) != 2 || names[0] != "gemini_api_key" || names[1] != "openai_api_key" {
		t.Errorf("Unexpected names %v", names)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load("a"); err == nil {
		t.Error("Expected parse error")
	}
	if err := store.Save("a", "1"); err == nil {
		t.Fatal("Save must not overwrite a corrupt file")
	}
	raw, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "{not json" {
		t.Errorf("Corrupt file was rewritten: %q", raw)
	}
}

func TestSetting_LoadDefaultsToRemember(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	store := newTestStore(t)

	s := NewSetting(store, "k")
	s.Load()
	if s.Value() != "" {
		t.Errorf("Expected no value, got %q", s.Value())
	}
	if !s.Remember() {
		t.Error("Remember should start on when nothing is stored")
	}
	if err := s.Set("first"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Load("k"); got != "first" {
		t.Errorf("Expected first key to be persisted, got %q", got)
	}
}

func TestSetting_RememberRoundTrip(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	store := newTestStore(t)

	s := NewSetting(store, "gemini_api_key")
	if err := s.Set("key-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if store.Has("gemini_api_key") {
		t.Fatal("Value must not be persisted while remember is off")
	}

	if err := s.SetRemember(true); err != nil {
		t.Fatalf("SetRemember failed: %v", err)
	}
	if got, _ := store.Load("gemini_api_key"); got != "key-1" {
		t.Fatalf("Expected persisted value, got %q", got)
	}

	reloaded := NewSetting(store, "gemini_api_key")
	reloaded.Load()
	if reloaded.Value() != "key-1" || !reloaded.Remember() {
		t.Fatalf("Expected reloaded value with remember on, got %q/%v", reloaded.Value(), reloaded.Remember())
	}

	if err := reloaded.SetRemember(false); err != nil {
		t.Fatalf("SetRemember(false) failed: %v", err)
	}
	if store.Has("gemini_api_key") {
		t.Error("Remember off should delete the persisted value")
	}
	if reloaded.Value() != "key-1" {
		t.Error("Remember off should keep the in-memory value")
	}
}

func TestSetting_SetWhileRemembering(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	store := newTestStore(t)

	s := NewSetting(store, "k")
	if err := s.SetRemember(true); err != nil {
		t.Fatal(err)
	}
	if store.Has("k") {
		t.Fatal("Empty value should not be persisted")
	}
	if err := s.Set("  v2  "); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Load("k"); got != "v2" {
		t.Errorf("Expected trimmed persisted value, got %q", got)
	}
	if err := s.Set(""); err != nil {
		t.Fatal(err)
	}
	if store.Has("k") {
		t.Error("Clearing the value should delete the persisted copy")
	}
}

func TestSetting_EnvOverride(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("k", "stored"); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "from-env")

	s := NewSetting(store, "k")
	s.Load()
	if s.Value() != "from-env" {
		t.Errorf("Expected env value, got %q", s.Value())
	}
	if s.Remember() || !s.FromEnv() {
		t.Error("Env value should be session-only")
	}
}

func TestSetting_NilStore(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	s := NewSetting(nil, "k")
	s.Load()
	if err := s.Set("v"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRemember(true); err != nil {
		t.Fatal(err)
	}
	if s.Value() != "v" {
		t.Errorf("Expected in-memory value, got %q", s.Value())
	}
}
