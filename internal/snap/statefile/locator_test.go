package statefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if !mod.IsZero() {
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
}

func TestResolveProfileSingle(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "nvprod"), 0o755); err != nil {
		t.Fatal(err)
	}

	dir, err := ResolveProfile(root, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join(root, "nvprod") {
		t.Errorf("unexpected profile dir: %s", dir)
	}
}

func TestResolveProfileAmbiguous(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"nvprod", "nvqa"} {
		if err := os.Mkdir(filepath.Join(root, p), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	_, err := ResolveProfile(root, "")
	var ambiguous *AmbiguousProfileError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousProfileError, got %v", err)
	}
	if len(ambiguous.Profiles) != 2 {
		t.Errorf("expected 2 profiles in error, got %v", ambiguous.Profiles)
	}

	// Naming a profile resolves the ambiguity.
	dir, err := ResolveProfile(root, "nvqa")
	if err != nil {
		t.Fatalf("unexpected error with explicit profile: %v", err)
	}
	if dir != filepath.Join(root, "nvqa") {
		t.Errorf("unexpected profile dir: %s", dir)
	}
}

func TestResolveProfileMissing(t *testing.T) {
	root := t.TempDir()

	if _, err := ResolveProfile(root, ""); !errors.Is(err, ErrNoStateFile) {
		t.Errorf("empty root: expected ErrNoStateFile, got %v", err)
	}
	if _, err := ResolveProfile(root, "nvprod"); !errors.Is(err, ErrNoStateFile) {
		t.Errorf("missing profile: expected ErrNoStateFile, got %v", err)
	}
	if _, err := ResolveProfile(filepath.Join(root, "gone"), ""); !errors.Is(err, ErrNoStateFile) {
		t.Errorf("missing root: expected ErrNoStateFile, got %v", err)
	}
}

func TestLocateNewest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "nvprod")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	writeFile(t, filepath.Join(dir, "ProfileState.json"), now.Add(-2*time.Hour))
	writeFile(t, filepath.Join(dir, "CollectionState.json"), now.Add(-1*time.Minute))
	writeFile(t, filepath.Join(dir, "GameState.json"), now.Add(-1*time.Hour))
	// Files not matching the naming convention are ignored.
	writeFile(t, filepath.Join(dir, "Player.log"), now)

	path, err := Locate(root, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "CollectionState.json" {
		t.Errorf("expected newest state file, got %s", path)
	}
}

func TestLocateNoMatches(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "nvprod")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "notes.txt"), time.Time{})

	if _, err := Locate(root, ""); !errors.Is(err, ErrNoStateFile) {
		t.Errorf("expected ErrNoStateFile, got %v", err)
	}
}

func TestLocateTieBreaksByName(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "nvprod")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	same := time.Now().Truncate(time.Second)
	writeFile(t, filepath.Join(dir, "ProfileState.json"), same)
	writeFile(t, filepath.Join(dir, "CollectionState.json"), same)

	path, err := Locate(root, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "CollectionState.json" {
		t.Errorf("tie should break by name, got %s", path)
	}
}
