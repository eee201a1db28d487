package statefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func bomJSON(s string) []byte {
	return append([]byte{0xEF, 0xBB, 0xBF}, []byte(s)...)
}

func TestParse(t *testing.T) {
	tree, err := Parse(bomJSON(`{"ServerState": {"Account": {"Name": "Player"}, "Turn": 3}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	server, ok := tree["ServerState"].(map[string]any)
	if !ok {
		t.Fatal("missing ServerState subtree")
	}
	account, ok := server["Account"].(map[string]any)
	if !ok {
		t.Fatal("missing Account subtree")
	}
	if account["Name"] != "Player" {
		t.Errorf("unexpected Name: %v", account["Name"])
	}
	if turn, ok := server["Turn"].(float64); !ok || turn != 3 {
		t.Errorf("unexpected Turn: %v", server["Turn"])
	}
}

func TestParseMissingBOM(t *testing.T) {
	_, err := Parse([]byte(`{"ServerState": {}}`))
	var malformed *MalformedStateError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedStateError, got %v", err)
	}
}

func TestParseTruncated(t *testing.T) {
	cases := map[string][]byte{
		"empty":          {},
		"partial bom":    {0xEF, 0xBB},
		"truncated json": bomJSON(`{"ServerState": {"Card`),
	}
	for name, data := range cases {
		var malformed *MalformedStateError
		if _, err := Parse(data); !errors.As(err, &malformed) {
			t.Errorf("%s: expected MalformedStateError, got %v", name, err)
		}
	}
}

func TestParseNonObjectPayload(t *testing.T) {
	var malformed *MalformedStateError
	if _, err := Parse(bomJSON(`[1, 2, 3]`)); !errors.As(err, &malformed) {
		t.Errorf("expected MalformedStateError for non-object payload, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CollectionState.json")
	if err := os.WriteFile(path, bomJSON(`{"ServerState": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tree["ServerState"]; !ok {
		t.Error("missing ServerState key")
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
