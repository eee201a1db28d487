package cards

import "testing"

func TestLoad(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("failed to load embedded card table: %v", err)
	}
	if table.Len() == 0 {
		t.Fatal("embedded card table is empty")
	}

	card, ok := table.Get("Hulk")
	if !ok {
		t.Fatal("expected Hulk in the card table")
	}
	if card.Name != "Hulk" || card.Cost != 6 || card.Power != 12 {
		t.Errorf("unexpected Hulk entry: %+v", card)
	}

	if table.Has("NotARealCard") {
		t.Error("unknown code must not resolve")
	}
}

func TestAllOrdering(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("failed to load embedded card table: %v", err)
	}

	all := table.All()
	if len(all) != table.Len() {
		t.Fatalf("All returned %d cards, table has %d", len(all), table.Len())
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Code >= all[i].Code {
			t.Fatalf("All not sorted by code: %q before %q", all[i-1].Code, all[i].Code)
		}
	}
}

func TestParseRejectsBadTables(t *testing.T) {
	if _, err := parse([]byte(`[{"code": "A", "name": "A"}, {"code": "A", "name": "Dup"}]`)); err == nil {
		t.Error("expected error for duplicate card code")
	}
	if _, err := parse([]byte(`[{"name": "NoCode"}]`)); err == nil {
		t.Error("expected error for missing card code")
	}
	if _, err := parse([]byte(`{`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
