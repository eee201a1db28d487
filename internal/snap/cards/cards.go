// Package cards loads the static card reference table embedded in the
// binary. The table is read-only: ingestion never adds or removes cards.
package cards

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/snaptrk/snap-companion/internal/snap"
)

//go:embed cards.json
var cardsJSON []byte

// Table is an immutable card reference table keyed by card code.
type Table struct {
	byCode map[string]snap.Card
}

// Load parses the embedded card table.
func Load() (*Table, error) {
	return parse(cardsJSON)
}

func parse(data []byte) (*Table, error) {
	var list []snap.Card
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse card table: %w", err)
	}
	byCode := make(map[string]snap.Card, len(list))
	for _, c := range list {
		if c.Code == "" {
			return nil, fmt.Errorf("card table entry %q has no code", c.Name)
		}
		if _, dup := byCode[c.Code]; dup {
			return nil, fmt.Errorf("duplicate card code %q in card table", c.Code)
		}
		byCode[c.Code] = c
	}
	return &Table{byCode: byCode}, nil
}

// Get returns the card for a code.
func (t *Table) Get(code string) (snap.Card, bool) {
	c, ok := t.byCode[code]
	return c, ok
}

// Has reports whether the code exists in the table.
func (t *Table) Has(code string) bool {
	_, ok := t.byCode[code]
	return ok
}

// Len returns the number of cards in the table.
func (t *Table) Len() int {
	return len(t.byCode)
}

// All returns every card ordered by code, for deterministic iteration.
func (t *Table) All() []snap.Card {
	out := make([]snap.Card, 0, len(t.byCode))
	for _, c := range t.byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
