// Package normalize projects the generic state tree produced by the parser
// into the typed entities of the domain model. It is a pure transformation:
// no I/O, no hidden state.
//
// Policy: unknown fields in the source tree are ignored so that game
// updates do not break ingestion. Missing performance counters default to
// zero. Missing or mistyped identity fields, and card codes that do not
// resolve against the static card table, are schema violations.
package normalize

import (
	"strconv"

	"github.com/goccy/go-json"

	"github.com/snaptrk/snap-companion/internal/snap"
	"github.com/snaptrk/snap-companion/internal/snap/cards"
)

// Normalize extracts card statistics, collection entries, and currency
// balances from the parsed state tree, validating shapes against the
// card reference table.
func Normalize(tree map[string]any, table *cards.Table) (*snap.Entities, error) {
	server, err := requireMap(tree, "ServerState")
	if err != nil {
		return nil, err
	}

	out := &snap.Entities{
		Stats:   make(map[string]snap.CardStat),
		Entries: make(map[string]snap.CollectionEntry),
	}

	if err := normalizeStats(server, table, out); err != nil {
		return nil, err
	}
	if err := normalizeCollection(server, table, out); err != nil {
		return nil, err
	}
	if err := normalizeVariants(server, table, out); err != nil {
		return nil, err
	}
	if err := normalizeWallet(server, out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeStats(server map[string]any, table *cards.Table, out *snap.Entities) error {
	account, ok, err := optionalMap(server, "ServerState", "Account")
	if err != nil || !ok {
		return err
	}
	statsRaw, ok, err := optionalMap(account, "ServerState.Account", "CardStats")
	if err != nil || !ok {
		return err
	}

	for code, v := range statsRaw {
		path := "ServerState.Account.CardStats." + code
		if !table.Has(code) {
			return violation(path, "known card code", code)
		}
		entry, ok := v.(map[string]any)
		if !ok {
			return violation(path, "object", v)
		}
		played, err := intField(entry, path, "GamesPlayed")
		if err != nil {
			return err
		}
		won, err := intField(entry, path, "GamesWon")
		if err != nil {
			return err
		}
		out.Stats[code] = snap.CardStat{
			CardCode:    code,
			GamesPlayed: played,
			GamesWon:    won,
		}
	}
	return nil
}

func normalizeCollection(server map[string]any, table *cards.Table, out *snap.Entities) error {
	defStats, ok, err := optionalMap(server, "ServerState", "CardDefStats")
	if err != nil || !ok {
		return err
	}
	stats, ok, err := optionalMap(defStats, "ServerState.CardDefStats", "Stats")
	if err != nil || !ok {
		return err
	}

	for code, v := range stats {
		// The game mixes aggregate counters into the same map; only
		// object values describe cards.
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		path := "ServerState.CardDefStats.Stats." + code
		if !table.Has(code) {
			return violation(path, "known card code", code)
		}
		splits, err := intField(entry, path, "InfinitySplitCount")
		if err != nil {
			return err
		}
		boosters, err := intField(entry, path, "Boosters")
		if err != nil {
			return err
		}
		out.Entries[code] = snap.CollectionEntry{
			CardCode: code,
			Owned:    true,
			Splits:   splits,
			Boosters: boosters,
		}
	}
	return nil
}

// normalizeVariants walks the owned variant list and raises each entry's
// level to its highest variant rarity on the upgrade ladder.
func normalizeVariants(server map[string]any, table *cards.Table, out *snap.Entities) error {
	raw, present := server["Cards"]
	if !present {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return violation("ServerState.Cards", "array", raw)
	}

	for i, item := range list {
		path := indexedPath("ServerState.Cards", i)
		variant, ok := item.(map[string]any)
		if !ok {
			return violation(path, "object", item)
		}
		if custom, _ := variant["Custom"].(bool); custom {
			continue
		}
		codeRaw, present := variant["CardDefId"]
		if !present {
			return violation(path+".CardDefId", "string", nil)
		}
		code, ok := codeRaw.(string)
		if !ok {
			return violation(path+".CardDefId", "string", codeRaw)
		}
		if !table.Has(code) {
			return violation(path+".CardDefId", "known card code", code)
		}

		level := snap.LevelCommon
		if rarityRaw, present := variant["RarityDefId"]; present {
			rarity, ok := rarityRaw.(string)
			if !ok {
				return violation(path+".RarityDefId", "string", rarityRaw)
			}
			lvl, known := snap.LevelFromRarity(rarity)
			if !known {
				return violation(path+".RarityDefId", "rarity name", rarity)
			}
			level = lvl
		}

		entry, exists := out.Entries[code]
		if !exists {
			entry = snap.CollectionEntry{CardCode: code, Owned: true}
		}
		if level > entry.Level {
			entry.Level = level
		}
		out.Entries[code] = entry
	}
	return nil
}

func normalizeWallet(server map[string]any, out *snap.Entities) error {
	wallet, ok, err := optionalMap(server, "ServerState", "Wallet")
	if err != nil || !ok {
		return err
	}
	currencies, ok, err := optionalMap(wallet, "ServerState.Wallet", "_currencies")
	if err != nil || !ok {
		return err
	}

	credits, err := currencyAmount(currencies, "Credits")
	if err != nil {
		return err
	}
	gold, err := currencyAmount(currencies, "Gold")
	if err != nil {
		return err
	}
	boosters, err := currencyAmount(currencies, "Boosters")
	if err != nil {
		return err
	}
	out.Currencies = snap.Currencies{Credits: credits, Gold: gold, Boosters: boosters}
	return nil
}

// currencyAmount digs out
// ServerState.Wallet._currencies.<name>.<name>.TotalAmount, the nesting
// the game actually writes. Absent balances are zero.
func currencyAmount(currencies map[string]any, name string) (int, error) {
	base := "ServerState.Wallet._currencies." + name
	outer, ok, err := optionalMap(currencies, "ServerState.Wallet._currencies", name)
	if err != nil || !ok {
		return 0, err
	}
	inner, ok, err := optionalMap(outer, base, name)
	if err != nil || !ok {
		return 0, err
	}
	return intField(inner, base+"."+name, "TotalAmount")
}

// Tree accessors. The parser hands us maps of any; these check shapes and
// turn mismatches into schema violations with the offending path.

func requireMap(tree map[string]any, key string) (map[string]any, error) {
	v, present := tree[key]
	if !present {
		return nil, violation(key, "object", nil)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, violation(key, "object", v)
	}
	return m, nil
}

func optionalMap(parent map[string]any, parentPath, key string) (map[string]any, bool, error) {
	v, present := parent[key]
	if !present {
		return nil, false, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false, violation(parentPath+"."+key, "object", v)
	}
	return m, true, nil
}

// intField reads an optional integer field; absent means zero, but a
// present non-numeric value is a violation.
func intField(m map[string]any, path, key string) (int, error) {
	v, present := m[key]
	if !present {
		return 0, nil
	}
	n, ok := intValue(v)
	if !ok {
		return 0, violation(path+"."+key, "number", v)
	}
	return n, nil
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func indexedPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}
