// Package snap defines the domain entities extracted from the game's
// locally persisted account state: cards, per-card performance counters,
// collection ownership, and currency balances.
package snap

// Card is static reference data for a single card, identified by its
// stable card code. Cards are loaded once from the embedded table and are
// never created or destroyed by ingestion.
type Card struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Series string `json:"series"`
	Cost   int    `json:"cost"`
	Power  int    `json:"power"`
}

// CardStat holds the game's own performance counters for one card.
// Counters are replaced wholesale on each ingestion; the game client is the
// source of truth, not this tool.
type CardStat struct {
	CardCode    string `json:"card_code"`
	GamesPlayed int    `json:"games_played"`
	GamesWon    int    `json:"games_won"`
}

// WinRate returns the win rate in [0, 1] and whether it is defined.
// A card with zero games played has no win rate, which is not the same
// thing as a 0% win rate.
func (s CardStat) WinRate() (float64, bool) {
	if s.GamesPlayed == 0 {
		return 0, false
	}
	return float64(s.GamesWon) / float64(s.GamesPlayed), true
}

// CollectionEntry records ownership and upgrade progress for one card.
type CollectionEntry struct {
	CardCode string `json:"card_code"`
	Owned    bool   `json:"owned"`
	Level    int    `json:"level"`
	Splits   int    `json:"splits"`
	Boosters int    `json:"boosters"`
}

// Currencies is the singleton set of wallet balances in a snapshot.
type Currencies struct {
	Credits  int `json:"credits"`
	Gold     int `json:"gold"`
	Boosters int `json:"boosters"`
}

// Entities is the full normalized output of one ingestion cycle.
type Entities struct {
	Stats      map[string]CardStat
	Entries    map[string]CollectionEntry
	Currencies Currencies
}
