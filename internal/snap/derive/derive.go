// Package derive computes the user-facing report views from the latest
// normalized snapshots. Both computations are pure: identical inputs
// produce identical output, in a deterministic order.
package derive

import (
	"sort"

	"github.com/snaptrk/snap-companion/internal/snap"
	"github.com/snaptrk/snap-companion/internal/snap/cards"
)

// RankedCard is one row of the performance ranking.
type RankedCard struct {
	Card        snap.Card
	WinRate     float64
	RateDefined bool
	GamesPlayed int
	GamesWon    int
	Splits      int
}

// UpgradeCandidate is one row of the upgrade eligibility report.
type UpgradeCandidate struct {
	Card         snap.Card
	Level        int
	CreditsCost  int
	BoostersCost int
}

// PerformanceRanking joins owned collection entries against card
// statistics and orders them by win rate, best first. Cards that have
// never been played sort after every played card regardless of their
// nominal rate; ties break on display name.
func PerformanceRanking(entries map[string]snap.CollectionEntry, stats map[string]snap.CardStat, table *cards.Table) []RankedCard {
	ranked := make([]RankedCard, 0, len(entries))
	for code, entry := range entries {
		if !entry.Owned {
			continue
		}
		card, ok := table.Get(code)
		if !ok {
			// Entries are validated against the table at normalization
			// time; an unresolvable code here would be a store-level bug.
			continue
		}
		stat := stats[code]
		rate, defined := stat.WinRate()
		ranked = append(ranked, RankedCard{
			Card:        card,
			WinRate:     rate,
			RateDefined: defined,
			GamesPlayed: stat.GamesPlayed,
			GamesWon:    stat.GamesWon,
			Splits:      entry.Splits,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.RateDefined != b.RateDefined {
			return a.RateDefined
		}
		if a.RateDefined && a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		return a.Card.Name < b.Card.Name
	})
	return ranked
}

// UpgradeCandidates returns every owned entry whose next-level cost is
// covered by both the credits and the boosters balance, cheapest total
// cost first so the most actionable upgrades lead the list.
func UpgradeCandidates(entries map[string]snap.CollectionEntry, balances snap.Currencies, table *cards.Table) []UpgradeCandidate {
	candidates := make([]UpgradeCandidate, 0)
	for code, entry := range entries {
		if !entry.Owned {
			continue
		}
		card, ok := table.Get(code)
		if !ok {
			continue
		}
		cost, upgradable := snap.CostToNext(entry.Level)
		if !upgradable {
			continue
		}
		if balances.Credits < cost.Credits || balances.Boosters < cost.Boosters {
			continue
		}
		candidates = append(candidates, UpgradeCandidate{
			Card:         card,
			Level:        entry.Level,
			CreditsCost:  cost.Credits,
			BoostersCost: cost.Boosters,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		at := a.CreditsCost + a.BoostersCost
		bt := b.CreditsCost + b.BoostersCost
		if at != bt {
			return at < bt
		}
		return a.Card.Name < b.Card.Name
	})
	return candidates
}
