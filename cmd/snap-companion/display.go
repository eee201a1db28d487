package main

import (
	"fmt"

	"github.com/snaptrk/snap-companion/internal/events"
	"github.com/snaptrk/snap-companion/internal/snap"
	"github.com/snaptrk/snap-companion/internal/snap/derive"
)

const noDataMessage = "No collection data yet. Run 'snap-companion ingest' (or 'watch') with the game installed."

// displayRanking renders the performance ranking table.
func displayRanking(ranking []derive.RankedCard) {
	if len(ranking) == 0 {
		fmt.Println("No owned cards in the latest snapshot.")
		return
	}

	fmt.Println("Your Best Performing Cards")
	fmt.Println("==========================")
	fmt.Println()
	fmt.Printf("%-4s %-20s %-9s %-7s %-5s %s\n", "Rank", "Card", "Win Rate", "Played", "Won", "Splits")

	for i, row := range ranking {
		rate := "-"
		if row.RateDefined {
			rate = fmt.Sprintf("%.1f%%", row.WinRate*100)
		}
		fmt.Printf("%-4d %-20s %-9s %-7d %-5d %d\n",
			i+1, row.Card.Name, rate, row.GamesPlayed, row.GamesWon, row.Splits)
	}
	fmt.Println()
}

// displayUpgrades renders the upgrade eligibility table.
func displayUpgrades(candidates []derive.UpgradeCandidate, balances snap.Currencies) {
	fmt.Printf("Wallet: %d credits, %d boosters\n", balances.Credits, balances.Boosters)
	fmt.Println()

	if len(candidates) == 0 {
		fmt.Println("No affordable upgrades right now.")
		return
	}

	fmt.Println("Affordable Upgrades (cheapest first)")
	fmt.Println("====================================")
	fmt.Println()
	fmt.Printf("%-20s %-16s %-8s %s\n", "Card", "Upgrade", "Credits", "Boosters")

	for _, c := range candidates {
		upgrade := fmt.Sprintf("%s -> %s", snap.LevelNames[c.Level], snap.LevelNames[c.Level+1])
		fmt.Printf("%-20s %-16s %-8d %d\n", c.Card.Name, upgrade, c.CreditsCost, c.BoostersCost)
	}
	fmt.Println()
}

// displayPrices renders the static upgrade price ladder.
func displayPrices() {
	fmt.Println("Upgrade Prices")
	fmt.Println("==============")
	fmt.Println()
	fmt.Printf("%-16s %-16s %-8s %s\n", "From", "To", "Credits", "Boosters")

	for _, cost := range snap.UpgradeCosts() {
		fmt.Printf("%-16s %-16s %-8d %d\n",
			snap.LevelNames[cost.Level], snap.LevelNames[cost.Level+1], cost.Credits, cost.Boosters)
	}
	fmt.Println()
}

// consoleObserver prints ingestion outcomes while watch mode runs.
type consoleObserver struct{}

func newConsoleObserver() *consoleObserver { return &consoleObserver{} }

func (o *consoleObserver) Name() string { return "console" }

func (o *consoleObserver) OnEvent(event events.Event) {
	switch event.Type {
	case events.TypeIngestCompleted:
		fmt.Printf("State updated: %d new snapshots from %s\n",
			event.Outcome.Inserted, event.Outcome.StatePath)
	case events.TypeIngestSkipped:
		// Unchanged file, nothing new to report.
	case events.TypeIngestFailed:
		fmt.Printf("Ingestion failed: %v\n", event.Outcome.Err)
	}
}
