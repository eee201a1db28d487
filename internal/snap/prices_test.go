package snap

import "testing"

func TestUpgradeCosts(t *testing.T) {
	costs := UpgradeCosts()
	if len(costs) != MaxLevel {
		t.Fatalf("expected %d upgrade steps, got %d", MaxLevel, len(costs))
	}

	// Per-step costs derived from the game's cumulative ladder.
	want := []UpgradeCost{
		{Level: 0, Credits: 25, Boosters: 5},
		{Level: 1, Credits: 100, Boosters: 10},
		{Level: 2, Credits: 200, Boosters: 20},
		{Level: 3, Credits: 300, Boosters: 30},
		{Level: 4, Credits: 400, Boosters: 40},
		{Level: 5, Credits: 500, Boosters: 50},
	}
	for i, w := range want {
		if costs[i] != w {
			t.Errorf("step %d: expected %+v, got %+v", i, w, costs[i])
		}
	}
}

func TestCostToNext(t *testing.T) {
	cost, ok := CostToNext(LevelCommon)
	if !ok {
		t.Fatal("expected Common to be upgradable")
	}
	if cost.Credits != 25 || cost.Boosters != 5 {
		t.Errorf("expected 25/5 for Common, got %d/%d", cost.Credits, cost.Boosters)
	}

	if _, ok := CostToNext(LevelInfinity); ok {
		t.Error("Infinity must not be upgradable")
	}
	if _, ok := CostToNext(-1); ok {
		t.Error("negative level must not be upgradable")
	}
	if _, ok := CostToNext(MaxLevel + 1); ok {
		t.Error("out-of-range level must not be upgradable")
	}
}

func TestUpgradeCostTotal(t *testing.T) {
	cost := UpgradeCost{Level: 1, Credits: 100, Boosters: 10}
	if cost.Total() != 110 {
		t.Errorf("expected total 110, got %d", cost.Total())
	}
}

func TestLevelFromRarity(t *testing.T) {
	lvl, ok := LevelFromRarity("UltraLegendary")
	if !ok || lvl != LevelUltra {
		t.Errorf("expected UltraLegendary -> %d, got %d (ok=%v)", LevelUltra, lvl, ok)
	}
	if _, ok := LevelFromRarity("Mythic"); ok {
		t.Error("unknown rarity must not resolve")
	}
}

func TestCardStatWinRate(t *testing.T) {
	rate, defined := CardStat{GamesPlayed: 10, GamesWon: 5}.WinRate()
	if !defined || rate != 0.5 {
		t.Errorf("expected defined 0.5, got %v (defined=%v)", rate, defined)
	}

	// Zero games played means no win rate, not a 0% win rate.
	if _, defined := (CardStat{}).WinRate(); defined {
		t.Error("win rate must be undefined with zero games played")
	}

	rate, defined = CardStat{GamesPlayed: 4, GamesWon: 4}.WinRate()
	if !defined || rate != 1.0 {
		t.Errorf("expected defined 1.0, got %v (defined=%v)", rate, defined)
	}
}
