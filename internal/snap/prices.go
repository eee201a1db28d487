package snap

// The upgrade ladder. A card's level is its index on this ladder, from
// Common (0) to Infinity (6).
const (
	LevelCommon = iota
	LevelUncommon
	LevelRare
	LevelEpic
	LevelLegendary
	LevelUltra
	LevelInfinity

	MaxLevel = LevelInfinity
)

// LevelNames maps ladder levels to the game's rarity names.
var LevelNames = [MaxLevel + 1]string{
	"Common",
	"Uncommon",
	"Rare",
	"Epic",
	"Legendary",
	"UltraLegendary",
	"Infinity",
}

// UpgradeCost is the price of advancing a card from Level to Level+1.
type UpgradeCost struct {
	Level    int
	Credits  int
	Boosters int
}

// Total returns the combined cost used to order upgrade suggestions,
// cheapest first.
func (c UpgradeCost) Total() int {
	return c.Credits + c.Boosters
}

// cumulativeCosts is the game's total cost to reach each level from Common,
// in (credits, boosters) pairs.
var cumulativeCosts = [MaxLevel + 1][2]int{
	{0, 0},
	{25, 5},
	{125, 15},
	{325, 35},
	{625, 65},
	{1025, 105},
	{1525, 155},
}

// UpgradeCosts returns the per-level advance costs, indexed by the level
// being upgraded from. A card at MaxLevel cannot be upgraded further.
func UpgradeCosts() []UpgradeCost {
	costs := make([]UpgradeCost, 0, MaxLevel)
	for lvl := 0; lvl < MaxLevel; lvl++ {
		costs = append(costs, UpgradeCost{
			Level:    lvl,
			Credits:  cumulativeCosts[lvl+1][0] - cumulativeCosts[lvl][0],
			Boosters: cumulativeCosts[lvl+1][1] - cumulativeCosts[lvl][1],
		})
	}
	return costs
}

// CostToNext returns the cost of upgrading from the given level, or ok=false
// when the level is already at the top of the ladder or out of range.
func CostToNext(level int) (UpgradeCost, bool) {
	if level < 0 || level >= MaxLevel {
		return UpgradeCost{}, false
	}
	return UpgradeCost{
		Level:    level,
		Credits:  cumulativeCosts[level+1][0] - cumulativeCosts[level][0],
		Boosters: cumulativeCosts[level+1][1] - cumulativeCosts[level][1],
	}, true
}

// LevelFromRarity maps a rarity name from the state file to a ladder level.
func LevelFromRarity(rarity string) (int, bool) {
	for i, name := range LevelNames {
		if name == rarity {
			return i, true
		}
	}
	return 0, false
}
