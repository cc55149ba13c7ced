package quest

import "github.com/cory-johannsen/deltaland/internal/game/dice"

// Result is the numeric outcome of a completed quest, from the player's
// perspective. HP may be negative (the player got hurt) or positive (rested).
type Result struct {
	Description string
	Gold        int
	Exp         int
	HP          int
}

// Quality weights for the wander outcome: 10% bad, 80% normal, 10% good.
const (
	badWeight  = 10
	goodWeight = 10
)

var badOutcomes = []string{
	"You helped a blacksmith with the chores. One of your fingers got hurt with a hammer",
	"You came back empty handed and bored",
	"You wandered around for a while but nothing interesting happened",
	"A wagon passed near you and splashed water from a puddle, your clothes are wet and stinky",
}

var normalOutcomes = []string{
	"You were walking around when you noticed a gold coin on the floor!",
	"You helped a peasant with the crops. It was hard work but you feel pleased about helping people... and charging for it.",
	"You ran some errands for a butcher, he paid you with a piece of bacon, you sold it to a fat guy for some gold",
	"A knight paid you to bathe and feed his horse",
	"You worked as a helper in the inn's kitchen",
	"In an alley someone tried to rob you, but you rob him instead",
}

var goodOutcomes = []string{
	"You gave a hand cleaning the inn. They allowed you to take a nap in one of their comfortable beds",
	"Wandering around you accidentally kicked an old pot near other trash, the pot broke and inside you found some gold coins!",
	"A magician asked for your assistance to organize his library. You politely refused any payment... and sold a grimoire you found in your pocket",
}

// RollWanderResult draws one wander outcome. The first bad variant hurts,
// the first good variant heals; everything else is gold and experience only.
func RollWanderResult(src dice.Source) Result {
	roll := src.Intn(100)
	switch {
	case roll < badWeight:
		i := src.Intn(len(badOutcomes))
		r := Result{Description: badOutcomes[i]}
		if i == 0 { // hurt
			r.Gold = dice.RollBetween(src, 1, 2)
			r.Exp = dice.RollBetween(src, 1, 2)
			r.HP = -dice.RollBetween(src, 5, 10)
		}
		return r
	case roll >= 100-goodWeight:
		i := src.Intn(len(goodOutcomes))
		r := Result{Description: goodOutcomes[i]}
		if i == 0 { // heal
			r.Gold = dice.RollBetween(src, 2, 3)
			r.Exp = dice.RollBetween(src, 2, 3)
			r.HP = dice.RollBetween(src, 5, 10)
		} else {
			r.Gold = dice.RollBetween(src, 3, 4)
			r.Exp = dice.RollBetween(src, 2, 3)
		}
		return r
	default:
		i := src.Intn(len(normalOutcomes))
		r := Result{Description: normalOutcomes[i]}
		if i == 0 { // one coin
			r.Gold = 1
			r.Exp = dice.RollBetween(src, 1, 2)
		} else {
			r.Gold = dice.RollBetween(src, 1, 2)
			r.Exp = dice.RollBetween(src, 1, 2)
		}
		return r
	}
}

// ThieveLoot is the gold a thief steals when nobody interferes. The floor
// scales with level, clamped to [10, 20]; the haul tops out at 40.
func ThieveLoot(src dice.Source, level int) int {
	floor := clamp(level, 10, 20)
	top := floor * 3
	if top > 40 {
		top = 40
	}
	return dice.RollBetween(src, floor, top)
}

// InterfereLoot is the gold a caught thief drops while fleeing. The floor
// scales with level, clamped to [5, 10].
func InterfereLoot(src dice.Source, level int) int {
	floor := clamp(level, 5, 10)
	return dice.RollBetween(src, floor, floor*2)
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
