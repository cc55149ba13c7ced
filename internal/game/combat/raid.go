package combat

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/deltaland/internal/game/dice"
	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// Report is the single most-recent-raid snapshot kept per player. It is
// overwritten by the next raid and never historized. All deltas are from the
// player's perspective.
type Report struct {
	ID            string
	PlayerID      int64
	Tactic        Tactic
	MonsterTactic Tactic
	Exp           int
	Gold          int
	HP            int
	Victory       bool
}

// ResolveRaid plays one player's banked tactic against a goblin drawing a
// uniform random tactic, mutates the player with the resulting deltas, and
// returns the report plus whether the experience gain leveled the player up.
//
// Balance, from the raid's fixed constants: loot gold and base experience
// are each a uniform draw in [(level+1)/2, level+1]; a full blow is
// maxHP/3 damage. A win grants full experience and the loot; the wounded
// tie grants half experience and half a blow; the clean tie a quarter
// experience; a loss a quarter experience and a full blow; a petrified
// player takes the full blow with nothing gained.
//
// Precondition: p and src must be non-nil; tactic may be TacticNone.
func ResolveRaid(p *player.Player, tactic Tactic, src dice.Source, b player.Balance, now int64) (Report, bool) {
	monster := Tactic(dice.RollBetween(src, int(TacticHit), int(TacticParry)))
	gold := dice.RollBetween(src, (p.Level+1)/2, p.Level+1)
	baseExp := dice.RollBetween(src, (p.Level+1)/2, p.Level+1)
	blow := p.MaxHP / 3

	report := Report{
		ID:            uuid.New().String(),
		PlayerID:      p.ID,
		Tactic:        tactic,
		MonsterTactic: monster,
	}

	outcome := Resolve(tactic, monster, p.DisplayName(), "the goblin")
	switch outcome.Result {
	case LeftWins:
		report.Victory = true
		report.Exp = baseExp
		report.Gold = gold
		p.Gold += gold
	case TieWounded:
		report.Exp = atLeastOne(baseExp / 2)
		report.HP = -p.ApplyDamage(blow/2, now, b)
	case TieClean:
		report.Exp = atLeastOne(baseExp / 4)
	case RightWins:
		report.Exp = atLeastOne(baseExp / 4)
		report.HP = -p.ApplyDamage(blow, now, b)
	default: // petrified
		report.HP = -p.ApplyDamage(blow, now, b)
	}

	leveled := false
	if report.Exp > 0 {
		leveled = p.GrantExperience(report.Exp, b)
	}
	return report, leveled
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
