package combat

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/deltaland/internal/game/player"
)

const (
	narrativeTieClean = "You both avoided each other's attacks." +
		" The goblin was surprised by this outcome and ran away."
	narrativeTieWounded = "You exchanged blows." +
		" The wounded goblin fled as fast as he could, you fainted shortly after."
	narrativeWin  = "You killed the goblin. On his cold corpse you found some gold."
	narrativeLose = "The blow was so strong that you fainted."
)

// duelLine narrates the decisive exchange from the winning tactic's point
// of view.
func duelLine(winningTactic Tactic, winner, loser string) string {
	switch winningTactic {
	case TacticHit:
		return fmt.Sprintf("%s feints but is defeated by %s's hit!", loser, winner)
	case TacticFeint:
		return fmt.Sprintf("%s tries to parry, but %s feints and hits!", loser, winner)
	default: // parry
		return fmt.Sprintf("%s tries to hit %s, but %s parries the attack and counterattacks!",
			loser, winner, winner)
	}
}

// Narrative renders the report as the story the player reads, deltas
// included. The report must belong to p.
func (r Report) Narrative(p *player.Player) string {
	const monsterName = "the goblin"
	name := p.DisplayName()

	var text string
	outcome := Resolve(r.Tactic, r.MonsterTactic, name, monsterName)
	switch outcome.Result {
	case LeftWins:
		text = duelLine(r.Tactic, name, monsterName) + "\n" + narrativeWin
	case RightWins:
		text = duelLine(r.MonsterTactic, monsterName, name) + "\n" + narrativeLose
	case TieWounded:
		text = narrativeTieWounded
	case TieClean:
		text = narrativeTieClean
	default: // petrified
		text = fmt.Sprintf("%s was petrified by the fear and couldn't avoid %s's attack.\n%s",
			name, monsterName, narrativeLose)
	}

	var stats strings.Builder
	if r.Exp != 0 {
		fmt.Fprintf(&stats, "Exp: %+d\n", r.Exp)
	}
	if r.Gold != 0 {
		fmt.Fprintf(&stats, "Gold: %+d\n", r.Gold)
	}
	if r.HP != 0 {
		fmt.Fprintf(&stats, "HP: %+d\n", r.HP)
	}

	return fmt.Sprintf("%s, level %d\nYour result on the battlefield:\n\n"+
		"The goblins started to attack the castle, one of them is quickly running towards %s.\n\n"+
		"%s\n\n%s", name, p.Level, name, text, stats.String())
}
