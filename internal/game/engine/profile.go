package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// Profile sends the player their status sheet: level, pools, gold, bag
// usage, banked tactic, the time until the next raid, and what they are
// currently doing. Read-only apart from last-seen bookkeeping.
func (e *Engine) Profile(ctx context.Context, playerID int64) error {
	now := e.clock.Now().Unix()
	return e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.Player(ctx, playerID)
		if err != nil {
			return err
		}
		p.LastSeen = now

		raidLeft, err := e.raidRemaining(ctx, tx, now)
		if err != nil {
			return err
		}
		bag, err := tx.UsedInventorySlots(ctx, p.ID)
		if err != nil {
			return err
		}
		tactics, err := tx.Tactics(ctx)
		if err != nil {
			return err
		}
		_, defending := tactics[p.ID]

		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		e.notifier.Notify(ctx, p.ID, e.profileText(p, raidLeft, bag, defending, now), "")
		return nil
	})
}

func (e *Engine) profileText(p *player.Player, raidLeft time.Duration, bag int, defending bool, now int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goblin attack in %s!\n\n", humanDuration(raidLeft))
	fmt.Fprintf(&b, "%s, level %d\n", p.DisplayName(), p.Level)
	fmt.Fprintf(&b, "Attack: %d  Defense: %d\n", p.Attack, p.Defense)
	if p.Level < e.opts.Balance.MaxLevel {
		fmt.Fprintf(&b, "Exp: %d/%d\n", p.Exp, e.opts.Balance.RequiredExp(p.Level+1))
	}
	fmt.Fprintf(&b, "HP: %d/%d\n", p.HP, p.MaxHP)
	fmt.Fprintf(&b, "Stamina: %d/%d", p.Stamina, p.MaxStamina)
	if left, err := p.CooldownRemaining(player.StateRest, now); err == nil {
		fmt.Fprintf(&b, " (next in %s)", humanDuration(left))
	}
	fmt.Fprintf(&b, "\nGold: %d\n", p.Gold)
	fmt.Fprintf(&b, "Bag: %d/%d\n\n", bag, p.InvSize)
	b.WriteString(e.stateLine(p, defending, now))
	return b.String()
}

// stateLine renders what the player is currently doing.
func (e *Engine) stateLine(p *player.Player, defending bool, now int64) string {
	switch p.State {
	case player.StateRest:
		if defending {
			return "Defending the castle"
		}
		return "Resting"
	case player.StatePlayingDice:
		return "Rolling the dice"
	case player.StateNoticedThief:
		return "Watching a thief at work"
	case player.StateNoticedSentinel:
		return "Hiding from a watching warrior"
	}
	q := e.quests.Get(p.State)
	if q == nil {
		return fmt.Sprintf("Unknown (%d)", p.State)
	}
	left, err := p.CooldownRemaining(p.State, now)
	if err != nil {
		return q.Description
	}
	return fmt.Sprintf("%s. Back in %s", q.Description, humanDuration(left))
}
