package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cory-johannsen/deltaland/internal/game/combat"
	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// ChooseTactic banks the player's combat plan for the next raid, replacing
// any earlier choice. Choosing is allowed right up to the raid itself, so
// the imminent-raid margin is ignored; every other busy state still
// refuses.
func (e *Engine) ChooseTactic(ctx context.Context, playerID int64, tactic combat.Tactic) error {
	if !tactic.Valid() {
		return fmt.Errorf("engine: cannot bank tactic %q", tactic)
	}
	now := e.clock.Now().Unix()
	return e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.Player(ctx, playerID)
		if err != nil {
			return err
		}
		p.LastSeen = now

		if err := p.RequireResting(0, true); err != nil {
			if rej, ok := player.AsRejection(err); ok {
				return e.refuse(ctx, tx, p, rej)
			}
			return err
		}
		if err := tx.SaveTactic(ctx, playerID, tactic); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}

		raidLeft, err := e.raidRemaining(ctx, tx, now)
		if err != nil {
			return err
		}
		e.notifier.Notify(ctx, playerID, fmt.Sprintf(
			"So you will use %s in the next battle, that sounds like a good plan."+
				" You joined the defensive formations. The next battle is in %s.",
			strings.ToUpper(tactic.String()), humanDuration(raidLeft)), "")
		return nil
	})
}

// BattleReport sends the player their result from the most recent raid, or
// tells them they sat it out.
func (e *Engine) BattleReport(ctx context.Context, playerID int64) error {
	now := e.clock.Now().Unix()
	return e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.Player(ctx, playerID)
		if err != nil {
			return err
		}
		p.LastSeen = now
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}

		report, err := tx.Report(ctx, playerID)
		if err == ErrReportNotFound {
			e.notifier.Notify(ctx, playerID, "You didn't participate in the last battle.", "")
			return nil
		}
		if err != nil {
			return err
		}
		e.notifier.Notify(ctx, playerID, report.Narrative(p), "goblin")
		return nil
	})
}
