package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deltaland/internal/game/dice"
	"github.com/cory-johannsen/deltaland/internal/game/quest"
)

// Interfere lets a sentinel stop the thief they noticed. The window closes
// the moment the watch expires or another path dissolves the pair; a late
// call is refused, never an error. On success the sentinel earns a small
// reward, the thief drops part of their purse and takes a beating.
func (e *Engine) Interfere(ctx context.Context, playerID int64) error {
	now := e.clock.Now().Unix()
	return e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.Player(ctx, playerID)
		if err != nil {
			return err
		}
		p.LastSeen = now

		if p.ThiefID == 0 {
			if err := tx.SavePlayer(ctx, p); err != nil {
				return err
			}
			e.notifier.Notify(ctx, playerID, "Too late. Action is not available", "")
			return nil
		}

		thief, err := tx.Player(ctx, p.ThiefID)
		if err != nil {
			return err
		}
		p.StopNoticing(thief)
		if err := tx.AddSentinelStop(ctx, p.ID); err != nil {
			return err
		}

		reward := dice.RollBetween(e.src, 1, 2)
		p.Gold += reward
		exp := dice.RollBetween(e.src, 1, 3)
		if p.GrantExperience(exp, e.opts.Balance) {
			e.notifyLevelUp(ctx, p)
		}
		e.notifier.Notify(ctx, p.ID, fmt.Sprintf(
			"You called the town's guards and charged at the thief."+
				" %s fled but not before receiving one of your blows."+
				" The townsmen gave you some gold coins as reward.\n\n%s",
			thief.DisplayName(), statLines(reward, exp, 0)), "")

		dropped := quest.InterfereLoot(e.src, thief.Level)
		if dropped > thief.Gold {
			dropped = thief.Gold
		}
		thief.Gold -= dropped
		lost := thief.ApplyDamage(dice.RollBetween(e.src, 50, 80), now, e.opts.Balance)
		text := fmt.Sprintf(
			"%s noticed you and called the town's guards."+
				" You tried to flee but received some hits before managing to escape.",
			p.DisplayName())
		if dropped > 0 {
			text += " While running you accidentally lost some gold coins."
		}
		e.notifier.Notify(ctx, thief.ID, text+"\n\n"+statLines(-dropped, 0, -lost), "")

		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, thief); err != nil {
			return err
		}
		e.log.Info("thief stopped",
			zap.Int64("sentinel", p.ID),
			zap.Int64("thief", thief.ID),
			zap.Int("gold_dropped", dropped),
		)
		return nil
	})
}
