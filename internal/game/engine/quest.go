package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// StartQuest sends the player off on the catalog quest with the given ID.
// The quest runs entirely off-screen: the player's state becomes the quest
// ID, a cooldown of the quest's duration is started, and the expiry sweep
// resolves the outcome.
func (e *Engine) StartQuest(ctx context.Context, playerID int64, questID player.State) error {
	q := e.quests.Get(questID)
	if q == nil {
		return fmt.Errorf("engine: no quest with id %d", questID)
	}
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
		if err := firstGateError(
			p.RequireLevel(q.RequiredLevel),
			p.RequireResting(raidLeft, false),
			p.RequireHealthy(),
			p.RequireStamina(q.StaminaCost),
		); err != nil {
			if rej, ok := player.AsRejection(err); ok {
				return e.refuse(ctx, tx, p, rej)
			}
			return err
		}

		p.State = q.ID
		if err := p.StartCooldown(q.ID, now+int64(q.Duration.Seconds())); err != nil {
			return err
		}
		p.SpendStamina(q.StaminaCost, now, e.opts.Balance)
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}

		e.log.Info("quest started",
			zap.Int64("player_id", playerID),
			zap.String("quest", q.Command),
		)
		e.notifier.Notify(ctx, playerID, fmt.Sprintf(
			"%s. You will be back in %s", q.PartingMsg, humanDuration(q.Duration)), "")
		return nil
	})
}
