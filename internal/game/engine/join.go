package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// Join creates the player aggregate on first contact. Identity is permanent:
// joining twice is refused, never re-creates.
func (e *Engine) Join(ctx context.Context, playerID int64, name string) error {
	now := e.clock.Now().Unix()
	return e.store.InTx(ctx, func(tx Tx) error {
		existing, err := tx.Player(ctx, playerID)
		if err == nil {
			existing.LastSeen = now
			if err := tx.SavePlayer(ctx, existing); err != nil {
				return err
			}
			e.notifier.Notify(ctx, playerID, "You already joined the game.", "")
			return nil
		}
		if err != ErrPlayerNotFound {
			return err
		}

		p := player.New(playerID, name, now)
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		e.log.Info("player joined",
			zap.Int64("player_id", playerID),
		)
		e.notifier.Notify(ctx, playerID,
			"Welcome to Deltaland. Explore the town, play dice in the tavern, and defend the castle from goblin raids.", "castle")
		return nil
	})
}
