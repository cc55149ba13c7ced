package postgres

import (
	"context"
	"fmt"
)

// AddDiceRank moves the player's seasonal dice winnings counter by the
// given amount, which may be negative.
func (t *storeTx) AddDiceRank(ctx context.Context, playerID int64, gold int) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO dice_ranks (player_id, gold)
		VALUES ($1, $2)
		ON CONFLICT (player_id) DO UPDATE SET gold = dice_ranks.gold + EXCLUDED.gold`,
		playerID, gold,
	)
	if err != nil {
		return fmt.Errorf("updating dice rank: %w", err)
	}
	return nil
}

// AddBattleVictory increments the player's seasonal raid victory counter.
func (t *storeTx) AddBattleVictory(ctx context.Context, playerID int64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO battle_ranks (player_id, victories)
		VALUES ($1, 1)
		ON CONFLICT (player_id) DO UPDATE SET victories = battle_ranks.victories + 1`,
		playerID,
	)
	if err != nil {
		return fmt.Errorf("updating battle rank: %w", err)
	}
	return nil
}

// AddSentinelStop increments the player's stopped-thieves counter. Unlike
// the seasonal ranks this one is never reset.
func (t *storeTx) AddSentinelStop(ctx context.Context, playerID int64) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO sentinel_ranks (player_id, stopped)
		VALUES ($1, 1)
		ON CONFLICT (player_id) DO UPDATE SET stopped = sentinel_ranks.stopped + 1`,
		playerID,
	)
	if err != nil {
		return fmt.Errorf("updating sentinel rank: %w", err)
	}
	return nil
}

// ResetSeasonRanks wipes the dice and battle leaderboards for the new
// season.
func (t *storeTx) ResetSeasonRanks(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM dice_ranks`); err != nil {
		return fmt.Errorf("clearing dice ranks: %w", err)
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM battle_ranks`); err != nil {
		return fmt.Errorf("clearing battle ranks: %w", err)
	}
	return nil
}
