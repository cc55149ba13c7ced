package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/deltaland/internal/game/combat"
	"github.com/cory-johannsen/deltaland/internal/game/engine"
)

// SaveTactic banks the player's tactic for the next raid, replacing any
// earlier choice.
func (t *storeTx) SaveTactic(ctx context.Context, playerID int64, tactic combat.Tactic) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO battle_tactics (player_id, tactic)
		VALUES ($1, $2)
		ON CONFLICT (player_id) DO UPDATE SET tactic = EXCLUDED.tactic`,
		playerID, tactic,
	)
	if err != nil {
		return fmt.Errorf("upserting battle tactic: %w", err)
	}
	return nil
}

// Tactics returns every banked tactic keyed by player.
func (t *storeTx) Tactics(ctx context.Context) (map[int64]combat.Tactic, error) {
	rows, err := t.tx.Query(ctx, `SELECT player_id, tactic FROM battle_tactics`)
	if err != nil {
		return nil, fmt.Errorf("querying battle tactics: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]combat.Tactic)
	for rows.Next() {
		var id int64
		var tactic combat.Tactic
		if err := rows.Scan(&id, &tactic); err != nil {
			return nil, fmt.Errorf("scanning battle tactic: %w", err)
		}
		out[id] = tactic
	}
	return out, rows.Err()
}

// ClearTactics drops all banked tactics.
func (t *storeTx) ClearTactics(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM battle_tactics`); err != nil {
		return fmt.Errorf("clearing battle tactics: %w", err)
	}
	return nil
}

// SaveReport overwrites the player's most-recent raid report.
func (t *storeTx) SaveReport(ctx context.Context, r combat.Report) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO battle_reports
			(id, player_id, tactic, monster_tactic, exp, gold, hp, victory)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			id = EXCLUDED.id, tactic = EXCLUDED.tactic,
			monster_tactic = EXCLUDED.monster_tactic,
			exp = EXCLUDED.exp, gold = EXCLUDED.gold,
			hp = EXCLUDED.hp, victory = EXCLUDED.victory`,
		r.ID, r.PlayerID, r.Tactic, r.MonsterTactic, r.Exp, r.Gold, r.HP, r.Victory,
	)
	if err != nil {
		return fmt.Errorf("upserting battle report: %w", err)
	}
	return nil
}

// Report reads the player's most-recent raid report.
func (t *storeTx) Report(ctx context.Context, playerID int64) (combat.Report, error) {
	var r combat.Report
	err := t.tx.QueryRow(ctx, `
		SELECT id, player_id, tactic, monster_tactic, exp, gold, hp, victory
		FROM battle_reports WHERE player_id = $1`,
		playerID,
	).Scan(&r.ID, &r.PlayerID, &r.Tactic, &r.MonsterTactic, &r.Exp, &r.Gold, &r.HP, &r.Victory)
	if errors.Is(err, pgx.ErrNoRows) {
		return combat.Report{}, engine.ErrReportNotFound
	}
	if err != nil {
		return combat.Report{}, fmt.Errorf("querying battle report: %w", err)
	}
	return r, nil
}

// ClearReports drops every raid report.
func (t *storeTx) ClearReports(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM battle_reports`); err != nil {
		return fmt.Errorf("clearing battle reports: %w", err)
	}
	return nil
}
