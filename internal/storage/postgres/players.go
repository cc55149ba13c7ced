package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/deltaland/internal/game/engine"
	"github.com/cory-johannsen/deltaland/internal/game/player"
)

const playerColumns = `id, name, level, exp, attack, defense,
	hp, max_hp, mana, max_mana, stamina, max_stamina,
	gold, inv_size, state, thief_id, birthday, last_seen`

func scanPlayer(row pgx.Row) (*player.Player, error) {
	var p player.Player
	err := row.Scan(
		&p.ID, &p.Name, &p.Level, &p.Exp, &p.Attack, &p.Defense,
		&p.HP, &p.MaxHP, &p.Mana, &p.MaxMana, &p.Stamina, &p.MaxStamina,
		&p.Gold, &p.InvSize, &p.State, &p.ThiefID, &p.Birthday, &p.LastSeen,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *storeTx) loadCooldowns(ctx context.Context, p *player.Player) error {
	rows, err := t.tx.Query(ctx,
		`SELECT kind, ends_at FROM cooldowns WHERE player_id = $1 ORDER BY kind`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("querying cooldowns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c player.Cooldown
		if err := rows.Scan(&c.Kind, &c.EndsAt); err != nil {
			return fmt.Errorf("scanning cooldown: %w", err)
		}
		p.Cooldowns = append(p.Cooldowns, c)
	}
	return rows.Err()
}

// Player loads the aggregate with its cooldown ledger.
func (t *storeTx) Player(ctx context.Context, id int64) (*player.Player, error) {
	p, err := scanPlayer(t.tx.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, engine.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("querying player: %w", err)
	}
	if err := t.loadCooldowns(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SavePlayer upserts the aggregate. The cooldown ledger is replaced
// wholesale; it is small and bounded by the number of cooldown kinds.
func (t *storeTx) SavePlayer(ctx context.Context, p *player.Player) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO players
			(`+playerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, level = EXCLUDED.level, exp = EXCLUDED.exp,
			attack = EXCLUDED.attack, defense = EXCLUDED.defense,
			hp = EXCLUDED.hp, max_hp = EXCLUDED.max_hp,
			mana = EXCLUDED.mana, max_mana = EXCLUDED.max_mana,
			stamina = EXCLUDED.stamina, max_stamina = EXCLUDED.max_stamina,
			gold = EXCLUDED.gold, inv_size = EXCLUDED.inv_size,
			state = EXCLUDED.state, thief_id = EXCLUDED.thief_id,
			birthday = EXCLUDED.birthday, last_seen = EXCLUDED.last_seen`,
		p.ID, p.Name, p.Level, p.Exp, p.Attack, p.Defense,
		p.HP, p.MaxHP, p.Mana, p.MaxMana, p.Stamina, p.MaxStamina,
		p.Gold, p.InvSize, p.State, p.ThiefID, p.Birthday, p.LastSeen,
	)
	if err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}

	if _, err := t.tx.Exec(ctx,
		`DELETE FROM cooldowns WHERE player_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clearing cooldowns: %w", err)
	}
	for _, c := range p.Cooldowns {
		if _, err := t.tx.Exec(ctx,
			`INSERT INTO cooldowns (player_id, kind, ends_at) VALUES ($1, $2, $3)`,
			p.ID, c.Kind, c.EndsAt); err != nil {
			return fmt.Errorf("inserting cooldown: %w", err)
		}
	}
	return nil
}

// CooldownHolder returns the player holding a cooldown of the given kind,
// or nil when nobody does.
func (t *storeTx) CooldownHolder(ctx context.Context, kind player.State) (*player.Player, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		SELECT player_id FROM cooldowns
		WHERE kind = $1 AND player_id <> $2
		LIMIT 1`,
		kind, player.WorldID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cooldown holder: %w", err)
	}
	return t.Player(ctx, id)
}

// Expired returns every cooldown row past its deadline, oldest first. World
// rows are included; the engine dispatches on the owner.
func (t *storeTx) Expired(ctx context.Context, now int64) ([]engine.ExpiredCooldown, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT player_id, kind, ends_at FROM cooldowns
		WHERE ends_at <= $1
		ORDER BY ends_at, player_id`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("querying expired cooldowns: %w", err)
	}
	defer rows.Close()

	var out []engine.ExpiredCooldown
	for rows.Next() {
		var c engine.ExpiredCooldown
		if err := rows.Scan(&c.PlayerID, &c.Kind, &c.EndsAt); err != nil {
			return nil, fmt.Errorf("scanning expired cooldown: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RandomRestingPlayer picks a uniformly random player at rest, excluding
// the given ID, or nil when there is none.
func (t *storeTx) RandomRestingPlayer(ctx context.Context, excludeID int64) (*player.Player, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		SELECT id FROM players
		WHERE state = $1 AND id <> $2 AND id <> $3
		ORDER BY random()
		LIMIT 1`,
		player.StateRest, excludeID, player.WorldID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying resting player: %w", err)
	}
	return t.Player(ctx, id)
}

// UsedInventorySlots counts the bag items of the given player.
func (t *storeTx) UsedInventorySlots(ctx context.Context, playerID int64) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx,
		`SELECT count(*) FROM items WHERE player_id = $1`, playerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// WorldCooldown reads one world schedule record. World records live in the
// cooldowns table under the reserved world player.
func (t *storeTx) WorldCooldown(ctx context.Context, kind player.State) (player.Cooldown, error) {
	c := player.Cooldown{Kind: kind}
	err := t.tx.QueryRow(ctx,
		`SELECT ends_at FROM cooldowns WHERE player_id = $1 AND kind = $2`,
		player.WorldID, kind,
	).Scan(&c.EndsAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return player.Cooldown{}, engine.ErrCooldownNotFound
	}
	if err != nil {
		return player.Cooldown{}, fmt.Errorf("querying world cooldown: %w", err)
	}
	return c, nil
}

// SaveWorldCooldown upserts one world schedule record.
func (t *storeTx) SaveWorldCooldown(ctx context.Context, c player.Cooldown) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO cooldowns (player_id, kind, ends_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, kind) DO UPDATE SET ends_at = EXCLUDED.ends_at`,
		player.WorldID, c.Kind, c.EndsAt,
	)
	if err != nil {
		return fmt.Errorf("upserting world cooldown: %w", err)
	}
	return nil
}

// DeleteWorldCooldown removes one world schedule record. Deleting a missing
// record is a no-op.
func (t *storeTx) DeleteWorldCooldown(ctx context.Context, kind player.State) error {
	_, err := t.tx.Exec(ctx,
		`DELETE FROM cooldowns WHERE player_id = $1 AND kind = $2`,
		player.WorldID, kind,
	)
	if err != nil {
		return fmt.Errorf("deleting world cooldown: %w", err)
	}
	return nil
}
