package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/deltaland/internal/game/combat"
	"github.com/cory-johannsen/deltaland/internal/game/engine"
	"github.com/cory-johannsen/deltaland/internal/game/player"
	"github.com/cory-johannsen/deltaland/internal/storage/postgres"
	"github.com/cory-johannsen/deltaland/internal/testutil"
)

func setupStore(t *testing.T) (*postgres.Store, *testutil.PostgresContainer) {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewStore(pc.Pool), pc
}

func savePlayer(t *testing.T, store *postgres.Store, p *player.Player) {
	t.Helper()
	err := store.InTx(context.Background(), func(tx engine.Tx) error {
		return tx.SavePlayer(context.Background(), p)
	})
	require.NoError(t, err)
}

func loadPlayer(t *testing.T, store *postgres.Store, id int64) *player.Player {
	t.Helper()
	var p *player.Player
	err := store.InTx(context.Background(), func(tx engine.Tx) error {
		var err error
		p, err = tx.Player(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	return p
}

func TestStore_PlayerRoundTrip(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	p := player.New(42, "Ana", 1700000000)
	p.Gold = 17
	p.Exp = 30
	p.Level = 2
	p.HP = 25
	p.State = player.StateNoticedThief
	p.ThiefID = 77
	p.Cooldowns = []player.Cooldown{
		{Kind: player.StateHealing, EndsAt: 1700000030},
		{Kind: player.StateRest, EndsAt: 1700003600},
	}
	savePlayer(t, store, p)

	got := loadPlayer(t, store, 42)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 30, got.Exp)
	assert.Equal(t, 17, got.Gold)
	assert.Equal(t, 25, got.HP)
	assert.Equal(t, player.StateNoticedThief, got.State)
	assert.Equal(t, int64(77), got.ThiefID)
	assert.Equal(t, int64(1700000000), got.Birthday)
	require.Len(t, got.Cooldowns, 2)
	assert.Equal(t, player.StateHealing, got.Cooldowns[0].Kind)
	assert.Equal(t, int64(1700000030), got.Cooldowns[0].EndsAt)

	err := store.InTx(ctx, func(tx engine.Tx) error {
		_, err := tx.Player(ctx, 999)
		return err
	})
	assert.ErrorIs(t, err, engine.ErrPlayerNotFound)
}

func TestStore_SavePlayerReplacesCooldowns(t *testing.T) {
	store, _ := setupStore(t)

	p := player.New(1, "Bo", 1700000000)
	require.NoError(t, p.StartCooldown(player.StateRest, 1700003600))
	require.NoError(t, p.StartCooldown(player.StateHealing, 1700000030))
	savePlayer(t, store, p)

	p.ClearCooldown(player.StateHealing)
	savePlayer(t, store, p)

	got := loadPlayer(t, store, 1)
	require.Len(t, got.Cooldowns, 1)
	assert.Equal(t, player.StateRest, got.Cooldowns[0].Kind)
}

func TestStore_CooldownHolder(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	waiter := player.New(7, "Cay", 1700000000)
	waiter.State = player.StatePlayingDice
	require.NoError(t, waiter.StartCooldown(player.StatePlayingDice, 1700000300))
	savePlayer(t, store, waiter)

	// A world record of a different kind must not satisfy the lookup.
	err := store.InTx(ctx, func(tx engine.Tx) error {
		return tx.SaveWorldCooldown(ctx, player.Cooldown{
			Kind: player.StateWorldRaid, EndsAt: 1700028800,
		})
	})
	require.NoError(t, err)

	err = store.InTx(ctx, func(tx engine.Tx) error {
		holder, err := tx.CooldownHolder(ctx, player.StatePlayingDice)
		require.NoError(t, err)
		require.NotNil(t, holder)
		assert.Equal(t, int64(7), holder.ID)
		require.Len(t, holder.Cooldowns, 1)

		none, err := tx.CooldownHolder(ctx, player.StateNoticedThief)
		require.NoError(t, err)
		assert.Nil(t, none)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ExpiredOrderedByDeadline(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	a := player.New(1, "A", 1700000000)
	require.NoError(t, a.StartCooldown(player.StateRest, 1700000200))
	savePlayer(t, store, a)

	b := player.New(2, "B", 1700000000)
	require.NoError(t, b.StartCooldown(player.StateHealing, 1700000100))
	savePlayer(t, store, b)

	err := store.InTx(ctx, func(tx engine.Tx) error {
		if err := tx.SaveWorldCooldown(ctx, player.Cooldown{
			Kind: player.StateWorldDay, EndsAt: 1700000150,
		}); err != nil {
			return err
		}
		// Unexpired rows stay out of the result.
		return tx.SaveWorldCooldown(ctx, player.Cooldown{
			Kind: player.StateWorldRaid, EndsAt: 1700099999,
		})
	})
	require.NoError(t, err)

	err = store.InTx(ctx, func(tx engine.Tx) error {
		rows, err := tx.Expired(ctx, 1700000300)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, int64(2), rows[0].PlayerID)
		assert.Equal(t, player.WorldID, rows[1].PlayerID)
		assert.Equal(t, player.StateWorldDay, rows[1].Kind)
		assert.Equal(t, int64(1), rows[2].PlayerID)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_WorldCooldownUpsert(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	err := store.InTx(ctx, func(tx engine.Tx) error {
		_, err := tx.WorldCooldown(ctx, player.StateWorldRaid)
		assert.ErrorIs(t, err, engine.ErrCooldownNotFound)

		c := player.Cooldown{Kind: player.StateWorldRaid, EndsAt: 1700028800}
		require.NoError(t, tx.SaveWorldCooldown(ctx, c))

		c.EndsAt = 1700057600
		require.NoError(t, tx.SaveWorldCooldown(ctx, c))

		got, err := tx.WorldCooldown(ctx, player.StateWorldRaid)
		require.NoError(t, err)
		assert.Equal(t, int64(1700057600), got.EndsAt)

		require.NoError(t, tx.DeleteWorldCooldown(ctx, player.StateWorldRaid))
		_, err = tx.WorldCooldown(ctx, player.StateWorldRaid)
		assert.ErrorIs(t, err, engine.ErrCooldownNotFound)

		// Deleting a missing record is a no-op.
		require.NoError(t, tx.DeleteWorldCooldown(ctx, player.StateWorldRaid))
		return nil
	})
	require.NoError(t, err)
}

func TestStore_TacticUpsertAndClear(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	err := store.InTx(ctx, func(tx engine.Tx) error {
		require.NoError(t, tx.SaveTactic(ctx, 1, combat.TacticHit))
		require.NoError(t, tx.SaveTactic(ctx, 2, combat.TacticParry))
		require.NoError(t, tx.SaveTactic(ctx, 1, combat.TacticFeint))

		got, err := tx.Tactics(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[int64]combat.Tactic{
			1: combat.TacticFeint,
			2: combat.TacticParry,
		}, got)

		require.NoError(t, tx.ClearTactics(ctx))
		got, err = tx.Tactics(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ReportUpsert(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	err := store.InTx(ctx, func(tx engine.Tx) error {
		_, err := tx.Report(ctx, 5)
		assert.ErrorIs(t, err, engine.ErrReportNotFound)

		first := combat.Report{
			ID: uuid.New().String(), PlayerID: 5,
			Tactic: combat.TacticHit, MonsterTactic: combat.TacticFeint,
			Exp: 3, Gold: 2, Victory: true,
		}
		require.NoError(t, tx.SaveReport(ctx, first))

		second := combat.Report{
			ID: uuid.New().String(), PlayerID: 5,
			Tactic: combat.TacticParry, MonsterTactic: combat.TacticHit,
			Exp: 1, HP: -13,
		}
		require.NoError(t, tx.SaveReport(ctx, second))

		got, err := tx.Report(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, second, got)

		require.NoError(t, tx.ClearReports(ctx))
		_, err = tx.Report(ctx, 5)
		assert.ErrorIs(t, err, engine.ErrReportNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RanksAccumulateAndReset(t *testing.T) {
	store, pc := setupStore(t)
	ctx := context.Background()

	err := store.InTx(ctx, func(tx engine.Tx) error {
		require.NoError(t, tx.AddDiceRank(ctx, 1, 10))
		require.NoError(t, tx.AddDiceRank(ctx, 1, -4))
		require.NoError(t, tx.AddBattleVictory(ctx, 1))
		require.NoError(t, tx.AddBattleVictory(ctx, 1))
		require.NoError(t, tx.AddSentinelStop(ctx, 1))
		return nil
	})
	require.NoError(t, err)

	var gold, victories int
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT gold FROM dice_ranks WHERE player_id = 1`).Scan(&gold))
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT victories FROM battle_ranks WHERE player_id = 1`).Scan(&victories))
	assert.Equal(t, 6, gold)
	assert.Equal(t, 2, victories)

	err = store.InTx(ctx, func(tx engine.Tx) error {
		return tx.ResetSeasonRanks(ctx)
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT count(*) FROM dice_ranks`).Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT count(*) FROM battle_ranks`).Scan(&count))
	assert.Zero(t, count)

	// Sentinel stops are lifetime counters and survive the season reset.
	var stopped int
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT stopped FROM sentinel_ranks WHERE player_id = 1`).Scan(&stopped))
	assert.Equal(t, 1, stopped)
}

func TestStore_RandomRestingPlayerExcludes(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	resting := player.New(1, "A", 1700000000)
	savePlayer(t, store, resting)

	busy := player.New(2, "B", 1700000000)
	busy.State = player.StatePlayingDice
	savePlayer(t, store, busy)

	err := store.InTx(ctx, func(tx engine.Tx) error {
		// The only resting player is the excluded one.
		got, err := tx.RandomRestingPlayer(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = tx.RandomRestingPlayer(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(1), got.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_UsedInventorySlots(t *testing.T) {
	store, pc := setupStore(t)
	ctx := context.Background()

	_, err := pc.RawPool.Exec(ctx, `
		INSERT INTO items (player_id, name, attack, defense) VALUES
			(1, 'rusty sword', 1, 0),
			(1, 'wooden shield', 0, 1),
			(2, 'dagger', 1, 0)`)
	require.NoError(t, err)

	err = store.InTx(ctx, func(tx engine.Tx) error {
		count, err := tx.UsedInventorySlots(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		count, err = tx.UsedInventorySlots(ctx, 3)
		require.NoError(t, err)
		assert.Zero(t, count)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RollbackOnError(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	errBoom := errors.New("boom")
	err := store.InTx(ctx, func(tx engine.Tx) error {
		if err := tx.SavePlayer(ctx, player.New(9, "Gone", 1700000000)); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	err = store.InTx(ctx, func(tx engine.Tx) error {
		_, err := tx.Player(ctx, 9)
		return err
	})
	assert.ErrorIs(t, err, engine.ErrPlayerNotFound)
}
