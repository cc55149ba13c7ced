package engine

import (
	"context"
	"errors"

	"github.com/cory-johannsen/deltaland/internal/game/combat"
	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// ErrPlayerNotFound is returned by Tx.Player for an unknown ID.
var ErrPlayerNotFound = errors.New("engine: player not found")

// ErrCooldownNotFound is returned by Tx.WorldCooldown when the world record
// of the requested kind does not exist.
var ErrCooldownNotFound = errors.New("engine: cooldown not found")

// ErrReportNotFound is returned by Tx.Report when the player has no raid
// report on file.
var ErrReportNotFound = errors.New("engine: battle report not found")

// ExpiredCooldown is one ledger row past its deadline, returned by the
// expiry query ordered by deadline.
type ExpiredCooldown struct {
	PlayerID int64
	Kind     player.State
	EndsAt   int64
}

// Tx is the set of store operations available inside one transaction. Every
// engine operation runs against exactly one Tx; a returned error rolls the
// whole transaction back, nil commits it.
type Tx interface {
	// Player loads the aggregate with its cooldown ledger.
	Player(ctx context.Context, id int64) (*player.Player, error)
	// SavePlayer persists the aggregate and its cooldown ledger.
	SavePlayer(ctx context.Context, p *player.Player) error
	// CooldownHolder returns the player holding a cooldown of the given
	// kind, or nil when nobody does. By game design at most one player
	// holds a matchmaking kind at a time.
	CooldownHolder(ctx context.Context, kind player.State) (*player.Player, error)
	// Expired returns every cooldown row past its deadline, oldest first.
	Expired(ctx context.Context, now int64) ([]ExpiredCooldown, error)
	// RandomRestingPlayer picks a uniformly random player at rest,
	// excluding the given ID, or nil when there is none.
	RandomRestingPlayer(ctx context.Context, excludeID int64) (*player.Player, error)
	// UsedInventorySlots counts the bag items of the given player.
	UsedInventorySlots(ctx context.Context, playerID int64) (int, error)

	// WorldCooldown reads one world schedule record.
	WorldCooldown(ctx context.Context, kind player.State) (player.Cooldown, error)
	// SaveWorldCooldown upserts one world schedule record.
	SaveWorldCooldown(ctx context.Context, c player.Cooldown) error
	// DeleteWorldCooldown removes one world schedule record; removing a
	// missing record is a no-op.
	DeleteWorldCooldown(ctx context.Context, kind player.State) error

	// SaveTactic banks the player's tactic for the next raid, replacing
	// any earlier choice.
	SaveTactic(ctx context.Context, playerID int64, t combat.Tactic) error
	// Tactics returns every banked tactic.
	Tactics(ctx context.Context) (map[int64]combat.Tactic, error)
	// ClearTactics drops all banked tactics.
	ClearTactics(ctx context.Context) error

	// SaveReport overwrites the player's most-recent raid report.
	SaveReport(ctx context.Context, r combat.Report) error
	// Report reads the player's most-recent raid report.
	Report(ctx context.Context, playerID int64) (combat.Report, error)
	// ClearReports drops every raid report.
	ClearReports(ctx context.Context) error

	// AddDiceRank moves the player's lifetime dice winnings counter.
	AddDiceRank(ctx context.Context, playerID int64, gold int) error
	// AddBattleVictory increments the player's raid victory counter.
	AddBattleVictory(ctx context.Context, playerID int64) error
	// AddSentinelStop increments the player's stopped-thieves counter.
	AddSentinelStop(ctx context.Context, playerID int64) error
	// ResetSeasonRanks wipes the dice and battle leaderboards.
	ResetSeasonRanks(ctx context.Context) error
}

// Store runs a function inside one exclusive transaction: acquire the
// single-writer lock, read, mutate, commit on nil or roll back on error.
// Serializing writers is what makes matchmaking's claim-the-waiter step and
// the notice pair transitions atomic.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
