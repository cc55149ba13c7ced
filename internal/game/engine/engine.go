// Package engine implements the game's command operations: every mutation
// of player or world state happens here, inside exactly one store
// transaction per command. The engine owns no state of its own beyond its
// collaborators; it is safe for concurrent use because the store serializes
// all writers.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deltaland/internal/game/dice"
	"github.com/cory-johannsen/deltaland/internal/game/player"
	"github.com/cory-johannsen/deltaland/internal/game/quest"
	"github.com/cory-johannsen/deltaland/internal/game/world"
)

// Notifier delivers text to a player, optionally referencing a named image
// asset. Fire and forget: delivery failure is the implementation's concern,
// never the engine's.
type Notifier interface {
	Notify(ctx context.Context, playerID int64, text, image string)
}

// Clock supplies the wall-clock time used for all deadline arithmetic.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Options holds the engine's tunable game constants. Zero values fall back
// to the stock balance.
type Options struct {
	// DiceFee is the tavern dice entry fee, deducted up front.
	DiceFee int
	// DiceMaxWait is how long a solo dice player waits for an opponent.
	DiceMaxWait time.Duration
	// NoticeWatch is how long a sentinel watches a noticed thief.
	NoticeWatch time.Duration
	// Balance holds the progression constants.
	Balance player.Balance
}

func (o Options) withDefaults() Options {
	if o.DiceFee == 0 {
		o.DiceFee = 10
	}
	if o.DiceMaxWait == 0 {
		o.DiceMaxWait = 5 * time.Minute
	}
	if o.NoticeWatch == 0 {
		o.NoticeWatch = 3 * time.Minute
	}
	if o.Balance.RequiredExp == nil {
		o.Balance = player.DefaultBalance()
	}
	return o
}

// Engine executes game commands against the store.
type Engine struct {
	store    Store
	notifier Notifier
	clock    Clock
	src      dice.Source
	quests   *quest.Catalog
	opts     Options
	log      *zap.Logger
}

// New wires an engine from its collaborators.
//
// Precondition: store, notifier, clock, src, quests, and log must be non-nil.
func New(store Store, notifier Notifier, clock Clock, src dice.Source, quests *quest.Catalog, opts Options, log *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		clock:    clock,
		src:      src,
		quests:   quests,
		opts:     opts.withDefaults(),
		log:      log,
	}
}

// EnsureWorld creates the reserved world player and its schedule records if
// missing. Idempotent; called once at boot.
func (e *Engine) EnsureWorld(ctx context.Context) error {
	now := e.clock.Now()
	return e.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.Player(ctx, player.WorldID); err == ErrPlayerNotFound {
			w := player.New(player.WorldID, "", now.Unix())
			w.LastSeen = 0
			if err := tx.SavePlayer(ctx, w); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		records := map[player.State]time.Time{
			player.StateWorldRaid:  world.FirstRaidTime(now),
			player.StateWorldDay:   world.NextDayTime(now),
			player.StateWorldMonth: world.NextMonthTime(now),
			player.StateWorldYear:  world.NextYearTime(now),
		}
		for kind, deadline := range records {
			_, err := tx.WorldCooldown(ctx, kind)
			if err == ErrCooldownNotFound {
				c := player.Cooldown{Kind: kind, EndsAt: deadline.Unix()}
				if err := tx.SaveWorldCooldown(ctx, c); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// raidRemaining reads the time left on the world raid record, the shared
// input of every resting gate.
func (e *Engine) raidRemaining(ctx context.Context, tx Tx, now int64) (time.Duration, error) {
	c, err := tx.WorldCooldown(ctx, player.StateWorldRaid)
	if err != nil {
		return 0, fmt.Errorf("reading world raid record: %w", err)
	}
	return time.Duration(c.EndsAt-now) * time.Second, nil
}

// refuse handles a gate rejection: the player is told why, the aggregate is
// saved (last-seen bookkeeping only), and the command completes without
// fault so the transaction commits with no game-state mutation.
func (e *Engine) refuse(ctx context.Context, tx Tx, p *player.Player, rej *player.Rejection) error {
	if err := tx.SavePlayer(ctx, p); err != nil {
		return err
	}
	e.notifier.Notify(ctx, p.ID, rej.Reason, "")
	return nil
}

// firstGateError returns the first non-nil gate result.
func firstGateError(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) notifyLevelUp(ctx context.Context, p *player.Player) {
	text := fmt.Sprintf("Congratulations! You reached level %d!", p.Level)
	e.notifier.Notify(ctx, p.ID, text, "level-up")
}

// statLines renders the non-zero deltas of an outcome, one per line, in the
// fixed gold/exp/hp order the game always uses.
func statLines(gold, exp, hp int) string {
	var b strings.Builder
	if gold != 0 {
		fmt.Fprintf(&b, "Gold: %+d\n", gold)
	}
	if exp != 0 {
		fmt.Fprintf(&b, "Exp: %+d\n", exp)
	}
	if hp != 0 {
		fmt.Fprintf(&b, "HP: %+d\n", hp)
	}
	return b.String()
}

// humanDuration renders a duration the way players read it: largest units
// first, truncated at minutes ("7hours, 30min"). Anything under a minute is
// "a few seconds".
func humanDuration(d time.Duration) string {
	seconds := int64(d.Seconds())
	if seconds < 60 {
		return "a few seconds"
	}
	units := []struct {
		name string
		span int64
	}{
		{"week", 7 * 24 * 3600},
		{"day", 24 * 3600},
		{"hour", 3600},
		{"min", 60},
	}
	var parts []string
	for _, u := range units {
		amount := seconds / u.span
		seconds %= u.span
		if amount == 0 {
			continue
		}
		name := u.name
		if amount > 1 && u.name != "min" {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d%s", amount, name))
	}
	return strings.Join(parts, ", ")
}
