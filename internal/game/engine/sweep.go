package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deltaland/internal/game/combat"
	"github.com/cory-johannsen/deltaland/internal/game/dice"
	"github.com/cory-johannsen/deltaland/internal/game/player"
	"github.com/cory-johannsen/deltaland/internal/game/quest"
	"github.com/cory-johannsen/deltaland/internal/game/world"
)

// Sweep processes every cooldown past its deadline, oldest first: stamina
// and hp regeneration ticks, abandoned dice seats, expired thief watches,
// quest completions, and the world schedule. It is the only driver of
// asynchronous state; the caller runs it on a short ticker.
//
// A failure on one row is logged and skipped so a single bad record cannot
// stall the rest of the queue.
func (e *Engine) Sweep(ctx context.Context) error {
	now := e.clock.Now()
	return e.store.InTx(ctx, func(tx Tx) error {
		rows, err := tx.Expired(ctx, now.Unix())
		if err != nil {
			return err
		}
		for _, row := range rows {
			if row.PlayerID == player.WorldID {
				err = e.sweepWorld(ctx, tx, row, now)
			} else {
				err = e.sweepPlayer(ctx, tx, row, now.Unix())
			}
			if err != nil {
				e.log.Error("expired cooldown not processed",
					zap.Int64("player_id", row.PlayerID),
					zap.Stringer("kind", row.Kind),
					zap.Error(err),
				)
			}
		}
		return nil
	})
}

// sweepWorld advances one world schedule record. Every record rearms
// itself; the schedule never stops.
func (e *Engine) sweepWorld(ctx context.Context, tx Tx, row ExpiredCooldown, now time.Time) error {
	c := player.Cooldown{Kind: row.Kind}
	switch row.Kind {
	case player.StateWorldRaid:
		if err := e.runRaid(ctx, tx, now.Unix()); err != nil {
			return err
		}
		// Anchored on the previous deadline, not on now, so drift in the
		// sweep cadence never shifts the raid hour.
		c.EndsAt = world.NextRaidTime(time.Unix(row.EndsAt, 0)).Unix()
	case player.StateWorldDay:
		c.EndsAt = world.NextDayTime(now).Unix()
	case player.StateWorldMonth:
		if err := tx.ResetSeasonRanks(ctx); err != nil {
			return err
		}
		c.EndsAt = world.NextMonthTime(now).Unix()
	case player.StateWorldYear:
		c.EndsAt = world.NextYearTime(now).Unix()
	default:
		// A record with no handler would be retried on every pass; drop
		// it so it leaves the queue.
		if err := tx.DeleteWorldCooldown(ctx, row.Kind); err != nil {
			return err
		}
		return fmt.Errorf("unknown world schedule kind %d", row.Kind)
	}
	return tx.SaveWorldCooldown(ctx, c)
}

// runRaid resolves the goblin raid: every banked tactic is played against
// its own goblin, the per-player reports replace last raid's, and the bank
// is emptied. Players learn the outcome when they ask for their report.
func (e *Engine) runRaid(ctx context.Context, tx Tx, now int64) error {
	if err := tx.ClearReports(ctx); err != nil {
		return err
	}
	tactics, err := tx.Tactics(ctx)
	if err != nil {
		return err
	}
	for id, tactic := range tactics {
		p, err := tx.Player(ctx, id)
		if err != nil {
			return err
		}
		report, leveled := combat.ResolveRaid(p, tactic, e.src, e.opts.Balance, now)
		if err := tx.SaveReport(ctx, report); err != nil {
			return err
		}
		if report.Victory {
			if err := tx.AddBattleVictory(ctx, id); err != nil {
				return err
			}
		}
		if leveled {
			e.notifyLevelUp(ctx, p)
		}
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
	}
	if err := tx.ClearTactics(ctx); err != nil {
		return err
	}
	e.log.Info("raid resolved", zap.Int("defenders", len(tactics)))
	return nil
}

func (e *Engine) sweepPlayer(ctx context.Context, tx Tx, row ExpiredCooldown, now int64) error {
	p, err := tx.Player(ctx, row.PlayerID)
	if err != nil {
		return err
	}
	b := e.opts.Balance

	switch row.Kind {
	case player.StateRest:
		if p.Stamina < p.MaxStamina {
			p.Stamina++
		}
		if p.Stamina >= p.MaxStamina {
			p.ClearCooldown(player.StateRest)
			e.notifier.Notify(ctx, p.ID,
				"Stamina restored. You are ready for more adventures!", "")
		} else {
			p.RearmCooldown(player.StateRest, row.EndsAt+int64(b.RestTick.Seconds()))
		}
		return tx.SavePlayer(ctx, p)

	case player.StateHealing:
		if p.HP < p.MaxHP {
			p.HP++
		}
		if p.HP >= p.MaxHP {
			p.ClearCooldown(player.StateHealing)
		} else {
			p.RearmCooldown(player.StateHealing, row.EndsAt+int64(b.HealTick.Seconds()))
		}
		return tx.SavePlayer(ctx, p)

	case player.StateNoticedThief:
		return e.resolveExpiredWatch(ctx, tx, p)

	case player.StatePlayingDice:
		p.ClearCooldown(player.StatePlayingDice)
		p.State = player.StateRest
		p.Gold += e.opts.DiceFee
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		e.notifier.Notify(ctx, p.ID, "No one sat down next to you =/", "")
		return nil
	}

	q := e.quests.Get(row.Kind)
	if q == nil {
		// Orphaned row, maybe from a removed quest. Dropping it is the
		// only way to keep it out of the next sweep.
		p.ClearCooldown(row.Kind)
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		return fmt.Errorf("no quest with id %d", row.Kind)
	}
	p.ClearCooldown(q.ID)
	if q.Kind == quest.KindThieve {
		return e.resolveThieve(ctx, tx, p, now)
	}
	return e.resolveWander(ctx, tx, p, now)
}

// resolveWander completes the wander quest with a random quality outcome.
func (e *Engine) resolveWander(ctx context.Context, tx Tx, p *player.Player, now int64) error {
	r := quest.RollWanderResult(e.src)
	leveled := false
	if r.Exp > 0 {
		leveled = p.GrantExperience(r.Exp, e.opts.Balance)
	}
	p.Gold += r.Gold
	hp := r.HP
	if hp < 0 {
		hp = -p.ApplyDamage(-hp, now, e.opts.Balance)
	} else if hp > 0 {
		hp = p.Heal(hp)
	}
	p.State = player.StateRest
	if err := tx.SavePlayer(ctx, p); err != nil {
		return err
	}
	e.notifier.Notify(ctx, p.ID, r.Description+"\n\n"+statLines(r.Gold, r.Exp, hp), "")
	if leveled {
		e.notifyLevelUp(ctx, p)
	}
	return nil
}

// resolveThieve completes the thieve quest. A random resting player becomes
// the sentinel and gets a short window to interfere; with nobody at rest
// the theft succeeds on the spot.
func (e *Engine) resolveThieve(ctx context.Context, tx Tx, p *player.Player, now int64) error {
	sentinel, err := tx.RandomRestingPlayer(ctx, p.ID)
	if err != nil {
		return err
	}
	if sentinel == nil {
		p.State = player.StateRest
		gold := quest.ThieveLoot(e.src, p.Level)
		p.Gold += gold
		exp := dice.RollBetween(e.src, 1, 3)
		leveled := p.GrantExperience(exp, e.opts.Balance)
		if err := tx.SavePlayer(ctx, p); err != nil {
			return err
		}
		e.notifier.Notify(ctx, p.ID,
			"Nobody noticed you. You successfully stole some loot. You feel great.\n\n"+
				statLines(gold, exp, 0), "")
		if leveled {
			e.notifyLevelUp(ctx, p)
		}
		return nil
	}

	sentinel.StartNoticing(p, now, int64(e.opts.NoticeWatch.Seconds()))
	if err := tx.SavePlayer(ctx, sentinel); err != nil {
		return err
	}
	if err := tx.SavePlayer(ctx, p); err != nil {
		return err
	}
	e.notifier.Notify(ctx, sentinel.ID, fmt.Sprintf(
		"You were wandering around when you noticed %s trying to rob some townsmen.\n\n"+
			"/interfere", p.DisplayName()), "")
	e.notifier.Notify(ctx, p.ID, fmt.Sprintf(
		"Close to the place you are robbing you spotted warrior %s."+
			" Let's hope %s won't notice you.",
		sentinel.DisplayName(), sentinel.DisplayName()), "")
	return nil
}

// resolveExpiredWatch ends a thief watch the sentinel slept through: the
// theft succeeds and the pair dissolves.
func (e *Engine) resolveExpiredWatch(ctx context.Context, tx Tx, sentinel *player.Player) error {
	thief, err := tx.Player(ctx, sentinel.ThiefID)
	if err != nil {
		return err
	}
	gold := quest.ThieveLoot(e.src, thief.Level)
	thief.Gold += gold
	exp := dice.RollBetween(e.src, 1, 3)
	leveled := thief.GrantExperience(exp, e.opts.Balance)

	sentinel.StopNoticing(thief)
	if err := tx.SavePlayer(ctx, sentinel); err != nil {
		return err
	}
	if err := tx.SavePlayer(ctx, thief); err != nil {
		return err
	}
	e.notifier.Notify(ctx, sentinel.ID, fmt.Sprintf(
		"You let %s rob the townsmen. We hope you feel terrible.", thief.DisplayName()), "")
	e.notifier.Notify(ctx, thief.ID, fmt.Sprintf(
		"%s was completely clueless. You successfully stole some loot. You feel great.\n\n%s",
		sentinel.DisplayName(), statLines(gold, exp, 0)), "")
	if leveled {
		e.notifyLevelUp(ctx, thief)
	}
	return nil
}
