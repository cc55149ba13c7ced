package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/deltaland/internal/game/dice"
	"github.com/cory-johannsen/deltaland/internal/game/player"
)

// PlayDice joins the tavern dice table. If another player is already
// waiting, the two resolve immediately; otherwise the caller is charged the
// fee and seated as the single waiting participant. The exclusive store
// transaction is what makes observe-then-claim of the waiter atomic: two
// near-simultaneous joiners can never both believe they are first.
func (e *Engine) PlayDice(ctx context.Context, playerID int64) error {
	now := e.clock.Now().Unix()
	fee := e.opts.DiceFee
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
			p.RequireResting(raidLeft, false),
			p.RequireGold(fee),
		); err != nil {
			if rej, ok := player.AsRejection(err); ok {
				return e.refuse(ctx, tx, p, rej)
			}
			return err
		}

		// Charged up front: a solo joiner is already paying while waiting.
		p.Gold -= fee
		p.State = player.StatePlayingDice

		waiter, err := tx.CooldownHolder(ctx, player.StatePlayingDice)
		if err != nil {
			return err
		}
		if waiter == nil {
			if err := p.StartCooldown(player.StatePlayingDice, now+int64(e.opts.DiceMaxWait.Seconds())); err != nil {
				return err
			}
			if err := tx.SavePlayer(ctx, p); err != nil {
				return err
			}
			e.notifier.Notify(ctx, p.ID, fmt.Sprintf(
				"You sat down waiting for other players.\nIf you won't find anyone, you'll leave in %s",
				humanDuration(e.opts.DiceMaxWait)), "")
			return nil
		}

		// Claim the waiter: their wait ends here, in the same transaction
		// that observed them.
		waiter.ClearCooldown(player.StatePlayingDice)
		winner, loser, winRoll, loseRoll := e.rollContest(p, waiter)

		winner.Gold += 2 * fee
		winner.State = player.StateRest
		loser.State = player.StateRest
		if err := tx.AddDiceRank(ctx, winner.ID, fee); err != nil {
			return err
		}
		if err := tx.AddDiceRank(ctx, loser.ID, -fee); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, winner); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, loser); err != nil {
			return err
		}

		e.log.Info("dice game resolved",
			zap.Int64("winner", winner.ID),
			zap.Int64("loser", loser.ID),
			zap.Int("winning_sum", winRoll.Sum()),
			zap.Int("losing_sum", loseRoll.Sum()),
		)

		table := fmt.Sprintf("You threw the dice on the table:\n\n%s: %s\n%s: %s\n",
			winner.DisplayName(), winRoll, loser.DisplayName(), loseRoll)
		e.notifier.Notify(ctx, winner.ID, fmt.Sprintf(
			"%s\nYou won! %+d gold", table, 2*fee), "")
		e.notifier.Notify(ctx, loser.ID, fmt.Sprintf(
			"%s\n%s won.", table, winner.DisplayName()), "")
		return nil
	})
}

// rollContest rolls 2d6 for each side and rerolls both on an exact tie
// until the sums differ. The loop is unbounded but almost surely
// terminates; the per-iteration tie probability is well under 1.
//
// Postcondition: the returned winning sum is strictly greater than the
// losing sum.
func (e *Engine) rollContest(a, b *player.Player) (winner, loser *player.Player, winRoll, loseRoll dice.Pair) {
	rollA := dice.RollPair(e.src)
	rollB := dice.RollPair(e.src)
	for rollA.Sum() == rollB.Sum() {
		rollA = dice.RollPair(e.src)
		rollB = dice.RollPair(e.src)
	}
	if rollA.Sum() > rollB.Sum() {
		return a, b, rollA, rollB
	}
	return b, a, rollB, rollA
}
