package player

import (
	"errors"
	"time"
)

// Rejection is a user-facing refusal of a command. It is not a fault: the
// command replies with Reason, mutates nothing, and the transaction commits
// (an empty commit). Gate predicates below are pure; they never mutate.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

func reject(reason string) error { return &Rejection{Reason: reason} }

// AsRejection unwraps err into a Rejection, if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// RequireLevel refuses when the player's level is below required.
func (p *Player) RequireLevel(required int) error {
	if p.Level >= required {
		return nil
	}
	return reject("Your level is too low to perform that action.")
}

// RequireGold refuses when the player cannot afford the given amount.
func (p *Player) RequireGold(required int) error {
	if p.Gold >= required {
		return nil
	}
	return reject("You don't even have enough gold for a pint of grog.\nWhy don't you get a job?")
}

// RequireStamina refuses when the stamina pool is below the given cost.
func (p *Player) RequireStamina(required int) error {
	if p.Stamina >= required {
		return nil
	}
	return reject("Not enough stamina. Come back after you take a rest.")
}

// RequireHealthy refuses while the player is under the wounded-lockout
// threshold: hp below min(maxHP/4, 100).
func (p *Player) RequireHealthy() error {
	threshold := p.MaxHP / 4
	if threshold > 100 {
		threshold = 100
	}
	if p.HP >= threshold {
		return nil
	}
	return reject("You need to heal your wounds and recover, come back later.")
}

// RequireInventorySpace refuses when the bag already holds capacity items.
func (p *Player) RequireInventorySpace(used int) error {
	if used < p.InvSize {
		return nil
	}
	return reject("Your bag is full.")
}

// RequireResting refuses when the player is occupied by another activity, or
// when the next goblin raid is close enough that starting a timed activity
// would collide with it. raidRemaining is the time left on the world raid
// cooldown; ignoreRaid exempts activities that resolve instantly.
func (p *Player) RequireResting(raidRemaining time.Duration, ignoreRaid bool) error {
	if !ignoreRaid && raidRemaining <= RaidSafetyMargin {
		return reject("Goblins are about to attack. You have no time for games.")
	}
	if p.State == StateRest {
		return nil
	}
	return reject("You are too busy with a different adventure. Try a bit later.")
}
