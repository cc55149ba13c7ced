package player

import (
	"errors"
	"time"
)

// ErrNoCooldown is returned when a remaining-time query finds no entry.
var ErrNoCooldown = errors.New("player: no cooldown of that kind")

// ErrCooldownExists is returned when starting a cooldown whose kind already
// has an entry. Callers must clear stale entries first; hitting this is a
// logic error upstream and aborts the surrounding transaction.
var ErrCooldownExists = errors.New("player: cooldown of that kind already exists")

// CooldownFor returns the ledger entry of the given kind, expired or not.
func (p *Player) CooldownFor(kind State) (Cooldown, bool) {
	for _, c := range p.Cooldowns {
		if c.Kind == kind {
			return c, true
		}
	}
	return Cooldown{}, false
}

// CooldownActive reports whether an unexpired cooldown of the given kind
// exists at the given time. Expiry is lazy: an expired entry stays in the
// ledger until whichever code path cares about the kind clears it.
func (p *Player) CooldownActive(kind State, now int64) bool {
	c, ok := p.CooldownFor(kind)
	return ok && !c.Expired(now)
}

// CooldownRemaining returns the time left on the given kind's entry.
//
// Postcondition: returns ErrNoCooldown when no entry of that kind exists;
// an expired entry yields a zero or negative duration, not an error.
func (p *Player) CooldownRemaining(kind State, now int64) (time.Duration, error) {
	c, ok := p.CooldownFor(kind)
	if !ok {
		return 0, ErrNoCooldown
	}
	return time.Duration(c.EndsAt-now) * time.Second, nil
}

// StartCooldown inserts a new ledger entry ending at the given unix time.
//
// Postcondition: returns ErrCooldownExists and leaves the ledger untouched
// when an entry of that kind is already present, even an expired one.
func (p *Player) StartCooldown(kind State, endsAt int64) error {
	if _, ok := p.CooldownFor(kind); ok {
		return ErrCooldownExists
	}
	p.Cooldowns = append(p.Cooldowns, Cooldown{Kind: kind, EndsAt: endsAt})
	return nil
}

// ClearCooldown removes the entry of the given kind. Idempotent.
func (p *Player) ClearCooldown(kind State) {
	for i, c := range p.Cooldowns {
		if c.Kind == kind {
			p.Cooldowns = append(p.Cooldowns[:i], p.Cooldowns[i+1:]...)
			return
		}
	}
}

// RearmCooldown moves the entry of the given kind to a new deadline.
// Used by the regeneration sweep to schedule the next tick.
//
// Precondition: an entry of that kind must exist; panics otherwise.
func (p *Player) RearmCooldown(kind State, endsAt int64) {
	for i, c := range p.Cooldowns {
		if c.Kind == kind {
			p.Cooldowns[i].EndsAt = endsAt
			return
		}
	}
	panic("player: RearmCooldown called without a matching entry")
}
