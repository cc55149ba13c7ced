package player

// GrantExperience adds experience and applies any level-ups, returning true
// when at least one level was gained. Thresholds are consumed one level at a
// time so a large grant can cross several levels in one call; experience past
// b.MaxLevel is discarded, never banked.
//
// On any level gained the player's rest is cut short: a REST cooldown, if
// present, is cleared, and stamina below the cap is restored to the cap.
//
// Precondition: b.RequiredExp must be non-nil and monotonically increasing.
func (p *Player) GrantExperience(amount int, b Balance) bool {
	if p.Level >= b.MaxLevel {
		return false
	}
	need := b.RequiredExp(p.Level + 1)
	p.Exp += amount
	leveled := p.Exp >= need
	for p.Exp >= need {
		p.Exp -= need
		p.Level++
		if p.Level >= b.MaxLevel {
			p.Exp = 0
			break
		}
		need = b.RequiredExp(p.Level + 1)
	}
	if leveled {
		p.ClearCooldown(StateRest)
		if p.Stamina < p.MaxStamina {
			p.Stamina = p.MaxStamina
		}
	}
	return leveled
}

// ApplyDamage reduces hp by at most hp-1 and returns the effective amount
// removed. The floor of 1 hp is deliberate: no code path in the game kills a
// player outright. When the player ends up wounded and no HEALING cooldown is
// running, one regeneration tick is scheduled.
//
// Postcondition: p.HP >= 1; return value is in [0, amount].
func (p *Player) ApplyDamage(amount int, now int64, b Balance) int {
	effective := amount
	if max := p.HP - 1; effective > max {
		effective = max
	}
	p.HP -= effective
	if p.HP < p.MaxHP {
		if _, ok := p.CooldownFor(StateHealing); !ok {
			p.Cooldowns = append(p.Cooldowns, Cooldown{
				Kind:   StateHealing,
				EndsAt: now + int64(b.HealTick.Seconds()),
			})
		}
	}
	return effective
}

// Heal restores hp up to the cap and returns the effective amount gained.
func (p *Player) Heal(amount int) int {
	effective := amount
	if max := p.MaxHP - p.HP; effective > max {
		effective = max
	}
	p.HP += effective
	return effective
}

// SpendStamina subtracts stamina and, when the pool drops below the cap with
// no REST cooldown running, schedules one regeneration tick. The pool may go
// negative; callers validate with RequireStamina before spending.
func (p *Player) SpendStamina(amount int, now int64, b Balance) {
	p.Stamina -= amount
	if p.Stamina < p.MaxStamina {
		if _, ok := p.CooldownFor(StateRest); !ok {
			p.Cooldowns = append(p.Cooldowns, Cooldown{
				Kind:   StateRest,
				EndsAt: now + int64(b.RestTick.Seconds()),
			})
		}
	}
}
