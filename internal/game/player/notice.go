package player

// StartNoticing links this player (the sentinel) to a thief they caught in
// the act. Both sides leave REST: the watcher enters NOTICED_THIEF, the
// watched enters NOTICED_SENTINEL, and a single NOTICED_THIEF cooldown on
// the watcher times the standoff. One watch per pair: the single ThiefID
// slot cannot represent a second concurrent watch.
//
// Precondition: no NOTICED_THIEF cooldown may be running on the watcher;
// panics on conflict since callers only reach here from the REST state.
func (p *Player) StartNoticing(thief *Player, now int64, watch int64) {
	p.State = StateNoticedThief
	thief.State = StateNoticedSentinel
	p.ThiefID = thief.ID
	if err := p.StartCooldown(StateNoticedThief, now+watch); err != nil {
		panic("player: StartNoticing with a notice cooldown already running")
	}
}

// StopNoticing dissolves the watch pair: the back-reference is cleared, both
// sides return to REST, and the watcher's NOTICED_THIEF cooldown is removed.
//
// Precondition: thief must be the player referenced by p.ThiefID, and the
// NOTICED_THIEF cooldown must exist. A missing entry means the pair state
// and the ledger diverged, which the state machine rules out; that is a
// programming error, so this panics rather than returning an error.
func (p *Player) StopNoticing(thief *Player) {
	if p.ThiefID != thief.ID {
		panic("player: StopNoticing with a mismatched thief")
	}
	if _, ok := p.CooldownFor(StateNoticedThief); !ok {
		panic("player: StopNoticing without a notice cooldown")
	}
	p.ThiefID = 0
	p.State = StateRest
	thief.State = StateRest
	p.ClearCooldown(StateNoticedThief)
}
