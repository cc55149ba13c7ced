// Package player defines the player aggregate: identity, progression pools,
// the activity state tag, and the per-player cooldown ledger. All mutation
// helpers operate on the in-memory aggregate only; persistence is the
// storage layer's concern.
package player

import "time"

// Starting stats and hard caps for every new player.
const (
	MaxLevel        = 3
	StartingLevel   = 1
	StartingAttack  = 1
	StartingDefense = 1
	StartingGold    = 0
	StartingInvSize = 15
	MaxStamina      = 5
	MaxHP           = 40
)

// RaidSafetyMargin is how close to the next goblin raid a player may still
// start a new activity. Inside the margin the resting gate refuses.
const RaidSafetyMargin = 10 * time.Minute

// State identifies both a player's current activity and the kind of a
// cooldown ledger entry; the two share one value space so that a non-rest
// state always has a matching cooldown kind. Quest states are positive and
// assigned by the quest catalog. Built-in activity states are negative.
// World schedule records live below -100 and never appear as a player state.
type State int

const (
	StateRest            State = 0
	StatePlayingDice     State = -1
	StateHealing         State = -2
	StateNoticedThief    State = -3
	StateNoticedSentinel State = -4

	StateWorldDay   State = -100
	StateWorldMonth State = -101
	StateWorldYear  State = -102
	StateWorldRaid  State = -103
)

// String returns a short label for logging.
func (s State) String() string {
	switch s {
	case StateRest:
		return "rest"
	case StatePlayingDice:
		return "playing_dice"
	case StateHealing:
		return "healing"
	case StateNoticedThief:
		return "noticed_thief"
	case StateNoticedSentinel:
		return "noticed_sentinel"
	case StateWorldDay:
		return "world_day"
	case StateWorldMonth:
		return "world_month"
	case StateWorldYear:
		return "world_year"
	case StateWorldRaid:
		return "world_raid"
	default:
		return "quest"
	}
}

// WorldID is the reserved player ID that owns the world schedule cooldowns.
const WorldID int64 = 0

// Cooldown is one ledger entry: a (player, kind) deadline in unix seconds.
// A player holds at most one entry per kind.
type Cooldown struct {
	Kind   State
	EndsAt int64
}

// Expired reports whether the deadline has passed at the given time.
func (c Cooldown) Expired(now int64) bool { return now >= c.EndsAt }

// Player is the aggregate root. Cooldowns are owned by value; the
// thief link is a non-owning identity reference resolved through the store.
type Player struct {
	ID   int64
	Name string

	Level      int
	Exp        int
	Attack     int
	Defense    int
	HP         int
	MaxHP      int
	Mana       int
	MaxMana    int
	Stamina    int
	MaxStamina int
	Gold       int
	InvSize    int

	State State
	// ThiefID is the player currently being watched by this one, or 0.
	// The watched side holds no column; it is the back-reference.
	ThiefID int64

	Birthday int64
	LastSeen int64

	Cooldowns []Cooldown
}

// New creates a player with the fixed starting stats.
//
// Postcondition: the player is at rest with full pools and no cooldowns.
func New(id int64, name string, now int64) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Level:      StartingLevel,
		Attack:     StartingAttack,
		Defense:    StartingDefense,
		HP:         MaxHP,
		MaxHP:      MaxHP,
		Stamina:    MaxStamina,
		MaxStamina: MaxStamina,
		Gold:       StartingGold,
		InvSize:    StartingInvSize,
		State:      StateRest,
		Birthday:   now,
		LastSeen:   now,
	}
}

// DisplayName returns the player's name, or a placeholder when unset.
func (p *Player) DisplayName() string {
	if p.Name == "" {
		return "Stranger"
	}
	return p.Name
}

// Balance holds the tunable progression constants injected by the caller.
type Balance struct {
	// MaxLevel caps GrantExperience; excess past the cap is discarded.
	MaxLevel int
	// RestTick is the duration of one stamina regeneration step.
	RestTick time.Duration
	// HealTick is the duration of one hp regeneration step.
	HealTick time.Duration
	// RequiredExp returns the experience needed to reach the given level
	// from the one below it. Must be monotonically increasing.
	RequiredExp func(level int) int
}

// DefaultRequiredExp is the stock leveling curve.
func DefaultRequiredExp(level int) int { return 25 * level * (level - 1) }

// DefaultBalance returns the stock progression constants.
func DefaultBalance() Balance {
	return Balance{
		MaxLevel:    MaxLevel,
		RestTick:    time.Hour,
		HealTick:    30 * time.Second,
		RequiredExp: DefaultRequiredExp,
	}
}
