// Package combat implements the tactic resolver shared by goblin raids and
// any future PvP flavor. The resolver is pure and structural: it decides who
// won and supplies names for the narration template, never resource deltas.
package combat

// Tactic is one combat choice from the fixed non-transitive cycle, or
// TacticNone for a party that never chose (petrified).
type Tactic int

const (
	TacticNone Tactic = iota
	TacticHit
	TacticFeint
	TacticParry
)

// String returns the lowercase tactic label.
func (t Tactic) String() string {
	switch t {
	case TacticHit:
		return "hit"
	case TacticFeint:
		return "feint"
	case TacticParry:
		return "parry"
	default:
		return "none"
	}
}

// Valid reports whether t is one of the three real tactics.
func (t Tactic) Valid() bool {
	return t == TacticHit || t == TacticFeint || t == TacticParry
}

// beats reports whether t defeats other in the cycle
// hit > feint > parry > hit.
func (t Tactic) beats(other Tactic) bool {
	switch t {
	case TacticHit:
		return other == TacticFeint
	case TacticFeint:
		return other == TacticParry
	case TacticParry:
		return other == TacticHit
	default:
		return false
	}
}

// Result is the structural outcome of a resolution, named from the left
// participant's side.
type Result int

const (
	// LeftWins and RightWins are the three cycle relations.
	LeftWins Result = iota
	RightWins
	// TieClean is the mutual-parry avoidance tie.
	TieClean
	// TieWounded is the same-aggressive-tactic tie; both sides take a hit.
	// Mechanically symmetric with TieClean: no net advantage either way.
	TieWounded
	// LeftPetrified / RightPetrified: one side never chose and is struck.
	LeftPetrified
	RightPetrified
	// BothPetrified: neither side chose; nothing happens.
	BothPetrified
)

// Outcome carries the result plus display names for the narration layer.
// Winner and Loser are empty on ties and on BothPetrified.
type Outcome struct {
	Result Result
	Winner string
	Loser  string
}

// Tie reports whether nobody won.
func (o Outcome) Tie() bool {
	return o.Result == TieClean || o.Result == TieWounded || o.Result == BothPetrified
}

// Resolve decides the structural outcome of left vs right. It is total:
// every pair of the three tactics plus the no-tactic cases has a defined
// output, and it never fails.
//
// Postcondition: Resolve(a, b) and Resolve(b, a) are mirror images.
func Resolve(left, right Tactic, leftName, rightName string) Outcome {
	switch {
	case !left.Valid() && !right.Valid():
		return Outcome{Result: BothPetrified}
	case !left.Valid():
		return Outcome{Result: LeftPetrified, Winner: rightName, Loser: leftName}
	case !right.Valid():
		return Outcome{Result: RightPetrified, Winner: leftName, Loser: rightName}
	case left == right:
		if left == TacticParry {
			return Outcome{Result: TieClean}
		}
		return Outcome{Result: TieWounded}
	case left.beats(right):
		return Outcome{Result: LeftWins, Winner: leftName, Loser: rightName}
	default:
		return Outcome{Result: RightWins, Winner: rightName, Loser: leftName}
	}
}
