// Package dice provides the randomness abstraction and the two-die roll
// used by the tavern dice game and raid resolution.
package dice

import "fmt"

// Source is the randomness provider for all rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Pair holds the two die results of one 2d6 throw.
type Pair [2]int

// Sum returns the pair total.
//
// Postcondition: return value == p[0] + p[1].
func (p Pair) Sum() int { return p[0] + p[1] }

// String returns an audit string such as "3 + 5 (8)".
func (p Pair) String() string {
	return fmt.Sprintf("%d + %d (%d)", p[0], p[1], p.Sum())
}

// RollPair throws two six-sided dice.
//
// Precondition: src must be non-nil.
// Postcondition: both values are in [1, 6].
func RollPair(src Source) Pair {
	return Pair{src.Intn(6) + 1, src.Intn(6) + 1}
}

// RollBetween returns a uniform int in [low, high], the raid loot primitive.
//
// Precondition: low <= high.
func RollBetween(src Source, low, high int) int {
	if low > high {
		panic("dice: RollBetween called with low > high")
	}
	return low + src.Intn(high-low+1)
}
