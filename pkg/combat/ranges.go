package combat

import "math"

// RangeBracket is the band a firing distance falls into for one weapon.
type RangeBracket int

const (
	RangeMinimum RangeBracket = iota
	RangeShort
	RangeMedium
	RangeLong
	RangeExtreme
	RangeLOS
	RangeOut RangeBracket = math.MaxInt32
)

func (b RangeBracket) String() string {
	switch b {
	case RangeMinimum:
		return "minimum"
	case RangeShort:
		return "short"
	case RangeMedium:
		return "medium"
	case RangeLong:
		return "long"
	case RangeExtreme:
		return "extreme"
	case RangeLOS:
		return "los"
	}
	return "out"
}

// RangeTable holds the upper bound of each bracket, indexed by RangeBracket
// from RangeMinimum to RangeExtreme.
type RangeTable [5]int

// NewRangeTable builds a table from the minimum, short, medium and long
// bounds. The extreme bound defaults to twice the long bound.
func NewRangeTable(minimum, short, medium, long int) RangeTable {
	return RangeTable{minimum, short, medium, long, 2 * long}
}

// InfantryRangeTable builds the table for a personal weapon with the given
// range increment.
func InfantryRangeTable(increment int) RangeTable {
	return RangeTable{0, increment, 2 * increment, 3 * increment, 4 * increment}
}

// Valid reports whether the table has a positive short bound and
// non-decreasing brackets.
func (t RangeTable) Valid() bool {
	if t[RangeShort] <= 0 || t[RangeMinimum] < 0 {
		return false
	}
	for b := RangeShort; b < RangeExtreme; b++ {
		if t[b+1] < t[b] {
			return false
		}
	}
	return true
}

// BracketFor resolves the bracket for a distance. Distances past the long
// bound are only in range under the extreme-range rule, and distances past the
// extreme bound only under the line-of-sight range rule.
func BracketFor(distance int, t RangeTable, useExtremeRange, useLOSRange bool) RangeBracket {
	switch {
	case distance > t[RangeExtreme]:
		if useLOSRange {
			return RangeLOS
		}
		return RangeOut
	case distance > t[RangeLong]:
		if useExtremeRange {
			return RangeExtreme
		}
		return RangeOut
	case distance > t[RangeMedium]:
		return RangeLong
	case distance > t[RangeShort]:
		return RangeMedium
	case distance > t[RangeMinimum]:
		return RangeShort
	}
	return RangeMinimum
}
