package combat

import "math"

// coverTerrain lists features that deny a platoon the in-the-open penalty.
var coverTerrain = []Terrain{Woods, Jungle, Rough, Rubble, Swamp, BuildingTerrain, FuelTank, Fortified}

// IsInBuilding reports whether a unit at the given elevation on c is inside
// the building structure there, basement included.
func IsInBuilding(b Board, elevation int, c Coords) bool {
	if b == nil {
		return false
	}
	h := b.Hex(c)
	if h == nil || !h.ContainsTerrain(BuildingElevation) {
		return false
	}
	height := h.TerrainLevel(BuildingElevation)
	basement := h.TerrainLevel(BasementType)
	return elevation < height && elevation >= -basement
}

// InfantryInOpen reports whether target is a platoon caught without cover
// and therefore takes double damage from conventional weapons. A nil hex is
// looked up on the board from the target's own position when it has one.
func InfantryInOpen(target Entity, hex *Hex, board Board, isPlatoon, ammoExplosion, ignoreDoubleDamage bool) bool {
	if !isPlatoon || ammoExplosion || ignoreDoubleDamage || target == nil {
		return false
	}
	inf, _ := target.(Infantry)
	if inf != nil && inf.DugIn() == DugInComplete {
		return false
	}
	if hex == nil {
		if p, ok := target.(Positioned); ok && board != nil {
			hex = board.Hex(p.Position())
		}
	}
	if hex == nil {
		return false
	}
	for _, t := range coverTerrain {
		if hex.ContainsTerrain(t) {
			return false
		}
	}
	urban := hex.ContainsTerrain(Pavement) || hex.ContainsTerrain(Road)
	if urban && inf != nil && inf.UrbanGuerrilla() {
		return false
	}
	if hex.ContainsTerrain(Pavement) && hex.ContainsTerrain(Road) {
		return false
	}
	return true
}

// expectedD6 is the mean of n six-sided dice.
func expectedD6(n int) float64 { return 3.5 * float64(n) }

// DirectBlowInfantryDamage converts a conventional weapon's damage into damage
// against conventional infantry. Dice terms use their expected value, so the
// result is deterministic. The fixed part is rounded up before the dice are
// added, and each halving is rounded up again.
func DirectBlowInfantryDamage(damage float64, mos int, class InfantryDamageClass, nonInfantryVsMechanized, attackThroughBuilding bool) float64 {
	damage += float64(mos)

	var fixed, dice float64
	switch class {
	case ClassDirectFire:
		fixed = damage / 10
	case ClassClusterBallistic:
		fixed = damage/10 + 1
	case ClassPulse:
		fixed = damage/10 + 2
	case ClassClusterMissile:
		fixed = damage/5 + 1
	case ClassClusterMissile1D6:
		fixed, dice = damage/5, expectedD6(1)
	case ClassClusterMissile2D6:
		fixed, dice = damage/5, expectedD6(2)
	case ClassClusterMissile3D6:
		fixed, dice = damage/5, expectedD6(3)
	case ClassBurstHalfD6:
		// Each half-d6 roll rounds up: 1, 1, 2, 2, 3, 3.
		dice = 2
	case ClassBurst1D6, ClassBurst2D6, ClassBurst3D6, ClassBurst4D6, ClassBurst5D6, ClassBurst6D6, ClassBurst7D6:
		dice = expectedD6(int(class-ClassBurst1D6) + 1)
	default:
		fixed = damage
	}

	result := math.Ceil(fixed) + dice
	if attackThroughBuilding {
		result = math.Ceil(result / 2)
	}
	if nonInfantryVsMechanized {
		result = math.Ceil(result / 2)
	}
	return result
}
