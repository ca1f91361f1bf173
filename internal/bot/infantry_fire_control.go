package bot

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/salvo/pkg/combat"
)

// Regime is the damage model applied to one weapon against one target.
type Regime int

const (
	RegimeNone               Regime = iota // weapon contributed nothing
	RegimeInfantryWeapon                   // personal weapon, scaled by troopers
	RegimeInfantryInOpen                   // conventional weapon vs platoon in the open
	RegimeInfantryInBuilding               // conventional weapon vs infantry inside a building
	RegimeInfantryInCover                  // conventional weapon vs infantry in cover
	RegimeNonInfantryTarget                // raw weapon damage
)

func (r Regime) String() string {
	switch r {
	case RegimeInfantryWeapon:
		return "infantry_weapon"
	case RegimeInfantryInOpen:
		return "infantry_in_open"
	case RegimeInfantryInBuilding:
		return "infantry_in_building"
	case RegimeInfantryInCover:
		return "infantry_in_cover"
	case RegimeNonInfantryTarget:
		return "non_infantry_target"
	}
	return "none"
}

// Skip reasons recorded in WeaponDamage.Skipped.
const (
	skipOutOfRange   = "out of range"
	skipDestroyed    = "destroyed"
	skipNoType       = "no weapon type"
	skipNoRangeData  = "no range data"
	skipNoDamage     = "no base damage"
	skipNoTroopCount = "shooter has no troopers"
)

// targetProfile holds the target classification, computed once per estimate.
type targetProfile struct {
	platoon                 bool
	actualInfantry          bool // infantry but not battle armor
	inBuilding              bool
	inOpen                  bool
	nonInfantryVsMechanized bool
}

func (p targetProfile) classify(wt *combat.WeaponType) Regime {
	switch {
	case wt.HasFlag(combat.FlagInfantry):
		return RegimeInfantryWeapon
	case !p.actualInfantry:
		return RegimeNonInfantryTarget
	case p.inBuilding:
		return RegimeInfantryInBuilding
	case p.inOpen:
		return RegimeInfantryInOpen
	default:
		return RegimeInfantryInCover
	}
}

// InfantryFireControl estimates damage when infantry is on either side of the
// exchange. Personal infantry weapons and conventional weapons are tallied
// separately; the estimate is the larger tally, never the sum.
type InfantryFireControl struct {
	board combat.Board
	rules Rules
}

// NewInfantryFireControl creates an InfantryFireControl. A nil rules value
// uses StandardRules.
func NewInfantryFireControl(board combat.Board, rules Rules) *InfantryFireControl {
	if rules == nil {
		rules = StandardRules{}
	}
	return &InfantryFireControl{board: board, rules: rules}
}

func (fc *InfantryFireControl) Name() string { return "infantry" }

// MaxDamageAtRange returns the most damage the shooter can do against the
// unit ending on path at the given range.
func (fc *InfantryFireControl) MaxDamageAtRange(shooter combat.Armed, path combat.MovePath, distance int, useExtremeRange, useLOSRange bool) (float64, error) {
	est, err := fc.EstimateDamage(shooter, path, distance, useExtremeRange, useLOSRange)
	if err != nil {
		return 0, err
	}
	return est.Total, nil
}

// EstimateDamage computes the estimate with a per-weapon breakdown.
func (fc *InfantryFireControl) EstimateDamage(shooter combat.Armed, path combat.MovePath, distance int, useExtremeRange, useLOSRange bool) (DamageEstimate, error) {
	target, hex, err := resolveTarget(fc.board, shooter, path, distance)
	if err != nil {
		return DamageEstimate{}, err
	}

	p := fc.profile(shooter, target, hex, path)

	var building *combat.Building
	if p.inBuilding && p.actualInfantry {
		building = fc.board.BuildingAt(path.FinalCoords())
		if building == nil {
			return DamageEstimate{}, fmt.Errorf("%w: no building at %s", ErrInvalidTargetPath, path.FinalCoords())
		}
	}

	troops, hasTroops := 0, false
	if inf, ok := shooter.(combat.Infantry); ok && shooter.HasEType(combat.ETypeInfantry) {
		troops, hasTroops = inf.TroopCount(), true
	}

	est := DamageEstimate{FireControl: fc.Name()}
	for _, m := range shooter.Weapons() {
		wd := WeaponDamage{Location: m.Location}
		wt := m.Type
		switch {
		case wt == nil:
			wd.Skipped = skipNoType
		case m.Destroyed:
			wd.Weapon, wd.Skipped = wt.Name, skipDestroyed
		case !wt.HasRangeData():
			wd.Weapon, wd.Skipped = wt.Name, skipNoRangeData
		}
		if wd.Skipped != "" {
			if wd.Skipped != skipDestroyed {
				logSkipped(wd)
			}
			est.Weapons = append(est.Weapons, wd)
			continue
		}

		wd.Weapon = wt.Name
		wd.Bracket = fc.rules.RangeBracket(distance, wt.Ranges, useExtremeRange, useLOSRange)
		if wd.Bracket == combat.RangeOut {
			wd.Skipped = skipOutOfRange
			est.Weapons = append(est.Weapons, wd)
			continue
		}

		regime := p.classify(wt)
		var reason string
		wd.Damage, reason = fc.regimeDamage(regime, wt, p, building, troops, hasTroops)
		if reason != "" {
			wd.Damage, wd.Skipped = 0, reason
			logSkipped(wd)
			est.Weapons = append(est.Weapons, wd)
			continue
		}
		wd.Regime = regime

		if regime == RegimeInfantryWeapon {
			est.InfantryWeapon += wd.Damage
		} else {
			est.General += wd.Damage
		}
		est.Weapons = append(est.Weapons, wd)
	}

	est.Total = math.Max(est.General, est.InfantryWeapon)
	return est, nil
}

func (fc *InfantryFireControl) profile(shooter, target combat.Entity, hex *combat.Hex, path combat.MovePath) targetProfile {
	isInfantry := target.HasEType(combat.ETypeInfantry)
	inf, _ := target.(combat.Infantry)

	var p targetProfile
	p.platoon = isInfantry && (inf == nil || !inf.IsSquad())
	p.actualInfantry = isInfantry && !target.HasEType(combat.ETypeBattleArmor)
	p.inBuilding = fc.rules.IsInBuilding(fc.board, path.FinalElevation(), path.FinalCoords())
	p.inOpen = fc.rules.InfantryInOpen(target, hex, fc.board, p.platoon, false, false)
	p.nonInfantryVsMechanized = !shooter.HasEType(combat.ETypeInfantry) &&
		isInfantry && inf != nil && inf.IsMechanized()
	return p
}

// regimeDamage returns the weapon's damage under a regime, or a non-empty
// reason when the weapon lacks the data the regime needs.
func (fc *InfantryFireControl) regimeDamage(r Regime, wt *combat.WeaponType, p targetProfile, building *combat.Building, troops int, hasTroops bool) (float64, string) {
	if r == RegimeInfantryWeapon {
		if !hasTroops {
			return 0, skipNoTroopCount
		}
		return wt.InfantryDamage * float64(troops), ""
	}

	base, ok := wt.BaseDamage()
	if !ok {
		return 0, skipNoDamage
	}
	switch r {
	case RegimeInfantryInOpen:
		return 2 * fc.rules.DirectBlowInfantryDamage(base, 0, wt.InfantryDamageClass, p.nonInfantryVsMechanized, false), ""
	case RegimeInfantryInCover:
		return fc.rules.DirectBlowInfantryDamage(base, 0, wt.InfantryDamageClass, p.nonInfantryVsMechanized, false), ""
	case RegimeInfantryInBuilding:
		return base * building.DamageReductionFromOutside(), ""
	}
	return base, ""
}

func logSkipped(wd WeaponDamage) {
	log.Debug().Str("weapon", wd.Weapon).Str("location", wd.Location).Str("reason", wd.Skipped).Msg("Weapon skipped by fire control")
}
