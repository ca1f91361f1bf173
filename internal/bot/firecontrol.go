package bot

import (
	"errors"
	"fmt"

	"github.com/freeeve/salvo/pkg/combat"
)

var (
	ErrInvalidTargetPath = errors.New("invalid target path")
	ErrInvalidRange      = errors.New("range must not be negative")
	ErrNilShooter        = errors.New("no shooter")
)

// FireControl estimates the damage a shooter can deliver at a given range,
// without weighting by the chance to hit.
type FireControl interface {
	Name() string
	EstimateDamage(shooter combat.Armed, path combat.MovePath, distance int, useExtremeRange, useLOSRange bool) (DamageEstimate, error)
	MaxDamageAtRange(shooter combat.Armed, path combat.MovePath, distance int, useExtremeRange, useLOSRange bool) (float64, error)
}

// Rules is the read-only slice of the rules engine that fire control needs.
type Rules interface {
	RangeBracket(distance int, ranges combat.RangeTable, useExtremeRange, useLOSRange bool) combat.RangeBracket
	IsInBuilding(board combat.Board, elevation int, c combat.Coords) bool
	InfantryInOpen(target combat.Entity, hex *combat.Hex, board combat.Board, isPlatoon, ammoExplosion, ignoreDoubleDamage bool) bool
	DirectBlowInfantryDamage(damage float64, mos int, class combat.InfantryDamageClass, nonInfantryVsMechanized, attackThroughBuilding bool) float64
}

// StandardRules binds Rules to the combat package.
type StandardRules struct{}

func (StandardRules) RangeBracket(distance int, ranges combat.RangeTable, useExtremeRange, useLOSRange bool) combat.RangeBracket {
	return combat.BracketFor(distance, ranges, useExtremeRange, useLOSRange)
}

func (StandardRules) IsInBuilding(board combat.Board, elevation int, c combat.Coords) bool {
	return combat.IsInBuilding(board, elevation, c)
}

func (StandardRules) InfantryInOpen(target combat.Entity, hex *combat.Hex, board combat.Board, isPlatoon, ammoExplosion, ignoreDoubleDamage bool) bool {
	return combat.InfantryInOpen(target, hex, board, isPlatoon, ammoExplosion, ignoreDoubleDamage)
}

func (StandardRules) DirectBlowInfantryDamage(damage float64, mos int, class combat.InfantryDamageClass, nonInfantryVsMechanized, attackThroughBuilding bool) float64 {
	return combat.DirectBlowInfantryDamage(damage, mos, class, nonInfantryVsMechanized, attackThroughBuilding)
}

// WeaponDamage is one weapon's share of an estimate. Skipped is set when the
// weapon contributed nothing.
type WeaponDamage struct {
	Weapon   string
	Location string
	Bracket  combat.RangeBracket
	Regime   Regime
	Damage   float64
	Skipped  string
}

// DamageEstimate is the result of a fire-control estimate.
type DamageEstimate struct {
	FireControl    string
	Total          float64
	General        float64
	InfantryWeapon float64
	Weapons        []WeaponDamage
}

// FireControlFor picks the fire control for a pairing: infantry rules apply
// when either side is infantry.
func FireControlFor(shooter, target combat.Entity, board combat.Board, rules Rules) FireControl {
	if (shooter != nil && shooter.HasEType(combat.ETypeInfantry)) ||
		(target != nil && target.HasEType(combat.ETypeInfantry)) {
		return NewInfantryFireControl(board, rules)
	}
	return NewStandardFireControl(board, rules)
}

// resolveTarget validates the inputs shared by every fire control and returns
// the target and the hex it ends on.
func resolveTarget(board combat.Board, shooter combat.Armed, path combat.MovePath, distance int) (combat.Entity, *combat.Hex, error) {
	if shooter == nil || isNilUnit(shooter) {
		return nil, nil, ErrNilShooter
	}
	if distance < 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidRange, distance)
	}
	if path == nil || path.Entity() == nil || isNilUnit(path.Entity()) {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidTargetPath, combat.ErrNoEntity)
	}
	if board == nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidTargetPath, combat.ErrNoBoard)
	}
	hex := board.Hex(path.FinalCoords())
	if hex == nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidTargetPath, path.FinalCoords(), combat.ErrOffBoard)
	}
	return path.Entity(), hex, nil
}

// isNilUnit catches a nil *combat.Unit stored in a non-nil interface.
func isNilUnit(v any) bool {
	u, ok := v.(*combat.Unit)
	return ok && u == nil
}
