package bot

import (
	"github.com/freeeve/salvo/pkg/combat"
)

// StandardFireControl is used when neither side is infantry: every weapon in
// range adds its full damage.
type StandardFireControl struct {
	board combat.Board
	rules Rules
}

// NewStandardFireControl creates a StandardFireControl. A nil rules value
// uses StandardRules.
func NewStandardFireControl(board combat.Board, rules Rules) *StandardFireControl {
	if rules == nil {
		rules = StandardRules{}
	}
	return &StandardFireControl{board: board, rules: rules}
}

func (fc *StandardFireControl) Name() string { return "standard" }

func (fc *StandardFireControl) MaxDamageAtRange(shooter combat.Armed, path combat.MovePath, distance int, useExtremeRange, useLOSRange bool) (float64, error) {
	est, err := fc.EstimateDamage(shooter, path, distance, useExtremeRange, useLOSRange)
	if err != nil {
		return 0, err
	}
	return est.Total, nil
}

func (fc *StandardFireControl) EstimateDamage(shooter combat.Armed, path combat.MovePath, distance int, useExtremeRange, useLOSRange bool) (DamageEstimate, error) {
	if _, _, err := resolveTarget(fc.board, shooter, path, distance); err != nil {
		return DamageEstimate{}, err
	}

	est := DamageEstimate{FireControl: fc.Name()}
	for _, m := range shooter.Weapons() {
		wd := WeaponDamage{Location: m.Location}
		if m.Type == nil {
			wd.Skipped = skipNoType
			logSkipped(wd)
			est.Weapons = append(est.Weapons, wd)
			continue
		}
		wd.Weapon = m.Type.Name
		if m.Destroyed {
			wd.Skipped = skipDestroyed
			est.Weapons = append(est.Weapons, wd)
			continue
		}
		if !m.Type.HasRangeData() {
			wd.Skipped = skipNoRangeData
			logSkipped(wd)
			est.Weapons = append(est.Weapons, wd)
			continue
		}

		wd.Bracket = fc.rules.RangeBracket(distance, m.Type.Ranges, useExtremeRange, useLOSRange)
		if wd.Bracket == combat.RangeOut {
			wd.Skipped = skipOutOfRange
			est.Weapons = append(est.Weapons, wd)
			continue
		}
		base, ok := m.Type.BaseDamage()
		if !ok {
			wd.Skipped = skipNoDamage
			logSkipped(wd)
			est.Weapons = append(est.Weapons, wd)
			continue
		}
		wd.Regime = RegimeNonInfantryTarget
		wd.Damage = base
		est.General += base
		est.Weapons = append(est.Weapons, wd)
	}
	est.Total = est.General
	return est, nil
}
