package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freeeve/salvo/pkg/combat"
)

func weapon(t *testing.T, name string) *combat.WeaponType {
	t.Helper()
	w, ok := combat.NewCatalog(combat.StandardWeapons()).Lookup(name)
	require.True(t, ok, "weapon %q not in catalog", name)
	return w
}

func mounts(ws ...*combat.WeaponType) []combat.Mounted {
	out := make([]combat.Mounted, len(ws))
	for i, w := range ws {
		out[i] = combat.Mounted{Type: w, Location: "RA"}
	}
	return out
}

func mech(ws ...*combat.WeaponType) *combat.Unit {
	return &combat.Unit{ID: "mech", EType: combat.ETypeMech, Mounts: mounts(ws...)}
}

func platoon(troopers int, ws ...*combat.WeaponType) *combat.Unit {
	return &combat.Unit{ID: "platoon", EType: combat.ETypeInfantry, Troopers: troopers, Mounts: mounts(ws...)}
}

func pathTo(u combat.Entity, x, y, elev int) combat.PathEnd {
	return combat.PathEnd{Unit: u, Coords: combat.Coords{X: x, Y: y}, Elevation: elev}
}

// bareShooter is an armed entity that exposes no infantry details.
type bareShooter struct {
	etype  combat.EntityType
	mounts []combat.Mounted
}

func (b *bareShooter) HasEType(t combat.EntityType) bool { return b.etype&t != 0 }
func (b *bareShooter) Weapons() []combat.Mounted        { return b.mounts }

// countingRules forwards to StandardRules and counts the calls made.
type countingRules struct {
	StandardRules
	brackets   int
	inBuilding int
	inOpen     int
	directBlow int
}

func (r *countingRules) RangeBracket(d int, t combat.RangeTable, ext, los bool) combat.RangeBracket {
	r.brackets++
	return r.StandardRules.RangeBracket(d, t, ext, los)
}

func (r *countingRules) IsInBuilding(b combat.Board, elev int, c combat.Coords) bool {
	r.inBuilding++
	return r.StandardRules.IsInBuilding(b, elev, c)
}

func (r *countingRules) InfantryInOpen(t combat.Entity, h *combat.Hex, b combat.Board, p, a, i bool) bool {
	r.inOpen++
	return r.StandardRules.InfantryInOpen(t, h, b, p, a, i)
}

func (r *countingRules) DirectBlowInfantryDamage(d float64, mos int, c combat.InfantryDamageClass, m, tb bool) float64 {
	r.directBlow++
	return r.StandardRules.DirectBlowInfantryDamage(d, mos, c, m, tb)
}

func TestInfantryWeaponScalesWithTroopers(t *testing.T) {
	rifle := &combat.WeaponType{
		Name: "Test Rifle", Ranges: combat.InfantryRangeTable(1), Damage: combat.DamageVariable,
		Flags: combat.FlagInfantry, InfantryDamage: 0.6, InfantryDamageClass: combat.ClassNone,
	}
	board := combat.NewGrid(10, 10)
	shooter := platoon(10, rifle)
	target := mech()

	fc := NewInfantryFireControl(board, nil)
	est, err := fc.EstimateDamage(shooter, pathTo(target, 1, 1, 0), 1, false, false)
	require.NoError(t, err)
	require.InDelta(t, 6.0, est.InfantryWeapon, 1e-9)
	require.InDelta(t, 6.0, est.Total, 1e-9)
	require.Zero(t, est.General)
	require.Len(t, est.Weapons, 1)
	require.Equal(t, RegimeInfantryWeapon, est.Weapons[0].Regime)
}

func TestInfantryWeaponIgnoresTargetAndCover(t *testing.T) {
	rifle := &combat.WeaponType{
		Name: "Test Rifle", Ranges: combat.InfantryRangeTable(1), Damage: combat.DamageVariable,
		Flags: combat.FlagInfantry, InfantryDamage: 0.6, InfantryDamageClass: combat.ClassNone,
	}
	board := combat.NewGrid(10, 10)
	require.NoError(t, board.SetHex(combat.Coords{X: 4, Y: 4}, combat.NewHex(0, combat.Woods)))
	bldg := &combat.Building{ID: "b1", Type: combat.BuildingHeavy}
	require.NoError(t, board.AddBuilding(bldg, 3, combat.Coords{X: 5, Y: 5}))

	tests := []struct {
		name   string
		target *combat.Unit
		at     combat.Coords
	}{
		{"platoon in the open", platoon(28), combat.Coords{X: 2, Y: 2}},
		{"platoon in a heavy building", platoon(28), combat.Coords{X: 5, Y: 5}},
		{"platoon in woods", platoon(28), combat.Coords{X: 4, Y: 4}},
		{"battle armor", &combat.Unit{EType: combat.ETypeInfantry | combat.ETypeBattleArmor, Squad: true, Troopers: 4}, combat.Coords{X: 2, Y: 2}},
		{"tank", &combat.Unit{EType: combat.ETypeTank}, combat.Coords{X: 2, Y: 2}},
		{"mech", mech(), combat.Coords{X: 2, Y: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := NewInfantryFireControl(board, nil).EstimateDamage(platoon(10, rifle), pathTo(tt.target, tt.at.X, tt.at.Y, 0), 1, false, false)
			require.NoError(t, err)
			require.InDelta(t, 6.0, est.Total, 1e-9)
			require.InDelta(t, 6.0, est.InfantryWeapon, 1e-9)
			require.Equal(t, RegimeInfantryWeapon, est.Weapons[0].Regime)
		})
	}
}

func TestNilUnitInInterfaceIsRejected(t *testing.T) {
	board := combat.NewGrid(10, 10)
	fc := NewInfantryFireControl(board, nil)

	var shooter *combat.Unit
	_, err := fc.EstimateDamage(shooter, pathTo(platoon(28), 1, 1, 0), 1, false, false)
	require.ErrorIs(t, err, ErrNilShooter)

	var target *combat.Unit
	_, err = fc.EstimateDamage(mech(weapon(t, "Medium Laser")), pathTo(target, 1, 1, 0), 1, false, false)
	require.ErrorIs(t, err, ErrInvalidTargetPath)
	require.ErrorIs(t, err, combat.ErrNoEntity)
}

func TestInfantryTotalIsMaxNotSum(t *testing.T) {
	board := combat.NewGrid(10, 10)
	// 10 x 0.52 = 5.2 from the rifle; the machine gun against a platoon in
	// the open is 2 x 7 (expected 2d6) = 14.
	shooter := platoon(10, weapon(t, "Auto-Rifle"), weapon(t, "Machine Gun"))
	target := platoon(21)

	fc := NewInfantryFireControl(board, nil)
	est, err := fc.EstimateDamage(shooter, pathTo(target, 2, 2, 0), 1, false, false)
	require.NoError(t, err)
	require.InDelta(t, 5.2, est.InfantryWeapon, 1e-9)
	require.InDelta(t, 14.0, est.General, 1e-9)
	require.InDelta(t, 14.0, est.Total, 1e-9)

	got, err := fc.MaxDamageAtRange(shooter, pathTo(target, 2, 2, 0), 1, false, false)
	require.NoError(t, err)
	require.Equal(t, est.Total, got)
}

func TestPlatoonInOpenTakesDoubleDirectBlow(t *testing.T) {
	board := combat.NewGrid(10, 10)
	shooter := mech(weapon(t, "Medium Laser"))
	target := platoon(28)

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 3, 3, 0), 3, false, false)
	require.NoError(t, err)
	want := 2 * combat.DirectBlowInfantryDamage(5, 0, combat.ClassDirectFire, false, false)
	require.InDelta(t, want, est.Total, 1e-9)
	require.Equal(t, RegimeInfantryInOpen, est.Weapons[0].Regime)
	require.Equal(t, combat.RangeShort, est.Weapons[0].Bracket)
}

func TestInfantryInCoverTakesSingleDirectBlow(t *testing.T) {
	board := combat.NewGrid(10, 10)
	require.NoError(t, board.SetHex(combat.Coords{X: 4, Y: 4}, combat.NewHex(0, combat.Woods)))
	shooter := mech(weapon(t, "Machine Gun"))
	target := platoon(28)

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 4, 4, 0), 1, false, false)
	require.NoError(t, err)
	require.InDelta(t, 7.0, est.Total, 1e-9)
	require.Equal(t, RegimeInfantryInCover, est.Weapons[0].Regime)
}

func TestSquadIsNeverInOpen(t *testing.T) {
	board := combat.NewGrid(10, 10)
	shooter := mech(weapon(t, "Machine Gun"))
	target := &combat.Unit{EType: combat.ETypeInfantry, Squad: true, Troopers: 7}

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 1, 1, 0), 1, false, false)
	require.NoError(t, err)
	require.Equal(t, RegimeInfantryInCover, est.Weapons[0].Regime)
	require.InDelta(t, 7.0, est.Total, 1e-9)
}

func TestMechanizedInfantryHalvesDirectBlow(t *testing.T) {
	board := combat.NewGrid(10, 10)
	shooter := mech(weapon(t, "Machine Gun"))
	target := &combat.Unit{EType: combat.ETypeInfantry, Mode: combat.MoveWheeled, Troopers: 20}

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 1, 1, 0), 1, false, false)
	require.NoError(t, err)
	// ceil(7/2) = 4, doubled in the open.
	require.InDelta(t, 8.0, est.Total, 1e-9)
}

func TestInfantryInBuildingUsesDamageReduction(t *testing.T) {
	board := combat.NewGrid(10, 10)
	bldg := &combat.Building{ID: "b1", Type: combat.BuildingMedium}
	require.NoError(t, board.AddBuilding(bldg, 2, combat.Coords{X: 5, Y: 5}))
	shooter := mech(weapon(t, "Medium Laser"))
	target := platoon(28)

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 5, 5, 0), 3, false, false)
	require.NoError(t, err)
	require.InDelta(t, 2.5, est.Total, 1e-9)
	require.Equal(t, RegimeInfantryInBuilding, est.Weapons[0].Regime)
}

func TestInfantryAboveBuildingIsNotInside(t *testing.T) {
	board := combat.NewGrid(10, 10)
	bldg := &combat.Building{ID: "b1", Type: combat.BuildingMedium}
	require.NoError(t, board.AddBuilding(bldg, 2, combat.Coords{X: 5, Y: 5}))
	shooter := mech(weapon(t, "Medium Laser"))
	target := platoon(28)

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 5, 5, 2), 3, false, false)
	require.NoError(t, err)
	// On the roof the building still provides cover.
	require.Equal(t, RegimeInfantryInCover, est.Weapons[0].Regime)
}

func TestInfantryInBuildingWithoutRecordFails(t *testing.T) {
	board := combat.NewGrid(10, 10)
	hex := combat.NewHex(0)
	hex.Terrain[combat.BuildingElevation] = 2
	require.NoError(t, board.SetHex(combat.Coords{X: 6, Y: 6}, hex))
	shooter := mech(weapon(t, "Medium Laser"))

	_, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(platoon(28), 6, 6, 0), 3, false, false)
	require.ErrorIs(t, err, ErrInvalidTargetPath)
}

func TestBattleArmorTakesRawDamage(t *testing.T) {
	board := combat.NewGrid(10, 10)
	bldg := &combat.Building{ID: "b1", Type: combat.BuildingHeavy}
	require.NoError(t, board.AddBuilding(bldg, 3, combat.Coords{X: 5, Y: 5}))
	shooter := mech(weapon(t, "Medium Laser"), weapon(t, "Large Laser"))
	ba := &combat.Unit{EType: combat.ETypeInfantry | combat.ETypeBattleArmor, Squad: true, Troopers: 4}

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(ba, 5, 5, 0), 4, false, false)
	require.NoError(t, err)
	require.InDelta(t, 13.0, est.Total, 1e-9)
	for _, w := range est.Weapons {
		require.Equal(t, RegimeNonInfantryTarget, w.Regime)
	}
}

func TestInfantryShooterAgainstMech(t *testing.T) {
	board := combat.NewGrid(10, 10)
	shooter := &combat.Unit{
		EType: combat.ETypeInfantry | combat.ETypeBattleArmor, Squad: true, Troopers: 4,
		Mounts: mounts(weapon(t, "BA Tube Artillery")),
	}
	target := mech()

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 1, 1, 0), 2, false, false)
	require.NoError(t, err)
	require.InDelta(t, 3.0, est.Total, 1e-9)
	require.Equal(t, RegimeNonInfantryTarget, est.Weapons[0].Regime)
}

func TestOutOfRangeWeaponsContributeNothing(t *testing.T) {
	board := combat.NewGrid(30, 30)
	shooter := mech(weapon(t, "Medium Laser"), weapon(t, "Large Laser"))
	target := platoon(28)

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 1, 1, 0), 12, false, false)
	require.NoError(t, err)
	// Medium laser tops out at 9; large laser at long range is ceil(0.8) x 2.
	require.InDelta(t, 2.0, est.Total, 1e-9)
	require.Equal(t, skipOutOfRange, est.Weapons[0].Skipped)
	require.Equal(t, RegimeNone, est.Weapons[0].Regime)

	est, err = NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 1, 1, 0), 12, true, false)
	require.NoError(t, err)
	require.InDelta(t, 4.0, est.Total, 1e-9)
	require.Equal(t, combat.RangeExtreme, est.Weapons[0].Bracket)
}

func TestUnsupportedWeaponIsSkipped(t *testing.T) {
	board := combat.NewGrid(10, 10)
	odd := &combat.WeaponType{Name: "Mystery", Ranges: combat.NewRangeTable(0, 3, 6, 9), Damage: combat.DamageSpecial}
	noRange := &combat.WeaponType{Name: "Broken", Damage: 5}
	shooter := mech(odd, noRange, weapon(t, "Medium Laser"))
	shooter.Mounts = append(shooter.Mounts,
		combat.Mounted{Location: "LT"},
		combat.Mounted{Type: weapon(t, "PPC"), Location: "LA", Destroyed: true},
	)
	target := &combat.Unit{EType: combat.ETypeTank}

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 1, 1, 0), 3, false, false)
	require.NoError(t, err)
	require.InDelta(t, 5.0, est.Total, 1e-9)
	require.Len(t, est.Weapons, 5)
	require.Equal(t, skipNoDamage, est.Weapons[0].Skipped)
	require.Equal(t, skipNoRangeData, est.Weapons[1].Skipped)
	require.Empty(t, est.Weapons[2].Skipped)
	require.Equal(t, skipNoType, est.Weapons[3].Skipped)
	require.Equal(t, skipDestroyed, est.Weapons[4].Skipped)
}

func TestInfantryWeaponWithoutTroopCountIsSkipped(t *testing.T) {
	board := combat.NewGrid(10, 10)
	shooter := &bareShooter{etype: combat.ETypeInfantry, mounts: mounts(weapon(t, "Auto-Rifle"))}

	est, err := NewInfantryFireControl(board, nil).EstimateDamage(shooter, pathTo(mech(), 1, 1, 0), 1, false, false)
	require.NoError(t, err)
	require.Zero(t, est.Total)
	require.Equal(t, skipNoTroopCount, est.Weapons[0].Skipped)
}

func TestInvalidInputs(t *testing.T) {
	board := combat.NewGrid(10, 10)
	shooter := mech(weapon(t, "Medium Laser"))
	target := platoon(28)

	tests := []struct {
		name    string
		board   combat.Board
		shooter combat.Armed
		path    combat.MovePath
		dist    int
		want    error
	}{
		{"nil path", board, shooter, nil, 1, ErrInvalidTargetPath},
		{"no entity", board, shooter, pathTo(nil, 1, 1, 0), 1, ErrInvalidTargetPath},
		{"off board", board, shooter, pathTo(target, 40, 1, 0), 1, combat.ErrOffBoard},
		{"nil board", nil, shooter, pathTo(target, 1, 1, 0), 1, combat.ErrNoBoard},
		{"negative range", board, shooter, pathTo(target, 1, 1, 0), -1, ErrInvalidRange},
		{"nil shooter", board, nil, pathTo(target, 1, 1, 0), 1, ErrNilShooter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInfantryFireControl(tt.board, nil).EstimateDamage(tt.shooter, tt.path, tt.dist, false, false)
			require.ErrorIs(t, err, tt.want)
			_, err = NewStandardFireControl(tt.board, nil).EstimateDamage(tt.shooter, tt.path, tt.dist, false, false)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRulesAreQueriedOncePerTarget(t *testing.T) {
	board := combat.NewGrid(10, 10)
	rules := &countingRules{}
	shooter := mech(weapon(t, "Medium Laser"), weapon(t, "Machine Gun"), weapon(t, "Large Laser"))

	_, err := NewInfantryFireControl(board, rules).EstimateDamage(shooter, pathTo(platoon(28), 1, 1, 0), 1, false, false)
	require.NoError(t, err)
	require.Equal(t, 3, rules.brackets)
	require.Equal(t, 1, rules.inBuilding)
	require.Equal(t, 1, rules.inOpen)
	require.Equal(t, 3, rules.directBlow)
}

func TestStandardFireControlSumsBaseDamage(t *testing.T) {
	board := combat.NewGrid(10, 10)
	shooter := mech(weapon(t, "Medium Laser"), weapon(t, "AC/5"), weapon(t, "LRM 10"))
	target := &combat.Unit{EType: combat.ETypeTank}

	est, err := NewStandardFireControl(board, nil).EstimateDamage(shooter, pathTo(target, 1, 1, 0), 5, false, false)
	require.NoError(t, err)
	require.InDelta(t, 10+combat.ExpectedClusterHits(10), est.Total, 1e-9)
	require.Equal(t, "standard", est.FireControl)
}

func TestFireControlFor(t *testing.T) {
	board := combat.NewGrid(1, 1)
	require.Equal(t, "standard", FireControlFor(mech(), mech(), board, nil).Name())
	require.Equal(t, "infantry", FireControlFor(mech(), platoon(10), board, nil).Name())
	require.Equal(t, "infantry", FireControlFor(platoon(10), mech(), board, nil).Name())
	require.Equal(t, "standard", FireControlFor(mech(), nil, board, nil).Name())
}

func TestRegimeString(t *testing.T) {
	require.Equal(t, "infantry_in_open", RegimeInfantryInOpen.String())
	require.Equal(t, "none", RegimeNone.String())
	require.Equal(t, "none", Regime(99).String())
}
