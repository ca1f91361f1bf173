package combat

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownWeaponFlag  = errors.New("unknown weapon flag")
	ErrUnknownDamageClass = errors.New("unknown infantry damage class")
)

// Damage sentinels for weapons whose damage is not a fixed number.
const (
	DamageByClusterTable = -2
	DamageVariable       = -3
	DamageSpecial        = -4
	DamageArtillery      = -5
)

// WeaponFlag is a bit set of weapon properties.
type WeaponFlag uint32

const (
	FlagInfantry WeaponFlag = 1 << iota // personal weapon carried by conventional troopers
	FlagBattleArmor
	FlagNoFires
	FlagOneShot
	FlagDirectFire
	FlagArtillery
)

var flagNames = []struct {
	flag WeaponFlag
	name string
}{
	{FlagInfantry, "infantry"},
	{FlagBattleArmor, "battle_armor"},
	{FlagNoFires, "no_fires"},
	{FlagOneShot, "one_shot"},
	{FlagDirectFire, "direct_fire"},
	{FlagArtillery, "artillery"},
}

// ParseWeaponFlags ORs together the named flags. An unknown name is an error.
func ParseWeaponFlags(names []string) (WeaponFlag, error) {
	var f WeaponFlag
	for _, n := range names {
		found := false
		for _, fn := range flagNames {
			if fn.name == n {
				f |= fn.flag
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownWeaponFlag, n)
		}
	}
	return f, nil
}

// Names returns the flag names in declaration order.
func (f WeaponFlag) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			out = append(out, fn.name)
		}
	}
	return out
}

// InfantryDamageClass selects the conversion used when a conventional weapon
// hits conventional infantry.
type InfantryDamageClass int

const (
	ClassDirectFire InfantryDamageClass = iota
	ClassClusterBallistic
	ClassPulse
	ClassClusterMissile
	ClassClusterMissile1D6
	ClassClusterMissile2D6
	ClassClusterMissile3D6
	ClassBurstHalfD6
	ClassBurst1D6
	ClassBurst2D6
	ClassBurst3D6
	ClassBurst4D6
	ClassBurst5D6
	ClassBurst6D6
	ClassBurst7D6
	ClassNone
)

var classNames = map[InfantryDamageClass]string{
	ClassDirectFire:        "direct_fire",
	ClassClusterBallistic:  "cluster_ballistic",
	ClassPulse:             "pulse",
	ClassClusterMissile:    "cluster_missile",
	ClassClusterMissile1D6: "cluster_missile_1d6",
	ClassClusterMissile2D6: "cluster_missile_2d6",
	ClassClusterMissile3D6: "cluster_missile_3d6",
	ClassBurstHalfD6:       "burst_half_d6",
	ClassBurst1D6:          "burst_1d6",
	ClassBurst2D6:          "burst_2d6",
	ClassBurst3D6:          "burst_3d6",
	ClassBurst4D6:          "burst_4d6",
	ClassBurst5D6:          "burst_5d6",
	ClassBurst6D6:          "burst_6d6",
	ClassBurst7D6:          "burst_7d6",
	ClassNone:              "none",
}

func (c InfantryDamageClass) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return "none"
}

// ParseInfantryDamageClass converts a class name back to its value. An empty
// name is ClassDirectFire, the class most conventional weapons use; weapons
// that skip the conversion must say "none" explicitly.
func ParseInfantryDamageClass(s string) (InfantryDamageClass, error) {
	if s == "" {
		return ClassDirectFire, nil
	}
	for c, name := range classNames {
		if name == s {
			return c, nil
		}
	}
	return ClassNone, fmt.Errorf("%w: %q", ErrUnknownDamageClass, s)
}

// WeaponType is the static descriptor shared by every mount of a weapon.
type WeaponType struct {
	Name                string
	InternalName        string
	Ranges              RangeTable
	Damage              float64
	RackSize            int
	MissileDamage       float64 // per missile, for cluster-table weapons
	Heat                int
	Flags               WeaponFlag
	InfantryDamage      float64 // per trooper, for FlagInfantry weapons
	InfantryDamageClass InfantryDamageClass
}

func (w *WeaponType) HasFlag(f WeaponFlag) bool { return w.Flags&f != 0 }

// BaseDamage returns the damage a single volley is expected to deal.
// The second result is false when the weapon has no usable damage value.
func (w *WeaponType) BaseDamage() (float64, bool) {
	switch {
	case w.Damage >= 0:
		return w.Damage, true
	case w.Damage == DamageByClusterTable:
		if w.RackSize <= 0 || w.MissileDamage <= 0 {
			return 0, false
		}
		return ExpectedClusterHits(w.RackSize) * w.MissileDamage, true
	case w.Damage == DamageArtillery:
		if w.RackSize <= 0 {
			return 0, false
		}
		return float64(w.RackSize), true
	}
	return 0, false
}

// HasRangeData reports whether the range table describes a firing envelope.
func (w *WeaponType) HasRangeData() bool {
	return w.Ranges.Valid()
}

// Mounted is a weapon installed on a unit.
type Mounted struct {
	Type      *WeaponType
	Location  string
	Destroyed bool
}
