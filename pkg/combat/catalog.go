package combat

import "strings"

// StandardWeapons returns a fresh copy of the built-in weapon catalog.
func StandardWeapons() []*WeaponType {
	return []*WeaponType{
		{
			Name: "Medium Laser", InternalName: "ISMediumLaser",
			Ranges: RangeTable{0, 3, 6, 9, 12}, Damage: 5, Heat: 3,
			Flags: FlagDirectFire, InfantryDamageClass: ClassDirectFire,
		},
		{
			Name: "Large Laser", InternalName: "ISLargeLaser",
			Ranges: RangeTable{0, 5, 10, 15, 20}, Damage: 8, Heat: 8,
			Flags: FlagDirectFire, InfantryDamageClass: ClassDirectFire,
		},
		{
			Name: "Medium Pulse Laser", InternalName: "ISMediumPulseLaser",
			Ranges: RangeTable{0, 2, 4, 6, 8}, Damage: 6, Heat: 4,
			Flags: FlagDirectFire, InfantryDamageClass: ClassPulse,
		},
		{
			Name: "PPC", InternalName: "ISPPC",
			Ranges: RangeTable{3, 6, 12, 18, 24}, Damage: 10, Heat: 10,
			Flags: FlagDirectFire, InfantryDamageClass: ClassDirectFire,
		},
		{
			Name: "AC/5", InternalName: "ISAC5",
			Ranges: RangeTable{3, 6, 12, 18, 24}, Damage: 5, Heat: 1,
			Flags: FlagDirectFire, InfantryDamageClass: ClassDirectFire,
		},
		{
			Name: "AC/10", InternalName: "ISAC10",
			Ranges: RangeTable{0, 5, 10, 15, 20}, Damage: 10, Heat: 3,
			Flags: FlagDirectFire, InfantryDamageClass: ClassDirectFire,
		},
		{
			Name: "LB 10-X AC", InternalName: "ISLBXAC10",
			Ranges: RangeTable{0, 6, 12, 18, 24}, Damage: 10, Heat: 2,
			Flags: FlagDirectFire, InfantryDamageClass: ClassClusterBallistic,
		},
		{
			Name: "SRM 4 (I-OS)", InternalName: "ISSRM4IOS",
			Ranges: RangeTable{0, 3, 6, 9, 12}, Damage: DamageByClusterTable,
			RackSize: 4, MissileDamage: 2, Heat: 3,
			Flags: FlagNoFires | FlagOneShot, InfantryDamageClass: ClassClusterMissile,
		},
		{
			Name: "LRM 10", InternalName: "ISLRM10",
			Ranges: RangeTable{6, 7, 14, 21, 28}, Damage: DamageByClusterTable,
			RackSize: 10, MissileDamage: 1, Heat: 4,
			InfantryDamageClass: ClassClusterMissile,
		},
		{
			Name: "Machine Gun", InternalName: "ISMachine Gun",
			Ranges: RangeTable{0, 1, 2, 3, 4}, Damage: 2,
			Flags: FlagDirectFire, InfantryDamageClass: ClassBurst2D6,
		},
		{
			Name: "Flamer", InternalName: "ISFlamer",
			Ranges: RangeTable{0, 1, 2, 3, 4}, Damage: 2, Heat: 3,
			Flags: FlagDirectFire, InfantryDamageClass: ClassBurst4D6,
		},
		{
			Name: "BA Tube Artillery", InternalName: "ISBATubeArtillery",
			Ranges: RangeTable{0, 2, 2, 2, 2}, Damage: DamageArtillery, RackSize: 3,
			Flags: FlagBattleArmor | FlagArtillery, InfantryDamageClass: ClassNone,
		},
		{
			Name: "Auto-Rifle", InternalName: "InfantryAutoRifle",
			Ranges: InfantryRangeTable(1), Damage: DamageVariable,
			Flags: FlagInfantry | FlagDirectFire, InfantryDamage: 0.52,
			InfantryDamageClass: ClassNone,
		},
		{
			Name: "Laser Rifle", InternalName: "InfantryLaserRifle",
			Ranges: InfantryRangeTable(2), Damage: DamageVariable,
			Flags: FlagInfantry | FlagDirectFire, InfantryDamage: 0.37,
			InfantryDamageClass: ClassNone,
		},
		{
			Name: "Support Machine Gun", InternalName: "InfantrySupportMG",
			Ranges: InfantryRangeTable(1), Damage: DamageVariable,
			Flags: FlagInfantry | FlagDirectFire, InfantryDamage: 0.67,
			InfantryDamageClass: ClassNone,
		},
	}
}

// Catalog indexes weapon types by display and internal name, case-insensitively.
type Catalog struct {
	byName map[string]*WeaponType
}

// NewCatalog indexes the given weapons. Later entries win on name clashes.
func NewCatalog(weapons []*WeaponType) *Catalog {
	c := &Catalog{byName: make(map[string]*WeaponType, 2*len(weapons))}
	for _, w := range weapons {
		c.byName[strings.ToLower(w.Name)] = w
		if w.InternalName != "" {
			c.byName[strings.ToLower(w.InternalName)] = w
		}
	}
	return c
}

// Lookup finds a weapon by display or internal name.
func (c *Catalog) Lookup(name string) (*WeaponType, bool) {
	w, ok := c.byName[strings.ToLower(name)]
	return w, ok
}
