package model

import (
	"fmt"
	"time"

	"github.com/freeeve/salvo/pkg/combat"
)

// WeaponRecord is a weapon catalog entry as stored and exchanged.
type WeaponRecord struct {
	Name                string    `json:"name" yaml:"name"`
	InternalName        string    `json:"internal_name,omitempty" yaml:"internal_name,omitempty"`
	Ranges              [5]int    `json:"ranges" yaml:"ranges"` // minimum, short, medium, long, extreme
	Damage              float64   `json:"damage" yaml:"damage"`
	RackSize            int       `json:"rack_size,omitempty" yaml:"rack_size,omitempty"`
	MissileDamage       float64   `json:"missile_damage,omitempty" yaml:"missile_damage,omitempty"`
	Heat                int       `json:"heat" yaml:"heat"`
	Flags               []string  `json:"flags,omitempty" yaml:"flags,omitempty"`
	InfantryDamage      float64   `json:"infantry_damage,omitempty" yaml:"infantry_damage,omitempty"`
	InfantryDamageClass string    `json:"infantry_damage_class" yaml:"infantry_damage_class"`
	UpdatedAt           time.Time `json:"updated_at,omitzero" yaml:"-"`
}

// WeaponType converts the record to the rules representation. A record with
// no extreme bound gets twice its long bound. Unknown flag or damage class
// names are an error.
func (r WeaponRecord) WeaponType() (*combat.WeaponType, error) {
	flags, err := combat.ParseWeaponFlags(r.Flags)
	if err != nil {
		return nil, fmt.Errorf("weapon %q: %w", r.Name, err)
	}
	class, err := combat.ParseInfantryDamageClass(r.InfantryDamageClass)
	if err != nil {
		return nil, fmt.Errorf("weapon %q: %w", r.Name, err)
	}
	ranges := combat.RangeTable(r.Ranges)
	if ranges[combat.RangeExtreme] == 0 {
		ranges[combat.RangeExtreme] = 2 * ranges[combat.RangeLong]
	}
	return &combat.WeaponType{
		Name:                r.Name,
		InternalName:        r.InternalName,
		Ranges:              ranges,
		Damage:              r.Damage,
		RackSize:            r.RackSize,
		MissileDamage:       r.MissileDamage,
		Heat:                r.Heat,
		Flags:               flags,
		InfantryDamage:      r.InfantryDamage,
		InfantryDamageClass: class,
	}, nil
}

// WeaponRecordFrom converts a rules weapon type to a record.
func WeaponRecordFrom(w *combat.WeaponType) WeaponRecord {
	return WeaponRecord{
		Name:                w.Name,
		InternalName:        w.InternalName,
		Ranges:              [5]int(w.Ranges),
		Damage:              w.Damage,
		RackSize:            w.RackSize,
		MissileDamage:       w.MissileDamage,
		Heat:                w.Heat,
		Flags:               w.Flags.Names(),
		InfantryDamage:      w.InfantryDamage,
		InfantryDamageClass: w.InfantryDamageClass.String(),
	}
}

// MountSpec places a catalog weapon on a unit.
type MountSpec struct {
	Weapon    string `json:"weapon" yaml:"weapon"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
	Destroyed bool   `json:"destroyed,omitempty" yaml:"destroyed,omitempty"`
}

// UnitSpec describes a unit. For a target, Position and Elevation are where
// its movement path ends.
type UnitSpec struct {
	ID             string        `json:"id" yaml:"id"`
	Name           string        `json:"name,omitempty" yaml:"name,omitempty"`
	Type           string        `json:"type" yaml:"type"` // mech, tank, infantry, battle_armor, protomech, aero
	MoveMode       string        `json:"move_mode,omitempty" yaml:"move_mode,omitempty"`
	Squad          bool          `json:"squad,omitempty" yaml:"squad,omitempty"`
	Troopers       int           `json:"troopers,omitempty" yaml:"troopers,omitempty"`
	DugIn          string        `json:"dug_in,omitempty" yaml:"dug_in,omitempty"` // none, working, complete
	UrbanGuerrilla bool          `json:"urban_guerrilla,omitempty" yaml:"urban_guerrilla,omitempty"`
	Position       combat.Coords `json:"position" yaml:"position"`
	Elevation      int           `json:"elevation,omitempty" yaml:"elevation,omitempty"`
	Weapons        []MountSpec   `json:"weapons,omitempty" yaml:"weapons,omitempty"`
}

// HexSpec is one non-clear hex of a board.
type HexSpec struct {
	X       int            `json:"x" yaml:"x"`
	Y       int            `json:"y" yaml:"y"`
	Level   int            `json:"level,omitempty" yaml:"level,omitempty"`
	Terrain map[string]int `json:"terrain,omitempty" yaml:"terrain,omitempty"`
}

// BuildingSpec is a building and the hexes it covers.
type BuildingSpec struct {
	ID     string          `json:"id" yaml:"id"`
	Name   string          `json:"name,omitempty" yaml:"name,omitempty"`
	Type   string          `json:"type" yaml:"type"` // light, medium, heavy, hardened
	Height int             `json:"height" yaml:"height"`
	Hexes  []combat.Coords `json:"hexes" yaml:"hexes"`
}

// BoardSpec is a board snapshot. Hexes not listed are clear at level 0.
type BoardSpec struct {
	Width     int            `json:"width" yaml:"width"`
	Height    int            `json:"height" yaml:"height"`
	Hexes     []HexSpec      `json:"hexes,omitempty" yaml:"hexes,omitempty"`
	Buildings []BuildingSpec `json:"buildings,omitempty" yaml:"buildings,omitempty"`
}

// EstimateRequest asks for the damage one shooter can do to one target.
// Either Board or GameID (a stored board) must be given. Nil toggles use the
// server defaults.
type EstimateRequest struct {
	GameID          string     `json:"game_id,omitempty"`
	Board           *BoardSpec `json:"board,omitempty"`
	Shooter         UnitSpec   `json:"shooter"`
	Target          UnitSpec   `json:"target"`
	Range           int        `json:"range"`
	UseExtremeRange *bool      `json:"use_extreme_range,omitempty"`
	UseLOSRange     *bool      `json:"use_los_range,omitempty"`
}

// WeaponDamageResult is one weapon's line in an estimate breakdown.
type WeaponDamageResult struct {
	Weapon   string  `json:"weapon"`
	Location string  `json:"location,omitempty"`
	Bracket  string  `json:"bracket,omitempty"`
	Regime   string  `json:"regime"`
	Damage   float64 `json:"damage"`
	Skipped  string  `json:"skipped,omitempty"`
}

// EstimateResult is the response to an EstimateRequest.
type EstimateResult struct {
	FireControl    string               `json:"fire_control"`
	Total          float64              `json:"total"`
	General        float64              `json:"general"`
	InfantryWeapon float64              `json:"infantry_weapon"`
	Weapons        []WeaponDamageResult `json:"weapons"`
	Cached         bool                 `json:"cached"`
}

// PlanTarget is one candidate target of a plan.
type PlanTarget struct {
	ID           string   `json:"id" yaml:"id"`
	Unit         UnitSpec `json:"unit" yaml:"unit"`
	Range        int      `json:"range" yaml:"range"`
	TargetNumber int      `json:"target_number,omitempty" yaml:"target_number,omitempty"`
}

// PlanRequest asks for a ranking of one shooter's targets.
type PlanRequest struct {
	GameID          string       `json:"game_id,omitempty" yaml:"game_id,omitempty"`
	Board           *BoardSpec   `json:"board,omitempty" yaml:"board,omitempty"`
	Shooter         UnitSpec     `json:"shooter" yaml:"shooter"`
	Targets         []PlanTarget `json:"targets" yaml:"targets"`
	UseExtremeRange *bool        `json:"use_extreme_range,omitempty" yaml:"use_extreme_range,omitempty"`
	UseLOSRange     *bool        `json:"use_los_range,omitempty" yaml:"use_los_range,omitempty"`
}

// PlanEntry is a ranked target.
type PlanEntry struct {
	ID             string         `json:"id"`
	ExpectedDamage float64        `json:"expected_damage"`
	HitProbability float64        `json:"hit_probability"`
	Estimate       EstimateResult `json:"estimate"`
}

// PlanRejection is a target that could not be estimated.
type PlanRejection struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// PlanResult is the response to a PlanRequest.
type PlanResult struct {
	GameID    string          `json:"game_id,omitempty"`
	ShooterID string          `json:"shooter_id"`
	Ranked    []PlanEntry     `json:"ranked"`
	Rejected  []PlanRejection `json:"rejected,omitempty"`
}
