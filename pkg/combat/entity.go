package combat

// EntityType is a bit set classifying a unit. A unit may carry more than one
// flag: battle armor is also infantry.
type EntityType uint32

const (
	ETypeMech EntityType = 1 << iota
	ETypeTank
	ETypeInfantry
	ETypeBattleArmor
	ETypeProtomech
	ETypeAero
)

// MoveMode is the movement mode of a unit. For conventional infantry it
// decides whether the unit counts as mechanized.
type MoveMode int

const (
	MoveLeg MoveMode = iota
	MoveJump
	MoveMotorized
	MoveWheeled
	MoveTracked
	MoveHover
	MoveVTOL
	MoveSubmarine
)

func (m MoveMode) String() string {
	switch m {
	case MoveJump:
		return "jump"
	case MoveMotorized:
		return "motorized"
	case MoveWheeled:
		return "wheeled"
	case MoveTracked:
		return "tracked"
	case MoveHover:
		return "hover"
	case MoveVTOL:
		return "vtol"
	case MoveSubmarine:
		return "submarine"
	default:
		return "leg"
	}
}

// ParseMoveMode converts a name produced by MoveMode.String back to a MoveMode.
// Unknown names map to MoveLeg.
func ParseMoveMode(s string) MoveMode {
	for m := MoveLeg; m <= MoveSubmarine; m++ {
		if m.String() == s {
			return m
		}
	}
	return MoveLeg
}

// DugInState tracks how far an infantry unit has entrenched.
type DugInState int

const (
	DugInNone DugInState = iota
	DugInWorking
	DugInComplete
)

// Entity is the minimal read-only view of a unit.
type Entity interface {
	HasEType(t EntityType) bool
}

// Infantry is implemented by entities that expose conventional infantry or
// battle armor details.
type Infantry interface {
	Entity
	IsSquad() bool
	IsMechanized() bool
	TroopCount() int
	DugIn() DugInState
	UrbanGuerrilla() bool
}

// Armed is implemented by entities that carry weapons.
type Armed interface {
	Entity
	Weapons() []Mounted
}

// Positioned is implemented by entities that know where they stand.
type Positioned interface {
	Position() Coords
}

// Unit is the concrete entity used by the service, the CLI and tests.
type Unit struct {
	ID        string
	Name      string
	EType     EntityType
	Mode      MoveMode
	Squad     bool
	Troopers  int
	Dug       DugInState
	Guerrilla bool
	Pos       Coords
	Mounts    []Mounted
}

func (u *Unit) HasEType(t EntityType) bool { return u.EType&t != 0 }

// IsSquad reports whether an infantry unit is squad-sized rather than a platoon.
func (u *Unit) IsSquad() bool { return u.Squad }

// IsMechanized reports whether conventional infantry rides in vehicles.
func (u *Unit) IsMechanized() bool {
	if !u.HasEType(ETypeInfantry) || u.HasEType(ETypeBattleArmor) {
		return false
	}
	switch u.Mode {
	case MoveWheeled, MoveTracked, MoveHover, MoveVTOL, MoveSubmarine:
		return true
	}
	return false
}

// TroopCount returns the surviving troopers of an infantry unit.
func (u *Unit) TroopCount() int { return u.Troopers }

func (u *Unit) DugIn() DugInState    { return u.Dug }
func (u *Unit) UrbanGuerrilla() bool { return u.Guerrilla }
func (u *Unit) Weapons() []Mounted   { return u.Mounts }
func (u *Unit) Position() Coords     { return u.Pos }

// ParseEntityType converts a unit class name to its flags.
func ParseEntityType(s string) (EntityType, bool) {
	switch s {
	case "mech":
		return ETypeMech, true
	case "tank", "vehicle":
		return ETypeTank, true
	case "infantry":
		return ETypeInfantry, true
	case "battle_armor", "battlearmor", "ba":
		return ETypeInfantry | ETypeBattleArmor, true
	case "protomech":
		return ETypeProtomech, true
	case "aero":
		return ETypeAero, true
	}
	return 0, false
}
