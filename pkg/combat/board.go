package combat

import (
	"errors"
	"fmt"
)

var (
	ErrNoBoard  = errors.New("no board")
	ErrOffBoard = errors.New("coordinates are off the board")
	ErrNoEntity = errors.New("path has no entity")
)

// Coords is a hex position in offset coordinates.
type Coords struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Coords) String() string { return fmt.Sprintf("%02d%02d", c.X, c.Y) }

// Terrain is a kind of terrain feature a hex may contain.
type Terrain int

const (
	Woods Terrain = iota + 1
	Jungle
	Rough
	Rubble
	Swamp
	Water
	Pavement
	Road
	FuelTank
	Fortified
	BuildingTerrain   // level is the building type
	BuildingElevation // level is the building height above the hex
	BasementType      // level is the basement depth
)

var terrainNames = map[Terrain]string{
	Woods:             "woods",
	Jungle:            "jungle",
	Rough:             "rough",
	Rubble:            "rubble",
	Swamp:             "swamp",
	Water:             "water",
	Pavement:          "pavement",
	Road:              "road",
	FuelTank:          "fuel_tank",
	Fortified:         "fortified",
	BuildingTerrain:   "building",
	BuildingElevation: "bldg_elev",
	BasementType:      "bldg_basement",
}

func (t Terrain) String() string { return terrainNames[t] }

// ParseTerrain converts a terrain name to its value.
func ParseTerrain(s string) (Terrain, bool) {
	for t, name := range terrainNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Hex is one board hex: its ground level and the terrain it contains.
type Hex struct {
	Level   int
	Terrain map[Terrain]int
}

// NewHex creates a hex with the given terrain features at level 1 each.
func NewHex(level int, features ...Terrain) *Hex {
	h := &Hex{Level: level, Terrain: make(map[Terrain]int, len(features))}
	for _, f := range features {
		h.Terrain[f] = 1
	}
	return h
}

func (h *Hex) ContainsTerrain(t Terrain) bool {
	_, ok := h.Terrain[t]
	return ok
}

// TerrainLevel returns the level of a feature, or 0 when absent.
func (h *Hex) TerrainLevel(t Terrain) int {
	return h.Terrain[t]
}

// BuildingType is the construction class of a building.
type BuildingType int

const (
	BuildingLight BuildingType = iota + 1
	BuildingMedium
	BuildingHeavy
	BuildingHardened
)

func (b BuildingType) String() string {
	switch b {
	case BuildingLight:
		return "light"
	case BuildingMedium:
		return "medium"
	case BuildingHeavy:
		return "heavy"
	case BuildingHardened:
		return "hardened"
	}
	return "unknown"
}

// ParseBuildingType converts a construction class name to its value.
func ParseBuildingType(s string) (BuildingType, bool) {
	for b := BuildingLight; b <= BuildingHardened; b++ {
		if b.String() == s {
			return b, true
		}
	}
	return 0, false
}

// Building is a structure covering one or more hexes.
type Building struct {
	ID   string
	Name string
	Type BuildingType
}

// DamageReductionFromOutside is the fraction of an outside attack's damage
// that reaches infantry sheltering inside.
func (b *Building) DamageReductionFromOutside() float64 {
	switch b.Type {
	case BuildingLight:
		return 0.75
	case BuildingMedium:
		return 0.5
	case BuildingHeavy:
		return 0.25
	}
	return 0
}

// Board is the read-only terrain view the combat rules query.
type Board interface {
	// Hex returns nil when the coordinates are off the board.
	Hex(c Coords) *Hex
	// BuildingAt returns nil when no building covers the coordinates.
	BuildingAt(c Coords) *Building
}

// Grid is a map-backed Board. It is not safe for concurrent mutation; build
// it fully before sharing it with planners.
type Grid struct {
	Width     int
	Height    int
	hexes     map[Coords]*Hex
	buildings map[Coords]*Building
}

// NewGrid creates a board of clear level-0 hexes.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:     width,
		Height:    height,
		hexes:     make(map[Coords]*Hex),
		buildings: make(map[Coords]*Building),
	}
}

func (g *Grid) contains(c Coords) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

// Hex returns the hex at c, a clear hex if none was set, or nil off-board.
func (g *Grid) Hex(c Coords) *Hex {
	if !g.contains(c) {
		return nil
	}
	if h, ok := g.hexes[c]; ok {
		return h
	}
	return NewHex(0)
}

// SetHex replaces the hex at c.
func (g *Grid) SetHex(c Coords, h *Hex) error {
	if !g.contains(c) {
		return fmt.Errorf("set hex %s: %w", c, ErrOffBoard)
	}
	g.hexes[c] = h
	return nil
}

func (g *Grid) BuildingAt(c Coords) *Building {
	return g.buildings[c]
}

// AddBuilding places b over the given hexes with the given height, adding
// the building terrain to each hex.
func (g *Grid) AddBuilding(b *Building, height int, at ...Coords) error {
	for _, c := range at {
		h := g.Hex(c)
		if h == nil {
			return fmt.Errorf("add building %s at %s: %w", b.ID, c, ErrOffBoard)
		}
		cp := &Hex{Level: h.Level, Terrain: make(map[Terrain]int, len(h.Terrain)+2)}
		for t, lvl := range h.Terrain {
			cp.Terrain[t] = lvl
		}
		cp.Terrain[BuildingTerrain] = int(b.Type)
		cp.Terrain[BuildingElevation] = height
		g.hexes[c] = cp
		g.buildings[c] = b
	}
	return nil
}

// Buildings returns each building with the hexes it covers.
func (g *Grid) Buildings() map[*Building][]Coords {
	out := make(map[*Building][]Coords)
	for c, b := range g.buildings {
		out[b] = append(out[b], c)
	}
	return out
}

// Hexes returns every explicitly set hex.
func (g *Grid) Hexes() map[Coords]*Hex {
	out := make(map[Coords]*Hex, len(g.hexes))
	for c, h := range g.hexes {
		out[c] = h
	}
	return out
}
