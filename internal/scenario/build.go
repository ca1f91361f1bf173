package scenario

import (
	"fmt"

	"github.com/freeeve/salvo/internal/model"
	"github.com/freeeve/salvo/pkg/combat"
)

// WeaponResolver finds a weapon type by catalog name.
type WeaponResolver func(name string) (*combat.WeaponType, error)

// CatalogResolver resolves names against an in-memory catalog.
func CatalogResolver(c *combat.Catalog) WeaponResolver {
	return func(name string) (*combat.WeaponType, error) {
		if w, ok := c.Lookup(name); ok {
			return w, nil
		}
		return nil, fmt.Errorf("%w: unknown weapon %q", ErrInvalid, name)
	}
}

// BuildBoard constructs a grid from a board spec.
func BuildBoard(spec *model.BoardSpec) (*combat.Grid, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: no board", ErrInvalid)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("%w: board size %dx%d", ErrInvalid, spec.Width, spec.Height)
	}
	g := combat.NewGrid(spec.Width, spec.Height)
	for _, hs := range spec.Hexes {
		h := &combat.Hex{Level: hs.Level, Terrain: make(map[combat.Terrain]int, len(hs.Terrain))}
		for name, lvl := range hs.Terrain {
			t, ok := combat.ParseTerrain(name)
			if !ok {
				return nil, fmt.Errorf("%w: unknown terrain %q", ErrInvalid, name)
			}
			h.Terrain[t] = lvl
		}
		if err := g.SetHex(combat.Coords{X: hs.X, Y: hs.Y}, h); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	for _, bs := range spec.Buildings {
		bt, ok := combat.ParseBuildingType(bs.Type)
		if !ok {
			return nil, fmt.Errorf("%w: building %s has unknown type %q", ErrInvalid, bs.ID, bs.Type)
		}
		if bs.Height <= 0 {
			return nil, fmt.Errorf("%w: building %s has height %d", ErrInvalid, bs.ID, bs.Height)
		}
		b := &combat.Building{ID: bs.ID, Name: bs.Name, Type: bt}
		if err := g.AddBuilding(b, bs.Height, bs.Hexes...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return g, nil
}

// BoardSpecFrom flattens a grid back into a spec.
func BoardSpecFrom(g *combat.Grid) *model.BoardSpec {
	spec := &model.BoardSpec{Width: g.Width, Height: g.Height}
	buildingHexes := make(map[combat.Coords]bool)
	for b, at := range g.Buildings() {
		bs := model.BuildingSpec{ID: b.ID, Name: b.Name, Type: b.Type.String(), Hexes: at}
		if len(at) > 0 {
			bs.Height = g.Hex(at[0]).TerrainLevel(combat.BuildingElevation)
		}
		for _, c := range at {
			buildingHexes[c] = true
		}
		spec.Buildings = append(spec.Buildings, bs)
	}
	for c, h := range g.Hexes() {
		hs := model.HexSpec{X: c.X, Y: c.Y, Level: h.Level, Terrain: make(map[string]int)}
		for t, lvl := range h.Terrain {
			if buildingHexes[c] && (t == combat.BuildingTerrain || t == combat.BuildingElevation) {
				continue
			}
			hs.Terrain[t.String()] = lvl
		}
		if hs.Level == 0 && len(hs.Terrain) == 0 {
			continue
		}
		spec.Hexes = append(spec.Hexes, hs)
	}
	return spec
}

// BuildUnit constructs a unit, resolving its weapons by name.
func BuildUnit(spec model.UnitSpec, resolve WeaponResolver) (*combat.Unit, error) {
	etype, ok := combat.ParseEntityType(spec.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unit %s has unknown type %q", ErrInvalid, spec.ID, spec.Type)
	}
	if spec.Troopers < 0 {
		return nil, fmt.Errorf("%w: unit %s has %d troopers", ErrInvalid, spec.ID, spec.Troopers)
	}
	u := &combat.Unit{
		ID:        spec.ID,
		Name:      spec.Name,
		EType:     etype,
		Mode:      combat.ParseMoveMode(spec.MoveMode),
		Squad:     spec.Squad,
		Troopers:  spec.Troopers,
		Dug:       parseDugIn(spec.DugIn),
		Guerrilla: spec.UrbanGuerrilla,
		Pos:       spec.Position,
	}
	for _, ms := range spec.Weapons {
		wt, err := resolve(ms.Weapon)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", spec.ID, err)
		}
		u.Mounts = append(u.Mounts, combat.Mounted{Type: wt, Location: ms.Location, Destroyed: ms.Destroyed})
	}
	return u, nil
}

// TargetPath builds the path ending where the target spec stands.
func TargetPath(spec model.UnitSpec, resolve WeaponResolver) (combat.PathEnd, error) {
	u, err := BuildUnit(spec, resolve)
	if err != nil {
		return combat.PathEnd{}, err
	}
	return combat.PathEnd{Unit: u, Coords: spec.Position, Elevation: spec.Elevation}, nil
}

func parseDugIn(s string) combat.DugInState {
	switch s {
	case "working":
		return combat.DugInWorking
	case "complete":
		return combat.DugInComplete
	}
	return combat.DugInNone
}
