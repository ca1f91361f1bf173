package combat

// MovePath is the resolved movement of a unit; only its end point matters to
// fire control.
type MovePath interface {
	Entity() Entity
	FinalCoords() Coords
	FinalElevation() int
}

// PathEnd is a MovePath reduced to where the unit finishes.
type PathEnd struct {
	Unit      Entity
	Coords    Coords
	Elevation int
}

func (p PathEnd) Entity() Entity      { return p.Unit }
func (p PathEnd) FinalCoords() Coords { return p.Coords }
func (p PathEnd) FinalElevation() int { return p.Elevation }
