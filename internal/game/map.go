package game

import (
	"math"
)

// Position is a map coordinate in the range -worldSize..worldSize on
// each axis.
type Position struct {
	X int32
	Y int32
}

// ToID derives the numeric field/village ID from a position, per spec
// §3: id = (max-y)*(2*max+1) + (max+x+1).
func (p Position) ToID(worldSize int32) uint64 {
	max := int64(worldSize)
	x, y := int64(p.X), int64(p.Y)
	return uint64((max-y)*(2*max+1) + (max + x + 1))
}

// Distance computes the toroidal (wrap-around) Euclidean distance
// between p and other on a world of the given half-width.
func (p Position) Distance(other Position, worldSize int32) uint32 {
	xDiff := int64(p.X) - int64(other.X)
	if xDiff < 0 {
		xDiff = -xDiff
	}
	yDiff := int64(p.Y) - int64(other.Y)
	if yDiff < 0 {
		yDiff = -yDiff
	}
	max := int64(worldSize)
	if xDiff > max {
		xDiff = (2*max + 1) - xDiff
	}
	if yDiff > max {
		yDiff = (2*max + 1) - yDiff
	}
	return uint32(math.Sqrt(float64(xDiff*xDiff + yDiff*yDiff)))
}

// TravelSeconds computes the one-way travel time of an army moving at
// speed fields/hour between positions, scaled by server speed.
func TravelSeconds(from, to Position, worldSize int32, unitSpeed uint16, serverSpeed int8) uint32 {
	if unitSpeed == 0 {
		unitSpeed = 1
	}
	dist := from.Distance(to, worldSize)
	hours := float64(dist) / float64(unitSpeed)
	secs := (hours * 3600.0) / float64(serverSpeed)
	return uint32(math.Max(1, math.Floor(secs)))
}

// ValleyTopology is the number of resource fields of each type a
// valley offers new villages (should sum to 18).
type ValleyTopology struct {
	Lumber uint8
	Clay   uint8
	Iron   uint8
	Crop   uint8
}

// Valley is an unsettled map field a new village can be founded on.
type Valley struct {
	ID       uint64
	Position Position
	Topology ValleyTopology
}

// OasisVariant is the resource type an oasis boosts.
type OasisVariant string

const (
	OasisLumber     OasisVariant = "lumber"
	OasisLumberCrop OasisVariant = "lumber_crop"
	OasisClay       OasisVariant = "clay"
	OasisClayCrop   OasisVariant = "clay_crop"
	OasisIron       OasisVariant = "iron"
	OasisIronCrop   OasisVariant = "iron_crop"
	OasisCrop       OasisVariant = "crop"
	OasisCrop50     OasisVariant = "crop_50"
)

// Oasis is a map field contributing a production bonus to the village
// that has claimed it.
type Oasis struct {
	ID       uint64
	Position Position
	Variant  OasisVariant
}

// MapFieldKind tags which variant of the map_fields tagged union a
// MapField carries (spec §5's "Valley(topology) | Oasis(variant)").
type MapFieldKind string

const (
	FieldValley MapFieldKind = "valley"
	FieldOasis  MapFieldKind = "oasis"
)

// MapField is one row of the world grid: a position plus either a
// Valley or an Oasis payload, and whether a village already occupies it.
type MapField struct {
	ID       uint64
	Position Position
	Kind     MapFieldKind

	Valley Valley
	Oasis  Oasis

	Settled bool // true once a village has been founded on this field
}

// AsValley returns the field's Valley payload, failing if this field
// is not unsettled valley ground.
func (f MapField) AsValley() (Valley, bool) {
	if f.Kind != FieldValley || f.Settled {
		return Valley{}, false
	}
	return f.Valley, true
}

// Bonus returns the production-bonus percentages this oasis contributes.
func (o Oasis) Bonus() ProductionBonus {
	var b ProductionBonus
	switch o.Variant {
	case OasisLumber:
		b.Lumber = 25
	case OasisLumberCrop:
		b.Lumber, b.Crop = 25, 25
	case OasisClay:
		b.Clay = 25
	case OasisClayCrop:
		b.Clay, b.Crop = 25, 25
	case OasisIron:
		b.Iron = 25
	case OasisIronCrop:
		b.Iron, b.Crop = 25, 25
	case OasisCrop:
		b.Crop = 25
	case OasisCrop50:
		b.Crop = 50
	}
	return b
}
