package features

import (
	"math"

	"estimmo/pkg/contracts/domain"
)

// Thresholds for the size-segment indicator features.
const (
	SmallUnitSurface = 40
	LargeUnitSurface = 120
	LandPresenceArea = 50
)

// BaseYear anchors the year-offset feature.
const BaseYear = 2020

// Input is the raw property description the feature vector derives from.
// It is produced either from a cleaned transaction (training) or from an
// estimation request (serving); both paths go through the same derivation.
type Input struct {
	Surface      float64
	Rooms        int
	Land         float64
	Department   string
	PropertyType domain.PropertyType
	Month        int
	Year         int
	Recent       bool
}

// FromTransaction builds a feature input from a cleaned transaction.
func FromTransaction(tx domain.Transaction) Input {
	return Input{
		Surface:      tx.Surface,
		Rooms:        tx.Rooms,
		Land:         tx.Land,
		Department:   tx.Department,
		PropertyType: tx.PropertyType,
		Month:        tx.Month,
		Year:         tx.Year,
		Recent:       tx.Recent,
	}
}

// FromRequest builds a feature input from an estimation request. Requests
// carry no sale date, so the reference month and year stand in for it: the
// estimate is "as of" that period.
func FromRequest(req domain.EstimateRequest, refMonth, refYear int) Input {
	return Input{
		Surface:      req.Surface,
		Rooms:        req.Rooms,
		Land:         req.Land,
		Department:   departmentOf(req.PostalCode),
		PropertyType: req.PropertyType,
		Month:        refMonth,
		Year:         refYear,
		Recent:       req.Recent,
	}
}

func departmentOf(postalCode string) string {
	if len(postalCode) < 2 {
		return ""
	}
	return postalCode[:2]
}

// Names returns the feature column names in vector order. The bundle
// records this list; the trainer refuses to run against a bundle or input
// whose columns disagree.
func Names() []string {
	return []string{
		"surface",
		"rooms",
		"land",
		"has_land",
		"surface_per_room",
		"log_surface",
		"surface_x_rooms",
		"small_unit",
		"large_unit",
		"department",
		"property_type",
		"recent",
		"season_sin",
		"season_cos",
		"year_offset",
	}
}

// Deriver turns inputs into numeric feature vectors using the fitted
// categorical encoders.
type Deriver struct {
	Department *Encoder
	Type       *Encoder
}

// Vector derives the feature vector for one input. Order matches Names.
func (d *Deriver) Vector(in Input) []float64 {
	rooms := float64(in.Rooms)
	if rooms < 1 {
		rooms = 1
	}

	hasLand := 0.0
	if in.Land > LandPresenceArea {
		hasLand = 1
	}
	smallUnit := 0.0
	if in.Surface < SmallUnitSurface {
		smallUnit = 1
	}
	largeUnit := 0.0
	if in.Surface > LargeUnitSurface {
		largeUnit = 1
	}
	recent := 0.0
	if in.Recent {
		recent = 1
	}

	// Cyclical encoding keeps December adjacent to January.
	angle := 2 * math.Pi * float64(in.Month) / 12

	return []float64{
		in.Surface,
		rooms,
		in.Land,
		hasLand,
		in.Surface / rooms,
		math.Log1p(in.Surface),
		in.Surface * rooms,
		smallUnit,
		largeUnit,
		float64(d.Department.Transform(in.Department)),
		float64(d.Type.Transform(string(in.PropertyType))),
		recent,
		math.Sin(angle),
		math.Cos(angle),
		float64(in.Year - BaseYear),
	}
}

// Matrix derives feature vectors for a batch of inputs.
func (d *Deriver) Matrix(inputs []Input) [][]float64 {
	rows := make([][]float64, len(inputs))
	for i, in := range inputs {
		rows[i] = d.Vector(in)
	}
	return rows
}
