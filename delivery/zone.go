package delivery

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat" binding:"latitude"`
	Lng float64 `json:"lng" binding:"longitude"`
}

type Zone string

const (
	Near       Zone = "near"
	Extended   Zone = "extended"
	OutOfRange Zone = "out_of_range"
)

// Quote is the delivery outcome for one distance. Fee is zero when Zone is OutOfRange.
type Quote struct {
	DistanceKm float64         `json:"distance_km"`
	Zone       Zone            `json:"zone"`
	Fee        decimal.Decimal `json:"fee"`
	Label      string          `json:"label"`
}

func (q Quote) Deliverable() bool { return q.Zone != OutOfRange }

// Calculator prices delivery by great-circle distance from the restaurant.
type Calculator struct {
	Origin   Point
	BaseFee  decimal.Decimal
	PerKmFee decimal.Decimal
	NearKm   float64
	MaxKm    float64
}

// NewCalculator returns a calculator with the standard tariff: 40 up to 4 km,
// then 10 per started kilometre up to 7 km.
func NewCalculator(origin Point) *Calculator {
	return &Calculator{
		Origin:   origin,
		BaseFee:  decimal.NewFromInt(40),
		PerKmFee: decimal.NewFromInt(10),
		NearKm:   4,
		MaxKm:    7,
	}
}

// Distance is the haversine distance in kilometres.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func (c *Calculator) Quote(distanceKm float64) Quote {
	switch {
	case distanceKm <= c.NearKm:
		return Quote{
			DistanceKm: distanceKm,
			Zone:       Near,
			Fee:        c.BaseFee,
			Label:      fmt.Sprintf("Zona 1 (0-%g km)", c.NearKm),
		}
	case distanceKm <= c.MaxKm:
		extra := math.Ceil(distanceKm - c.NearKm)
		return Quote{
			DistanceKm: distanceKm,
			Zone:       Extended,
			Fee:        c.BaseFee.Add(c.PerKmFee.Mul(decimal.NewFromFloat(extra))),
			Label:      fmt.Sprintf("Zona 2 (%.1f km)", distanceKm),
		}
	}
	return Quote{
		DistanceKm: distanceKm,
		Zone:       OutOfRange,
		Fee:        decimal.Zero,
		Label:      "Fuera de cobertura",
	}
}

// QuoteTo quotes delivery from the restaurant to dest.
func (c *Calculator) QuoteTo(dest Point) Quote {
	return c.Quote(Distance(c.Origin, dest))
}
