package delivery

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

var restaurant = Point{Lat: 17.9950, Lng: -94.5370}

func TestDistanceIdentityAndSymmetry(t *testing.T) {
	points := []Point{
		restaurant,
		{Lat: 18.0300, Lng: -94.5000},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 0, Lng: 0},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(p, p) = %v for %+v", d, p)
		}
		for _, q := range points {
			if math.Abs(Distance(p, q)-Distance(q, p)) > 1e-9 {
				t.Errorf("Distance not symmetric for %+v, %+v", p, q)
			}
		}
	}
}

func TestDistanceKnown(t *testing.T) {
	// one degree of latitude is about 111.19 km on a 6371 km sphere
	got := Distance(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0})
	if math.Abs(got-111.19) > 0.01 {
		t.Errorf("one degree = %.3f km", got)
	}
}

func TestQuoteSteps(t *testing.T) {
	c := NewCalculator(restaurant)
	tests := []struct {
		km   float64
		zone Zone
		fee  int64
	}{
		{0, Near, 40},
		{2.5, Near, 40},
		{4, Near, 40},
		{4.01, Extended, 50},
		{5, Extended, 50},
		{5.2, Extended, 60},
		{6.5, Extended, 70},
		{7, Extended, 70},
		{7.01, OutOfRange, 0},
		{8, OutOfRange, 0},
	}
	for _, tt := range tests {
		q := c.Quote(tt.km)
		if q.Zone != tt.zone || !q.Fee.Equal(decimal.NewFromInt(tt.fee)) {
			t.Errorf("Quote(%v) = %s %s, want %s %d", tt.km, q.Zone, q.Fee, tt.zone, tt.fee)
		}
		if q.Deliverable() != (tt.zone != OutOfRange) {
			t.Errorf("Quote(%v).Deliverable() = %v", tt.km, q.Deliverable())
		}
	}
}

func TestQuoteLabels(t *testing.T) {
	c := NewCalculator(restaurant)
	if l := c.Quote(1).Label; l != "Zona 1 (0-4 km)" {
		t.Errorf("near label = %q", l)
	}
	if l := c.Quote(5.24).Label; l != "Zona 2 (5.2 km)" {
		t.Errorf("extended label = %q", l)
	}
	if l := c.Quote(9).Label; l != "Fuera de cobertura" {
		t.Errorf("out of range label = %q", l)
	}
}

func TestQuoteTo(t *testing.T) {
	c := NewCalculator(restaurant)
	if q := c.QuoteTo(restaurant); q.Zone != Near || q.DistanceKm != 0 {
		t.Errorf("QuoteTo(origin) = %+v", q)
	}
	// about 11 km north
	if q := c.QuoteTo(Point{Lat: 18.095, Lng: -94.537}); q.Deliverable() {
		t.Errorf("QuoteTo(far) = %+v", q)
	}
}
