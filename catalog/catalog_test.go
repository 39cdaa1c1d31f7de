package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDefaultMenu(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		id    int
		name  string
		price int64
		cat   Category
	}{
		{1, "Clásica", 100, CategoryBurger},
		{2, "BBQ Beacon", 110, CategoryBurger},
		{5, "Hotdog Jumbo", 60, CategoryHotDog},
		{8, "Papas Gajo Medianas", 60, CategoryExtra},
		{21, "Coca-Cola 600ml", 30, CategoryDrink},
		{6, "Combo Pareja", 250, CategoryCombo},
	}
	for _, tt := range tests {
		item, err := c.Product(tt.id)
		if err != nil {
			t.Errorf("Product(%d) error = %v", tt.id, err)
			continue
		}
		if item.Name != tt.name || !item.Price.Equal(decimal.NewFromInt(tt.price)) || item.Category != tt.cat {
			t.Errorf("Product(%d) = %s %s %s", tt.id, item.Name, item.Price, item.Category)
		}
	}

	if c.BaselineBurger().ID != 1 || c.BaselineHotdog().ID != 5 {
		t.Errorf("baselines = %d/%d", c.BaselineBurger().ID, c.BaselineHotdog().ID)
	}
}

func TestLookupMiss(t *testing.T) {
	c := MustDefault()
	if _, err := c.Item(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Item(999) error = %v", err)
	}
	if _, err := c.Combo(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Combo(1) error = %v", err)
	}
	if _, err := c.Topping("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Topping error = %v", err)
	}
	if _, err := c.Item(6); !errors.Is(err, ErrNotFound) {
		t.Error("combos are not plain items")
	}
}

func TestHotdogToppings(t *testing.T) {
	c := MustDefault()
	got := c.ToppingsFor(CategoryHotDog)
	if len(got) != 2 {
		t.Fatalf("hotdog toppings = %d, want 2", len(got))
	}
	for _, top := range got {
		if top.ID != "t7" && top.ID != "t5" {
			t.Errorf("unexpected hotdog topping %s", top.Name)
		}
	}
	if n := len(c.ToppingsFor(CategoryBurger)); n != 5 {
		t.Errorf("burger toppings = %d, want 5", n)
	}
}

func TestComboSavings(t *testing.T) {
	c := MustDefault()
	pareja, err := c.Combo(6)
	if err != nil {
		t.Fatal(err)
	}
	// two Clásicas + medium wedge fries + small onion rings
	if ref := c.ReferencePrice(pareja); !ref.Equal(decimal.NewFromInt(305)) {
		t.Errorf("reference = %s, want 305", ref)
	}
	if s := c.Savings(pareja); !s.Equal(decimal.NewFromInt(55)) {
		t.Errorf("savings = %s, want 55", s)
	}
	for _, combo := range c.Combos() {
		if c.Savings(combo).IsNegative() {
			t.Errorf("%s: negative savings", combo.Name)
		}
	}
}

func TestPromotionSchedule(t *testing.T) {
	c := MustDefault()
	want := map[time.Weekday]PromotionKind{
		time.Monday:    PromoCategoryPercentOff,
		time.Tuesday:   PromoFixedPrice,
		time.Wednesday: PromoFreeSide,
		time.Thursday:  PromoDiscountedTopping,
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		p, ok := c.Promotion(day)
		kind, scheduled := want[day]
		if ok != scheduled || (ok && p.Kind != kind) {
			t.Errorf("%s: got %q (%v), want %q", day, p.Kind, ok, kind)
		}
	}
}

func TestParseRejects(t *testing.T) {
	base := `
baseline: {burger: 1, hotdog: 5}
items:
  - {id: 1, name: A, price: 100, category: burger}
  - {id: 5, name: B, price: 60, category: hotdog}
`
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate id", base + "  - {id: 1, name: C, price: 10, category: extra}\n"},
		{"unknown category", base + "  - {id: 9, name: C, price: 10, category: salad}\n"},
		{"missing baseline", strings.Replace(base, "burger: 1,", "burger: 7,", 1)},
		{"topping for drinks", base + "toppings:\n  - {id: t1, name: X, price: 5, applies_to: [drink]}\n"},
		{"ineligible combo burger", base + "combos:\n  - {id: 6, name: C, price: 100, burger_slots: 1, eligible_burgers: [5]}\n"},
		{"two promotions a day", base + "promotions:\n  - {weekday: 2, kind: fixed_price, target_item: 1, new_price: 90}\n  - {weekday: 2, kind: fixed_price, target_item: 5, new_price: 50}\n"},
		{"unknown promotion", base + "promotions:\n  - {weekday: 2, kind: bogo}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() succeeded, want error")
			}
		})
	}
}
