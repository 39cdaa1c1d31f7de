package promotion

import (
	"testing"
	"time"

	"srburger-api/catalog"

	"github.com/shopspring/decimal"
)

func newResolver(t *testing.T) (*Resolver, *catalog.Catalog) {
	t.Helper()
	c := catalog.MustDefault()
	return NewResolver(c, time.UTC), c
}

func TestNoPromotionFridayToSunday(t *testing.T) {
	r, c := newResolver(t)
	for _, day := range []time.Weekday{time.Friday, time.Saturday, time.Sunday} {
		for _, id := range c.ProductIDs() {
			item, err := c.Product(id)
			if err != nil {
				t.Fatalf("product %d: %v", id, err)
			}
			if got := r.Resolve(item, day); got.HasPromotion {
				t.Errorf("%s: %s should not be promoted", day, item.Name)
			}
		}
	}
}

func TestMondayHotdogs(t *testing.T) {
	r, c := newResolver(t)
	for _, item := range c.Items(catalog.CategoryHotDog) {
		got := r.Resolve(item, time.Monday)
		want := item.Price.Mul(decimal.RequireFromString("0.75")).Round(0)
		if !got.EffectivePrice.Equal(want) {
			t.Errorf("%s: effective %s, want %s", item.Name, got.EffectivePrice, want)
		}
		if item.Price.IsPositive() && !got.EffectivePrice.LessThan(item.Price) {
			t.Errorf("%s: effective price not discounted", item.Name)
		}
		if !got.HasPromotion || got.Label == "" {
			t.Errorf("%s: missing promotion label", item.Name)
		}
	}

	jumbo, _ := c.Item(5)
	if got := r.Resolve(jumbo, time.Monday).EffectivePrice; !got.Equal(decimal.NewFromInt(45)) {
		t.Errorf("Hotdog Jumbo on Monday = %s, want 45", got)
	}

	burger, _ := c.Item(1)
	if got := r.Resolve(burger, time.Monday); got.HasPromotion {
		t.Error("burgers are not discounted on Monday")
	}
}

func TestTuesdayFixedPrice(t *testing.T) {
	r, c := newResolver(t)
	bbq, _ := c.Item(2)
	got := r.Resolve(bbq, time.Tuesday)
	if !got.EffectivePrice.Equal(decimal.NewFromInt(100)) || !got.HasPromotion {
		t.Fatalf("BBQ on Tuesday = %s (promoted %v), want 100", got.EffectivePrice, got.HasPromotion)
	}
	if !got.OriginalPrice.Equal(bbq.Price) {
		t.Errorf("original price changed: %s", got.OriginalPrice)
	}

	clasica, _ := c.Item(1)
	if r.Resolve(clasica, time.Tuesday).HasPromotion {
		t.Error("only the target item is promoted on Tuesday")
	}
}

func TestWednesdayFreeSide(t *testing.T) {
	r, c := newResolver(t)
	for _, item := range c.Items(catalog.CategoryBurger) {
		got := r.Resolve(item, time.Wednesday)
		if !got.SideIncludedFree || got.FreeSide == nil {
			t.Errorf("%s: expected a free side", item.Name)
		}
		if !got.EffectivePrice.Equal(item.Price) {
			t.Errorf("%s: price changed to %s", item.Name, got.EffectivePrice)
		}
	}
	dog, _ := c.Item(5)
	if r.Resolve(dog, time.Wednesday).SideIncludedFree {
		t.Error("hotdogs get no free side")
	}
}

func TestThursdayDoubleMeat(t *testing.T) {
	r, c := newResolver(t)
	burger, _ := c.Item(1)
	meat, _ := c.Topping("t6")
	bacon, _ := c.Topping("t1")

	got := r.Resolve(burger, time.Thursday)
	if p := got.ToppingPrice(meat); !p.Equal(decimal.NewFromInt(10)) {
		t.Errorf("double meat on Thursday = %s, want 10", p)
	}
	if p := got.ToppingPrice(bacon); !p.Equal(bacon.Price) {
		t.Errorf("bacon on Thursday = %s, want %s", p, bacon.Price)
	}
	if !got.UpgradeDiscount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("upgrade discount = %s, want 20", got.UpgradeDiscount)
	}
	if !got.EffectivePrice.Equal(burger.Price) {
		t.Errorf("base price changed on Thursday")
	}

	friday := r.Resolve(burger, time.Friday)
	if p := friday.ToppingPrice(meat); !p.Equal(meat.Price) {
		t.Errorf("double meat on Friday = %s, want %s", p, meat.Price)
	}
}

func TestCombosNeverPromoted(t *testing.T) {
	r, c := newResolver(t)
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, combo := range c.Combos() {
			got := r.Resolve(combo.MenuItem, day)
			if got.HasPromotion || !got.EffectivePrice.Equal(combo.Price) {
				t.Errorf("%s on %s: %+v", combo.Name, day, got)
			}
		}
	}
}

func TestTodayUsesLocation(t *testing.T) {
	c := catalog.MustDefault()
	loc := time.FixedZone("CST", -6*60*60)
	r := NewResolver(c, loc)

	// 2024-01-02 03:00 UTC is still Monday evening six hours west.
	at := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	if day := r.Weekday(at); day != time.Monday {
		t.Fatalf("weekday = %s, want Monday", day)
	}
	promo, ok := r.Today(at)
	if !ok || promo.Kind != catalog.PromoCategoryPercentOff {
		t.Fatalf("today = %+v, %v", promo, ok)
	}
}
