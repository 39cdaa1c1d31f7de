package promotion

import (
	"time"

	"srburger-api/catalog"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Promoted is a menu item as it is sold on a given day.
type Promoted struct {
	catalog.MenuItem
	HasPromotion     bool              `json:"has_promotion"`
	Label            string            `json:"promotion_label,omitempty"`
	OriginalPrice    decimal.Decimal   `json:"original_price"`
	EffectivePrice   decimal.Decimal   `json:"effective_price"`
	SideIncludedFree bool              `json:"side_included_free"`
	FreeSide         *catalog.MenuItem `json:"free_side,omitempty"`
	UpgradeDiscount  decimal.Decimal   `json:"upgrade_discount"`

	toppingID    string
	toppingPrice decimal.Decimal
}

// ToppingPrice is the price of a topping when added to this item.
func (p Promoted) ToppingPrice(t catalog.Topping) decimal.Decimal {
	if p.toppingID != "" && t.ID == p.toppingID {
		return p.toppingPrice
	}
	return t.Price
}

// Resolver applies the weekly promotion schedule. It holds no mutable state.
type Resolver struct {
	catalog *catalog.Catalog
	loc     *time.Location
}

func NewResolver(c *catalog.Catalog, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{catalog: c, loc: loc}
}

// Weekday returns the restaurant-local weekday of t.
func (r *Resolver) Weekday(t time.Time) time.Weekday {
	return t.In(r.loc).Weekday()
}

// Active returns the promotion running on day, if any.
func (r *Resolver) Active(day time.Weekday) (catalog.Promotion, bool) {
	return r.catalog.Promotion(day)
}

// Today returns the promotion running at t in restaurant-local time.
func (r *Resolver) Today(t time.Time) (catalog.Promotion, bool) {
	return r.Active(r.Weekday(t))
}

// Resolve returns item as priced on day. Combos are never promoted.
func (r *Resolver) Resolve(item catalog.MenuItem, day time.Weekday) Promoted {
	out := Promoted{
		MenuItem:        item,
		OriginalPrice:   item.Price,
		EffectivePrice:  item.Price,
		UpgradeDiscount: decimal.Zero,
	}
	if item.Category == catalog.CategoryCombo {
		return out
	}
	promo, ok := r.catalog.Promotion(day)
	if !ok {
		return out
	}

	switch promo.Kind {
	case catalog.PromoCategoryPercentOff:
		if item.Category == promo.Category {
			factor := hundred.Sub(promo.Percent).Div(hundred)
			out.EffectivePrice = item.Price.Mul(factor).Round(0)
			out.mark(promo)
		}
	case catalog.PromoFixedPrice:
		if item.ID == promo.TargetItem {
			out.EffectivePrice = promo.NewPrice
			out.mark(promo)
		}
	case catalog.PromoFreeSide:
		if item.Category == promo.Category {
			side, err := r.catalog.Item(promo.FreeItem)
			if err == nil {
				out.SideIncludedFree = true
				out.FreeSide = &side
				out.mark(promo)
			}
		}
	case catalog.PromoDiscountedTopping:
		if item.Category == promo.Category {
			topping, err := r.catalog.Topping(promo.Topping)
			if err == nil {
				out.toppingID = topping.ID
				out.toppingPrice = promo.NewPrice
				out.UpgradeDiscount = topping.Price.Sub(promo.NewPrice)
				out.mark(promo)
			}
		}
	}
	return out
}

func (p *Promoted) mark(promo catalog.Promotion) {
	p.HasPromotion = true
	p.Label = promo.Label
}
