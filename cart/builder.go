package cart

import (
	"errors"
	"fmt"
	"time"

	"srburger-api/catalog"
	"srburger-api/pricing"
	"srburger-api/promotion"
)

var ErrHidden = errors.New("product is not available right now")

// Visibility reports products the admin has hidden from the storefront.
type Visibility interface {
	Hidden(productID int) bool
}

type SideRequest struct {
	Kind  catalog.SideKind `json:"kind" binding:"required,oneof=fries onion_rings"`
	Style string           `json:"style"`
}

type ExtraRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

type ItemRequest struct {
	ProductID int            `json:"product_id" binding:"required"`
	Quantity  int            `json:"quantity" binding:"omitempty,min=1"`
	Toppings  []string       `json:"toppings"`
	Sides     []SideRequest  `json:"sides" binding:"dive"`
	Extras    []ExtraRequest `json:"extras" binding:"dive"`
}

type ChoiceRequest struct {
	ProductID int            `json:"product_id" binding:"required"`
	Toppings  []string       `json:"toppings"`
	Sides     []SideRequest  `json:"sides" binding:"dive"`
	Extras    []ExtraRequest `json:"extras" binding:"dive"`
}

type ComboRequest struct {
	ComboID    int             `json:"combo_id" binding:"required"`
	Quantity   int             `json:"quantity" binding:"omitempty,min=1"`
	Burgers    []ChoiceRequest `json:"burgers" binding:"dive"`
	Hotdogs    []ChoiceRequest `json:"hotdogs" binding:"dive"`
	FriesStyle string          `json:"fries_style"`
}

// Builder turns id-based requests into priced lines for the current day.
type Builder struct {
	catalog  *catalog.Catalog
	resolver *promotion.Resolver
	engine   *pricing.Engine
	now      func() time.Time
}

func NewBuilder(c *catalog.Catalog, r *promotion.Resolver, e *pricing.Engine) *Builder {
	return &Builder{catalog: c, resolver: r, engine: e, now: time.Now}
}

// WithClock replaces the clock used to pick the day's promotion.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Item prices a product. Requests without add-ons become a SimpleLine.
func (b *Builder) Item(req ItemRequest, vis Visibility) (Line, error) {
	item, err := b.catalog.Item(req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := visible(vis, item); err != nil {
		return nil, err
	}
	addons, err := b.addons(req.Toppings, req.Sides, req.Extras, vis)
	if err != nil {
		return nil, err
	}

	promo := b.resolver.Resolve(item, b.resolver.Weekday(b.now()))
	free := freeSide(promo, vis)
	q := quantity(req.Quantity)

	if addons.Empty() {
		return &SimpleLine{
			priced:   priced{quantity: q, unitPrice: b.engine.PriceSimple(promo)},
			Item:     promo,
			FreeSide: free,
		}, nil
	}
	unit, err := b.engine.PriceCustomized(promo, addons)
	if err != nil {
		return nil, err
	}
	return &CustomizedLine{
		priced:   priced{quantity: q, unitPrice: unit},
		Item:     promo,
		Addons:   addons,
		FreeSide: free,
	}, nil
}

// Combo prices a combo from catalog prices only; the day's promotion never applies.
func (b *Builder) Combo(req ComboRequest, vis Visibility) (*ComboLine, error) {
	combo, err := b.catalog.Combo(req.ComboID)
	if err != nil {
		return nil, err
	}
	if err := visible(vis, combo.MenuItem); err != nil {
		return nil, err
	}
	burgers, err := b.choices(req.Burgers, vis)
	if err != nil {
		return nil, err
	}
	hotdogs, err := b.choices(req.Hotdogs, vis)
	if err != nil {
		return nil, err
	}
	unit, err := b.engine.PriceCombo(combo, burgers, hotdogs)
	if err != nil {
		return nil, err
	}

	side := combo.IncludedSide
	if req.FriesStyle != "" && side.Kind == catalog.SideFries {
		opt, err := b.catalog.Side(catalog.SideFries)
		if err != nil || !opt.AcceptsStyle(req.FriesStyle) {
			return nil, fmt.Errorf("%w: fries style %q", pricing.ErrInvalidSide, req.FriesStyle)
		}
		side.Style = req.FriesStyle
	}

	return &ComboLine{
		priced:       priced{quantity: quantity(req.Quantity), unitPrice: unit},
		Combo:        combo,
		Burgers:      burgers,
		Hotdogs:      hotdogs,
		IncludedSide: side,
	}, nil
}

func (b *Builder) choices(reqs []ChoiceRequest, vis Visibility) ([]pricing.ComboChoice, error) {
	out := make([]pricing.ComboChoice, 0, len(reqs))
	for _, r := range reqs {
		item, err := b.catalog.Item(r.ProductID)
		if err != nil {
			return nil, err
		}
		if err := visible(vis, item); err != nil {
			return nil, err
		}
		addons, err := b.addons(r.Toppings, r.Sides, r.Extras, vis)
		if err != nil {
			return nil, err
		}
		out = append(out, pricing.ComboChoice{Item: item, Addons: addons})
	}
	return out, nil
}

func (b *Builder) addons(toppings []string, sides []SideRequest, extras []ExtraRequest, vis Visibility) (pricing.Addons, error) {
	var a pricing.Addons
	for _, id := range toppings {
		t, err := b.catalog.Topping(id)
		if err != nil {
			return a, err
		}
		a.Toppings = append(a.Toppings, t)
	}
	for _, s := range sides {
		side, err := b.engine.Side(s.Kind, s.Style)
		if err != nil {
			return a, err
		}
		a.Sides = append(a.Sides, side)
	}
	for _, x := range extras {
		item, err := b.catalog.Item(x.ProductID)
		if err != nil {
			return a, err
		}
		if err := visible(vis, item); err != nil {
			return a, err
		}
		a.Extras = append(a.Extras, pricing.ExtraQty{Item: item, Quantity: x.Quantity})
	}
	return a, nil
}

func visible(vis Visibility, item catalog.MenuItem) error {
	if vis != nil && vis.Hidden(item.ID) {
		return fmt.Errorf("%s: %w", item.Name, ErrHidden)
	}
	return nil
}

// freeSide returns the complimentary item for a free-side promotion, unless
// that item has been hidden.
func freeSide(p promotion.Promoted, vis Visibility) *catalog.MenuItem {
	if !p.SideIncludedFree || p.FreeSide == nil {
		return nil
	}
	if vis != nil && vis.Hidden(p.FreeSide.ID) {
		return nil
	}
	side := *p.FreeSide
	return &side
}

func quantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
