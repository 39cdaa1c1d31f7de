package pricing

import (
	"errors"
	"fmt"

	"srburger-api/catalog"
	"srburger-api/promotion"

	"github.com/shopspring/decimal"
)

var (
	ErrToppingNotAllowed = errors.New("topping not available for this item")
	ErrInvalidExtra      = errors.New("invalid extra")
	ErrInvalidSide       = errors.New("invalid side")
	ErrNotCustomizable   = errors.New("item cannot be customized")
	ErrSlotMismatch      = errors.New("combo choices do not match its slots")
	ErrIneligible        = errors.New("item is not eligible for this combo slot")
)

// ExtraQty is a menu extra or drink attached to an item.
type ExtraQty struct {
	Item     catalog.MenuItem `json:"item"`
	Quantity int              `json:"quantity"`
}

// Addons are the optional paid additions to one customizable item.
type Addons struct {
	Toppings []catalog.Topping `json:"toppings,omitempty"`
	Sides    []catalog.Side    `json:"sides,omitempty"`
	Extras   []ExtraQty        `json:"extras,omitempty"`
}

func (a Addons) Empty() bool {
	return len(a.Toppings) == 0 && len(a.Sides) == 0 && len(a.Extras) == 0
}

// ComboChoice fills one combo slot.
type ComboChoice struct {
	Item catalog.MenuItem `json:"item"`
	Addons
}

// Engine computes unit prices. Every price it returns is rounded to whole
// currency units exactly once, after all components are summed.
type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Side builds a priced side from the menu's side options.
func (e *Engine) Side(kind catalog.SideKind, style string) (catalog.Side, error) {
	opt, err := e.catalog.Side(kind)
	if err != nil {
		return catalog.Side{}, fmt.Errorf("%w: %v", ErrInvalidSide, err)
	}
	if !opt.AcceptsStyle(style) {
		return catalog.Side{}, fmt.Errorf("%w: style %q for %s", ErrInvalidSide, style, kind)
	}
	return catalog.Side{Kind: kind, Style: style, Price: opt.Price}, nil
}

func (e *Engine) PriceSimple(p promotion.Promoted) decimal.Decimal {
	return p.EffectivePrice.Round(0)
}

// PriceCustomized is the promoted base price plus toppings, sides and extras.
func (e *Engine) PriceCustomized(p promotion.Promoted, a Addons) (decimal.Decimal, error) {
	if !a.Empty() && !p.Customizable {
		return decimal.Zero, fmt.Errorf("%s: %w", p.Name, ErrNotCustomizable)
	}
	if err := e.validate(p.Category, a); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", p.Name, err)
	}
	total := p.EffectivePrice.Add(addonsCost(a, p.ToppingPrice))
	return total.Round(0), nil
}

// PriceCombo prices a combo from catalog prices only: the headline price, the
// upgrade over the baseline burger or hotdog for each slot, and each slot's add-ons.
// The included side carries no cost whatever its style.
func (e *Engine) PriceCombo(combo catalog.Combo, burgers, hotdogs []ComboChoice) (decimal.Decimal, error) {
	if len(burgers) != combo.BurgerSlots || len(hotdogs) != combo.HotdogSlots {
		return decimal.Zero, fmt.Errorf("%s: %w: want %d burgers and %d hotdogs, got %d and %d",
			combo.Name, ErrSlotMismatch, combo.BurgerSlots, combo.HotdogSlots, len(burgers), len(hotdogs))
	}

	total := combo.Price
	baseBurger := e.catalog.BaselineBurger().Price
	for _, ch := range burgers {
		if !combo.AcceptsBurger(ch.Item.ID) {
			return decimal.Zero, fmt.Errorf("%s: burger %d: %w", combo.Name, ch.Item.ID, ErrIneligible)
		}
		if err := e.validate(catalog.CategoryBurger, ch.Addons); err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", ch.Item.Name, err)
		}
		total = total.Add(UpgradeCost(ch.Item.Price, baseBurger)).Add(addonsCost(ch.Addons, listPrice))
	}

	baseHotdog := e.catalog.BaselineHotdog().Price
	for _, ch := range hotdogs {
		if !combo.AcceptsHotdog(ch.Item.ID) {
			return decimal.Zero, fmt.Errorf("%s: hotdog %d: %w", combo.Name, ch.Item.ID, ErrIneligible)
		}
		if err := e.validate(catalog.CategoryHotDog, ch.Addons); err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", ch.Item.Name, err)
		}
		total = total.Add(UpgradeCost(ch.Item.Price, baseHotdog)).Add(addonsCost(ch.Addons, listPrice))
	}
	return total.Round(0), nil
}

// UpgradeCost is max(0, selected - baseline).
func UpgradeCost(selected, baseline decimal.Decimal) decimal.Decimal {
	d := selected.Sub(baseline)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func (e *Engine) validate(cat catalog.Category, a Addons) error {
	for _, t := range a.Toppings {
		if !t.AppliesToCategory(cat) {
			return fmt.Errorf("%w: %s", ErrToppingNotAllowed, t.Name)
		}
	}
	kinds := map[catalog.SideKind]bool{}
	for _, s := range a.Sides {
		opt, err := e.catalog.Side(s.Kind)
		if err != nil || !opt.AcceptsStyle(s.Style) || s.Price.IsNegative() {
			return fmt.Errorf("%w: %s", ErrInvalidSide, s.Kind)
		}
		if kinds[s.Kind] {
			return fmt.Errorf("%w: %s chosen twice", ErrInvalidSide, s.Kind)
		}
		kinds[s.Kind] = true
	}
	for _, x := range a.Extras {
		if !x.Item.Category.AddOn() || x.Quantity < 1 {
			return fmt.Errorf("%w: %s x%d", ErrInvalidExtra, x.Item.Name, x.Quantity)
		}
	}
	return nil
}

func listPrice(t catalog.Topping) decimal.Decimal { return t.Price }

func addonsCost(a Addons, toppingPrice func(catalog.Topping) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.Toppings {
		sum = sum.Add(toppingPrice(t))
	}
	for _, s := range a.Sides {
		sum = sum.Add(s.Price)
	}
	for _, x := range a.Extras {
		sum = sum.Add(x.Item.Price.Mul(decimal.NewFromInt(int64(x.Quantity))))
	}
	return sum
}
