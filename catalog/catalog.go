package catalog

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned for any id the menu does not define.
var ErrNotFound = errors.New("catalog: not found")

// Category groups menu products
type Category string

const (
	CategoryBurger Category = "burger"
	CategoryHotDog Category = "hotdog"
	CategoryCombo  Category = "combo"
	CategoryExtra  Category = "extra"
	CategoryDrink  Category = "drink"
)

// Categories in menu display order
var Categories = []Category{CategoryBurger, CategoryHotDog, CategoryCombo, CategoryExtra, CategoryDrink}

func (c Category) Valid() bool {
	switch c {
	case CategoryBurger, CategoryHotDog, CategoryCombo, CategoryExtra, CategoryDrink:
		return true
	}
	return false
}

// AddOn reports whether items of this category can be attached to another item as extras.
func (c Category) AddOn() bool {
	return c == CategoryExtra || c == CategoryDrink
}

type MenuItem struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Image        string          `json:"image,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     Category        `json:"category"`
	Customizable bool            `json:"customizable"`
}

// Combo is a bundle with a fixed headline price (MenuItem.Price) and slots
// filled from eligible burgers and hotdogs.
type Combo struct {
	MenuItem
	BurgerSlots     int   `json:"burger_slots"`
	EligibleBurgers []int `json:"eligible_burgers"`
	HotdogSlots     int   `json:"hotdog_slots,omitempty"`
	EligibleHotdogs []int `json:"eligible_hotdogs,omitempty"`
	Bundled         []int `json:"bundled,omitempty"`
	IncludedSide    Side  `json:"included_side"`
}

func (c Combo) AcceptsBurger(id int) bool { return contains(c.EligibleBurgers, id) }

func (c Combo) AcceptsHotdog(id int) bool { return contains(c.EligibleHotdogs, id) }

type Topping struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	AppliesTo   []Category      `json:"applies_to"`
}

func (t Topping) AppliesToCategory(c Category) bool {
	for _, a := range t.AppliesTo {
		if a == c {
			return true
		}
	}
	return false
}

type SideKind string

const (
	SideFries      SideKind = "fries"
	SideOnionRings SideKind = "onion_rings"
)

// SideOption is a priced accompaniment that can be added to a customizable item.
type SideOption struct {
	Kind   SideKind        `json:"kind"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Styles []string        `json:"styles,omitempty"`
}

func (o SideOption) AcceptsStyle(style string) bool {
	if len(o.Styles) == 0 {
		return style == ""
	}
	for _, s := range o.Styles {
		if s == style {
			return true
		}
	}
	return false
}

// Side is a chosen accompaniment. Price is zero for bundled or complimentary sides.
type Side struct {
	Kind  SideKind        `json:"kind"`
	Style string          `json:"style,omitempty"`
	Size  string          `json:"size,omitempty"`
	Price decimal.Decimal `json:"price"`
}

func (s Side) Label() string {
	switch s.Kind {
	case SideFries:
		label := "Papas"
		if s.Style != "" {
			label += " " + s.Style
		}
		if s.Size != "" {
			label += " " + s.Size
		}
		return label
	case SideOnionRings:
		return "Aros de Cebolla"
	}
	return string(s.Kind)
}

type PromotionKind string

const (
	PromoCategoryPercentOff PromotionKind = "category_percent_off"
	PromoFixedPrice         PromotionKind = "fixed_price"
	PromoFreeSide           PromotionKind = "free_side"
	PromoDiscountedTopping  PromotionKind = "discounted_topping"
)

// Promotion is the rule active on one weekday. Which fields matter depends on Kind.
type Promotion struct {
	Weekday    time.Weekday    `json:"weekday"`
	Kind       PromotionKind   `json:"kind"`
	Label      string          `json:"label"`
	Category   Category        `json:"category,omitempty"`
	Percent    decimal.Decimal `json:"percent,omitempty"`
	TargetItem int             `json:"target_item,omitempty"`
	NewPrice   decimal.Decimal `json:"new_price,omitempty"`
	FreeItem   int             `json:"free_item,omitempty"`
	Topping    string          `json:"topping,omitempty"`
}

// Catalog is the read-only menu. It is built once by Load and never mutated.
type Catalog struct {
	items          map[int]MenuItem
	combos         map[int]Combo
	toppings       map[string]Topping
	toppingOrder   []string
	sides          map[SideKind]SideOption
	byCategory     map[Category][]int
	baselineBurger int
	baselineHotdog int
	promotions     map[time.Weekday]Promotion
}

// Item returns a non-combo product.
func (c *Catalog) Item(id int) (MenuItem, error) {
	item, ok := c.items[id]
	if !ok {
		return MenuItem{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return item, nil
}

func (c *Catalog) Combo(id int) (Combo, error) {
	combo, ok := c.combos[id]
	if !ok {
		return Combo{}, fmt.Errorf("combo %d: %w", id, ErrNotFound)
	}
	return combo, nil
}

// Product returns any product, combos included.
func (c *Catalog) Product(id int) (MenuItem, error) {
	if item, ok := c.items[id]; ok {
		return item, nil
	}
	if combo, ok := c.combos[id]; ok {
		return combo.MenuItem, nil
	}
	return MenuItem{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
}

func (c *Catalog) Topping(id string) (Topping, error) {
	t, ok := c.toppings[id]
	if !ok {
		return Topping{}, fmt.Errorf("topping %q: %w", id, ErrNotFound)
	}
	return t, nil
}

func (c *Catalog) Toppings() []Topping {
	out := make([]Topping, 0, len(c.toppingOrder))
	for _, id := range c.toppingOrder {
		out = append(out, c.toppings[id])
	}
	return out
}

// ToppingsFor lists the toppings offered for items of the given category.
func (c *Catalog) ToppingsFor(cat Category) []Topping {
	var out []Topping
	for _, t := range c.Toppings() {
		if t.AppliesToCategory(cat) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) Side(kind SideKind) (SideOption, error) {
	s, ok := c.sides[kind]
	if !ok {
		return SideOption{}, fmt.Errorf("side %q: %w", kind, ErrNotFound)
	}
	return s, nil
}

func (c *Catalog) Sides() []SideOption {
	out := make([]SideOption, 0, len(c.sides))
	for _, s := range c.sides {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Items lists the products of a category in menu order. Combos are listed by their MenuItem.
func (c *Catalog) Items(cat Category) []MenuItem {
	ids := c.byCategory[cat]
	out := make([]MenuItem, 0, len(ids))
	for _, id := range ids {
		p, _ := c.Product(id)
		out = append(out, p)
	}
	return out
}

func (c *Catalog) Combos() []Combo {
	ids := c.byCategory[CategoryCombo]
	out := make([]Combo, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.combos[id])
	}
	return out
}

// ProductIDs returns every product id in menu order.
func (c *Catalog) ProductIDs() []int {
	var ids []int
	for _, cat := range Categories {
		ids = append(ids, c.byCategory[cat]...)
	}
	return ids
}

// BaselineBurger is the burger every combo upgrade is measured against.
func (c *Catalog) BaselineBurger() MenuItem { return c.items[c.baselineBurger] }

func (c *Catalog) BaselineHotdog() MenuItem { return c.items[c.baselineHotdog] }

// Promotion returns the promotion scheduled for a weekday, if any.
func (c *Catalog) Promotion(day time.Weekday) (Promotion, bool) {
	p, ok := c.promotions[day]
	return p, ok
}

// ReferencePrice is what the combo contents would cost bought separately at
// baseline prices. It is derived from the current menu so it cannot drift.
func (c *Catalog) ReferencePrice(combo Combo) decimal.Decimal {
	ref := c.BaselineBurger().Price.Mul(decimal.NewFromInt(int64(combo.BurgerSlots)))
	if combo.HotdogSlots > 0 {
		ref = ref.Add(c.BaselineHotdog().Price.Mul(decimal.NewFromInt(int64(combo.HotdogSlots))))
	}
	for _, id := range combo.Bundled {
		if item, ok := c.items[id]; ok {
			ref = ref.Add(item.Price)
		}
	}
	return ref
}

// Savings is the "you save" amount shown next to a combo; never negative.
func (c *Catalog) Savings(combo Combo) decimal.Decimal {
	s := c.ReferencePrice(combo).Sub(combo.Price)
	if s.IsNegative() {
		return decimal.Zero
	}
	return s
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
