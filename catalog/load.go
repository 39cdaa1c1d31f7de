package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
)

//go:embed menu.yaml
var defaultMenu []byte

type menuFile struct {
	Baseline struct {
		Burger int `yaml:"burger"`
		Hotdog int `yaml:"hotdog"`
	} `yaml:"baseline"`
	Items      []itemFile      `yaml:"items"`
	Combos     []comboFile     `yaml:"combos"`
	Toppings   []toppingFile   `yaml:"toppings"`
	Sides      []sideFile      `yaml:"sides"`
	Promotions []promotionFile `yaml:"promotions"`
}

type itemFile struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	Price        int64  `yaml:"price"`
	Category     string `yaml:"category"`
	Customizable bool   `yaml:"customizable"`
	Description  string `yaml:"description"`
	Image        string `yaml:"image"`
}

type comboFile struct {
	ID              int    `yaml:"id"`
	Name            string `yaml:"name"`
	Price           int64  `yaml:"price"`
	Description     string `yaml:"description"`
	Image           string `yaml:"image"`
	BurgerSlots     int    `yaml:"burger_slots"`
	EligibleBurgers []int  `yaml:"eligible_burgers"`
	HotdogSlots     int    `yaml:"hotdog_slots"`
	EligibleHotdogs []int  `yaml:"eligible_hotdogs"`
	Bundled         []int  `yaml:"bundled"`
	IncludedSide    struct {
		Kind  string `yaml:"kind"`
		Style string `yaml:"style"`
		Size  string `yaml:"size"`
	} `yaml:"included_side"`
}

type toppingFile struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       int64    `yaml:"price"`
	AppliesTo   []string `yaml:"applies_to"`
}

type sideFile struct {
	Kind   string   `yaml:"kind"`
	Name   string   `yaml:"name"`
	Price  int64    `yaml:"price"`
	Styles []string `yaml:"styles"`
}

type promotionFile struct {
	Weekday    int    `yaml:"weekday"`
	Kind       string `yaml:"kind"`
	Label      string `yaml:"label"`
	Category   string `yaml:"category"`
	Percent    int64  `yaml:"percent"`
	TargetItem int    `yaml:"target_item"`
	NewPrice   int64  `yaml:"new_price"`
	FreeItem   int    `yaml:"free_item"`
	Topping    string `yaml:"topping"`
}

// Default returns the embedded SR & SRA menu.
func Default() (*Catalog, error) {
	return Parse(defaultMenu)
}

// MustDefault is Default for program start-up and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile reads a menu from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML menu.
func Parse(data []byte) (*Catalog, error) {
	var mf menuFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	return build(mf)
}

func build(mf menuFile) (*Catalog, error) {
	c := &Catalog{
		items:          make(map[int]MenuItem),
		combos:         make(map[int]Combo),
		toppings:       make(map[string]Topping),
		sides:          make(map[SideKind]SideOption),
		byCategory:     make(map[Category][]int),
		promotions:     make(map[time.Weekday]Promotion),
		baselineBurger: mf.Baseline.Burger,
		baselineHotdog: mf.Baseline.Hotdog,
	}

	seen := map[int]bool{}
	for _, f := range mf.Items {
		item, err := f.menuItem()
		if err != nil {
			return nil, err
		}
		if item.Category == CategoryCombo {
			return nil, fmt.Errorf("item %d: combos belong in the combos section", item.ID)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("duplicate product id %d", item.ID)
		}
		seen[item.ID] = true
		c.items[item.ID] = item
		c.byCategory[item.Category] = append(c.byCategory[item.Category], item.ID)
	}

	for _, f := range mf.Toppings {
		t := Topping{ID: f.ID, Name: f.Name, Description: f.Description, Price: decimal.NewFromInt(f.Price)}
		if f.ID == "" || f.Price < 0 {
			return nil, fmt.Errorf("topping %q: invalid id or price", f.ID)
		}
		if _, dup := c.toppings[f.ID]; dup {
			return nil, fmt.Errorf("duplicate topping id %q", f.ID)
		}
		for _, a := range f.AppliesTo {
			cat := Category(a)
			if cat != CategoryBurger && cat != CategoryHotDog {
				return nil, fmt.Errorf("topping %q: cannot apply to %q", f.ID, a)
			}
			t.AppliesTo = append(t.AppliesTo, cat)
		}
		c.toppings[t.ID] = t
		c.toppingOrder = append(c.toppingOrder, t.ID)
	}

	for _, f := range mf.Sides {
		kind := SideKind(f.Kind)
		if kind != SideFries && kind != SideOnionRings {
			return nil, fmt.Errorf("unknown side kind %q", f.Kind)
		}
		c.sides[kind] = SideOption{Kind: kind, Name: f.Name, Price: decimal.NewFromInt(f.Price), Styles: f.Styles}
	}

	if b, ok := c.items[c.baselineBurger]; !ok || b.Category != CategoryBurger {
		return nil, fmt.Errorf("baseline burger %d: %w", c.baselineBurger, ErrNotFound)
	}
	if h, ok := c.items[c.baselineHotdog]; !ok || h.Category != CategoryHotDog {
		return nil, fmt.Errorf("baseline hotdog %d: %w", c.baselineHotdog, ErrNotFound)
	}

	for _, f := range mf.Combos {
		item, err := itemFile{
			ID:          f.ID,
			Name:        f.Name,
			Price:       f.Price,
			Category:    string(CategoryCombo),
			Description: f.Description,
			Image:       f.Image,
		}.menuItem()
		if err != nil {
			return nil, err
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("duplicate product id %d", item.ID)
		}
		seen[item.ID] = true
		combo := Combo{
			MenuItem:        item,
			BurgerSlots:     f.BurgerSlots,
			EligibleBurgers: f.EligibleBurgers,
			HotdogSlots:     f.HotdogSlots,
			EligibleHotdogs: f.EligibleHotdogs,
			Bundled:         f.Bundled,
			IncludedSide: Side{
				Kind:  SideKind(f.IncludedSide.Kind),
				Style: f.IncludedSide.Style,
				Size:  f.IncludedSide.Size,
				Price: decimal.Zero,
			},
		}
		if err := c.checkCombo(combo); err != nil {
			return nil, err
		}
		c.combos[combo.ID] = combo
		c.byCategory[CategoryCombo] = append(c.byCategory[CategoryCombo], combo.ID)
	}

	for _, f := range mf.Promotions {
		p, err := c.promotion(f)
		if err != nil {
			return nil, err
		}
		if _, dup := c.promotions[p.Weekday]; dup {
			return nil, fmt.Errorf("more than one promotion on weekday %d", f.Weekday)
		}
		c.promotions[p.Weekday] = p
	}

	return c, nil
}

func (f itemFile) menuItem() (MenuItem, error) {
	cat := Category(f.Category)
	if !cat.Valid() {
		return MenuItem{}, fmt.Errorf("item %d: unknown category %q", f.ID, f.Category)
	}
	if f.ID <= 0 || f.Name == "" {
		return MenuItem{}, fmt.Errorf("item %d: id and name are required", f.ID)
	}
	if f.Price < 0 {
		return MenuItem{}, fmt.Errorf("item %d: negative price", f.ID)
	}
	return MenuItem{
		ID:           f.ID,
		Name:         f.Name,
		Description:  f.Description,
		Image:        f.Image,
		Price:        decimal.NewFromInt(f.Price),
		Category:     cat,
		Customizable: f.Customizable,
	}, nil
}

func (c *Catalog) checkCombo(combo Combo) error {
	if combo.BurgerSlots < 0 || combo.HotdogSlots < 0 || combo.BurgerSlots+combo.HotdogSlots == 0 {
		return fmt.Errorf("combo %d: needs at least one slot", combo.ID)
	}
	if combo.BurgerSlots > 0 && len(combo.EligibleBurgers) == 0 {
		return fmt.Errorf("combo %d: no eligible burgers", combo.ID)
	}
	if combo.HotdogSlots > 0 && len(combo.EligibleHotdogs) == 0 {
		return fmt.Errorf("combo %d: no eligible hotdogs", combo.ID)
	}
	for _, id := range combo.EligibleBurgers {
		if item, ok := c.items[id]; !ok || item.Category != CategoryBurger {
			return fmt.Errorf("combo %d: eligible burger %d: %w", combo.ID, id, ErrNotFound)
		}
	}
	for _, id := range combo.EligibleHotdogs {
		if item, ok := c.items[id]; !ok || item.Category != CategoryHotDog {
			return fmt.Errorf("combo %d: eligible hotdog %d: %w", combo.ID, id, ErrNotFound)
		}
	}
	for _, id := range combo.Bundled {
		if _, ok := c.items[id]; !ok {
			return fmt.Errorf("combo %d: bundled item %d: %w", combo.ID, id, ErrNotFound)
		}
	}
	if combo.IncludedSide.Kind != "" {
		opt, ok := c.sides[combo.IncludedSide.Kind]
		if !ok || !opt.AcceptsStyle(combo.IncludedSide.Style) {
			return fmt.Errorf("combo %d: invalid included side", combo.ID)
		}
	}
	return nil
}

func (c *Catalog) promotion(f promotionFile) (Promotion, error) {
	if f.Weekday < 0 || f.Weekday > 6 {
		return Promotion{}, fmt.Errorf("promotion weekday %d out of range", f.Weekday)
	}
	p := Promotion{
		Weekday:    time.Weekday(f.Weekday),
		Kind:       PromotionKind(f.Kind),
		Label:      f.Label,
		Category:   Category(f.Category),
		Percent:    decimal.NewFromInt(f.Percent),
		TargetItem: f.TargetItem,
		NewPrice:   decimal.NewFromInt(f.NewPrice),
		FreeItem:   f.FreeItem,
		Topping:    f.Topping,
	}
	var err error
	switch p.Kind {
	case PromoCategoryPercentOff:
		if !p.Category.Valid() || f.Percent <= 0 || f.Percent >= 100 {
			err = errors.New("needs a category and a percent between 1 and 99")
		}
	case PromoFixedPrice:
		if _, ok := c.items[p.TargetItem]; !ok || f.NewPrice < 0 {
			err = errors.New("needs an existing target item and a price")
		}
	case PromoFreeSide:
		if _, ok := c.items[p.FreeItem]; !ok || !p.Category.Valid() {
			err = errors.New("needs a category and an existing free item")
		}
	case PromoDiscountedTopping:
		if _, ok := c.toppings[p.Topping]; !ok || f.NewPrice < 0 {
			err = errors.New("needs an existing topping and a price")
		}
	default:
		err = fmt.Errorf("unknown kind %q", f.Kind)
	}
	if err != nil {
		return Promotion{}, fmt.Errorf("promotion on weekday %d: %w", f.Weekday, err)
	}
	return p, nil
}
