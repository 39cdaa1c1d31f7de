package cart

import (
	"fmt"
	"strings"

	"srburger-api/catalog"
	"srburger-api/pricing"
	"srburger-api/promotion"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindSimple     Kind = "simple"
	KindCustomized Kind = "customized"
	KindCombo      Kind = "combo"
)

// Line is one cart entry. The set of implementations is closed:
// *SimpleLine, *CustomizedLine and *ComboLine.
type Line interface {
	Kind() Kind
	Name() string
	Quantity() int
	UnitPrice() decimal.Decimal
	Total() decimal.Decimal
	// Details lists what was chosen for the line, one entry per component.
	Details() []string

	setQuantity(q int)
}

type priced struct {
	quantity  int
	unitPrice decimal.Decimal
}

func (p *priced) Quantity() int              { return p.quantity }
func (p *priced) UnitPrice() decimal.Decimal { return p.unitPrice }
func (p *priced) setQuantity(q int)          { p.quantity = q }

func (p *priced) Total() decimal.Decimal {
	return p.unitPrice.Mul(decimal.NewFromInt(int64(p.quantity)))
}

// SimpleLine is a product added as-is.
type SimpleLine struct {
	priced
	Item promotion.Promoted
	// FreeSide is a complimentary item attached by a free-side promotion.
	FreeSide *catalog.MenuItem
}

func (l *SimpleLine) Kind() Kind   { return KindSimple }
func (l *SimpleLine) Name() string { return l.Item.Name }

func (l *SimpleLine) Details() []string {
	if l.FreeSide == nil {
		return nil
	}
	return []string{freeSideDetail(l.FreeSide)}
}

// CustomizedLine is a product with toppings, sides or extras.
type CustomizedLine struct {
	priced
	Item     promotion.Promoted
	Addons   pricing.Addons
	FreeSide *catalog.MenuItem
}

func (l *CustomizedLine) Kind() Kind   { return KindCustomized }
func (l *CustomizedLine) Name() string { return l.Item.Name }

func (l *CustomizedLine) Details() []string {
	var out []string
	if len(l.Addons.Toppings) > 0 {
		out = append(out, "Con: "+toppingNames(l.Addons.Toppings))
	}
	for _, s := range l.Addons.Sides {
		out = append(out, "Con "+s.Label())
	}
	for _, x := range l.Addons.Extras {
		out = append(out, fmt.Sprintf("%dx %s", x.Quantity, x.Item.Name))
	}
	if l.FreeSide != nil {
		out = append(out, freeSideDetail(l.FreeSide))
	}
	return out
}

// ComboLine is a combo with every slot filled.
type ComboLine struct {
	priced
	Combo        catalog.Combo
	Burgers      []pricing.ComboChoice
	Hotdogs      []pricing.ComboChoice
	IncludedSide catalog.Side
}

func (l *ComboLine) Kind() Kind   { return KindCombo }
func (l *ComboLine) Name() string { return l.Combo.Name }

func (l *ComboLine) Details() []string {
	var out []string
	for _, ch := range l.Burgers {
		out = append(out, choiceDetail(ch))
	}
	for _, ch := range l.Hotdogs {
		out = append(out, choiceDetail(ch))
	}
	if l.IncludedSide.Kind != "" {
		out = append(out, l.IncludedSide.Label())
	}
	return out
}

func choiceDetail(ch pricing.ComboChoice) string {
	text := ch.Item.Name
	if len(ch.Toppings) > 0 {
		text += " (+ " + toppingNames(ch.Toppings) + ")"
	}
	for _, s := range ch.Sides {
		text += ", " + s.Label()
	}
	for _, x := range ch.Extras {
		text += fmt.Sprintf(", %dx %s", x.Quantity, x.Item.Name)
	}
	return text
}

func toppingNames(ts []catalog.Topping) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func freeSideDetail(item *catalog.MenuItem) string {
	return "🎉 " + item.Name + " (GRATIS)"
}
