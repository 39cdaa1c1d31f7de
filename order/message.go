package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// money is the one amount format shared by the message and the record notes.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// RenderMessage formats the record for the restaurant's chat. Every amount is
// taken from the record, so the message and the stored order always agree.
func RenderMessage(r Record) string {
	var b strings.Builder
	b.WriteString("*NUEVO PEDIDO*\n\n")
	fmt.Fprintf(&b, "*Nombre:* %s\n", r.Customer.Name)
	fmt.Fprintf(&b, "*Teléfono:* %s\n\n", r.Customer.Phone)
	fmt.Fprintf(&b, "*Tipo de entrega:* %s\n", r.DeliveryType.Label())

	if r.DeliveryType == FulfillmentDelivery {
		fmt.Fprintf(&b, "*Dirección:* %s", r.Customer.Address)
		if r.Location != nil {
			b.WriteString("\n📍 *Dirección verificada*")
			fmt.Fprintf(&b, "\n📐 Coordenadas: %.6f, %.6f", r.Location.Lat, r.Location.Lng)
		} else {
			b.WriteString("\n⚠️ *Dirección sin verificar - confirmar con cliente*")
		}
		b.WriteString("\n")
		if r.ZoneLabel != "" {
			fmt.Fprintf(&b, "*Zona:* %s\n", r.ZoneLabel)
		}
	}

	fmt.Fprintf(&b, "*Método de pago:* %s\n", r.PaymentMethod)
	if r.PaymentMethod == PaymentCash && r.Tendered != nil {
		fmt.Fprintf(&b, "*Pagará con:* %s\n", money(*r.Tendered))
		fmt.Fprintf(&b, "*Cambio:* %s\n", money(*r.Change))
	}

	b.WriteString("\n*DETALLE DEL PEDIDO:*\n")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "\n• %dx %s - %s\n", it.Quantity, it.Name, money(it.Price))
		for _, d := range it.Details {
			fmt.Fprintf(&b, "  ↳ %s\n", d)
		}
	}

	fmt.Fprintf(&b, "\n*Subtotal:* %s", money(r.Subtotal))
	if r.DeliveryType == FulfillmentDelivery {
		fmt.Fprintf(&b, "\n*Envío:* %s", money(r.DeliveryFee))
	} else {
		b.WriteString("\n*Envío:* Gratis")
	}
	fmt.Fprintf(&b, "\n*TOTAL:* %s", money(r.Total))
	fmt.Fprintf(&b, "\n\n⏱️ Tiempo estimado: %d min", r.EstimatedMinutes)
	return b.String()
}
