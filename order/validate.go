package order

import (
	"errors"
	"strings"
	"unicode"

	"srburger-api/delivery"
)

var (
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrNameRequired      = errors.New("ingresa tu nombre")
	ErrInvalidPhone      = errors.New("ingresa un teléfono válido (mínimo 8 dígitos)")
	ErrAddressRequired   = errors.New("ingresa tu dirección de entrega")
	ErrOutOfRange        = errors.New("la dirección está fuera de nuestra zona de entrega; puedes recoger en el local")
	ErrPaymentRequired   = errors.New("selecciona un método de pago")
	ErrInsufficientCash  = errors.New("el monto en efectivo es menor al total")
	ErrUnknownFulfilment = errors.New("tipo de entrega inválido")
)

const minPhoneDigits = 8

// FieldError ties a validation failure to the checkout field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e FieldError) Unwrap() error { return e.Err }

// ValidationErrors collects every failing field. errors.Is matches any of them.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// Fields maps field name to message for API responses.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		out[e.Field] = e.Err.Error()
	}
	return out
}

// Validate checks a composed record before it is submitted. It returns nil or
// a ValidationErrors.
func Validate(r Record) error {
	var errs ValidationErrors
	add := func(field string, err error) { errs = append(errs, FieldError{Field: field, Err: err}) }

	if len(r.Items) == 0 {
		add("items", ErrEmptyCart)
	}
	if strings.TrimSpace(r.Customer.Name) == "" {
		add("name", ErrNameRequired)
	}
	if digits(NormalizePhone(r.Customer.Phone)) < minPhoneDigits {
		add("phone", ErrInvalidPhone)
	}

	switch r.DeliveryType {
	case FulfillmentDelivery:
		if strings.TrimSpace(r.Customer.Address) == "" {
			add("address", ErrAddressRequired)
		}
		if r.Zone == delivery.OutOfRange {
			add("address", ErrOutOfRange)
		}
	case FulfillmentPickup:
	default:
		add("delivery_type", ErrUnknownFulfilment)
	}

	switch r.PaymentMethod {
	case PaymentCash:
		if r.Change != nil && r.Change.IsNegative() {
			add("tendered", ErrInsufficientCash)
		}
	case PaymentCard, PaymentTransfer:
	default:
		add("payment_method", ErrPaymentRequired)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// NormalizePhone drops the spaces, dashes and parentheses people type into phone numbers.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
