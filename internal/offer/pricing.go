package offer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItem     = errors.New("invalid line item")
	ErrInvalidModifier = errors.New("invalid modifier")
)

const moneyPlaces = 2

// Recalculate derives line totals, the subtotal and the total in place.
// Percentage modifiers apply to the subtotal; the total never drops below zero.
func Recalculate(o *Offer) {
	subtotal := decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		line := decimal.NewFromFloat(it.UnitAmount).Mul(decimal.NewFromInt(int64(it.Quantity))).Round(moneyPlaces)
		it.LineTotal = line.InexactFloat64()
		subtotal = subtotal.Add(line)
	}

	discount := decimal.Zero
	for i := range o.Modifiers {
		m := &o.Modifiers[i]
		var amount decimal.Decimal
		switch m.Kind {
		case KindPercentage:
			amount = subtotal.Mul(decimal.NewFromFloat(m.Value)).Div(decimal.NewFromInt(100)).Round(moneyPlaces)
		case KindFixed:
			amount = decimal.NewFromFloat(m.Value).Round(moneyPlaces)
		}
		m.Amount = amount.InexactFloat64()
		discount = discount.Add(amount)
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.Subtotal = subtotal.InexactFloat64()
	o.Total = total.InexactFloat64()
}

// AddItem returns a copy of o with item added. An existing line with the same
// product and price has its quantity increased instead.
func AddItem(o Offer, item LineItem) (Offer, error) {
	if strings.TrimSpace(item.ProductID) == "" {
		return o, fmt.Errorf("%w: productId is required", ErrInvalidItem)
	}
	if strings.TrimSpace(item.PriceID) == "" {
		return o, fmt.Errorf("%w: priceId is required", ErrInvalidItem)
	}
	if item.Quantity <= 0 {
		return o, fmt.Errorf("%w: quantity must be positive", ErrInvalidItem)
	}
	if item.UnitAmount < 0 {
		return o, fmt.Errorf("%w: unitAmount must not be negative", ErrInvalidItem)
	}

	out := clone(o)
	idx := slices.IndexFunc(out.Items, func(it LineItem) bool {
		return it.ProductID == item.ProductID && it.PriceID == item.PriceID
	})
	if idx >= 0 {
		out.Items[idx].Quantity += item.Quantity
		out.Items[idx].UnitAmount = item.UnitAmount
	} else {
		out.Items = append(out.Items, item)
	}
	Recalculate(&out)
	return out, nil
}

// ApplyModifier returns a copy of o with m applied. A modifier with the same
// code replaces the earlier one.
func ApplyModifier(o Offer, m Modifier) (Offer, error) {
	switch m.Kind {
	case KindPercentage:
		if m.Value < 0 || m.Value > 100 {
			return o, fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalidModifier)
		}
	case KindFixed:
		if m.Value < 0 {
			return o, fmt.Errorf("%w: value must not be negative", ErrInvalidModifier)
		}
	default:
		return o, fmt.Errorf("%w: kind must be %q or %q", ErrInvalidModifier, KindPercentage, KindFixed)
	}

	out := clone(o)
	idx := -1
	if m.Code != "" {
		idx = slices.IndexFunc(out.Modifiers, func(x Modifier) bool { return x.Code == m.Code })
	}
	if idx >= 0 {
		out.Modifiers[idx] = m
	} else {
		out.Modifiers = append(out.Modifiers, m)
	}
	Recalculate(&out)
	return out, nil
}

func clone(o Offer) Offer {
	o.Items = slices.Clone(o.Items)
	o.Modifiers = slices.Clone(o.Modifiers)
	if o.Items == nil {
		o.Items = []LineItem{}
	}
	return o
}
