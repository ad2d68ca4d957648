// Package pricing derives order totals from cart line items. Totals are
// never stored; they are recomputed from the cart on every read so they
// cannot drift from the line items.
package pricing

import (
	"math"

	"github.com/nexus-commerce/storefront/internal/cart"
)

type Config struct {
	TaxRate         float64
	FlatShippingFee float64
}

func DefaultConfig() Config {
	return Config{
		TaxRate:         0.08,
		FlatShippingFee: 5.99,
	}
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals is pure: the same items and config always yield the same
// totals. Accumulation keeps full float64 precision; rounding happens only
// in Rounded. Shipping is waived only when the subtotal is exactly zero.
func ComputeTotals(items []cart.LineItem, cfg Config) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	tax := subtotal * cfg.TaxRate
	var shipping float64
	if subtotal > 0 {
		shipping = cfg.FlatShippingFee
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}

// Round2 rounds a monetary amount to the nearest cent. Ties resolve on the
// stored float64 value: 0.125 rounds up to 0.13, while a literal like 2.405
// sits just below the half-cent and rounds down to 2.40.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a presentation copy with each field rounded to cents
// independently. Total is derived from the unrounded parts, so the rounded
// fields may differ from their sum by a cent.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: Round2(t.Subtotal),
		Tax:      Round2(t.Tax),
		Shipping: Round2(t.Shipping),
		Total:    Round2(t.Total),
	}
}
