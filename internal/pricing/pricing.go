// Package pricing derives order money amounts from a cart snapshot. It is
// pure: totals are recomputed on every call and never cached across
// mutations.
package pricing

import (
	"math"

	"github.com/Arsh369/thekitabart/internal/domain"
)

// TaxRate is the flat 8% applied to every order. Not configurable per
// region in this design.
const TaxRate = 0.08

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals sums price x quantity over the cart, applies TaxRate and
// rounds each amount to cents.
func ComputeTotals(items domain.Cart) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}

	tax := subtotal * TaxRate
	total := subtotal + tax

	return Totals{
		Subtotal: roundCents(subtotal),
		Tax:      roundCents(tax),
		Total:    roundCents(total),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
