package till

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DiscountRate is the flat discount applied to every cart.
const DiscountRate = 0.15

var (
	// ErrParse reports a pending price that is not a finite decimal number.
	ErrParse = errors.New("not a number")
	// ErrNonPositive reports a pending price that parses but is zero or negative.
	ErrNonPositive = errors.New("must be positive")
)

// Cart is an ordered list of committed prices; insertion order is display order.
//
// Carts are values: Add and Remove return a new cart and never share storage with
// the receiver. The zero value is an empty cart.
type Cart struct {
	items []float64
}

// Len returns the number of line items.
func (c Cart) Len() int { return len(c.items) }

// Item returns the price at index i.
func (c Cart) Item(i int) float64 { return c.items[i] }

// Items returns a copy of the prices in display order.
func (c Cart) Items() []float64 {
	out := make([]float64, len(c.items))
	copy(out, c.items)
	return out
}

// Add parses raw and returns a cart with the price appended.
// On failure the receiver is returned unchanged together with an error wrapping
// ErrParse or ErrNonPositive.
func (c Cart) Add(raw string) (Cart, error) {
	v, err := ParsePrice(raw)
	if err != nil {
		return c, err
	}
	items := make([]float64, len(c.items), len(c.items)+1)
	copy(items, c.items)
	return Cart{items: append(items, v)}, nil
}

// Remove returns a cart without the item at index; later items shift down by one.
// An index outside the cart is a no-op.
func (c Cart) Remove(index int) Cart {
	if index < 0 || index >= len(c.items) {
		return c
	}
	items := make([]float64, 0, len(c.items)-1)
	items = append(items, c.items[:index]...)
	items = append(items, c.items[index+1:]...)
	return Cart{items: items}
}

// Totals derives the summary amounts from the current items.
func (c Cart) Totals() Totals { return ComputeTotals(c.items) }

// ParsePrice validates a pending price.
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("price %q: %w", raw, ErrParse)
	}
	if v <= 0 {
		return 0, fmt.Errorf("price %q: %w", raw, ErrNonPositive)
	}
	return v, nil
}

// Totals are unrounded; rounding to two decimals happens only when formatting.
type Totals struct {
	Total    float64
	Discount float64
	Net      float64
}

// ComputeTotals sums items and applies DiscountRate.
func ComputeTotals(items []float64) Totals {
	var total float64
	for _, v := range items {
		total += v
	}
	net := total - total*DiscountRate
	// net lies in [total/2, total], so total-net is exact and net+discount == total.
	return Totals{Total: total, Discount: total - net, Net: net}
}
