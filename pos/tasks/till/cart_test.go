package till

import (
	"errors"
	"math/rand"
	"testing"
)

func mustCart(t *testing.T, raws ...string) Cart {
	t.Helper()
	var c Cart
	for _, raw := range raws {
		next, err := c.Add(raw)
		if err != nil {
			t.Fatalf("Add(%q): %v", raw, err)
		}
		c = next
	}
	return c
}

func sameItems(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCartAddAppendsInOrder(t *testing.T) {
	c := mustCart(t, "100", " 50 ", "19.99", "100")
	if got, want := c.Items(), []float64{100, 50, 19.99, 100}; !sameItems(got, want) {
		t.Fatalf("items=%v want %v", got, want)
	}
}

func TestCartAddRejects(t *testing.T) {
	base := mustCart(t, "10")
	for _, tc := range []struct {
		raw  string
		want error
	}{
		{"-5", ErrNonPositive},
		{"0", ErrNonPositive},
		{"0.00", ErrNonPositive},
		{"abc", ErrParse},
		{"", ErrParse},
		{"  ", ErrParse},
		{"12abc", ErrParse},
		{"NaN", ErrParse},
		{"Inf", ErrParse},
		{"1e400", ErrParse},
	} {
		got, err := base.Add(tc.raw)
		if !errors.Is(err, tc.want) {
			t.Fatalf("Add(%q) err=%v want %v", tc.raw, err, tc.want)
		}
		if !sameItems(got.Items(), []float64{10}) {
			t.Fatalf("Add(%q) mutated cart: %v", tc.raw, got.Items())
		}
	}
}

func TestCartRemove(t *testing.T) {
	c := mustCart(t, "1", "2", "3", "4")

	if got := c.Remove(1).Items(); !sameItems(got, []float64{1, 3, 4}) {
		t.Fatalf("Remove(1)=%v", got)
	}
	if got := c.Remove(3).Items(); !sameItems(got, []float64{1, 2, 3}) {
		t.Fatalf("Remove(3)=%v", got)
	}
	for _, i := range []int{-1, 4, 99} {
		if got := c.Remove(i).Items(); !sameItems(got, []float64{1, 2, 3, 4}) {
			t.Fatalf("Remove(%d)=%v", i, got)
		}
	}
	if got := c.Items(); !sameItems(got, []float64{1, 2, 3, 4}) {
		t.Fatalf("receiver changed: %v", got)
	}
}

func TestCartValuesDoNotShareStorage(t *testing.T) {
	a := mustCart(t, "1", "2")
	b, err := a.Add("3")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	c, err := a.Add("4")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.Item(2) != 3 || c.Item(2) != 4 {
		t.Fatalf("b=%v c=%v", b.Items(), c.Items())
	}
	items := a.Items()
	items[0] = 99
	if a.Item(0) != 1 {
		t.Fatalf("Items aliased cart storage")
	}
}

func TestTotalsScenario(t *testing.T) {
	got := mustCart(t, "100").Totals()
	if got != (Totals{Total: 100, Discount: 15, Net: 85}) {
		t.Fatalf("Totals=%+v", got)
	}
	got = mustCart(t, "100", "50").Totals()
	if got != (Totals{Total: 150, Discount: 22.5, Net: 127.5}) {
		t.Fatalf("Totals=%+v", got)
	}
	if got := (Cart{}).Totals(); got != (Totals{}) {
		t.Fatalf("empty Totals=%+v", got)
	}
}

// Discount is total-net, so at half-paisa boundaries it can show one paisa away from
// total*0.15 while the three displayed figures still add up.
func TestTotalsDiscountAtHalfPaisa(t *testing.T) {
	cases := []struct {
		raw           string
		discount, net string
	}{
		{"2.10", "-₹0.31", "₹1.79"},
		{"0.50", "-₹0.08", "₹0.42"},
		{"4.30", "-₹0.65", "₹3.65"},
	}
	for _, tc := range cases {
		got := mustCart(t, tc.raw).Totals()
		if d := FormatDiscount(got.Discount); d != tc.discount {
			t.Fatalf("%s: discount %s, want %s", tc.raw, d, tc.discount)
		}
		if n := FormatAmount(got.Net); n != tc.net {
			t.Fatalf("%s: net %s, want %s", tc.raw, n, tc.net)
		}
	}
}

func TestTotalsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 500; round++ {
		n := rng.Intn(12)
		items := make([]float64, n)
		var sum float64
		for i := range items {
			items[i] = float64(rng.Intn(1000000)+1) / 100
			sum += items[i]
		}
		got := ComputeTotals(items)
		if got.Total != sum {
			t.Fatalf("round %d: total=%v sum=%v", round, got.Total, sum)
		}
		if got.Net+got.Discount != got.Total {
			t.Fatalf("round %d: net %v + discount %v != total %v", round, got.Net, got.Discount, got.Total)
		}
		if d := got.Discount - got.Total*DiscountRate; d > 1e-9 || d < -1e-9 {
			t.Fatalf("round %d: discount=%v want %v", round, got.Discount, got.Total*DiscountRate)
		}
	}
}

func TestFormat(t *testing.T) {
	for _, tc := range []struct {
		got, want string
	}{
		{FormatAmount(85), "₹85.00"},
		{FormatAmount(19.999), "₹20.00"},
		{FormatAmount(0), "₹0.00"},
		{FormatDiscount(15), "-₹15.00"},
		{FormatDiscount(0), "-₹0.00"},
		{itemLabel(0), "Item 1"},
	} {
		if tc.got != tc.want {
			t.Fatalf("got %q want %q", tc.got, tc.want)
		}
	}
}
