package till

import (
	"errors"
	"strconv"
)

// Widget holds the till state: the cart, the pending price, the logical Focus and the
// element that natively holds focus. It is not safe for concurrent use; the till task
// owns it from a single goroutine.
//
// Focus changes requested by key handling are queued and only take effect in Flush,
// which the task calls after every render pass.
type Widget struct {
	mounted bool

	cart  Cart
	price priceEditor

	focus  Focus
	active Element
	queue  []Element

	journal journal
}

// NewWidget returns an unmounted widget.
func NewWidget() *Widget {
	return &Widget{focus: InputFocused{}}
}

// Mount starts a fresh session: empty cart, empty pending price, input focus requested.
func (w *Widget) Mount() {
	w.mounted = true
	w.cart = Cart{}
	w.price.Clear()
	w.focus = InputFocused{}
	w.active = Element{}
	w.queue = w.queue[:0]
	w.requestFocus(inputElement)
}

// Unmount drops pending focus transfers; later Flush calls do nothing.
func (w *Widget) Unmount() {
	w.mounted = false
	w.active = Element{}
	w.queue = nil
}

func (w *Widget) Mounted() bool { return w.mounted }

func (w *Widget) Cart() Cart { return w.cart }

func (w *Widget) Totals() Totals { return w.cart.Totals() }

// Pending returns the uncommitted price text.
func (w *Widget) Pending() string { return w.price.String() }

func (w *Widget) Caret() int { return w.price.Cursor() }

func (w *Widget) Focus() Focus { return w.focus }

// Active returns the natively focused element; Kind is ElementNone when nothing is.
func (w *Widget) Active() Element { return w.active }

// Elements lists the focusable controls in render order.
func (w *Widget) Elements() []Element {
	out := make([]Element, 0, 2+w.cart.Len())
	out = append(out, inputElement, addElement)
	for i := 0; i < w.cart.Len(); i++ {
		out = append(out, itemElement(i))
	}
	return out
}

// Press handles a pointer press on el. Pressing the background (ElementNone) blurs
// the active element.
func (w *Widget) Press(el Element) {
	if !w.mounted {
		return
	}
	switch el.Kind {
	case ElementNone, ElementInput:
		w.setActive(el)
	case ElementItem:
		if el.Index < 0 || el.Index >= w.cart.Len() {
			return
		}
		w.setActive(el)
	case ElementAdd:
		w.setActive(el)
		w.commit()
	}
}

func (w *Widget) handleKey(k key) {
	if !w.mounted {
		return
	}

	if w.active == inputElement && k.kind == keyRune && (k.r == 'f' || k.r == 'F') {
		if w.cart.Len() > 0 {
			w.focus = ItemFocused{Index: 0}
			w.requestFocus(itemElement(0))
		}
		return
	}

	if f, ok := w.focus.(ItemFocused); ok && w.navigate(f.Index, k) {
		return
	}

	if w.active == inputElement {
		w.edit(k)
	}
}

func (w *Widget) navigate(i int, k key) bool {
	n := w.cart.Len()
	if i < 0 || i >= n {
		w.focus = InputFocused{}
		return false
	}
	switch k.kind {
	case keyDown:
		w.focusItem((i + 1) % n)
	case keyUp:
		w.focusItem((i - 1 + n) % n)
	case keyEnter:
		w.remove(i)
	case keyEsc:
		w.focusInput()
	default:
		return false
	}
	return true
}

func (w *Widget) edit(k key) {
	switch k.kind {
	case keyRune:
		if k.r == ' ' {
			w.commit()
			return
		}
		w.price.Insert(k.r)
	case keyBackspace:
		w.price.Backspace()
	case keyDelete:
		w.price.Delete()
	case keyLeft:
		w.price.Left()
	case keyRight:
		w.price.Right()
	case keyHome:
		w.price.Home()
	case keyEnd:
		w.price.End()
	}
}

func (w *Widget) commit() {
	raw := w.price.String()
	next, err := w.cart.Add(raw)
	switch {
	case err == nil:
		w.cart = next
		w.price.Clear()
		n := w.cart.Len()
		w.journal.add("+ " + itemLabel(n-1) + "  " + plainAmount(w.cart.Item(n-1)))
	case raw != "":
		reason := ErrParse.Error()
		if errors.Is(err, ErrNonPositive) {
			reason = ErrNonPositive.Error()
		}
		w.journal.add("? " + strconv.QuoteToASCII(raw) + " " + reason)
	}
	w.focusInput()
}

func (w *Widget) remove(i int) {
	amount := w.cart.Item(i)
	w.cart = w.cart.Remove(i)
	w.journal.add("- " + itemLabel(i) + "  " + plainAmount(amount))
	w.focusInput()
}

func (w *Widget) focusItem(i int) {
	w.focus = ItemFocused{Index: i}
	w.requestFocus(itemElement(i))
}

func (w *Widget) focusInput() {
	w.focus = InputFocused{}
	w.requestFocus(inputElement)
}

func (w *Widget) requestFocus(el Element) {
	w.queue = append(w.queue, el)
}

// setActive moves native focus and runs the blur and focus-gain handlers.
// Moving to the already active element is a no-op.
func (w *Widget) setActive(el Element) bool {
	if el == w.active {
		return false
	}
	prev := w.active
	w.active = el
	if prev.Kind == ElementItem {
		w.focus = InputFocused{}
	}
	switch el.Kind {
	case ElementInput:
		w.focus = InputFocused{}
	case ElementItem:
		w.focus = ItemFocused{Index: el.Index}
	}
	return true
}

// Flush runs queued focus transfers in request order against the elements of the
// last render. Targets for which rendered reports false are dropped. Flush reports
// whether native focus changed.
func (w *Widget) Flush(rendered func(Element) bool) bool {
	if !w.mounted {
		w.queue = nil
		return false
	}
	q := w.queue
	w.queue = nil
	changed := false
	for _, el := range q {
		if rendered != nil && !rendered(el) {
			continue
		}
		if w.setActive(el) {
			changed = true
		}
	}
	return changed
}

// Journal returns the retained journal lines, oldest first.
func (w *Widget) Journal() []string { return w.journal.lines() }

// TakeJournal returns lines added since the previous call.
func (w *Widget) TakeJournal() []string { return w.journal.take() }

func plainAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
