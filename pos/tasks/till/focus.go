package till

// Focus is the keyboard-interaction target: InputFocused or ItemFocused.
type Focus interface {
	isFocus()
}

// InputFocused means the price input receives keys.
type InputFocused struct{}

// ItemFocused means line item Index receives keys.
type ItemFocused struct {
	Index int
}

func (InputFocused) isFocus() {}
func (ItemFocused) isFocus()  {}

// ElementKind identifies a rendered, focusable control.
type ElementKind uint8

const (
	ElementNone ElementKind = iota
	ElementInput
	ElementAdd
	ElementItem
)

// Element names one rendered control. Index is meaningful for ElementItem only.
type Element struct {
	Kind  ElementKind
	Index int
}

var (
	inputElement = Element{Kind: ElementInput}
	addElement   = Element{Kind: ElementAdd}
)

func itemElement(i int) Element { return Element{Kind: ElementItem, Index: i} }

func (e Element) String() string {
	switch e.Kind {
	case ElementInput:
		return "input"
	case ElementAdd:
		return "add"
	case ElementItem:
		return itemLabel(e.Index)
	default:
		return "none"
	}
}
