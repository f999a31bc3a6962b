package till

const maxPriceRunes = 12

// priceEditor is the Pending Price buffer with a caret.
//
// Keystrokes accept digits and a single decimal point only.
type priceEditor struct {
	buf    []rune
	cursor int
}

func (e *priceEditor) String() string { return string(e.buf) }

func (e *priceEditor) Cursor() int { return e.cursor }

func (e *priceEditor) Clear() {
	e.buf = e.buf[:0]
	e.cursor = 0
}

// Insert places r at the caret and reports whether it was accepted.
func (e *priceEditor) Insert(r rune) bool {
	if len(e.buf) >= maxPriceRunes {
		return false
	}
	switch {
	case r >= '0' && r <= '9':
	case r == '.':
		for _, c := range e.buf {
			if c == '.' {
				return false
			}
		}
	default:
		return false
	}
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = r
	e.cursor++
	return true
}

func (e *priceEditor) Backspace() {
	if e.cursor <= 0 {
		return
	}
	copy(e.buf[e.cursor-1:], e.buf[e.cursor:])
	e.buf = e.buf[:len(e.buf)-1]
	e.cursor--
}

func (e *priceEditor) Delete() {
	if e.cursor >= len(e.buf) {
		return
	}
	copy(e.buf[e.cursor:], e.buf[e.cursor+1:])
	e.buf = e.buf[:len(e.buf)-1]
}

func (e *priceEditor) Left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *priceEditor) Right() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

func (e *priceEditor) Home() { e.cursor = 0 }
func (e *priceEditor) End()  { e.cursor = len(e.buf) }
