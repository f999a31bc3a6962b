package till

import (
	"image/color"
	"strconv"
	"strings"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	margin      = 6
	listRows    = 8
	caretPeriod = 350
)

var (
	colBackground = rgb565From888(0x08, 0x0B, 0x10)
	colBorder     = rgb565From888(0x2B, 0x33, 0x44)
	colAccent     = rgb565From888(0x9A, 0xC6, 0xFF)
	colSelected   = rgb565From888(0x1A, 0x2D, 0x44)
	colButton     = rgb565From888(0x1F, 0x4E, 0x2E)
	colCaret      = rgb565From888(0xFF, 0xFF, 0xFF)

	textBright = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	textNormal = color.RGBA{R: 0xD6, G: 0xD6, B: 0xD6, A: 0xFF}
	textDim    = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
	textTitle  = color.RGBA{R: 0x9A, G: 0xC6, B: 0xFF, A: 0xFF}
	textGood   = color.RGBA{R: 0x7F, G: 0xE0, B: 0x9A, A: 0xFF}
	textWarn   = color.RGBA{R: 0xFF, G: 0xD1, B: 0x4A, A: 0xFF}
)

// journalFont is plain ASCII; journal lines never carry the rupee glyph.
var journalFont = &proggy.TinySZ8pt7b

type hitBox struct {
	el Element
	r  rect
}

// layout is the element handle table of the last render.
type layout struct {
	boxes []hitBox
}

func (l *layout) reset() { l.boxes = l.boxes[:0] }

func (l *layout) add(el Element, r rect) {
	l.boxes = append(l.boxes, hitBox{el: el, r: r})
}

// has reports whether el was drawn in the last render.
func (l *layout) has(el Element) bool {
	for _, b := range l.boxes {
		if b.el == el {
			return true
		}
	}
	return false
}

// hit returns the element under (x, y), or the zero Element for the background.
func (l *layout) hit(x, y int) Element {
	for i := len(l.boxes) - 1; i >= 0; i-- {
		if l.boxes[i].r.contains(x, y) {
			return l.boxes[i].el
		}
	}
	return Element{}
}

func (l *layout) rectOf(el Element) (rect, bool) {
	for _, b := range l.boxes {
		if b.el == el {
			return b.r, true
		}
	}
	return rect{}, false
}

func (t *Task) render() {
	if t.fb == nil {
		return
	}
	t.hits.reset()
	t.cv.clear(colBackground)
	if !t.widget.Mounted() {
		_ = t.fb.Present()
		return
	}

	lineH := int(t.fontHeight) + 2
	inner := t.w - 2*margin
	y := 4

	count := itemCount(t.widget.Cart().Len())
	countW := textWidth(t.font, count)
	t.drawText(margin+inner-countW, y, count, textDim)
	t.drawText(margin, y, truncateToWidth(t.font, t.profile.Name, inner-countW-margin), textBright)
	y += lineH
	t.drawText(margin, y, truncateToWidth(t.font, t.profile.Address, inner), textDim)
	y += lineH + 4

	y = t.renderEntry(y, lineH, inner)
	y = t.renderItems(y, lineH, inner)
	y = t.renderTotals(y, lineH, inner)

	t.cv.hline(margin, margin+inner-1, y, colBorder)
	y += 3
	footer := truncateToWidth(t.font, t.profile.Footer, inner)
	t.drawText(margin+(inner-textWidth(t.font, footer))/2, y, footer, textDim)
	y += lineH + 2

	t.renderJournal(rect{x: margin, y: y, w: inner, h: t.h - y - 4})

	_ = t.fb.Present()
}

func (t *Task) renderEntry(y, lineH, inner int) int {
	boxH := lineH + 4
	label := "Add"
	addW := textWidth(t.font, label) + 16
	input := rect{x: margin, y: y, w: inner - addW - margin, h: boxH}
	add := rect{x: input.x + input.w + margin, y: y, w: addW, h: boxH}

	border := colBorder
	if t.widget.Active() == inputElement {
		border = colAccent
	}
	t.cv.outline(input, border)

	pending := t.widget.Pending()
	textX := input.x + 4
	textY := input.y + 2
	if pending == "" {
		t.drawText(textX, textY, truncateToWidth(t.font, "Enter price", input.w-8), textDim)
	} else {
		t.drawText(textX, textY, truncateToWidth(t.font, pending, input.w-8), textBright)
	}
	if t.widget.Active() == inputElement && (t.nowTick/caretPeriod)%2 == 0 {
		r := []rune(pending)
		caretX := textX + textWidthRunes(t.font, r[:t.widget.Caret()])
		t.cv.fill(rect{x: caretX, y: textY, w: 1, h: int(t.fontHeight)}, colCaret)
	}

	t.cv.fill(add, colButton)
	if t.widget.Active() == addElement {
		t.cv.outline(add, colAccent)
	}
	t.drawText(add.x+8, add.y+2, label, textBright)

	t.hits.add(inputElement, input)
	t.hits.add(addElement, add)
	return y + boxH + margin
}

func (t *Task) renderItems(y, lineH, inner int) int {
	list := rect{x: margin, y: y, w: inner, h: listRows*lineH + 4}
	t.cv.outline(list, colBorder)

	cart := t.widget.Cart()
	if cart.Len() == 0 {
		t.drawText(list.x+4, list.y+2, truncateToWidth(t.font, "No items", list.w-8), textDim)
		return y + list.h + margin
	}

	t.scrollTo(cart.Len())
	focused := -1
	if f, ok := t.widget.Focus().(ItemFocused); ok {
		focused = f.Index
	}

	for row := 0; row < listRows; row++ {
		i := t.top + row
		if i >= cart.Len() {
			break
		}
		r := rect{x: list.x + 1, y: list.y + 2 + row*lineH, w: list.w - 2, h: lineH}
		if i == focused {
			t.cv.fill(r, colSelected)
		}
		if t.widget.Active() == itemElement(i) {
			t.cv.outline(r, colAccent)
		}
		t.drawText(r.x+3, r.y+1, itemLabel(i), textNormal)
		amount := FormatAmount(cart.Item(i))
		t.drawText(r.x+r.w-3-textWidth(t.font, amount), r.y+1, amount, textBright)
		t.hits.add(itemElement(i), r)
	}

	return y + list.h + margin
}

// scrollTo keeps the focused item inside the visible window so a deferred focus
// transfer always finds its target rendered.
func (t *Task) scrollTo(n int) {
	if f, ok := t.widget.Focus().(ItemFocused); ok && f.Index < n {
		if f.Index < t.top {
			t.top = f.Index
		}
		if f.Index >= t.top+listRows {
			t.top = f.Index - listRows + 1
		}
	}
	if t.top > n-listRows {
		t.top = n - listRows
	}
	if t.top < 0 {
		t.top = 0
	}
}

func (t *Task) renderTotals(y, lineH, inner int) int {
	totals := t.widget.Totals()
	rows := []struct {
		label string
		value string
		c     color.RGBA
	}{
		{"MRP Total", FormatAmount(totals.Total), textNormal},
		{"Flat 15% OFF", FormatDiscount(totals.Discount), textWarn},
		{"Net Amount", FormatAmount(totals.Net), textGood},
	}
	for _, row := range rows {
		t.drawText(margin, y, row.label, textTitle)
		t.drawText(margin+inner-textWidth(t.font, row.value), y, row.value, row.c)
		y += lineH
	}
	return y + 2
}

func (t *Task) renderJournal(r rect) {
	fh := int16(journalFont.GetYAdvance())
	if r.h < int(fh)+4 || r.w < 16 {
		return
	}
	t.cv.outline(r, colBorder)
	area := r.inset(2)

	rows := area.h / int(fh)
	cols := area.w / max(1, textWidth(journalFont, "0"))
	lines := t.widget.Journal()
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for i, line := range lines {
		lines[i] = clipRunes(line, cols)
	}

	term := tinyterm.NewTerminal(region{c: t.cv, r: area})
	term.Configure(&tinyterm.Config{
		Font:       journalFont,
		FontHeight: fh,
		FontOffset: t.fontAscent,
	})
	_, _ = term.Write([]byte(strings.Join(lines, "\r\n")))
}

func (t *Task) drawText(x, y int, s string, c color.RGBA) {
	tinyfont.WriteLine(t.cv, t.font, int16(x), int16(y)+t.fontAscent, s, c)
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return strconv.Itoa(n) + " items"
}

func truncateToWidth(f tinyfont.Fonter, s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if textWidth(f, s) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if textWidth(f, string(r)+"..") <= maxW {
			return string(r) + ".."
		}
	}
	return ""
}

// clipRunes keeps at most n runes of s.
func clipRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func textWidth(f tinyfont.Fonter, s string) int {
	w, _ := tinyfont.LineWidth(f, s)
	return int(w)
}

func textWidthRunes(f tinyfont.Fonter, r []rune) int {
	if len(r) == 0 {
		return 0
	}
	return textWidth(f, string(r))
}
