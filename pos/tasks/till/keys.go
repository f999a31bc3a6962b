package till

import "unicode/utf8"

type keyKind uint8

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyTab
	keyEsc
	keyUp
	keyDown
	keyLeft
	keyRight
	keyDelete
	keyHome
	keyEnd
	keyCtrl
)

type key struct {
	kind keyKind
	r    rune
	ctrl byte
}

// nextKey decodes one key from a VT100 byte stream. ok is false when b holds only a
// prefix of a sequence; the caller keeps those bytes for the next read.
func nextKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) == 0 {
		return 0, key{}, false
	}

	if b[0] == 0x1b {
		return parseEscapeKey(b)
	}

	switch b[0] {
	case '\r', '\n':
		return 1, key{kind: keyEnter}, true
	case 0x7f, 0x08:
		return 1, key{kind: keyBackspace}, true
	case '\t':
		return 1, key{kind: keyTab}, true
	}

	if b[0] < 0x20 {
		return 1, key{kind: keyCtrl, ctrl: b[0]}, true
	}
	if !utf8.FullRune(b) {
		return 0, key{}, false
	}
	r, sz := utf8.DecodeRune(b)
	if r == utf8.RuneError && sz == 1 {
		return 1, key{kind: keyCtrl}, true
	}
	return sz, key{kind: keyRune, r: r}, true
}

var csiFinal = map[byte]keyKind{
	'A': keyUp,
	'B': keyDown,
	'C': keyRight,
	'D': keyLeft,
	'H': keyHome,
	'F': keyEnd,
}

var csiTilde = map[byte]keyKind{
	'1': keyHome,
	'3': keyDelete,
	'4': keyEnd,
}

// A lone ESC is the Escape key. MsgTermInput never ends inside a CSI sequence, so a
// trailing ESC is not the start of one.
func parseEscapeKey(b []byte) (consumed int, k key, ok bool) {
	if len(b) < 2 || b[1] != '[' {
		return 1, key{kind: keyEsc}, true
	}
	if len(b) < 3 {
		return 0, key{}, false
	}
	if kind, ok := csiFinal[b[2]]; ok {
		return 3, key{kind: kind}, true
	}
	kind, ok := csiTilde[b[2]]
	if !ok {
		return 1, key{kind: keyEsc}, true
	}
	if len(b) < 4 {
		return 0, key{}, false
	}
	if b[3] != '~' {
		return 1, key{kind: keyEsc}, true
	}
	return 4, key{kind: kind}, true
}
