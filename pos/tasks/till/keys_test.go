package till

import "testing"

func TestNextKey(t *testing.T) {
	for _, tc := range []struct {
		in   string
		n    int
		want key
	}{
		{"\x1b[A", 3, key{kind: keyUp}},
		{"\x1b[B", 3, key{kind: keyDown}},
		{"\x1b[C", 3, key{kind: keyRight}},
		{"\x1b[D", 3, key{kind: keyLeft}},
		{"\x1b[H", 3, key{kind: keyHome}},
		{"\x1b[F", 3, key{kind: keyEnd}},
		{"\x1b[3~", 4, key{kind: keyDelete}},
		{"\x1b", 1, key{kind: keyEsc}},
		{"\x1bf", 1, key{kind: keyEsc}},
		{"\r", 1, key{kind: keyEnter}},
		{"\n", 1, key{kind: keyEnter}},
		{"\x7f", 1, key{kind: keyBackspace}},
		{" ", 1, key{kind: keyRune, r: ' '}},
		{"f", 1, key{kind: keyRune, r: 'f'}},
		{"₹", 3, key{kind: keyRune, r: '₹'}},
		{"\x01", 1, key{kind: keyCtrl, ctrl: 0x01}},
	} {
		n, k, ok := nextKey([]byte(tc.in))
		if !ok || n != tc.n || k != tc.want {
			t.Fatalf("nextKey(%q) = (%d, %+v, %v) want (%d, %+v)", tc.in, n, k, ok, tc.n, tc.want)
		}
	}
}

func TestNextKeyPartial(t *testing.T) {
	for _, in := range []string{"", "\x1b[", "\x1b[3", "\xe2\x82"} {
		if n, _, ok := nextKey([]byte(in)); ok || n != 0 {
			t.Fatalf("nextKey(%q) = (%d, ok=%v), want incomplete", in, n, ok)
		}
	}
}
