//go:build !tinygo && !cgo

package hal

// Without the window backend the host has no input devices. The channels exist so
// services can select on them; nothing is ever sent.

type hostKeyboard struct{ ch chan KeyEvent }

func newHostKeyboard() *hostKeyboard { return &hostKeyboard{ch: make(chan KeyEvent)} }

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }
func (k *hostKeyboard) poll()                   {}

type hostPointer struct{ ch chan PointerEvent }

func newHostPointer() *hostPointer { return &hostPointer{ch: make(chan PointerEvent)} }

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }
func (p *hostPointer) poll()                       {}
