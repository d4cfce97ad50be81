// Package tuitest holds helpers for driving Bubbletea models in tests.
package tuitest

import (
	"reflect"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// cmdTimeout bounds how long Drain waits on one command. Cursor blink
// commands sleep, so anything slower is dropped.
const cmdTimeout = 100 * time.Millisecond

var special = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"space":     tea.KeySpace,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+s":    tea.KeyCtrlS,
	"ctrl+n":    tea.KeyCtrlN,
	"ctrl+d":    tea.KeyCtrlD,
	"ctrl+z":    tea.KeyCtrlZ,
	"ctrl+y":    tea.KeyCtrlY,
}

// Key builds the key message whose String() is s. Names not in the
// special table are sent as runes.
func Key(s string) tea.KeyMsg {
	if t, ok := special[s]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// Type returns one rune key message per character of s.
func Type(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return out
}

// Drain runs cmd and returns the messages it produces, flattening
// batches and sequences in order.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(cmdTimeout):
		return nil
	}
	if msg == nil {
		return nil
	}

	v := reflect.ValueOf(msg)
	if v.Kind() == reflect.Slice && v.Type().Elem() == reflect.TypeOf(tea.Cmd(nil)) {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			c, _ := v.Index(i).Interface().(tea.Cmd)
			out = append(out, Drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// Find returns the first message of type T in msgs.
func Find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
