// internal/device/buffer.go
package device

import (
	"context"
	"fmt"
	"sync"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// Action is one recorded keystroke. Exactly one of Text or Key is set.
type Action struct {
	Text string       `json:"text,omitempty" yaml:"text,omitempty"`
	Key  humanoid.Key `json:"key,omitempty" yaml:"key,omitempty"`
}

// Buffer is an in-memory line editor used for dry runs and tests.
type Buffer struct {
	mu      sync.Mutex
	line    []rune
	actions []Action
}

var _ humanoid.Sink = (*Buffer)(nil)

// NewBuffer returns an empty line.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// EmitText appends text to the line.
func (b *Buffer) EmitText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions = append(b.actions, Action{Text: text})
	b.line = append(b.line, []rune(text)...)
	return nil
}

// EmitKey applies a named key: Backspace deletes the last rune, Enter and Tab append.
func (b *Buffer) EmitKey(ctx context.Context, key humanoid.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	switch key {
	case humanoid.KeyBackspace:
		if len(b.line) > 0 {
			b.line = b.line[:len(b.line)-1]
		}
	case humanoid.KeyEnter:
		b.line = append(b.line, '\n')
	case humanoid.KeyTab:
		b.line = append(b.line, '\t')
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKey, key)
	}
	b.actions = append(b.actions, Action{Key: key})
	return nil
}

// Text returns the visible text after applying every backspace.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.line)
}

// Actions returns a copy of the recorded keystrokes.
func (b *Buffer) Actions() []Action {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Action, len(b.actions))
	copy(out, b.actions)
	return out
}

// Backspaces counts the recorded backspace presses.
func (b *Buffer) Backspaces() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, a := range b.actions {
		if a.Key == humanoid.KeyBackspace {
			n++
		}
	}
	return n
}
