// internal/humanoid/interface.go
package humanoid

import (
	"context"
	"time"
)

// Key names a non-printable key.
type Key string

const (
	KeyBackspace Key = "Backspace"
	KeyEnter     Key = "Enter"
	KeyTab       Key = "Tab"
)

// Sink performs the keystrokes. The humanoid never retries a failed call.
type Sink interface {
	// EmitText types the given characters.
	EmitText(ctx context.Context, text string) error
	// EmitKey presses a named key. Only KeyBackspace is used by the replay.
	EmitKey(ctx context.Context, key Key) error
}

// ElementBinder turns an opaque UI element handle into a Sink scoped to it.
// A nil binder means no automation backend is available.
type ElementBinder func(target any) (Sink, error)

// Sleeper pauses execution between keystrokes.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Typer is the high level interface implemented by Humanoid.
type Typer interface {
	Type(ctx context.Context, text string, sink Sink) error
	TypeToDevice(ctx context.Context, text string) error
	TypeInto(ctx context.Context, text string, target any) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }
