// FILE: ./internal/humanoid/mocks_test.go
package humanoid

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// sinkCall is one recorded sink interaction.
type sinkCall struct {
	Text string
	Key  Key
}

// mockSink records every keystroke and keeps the net visible text.
// If a Mock* override is set it replaces the default behavior; the override
// may call the matching Default* method.
type mockSink struct {
	mu      sync.Mutex
	calls   []sinkCall
	visible []rune

	returnErr  error
	failOnCall int // 1-based call number that returns returnErr
	callCount  int

	MockEmitText func(ctx context.Context, text string) error
	MockEmitKey  func(ctx context.Context, key Key) error
}

func newMockSink() *mockSink {
	return &mockSink{calls: make([]sinkCall, 0)}
}

func (m *mockSink) EmitText(ctx context.Context, text string) error {
	if m.MockEmitText != nil {
		return m.MockEmitText(ctx, text)
	}
	return m.DefaultEmitText(ctx, text)
}

func (m *mockSink) DefaultEmitText(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.returnErr != nil && m.callCount >= m.failOnCall {
		return m.returnErr
	}
	m.calls = append(m.calls, sinkCall{Text: text})
	m.visible = append(m.visible, []rune(text)...)
	return nil
}

func (m *mockSink) EmitKey(ctx context.Context, key Key) error {
	if m.MockEmitKey != nil {
		return m.MockEmitKey(ctx, key)
	}
	return m.DefaultEmitKey(ctx, key)
}

func (m *mockSink) DefaultEmitKey(ctx context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.returnErr != nil && m.callCount >= m.failOnCall {
		return m.returnErr
	}
	m.calls = append(m.calls, sinkCall{Key: key})
	if key == KeyBackspace && len(m.visible) > 0 {
		m.visible = m.visible[:len(m.visible)-1]
	}
	return nil
}

func (m *mockSink) Calls() []sinkCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sinkCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockSink) Visible() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.visible)
}

// mockSleeper records requested pauses instead of sleeping.
type mockSleeper struct {
	mu        sync.Mutex
	durations []time.Duration

	MockSleep func(ctx context.Context, d time.Duration) error
}

func (m *mockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if m.MockSleep != nil {
		return m.MockSleep(ctx, d)
	}
	return m.DefaultSleep(ctx, d)
}

func (m *mockSleeper) DefaultSleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations = append(m.durations, d)
	return nil
}

func (m *mockSleeper) Durations() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.durations))
	copy(out, m.durations)
	return out
}

// newTestHumanoid builds a Humanoid with a seeded RNG and recording collaborators.
func newTestHumanoid(t *testing.T, cfg Config, seed int64) (*Humanoid, *mockSink, *mockSleeper) {
	t.Helper()
	sink := newMockSink()
	sleeper := &mockSleeper{}
	h, err := New(cfg, zaptest.NewLogger(t),
		WithDevice(sink),
		WithSleeper(sleeper),
		WithRand(rand.New(rand.NewSource(seed))),
	)
	require.NoError(t, err)
	return h, sink, sleeper
}

// noErrorConfig disables typo injection.
func noErrorConfig() Config {
	cfg := DefaultConfig()
	cfg.ErrorRate = 0
	return cfg
}
