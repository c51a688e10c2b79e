// FILE: ./internal/humanoid/keyboard_test.go
package humanoid

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

func assertWithin(t *testing.T, r DurationRange, d time.Duration) {
	t.Helper()
	assert.GreaterOrEqual(t, d, r.Min)
	assert.LessOrEqual(t, d, r.Max)
}

func TestType_PacingWithoutErrors(t *testing.T) {
	h, sink, sleeper := newTestHumanoid(t, noErrorConfig(), 1)
	text := "hello world"

	require.NoError(t, h.TypeToDevice(context.Background(), text))

	calls := sink.Calls()
	require.Len(t, calls, len(text))
	for i, c := range calls {
		assert.Equal(t, string(text[i]), c.Text)
		assert.Empty(t, c.Key)
	}

	durations := sleeper.Durations()
	require.Len(t, durations, len(text))
	for _, d := range durations {
		assertWithin(t, h.DelayRange(), d)
	}
	assert.Equal(t, text, sink.Visible())
}

func TestType_ConvergesToOriginal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ErrorRate = 0.2
	for seed := int64(0); seed < 200; seed++ {
		h, sink, _ := newTestHumanoid(t, cfg, seed)
		require.NoError(t, h.Type(context.Background(), "hello", sink))
		assert.Equal(t, "hello", sink.Visible(), "seed %d", seed)
	}
}

func TestReplay_CallCountsFollowPlan(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ErrorRate = 0.2
	h, sink, _ := newTestHumanoid(t, cfg, 21)

	plan, err := h.PlanErrors("hello")
	require.NoError(t, err)
	require.NoError(t, h.Replay(context.Background(), plan, sink))

	wantText, wantKeys := len(plan.Original), 0
	for i := range plan.Original {
		if _, ok := plan.RecordAt(i); ok {
			wantText++
			wantKeys++
		}
	}
	var gotText, gotKeys int
	for _, c := range sink.Calls() {
		if c.Key == KeyBackspace {
			gotKeys++
		} else {
			gotText++
		}
	}
	assert.Equal(t, wantText, gotText)
	assert.Equal(t, wantKeys, gotKeys)
	assert.Equal(t, "hello", sink.Visible())
}

func TestReplay_ModifySequence(t *testing.T) {
	h, sink, sleeper := newTestHumanoid(t, DefaultConfig(), 1)
	plan := newPlan([]rune("ab"), []rune("sb"), []ErrorRecord{
		{Index: 0, Original: 'a', Substitute: 's', Kind: ErrorModify},
	})

	require.NoError(t, h.Replay(context.Background(), plan, sink))

	assert.Equal(t, []sinkCall{
		{Text: "s"}, {Key: KeyBackspace}, {Text: "a"}, {Text: "b"},
	}, sink.Calls())

	d := sleeper.Durations()
	require.Len(t, d, 4)
	assertWithin(t, h.Config().RecognitionPause, d[0])
	assertWithin(t, h.Config().RepositionPause, d[1])
	assertWithin(t, h.DelayRange(), d[2])
	assertWithin(t, h.DelayRange(), d[3])
}

func TestReplay_AddSequence(t *testing.T) {
	h, sink, sleeper := newTestHumanoid(t, DefaultConfig(), 1)
	// The inserted key lands after index 0, so Mutated[0] is the original
	// character again and the extra keystroke repeats it.
	plan := newPlan([]rune("ab"), []rune("asb"), []ErrorRecord{
		{Index: 0, Original: 'a', Substitute: 's', Kind: ErrorAdd},
	})

	require.NoError(t, h.Replay(context.Background(), plan, sink))

	assert.Equal(t, []sinkCall{
		{Text: "a"}, {Text: "a"}, {Key: KeyBackspace}, {Text: "b"},
	}, sink.Calls())
	assert.Equal(t, "ab", sink.Visible())

	d := sleeper.Durations()
	require.Len(t, d, 4)
	assertWithin(t, h.DelayRange(), d[0])
	assertWithin(t, h.Config().RecognitionPause, d[1])
	assertWithin(t, h.DelayRange(), d[2])
	assertWithin(t, h.DelayRange(), d[3])
}

func TestReplay_BoundedByOriginalLength(t *testing.T) {
	h, sink, _ := newTestHumanoid(t, DefaultConfig(), 1)
	plan := newPlan([]rune("ab"), []rune("abx"), []ErrorRecord{
		{Index: 1, Original: 'b', Substitute: 'x', Kind: ErrorAdd},
	})

	require.NoError(t, h.Replay(context.Background(), plan, sink))
	for _, c := range sink.Calls() {
		assert.NotEqual(t, "x", c.Text)
	}
	assert.Equal(t, "ab", sink.Visible())
}

func TestType_SinkErrorPropagates(t *testing.T) {
	h, sink, _ := newTestHumanoid(t, noErrorConfig(), 1)
	boom := errors.New("device unplugged")
	sink.returnErr = boom
	sink.failOnCall = 3

	err := h.TypeToDevice(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, sink.Calls(), 2)
}

func TestType_CancelledDuringPause(t *testing.T) {
	h, sink, sleeper := newTestHumanoid(t, noErrorConfig(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sleeper.MockSleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleeper.DefaultSleep(ctx, d)
	}

	err := h.Type(ctx, "hello", sink)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sink.Calls(), 1)
}

func TestType_StrictRejectsUnknownUpFront(t *testing.T) {
	cfg := noErrorConfig()
	cfg.Strict = true
	h, sink, _ := newTestHumanoid(t, cfg, 1)

	err := h.TypeToDevice(context.Background(), "snow ☃")
	var lerr *keyboard.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, '☃', lerr.Char)
	assert.Empty(t, sink.Calls())
}

func TestType_LenientPassesUnknownWithoutErrors(t *testing.T) {
	h, sink, _ := newTestHumanoid(t, noErrorConfig(), 1)

	require.NoError(t, h.TypeToDevice(context.Background(), "snow ☃"))
	assert.Equal(t, "snow ☃", sink.Visible())
}

func TestType_LenientFailsWhenTypoLandsOnUnknown(t *testing.T) {
	h, sink, _ := newTestHumanoid(t, DefaultConfig(), 1)

	err := h.TypeToDevice(context.Background(), strings.Repeat("☃", 60))
	require.Error(t, err)
	assert.ErrorIs(t, err, keyboard.ErrUnknownCharacter)
	var lerr *keyboard.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, '☃', lerr.Char)
	assert.Empty(t, sink.Calls(), "planning fails before any keystroke")
}

func TestReplay_RejectsNilArguments(t *testing.T) {
	h, sink, _ := newTestHumanoid(t, noErrorConfig(), 1)

	assert.ErrorContains(t, h.Replay(context.Background(), nil, sink), "nil plan")

	plan, err := h.PlanErrors("ok")
	require.NoError(t, err)
	assert.ErrorContains(t, h.Replay(context.Background(), plan, nil), "nil sink")
	assert.Empty(t, sink.Calls())
}

func TestType_NormalizesToComposedForm(t *testing.T) {
	cfg := noErrorConfig()
	cfg.Layout = keyboard.AZERTY
	h, sink, _ := newTestHumanoid(t, cfg, 1)

	require.NoError(t, h.TypeToDevice(context.Background(), "cafe\u0301"))
	calls := sink.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "é", calls[3].Text)
}

func TestTypeInto_BindsTarget(t *testing.T) {
	cfg := noErrorConfig()
	cfg.Sink = SinkElement
	element := newMockSink()
	var bound any
	binder := func(target any) (Sink, error) {
		bound = target
		return element, nil
	}
	h, err := New(cfg, nil, WithElementBinder(binder), WithSleeper(&mockSleeper{}))
	require.NoError(t, err)

	type handle struct{ id int }
	target := &handle{id: 7}
	require.NoError(t, h.TypeInto(context.Background(), "ok", target))
	assert.Same(t, target, bound)
	assert.Equal(t, "ok", element.Visible())

	err = h.TypeToDevice(context.Background(), "ok")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestTypeInto_BinderError(t *testing.T) {
	cfg := noErrorConfig()
	cfg.Sink = SinkElement
	stale := errors.New("node detached")
	h, err := New(cfg, nil,
		WithElementBinder(func(any) (Sink, error) { return nil, stale }),
		WithSleeper(&mockSleeper{}),
	)
	require.NoError(t, err)

	err = h.TypeInto(context.Background(), "ok", "#missing")
	assert.ErrorIs(t, err, stale)
}

func TestTimerSleeper(t *testing.T) {
	var s timerSleeper
	assert.NoError(t, s.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, s.Sleep(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
