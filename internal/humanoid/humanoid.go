// internal/humanoid/humanoid.go
package humanoid

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

// Humanoid plans typographical errors from keyboard geometry and replays text
// with human-like pacing and self-correction.
type Humanoid struct {
	// mu guards rng. Layouts are read-only after New.
	mu      sync.Mutex
	config  Config
	delay   DurationRange
	family  *keyboard.Family
	logger  *zap.Logger
	rng     *rand.Rand
	sleeper Sleeper
	device  Sink
	binder  ElementBinder
}

// Option configures optional collaborators of a Humanoid.
type Option func(*Humanoid)

// WithDevice sets the direct-device sink used by TypeToDevice.
func WithDevice(s Sink) Option {
	return func(h *Humanoid) { h.device = s }
}

// WithElementBinder enables the UI-element capability used by TypeInto.
func WithElementBinder(b ElementBinder) Option {
	return func(h *Humanoid) { h.binder = b }
}

// WithSleeper replaces the context-aware timer used for pauses.
func WithSleeper(s Sleeper) Option {
	return func(h *Humanoid) { h.sleeper = s }
}

// WithRand supplies the random source. Not safe to share with other goroutines.
func WithRand(rng *rand.Rand) Option {
	return func(h *Humanoid) { h.rng = rng }
}

// New validates the configuration, builds the layout family and checks that the
// selected sink kind is backed by a capability.
func New(config Config, logger *zap.Logger, opts ...Option) (*Humanoid, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Sink, _ = NormalizeSinkKind(string(config.Sink))

	family, err := keyboard.Lookup(config.Layout)
	if err != nil {
		return nil, configError("layout", config.Layout, err.Error())
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Humanoid{
		config:  config,
		delay:   config.DelayRange(),
		family:  family,
		logger:  logger.Named("humanoid"),
		sleeper: timerSleeper{},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.rng == nil {
		h.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	switch config.Sink {
	case SinkDevice:
		if h.device == nil {
			return nil, configError("sink", config.Sink, "no device sink supplied")
		}
	case SinkElement:
		if h.binder == nil {
			return nil, configError("sink", config.Sink, "UI automation capability is not available")
		}
	}

	h.logger.Debug("Humanoid typer initialized.",
		zap.String("layout", family.Name),
		zap.Int("shift_levels", len(family.Levels)),
		zap.Float64("average_cpm", config.AverageCPM),
		zap.Duration("delay_min", h.delay.Min),
		zap.Duration("delay_max", h.delay.Max),
		zap.String("sink", string(config.Sink)),
	)
	return h, nil
}

// Config returns the validated session configuration.
func (h *Humanoid) Config() Config { return h.config }

// DelayRange returns the inter-keystroke pause range derived from the average speed.
func (h *Humanoid) DelayRange() DurationRange { return h.delay }

// Family returns the shift levels of the selected layout family.
func (h *Humanoid) Family() *keyboard.Family { return h.family }
