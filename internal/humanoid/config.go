// internal/humanoid/config.go
package humanoid

import (
	"math"
	"strings"
	"time"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

// SinkKind selects which capability set receives the keystrokes.
type SinkKind string

const (
	// SinkDevice injects keystrokes straight into an input device.
	SinkDevice SinkKind = "device"
	// SinkElement types into a caller supplied UI element handle.
	SinkElement SinkKind = "element"
)

// NormalizeSinkKind parses a raw string into a known SinkKind.
func NormalizeSinkKind(raw string) (SinkKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "device", "direct-device":
		return SinkDevice, true
	case "element", "ui-element":
		return SinkElement, true
	}
	return "", false
}

// DurationRange is a closed interval a pause is drawn from uniformly.
type DurationRange struct {
	Min time.Duration `json:"min" yaml:"min" mapstructure:"min"`
	Max time.Duration `json:"max" yaml:"max" mapstructure:"max"`
}

// Config holds the parameters of a typing session.
type Config struct {
	Layout     string   `json:"layout" yaml:"layout" mapstructure:"layout"`
	AverageCPM float64  `json:"average_cpm" yaml:"average_cpm" mapstructure:"average_cpm"`
	Sink       SinkKind `json:"sink" yaml:"sink" mapstructure:"sink"`

	// Strict rejects text containing characters absent from every shift level
	// before anything is typed.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// Error plan
	ErrorRate          float64 `json:"error_rate" yaml:"error_rate" mapstructure:"error_rate"`
	ErrorMultiplierMin int     `json:"error_multiplier_min" yaml:"error_multiplier_min" mapstructure:"error_multiplier_min"`
	ErrorMultiplierMax int     `json:"error_multiplier_max" yaml:"error_multiplier_max" mapstructure:"error_multiplier_max"`
	ModifyProbability  float64 `json:"modify_probability" yaml:"modify_probability" mapstructure:"modify_probability"`
	NeighborCount      int     `json:"neighbor_count" yaml:"neighbor_count" mapstructure:"neighbor_count"`

	// Correction pauses
	RecognitionPause DurationRange `json:"recognition_pause" yaml:"recognition_pause" mapstructure:"recognition_pause"`
	RepositionPause  DurationRange `json:"reposition_pause" yaml:"reposition_pause" mapstructure:"reposition_pause"`
}

// DefaultConfig returns the median typist: 190 characters per minute on QWERTY.
func DefaultConfig() Config {
	return Config{
		Layout:             keyboard.QWERTY,
		AverageCPM:         190,
		Sink:               SinkDevice,
		ErrorRate:          0.02,
		ErrorMultiplierMin: 1,
		ErrorMultiplierMax: 10,
		ModifyProbability:  0.7,
		NeighborCount:      3,
		RecognitionPause:   DurationRange{Min: 400 * time.Millisecond, Max: 500 * time.Millisecond},
		RepositionPause:    DurationRange{Min: 400 * time.Millisecond, Max: 450 * time.Millisecond},
	}
}

// Validate checks the fields that New cannot default.
func (c Config) Validate() error {
	if !keyboard.Has(c.Layout) {
		return configError("layout", c.Layout, keyboard.ErrUnknownFamily.Error())
	}
	if !(c.AverageCPM > 0) || math.IsInf(c.AverageCPM, 0) {
		return configError("average_cpm", c.AverageCPM, "must be a positive number")
	}
	if _, ok := NormalizeSinkKind(string(c.Sink)); !ok {
		return configError("sink", c.Sink, "must be 'device' or 'element'")
	}
	if c.ErrorRate < 0 {
		return configError("error_rate", c.ErrorRate, "must not be negative")
	}
	if c.ErrorMultiplierMin < 0 || c.ErrorMultiplierMax < c.ErrorMultiplierMin {
		return configError("error_multiplier_max", c.ErrorMultiplierMax, "must be >= error_multiplier_min >= 0")
	}
	if c.ModifyProbability < 0 || c.ModifyProbability > 1 {
		return configError("modify_probability", c.ModifyProbability, "must be between 0 and 1")
	}
	if c.NeighborCount < 1 {
		return configError("neighbor_count", c.NeighborCount, "must be at least 1")
	}
	for name, r := range map[string]DurationRange{
		"recognition_pause": c.RecognitionPause,
		"reposition_pause":  c.RepositionPause,
	} {
		if r.Min < 0 || r.Max < r.Min {
			return configError(name, r, "max must be >= min >= 0")
		}
	}
	return nil
}

// DelaySeconds derives the inter-keystroke delay range, in seconds rounded to
// three decimals, from the average speed. The range is skewed towards longer
// pauses: 60/(3.2*cpm) to 60/(0.8*cpm).
func (c Config) DelaySeconds() (lo, hi float64) {
	return round3(60 / (3.2 * c.AverageCPM)), round3(60 / (0.8 * c.AverageCPM))
}

// DelayRange is DelaySeconds as durations.
func (c Config) DelayRange() DurationRange {
	lo, hi := c.DelaySeconds()
	return DurationRange{Min: secondsToDuration(lo), Max: secondsToDuration(hi)}
}

func round3(v float64) float64 {
	return math.RoundToEven(v*1000) / 1000
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
