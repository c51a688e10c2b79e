// -- internal/humanoid/keyboard.go --
package humanoid

import (
	"context"
	"fmt"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

var _ Typer = (*Humanoid)(nil)

// Type plans a fresh set of typos for text and replays it on sink.
func (h *Humanoid) Type(ctx context.Context, text string, sink Sink) error {
	if sink == nil {
		return fmt.Errorf("humanoid: nil sink")
	}
	text = norm.NFC.String(text)

	logger := h.logger.With(zap.String("type_id", uuid.NewString()))
	if h.config.Strict {
		if err := h.checkCoverage(text); err != nil {
			return err
		}
	}

	plan, err := h.PlanErrors(text)
	if err != nil {
		return err
	}
	logger.Debug("Planned typing errors.",
		zap.Int("length", len(plan.Original)),
		zap.Int("errors", len(plan.Records)),
		zap.String("mutated", plan.MutatedText()),
	)

	if err := h.Replay(ctx, plan, sink); err != nil {
		logger.Debug("Replay aborted.", zap.Error(err))
		return err
	}
	logger.Debug("Replay complete.")
	return nil
}

// TypeToDevice types text on the device sink given to New.
func (h *Humanoid) TypeToDevice(ctx context.Context, text string) error {
	if h.device == nil {
		return configError("sink", SinkDevice, "no device sink supplied")
	}
	return h.Type(ctx, text, h.device)
}

// TypeInto types text into a UI element. target is passed to the element
// binder untouched.
func (h *Humanoid) TypeInto(ctx context.Context, text string, target any) error {
	if h.binder == nil {
		return configError("sink", SinkElement, "UI automation capability is not available")
	}
	sink, err := h.binder(target)
	if err != nil {
		return fmt.Errorf("humanoid: failed to bind element: %w", err)
	}
	return h.Type(ctx, text, sink)
}

// Replay walks the original text, acting out the typo recorded for each index
// and its correction. The walk is bounded by the original length, so characters
// pushed past the end by ADD records are never typed.
func (h *Humanoid) Replay(ctx context.Context, plan *Plan, sink Sink) error {
	if plan == nil {
		return fmt.Errorf("humanoid: nil plan")
	}
	if sink == nil {
		return fmt.Errorf("humanoid: nil sink")
	}
	for i, want := range plan.Original {
		rec, hasErr := plan.RecordAt(i)
		var err error
		switch {
		case hasErr && rec.Kind == ErrorModify:
			err = h.replayModify(ctx, sink, plan.Mutated[i], want)
		case hasErr && rec.Kind == ErrorAdd:
			err = h.replayAdd(ctx, sink, want, plan.Mutated[i])
		default:
			err = h.emit(ctx, sink, want)
		}
		if err != nil {
			return err
		}
		if err := h.pause(ctx, h.delay); err != nil {
			return err
		}
	}
	return nil
}

// replayModify types the wrong key, notices, erases it and types the right one.
func (h *Humanoid) replayModify(ctx context.Context, sink Sink, wrong, want rune) error {
	if err := h.emit(ctx, sink, wrong); err != nil {
		return err
	}
	if err := h.pause(ctx, h.config.RecognitionPause); err != nil {
		return err
	}
	if err := h.backspace(ctx, sink); err != nil {
		return err
	}
	if err := h.pause(ctx, h.config.RepositionPause); err != nil {
		return err
	}
	return h.emit(ctx, sink, want)
}

// replayAdd types the right key, an extra one, then erases the extra.
func (h *Humanoid) replayAdd(ctx context.Context, sink Sink, want, extra rune) error {
	if err := h.emit(ctx, sink, want); err != nil {
		return err
	}
	if err := h.pause(ctx, h.delay); err != nil {
		return err
	}
	if err := h.emit(ctx, sink, extra); err != nil {
		return err
	}
	if err := h.pause(ctx, h.config.RecognitionPause); err != nil {
		return err
	}
	return h.backspace(ctx, sink)
}

func (h *Humanoid) emit(ctx context.Context, sink Sink, r rune) error {
	if err := sink.EmitText(ctx, string(r)); err != nil {
		return fmt.Errorf("humanoid: failed to send key '%c': %w", r, err)
	}
	return nil
}

func (h *Humanoid) backspace(ctx context.Context, sink Sink) error {
	if err := sink.EmitKey(ctx, KeyBackspace); err != nil {
		return fmt.Errorf("humanoid: failed to send %s: %w", KeyBackspace, err)
	}
	return nil
}

// checkCoverage rejects text containing a rune absent from every shift level.
func (h *Humanoid) checkCoverage(text string) error {
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if !h.family.Contains(r) {
			return &keyboard.LookupError{Char: r}
		}
	}
	return nil
}
