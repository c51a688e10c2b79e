// internal/humanoid/plan.go
package humanoid

import (
	"fmt"
	"math"
	"unicode"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

// ErrorKind is the kind of a planned typo.
type ErrorKind string

const (
	// ErrorModify replaces the character in place with a neighbour.
	ErrorModify ErrorKind = "MODIFY"
	// ErrorAdd inserts a neighbour right after the character.
	ErrorAdd ErrorKind = "ADD"
)

// ErrorRecord is one planned typo. Index is the rune offset at the time the
// record was generated; later ADD records shift the text under earlier ones.
type ErrorRecord struct {
	Index      int       `json:"index"`
	Original   rune      `json:"original"`
	Substitute rune      `json:"substitute"`
	Kind       ErrorKind `json:"kind"`
}

// Plan is the result of PlanErrors: the text to type, its corrupted copy and
// the ordered list of typos that produced the copy.
type Plan struct {
	Original []rune
	Mutated  []rune
	Records  []ErrorRecord

	byIndex map[int]ErrorRecord
}

func newPlan(original, mutated []rune, records []ErrorRecord) *Plan {
	p := &Plan{Original: original, Mutated: mutated, Records: records}
	p.byIndex = make(map[int]ErrorRecord, len(records))
	for _, rec := range records {
		// First record generated for an index decides the replay branch.
		if _, seen := p.byIndex[rec.Index]; !seen {
			p.byIndex[rec.Index] = rec
		}
	}
	return p
}

// Text returns the original text.
func (p *Plan) Text() string { return string(p.Original) }

// MutatedText returns the text with every planned typo applied.
func (p *Plan) MutatedText() string { return string(p.Mutated) }

// RecordAt returns the record deciding the replay branch for index i.
func (p *Plan) RecordAt(i int) (ErrorRecord, bool) {
	if p.byIndex == nil {
		for _, rec := range p.Records {
			if rec.Index == i {
				return rec, true
			}
		}
		return ErrorRecord{}, false
	}
	rec, ok := p.byIndex[i]
	return rec, ok
}

// FindLayout returns the first shift level of the session family containing r.
func (h *Humanoid) FindLayout(r rune) (*keyboard.Layout, error) {
	return h.family.Find(r)
}

// NearestNeighbor picks uniformly among the closest keys to r on its layout.
func (h *Humanoid) NearestNeighbor(r rune) (rune, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.nearestNeighborLocked(r)
}

func (h *Humanoid) nearestNeighborLocked(r rune) (rune, error) {
	layout, err := h.family.Find(r)
	if err != nil {
		return 0, err
	}
	candidates, err := layout.Nearest(r, h.config.NeighborCount)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, &keyboard.LookupError{Char: r}
	}
	return candidates[h.rng.Intn(len(candidates))].Char, nil
}

// PlanErrors draws a fresh set of typos for text. Draw positions are fixed up
// front and each one is applied to the progressively mutated text, so a
// position can be corrupted twice and ADD records shift later characters.
func (h *Humanoid) PlanErrors(text string) (*Plan, error) {
	original := []rune(text)
	mutated := append([]rune(nil), original...)
	if len(original) == 0 {
		return newPlan(original, mutated, nil), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	multiplier := h.config.ErrorMultiplierMin +
		h.rng.Intn(h.config.ErrorMultiplierMax-h.config.ErrorMultiplierMin+1)
	count := int(math.RoundToEven(float64(len(original)) * h.config.ErrorRate * float64(multiplier)))

	positions := make([]int, count)
	for i := range positions {
		positions[i] = h.rng.Intn(len(original))
	}

	records := make([]ErrorRecord, 0, count)
	for _, idx := range positions {
		current := mutated[idx]
		if unicode.IsSpace(current) {
			continue
		}
		neighbor, err := h.nearestNeighborLocked(current)
		if err != nil {
			return nil, fmt.Errorf("humanoid: planning error at index %d: %w", idx, err)
		}

		rec := ErrorRecord{Index: idx, Original: current, Substitute: neighbor}
		if h.rng.Float64() < h.config.ModifyProbability {
			rec.Kind = ErrorModify
			mutated[idx] = neighbor
		} else {
			rec.Kind = ErrorAdd
			mutated = append(mutated, 0)
			copy(mutated[idx+2:], mutated[idx+1:])
			mutated[idx+1] = neighbor
		}
		records = append(records, rec)
	}
	return newPlan(original, mutated, records), nil
}
