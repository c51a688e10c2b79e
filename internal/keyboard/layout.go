// internal/keyboard/layout.go
package keyboard

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrStaggering is returned when a per-row staggering list does not cover every row.
var ErrStaggering = errors.New("keyboard: staggering list shorter than rows-1")

// Position is the centre of a key, in key units scaled by the layout pitch.
type Position struct {
	Row, Col float64
}

// Sub returns the component-wise difference of p and other.
func (p Position) Sub(other Position) Position {
	return Position{Row: p.Row - other.Row, Col: p.Col - other.Col}
}

// Dist calculates the Euclidean distance between p and other.
func (p Position) Dist(other Position) float64 {
	d := p.Sub(other)
	return math.Hypot(d.Row, d.Col)
}

// Coordinate is one entry of an explicit character to (row, col) mapping.
// The origin is the top-left key.
type Coordinate struct {
	Char     rune
	Row, Col int
}

// Staggering controls the horizontal shift applied to each row.
// The zero value applies no shift.
type Staggering struct {
	uniform float64
	offsets []float64
}

// UniformStagger shifts row i by i*amount.
func UniformStagger(amount float64) Staggering {
	return Staggering{uniform: amount}
}

// RowStagger takes the shift between each pair of consecutive rows
// (element i is the shift between rows i and i+1).
func RowStagger(increments ...float64) Staggering {
	offsets := make([]float64, 0, len(increments)+1)
	offsets = append(offsets, 0)
	acc := 0.0
	for _, inc := range increments {
		acc += inc
		offsets = append(offsets, acc)
	}
	return Staggering{offsets: offsets}
}

func (s Staggering) offset(row int) (float64, error) {
	if s.offsets == nil {
		return float64(row) * s.uniform, nil
	}
	if row >= len(s.offsets) {
		return 0, fmt.Errorf("%w: row %d, %d increments", ErrStaggering, row, len(s.offsets)-1)
	}
	return s.offsets[row], nil
}

type options struct {
	staggering      Staggering
	horizontalPitch float64
	verticalPitch   float64
}

// Option customises how coordinates are turned into positions.
type Option func(*options)

// WithStaggering sets the row staggering.
func WithStaggering(s Staggering) Option {
	return func(o *options) { o.staggering = s }
}

// WithPitch sets the distance between the centres of two adjacent keys.
func WithPitch(horizontal, vertical float64) Option {
	return func(o *options) {
		o.horizontalPitch = horizontal
		o.verticalPitch = vertical
	}
}

// Layout is an immutable, insertion-ordered mapping from character to key position.
type Layout struct {
	order     []rune
	positions map[rune]Position
}

// FromCoordinates builds a layout from an explicit, ordered coordinate list.
// A character listed twice keeps its first enumeration slot but takes the
// position of its last occurrence.
func FromCoordinates(coords []Coordinate, opts ...Option) (*Layout, error) {
	o := options{horizontalPitch: 1, verticalPitch: 1}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Layout{
		order:     make([]rune, 0, len(coords)),
		positions: make(map[rune]Position, len(coords)),
	}
	for _, c := range coords {
		shift, err := o.staggering.offset(c.Row)
		if err != nil {
			return nil, err
		}
		if _, seen := l.positions[c.Char]; !seen {
			l.order = append(l.order, c.Char)
		}
		l.positions[c.Char] = Position{
			Row: float64(c.Row) * o.verticalPitch,
			Col: float64(c.Col)*o.horizontalPitch + shift,
		}
	}
	return l, nil
}

// FromGrid builds a layout from rows of space separated characters.
//
// Common indentation is stripped and blank lines are dropped. Only every second
// rune of a row is read, so a space at a read position leaves a gap with no key.
func FromGrid(grid string, opts ...Option) (*Layout, error) {
	var coords []Coordinate
	for i, row := range gridRows(grid) {
		runes := []rune(row)
		for j := 0; j*2 < len(runes); j++ {
			ch := runes[j*2]
			if ch == ' ' {
				continue
			}
			coords = append(coords, Coordinate{Char: ch, Row: i, Col: j})
		}
	}
	return FromCoordinates(coords, opts...)
}

// gridRows dedents the grid and returns its non-empty lines.
func gridRows(grid string) []string {
	lines := strings.Split(strings.ReplaceAll(grid, "\r\n", "\n"), "\n")

	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}

	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.TrimPrefix(line, prefix))
	}
	return rows
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// Contains reports whether the layout has a key for r.
func (l *Layout) Contains(r rune) bool {
	_, ok := l.positions[r]
	return ok
}

// Position returns the key position of r.
func (l *Layout) Position(r rune) (Position, bool) {
	p, ok := l.positions[r]
	return p, ok
}

// Chars returns the characters of the layout in enumeration order.
func (l *Layout) Chars() []rune {
	out := make([]rune, len(l.order))
	copy(out, l.order)
	return out
}

// Len returns the number of keys.
func (l *Layout) Len() int { return len(l.order) }

// Distance is the Euclidean distance between the keys of a and b.
func (l *Layout) Distance(a, b rune) (float64, error) {
	if a == b {
		return 0, nil
	}
	pa, ok := l.positions[a]
	if !ok {
		return 0, &LookupError{Char: a}
	}
	pb, ok := l.positions[b]
	if !ok {
		return 0, &LookupError{Char: b}
	}
	return pa.Dist(pb), nil
}

// TypingDistance sums the distances between consecutive characters of word.
func (l *Layout) TypingDistance(word string) (float64, error) {
	runes := []rune(word)
	total := 0.0
	for i := 1; i < len(runes); i++ {
		d, err := l.Distance(runes[i-1], runes[i])
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// Neighbor is a key and its distance from some origin key.
type Neighbor struct {
	Char     rune
	Distance float64
}

// Nearest returns up to n other keys ordered by distance from r. Equal
// distances keep enumeration order.
func (l *Layout) Nearest(r rune, n int) ([]Neighbor, error) {
	origin, ok := l.positions[r]
	if !ok {
		return nil, &LookupError{Char: r}
	}
	out := make([]Neighbor, 0, len(l.order))
	for _, c := range l.order {
		if c == r {
			continue
		}
		out = append(out, Neighbor{Char: c, Distance: origin.Dist(l.positions[c])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}

// Rows is derived from the largest row position.
func (l *Layout) Rows() int {
	if len(l.order) == 0 {
		return 0
	}
	maxRow := math.Inf(-1)
	for _, p := range l.positions {
		maxRow = math.Max(maxRow, p.Row)
	}
	return int(maxRow + 1)
}

// Columns is derived from the largest column position.
func (l *Layout) Columns() int {
	if len(l.order) == 0 {
		return 0
	}
	maxCol := math.Inf(-1)
	for _, p := range l.positions {
		maxCol = math.Max(maxCol, p.Col)
	}
	return int(maxCol + 1)
}

// Shape returns (rows, columns).
func (l *Layout) Shape() (int, int) {
	return l.Rows(), l.Columns()
}

// String renders the layout back into a space separated grid.
func (l *Layout) String() string {
	rows := make([][]string, l.Rows())
	type cell struct{ row, col int }
	byCell := make(map[cell]rune, len(l.order))
	cells := make([]cell, 0, len(l.order))
	for _, ch := range l.order {
		p := l.positions[ch]
		c := cell{row: int(p.Row), col: int(p.Col)}
		if _, dup := byCell[c]; !dup {
			cells = append(cells, c)
		}
		byCell[c] = ch
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})

	for _, c := range cells {
		if c.row < 0 || c.row >= len(rows) {
			continue
		}
		for len(rows[c.row]) < c.col {
			rows[c.row] = append(rows[c.row], " ")
		}
		rows[c.row] = append(rows[c.row], string(byCell[c]))
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, " ")
	}
	return strings.Join(lines, "\n")
}
