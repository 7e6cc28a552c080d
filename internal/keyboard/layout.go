// internal/keyboard/layout.go
package keyboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Layout maps characters to key positions for a single shift state of a
// physical keyboard. A Layout is immutable once built and safe to share.
type Layout struct {
	name  string
	order []rune
	keys  map[rune]Position
}

// KeyCoordinate places a character on the integer key grid, prior to any
// staggering or pitch scaling.
type KeyCoordinate struct {
	Char rune
	Row  int
	Col  int
}

// Staggering describes the horizontal shift applied to each row. The zero
// value means no staggering.
type Staggering struct {
	uniform float64
	gaps    []float64
	perRow  bool
}

// Uniform shifts each row by s relative to the previous one, so row i is
// shifted by i*s.
func Uniform(s float64) Staggering {
	return Staggering{uniform: s}
}

// PerRow gives an explicit shift for each gap between consecutive rows:
// gaps[i] is the shift between row i and row i+1. It must contain exactly
// one entry less than the number of rows.
func PerRow(gaps ...float64) Staggering {
	return Staggering{gaps: append([]float64(nil), gaps...), perRow: true}
}

// offsets returns the cumulative column shift of every row.
func (s Staggering) offsets(rows int) ([]float64, error) {
	out := make([]float64, rows)
	if !s.perRow {
		for i := range out {
			out[i] = float64(i) * s.uniform
		}
		return out, nil
	}
	if len(s.gaps) != rows-1 {
		return nil, fmt.Errorf("%w: got %d row offsets for %d rows, want %d",
			ErrInvalidStaggering, len(s.gaps), rows, rows-1)
	}
	for i := 1; i < rows; i++ {
		out[i] = out[i-1] + s.gaps[i-1]
	}
	return out, nil
}

type gridOptions struct {
	name            string
	staggering      Staggering
	horizontalPitch float64
	verticalPitch   float64
}

// GridOption customizes how integer key coordinates are turned into positions.
type GridOption func(*gridOptions)

// WithStaggering sets the row staggering. Default is no staggering.
func WithStaggering(s Staggering) GridOption {
	return func(o *gridOptions) { o.staggering = s }
}

// WithHorizontalPitch sets the distance between the centres of two
// horizontally adjacent keys. Default 1.
func WithHorizontalPitch(p float64) GridOption {
	return func(o *gridOptions) { o.horizontalPitch = p }
}

// WithVerticalPitch sets the distance between two rows. Default 1.
func WithVerticalPitch(p float64) GridOption {
	return func(o *gridOptions) { o.verticalPitch = p }
}

// WithName labels the layout, e.g. "lower" or "shift".
func WithName(name string) GridOption {
	return func(o *gridOptions) { o.name = name }
}

// FromCoordinates builds a Layout from explicit grid coordinates. The row
// position is Row*verticalPitch and the column position is
// Col*horizontalPitch plus the row's staggering offset. When a character is
// listed twice the later coordinate wins.
func FromCoordinates(coords []KeyCoordinate, opts ...GridOption) (*Layout, error) {
	o := gridOptions{horizontalPitch: 1, verticalPitch: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: layout has no keys", ErrInvalidGrid)
	}
	if o.horizontalPitch <= 0 || o.verticalPitch <= 0 {
		return nil, fmt.Errorf("%w: pitch must be positive (horizontal=%v, vertical=%v)",
			ErrInvalidGrid, o.horizontalPitch, o.verticalPitch)
	}

	rows := 0
	for _, c := range coords {
		if c.Row < 0 || c.Col < 0 {
			return nil, fmt.Errorf("%w: negative coordinate (%d, %d) for %q", ErrInvalidGrid, c.Row, c.Col, c.Char)
		}
		rows = max(rows, c.Row+1)
	}
	offsets, err := o.staggering.offsets(rows)
	if err != nil {
		return nil, err
	}

	l := &Layout{name: o.name, keys: make(map[rune]Position, len(coords))}
	for _, c := range coords {
		if _, seen := l.keys[c.Char]; !seen {
			l.order = append(l.order, c.Char)
		}
		l.keys[c.Char] = Position{
			Row: float64(c.Row) * o.verticalPitch,
			Col: float64(c.Col)*o.horizontalPitch + offsets[c.Row],
		}
	}
	return l, nil
}

// FromGrid parses a layout drawn as rows of characters separated by single
// spaces. Common indentation is stripped and blank lines are skipped. A
// space where a key would be leaves a gap in that row.
func FromGrid(grid string, opts ...GridOption) (*Layout, error) {
	return FromCoordinates(parseGrid(grid), opts...)
}

// MustFromGrid is like FromGrid but panics on error. It is intended for
// static layout tables.
func MustFromGrid(grid string, opts ...GridOption) *Layout {
	l, err := FromGrid(grid, opts...)
	if err != nil {
		panic(err)
	}
	return l
}

func parseGrid(grid string) []KeyCoordinate {
	var coords []KeyCoordinate
	row := 0
	for _, line := range strings.Split(dedent(grid), "\n") {
		if line == "" {
			continue
		}
		runes := []rune(line)
		for j := 0; j < len(runes); j += 2 {
			if runes[j] == ' ' || runes[j] == '\t' {
				continue
			}
			coords = append(coords, KeyCoordinate{Char: runes[j], Row: row, Col: j / 2})
		}
		row++
	}
	return coords
}

// dedent removes the whitespace prefix shared by all non-blank lines.
// Whitespace-only lines come back empty.
func dedent(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	margin, found := "", false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			margin, found = indent, true
			continue
		}
		for !strings.HasPrefix(indent, margin) {
			margin = margin[:len(margin)-1]
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

// Name returns the label given with WithName, if any.
func (l *Layout) Name() string { return l.name }

// Len returns the number of distinct characters in the layout.
func (l *Layout) Len() int { return len(l.order) }

// Contains reports whether c has a key on this layout.
func (l *Layout) Contains(c rune) bool {
	_, ok := l.keys[c]
	return ok
}

// Position returns the key position of c.
func (l *Layout) Position(c rune) (Position, bool) {
	p, ok := l.keys[c]
	return p, ok
}

// Chars returns the characters of the layout in declaration order.
func (l *Layout) Chars() []rune {
	return append([]rune(nil), l.order...)
}

// Distance is the Euclidean distance between the keys of c1 and c2. Equal
// characters are at distance 0 without consulting the layout.
func (l *Layout) Distance(c1, c2 rune) (float64, error) {
	if c1 == c2 {
		return 0, nil
	}
	p1, ok := l.keys[c1]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCharacter, c1)
	}
	p2, ok := l.keys[c2]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCharacter, c2)
	}
	return p1.Sub(p2).Norm(), nil
}

// TypingDistance is the total finger travel needed to type word on this
// layout, summed over consecutive character pairs.
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

// Rows is one more than the largest row coordinate, truncated.
func (l *Layout) Rows() int {
	return l.extent(func(p Position) float64 { return p.Row })
}

// Columns is one more than the largest column coordinate, truncated.
func (l *Layout) Columns() int {
	return l.extent(func(p Position) float64 { return p.Col })
}

// Shape returns (Rows, Columns).
func (l *Layout) Shape() (rows, cols int) {
	return l.Rows(), l.Columns()
}

func (l *Layout) extent(axis func(Position) float64) int {
	if len(l.keys) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, p := range l.keys {
		m = math.Max(m, axis(p))
	}
	return int(m + 1)
}

// String renders the layout back to the grid format, snapping each key to
// the integer cell it falls in.
func (l *Layout) String() string {
	type cell struct{ row, col int }
	byCell := make(map[cell]rune, len(l.order))
	for _, c := range l.order {
		p := l.keys[c]
		byCell[cell{int(p.Row), int(p.Col)}] = c
	}
	cells := make([]cell, 0, len(byCell))
	for k := range byCell {
		cells = append(cells, k)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].row != cells[j].row {
			return cells[i].row < cells[j].row
		}
		return cells[i].col < cells[j].col
	})

	rows := make([][]string, l.Rows())
	for _, k := range cells {
		for len(rows[k.row]) < k.col {
			rows[k.row] = append(rows[k.row], " ")
		}
		rows[k.row] = append(rows[k.row], string(byCell[k]))
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, " ")
	}
	return strings.Join(lines, "\n")
}
