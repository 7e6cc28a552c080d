package keyboard

import "math"

// Position is the centre of a key, in key-pitch units, measured from the
// top-left key. Row grows downward and Col grows to the right. Col is
// fractional on staggered rows.
type Position struct {
	Row float64 `json:"row" yaml:"row"`
	Col float64 `json:"col" yaml:"col"`
}

// Sub returns p - o.
func (p Position) Sub(o Position) Position {
	return Position{Row: p.Row - o.Row, Col: p.Col - o.Col}
}

// Norm returns the Euclidean length of p.
func (p Position) Norm() float64 {
	return math.Hypot(p.Row, p.Col)
}
