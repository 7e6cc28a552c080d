// internal/typo/injector.go
package typo

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

// -- Error policy --
const (
	// baseErrorRate is scaled by a random multiplier in [1, maxRateMultiplier]
	// drawn once per text, so the typo density itself varies between texts.
	baseErrorRate     = 0.02
	maxRateMultiplier = 10
	// addProbability is the chance that a typo is an extra key rather than a wrong key.
	addProbability = 0.3
	// neighborPool is how many of the closest keys a typo is drawn from.
	neighborPool = 3
)

// ErrNoNeighbor is returned when a layout has no key other than the one being mistyped.
var ErrNoNeighbor = errors.New("typo: no neighboring key")

// Kind distinguishes the two typo shapes.
type Kind int

const (
	// Modify is a wrong key typed in place of the intended one.
	Modify Kind = iota
	// Add is an extra wrong key typed right after the intended one.
	Add
)

func (k Kind) String() string {
	switch k {
	case Modify:
		return "MODIFY"
	case Add:
		return "ADD"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Edit is one injected typo. Index is the rune offset the typo was made at;
// Original is the character found there and Inserted the wrong key.
type Edit struct {
	Index    int  `json:"index"`
	Original rune `json:"original"`
	Inserted rune `json:"inserted"`
	Kind     Kind `json:"kind"`
}

// Rand is the subset of *math/rand.Rand the injector draws from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Injector corrupts text with plausible typos drawn from keyboard geometry.
type Injector struct {
	set    *keyboard.Set
	rng    Rand
	logger *zap.Logger
}

// New creates an Injector. A nil logger disables logging.
func New(set *keyboard.Set, rng Rand, logger *zap.Logger) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Injector{set: set, rng: rng, logger: logger}
}

// Inject returns text with typos applied and the edits that produced it, in
// the order they were drawn. Positions are drawn with replacement, so an
// index can be hit more than once; spaces are never corrupted. Each edit is
// applied before the next one is computed.
//
// If a character chosen for a typo is on none of the set's layouts, Inject
// fails with keyboard.ErrUnsupportedCharacter and returns no edits.
func (inj *Injector) Inject(text string) (string, []Edit, error) {
	working := []rune(text)
	n := len(working)
	if n == 0 {
		return text, nil, nil
	}

	multiplier := 1 + inj.rng.Intn(maxRateMultiplier)
	budget := int(math.RoundToEven(float64(n) * baseErrorRate * float64(multiplier)))

	// All positions are drawn up front against the original length.
	indices := make([]int, budget)
	for i := range indices {
		indices[i] = inj.rng.Intn(n)
	}

	var edits []Edit
	for _, idx := range indices {
		c := working[idx]
		if c == ' ' {
			continue
		}

		kind := Add
		if inj.rng.Float64() > addProbability {
			kind = Modify
		}

		layout, err := inj.set.Resolve(c)
		if err != nil {
			return "", nil, fmt.Errorf("typo: cannot mistype index %d: %w", idx, err)
		}
		wrong, err := NearestNeighbor(c, layout, inj.rng)
		if err != nil {
			return "", nil, fmt.Errorf("typo: cannot mistype index %d: %w", idx, err)
		}

		switch kind {
		case Modify:
			working[idx] = wrong
		case Add:
			working = slices.Insert(working, idx+1, wrong)
		}
		edit := Edit{Index: idx, Original: c, Inserted: wrong, Kind: kind}
		edits = append(edits, edit)

		inj.logger.Debug("Injected typo.",
			zap.Int("index", idx),
			zap.String("original", string(c)),
			zap.String("inserted", string(wrong)),
			zap.Stringer("kind", kind))
	}

	inj.logger.Debug("Typo injection complete.",
		zap.Int("length", n),
		zap.Int("multiplier", multiplier),
		zap.Int("budget", budget),
		zap.Int("edits", len(edits)))

	return string(working), edits, nil
}

// Neighbors returns up to k characters of layout closest to c, nearest
// first. Equal distances keep the layout's declaration order.
func Neighbors(c rune, layout *keyboard.Layout, k int) ([]rune, error) {
	type candidate struct {
		char rune
		dist float64
	}
	chars := layout.Chars()
	candidates := make([]candidate, 0, len(chars))
	for _, other := range chars {
		if other == c {
			continue
		}
		d, err := layout.Distance(c, other)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{char: other, dist: d})
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(a.dist, b.dist)
	})

	k = min(k, len(candidates))
	out := make([]rune, k)
	for i := range out {
		out[i] = candidates[i].char
	}
	return out, nil
}

// NearestNeighbor picks, uniformly at random, one of the three keys closest
// to c on layout. It never returns c itself.
func NearestNeighbor(c rune, layout *keyboard.Layout, rng Rand) (rune, error) {
	pool, err := Neighbors(c, layout, neighborPool)
	if err != nil {
		return 0, err
	}
	if len(pool) == 0 {
		return 0, fmt.Errorf("%w: %q is the only key on its layout", ErrNoNeighbor, c)
	}
	return pool[rng.Intn(len(pool))], nil
}
