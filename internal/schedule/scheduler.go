// internal/schedule/scheduler.go
package schedule

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/xkilldash9x/humantyper/internal/typo"
)

// ErrInvalidWPM is returned for a non-positive or non-finite typing speed.
var ErrInvalidWPM = errors.New("schedule: average WPM must be a positive number")

// -- Inter-key delay bounds as multiples of the average WPM --
const (
	fastFactor = 3.2
	slowFactor = 0.8
)

// Window is a closed range pauses are drawn from uniformly.
type Window struct {
	Min time.Duration
	Max time.Duration
}

// Contains reports whether d lies within the window.
func (w Window) Contains(d time.Duration) bool {
	return d >= w.Min && d <= w.Max
}

// Sample draws a uniform duration from the window.
func (w Window) Sample(rng Rand) time.Duration {
	return w.Min + time.Duration(rng.Float64()*float64(w.Max-w.Min))
}

// Fixed pauses around a corrected typo.
var (
	// ModifyPause follows a wrong key typed in place of the right one.
	ModifyPause = Window{Min: 400 * time.Millisecond, Max: 500 * time.Millisecond}
	// RetypePause follows the backspace, before the right key is typed.
	RetypePause = Window{Min: 400 * time.Millisecond, Max: 450 * time.Millisecond}
	// AddPause follows an extra key, before it is deleted.
	AddPause = Window{Min: 400 * time.Millisecond, Max: 500 * time.Millisecond}
)

// Rand is the randomness the scheduler needs.
type Rand interface {
	Float64() float64
}

// Timing is the inter-key delay model derived from a typing speed. Every
// key is followed by a pause drawn from [Low, High].
type Timing struct {
	AverageWPM float64
	Low        time.Duration
	High       time.Duration
}

// FromWPM derives the inter-key bounds for an average speed in words per
// minute: Low = 60/(3.2*wpm) and High = 60/(0.8*wpm) seconds.
func FromWPM(wpm float64) (Timing, error) {
	if wpm <= 0 || math.IsNaN(wpm) || math.IsInf(wpm, 0) {
		return Timing{}, fmt.Errorf("%w: got %v", ErrInvalidWPM, wpm)
	}
	return Timing{
		AverageWPM: wpm,
		Low:        seconds(60 / (fastFactor * wpm)),
		High:       seconds(60 / (slowFactor * wpm)),
	}, nil
}

// InterKey returns the window between Low and High.
func (t Timing) InterKey() Window { return Window{Min: t.Low, Max: t.High} }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// FirstEdits indexes edits by position. When several edits share an index
// the earliest one in the slice is kept.
func FirstEdits(edits []typo.Edit) map[int]typo.Edit {
	byIndex := make(map[int]typo.Edit, len(edits))
	for _, e := range edits {
		if _, ok := byIndex[e.Index]; !ok {
			byIndex[e.Index] = e
		}
	}
	return byIndex
}

// Schedule turns the intended text and its typos into the ordered
// instructions a sink should perform. mutated is the text the edits
// produced; the key typed by mistake at index i is always mutated[i], the
// same position in both texts even after an Add has shifted mutated. Pauses
// are drawn as the sequence is consumed. The sequence can be ranged over
// once; later ranges yield nothing.
//
// For each rune of original:
//   - untouched: the rune
//   - Modify: mutated[i], a pause, backspace, a retype pause, the rune
//   - Add: the rune, an inter-key pause, mutated[i], a pause, backspace
//
// followed in every case by an inter-key pause.
func Schedule(original, mutated string, edits []typo.Edit, timing Timing, rng Rand) iter.Seq[Instruction] {
	runes := []rune(original)
	typed := []rune(mutated)
	byIndex := FirstEdits(edits)
	used := false

	// mistyped is the key at i of the mutated text. A mutated text shorter
	// than original is a caller error; the intended rune stands in.
	mistyped := func(i int) rune {
		if i < len(typed) {
			return typed[i]
		}
		return runes[i]
	}

	return func(yield func(Instruction) bool) {
		if used {
			return
		}
		used = true

		emit := func(steps ...Instruction) bool {
			for _, s := range steps {
				if !yield(s) {
					return false
				}
			}
			return true
		}

		interKey := timing.InterKey()
		for i, r := range runes {
			e, ok := byIndex[i]
			switch {
			case !ok:
				if !emit(Char(r)) {
					return
				}
			case e.Kind == typo.Modify:
				if !emit(Char(mistyped(i)), Wait(ModifyPause.Sample(rng))) {
					return
				}
				if !emit(Backspace(), Wait(RetypePause.Sample(rng)), Char(r)) {
					return
				}
			case e.Kind == typo.Add:
				if !emit(Char(r), Wait(interKey.Sample(rng))) {
					return
				}
				if !emit(Char(mistyped(i)), Wait(AddPause.Sample(rng)), Backspace()) {
					return
				}
			}
			if !emit(Wait(interKey.Sample(rng))) {
				return
			}
		}
	}
}

// Replay runs seq against a Buffer and returns the resulting text.
func Replay(seq iter.Seq[Instruction]) string {
	var b Buffer
	for ins := range seq {
		b.Apply(ins)
	}
	return b.String()
}
