package typo

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

// scriptedRand replays fixed draws so individual branches can be pinned down.
type scriptedRand struct {
	t      *testing.T
	ints   []int
	floats []float64
	bounds []int
}

func (r *scriptedRand) Intn(n int) int {
	r.t.Helper()
	require.NotEmpty(r.t, r.ints, "unexpected Intn(%d)", n)
	v := r.ints[0]
	r.ints = r.ints[1:]
	r.bounds = append(r.bounds, n)
	require.Less(r.t, v, n, "scripted value out of range")
	return v
}

func (r *scriptedRand) Float64() float64 {
	r.t.Helper()
	require.NotEmpty(r.t, r.floats, "unexpected Float64()")
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func qwerty(t *testing.T) *keyboard.Set {
	t.Helper()
	set, err := keyboard.Named("qwerty")
	require.NoError(t, err)
	return set
}

func TestNeighbors_TiesKeepDeclarationOrder(t *testing.T) {
	lower := qwerty(t).Layouts()[0]

	// '2', 'w', 'r' and 'd' are all one pitch from 'e'; '2' is declared first.
	got, err := Neighbors('e', lower, 3)
	require.NoError(t, err)
	assert.Equal(t, []rune{'2', 'w', 'r'}, got)

	got, err = Neighbors('e', lower, 4)
	require.NoError(t, err)
	assert.Equal(t, []rune{'2', 'w', 'r', 'd'}, got)

	_, err = Neighbors('E', lower, 3)
	assert.ErrorIs(t, err, keyboard.ErrUnknownCharacter)
}

func TestNearestNeighbor(t *testing.T) {
	set := qwerty(t)
	rng := rand.New(rand.NewSource(7))

	for _, c := range []rune{'q', 'g', '/', 'P', '~'} {
		layout, err := set.Resolve(c)
		require.NoError(t, err)
		pool, err := Neighbors(c, layout, 3)
		require.NoError(t, err)
		require.Len(t, pool, 3)

		seen := map[rune]int{}
		for i := 0; i < 1000; i++ {
			n, err := NearestNeighbor(c, layout, rng)
			require.NoError(t, err)
			require.NotEqual(t, c, n)
			require.Contains(t, pool, n)
			seen[n]++
		}
		assert.Len(t, seen, 3, "all three neighbors of %q should be drawn", c)
	}
}

func TestNearestNeighbor_SmallLayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	pair := keyboard.MustFromGrid("a b")
	n, err := NearestNeighbor('a', pair, rng)
	require.NoError(t, err)
	assert.Equal(t, 'b', n)

	single := keyboard.MustFromGrid("a")
	_, err = NearestNeighbor('a', single, rng)
	assert.ErrorIs(t, err, ErrNoNeighbor)
}

func TestInject_Modify(t *testing.T) {
	rng := &scriptedRand{
		t:      t,
		ints:   []int{9, 1, 1}, // multiplier 10, index 1, second neighbor
		floats: []float64{0.9}, // > 0.3: modify
	}
	inj := New(qwerty(t), rng, zaptest.NewLogger(t))

	mutated, edits, err := inj.Inject("hello")
	require.NoError(t, err)
	assert.Equal(t, "hwllo", mutated)
	require.Len(t, edits, 1)
	assert.Equal(t, Edit{Index: 1, Original: 'e', Inserted: 'w', Kind: Modify}, edits[0])
	assert.Equal(t, []int{10, 5, 3}, rng.bounds)
}

func TestInject_Add(t *testing.T) {
	rng := &scriptedRand{
		t:      t,
		ints:   []int{9, 1, 2},
		floats: []float64{0.3}, // not > 0.3: add
	}
	inj := New(qwerty(t), rng, nil)

	mutated, edits, err := inj.Inject("hello")
	require.NoError(t, err)
	assert.Equal(t, "herllo", mutated)
	require.Len(t, edits, 1)
	assert.Equal(t, Edit{Index: 1, Original: 'e', Inserted: 'r', Kind: Add}, edits[0])
}

func TestInject_SpacesConsumeBudget(t *testing.T) {
	// 50 runes at multiplier 1 gives a budget of one draw, which lands on a space.
	text := strings.Repeat("a ", 25)
	rng := &scriptedRand{t: t, ints: []int{0, 1}}
	inj := New(qwerty(t), rng, nil)

	mutated, edits, err := inj.Inject(text)
	require.NoError(t, err)
	assert.Equal(t, text, mutated)
	assert.Empty(t, edits)
	assert.Empty(t, rng.ints, "both scripted draws should be consumed")
}

func TestInject_LaterEditsSeeEarlierOnes(t *testing.T) {
	// Budget of two draws at the same index: the second typo is computed from
	// the character left by the first one.
	text := strings.Repeat("e", 50)
	rng := &scriptedRand{
		t:      t,
		ints:   []int{1, 3, 3, 1, 0}, // multiplier 2, index 3 twice, neighbor 1 then 0
		floats: []float64{0.9, 0.9},
	}
	inj := New(qwerty(t), rng, nil)

	mutated, edits, err := inj.Inject(text)
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.Equal(t, Edit{Index: 3, Original: 'e', Inserted: 'w', Kind: Modify}, edits[0])
	// Closest keys to 'w' in declaration order are '1', 'q', 'e'.
	assert.Equal(t, Edit{Index: 3, Original: 'w', Inserted: '1', Kind: Modify}, edits[1])
	assert.Equal(t, '1', []rune(mutated)[3])
	assert.Len(t, []rune(mutated), 50)
}

func TestInject_AllSpaces(t *testing.T) {
	text := strings.Repeat(" ", 200)
	for seed := int64(0); seed < 20; seed++ {
		inj := New(qwerty(t), rand.New(rand.NewSource(seed)), nil)
		mutated, edits, err := inj.Inject(text)
		require.NoError(t, err)
		assert.Equal(t, text, mutated)
		assert.Empty(t, edits)
	}
}

func TestInject_Empty(t *testing.T) {
	inj := New(qwerty(t), &scriptedRand{t: t}, nil)
	mutated, edits, err := inj.Inject("")
	require.NoError(t, err)
	assert.Empty(t, mutated)
	assert.Empty(t, edits)
}

func TestInject_UnsupportedCharacter(t *testing.T) {
	inj := New(qwerty(t), rand.New(rand.NewSource(3)), nil)
	mutated, edits, err := inj.Inject(strings.Repeat("ß", 100))
	require.Error(t, err)
	assert.ErrorIs(t, err, keyboard.ErrUnsupportedCharacter)
	assert.Empty(t, mutated)
	assert.Nil(t, edits)
}

func TestInject_Properties(t *testing.T) {
	set := qwerty(t)
	alphabet := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 ,.;'!?")

	rapid.Check(t, func(rt *rapid.T) {
		text := string(rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 400).Draw(rt, "text"))
		seed := rapid.Int64().Draw(rt, "seed")

		inj := New(set, rand.New(rand.NewSource(seed)), nil)
		mutated, edits, err := inj.Inject(text)
		if err != nil {
			rt.Fatalf("inject: %v", err)
		}

		adds := 0
		for _, e := range edits {
			if e.Kind == Add {
				adds++
			}
			if e.Original == ' ' {
				rt.Fatalf("space was mistyped: %+v", e)
			}
			if e.Inserted == e.Original {
				rt.Fatalf("typo reproduces the original key: %+v", e)
			}
			layout, err := set.Resolve(e.Original)
			if err != nil {
				rt.Fatalf("resolve %q: %v", e.Original, err)
			}
			pool, _ := Neighbors(e.Original, layout, 3)
			if !containsRune(pool, e.Inserted) {
				rt.Fatalf("%q is not among the closest keys %q of %q", e.Inserted, string(pool), e.Original)
			}
			if e.Index < 0 || e.Index >= len([]rune(text)) {
				rt.Fatalf("edit index %d out of range", e.Index)
			}
		}
		if got := len([]rune(mutated)) - len([]rune(text)); got != adds {
			rt.Fatalf("mutated text grew by %d runes, want %d", got, adds)
		}
		if maxEdits := len([]rune(text)) / 5; len(edits) > maxEdits+1 {
			rt.Fatalf("%d edits exceeds the maximum budget for %d runes", len(edits), len([]rune(text)))
		}
	})
}

func containsRune(rs []rune, r rune) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "MODIFY", Modify.String())
	assert.Equal(t, "ADD", Add.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
	b, err := Add.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ADD", string(b))
}
