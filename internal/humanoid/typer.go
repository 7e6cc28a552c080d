// internal/humanoid/typer.go
package humanoid

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
	"github.com/xkilldash9x/humantyper/internal/schedule"
	"github.com/xkilldash9x/humantyper/internal/typo"
)

const tracerName = "github.com/xkilldash9x/humantyper/internal/humanoid"

// ErrNoSink is returned when a Typer has no sink for the requested operation.
var ErrNoSink = errors.New("humanoid: no sink configured")

// Rand is the randomness a Typer draws typos and pauses from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Typer types text the way a person would, mistakes included.
type Typer struct {
	// mu serializes sessions; rng is not safe for concurrent use.
	mu      sync.Mutex
	cfg     Config
	set     *keyboard.Set
	timing  schedule.Timing
	rng     Rand
	logger  *zap.Logger
	tracer  trace.Tracer
	sink    Sink
	targets TargetSink
}

// Option customizes a Typer.
type Option func(*Typer)

// WithSink sets the sink used by TypeDirectly.
func WithSink(s Sink) Option {
	return func(t *Typer) { t.sink = s }
}

// WithTargetSink sets the sink used by TypeInto.
func WithTargetSink(ts TargetSink) Option {
	return func(t *Typer) { t.targets = ts }
}

// WithRand replaces the seeded random source.
func WithRand(r Rand) Option {
	return func(t *Typer) { t.rng = r }
}

// WithSet uses set instead of resolving cfg.Layout.
func WithSet(set *keyboard.Set) Option {
	return func(t *Typer) { t.set = set }
}

// WithTracer sets the tracer sessions are recorded with.
func WithTracer(tr trace.Tracer) Option {
	return func(t *Typer) { t.tracer = tr }
}

// New creates a Typer. The layout set and timing are resolved once here.
func New(cfg Config, logger *zap.Logger, opts ...Option) (*Typer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Typer{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(t)
	}

	if t.set == nil {
		var err error
		if cfg.LayoutFile != "" {
			t.set, err = keyboard.LoadSetFile(cfg.LayoutFile)
		} else {
			t.set, err = keyboard.Named(cfg.Layout)
		}
		if err != nil {
			return nil, fmt.Errorf("humanoid: failed to load layout set: %w", err)
		}
	}

	timing, err := schedule.FromWPM(cfg.AverageWPM)
	if err != nil {
		return nil, fmt.Errorf("humanoid: %w", err)
	}
	t.timing = timing

	if t.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		t.rng = rand.New(rand.NewSource(seed))
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(tracerName)
	}
	return t, nil
}

// Set returns the layout set the Typer draws typos from.
func (t *Typer) Set() *keyboard.Set { return t.set }

// Timing returns the inter-key delay model.
func (t *Typer) Timing() schedule.Timing { return t.timing }

// Plan is the outcome of typo injection for one text.
type Plan struct {
	Original string
	Mutated  string
	Edits    []typo.Edit
	Timing   schedule.Timing
}

// Plan injects typos into text without typing anything.
func (t *Typer) Plan(text string) (Plan, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	mutated, edits, err := typo.New(t.set, t.rng, t.logger).Inject(text)
	if err != nil {
		return Plan{}, fmt.Errorf("humanoid: %w", err)
	}
	return Plan{Original: text, Mutated: mutated, Edits: edits, Timing: t.timing}, nil
}

// TypeDirectly types text into whatever the sink has focused.
func (t *Typer) TypeDirectly(ctx context.Context, text string) error {
	if t.sink == nil {
		return ErrNoSink
	}
	return t.run(ctx, text, t.sink, "")
}

// TypeInto types text into target.
func (t *Typer) TypeInto(ctx context.Context, text, target string) error {
	if t.targets == nil {
		return ErrNoSink
	}
	return t.run(ctx, text, Bind(t.targets, target), target)
}

// run is the single driver behind both typing operations. Typos are fully
// computed before the first keystroke, so a text that cannot be mistyped
// emits nothing. The first sink error aborts the session; already typed
// keys are not undone.
func (t *Typer) run(ctx context.Context, text string, sink Sink, target string) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sessionID := uuid.NewString()
	logger := t.logger.With(
		zap.String("session_id", sessionID),
		zap.String("layout", t.set.Name()),
	)
	if target != "" {
		logger = logger.With(zap.String("target", target))
	}

	ctx, span := t.tracer.Start(ctx, "humanoid.Type", trace.WithAttributes(
		attribute.String("humanoid.session_id", sessionID),
		attribute.String("humanoid.layout", t.set.Name()),
		attribute.String("humanoid.target", target),
		attribute.Int("humanoid.text_length", len([]rune(text))),
		attribute.Float64("humanoid.average_wpm", t.timing.AverageWPM),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	mutated, edits, err := typo.New(t.set, t.rng, logger).Inject(text)
	if err != nil {
		logger.Warn("Cannot type text on this layout set.", zap.Error(err))
		return fmt.Errorf("humanoid: %w", err)
	}

	adds := 0
	for _, e := range edits {
		if e.Kind == typo.Add {
			adds++
		}
	}
	span.SetAttributes(
		attribute.Int("humanoid.edits", len(edits)),
		attribute.Int("humanoid.edits.add", adds),
		attribute.Int("humanoid.edits.modify", len(edits)-adds),
	)
	logger.Info("Typing session started.",
		zap.Int("length", len([]rune(text))),
		zap.Int("edits", len(edits)))

	start := time.Now()
	count := 0
	for ins := range schedule.Schedule(text, mutated, edits, t.timing, t.rng) {
		if ctx.Err() != nil {
			logger.Info("Typing session interrupted.", zap.Int("instructions", count))
			return fmt.Errorf("humanoid: typing interrupted: %w", ctx.Err())
		}
		if err := dispatch(ctx, sink, ins); err != nil {
			logger.Warn("Sink rejected instruction.",
				zap.Stringer("instruction", ins),
				zap.Int("instructions", count),
				zap.Error(err))
			return fmt.Errorf("humanoid: %s failed: %w", ins, err)
		}
		count++
	}

	span.SetAttributes(attribute.Int("humanoid.instructions", count))
	logger.Info("Typing session complete.",
		zap.Int("instructions", count),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
