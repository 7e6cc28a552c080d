package sink

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
	"github.com/xkilldash9x/humantyper/internal/schedule"
)

// Recorder keeps every instruction in memory and never sleeps.
type Recorder struct {
	mu      sync.Mutex
	events  []schedule.Instruction
	targets []string
}

var (
	_ humanoid.Sink       = (*Recorder)(nil)
	_ humanoid.TargetSink = (*Recorder)(nil)
)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) EmitChar(ctx context.Context, c rune) error {
	return r.record(ctx, "", schedule.Char(c))
}

func (r *Recorder) EmitBackspace(ctx context.Context) error {
	return r.record(ctx, "", schedule.Backspace())
}

func (r *Recorder) EmitCharTo(ctx context.Context, target string, c rune) error {
	return r.record(ctx, target, schedule.Char(c))
}

func (r *Recorder) EmitBackspaceTo(ctx context.Context, target string) error {
	return r.record(ctx, target, schedule.Backspace())
}

func (r *Recorder) Wait(ctx context.Context, d time.Duration) error {
	return r.record(ctx, "", schedule.Wait(d))
}

func (r *Recorder) record(ctx context.Context, target string, ins schedule.Instruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ins)
	if target != "" && !slices.Contains(r.targets, target) {
		r.targets = append(r.targets, target)
	}
	return nil
}

// Instructions returns a copy of everything recorded so far.
func (r *Recorder) Instructions() []schedule.Instruction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Text replays the recorded keystrokes into a buffer.
func (r *Recorder) Text() string {
	return schedule.Replay(slices.Values(r.Instructions()))
}

// Waits returns the total pause time recorded.
func (r *Recorder) Waits() time.Duration {
	var total time.Duration
	for _, ins := range r.Instructions() {
		if ins.Op == schedule.OpWait {
			total += ins.Duration
		}
	}
	return total
}

// Targets returns the distinct targets addressed, in first-use order.
func (r *Recorder) Targets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.targets)
}

// Reset discards everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.targets = nil
}
