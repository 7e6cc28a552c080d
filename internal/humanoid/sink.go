// internal/humanoid/sink.go
package humanoid

import (
	"context"
	"fmt"
	"time"

	"github.com/xkilldash9x/humantyper/internal/schedule"
)

// Sink receives keystrokes for whatever currently has focus.
type Sink interface {
	EmitChar(ctx context.Context, r rune) error
	EmitBackspace(ctx context.Context) error
	// Wait pauses for d. It must return early with the context's error
	// when ctx is done.
	Wait(ctx context.Context, d time.Duration) error
}

// TargetSink receives keystrokes addressed to a named target, such as a
// CSS selector in a browser page.
type TargetSink interface {
	EmitCharTo(ctx context.Context, target string, r rune) error
	EmitBackspaceTo(ctx context.Context, target string) error
	Wait(ctx context.Context, d time.Duration) error
}

// Bind fixes the target of ts so it can be driven as a plain Sink.
func Bind(ts TargetSink, target string) Sink {
	return &boundSink{sink: ts, target: target}
}

type boundSink struct {
	sink   TargetSink
	target string
}

func (b *boundSink) EmitChar(ctx context.Context, r rune) error {
	return b.sink.EmitCharTo(ctx, b.target, r)
}

func (b *boundSink) EmitBackspace(ctx context.Context) error {
	return b.sink.EmitBackspaceTo(ctx, b.target)
}

func (b *boundSink) Wait(ctx context.Context, d time.Duration) error {
	return b.sink.Wait(ctx, d)
}

// dispatch performs one instruction on sink.
func dispatch(ctx context.Context, sink Sink, ins schedule.Instruction) error {
	switch ins.Op {
	case schedule.OpChar:
		return sink.EmitChar(ctx, ins.Char)
	case schedule.OpBackspace:
		return sink.EmitBackspace(ctx)
	case schedule.OpWait:
		return sink.Wait(ctx, ins.Duration)
	default:
		return fmt.Errorf("humanoid: unknown instruction %s", ins.Op)
	}
}
