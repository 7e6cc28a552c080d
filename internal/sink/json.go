// internal/sink/json.go
package sink

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
	"github.com/xkilldash9x/humantyper/internal/schedule"
)

// Event is one line of a JSONWriter stream.
type Event struct {
	Seq        int     `json:"seq"`
	Op         string  `json:"op"`
	Char       string  `json:"char,omitempty"`
	Target     string  `json:"target,omitempty"`
	DurationMS float64 `json:"duration_ms,omitempty"`
}

// JSONWriter writes one JSON object per instruction. It serves both the
// focused and the targeted contract.
type JSONWriter struct {
	mu    sync.Mutex
	enc   *json.Encoder
	seq   int
	sleep bool
}

var (
	_ humanoid.Sink       = (*JSONWriter)(nil)
	_ humanoid.TargetSink = (*JSONWriter)(nil)
)

// NewJSONWriter creates a JSONWriter on w. Waits are only recorded unless
// sleep is true.
func NewJSONWriter(w io.Writer, sleep bool) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w), sleep: sleep}
}

func (s *JSONWriter) EmitChar(ctx context.Context, r rune) error {
	return s.encode(ctx, Event{Op: schedule.OpChar.String(), Char: string(r)})
}

func (s *JSONWriter) EmitBackspace(ctx context.Context) error {
	return s.encode(ctx, Event{Op: schedule.OpBackspace.String()})
}

func (s *JSONWriter) EmitCharTo(ctx context.Context, target string, r rune) error {
	return s.encode(ctx, Event{Op: schedule.OpChar.String(), Char: string(r), Target: target})
}

func (s *JSONWriter) EmitBackspaceTo(ctx context.Context, target string) error {
	return s.encode(ctx, Event{Op: schedule.OpBackspace.String(), Target: target})
}

func (s *JSONWriter) Wait(ctx context.Context, d time.Duration) error {
	ms := float64(d) / float64(time.Millisecond)
	if err := s.encode(ctx, Event{Op: schedule.OpWait.String(), DurationMS: ms}); err != nil {
		return err
	}
	if s.sleep {
		return Sleep(ctx, d)
	}
	return nil
}

func (s *JSONWriter) encode(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.Seq = s.seq
	if err := s.enc.Encode(ev); err != nil {
		return fmt.Errorf("sink: failed to encode %s event: %w", ev.Op, err)
	}
	s.seq++
	return nil
}
