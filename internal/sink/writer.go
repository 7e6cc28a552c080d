// internal/sink/writer.go
package sink

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// eraseSequence moves back one cell, blanks it, and moves back again.
const eraseSequence = "\b \b"

// Writer echoes keystrokes to an io.Writer, typically a terminal, and
// really sleeps between them.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	sleep func(ctx context.Context, d time.Duration) error
}

var _ humanoid.Sink = (*Writer)(nil)

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, sleep: Sleep}
}

func (s *Writer) EmitChar(ctx context.Context, r rune) error {
	return s.write(ctx, string(r))
}

func (s *Writer) EmitBackspace(ctx context.Context) error {
	return s.write(ctx, eraseSequence)
}

func (s *Writer) Wait(ctx context.Context, d time.Duration) error {
	return s.sleep(ctx, d)
}

func (s *Writer) write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, text); err != nil {
		return fmt.Errorf("sink: write failed: %w", err)
	}
	return nil
}
