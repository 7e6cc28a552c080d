// internal/humanoid/mocks_test.go
package humanoid

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xkilldash9x/humantyper/internal/schedule"
)

// mockSink records every instruction it receives on either contract.
//
// If set, the Mock* overrides replace the default behavior. An override can
// call the matching Default* method when the recording is still wanted.
type mockSink struct {
	t       *testing.T
	mu      sync.Mutex
	events  []schedule.Instruction
	targets []string

	// cancelFunc is invoked once callCount reaches cancelOnCall.
	cancelOnCall int
	callCount    int
	cancelFunc   context.CancelFunc

	MockEmitChar func(ctx context.Context, r rune) error
}

func newMockSink(t *testing.T) *mockSink {
	return &mockSink{t: t}
}

func (m *mockSink) EmitChar(ctx context.Context, r rune) error {
	if m.MockEmitChar != nil {
		return m.MockEmitChar(ctx, r)
	}
	return m.DefaultEmitChar(ctx, r)
}

func (m *mockSink) DefaultEmitChar(ctx context.Context, r rune) error {
	return m.record(ctx, schedule.Char(r))
}

func (m *mockSink) EmitBackspace(ctx context.Context) error {
	return m.record(ctx, schedule.Backspace())
}

func (m *mockSink) Wait(ctx context.Context, d time.Duration) error {
	return m.record(ctx, schedule.Wait(d))
}

func (m *mockSink) EmitCharTo(ctx context.Context, target string, r rune) error {
	m.mu.Lock()
	m.targets = append(m.targets, target)
	m.mu.Unlock()
	return m.EmitChar(ctx, r)
}

func (m *mockSink) EmitBackspaceTo(ctx context.Context, target string) error {
	m.mu.Lock()
	m.targets = append(m.targets, target)
	m.mu.Unlock()
	return m.EmitBackspace(ctx)
}

func (m *mockSink) record(ctx context.Context, ins schedule.Instruction) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ins)
	m.callCount++
	if m.cancelOnCall > 0 && m.callCount == m.cancelOnCall && m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

func (m *mockSink) recorded() []schedule.Instruction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]schedule.Instruction, len(m.events))
	copy(out, m.events)
	return out
}
