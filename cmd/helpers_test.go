// File: cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/config"
	"github.com/xkilldash9x/humantyper/internal/observability"
	"github.com/xkilldash9x/humantyper/internal/sink"
)

// quietConfig keeps test output free of session logs.
const quietConfig = "logger:\n  level: error\n"

// fakeSinkProvider hands out a recorder instead of a real sink.
type fakeSinkProvider struct {
	rec *sink.Recorder
	// focusedOnly mimics a driver that cannot address targets.
	focusedOnly bool
	err         error

	gotCfg config.SinkConfig
	closed bool
}

func newFakeSinkProvider() *fakeSinkProvider {
	return &fakeSinkProvider{rec: sink.NewRecorder()}
}

func (p *fakeSinkProvider) Create(ctx context.Context, cfg config.SinkConfig, out io.Writer, logger *zap.Logger) (*typingSinks, error) {
	p.gotCfg = cfg
	if p.err != nil {
		return nil, p.err
	}
	sinks := &typingSinks{Sink: p.rec, Close: func() { p.closed = true }}
	if !p.focusedOnly {
		sinks.Targets = p.rec
	}
	return sinks, nil
}

// createTempConfig writes content to a config file that is removed after the test.
func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// resetForTest isolates package and logger state between command runs.
func resetForTest(t *testing.T) {
	t.Helper()
	cfgFile = ""
	observability.ResetForTest()
	t.Cleanup(func() {
		cfgFile = ""
		observability.ResetForTest()
	})
}

// executeCommand runs a fresh command tree with a quiet config file and
// returns everything written to stdout.
func executeCommand(t *testing.T, provider sinkProvider, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetForTest(t)

	root := newRootCmd(provider)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(append([]string{"--config", createTempConfig(t, quietConfig)}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
