// internal/sink/cdp.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/config"
	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

const defaultActionTimeout = 10 * time.Second

// CDP types into a Chrome page over the DevTools protocol with chromedp.
// Focused keystrokes go to whatever element has focus; targeted ones are
// sent to the first element matching a CSS selector.
type CDP struct {
	logger  *zap.Logger
	timeout time.Duration
	// runActions executes actions against the browser. Replaced in tests.
	runActions func(ctx context.Context, actions ...chromedp.Action) error
}

var (
	_ humanoid.Sink       = (*CDP)(nil)
	_ humanoid.TargetSink = (*CDP)(nil)
)

// NewCDP creates a sink on the chromedp context browserCtx. Each call's
// context bounds the actions it runs; browserCtx carries the tab.
func NewCDP(browserCtx context.Context, logger *zap.Logger, timeout time.Duration) *CDP {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	return &CDP{
		logger:  logger.Named("cdp"),
		timeout: timeout,
		runActions: func(ctx context.Context, actions ...chromedp.Action) error {
			runCtx, cancel := context.WithCancel(browserCtx)
			defer cancel()
			stop := context.AfterFunc(ctx, cancel)
			defer stop()
			if err := chromedp.Run(runCtx, actions...); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			return nil
		},
	}
}

func (s *CDP) EmitChar(ctx context.Context, r rune) error {
	return s.run(ctx, "EmitChar", chromedp.KeyEvent(string(r)))
}

func (s *CDP) EmitBackspace(ctx context.Context) error {
	return s.run(ctx, "EmitBackspace", chromedp.KeyEvent(kb.Backspace))
}

func (s *CDP) EmitCharTo(ctx context.Context, target string, r rune) error {
	return s.run(ctx, "EmitCharTo", chromedp.SendKeys(target, string(r), chromedp.ByQuery))
}

func (s *CDP) EmitBackspaceTo(ctx context.Context, target string) error {
	return s.run(ctx, "EmitBackspaceTo", chromedp.SendKeys(target, kb.Backspace, chromedp.ByQuery))
}

// Wait sleeps through chromedp so the pause is tied to the browser's lifetime.
func (s *CDP) Wait(ctx context.Context, d time.Duration) error {
	return s.runActions(ctx, chromedp.Sleep(d))
}

func (s *CDP) run(ctx context.Context, op string, action chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.runActions(opCtx, action)
	if err != nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		s.logger.Debug("CDP action timed out.", zap.String("op", op), zap.Duration("timeout", s.timeout))
		return fmt.Errorf("sink: cdp %s timed out after %v: %w", op, s.timeout, opCtx.Err())
	}
	if err != nil {
		return fmt.Errorf("sink: cdp %s failed: %w", op, err)
	}
	return nil
}

// NewCDPContext launches Chrome, or attaches to cfg.RemoteURL, and opens a
// tab on cfg.URL. The returned cancel closes the tab and the browser.
func NewCDPContext(ctx context.Context, cfg config.SinkConfig, logger *zap.Logger) (context.Context, context.CancelFunc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if cfg.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
		)
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	}

	sugar := logger.Named("chromedp").Sugar()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(sugar.Debugf), chromedp.WithErrorf(sugar.Errorf))
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	var tasks chromedp.Tasks
	if cfg.Stealth {
		tasks = append(tasks, personaTasks(DefaultPersona, logger))
	}
	if cfg.URL != "" {
		tasks = append(tasks, chromedp.Navigate(cfg.URL))
	}
	if cfg.Selector != "" {
		tasks = append(tasks, chromedp.WaitVisible(cfg.Selector, chromedp.ByQuery))
	}
	// Running an empty task list still starts the browser.
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("sink: failed to start browser: %w", err)
	}
	logger.Info("Browser ready.", zap.String("url", cfg.URL), zap.Bool("remote", cfg.RemoteURL != ""))
	return browserCtx, cancel, nil
}
