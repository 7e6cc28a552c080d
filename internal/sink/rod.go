// internal/sink/rod.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/config"
	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// Rod types into a page driven by go-rod. Printable ASCII goes through the
// keyboard as real key presses; other runes have no key in rod's US map and
// are inserted as text.
type Rod struct {
	logger  *zap.Logger
	timeout time.Duration

	// Page operations. Replaced in tests.
	typeKeys   func(ctx context.Context, keys ...input.Key) error
	insertText func(ctx context.Context, text string) error
	typeInto   func(ctx context.Context, selector string, keys ...input.Key) error
	insertInto func(ctx context.Context, selector, text string) error
}

var (
	_ humanoid.Sink       = (*Rod)(nil)
	_ humanoid.TargetSink = (*Rod)(nil)
)

// NewRod creates a sink on page.
func NewRod(page *rod.Page, logger *zap.Logger, timeout time.Duration) *Rod {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultActionTimeout
	}
	element := func(ctx context.Context, selector string) (*rod.Element, error) {
		el, err := page.Context(ctx).Element(selector)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", selector, err)
		}
		return el, nil
	}
	// page.Keyboard and Element.Type keep the page they were created with,
	// so its context, not ctx, would bound the call.
	press := func(ctx context.Context, keys ...input.Key) error {
		return dispatchKeys(page.Context(ctx), keys...)
	}
	return &Rod{
		logger:   logger.Named("rod"),
		timeout:  timeout,
		typeKeys: press,
		insertText: func(ctx context.Context, text string) error {
			return page.Context(ctx).InsertText(text)
		},
		typeInto: func(ctx context.Context, selector string, keys ...input.Key) error {
			el, err := element(ctx, selector)
			if err != nil {
				return err
			}
			if err := el.Focus(); err != nil {
				return err
			}
			return press(ctx, keys...)
		},
		insertInto: func(ctx context.Context, selector, text string) error {
			el, err := element(ctx, selector)
			if err != nil {
				return err
			}
			if err := el.Focus(); err != nil {
				return err
			}
			return page.Context(ctx).InsertText(text)
		},
	}
}

// dispatchKeys presses and releases each key through c. A ctx-scoped
// *rod.Page as c makes its context bound every event.
func dispatchKeys(c proto.Client, keys ...input.Key) error {
	for _, k := range keys {
		if err := k.Encode(proto.InputDispatchKeyEventTypeKeyDown, 0).Call(c); err != nil {
			return err
		}
		if err := k.Encode(proto.InputDispatchKeyEventTypeKeyUp, 0).Call(c); err != nil {
			return err
		}
	}
	return nil
}

// keyFor maps r to a rod key when one exists.
func keyFor(r rune) (input.Key, bool) {
	if r >= 0x20 && r <= 0x7e {
		return input.Key(r), true
	}
	return 0, false
}

func (s *Rod) EmitChar(ctx context.Context, r rune) error {
	return s.do(ctx, "EmitChar", func(ctx context.Context) error {
		if k, ok := keyFor(r); ok {
			return s.typeKeys(ctx, k)
		}
		return s.insertText(ctx, string(r))
	})
}

func (s *Rod) EmitBackspace(ctx context.Context) error {
	return s.do(ctx, "EmitBackspace", func(ctx context.Context) error {
		return s.typeKeys(ctx, input.Backspace)
	})
}

func (s *Rod) EmitCharTo(ctx context.Context, target string, r rune) error {
	return s.do(ctx, "EmitCharTo", func(ctx context.Context) error {
		if k, ok := keyFor(r); ok {
			return s.typeInto(ctx, target, k)
		}
		return s.insertInto(ctx, target, string(r))
	})
}

func (s *Rod) EmitBackspaceTo(ctx context.Context, target string) error {
	return s.do(ctx, "EmitBackspaceTo", func(ctx context.Context) error {
		return s.typeInto(ctx, target, input.Backspace)
	})
}

func (s *Rod) Wait(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

func (s *Rod) do(ctx context.Context, op string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(opCtx)
	if err != nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		s.logger.Debug("Rod action timed out.", zap.String("op", op), zap.Duration("timeout", s.timeout))
		return fmt.Errorf("sink: rod %s timed out after %v: %w", op, s.timeout, opCtx.Err())
	}
	if err != nil {
		return fmt.Errorf("sink: rod %s failed: %w", op, err)
	}
	return nil
}

// NewRodPage launches Chrome, or connects to cfg.RemoteURL, and opens a page
// on cfg.URL, hardened with go-rod/stealth when cfg.Stealth is set. The
// returned cleanup closes the browser.
func NewRodPage(ctx context.Context, cfg config.SinkConfig, logger *zap.Logger) (*rod.Page, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var l *launcher.Launcher
	controlURL := cfg.RemoteURL
	if controlURL == "" {
		l = launcher.New().Context(ctx).
			Headless(cfg.Headless).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("sink: failed to launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		if l != nil {
			l.Cleanup()
		}
		return nil, nil, fmt.Errorf("sink: failed to connect to browser: %w", err)
	}
	cleanup := func() {
		if err := browser.Close(); err != nil {
			logger.Debug("Browser close failed.", zap.Error(err))
		}
		if l != nil {
			l.Cleanup()
		}
	}

	var page *rod.Page
	var err error
	if cfg.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("sink: failed to open page: %w", err)
	}

	if cfg.URL != "" {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		navCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := page.Context(navCtx).Navigate(cfg.URL); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("sink: failed to navigate to %s: %w", cfg.URL, err)
		}
		if err := page.Context(navCtx).WaitLoad(); err != nil {
			logger.Warn("Page load wait timed out.", zap.String("url", cfg.URL), zap.Error(err))
		}
	}
	logger.Info("Browser ready.", zap.String("url", cfg.URL), zap.Bool("stealth", cfg.Stealth))
	return page, cleanup, nil
}
