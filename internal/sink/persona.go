// internal/sink/persona.go
package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Persona is the browser identity a stealth CDP session presents.
type Persona struct {
	UserAgent string
	Platform  string
	Languages []string
	Timezone  string
	Locale    string
}

// DefaultPersona is a desktop Chrome on Windows.
var DefaultPersona = Persona{
	UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	Platform:  "Win32",
	Languages: []string{"en-US", "en"},
	Timezone:  "America/Los_Angeles",
	Locale:    "en-US",
}

// personaScript runs before any page script. Sites that reject synthetic
// input usually check these properties first.
const personaScript = `(() => {
  Object.defineProperty(Navigator.prototype, 'webdriver', { get: () => undefined });
  Object.defineProperty(Navigator.prototype, 'platform', { get: () => %q });
  Object.defineProperty(Navigator.prototype, 'languages', { get: () => %s });
})();`

// acceptLanguage renders languages with decreasing quality values.
func acceptLanguage(languages []string) string {
	parts := make([]string, len(languages))
	for i, l := range languages {
		if i == 0 {
			parts[i] = l
			continue
		}
		parts[i] = fmt.Sprintf("%s;q=%.1f", l, max(0.1, 1-0.1*float64(i)))
	}
	return strings.Join(parts, ",")
}

func jsStringArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// personaTasks builds the CDP actions that make a launched browser look
// like the persona. They must run before the first navigation.
func personaTasks(p Persona, logger *zap.Logger) chromedp.Tasks {
	logger.Debug("Applying browser stealth persona.",
		zap.String("user_agent", p.UserAgent),
		zap.String("platform", p.Platform),
	)

	script := fmt.Sprintf(personaScript, p.Platform, jsStringArray(p.Languages))
	tasks := chromedp.Tasks{
		emulation.SetUserAgentOverride(p.UserAgent).WithPlatform(p.Platform),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if _, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx); err != nil {
				return fmt.Errorf("sink: failed to inject persona script: %w", err)
			}
			return nil
		}),
	}
	if p.Timezone != "" {
		tasks = append(tasks, emulation.SetTimezoneOverride(p.Timezone))
	}
	if p.Locale != "" {
		tasks = append(tasks, emulation.SetLocaleOverride().WithLocale(p.Locale))
	}
	if len(p.Languages) > 0 {
		tasks = append(tasks, network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": acceptLanguage(p.Languages),
		}))
	}
	return tasks
}
