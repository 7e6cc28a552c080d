package sink

import (
	"testing"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPersonaTasks(t *testing.T) {
	t.Run("DefaultPersona", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		tasks := personaTasks(DefaultPersona, zap.New(core))

		require.Len(t, tasks, 5)
		ua, ok := tasks[0].(*emulation.SetUserAgentOverrideParams)
		require.True(t, ok)
		assert.Equal(t, DefaultPersona.UserAgent, ua.UserAgent)
		assert.Equal(t, "Win32", ua.Platform)
		assert.IsType(t, chromedp.ActionFunc(nil), tasks[1])

		headers, ok := tasks[4].(*network.SetExtraHTTPHeadersParams)
		require.True(t, ok)
		assert.Equal(t, "en-US,en;q=0.9", headers.Headers["Accept-Language"])

		entries := logs.FilterMessage("Applying browser stealth persona.").All()
		require.Len(t, entries, 1)
		assert.Equal(t, DefaultPersona.UserAgent, entries[0].ContextMap()["user_agent"])
	})

	t.Run("MinimalPersona", func(t *testing.T) {
		tasks := personaTasks(Persona{UserAgent: "ua"}, zap.NewNop())
		assert.Len(t, tasks, 2)
	})
}

func TestAcceptLanguage(t *testing.T) {
	assert.Equal(t, "fr-FR", acceptLanguage([]string{"fr-FR"}))
	assert.Equal(t, "fr-FR,fr;q=0.9,en;q=0.8", acceptLanguage([]string{"fr-FR", "fr", "en"}))
}

func TestJSStringArray(t *testing.T) {
	assert.Equal(t, `["en-US", "en"]`, jsStringArray([]string{"en-US", "en"}))
	assert.Equal(t, `[]`, jsStringArray(nil))
}
