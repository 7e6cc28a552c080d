// File: cmd/type.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/config"
	"github.com/xkilldash9x/humantyper/internal/humanoid"
	"github.com/xkilldash9x/humantyper/internal/observability"
	"github.com/xkilldash9x/humantyper/internal/sink"
)

// typingSinks is what a sink provider hands back for one command run.
type typingSinks struct {
	Sink    humanoid.Sink
	Targets humanoid.TargetSink
	// Close releases the browser or connection behind the sinks.
	Close func()
}

// sinkProvider creates the sinks for a configured driver. Tests inject a
// recorder through it instead of launching a browser.
type sinkProvider interface {
	Create(ctx context.Context, cfg config.SinkConfig, out io.Writer, logger *zap.Logger) (*typingSinks, error)
}

type defaultSinkProvider struct{}

func (p *defaultSinkProvider) Create(ctx context.Context, cfg config.SinkConfig, out io.Writer, logger *zap.Logger) (*typingSinks, error) {
	switch cfg.Driver {
	case config.DriverWriter:
		return &typingSinks{Sink: sink.NewWriter(out), Close: func() {}}, nil
	case config.DriverJSON:
		s := sink.NewJSONWriter(out, true)
		return &typingSinks{Sink: s, Targets: s, Close: func() {}}, nil
	case config.DriverCDP:
		browserCtx, cancel, err := sink.NewCDPContext(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		s := sink.NewCDP(browserCtx, logger, cfg.Timeout)
		return &typingSinks{Sink: s, Targets: s, Close: cancel}, nil
	case config.DriverRod:
		page, cleanup, err := sink.NewRodPage(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		s := sink.NewRod(page, logger, cfg.Timeout)
		return &typingSinks{Sink: s, Targets: s, Close: cleanup}, nil
	default:
		return nil, fmt.Errorf("unknown sink driver %q", cfg.Driver)
	}
}

// typeOptions are the flags that are not configuration keys.
type typeOptions struct {
	File   string
	DryRun bool
	Plan   bool
}

func newTypeCmd(provider sinkProvider) *cobra.Command {
	var opts typeOptions

	typeCmd := &cobra.Command{
		Use:   "type [text...]",
		Short: "Type text with human timing and typos",
		Long: `Types the given text into the configured sink. The text is taken from the
arguments, from --file, or from stdin when neither is given.

With --selector the keystrokes are addressed to that element; otherwise they
go to whatever has focus.`,
		Example: `  humantyper type "hello world"
  humantyper type --wpm 120 --seed 42 --dry-run "hello world"
  humantyper type --driver cdp --url https://example.com --selector "#q" "search terms"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if err := applyTypeFlagOverrides(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			text, err := readText(cmd.InOrStdin(), args, opts.File)
			if err != nil {
				return err
			}
			return runType(ctx, logger, cfg, opts, text, provider, cmd.OutOrStdout())
		},
	}

	f := typeCmd.Flags()
	f.StringVarP(&opts.File, "file", "f", "", "Read the text from a file ('-' for stdin)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Print the keystroke stream as JSON lines without waiting")
	f.BoolVar(&opts.Plan, "plan", false, "Print the typos that would be made and exit")

	// Configuration override flags.
	f.StringP("layout", "l", "", "Built-in layout set (e.g. 'qwerty', 'azerty'). (Overrides config/env)")
	f.String("layout-file", "", "YAML layout set file. (Overrides --layout)")
	f.Float64P("wpm", "w", 0, "Average typing speed in words per minute. (Overrides config/env)")
	f.Int64("seed", 0, "Random seed for a reproducible session. 0 seeds from the clock")
	f.StringP("driver", "d", "", "Sink driver: writer, json, cdp or rod. (Overrides config/env)")
	f.String("url", "", "Page to open before typing (cdp, rod)")
	f.StringP("selector", "s", "", "CSS selector of the element to type into")
	f.String("remote-url", "", "Attach to a running browser instead of launching one (cdp, rod)")
	f.Bool("headless", true, "Run the launched browser headless")
	f.Bool("stealth", false, "Hide automation fingerprints (rod)")
	f.Duration("timeout", 0, "Per-keystroke browser timeout. (Overrides config/env)")
	f.Bool("trace", false, "Enable OpenTelemetry tracing. (Overrides config/env)")

	return typeCmd
}

// applyTypeFlagOverrides copies the typer and sink flags the user set onto
// cfg. Flags left at their defaults keep the file and env values.
func applyTypeFlagOverrides(cmd *cobra.Command, cfg config.Interface) error {
	f := cmd.Flags()
	var firstErr error
	str := func(name string, set func(string)) {
		if !f.Changed(name) || firstErr != nil {
			return
		}
		v, err := f.GetString(name)
		if err != nil {
			firstErr = err
			return
		}
		set(v)
	}

	str("layout", cfg.SetTyperLayout)
	str("layout-file", cfg.SetTyperLayoutFile)
	str("driver", cfg.SetSinkDriver)
	str("url", cfg.SetSinkURL)
	str("selector", cfg.SetSinkSelector)
	if firstErr != nil {
		return firstErr
	}

	if f.Changed("wpm") {
		wpm, err := f.GetFloat64("wpm")
		if err != nil {
			return err
		}
		cfg.SetTyperAverageWPM(wpm)
	}
	if f.Changed("seed") {
		seed, err := f.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.SetTyperSeed(seed)
	}
	return nil
}

// readText resolves the text to type. Arguments win over --file, which wins
// over stdin.
func readText(stdin io.Reader, args []string, file string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	var r io.Reader = stdin
	if file != "" && file != "-" {
		fh, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("failed to open text file: %w", err)
		}
		defer fh.Close()
		r = fh
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	// A single trailing newline is the terminator of the input, not text.
	text := strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
	if text == "" {
		return "", errors.New("no text to type")
	}
	return text, nil
}

// runType contains the core, testable logic of the type command.
func runType(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.Interface,
	opts typeOptions,
	text string,
	provider sinkProvider,
	out io.Writer,
) error {
	typerCfg := humanoidConfig(cfg.Typer())
	sinkCfg := cfg.Sink()

	tp, err := observability.NewTracerProvider(ctx, cfg.Tracing())
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces.", zap.Error(err))
		}
	}()

	typerOpts := []humanoid.Option{humanoid.WithTracer(tp.Tracer())}

	if opts.Plan {
		typer, err := humanoid.New(typerCfg, logger, typerOpts...)
		if err != nil {
			return err
		}
		plan, err := typer.Plan(text)
		if err != nil {
			return err
		}
		return writePlan(out, plan)
	}

	var sinks *typingSinks
	if opts.DryRun {
		s := sink.NewJSONWriter(out, false)
		sinks = &typingSinks{Sink: s, Targets: s, Close: func() {}}
	} else {
		sinks, err = provider.Create(ctx, sinkCfg, out, logger)
		if err != nil {
			return fmt.Errorf("failed to create %s sink: %w", sinkCfg.Driver, err)
		}
	}
	defer sinks.Close()

	if sinkCfg.Selector != "" && sinks.Targets == nil {
		return fmt.Errorf("sink driver %q cannot address a selector", sinkCfg.Driver)
	}
	typerOpts = append(typerOpts, humanoid.WithSink(sinks.Sink))
	if sinks.Targets != nil {
		typerOpts = append(typerOpts, humanoid.WithTargetSink(sinks.Targets))
	}

	typer, err := humanoid.New(typerCfg, logger, typerOpts...)
	if err != nil {
		return err
	}

	if sinkCfg.Selector != "" {
		err = typer.TypeInto(ctx, text, sinkCfg.Selector)
	} else {
		err = typer.TypeDirectly(ctx, text)
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn("Typing aborted by user signal.")
	}
	return err
}

func humanoidConfig(tc config.TyperConfig) humanoid.Config {
	return humanoid.Config{
		Layout:     tc.Layout,
		LayoutFile: tc.LayoutFile,
		AverageWPM: tc.AverageWPM,
		Seed:       tc.Seed,
	}
}

type planEdit struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Original string `json:"original"`
	Inserted string `json:"inserted"`
}

type planOutput struct {
	Original string     `json:"original"`
	Mutated  string     `json:"mutated"`
	Edits    []planEdit `json:"edits"`
	LowMS    int64      `json:"inter_key_low_ms"`
	HighMS   int64      `json:"inter_key_high_ms"`
}

func writePlan(out io.Writer, plan humanoid.Plan) error {
	po := planOutput{
		Original: plan.Original,
		Mutated:  plan.Mutated,
		Edits:    make([]planEdit, 0, len(plan.Edits)),
		LowMS:    plan.Timing.Low.Milliseconds(),
		HighMS:   plan.Timing.High.Milliseconds(),
	}
	for _, e := range plan.Edits {
		po.Edits = append(po.Edits, planEdit{
			Index:    e.Index,
			Kind:     e.Kind.String(),
			Original: string(e.Original),
			Inserted: string(e.Inserted),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(po); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}
