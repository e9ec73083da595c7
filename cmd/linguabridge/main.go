// Command linguabridge is the interactive entry point for the street-vendor
// trade assistant. It reads utterances line by line from stdin, runs each
// through the full classification → pricing → negotiation → response
// pipeline, and prints (and optionally "speaks") the localized response.
//
// Input lines may carry a language prefix:
//
//	hindi: chawal ka kya bhav hai?
//	what is the price of 5 kg rice?
//
// Lines without a prefix use the configured default language.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/classify"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/config"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/health"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/lexicon"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/negotiate"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/observe"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/pipeline"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/price"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/respond"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/translate"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/speech"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/speech/logspeaker"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	speak := flag.Bool("speak", false, "log responses through the playback adapter as well as printing them")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "linguabridge: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
			} else {
				fmt.Fprintf(os.Stderr, "linguabridge: %v\n", err)
			}
			return 1
		}
	} else {
		cfg = config.Default()
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("linguabridge starting",
		"config", *configPath,
		"default_language", cfg.Language.Default,
		"vendor_language", cfg.Language.Vendor,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "linguabridge",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Assemble the pipeline ─────────────────────────────────────────────────
	p, checks, err := buildPipeline(cfg, *speak)
	if err != nil {
		slog.Error("failed to assemble pipeline", "err", err)
		return 1
	}

	// ── Metrics + health endpoints (optional) ─────────────────────────────────
	if cfg.Server.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		checks.Register(mux)
		srv := &http.Server{Addr: cfg.Server.ListenAddr, Handler: mux}
		go func() {
			slog.Info("metrics server listening", "addr", cfg.Server.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server error", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	slog.Info("ready — type an utterance, optionally prefixed with \"language:\"; Ctrl+D to quit")

	// ── REPL ──────────────────────────────────────────────────────────────────
	capture := newLineCapture(os.Stdin, cfg.Language.Default)
	defer capture.Close()

	for {
		utt, err := capture.Next(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			slog.Error("capture error", "err", err)
			return 1
		}
		if utt.Text == "" {
			continue
		}

		res := p.Process(ctx, utt.Text, utt.Language)

		fmt.Printf("[%s | %s | %.0f%%] %s\n",
			res.Intent.Type, res.Intent.Product,
			res.Guidance.Confidence*100, res.Response.Text)
	}

	slog.Info("goodbye")
	return 0
}

// buildPipeline loads every dataset (honouring configured overrides), wires
// the five stages together, and builds the readiness checks over the loaded
// datasets.
func buildPipeline(cfg *config.Config, speak bool) (*pipeline.Pipeline, *health.Handler, error) {
	store, err := loadLexicon(cfg.Datasets.Lexicon)
	if err != nil {
		return nil, nil, err
	}

	priceOpts := []price.Option{
		price.WithSeasonal(cfg.Pricing.SeasonalEnabled()),
	}
	if cfg.Pricing.TrendSeed != 0 {
		priceOpts = append(priceOpts, price.WithTrendSeed(cfg.Pricing.TrendSeed))
	}
	prices, err := loadPrices(cfg.Datasets.Prices, priceOpts)
	if err != nil {
		return nil, nil, err
	}

	translator, err := loadTranslator(store, cfg.Datasets.Phrases)
	if err != nil {
		return nil, nil, err
	}

	respondOpts := []respond.Option{
		respond.WithDisplayCap(cfg.Response.DisplayCap),
	}
	if speak {
		respondOpts = append(respondOpts, respond.WithPlayback(logspeaker.New()))
	}
	synth, err := loadSynthesizer(cfg.Datasets.Templates, respondOpts)
	if err != nil {
		return nil, nil, err
	}

	checks := health.New(
		health.DatasetChecker("lexicon", len(store.Languages())),
		health.DatasetChecker("prices", prices.Products()),
		health.DatasetChecker("phrases", translator.Languages()),
		health.DatasetChecker("templates", synth.Languages()),
	)

	p := pipeline.New(
		classify.New(store),
		translator,
		prices,
		negotiate.New(store),
		synth,
		pipeline.WithVendorLanguage(cfg.Language.Vendor),
	)
	return p, checks, nil
}

func loadLexicon(override string) (*lexicon.Store, error) {
	if override != "" {
		slog.Info("using lexicon override", "path", override)
		return lexicon.LoadFile(override)
	}
	return lexicon.Load()
}

func loadPrices(override string, opts []price.Option) (*price.Engine, error) {
	if override != "" {
		slog.Info("using price dataset override", "path", override)
		return price.NewFromFile(override, opts...)
	}
	return price.New(opts...)
}

func loadTranslator(store *lexicon.Store, override string) (*translate.Translator, error) {
	if override != "" {
		slog.Info("using phrase dataset override", "path", override)
		return translate.NewFromFile(store, override)
	}
	return translate.New(store)
}

func loadSynthesizer(override string, opts []respond.Option) (*respond.Synthesizer, error) {
	if override != "" {
		slog.Info("using template dataset override", "path", override)
		return respond.NewFromFile(override, opts...)
	}
	return respond.New(opts...)
}

// ── Stdin capture adapter ─────────────────────────────────────────────────────

// lineCapture adapts a line-oriented reader to the [speech.Capture]
// interface. A leading "language:" prefix on a line selects the utterance
// language; otherwise the configured default applies.
type lineCapture struct {
	scanner     *bufio.Scanner
	defaultLang string
}

func newLineCapture(r io.Reader, defaultLang string) *lineCapture {
	return &lineCapture{
		scanner:     bufio.NewScanner(r),
		defaultLang: defaultLang,
	}
}

// Next implements [speech.Capture]. Blocks until a line is read or the
// reader is exhausted.
func (c *lineCapture) Next(ctx context.Context) (speech.CapturedUtterance, error) {
	if err := ctx.Err(); err != nil {
		return speech.CapturedUtterance{}, err
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return speech.CapturedUtterance{}, err
		}
		return speech.CapturedUtterance{}, io.EOF
	}

	line := strings.TrimSpace(c.scanner.Text())
	lang := c.defaultLang
	if before, after, ok := strings.Cut(line, ":"); ok {
		tag := strings.ToLower(strings.TrimSpace(before))
		// Only treat the prefix as a language tag when it names a supported
		// language; a colon mid-sentence ("price: 40") is part of the
		// utterance.
		if slices.Contains(config.SupportedLanguages, tag) {
			lang = tag
			line = strings.TrimSpace(after)
		}
	}

	return speech.CapturedUtterance{Text: line, Language: lang, Confidence: 1}, nil
}

// Close implements [speech.Capture]. Stdin is not owned by the adapter, so
// there is nothing to release.
func (c *lineCapture) Close() error { return nil }

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
