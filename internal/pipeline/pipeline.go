// Package pipeline wires the linguabridge processing stages into one
// utterance-to-response flow:
//
//	raw text → intent classification → {price quote, translation} →
//	negotiation guidance → localized response
//
// The quote and translation stages are independent of each other and run
// concurrently via errgroup. Every stage is total — no stage returns an
// error, and the pipeline itself converts any unexpected panic into a safe
// fallback response — so [Pipeline.Process] always produces a usable
// [Result] for any input, including empty or nonsense text.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/classify"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/lexicon"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/negotiate"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/observe"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/price"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/respond"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/translate"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

// ─────────────────────────────────────────────────────────────────────────────
// Public types
// ─────────────────────────────────────────────────────────────────────────────

// Result carries the final response together with every intermediate
// artifact, so callers (and tests) can inspect what each stage produced.
type Result struct {
	// Intent is the classified intent for the utterance.
	Intent types.ClassifiedIntent

	// Quote is the resolved price quote. Nil only when product extraction
	// produced no product at all, which current classification never does
	// (unknown products still resolve to a fallback estimate).
	Quote *types.PriceQuote

	// Translated is the utterance rendered in the vendor's language. Equal
	// to the input text when no translation was needed.
	Translated string

	// Guidance is the negotiation strategy for this exchange.
	Guidance types.NegotiationGuidance

	// Response is the final localized response for the buyer.
	Response types.LocalizedResponse

	// Duration records how long [Pipeline.Process] took end to end.
	Duration time.Duration
}

// ─────────────────────────────────────────────────────────────────────────────
// Pipeline
// ─────────────────────────────────────────────────────────────────────────────

// Pipeline composes the five processing stages. Construct with [New];
// a zero Pipeline is not usable.
type Pipeline struct {
	classifier *classify.Classifier
	translator *translate.Translator
	prices     *price.Engine
	negotiator *negotiate.Engine
	synth      *respond.Synthesizer
	metrics    *observe.Metrics

	vendorLanguage string
}

// Option is a functional option for [New].
type Option func(*Pipeline)

// WithMetrics sets the metrics sink. Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithVendorLanguage sets the language utterances are translated into for
// the vendor's benefit. Defaults to [lexicon.DefaultLanguage].
func WithVendorLanguage(lang string) Option {
	return func(p *Pipeline) { p.vendorLanguage = lang }
}

// New assembles a [Pipeline] from its stages. All stage pointers must be
// non-nil.
func New(
	classifier *classify.Classifier,
	translator *translate.Translator,
	prices *price.Engine,
	negotiator *negotiate.Engine,
	synth *respond.Synthesizer,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		classifier:     classifier,
		translator:     translator,
		prices:         prices,
		negotiator:     negotiator,
		synth:          synth,
		vendorLanguage: lexicon.DefaultLanguage,
	}
	for _, o := range opts {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	return p
}

// Process runs the full pipeline for one utterance. The same (text,
// language) input always yields the same [Result] — the pipeline keeps no
// per-request state.
//
// Process never fails: each stage has its own degraded path, and a
// last-resort recover converts any stage panic into the fallback response
// for the requested language.
func (p *Pipeline) Process(ctx context.Context, text, language string) (res Result) {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "pipeline.process")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			observe.Logger(ctx).Error("pipeline stage panic, serving fallback",
				"panic", r, "language", language)
			p.metrics.RecordFallback(ctx, "pipeline")
			res = p.fallbackResult(language)
		}
		res.Duration = time.Since(start)
		p.metrics.PipelineDuration.Record(ctx, res.Duration.Seconds())
	}()

	// ── stage 1: classify ────────────────────────────────────────────────────
	res.Intent = p.runClassify(ctx, text, language)

	// ── stages 2+3: quote and translate are independent ──────────────────────
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		res.Quote = p.runQuote(egCtx, res.Intent)
		return nil
	})
	eg.Go(func() error {
		res.Translated = p.runTranslate(egCtx, text, language, res.Intent.Type)
		return nil
	})
	// Stages are total, so Wait can only return nil.
	_ = eg.Wait()

	// ── stage 4: negotiation guidance ────────────────────────────────────────
	res.Guidance = p.runGuide(ctx, res.Intent, res.Quote, text)

	// ── stage 5: response synthesis ──────────────────────────────────────────
	res.Response = p.runRender(ctx, res.Intent, res.Quote, res.Guidance, language)

	return res
}

// ─────────────────────────────────────────────────────────────────────────────
// Stage runners
// ─────────────────────────────────────────────────────────────────────────────

func (p *Pipeline) runClassify(ctx context.Context, text, language string) types.ClassifiedIntent {
	start := time.Now()
	intent := p.classifier.Classify(text, language)
	p.metrics.RecordStage(ctx, observe.StageClassify, time.Since(start))
	p.metrics.RecordIntent(ctx, string(intent.Type), language)
	return intent
}

func (p *Pipeline) runQuote(ctx context.Context, intent types.ClassifiedIntent) *types.PriceQuote {
	start := time.Now()
	quote := p.prices.Quote(intent.Product, intent.Category)
	p.metrics.RecordStage(ctx, observe.StageQuote, time.Since(start))
	p.metrics.RecordQuote(ctx, string(quote.Source))
	if quote.Source == types.SourceFallbackEstimate {
		p.metrics.RecordFallback(ctx, observe.StageQuote)
	}
	return &quote
}

func (p *Pipeline) runTranslate(ctx context.Context, text, fromLang string, hint types.IntentType) string {
	start := time.Now()
	out := p.translator.Translate(text, fromLang, p.vendorLanguage, hint)
	p.metrics.RecordStage(ctx, observe.StageTranslate, time.Since(start))
	return out
}

func (p *Pipeline) runGuide(ctx context.Context, intent types.ClassifiedIntent, quote *types.PriceQuote, text string) types.NegotiationGuidance {
	start := time.Now()
	g := p.negotiator.Guide(intent, quote, text)
	p.metrics.RecordStage(ctx, observe.StageGuide, time.Since(start))
	if g.Fallback {
		p.metrics.RecordFallback(ctx, observe.StageGuide)
	}
	return g
}

func (p *Pipeline) runRender(ctx context.Context, intent types.ClassifiedIntent, quote *types.PriceQuote, guidance types.NegotiationGuidance, language string) types.LocalizedResponse {
	start := time.Now()
	resp := p.synth.Render(intent, quote, guidance, language)
	p.metrics.RecordStage(ctx, observe.StageRender, time.Since(start))
	if resp.Fallback {
		p.metrics.RecordFallback(ctx, observe.StageRender)
	}
	p.metrics.RecordResponse(ctx, resp.Language, resp.Fallback)
	return resp
}

// fallbackResult builds the degraded result served when a stage panics
// despite its own guards.
func (p *Pipeline) fallbackResult(language string) Result {
	intent := types.ClassifiedIntent{
		Type:       types.IntentCasualInquiry,
		Product:    "unknown",
		Category:   "general",
		Language:   language,
		Confidence: 0.1,
	}
	guidance := negotiate.FallbackGuidance(language)
	return Result{
		Intent:   intent,
		Guidance: guidance,
		Response: p.synth.Render(intent, nil, guidance, language),
	}
}
