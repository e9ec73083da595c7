// Package respond implements the response synthesizer: it renders a
// classified intent, price quote, and negotiation guidance into a single
// localized, length-bounded [types.LocalizedResponse], and exposes the
// speech-playback hook.
//
// Rendering is deterministic given its inputs and total: any internal
// failure is converted into the language's fixed fallback message with
// Fallback = true and Actionable = false. A rendered response never
// contains an unfilled template placeholder.
package respond

import (
	"bytes"
	_ "embed"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/speech"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

//go:embed data/templates.yaml
var embeddedTemplates []byte

// DefaultDisplayCap is the default maximum rendered length in runes.
const DefaultDisplayCap = 300

// pointPriceConfidence: at or above this quote confidence the point-price
// template is used; below it the range template hedges.
const pointPriceConfidence = 0.60

// Option is a functional option for configuring a [Synthesizer].
type Option func(*Synthesizer)

// WithDisplayCap overrides the maximum response length in runes.
func WithDisplayCap(limit int) Option {
	return func(s *Synthesizer) {
		if limit > 0 {
			s.displayCap = limit
		}
	}
}

// WithPlayback wires the speech playback adapter used by [Synthesizer.Speak].
func WithPlayback(p speech.Playback) Option {
	return func(s *Synthesizer) { s.playback = p }
}

// Synthesizer renders localized responses from per-language template
// bundles. Immutable after construction; safe for concurrent use.
type Synthesizer struct {
	bundles     map[string]bundle
	defaultLang string
	displayCap  int
	playback    speech.Playback
}

// New loads the embedded template bundles.
func New(opts ...Option) (*Synthesizer, error) {
	return NewFromReader(bytes.NewReader(embeddedTemplates), opts...)
}

// NewFromFile loads template bundles from disk, replacing the embedded ones.
func NewFromFile(path string, opts ...Option) (*Synthesizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("respond: open %q: %w", path, err)
	}
	defer f.Close()
	s, err := NewFromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("respond: parse %q: %w", path, err)
	}
	return s, nil
}

// NewFromReader parses template bundles from r.
func NewFromReader(r io.Reader, opts ...Option) (*Synthesizer, error) {
	var file templateFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("respond: decode template yaml: %w", err)
	}

	s := &Synthesizer{
		bundles:     file.Bundles,
		defaultLang: file.DefaultLanguage,
		displayCap:  DefaultDisplayCap,
	}
	if s.defaultLang == "" {
		s.defaultLang = "english"
	}
	if _, ok := s.bundles[s.defaultLang]; !ok {
		return nil, fmt.Errorf("respond: template bundles are missing the default language %q", s.defaultLang)
	}
	for lang, b := range s.bundles {
		if b.PricePoint == "" || b.PriceRange == "" || b.NoPrice == "" || b.Fallback == "" {
			return nil, fmt.Errorf("respond: bundle %q is missing a required template", lang)
		}
	}

	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Languages returns the number of template bundles loaded.
func (s *Synthesizer) Languages() int { return len(s.bundles) }

// Render builds the localized response. quote may be nil. Render never
// fails: internal faults yield the language's fixed fallback message.
func (s *Synthesizer) Render(intent types.ClassifiedIntent, quote *types.PriceQuote, guidance types.NegotiationGuidance, language string) (resp types.LocalizedResponse) {
	b, lang := s.bundle(language)

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("respond: internal fault, serving fallback message", "panic", r, "language", lang)
			resp = types.LocalizedResponse{
				Text:     b.Fallback,
				Language: lang,
				Fallback: true,
			}
		}
	}()

	var segments []string

	segments = append(segments, s.primarySegment(b, intent, quote))

	if snippet := b.Flexibility[flexKey(quote)]; snippet != "" && quote != nil {
		segments = append(segments, snippet)
	}

	if advice := s.adviceSegment(b, quote, guidance); advice != "" {
		segments = append(segments, advice)
	}

	if quote != nil && quote.Seasonal != nil && quote.Seasonal.Factor != 1.0 {
		segments = append(segments, quote.Seasonal.Note)
	}

	sep := b.Separator
	if sep == "" {
		sep = " "
	}
	text := strings.Join(nonEmpty(segments), sep)
	text = truncate(text, s.displayCap)

	return types.LocalizedResponse{
		Text:       text,
		Language:   lang,
		Actionable: !guidance.Fallback && quote != nil,
		Fallback:   guidance.Fallback,
	}
}

// Speak hands a finished response to the playback adapter. A no-op when no
// adapter is wired. Fire-and-forget: failures are logged, never propagated.
func (s *Synthesizer) Speak(ctx context.Context, resp types.LocalizedResponse) {
	if s.playback == nil {
		return
	}
	if err := s.playback.Speak(ctx, resp.Text, resp.Language); err != nil {
		slog.Warn("respond: speech playback failed", "language", resp.Language, "err", err)
	}
}

// bundle resolves the template bundle for language, falling back to the
// default bundle for unsupported languages.
func (s *Synthesizer) bundle(language string) (bundle, string) {
	lang := strings.ToLower(strings.TrimSpace(language))
	if b, ok := s.bundles[lang]; ok {
		return b, lang
	}
	return s.bundles[s.defaultLang], s.defaultLang
}

// primarySegment fills one of the three price-guidance variants: point
// price, price range, or no price available.
func (s *Synthesizer) primarySegment(b bundle, intent types.ClassifiedIntent, quote *types.PriceQuote) string {
	product := displayProduct(b, intent, quote)

	if quote == nil {
		return fill(b.NoPrice, map[string]string{"product": product})
	}

	values := map[string]string{
		"product": product,
		"unit":    quote.Unit,
		"market":  fmt.Sprintf("%d", quote.MarketPrice),
		"min":     fmt.Sprintf("%d", quote.MinPrice),
		"max":     fmt.Sprintf("%d", quote.MaxPrice),
	}
	if quote.Confidence >= pointPriceConfidence {
		return fill(b.PricePoint, values)
	}
	return fill(b.PriceRange, values)
}

// adviceSegment fills the negotiation-advice template when the guidance
// carries a recommended offer with a concrete price.
func (s *Synthesizer) adviceSegment(b bundle, quote *types.PriceQuote, guidance types.NegotiationGuidance) string {
	if b.Advice == "" || quote == nil {
		return ""
	}
	for _, offer := range guidance.CounterOffers {
		if offer.Recommended && offer.Price != nil {
			return fill(b.Advice, map[string]string{
				"offer": fmt.Sprintf("%d", *offer.Price),
				"unit":  quote.Unit,
			})
		}
	}
	return ""
}

// displayProduct picks the best product name available, preferring the
// resolved quote key over the raw classifier extraction.
func displayProduct(b bundle, intent types.ClassifiedIntent, quote *types.PriceQuote) string {
	if quote != nil && quote.Product != "" && quote.Product != "unknown" {
		return quote.Product
	}
	if intent.Product != "" && intent.Product != "unknown" {
		return intent.Product
	}
	if b.GenericProduct != "" {
		return b.GenericProduct
	}
	return "this item"
}

func flexKey(quote *types.PriceQuote) string {
	if quote == nil {
		return ""
	}
	return string(quote.Flexibility)
}

// ── Template filling and truncation ──────────────────────────────────────────

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// fill substitutes values into a template. Unknown placeholders are removed
// rather than leaked into the output.
func fill(template string, values map[string]string) string {
	out := placeholderRe.ReplaceAllStringFunc(template, func(ph string) string {
		return values[strings.Trim(ph, "{}")]
	})
	return strings.Join(strings.Fields(out), " ")
}

// sentenceEnders covers Latin sentence punctuation plus the devanagari danda.
var sentenceEnders = []rune{'.', '!', '?', '।'}

// truncate bounds text to cap runes, cutting at the last sentence boundary
// inside the cap when one exists, otherwise hard-truncating with an ellipsis.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := -1
	for i := limit - 1; i >= 0; i-- {
		for _, e := range sentenceEnders {
			if runes[i] == e {
				cut = i
				break
			}
		}
		if cut >= 0 {
			break
		}
	}
	if cut > 0 {
		return strings.TrimSpace(string(runes[:cut+1]))
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

// nonEmpty filters blank segments.
func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// ── YAML schema ──────────────────────────────────────────────────────────────

type templateFile struct {
	DefaultLanguage string            `yaml:"default_language"`
	Bundles         map[string]bundle `yaml:"bundles"`
}

type bundle struct {
	// The three primary price-guidance variants.
	PricePoint string `yaml:"price_point"`
	PriceRange string `yaml:"price_range"`
	NoPrice    string `yaml:"no_price"`

	// Advice is the negotiation-advice template ({offer}, {unit}).
	Advice string `yaml:"advice"`

	// Flexibility maps a flexibility level to a cultural-guidance snippet.
	Flexibility map[string]string `yaml:"flexibility"`

	// Separator joins rendered segments (language-appropriate).
	Separator string `yaml:"separator"`

	// Fallback is the fixed degraded-path message.
	Fallback string `yaml:"fallback"`

	// GenericProduct is the placeholder product name ("this item").
	GenericProduct string `yaml:"generic_product"`
}
