// Package price implements the price discovery engine: it resolves a
// product/category pair to a [types.PriceQuote] using a static dataset with
// a graceful fallback ladder.
//
// Resolution ladder (each rung only when the prior misses):
//
//  1. Exact product key match.
//  2. Fuzzy match: case-insensitive substring containment in either
//     direction against all dataset keys.
//  3. Phonetic match: Jaro-Winkler similarity against all dataset keys,
//     for product names mangled by speech transcription.
//  4. Category default from the per-category price table.
//  5. The general bucket with fallback confidence.
//
// No unresolvable case exists — the ladder always terminates in the general
// bucket, and the quote's Confidence/Source fields communicate reliability
// instead of an error.
package price

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
	"gopkg.in/yaml.v3"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

//go:embed data/prices.yaml
var embeddedPrices []byte

// Per-rung confidence of the resolution ladder.
const (
	confExact    = 0.95
	confFuzzy    = 0.75
	confPhonetic = 0.60
	confCategory = 0.50
	confFallback = 0.30
)

// phoneticMatchThreshold is the minimum Jaro-Winkler score for the phonetic
// rung to accept a dataset key.
const phoneticMatchThreshold = 0.85

// generalCategory is the terminal fallback bucket. The dataset must define it.
const generalCategory = "general"

// defaultBulkTiers are the discount breakpoints generated for products whose
// dataset entry does not supply explicit tiers.
var defaultBulkTiers = []struct {
	threshold int
	discount  float64
}{
	{10, 0.05},
	{25, 0.10},
	{50, 0.15},
	{100, 0.20},
}

// categoryFlexibility is the fixed per-category negotiation tolerance:
// perishables tolerate more price movement than storable staples.
var categoryFlexibility = map[string]types.Flexibility{
	"vegetables":      types.FlexHigh,
	"fruits":          types.FlexHigh,
	"grains":          types.FlexLow,
	"cooking_staples": types.FlexLow,
}

// Option is a functional option for configuring an [Engine].
type Option func(*Engine)

// WithSeasonal toggles seasonal context on quotes. Default: enabled.
func WithSeasonal(enabled bool) Option {
	return func(e *Engine) { e.seasonal = enabled }
}

// WithTrendSeed sets the seed for the market-trend label derivation. Trends
// are a pure function of (seed, product, month), so a fixed seed keeps the
// whole engine deterministic. Default seed: 0.
func WithTrendSeed(seed int64) Option {
	return func(e *Engine) { e.trendSeed = seed }
}

// WithClock overrides the time source used for seasonal month selection.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine resolves products to price quotes. Immutable after construction and
// safe for concurrent use.
type Engine struct {
	products map[string]productEntry
	keys     []string // sorted product keys, fixes fuzzy-scan order
	defaults map[string]categoryDefault
	seasons  map[string]seasonEntry

	seasonal  bool
	trendSeed int64
	now       func() time.Time
}

// Products returns the number of products in the loaded dataset.
func (e *Engine) Products() int { return len(e.keys) }

// New loads the embedded price dataset.
func New(opts ...Option) (*Engine, error) {
	return NewFromReader(strings.NewReader(string(embeddedPrices)), opts...)
}

// NewFromFile loads a price dataset from disk, replacing the embedded one.
func NewFromFile(path string, opts ...Option) (*Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("price: open %q: %w", path, err)
	}
	defer f.Close()

	e, err := NewFromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("price: parse %q: %w", path, err)
	}
	return e, nil
}

// NewFromReader decodes a price dataset from r and validates it.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	var file priceFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("price: decode yaml: %w", err)
	}

	e := &Engine{
		products: make(map[string]productEntry, len(file.Products)),
		defaults: make(map[string]categoryDefault, len(file.CategoryDefaults)),
		seasons:  make(map[string]seasonEntry, len(file.Seasonal)),
		seasonal: true,
		now:      time.Now,
	}

	for key, p := range file.Products {
		key = strings.ToLower(strings.TrimSpace(key))
		if p.Market <= 0 || p.Min <= 0 || p.Max <= 0 {
			return nil, fmt.Errorf("price: product %q has non-positive prices", key)
		}
		if p.Min > p.Market || p.Market > p.Max {
			return nil, fmt.Errorf("price: product %q violates min ≤ market ≤ max (%d, %d, %d)", key, p.Min, p.Market, p.Max)
		}
		e.products[key] = p
		e.keys = append(e.keys, key)
	}
	slices.Sort(e.keys)

	for cat, d := range file.CategoryDefaults {
		cat = strings.ToLower(strings.TrimSpace(cat))
		if d.Min <= 0 || d.Avg < d.Min || d.Max < d.Avg {
			return nil, fmt.Errorf("price: category default %q violates min ≤ avg ≤ max", cat)
		}
		e.defaults[cat] = d
	}
	if _, ok := e.defaults[generalCategory]; !ok {
		return nil, fmt.Errorf("price: dataset is missing the %q category default", generalCategory)
	}

	for cat, s := range file.Seasonal {
		e.seasons[strings.ToLower(cat)] = s
	}

	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Quote resolves product (and its claimed category) to a price quote.
// It never fails; the Source and Confidence fields report how the quote was
// obtained.
func (e *Engine) Quote(product, category string) types.PriceQuote {
	product = strings.ToLower(strings.TrimSpace(product))
	category = strings.ToLower(strings.TrimSpace(category))

	if product != "" && product != "unknown" {
		// Rung 1: exact key.
		if entry, ok := e.products[product]; ok {
			return e.buildQuote(product, entry, types.SourceExactMatch, confExact)
		}

		// Rung 2: bidirectional substring containment.
		for _, key := range e.keys {
			if strings.Contains(key, product) || strings.Contains(product, key) {
				return e.buildQuote(key, e.products[key], types.SourceFuzzyMatch, confFuzzy)
			}
		}

		// Rung 3: Jaro-Winkler similarity for speech-garbled names.
		bestKey, bestScore := "", 0.0
		for _, key := range e.keys {
			if s := matchr.JaroWinkler(product, key, false); s > bestScore {
				bestKey, bestScore = key, s
			}
		}
		if bestScore >= phoneticMatchThreshold {
			return e.buildQuote(bestKey, e.products[bestKey], types.SourcePhoneticMatch, confPhonetic)
		}
	}

	// Rung 4: category default.
	if d, ok := e.defaults[category]; ok && category != generalCategory {
		return e.buildDefaultQuote(product, category, d, types.SourceCategoryDefault, confCategory)
	}

	// Rung 5: general bucket.
	return e.buildDefaultQuote(product, generalCategory, e.defaults[generalCategory], types.SourceFallbackEstimate, confFallback)
}

// buildQuote assembles a quote from a concrete dataset entry.
func (e *Engine) buildQuote(key string, entry productEntry, source types.QuoteSource, conf float64) types.PriceQuote {
	q := types.PriceQuote{
		Product:     key,
		Category:    entry.Category,
		MarketPrice: entry.Market,
		MinPrice:    entry.Min,
		MaxPrice:    entry.Max,
		Unit:        entry.Unit,
		Flexibility: flexibilityFor(entry.Category),
		Confidence:  conf,
		Source:      source,
	}
	q.BulkTiers = e.bulkTiers(entry)
	if e.seasonal {
		q.Seasonal = e.seasonalContext(key, entry.Category)
	}
	return q
}

// buildDefaultQuote assembles a quote from a category default row. The
// requested product name is preserved so callers can see what was asked for.
func (e *Engine) buildDefaultQuote(product, category string, d categoryDefault, source types.QuoteSource, conf float64) types.PriceQuote {
	if product == "" {
		product = "unknown"
	}
	q := types.PriceQuote{
		Product:     product,
		Category:    category,
		MarketPrice: d.Avg,
		MinPrice:    d.Min,
		MaxPrice:    d.Max,
		Unit:        d.Unit,
		Flexibility: flexibilityFor(category),
		Confidence:  conf,
		Source:      source,
	}
	q.BulkTiers = generatedTiers(d.Avg)
	if e.seasonal {
		q.Seasonal = e.seasonalContext(product, category)
	}
	return q
}

// bulkTiers returns the entry's explicit tiers when present, otherwise the
// generated default breakpoints.
func (e *Engine) bulkTiers(entry productEntry) []types.BulkTier {
	if len(entry.BulkTiers) > 0 {
		tiers := make([]types.BulkTier, len(entry.BulkTiers))
		for i, t := range entry.BulkTiers {
			tiers[i] = types.BulkTier{
				ThresholdQty:  t.Threshold,
				DiscountRatio: t.Discount,
				TierPrice:     tierPrice(entry.Market, t.Discount),
			}
		}
		slices.SortFunc(tiers, func(a, b types.BulkTier) int { return a.ThresholdQty - b.ThresholdQty })
		return tiers
	}
	return generatedTiers(entry.Market)
}

func generatedTiers(market int) []types.BulkTier {
	tiers := make([]types.BulkTier, 0, len(defaultBulkTiers))
	for _, t := range defaultBulkTiers {
		tiers = append(tiers, types.BulkTier{
			ThresholdQty:  t.threshold,
			DiscountRatio: t.discount,
			TierPrice:     tierPrice(market, t.discount),
		})
	}
	return tiers
}

// tierPrice rounds the discounted price, never below 1 rupee.
func tierPrice(market int, discount float64) int {
	p := int(math.Round(float64(market) * (1 - discount)))
	if p < 1 {
		p = 1
	}
	return p
}

func flexibilityFor(category string) types.Flexibility {
	if f, ok := categoryFlexibility[category]; ok {
		return f
	}
	return types.FlexModerate
}

// ── YAML schema ──────────────────────────────────────────────────────────────

type priceFile struct {
	Products         map[string]productEntry    `yaml:"products"`
	CategoryDefaults map[string]categoryDefault `yaml:"category_defaults"`
	Seasonal         map[string]seasonEntry     `yaml:"seasonal"`
}

type productEntry struct {
	Market    int         `yaml:"market"`
	Min       int         `yaml:"min"`
	Max       int         `yaml:"max"`
	Unit      string      `yaml:"unit"`
	Category  string      `yaml:"category"`
	BulkTiers []tierEntry `yaml:"bulk_tiers"`
}

type tierEntry struct {
	Threshold int     `yaml:"threshold"`
	Discount  float64 `yaml:"discount"`
}

type categoryDefault struct {
	Min  int    `yaml:"min"`
	Avg  int    `yaml:"avg"`
	Max  int    `yaml:"max"`
	Unit string `yaml:"unit"`
}

type seasonEntry struct {
	PeakMonths []int   `yaml:"peak_months"`
	OffMonths  []int   `yaml:"off_months"`
	PeakFactor float64 `yaml:"peak_factor"`
	OffFactor  float64 `yaml:"off_factor"`
}
