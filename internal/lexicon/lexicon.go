// Package lexicon holds the static per-language keyword, phrase, and product
// tables that drive intent classification and product extraction.
//
// Tables are loaded once at startup — from the embedded default dataset or an
// on-disk override — into an immutable [Store]. The Store is read-only after
// construction and therefore safe for unsynchronised concurrent use by any
// number of pipeline requests.
//
// Lookup for an unsupported language falls back to the default language's
// tables so that every per-language query has a defined answer.
package lexicon

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

//go:embed data/lexicon.yaml
var embeddedLexicon []byte

// DefaultLanguage is the language every unsupported-language lookup falls
// back to.
const DefaultLanguage = "english"

// MarkerKind names a tone-marker list within a language pack.
type MarkerKind string

const (
	MarkerPoliteness  MarkerKind = "politeness"
	MarkerUrgency     MarkerKind = "urgency"
	MarkerRespect     MarkerKind = "respect"
	MarkerFamiliarity MarkerKind = "familiarity"
)

// UnitPattern describes one recognised quantity unit and the spoken aliases
// that map to it.
type UnitPattern struct {
	// Unit is the canonical unit name (kg, gram, liter, piece, dozen, box, bag).
	Unit string `yaml:"unit"`

	// Aliases lists the word forms that resolve to Unit, lowercased.
	Aliases []string `yaml:"aliases"`
}

// LanguagePack holds every lexical table for a single language. Packs are
// immutable after load.
type LanguagePack struct {
	intents           map[types.IntentType]intentEntry
	products          map[string][]string
	markers           map[MarkerKind][]string
	interrogatives    []string
	currencyWords     []string
	comparisonWords   []string
	availabilityWords []string
}

type intentEntry struct {
	keywords []string
	phrases  []string
}

// Keywords returns the single-word lexicon entries for the given intent.
func (p *LanguagePack) Keywords(intent types.IntentType) []string {
	return p.intents[intent].keywords
}

// Phrases returns the multi-word lexicon entries for the given intent.
// Phrase matches are weighted twice a keyword hit by the classifier.
func (p *LanguagePack) Phrases(intent types.IntentType) []string {
	return p.intents[intent].phrases
}

// Products returns the category → product-term table.
func (p *LanguagePack) Products() map[string][]string {
	return p.products
}

// Markers returns the tone-marker list of the given kind.
func (p *LanguagePack) Markers(kind MarkerKind) []string {
	return p.markers[kind]
}

// Interrogatives returns the question words of the language.
func (p *LanguagePack) Interrogatives() []string { return p.interrogatives }

// CurrencyWords returns words signalling price/money talk.
func (p *LanguagePack) CurrencyWords() []string { return p.currencyWords }

// ComparisonWords returns cheap/expensive style comparison adjectives.
func (p *LanguagePack) ComparisonWords() []string { return p.comparisonWords }

// AvailabilityWords returns availability/quality words.
func (p *LanguagePack) AvailabilityWords() []string { return p.availabilityWords }

// Store is the loaded, immutable lexicon dataset.
type Store struct {
	packs       map[string]*LanguagePack
	units       []UnitPattern
	defaultLang string
}

// Load parses the embedded default lexicon dataset.
func Load() (*Store, error) {
	return LoadFromReader(strings.NewReader(string(embeddedLexicon)))
}

// LoadFile reads and parses a lexicon YAML file from disk, overriding the
// embedded defaults entirely.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open %q: %w", path, err)
	}
	defer f.Close()

	s, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("lexicon: parse %q: %w", path, err)
	}
	return s, nil
}

// LoadFromReader decodes lexicon YAML from r and validates the result.
func LoadFromReader(r io.Reader) (*Store, error) {
	var file fileSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("lexicon: decode yaml: %w", err)
	}

	s := &Store{
		packs:       make(map[string]*LanguagePack, len(file.Languages)),
		units:       file.Units,
		defaultLang: DefaultLanguage,
	}

	for lang, schema := range file.Languages {
		pack, err := buildPack(lang, schema)
		if err != nil {
			return nil, err
		}
		s.packs[lang] = pack
	}

	if _, ok := s.packs[s.defaultLang]; !ok {
		return nil, fmt.Errorf("lexicon: dataset is missing the default language %q", s.defaultLang)
	}
	if len(s.units) == 0 {
		return nil, fmt.Errorf("lexicon: dataset declares no quantity units")
	}
	return s, nil
}

// Pack returns the language pack for lang, falling back to the default
// language's pack when lang is unsupported.
func (s *Store) Pack(lang string) *LanguagePack {
	if p, ok := s.packs[normalizeLang(lang)]; ok {
		return p
	}
	return s.packs[s.defaultLang]
}

// Supports reports whether lang has its own pack (no fallback involved).
func (s *Store) Supports(lang string) bool {
	_, ok := s.packs[normalizeLang(lang)]
	return ok
}

// Languages returns all supported language tags in sorted order.
func (s *Store) Languages() []string {
	langs := make([]string, 0, len(s.packs))
	for lang := range s.packs {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Units returns the recognised quantity-unit patterns.
func (s *Store) Units() []UnitPattern { return s.units }

// DefaultLang returns the configured fallback language tag.
func (s *Store) DefaultLang() string { return s.defaultLang }

func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// ── YAML schema ──────────────────────────────────────────────────────────────

type fileSchema struct {
	Languages map[string]languageSchema `yaml:"languages"`
	Units     []UnitPattern             `yaml:"units"`
}

type languageSchema struct {
	Intents           map[string]intentSchema `yaml:"intents"`
	Products          map[string][]string     `yaml:"products"`
	Markers           map[string][]string     `yaml:"markers"`
	Interrogatives    []string                `yaml:"interrogatives"`
	CurrencyWords     []string                `yaml:"currency_words"`
	ComparisonWords   []string                `yaml:"comparison_words"`
	AvailabilityWords []string                `yaml:"availability_words"`
}

type intentSchema struct {
	Keywords []string `yaml:"keywords"`
	Phrases  []string `yaml:"phrases"`
}

// buildPack converts one language's YAML schema into an immutable pack.
// A keyword appearing under two intent categories of the same language is a
// load error: duplicate keys would make classification order-dependent.
func buildPack(lang string, schema languageSchema) (*LanguagePack, error) {
	pack := &LanguagePack{
		intents:           make(map[types.IntentType]intentEntry, len(schema.Intents)),
		products:          make(map[string][]string, len(schema.Products)),
		markers:           make(map[MarkerKind][]string, len(schema.Markers)),
		interrogatives:    lowerAll(schema.Interrogatives),
		currencyWords:     lowerAll(schema.CurrencyWords),
		comparisonWords:   lowerAll(schema.ComparisonWords),
		availabilityWords: lowerAll(schema.AvailabilityWords),
	}

	seen := make(map[string]types.IntentType)
	for name, entry := range schema.Intents {
		intent := types.IntentType(name)
		if !intent.IsValid() {
			return nil, fmt.Errorf("lexicon: language %q declares unknown intent %q", lang, name)
		}
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if prev, dup := seen[kw]; dup && prev != intent {
				return nil, fmt.Errorf("lexicon: language %q keyword %q appears under both %q and %q", lang, kw, prev, intent)
			}
			seen[kw] = intent
		}
		pack.intents[intent] = intentEntry{
			keywords: lowerAll(entry.Keywords),
			phrases:  lowerAll(entry.Phrases),
		}
	}

	for category, terms := range schema.Products {
		pack.products[strings.ToLower(category)] = lowerAll(terms)
	}
	for kind, words := range schema.Markers {
		pack.markers[MarkerKind(kind)] = lowerAll(words)
	}
	return pack, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
