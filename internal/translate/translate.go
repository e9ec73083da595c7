// Package translate implements the shallow trade-phrase translator.
//
// Translation is intentionally narrow: it is correct only for the fixed
// trade-phrase domain (price questions, discount requests, availability
// checks) and falls back to returning the input unchanged whenever no rule
// applies. That pass-through is a documented fallback, not an error.
//
// Three passes are attempted in order:
//
//  1. Template path — when an intent hint is supplied, the source text is
//     matched against the source language's phrase templates for that
//     intent (placeholders become wildcard matchers); on a hit, the
//     corresponding target-language template is filled with the captured
//     product/quantity words.
//  2. Word substitution — a fixed multilingual dictionary of trade terms is
//     applied token by token.
//  3. Tone preservation — politeness/urgency/respect/familiarity markers
//     found in the source are mirrored by prepending the equivalent target
//     language marker when missing.
package translate

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/classify"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/lexicon"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

//go:embed data/phrases.yaml
var embeddedPhrases []byte

// markerMirrorOrder fixes which marker kind wins when several are present.
var markerMirrorOrder = []lexicon.MarkerKind{
	lexicon.MarkerRespect,
	lexicon.MarkerPoliteness,
	lexicon.MarkerUrgency,
	lexicon.MarkerFamiliarity,
}

// Translator performs trade-domain phrase translation between the supported
// languages. Immutable after construction; safe for concurrent use.
type Translator struct {
	store     *lexicon.Store
	templates map[string]map[types.IntentType][]compiledTemplate
	// dict maps (fromLang, word) → (toLang → word).
	dict map[string]map[string]map[string]string
}

type compiledTemplate struct {
	key     string
	raw     string
	pattern *regexp.Regexp
	slots   []string
}

// New loads the embedded phrase tables and returns a ready Translator.
func New(store *lexicon.Store) (*Translator, error) {
	return NewFromReader(store, bytes.NewReader(embeddedPhrases))
}

// NewFromFile loads a phrase dataset from disk, replacing the embedded one.
func NewFromFile(store *lexicon.Store, path string) (*Translator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("translate: open %q: %w", path, err)
	}
	defer f.Close()
	t, err := NewFromReader(store, f)
	if err != nil {
		return nil, fmt.Errorf("translate: parse %q: %w", path, err)
	}
	return t, nil
}

// NewFromReader parses a phrase dataset from r.
func NewFromReader(store *lexicon.Store, r io.Reader) (*Translator, error) {
	var file phraseFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("translate: decode phrase yaml: %w", err)
	}

	t := &Translator{
		store:     store,
		templates: make(map[string]map[types.IntentType][]compiledTemplate, len(file.Templates)),
		dict:      make(map[string]map[string]map[string]string),
	}

	for lang, intents := range file.Templates {
		t.templates[lang] = make(map[types.IntentType][]compiledTemplate, len(intents))
		for intentName, entries := range intents {
			intent := types.IntentType(intentName)
			if !intent.IsValid() {
				return nil, fmt.Errorf("translate: language %q declares unknown intent %q", lang, intentName)
			}
			for _, key := range sortedKeys(entries) {
				ct, err := compileTemplate(key, entries[key])
				if err != nil {
					return nil, fmt.Errorf("translate: template %s/%s/%s: %w", lang, intentName, key, err)
				}
				t.templates[lang][intent] = append(t.templates[lang][intent], ct)
			}
		}
	}

	for _, row := range file.Dictionary {
		for fromLang, fromWord := range row {
			fromWord = strings.ToLower(fromWord)
			if t.dict[fromLang] == nil {
				t.dict[fromLang] = make(map[string]map[string]string)
			}
			targets := make(map[string]string, len(row)-1)
			for toLang, toWord := range row {
				if toLang != fromLang {
					targets[toLang] = toWord
				}
			}
			t.dict[fromLang][fromWord] = targets
		}
	}

	return t, nil
}

// Languages returns the number of languages with template tables loaded.
func (t *Translator) Languages() int { return len(t.templates) }

// Translate converts text from one language to another. Identity when the
// languages are equal; returns text unchanged when no rule applies.
// The intent hint enables the template path; pass "" to skip it.
func (t *Translator) Translate(text, fromLang, toLang string, hint types.IntentType) string {
	fromLang = strings.ToLower(strings.TrimSpace(fromLang))
	toLang = strings.ToLower(strings.TrimSpace(toLang))
	if fromLang == toLang || strings.TrimSpace(text) == "" {
		return text
	}

	if hint.IsValid() {
		if out, ok := t.translateByTemplate(text, fromLang, toLang, hint); ok {
			return t.mirrorTone(text, out, fromLang, toLang)
		}
	}

	if out, ok := t.translateByDictionary(text, fromLang, toLang); ok {
		return t.mirrorTone(text, out, fromLang, toLang)
	}

	// Documented fallback: pass the original through untouched.
	return text
}

// translateByTemplate matches text against the source language's templates
// for the hinted intent and fills the same-keyed target template.
func (t *Translator) translateByTemplate(text, fromLang, toLang string, hint types.IntentType) (string, bool) {
	sources := t.templates[fromLang][hint]
	targets := t.templates[toLang][hint]
	if len(sources) == 0 || len(targets) == 0 {
		return "", false
	}

	norm := classify.Normalize(text)
	for _, src := range sources {
		m := src.pattern.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		tgt, ok := templateByKey(targets, src.key)
		if !ok {
			continue
		}
		values := make(map[string]string, len(src.slots))
		for i, slot := range src.slots {
			if i+1 < len(m) {
				values[slot] = m[i+1]
			}
		}
		return fillTemplate(tgt.raw, values), true
	}
	return "", false
}

// translateByDictionary replaces known trade terms token by token.
// Reports ok only when at least one token was substituted.
func (t *Translator) translateByDictionary(text, fromLang, toLang string) (string, bool) {
	fromDict := t.dict[fromLang]
	if fromDict == nil {
		return "", false
	}

	tokens := strings.Fields(classify.Normalize(text))
	replaced := false
	for i, tok := range tokens {
		if targets, ok := fromDict[tok]; ok {
			if word, ok := targets[toLang]; ok {
				tokens[i] = word
				replaced = true
			}
		}
	}
	if !replaced {
		return "", false
	}
	return strings.Join(tokens, " "), true
}

// mirrorTone prepends a target-language tone marker when the source text
// carried one and the translation does not already express it.
func (t *Translator) mirrorTone(original, translated, fromLang, toLang string) string {
	fromPack := t.store.Pack(fromLang)
	toPack := t.store.Pack(toLang)
	norm := classify.Normalize(original)
	translatedNorm := classify.Normalize(translated)

	for _, kind := range markerMirrorOrder {
		if !containsAnyWord(norm, fromPack.Markers(kind)) {
			continue
		}
		equivalents := toPack.Markers(kind)
		if len(equivalents) == 0 || containsAnyWord(translatedNorm, equivalents) {
			return translated
		}
		return equivalents[0] + ", " + translated
	}
	return translated
}

func containsAnyWord(norm string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(norm, w) {
			return true
		}
	}
	return false
}

// ── YAML schema ──────────────────────────────────────────────────────────────

type phraseFile struct {
	// Templates: language → intent → template key → phrase with {slot}
	// placeholders. Matching source and target templates share a key.
	Templates map[string]map[string]map[string]string `yaml:"templates"`

	// Dictionary rows map a single trade term across languages.
	Dictionary []map[string]string `yaml:"dictionary"`
}

// ── Template compilation ─────────────────────────────────────────────────────

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// compileTemplate turns "what is the price of {product}" into a compiled
// matcher whose placeholders capture any word (quantity slots capture digits).
func compileTemplate(key, raw string) (compiledTemplate, error) {
	var (
		slots   []string
		pattern strings.Builder
	)
	lower := strings.ToLower(raw)
	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(lower, -1) {
		pattern.WriteString(regexp.QuoteMeta(lower[last:loc[0]]))
		slot := lower[loc[2]:loc[3]]
		slots = append(slots, slot)
		if slot == "quantity" {
			pattern.WriteString(`(\d+)`)
		} else {
			pattern.WriteString(`(\S+(?:\s\S+)?)`)
		}
		last = loc[1]
	}
	pattern.WriteString(regexp.QuoteMeta(lower[last:]))

	re, err := regexp.Compile("^" + pattern.String() + "$")
	if err != nil {
		return compiledTemplate{}, err
	}
	return compiledTemplate{key: key, raw: raw, pattern: re, slots: slots}, nil
}

// fillTemplate substitutes captured values into the target template.
// Unfilled placeholders are dropped rather than leaked.
func fillTemplate(raw string, values map[string]string) string {
	out := placeholderRe.ReplaceAllStringFunc(raw, func(ph string) string {
		slot := strings.Trim(ph, "{}")
		return values[slot]
	})
	return strings.Join(strings.Fields(out), " ")
}

func templateByKey(templates []compiledTemplate, key string) (compiledTemplate, bool) {
	for _, ct := range templates {
		if ct.key == key {
			return ct, true
		}
	}
	return compiledTemplate{}, false
}

// sortedKeys fixes the template match order so translation is deterministic
// regardless of map iteration.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
