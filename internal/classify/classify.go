// Package classify implements the intent classifier: it scores a normalised
// utterance against the lexicon tables and emits a [types.ClassifiedIntent]
// with the winning intent, a confidence score, and any detected product,
// category, and quantity.
//
// The classifier is total: every string input — including empty and garbage
// text — produces a well-formed result. When nothing matches, the intent
// defaults to [types.IntentCasualInquiry] with the base confidence.
//
// Scoring:
//
//  1. Normalise: lowercase, strip punctuation, collapse whitespace, tokenise.
//  2. Per intent category: +1 per token matching a lexicon keyword
//     (substring containment in either direction), +2 per multi-word phrase
//     found as a substring of the normalised text.
//  3. Contextual boosts on the whole text: a number+unit pattern boosts
//     bulk_purchase, currency words boost bargaining, interrogatives and
//     availability words boost casual_inquiry, comparison adjectives boost
//     bargaining.
//  4. Highest total wins; exact ties resolve in the fixed order
//     bargaining > bulk_purchase > casual_inquiry.
package classify

import (
	"strings"
	"unicode"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/lexicon"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

// Scoring weights and boosts. Phrase matches weigh twice a keyword hit so
// that confidence stays monotonic in matched evidence.
const (
	keywordWeight = 1
	phraseWeight  = 2

	quantityBoost     = 2
	currencyBoost     = 1
	interrogBoost     = 1
	comparisonBoost   = 1
	availabilityBoost = 1
)

// Confidence formula constants.
const (
	baseConfidence   = 0.30
	ratioWeight      = 0.35
	perMatchBonus    = 0.05
	maxMatchBonus    = 0.15
	productBonus     = 0.10
	confidenceCap    = 0.95
	unknownProduct   = "unknown"
	generalCategory  = "general"
)

// Classifier scores utterances against a lexicon [lexicon.Store].
// It is stateless apart from the immutable store and safe for concurrent use.
type Classifier struct {
	store    *lexicon.Store
	phonetic *productMatcher
}

// New creates a Classifier over the given lexicon store.
func New(store *lexicon.Store) *Classifier {
	return &Classifier{
		store:    store,
		phonetic: newProductMatcher(),
	}
}

// Classify scores text against the lexicon for language and returns the
// classified intent. It never fails: malformed or empty input takes the
// documented default path (casual_inquiry, confidence 0.30, unknown product).
func (c *Classifier) Classify(text, language string) types.ClassifiedIntent {
	pack := c.store.Pack(language)
	norm := Normalize(text)
	tokens := strings.Fields(norm)

	scores := make(map[types.IntentType]int, len(types.IntentOrder))
	matched := make(map[types.IntentType][]string, len(types.IntentOrder))

	// Keyword and phrase scoring per intent category.
	for _, intent := range types.IntentOrder {
		for _, tok := range tokens {
			for _, kw := range pack.Keywords(intent) {
				if tokenMatches(tok, kw) {
					scores[intent] += keywordWeight
					matched[intent] = append(matched[intent], kw)
					break
				}
			}
		}
		for _, phrase := range pack.Phrases(intent) {
			if strings.Contains(norm, phrase) {
				scores[intent] += phraseWeight
				matched[intent] = append(matched[intent], phrase)
			}
		}
	}

	// Contextual boosts on the whole normalised text.
	qty := c.extractQuantity(tokens)
	if qty != nil {
		scores[types.IntentBulkPurchase] += quantityBoost
	}
	if anyWordPresent(norm, pack.CurrencyWords()) {
		scores[types.IntentBargaining] += currencyBoost
	}
	if anyWordPresent(norm, pack.ComparisonWords()) {
		scores[types.IntentBargaining] += comparisonBoost
	}
	if anyWordPresent(norm, pack.Interrogatives()) {
		scores[types.IntentCasualInquiry] += interrogBoost
	}
	if anyWordPresent(norm, pack.AvailabilityWords()) {
		scores[types.IntentCasualInquiry] += availabilityBoost
	}

	// Winner selection. Iterating IntentOrder makes the tie-break fixed:
	// bargaining > bulk_purchase > casual_inquiry on equal scores.
	winner := types.IntentCasualInquiry
	best, total := 0, 0
	for _, intent := range types.IntentOrder {
		total += scores[intent]
		if scores[intent] > best {
			best = scores[intent]
			winner = intent
		}
	}
	if total == 0 {
		winner = types.IntentCasualInquiry
	}

	product, category := c.extractProduct(tokens, pack)

	return types.ClassifiedIntent{
		Type:            winner,
		Confidence:      confidence(best, total, len(matched[winner]), product),
		MatchedKeywords: matched[winner],
		Product:         product,
		Category:        category,
		Quantity:        qty,
		Language:        language,
	}
}

// Normalize lowercases text, strips punctuation, and collapses whitespace.
// Digits and letters of any script are preserved.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// Punctuation becomes a separator so "rice?" tokenises as "rice".
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenMatches implements the bidirectional substring rule: the token
// contains the keyword or the keyword contains the token. Very short tokens
// are required to match exactly to avoid noise ("a" ⊂ "bargain").
func tokenMatches(tok, kw string) bool {
	if tok == kw {
		return true
	}
	if len([]rune(tok)) < 3 || len([]rune(kw)) < 3 {
		return false
	}
	return strings.Contains(tok, kw) || strings.Contains(kw, tok)
}

// productTokenMatches is stricter than the keyword rule: product terms match
// on exact equality or prefix containment only, so plural and inflected forms
// still resolve ("tomatoes" → "tomato") while mid-word collisions do not —
// "price" contains "rice" but is not a rice mention.
func productTokenMatches(tok, term string) bool {
	if tok == term {
		return true
	}
	if len([]rune(tok)) < 3 || len([]rune(term)) < 3 {
		return false
	}
	return strings.HasPrefix(tok, term) || strings.HasPrefix(term, tok)
}

// anyWordPresent reports whether any of the words occurs in the normalised
// text. The boost applies once per word family, not per occurrence.
func anyWordPresent(norm string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(norm, w) {
			return true
		}
	}
	return false
}

// extractQuantity scans the token sequence for a number followed by a known
// unit alias, either as two tokens ("5 kg") or joined ("5kg").
// The first match wins. Returns nil when no quantity is present.
func (c *Classifier) extractQuantity(tokens []string) *types.Quantity {
	for i, tok := range tokens {
		// Joined form: digits immediately followed by a unit alias.
		if amount, rest := splitLeadingNumber(tok); amount > 0 && rest != "" {
			if unit := c.unitFor(rest); unit != "" {
				return &types.Quantity{Amount: amount, Unit: unit}
			}
			continue
		}
		// Two-token form.
		amount, ok := parsePositiveInt(tok)
		if !ok || i+1 >= len(tokens) {
			continue
		}
		if unit := c.unitFor(tokens[i+1]); unit != "" {
			return &types.Quantity{Amount: amount, Unit: unit}
		}
	}
	return nil
}

// unitFor resolves a token to its canonical unit name, or "".
func (c *Classifier) unitFor(tok string) string {
	for _, up := range c.store.Units() {
		for _, alias := range up.Aliases {
			if tok == alias {
				return up.Unit
			}
		}
	}
	return ""
}

// extractProduct resolves the product and category mentioned in the tokens.
// Resolution order: lexicon scan (fixed category order) → phonetic rescue
// for speech-garbled names → preposition heuristic → unknown.
func (c *Classifier) extractProduct(tokens []string, pack *lexicon.LanguagePack) (product, category string) {
	products := pack.Products()

	// Lexicon scan in a fixed category order for determinism.
	for _, cat := range categoryOrder {
		for _, term := range products[cat] {
			for _, tok := range tokens {
				if productTokenMatches(tok, term) {
					return term, cat
				}
			}
		}
	}

	// Phonetic rescue: speech transcripts garble product names
	// ("bananaz", "tomatto"). Tokens that are ordinary trade vocabulary are
	// excluded — "price" is one edit from "rice" but never a garbled product
	// mention.
	candidates := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isVocabulary(tok, pack) {
			candidates = append(candidates, tok)
		}
	}
	if term, cat, ok := c.phonetic.match(candidates, products); ok {
		return term, cat
	}

	// Preposition heuristic: "price for X", "asking about X".
	for i, tok := range tokens {
		switch tok {
		case "for", "of", "about":
			if i+1 < len(tokens) {
				if next := tokens[i+1]; !isNumeric(next) && c.unitFor(next) == "" {
					return next, generalCategory
				}
			}
		}
	}
	return unknownProduct, generalCategory
}

// isVocabulary reports whether tok is a known lexicon word (intent keyword,
// currency/comparison/availability word, or interrogative) rather than a
// candidate product name.
func isVocabulary(tok string, pack *lexicon.LanguagePack) bool {
	for _, intent := range types.IntentOrder {
		for _, kw := range pack.Keywords(intent) {
			if tok == kw {
				return true
			}
		}
	}
	for _, words := range [][]string{
		pack.CurrencyWords(),
		pack.ComparisonWords(),
		pack.AvailabilityWords(),
		pack.Interrogatives(),
	} {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// categoryOrder fixes the product-scan order so classification stays
// deterministic regardless of map iteration.
var categoryOrder = []string{"vegetables", "fruits", "grains", "dairy", "meat", "cooking_staples"}

// confidence computes the final classifier confidence. Monotonic
// non-decreasing in matches for the winning category; capped at 0.95.
func confidence(best, total, matches int, product string) float64 {
	conf := baseConfidence
	if total > 0 {
		conf += ratioWeight * float64(best) / float64(total)
	}
	bonus := perMatchBonus * float64(matches)
	if bonus > maxMatchBonus {
		bonus = maxMatchBonus
	}
	conf += bonus
	if product != unknownProduct {
		conf += productBonus
	}
	if conf > confidenceCap {
		conf = confidenceCap
	}
	return conf
}

func parsePositiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			return 0, false
		}
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

// splitLeadingNumber splits "5kg" into (5, "kg"). Returns (0, "") when the
// token does not start with digits or is all digits.
func splitLeadingNumber(tok string) (int, string) {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 || i == len(tok) {
		return 0, ""
	}
	n, ok := parsePositiveInt(tok[:i])
	if !ok {
		return 0, ""
	}
	return n, tok[i:]
}

func isNumeric(s string) bool {
	_, ok := parsePositiveInt(s)
	return ok
}
