// Package negotiate implements the negotiation strategy engine: it combines
// a classified intent, a price quote, and behavioural signals read from the
// raw utterance into actionable [types.NegotiationGuidance] — counter-offer
// ladder, tactics, value propositions, accept/counter/decline guidance, and
// cultural context.
//
// The engine sits on the critical response path and therefore never lets an
// error escape: any internal fault degrades to a fixed low-confidence
// fallback payload tagged Fallback = true.
//
// The engine issues guidance in the abstract — it does not parse a concrete
// competing number out of the customer's free text. Decision thresholds are
// expressed against the quote's market price instead.
package negotiate

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/classify"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/lexicon"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

// Counter-offer ladder discounts, applied to the quote's premium (max)
// price. Each offer is clamped to the safe floor.
const (
	firstOfferCut  = 0.05
	secondOfferCut = 0.08
	finalOfferCut  = 0.12

	// safeFloorRatio bounds how far below market an offer may go when the
	// dataset minimum is even lower.
	safeFloorRatio = 0.80

	// acceptRatio: a customer position at or above this share of market
	// price should simply be accepted.
	acceptRatio = 0.95

	// fallbackConfidence is the fixed confidence of the degraded payload.
	fallbackConfidence = 0.25

	// bulkQtyThreshold: a detected quantity above this raises the
	// customer's inferred flexibility to high.
	bulkQtyThreshold = 5
)

// Level is a qualitative intensity for a behavioural signal.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Behavior summarises the signals read from the customer's utterance.
type Behavior struct {
	// PriceAwareness is high when the customer uses price/rate vocabulary.
	PriceAwareness Level

	// Urgency is high when urgency markers are present.
	Urgency Level

	// Flexibility estimates willingness to pay: budget words lower it,
	// quality words (or a bulk order) raise it.
	Flexibility Level
}

// Words signalling budget constraints and quality focus. These families are
// kept small and multilingual (Latin transliterations) since behaviour
// reading only needs a coarse signal.
var (
	lowFlexWords  = []string{"budget", "afford", "poor", "student", "saving", "kam paisa", "sasta"}
	highFlexWords = []string{"quality", "best", "premium", "finest", "fresh", "organic", "top"}
)

// Engine produces negotiation guidance. Immutable after construction and
// safe for concurrent use.
type Engine struct {
	store *lexicon.Store
}

// New creates an Engine that reads tone/price vocabulary from the given
// lexicon store.
func New(store *lexicon.Store) *Engine {
	return &Engine{store: store}
}

// Guide builds the full guidance payload. quote may be nil (no price data);
// the result then carries a single "check market price" placeholder offer.
// Guide never panics or errors — internal faults produce the fixed fallback
// payload.
func (e *Engine) Guide(intent types.ClassifiedIntent, quote *types.PriceQuote, originalText string) (g types.NegotiationGuidance) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("negotiate: internal fault, serving fallback guidance", "panic", r)
			g = FallbackGuidance(intent.Language)
		}
	}()

	behavior := e.ReadBehavior(intent, originalText)

	g = types.NegotiationGuidance{
		CounterOffers: counterOffers(quote),
		Tactics:       tactics(intent.Type, behavior),
		ValueProps:    valueProps(intent.Type, quote),
		Decision:      decisionGuide(quote),
		Cultural:      culturalContext(intent.Language, intent.Type),
		Confidence:    guidanceConfidence(intent, quote),
	}
	return g
}

// ReadBehavior scans the raw utterance for the three independent signal
// families. Exported for tests and for callers that want the behavioural
// read without full guidance.
func (e *Engine) ReadBehavior(intent types.ClassifiedIntent, originalText string) Behavior {
	pack := e.store.Pack(intent.Language)
	norm := classify.Normalize(originalText)

	b := Behavior{
		PriceAwareness: LevelMedium,
		Urgency:        LevelLow,
		Flexibility:    LevelMedium,
	}

	if containsAny(norm, pack.CurrencyWords()) || containsAny(norm, pack.ComparisonWords()) {
		b.PriceAwareness = LevelHigh
	}
	if containsAny(norm, pack.Markers(lexicon.MarkerUrgency)) {
		b.Urgency = LevelHigh
	}
	if containsAny(norm, lowFlexWords) {
		b.Flexibility = LevelLow
	}
	if containsAny(norm, highFlexWords) {
		b.Flexibility = LevelHigh
	}

	// A large order (or an explicit bulk intent) signals real purchasing
	// flexibility regardless of vocabulary.
	if intent.Type == types.IntentBulkPurchase ||
		(intent.Quantity != nil && intent.Quantity.Amount > bulkQtyThreshold) {
		b.Flexibility = LevelHigh
	}
	return b
}

// counterOffers builds the three-step ladder, or the single placeholder
// offer when no price data exists. Exactly one offer is recommended.
func counterOffers(quote *types.PriceQuote) []types.CounterOffer {
	if quote == nil {
		return []types.CounterOffer{{
			Level:       "check_market",
			Message:     "Let me check today's market price for you.",
			Reasoning:   []string{"no reliable price data for this item", "quoting blind risks selling below cost"},
			Recommended: true,
		}}
	}

	floor := safeFloor(quote)
	premium := quote.MaxPrice

	steps := []struct {
		level string
		cut   float64
		msg   string
	}{
		{"first_offer", firstOfferCut, "Start near the asking price with a token gesture."},
		{"second_offer", secondOfferCut, "Concede a little more if the customer pushes back."},
		{"final_offer", finalOfferCut, "Hold this line — it is the last profitable step."},
	}

	offers := make([]types.CounterOffer, 0, len(steps))
	for i, s := range steps {
		p := discounted(premium, s.cut)
		if p < floor {
			p = floor
		}
		price := p
		offers = append(offers, types.CounterOffer{
			Level:   s.level,
			Price:   &price,
			Message: s.msg,
			Reasoning: []string{
				fmt.Sprintf("%.0f%% below the premium price of ₹%d", s.cut*100, premium),
				fmt.Sprintf("stays above the safe floor of ₹%d", floor),
			},
			Recommended: i == 0,
		})
	}
	return offers
}

// tactics selects the primary table row for the intent and layers
// behaviour-driven secondary/avoid entries on top.
func tactics(intent types.IntentType, b Behavior) types.Tactics {
	t := types.Tactics{Primary: primaryTactics[intent]}

	if b.Urgency == LevelHigh {
		t.Secondary = append(t.Secondary, "acknowledge the urgency and offer to close quickly")
	}
	if b.PriceAwareness == LevelHigh {
		t.Secondary = append(t.Secondary, "justify the price with sourcing and freshness details")
	}
	switch b.Flexibility {
	case LevelLow:
		t.Secondary = append(t.Secondary, "emphasise value for money over premium options")
		t.Avoid = append(t.Avoid, "aggressive counter-offers", "upselling premium items")
	case LevelHigh:
		t.Secondary = append(t.Secondary, "offer premium quality or a loyalty sweetener")
		t.Avoid = append(t.Avoid, "leading with the deepest discount")
	default:
		t.Avoid = append(t.Avoid, "rushing the customer to a decision")
	}
	return t
}

// primaryTactics is the fixed per-intent tactics table.
var primaryTactics = map[types.IntentType][]string{
	types.IntentBargaining: {
		"anchor on the market price before conceding",
		"concede in small, slowing steps",
		"trade concessions for commitment (quantity, repeat custom)",
	},
	types.IntentBulkPurchase: {
		"lead with the bulk tier pricing",
		"confirm the exact quantity before quoting",
		"offer delivery or credit terms instead of deeper discounts",
	},
	types.IntentCasualInquiry: {
		"answer the question directly and warmly",
		"mention today's freshest stock",
		"invite the customer to inspect the produce",
	},
}

// valueProps returns non-price selling points matching the intent and the
// quote's flexibility.
func valueProps(intent types.IntentType, quote *types.PriceQuote) []types.ValueProp {
	props := []types.ValueProp{{
		Type:      "freshness",
		Message:   "Stock arrived fresh from the mandi this morning.",
		Reasoning: "freshness justifies holding close to market price",
	}}

	if intent == types.IntentBulkPurchase {
		props = append(props, types.ValueProp{
			Type:      "reliability",
			Message:   "Regular bulk buyers get first pick and assured supply.",
			Reasoning: "supply assurance is worth more than a per-kg discount to bulk buyers",
		})
	}
	if quote != nil && quote.Flexibility == types.FlexLow {
		props = append(props, types.ValueProp{
			Type:      "price_stability",
			Message:   "This is a staple — the price is steady, not inflated.",
			Reasoning: "low-flexibility staples have thin margins; explain rather than discount",
		})
	}
	return props
}

// decisionGuide derives the accept/counter/decline buckets from the quote.
// All three buckets are always present; with no quote the conditions are
// empty and only the reasoning explains the situation.
func decisionGuide(quote *types.PriceQuote) types.DecisionGuide {
	if quote == nil {
		return types.DecisionGuide{
			Accept:  types.DecisionBucket{Reasoning: "without price data, accept only offers you know beat your cost"},
			Counter: types.DecisionBucket{Reasoning: "defer countering until the market price is checked"},
			Decline: types.DecisionBucket{Reasoning: "decline politely if pressed to commit blind"},
		}
	}

	acceptAt := int(math.Ceil(float64(quote.MarketPrice) * acceptRatio))
	floor := safeFloor(quote)

	return types.DecisionGuide{
		Accept: types.DecisionBucket{
			Conditions: []string{fmt.Sprintf("customer position at or above ₹%d per %s", acceptAt, quote.Unit)},
			Reasoning:  "at 95% of market or better, close the sale — the margin is healthy",
		},
		Counter: types.DecisionBucket{
			Conditions: []string{fmt.Sprintf("customer position between ₹%d and ₹%d per %s", floor, acceptAt, quote.Unit)},
			Reasoning:  "below market but above the safe floor there is room to meet in the middle",
		},
		Decline: types.DecisionBucket{
			Conditions: []string{fmt.Sprintf("customer position below ₹%d per %s", floor, quote.Unit)},
			Reasoning:  "below the safe floor the sale loses money; decline politely and hold",
		},
	}
}

// safeFloor is the lowest defensible price: the dataset minimum, but never
// below 80% of market.
func safeFloor(quote *types.PriceQuote) int {
	floor := int(math.Round(float64(quote.MarketPrice) * safeFloorRatio))
	if quote.MinPrice > floor {
		floor = quote.MinPrice
	}
	if floor < 1 {
		floor = 1
	}
	return floor
}

// guidanceConfidence blends classifier and quote confidence.
func guidanceConfidence(intent types.ClassifiedIntent, quote *types.PriceQuote) float64 {
	if quote == nil {
		return 0.5 * intent.Confidence
	}
	return 0.5*intent.Confidence + 0.5*quote.Confidence
}

// FallbackGuidance is the fixed degraded payload served when guidance
// computation faults. It still satisfies the guidance invariants: non-empty
// primary tactics, exactly one recommended offer, all decision buckets.
func FallbackGuidance(language string) types.NegotiationGuidance {
	return types.NegotiationGuidance{
		CounterOffers: []types.CounterOffer{{
			Level:       "check_market",
			Message:     "Let me check the market price before we talk numbers.",
			Reasoning:   []string{"guidance engine degraded; quoting blind is unsafe"},
			Recommended: true,
		}},
		Tactics: types.Tactics{
			Primary: []string{"stay friendly and gather information"},
			Avoid:   []string{"committing to a price"},
		},
		Decision: types.DecisionGuide{
			Accept:  types.DecisionBucket{Reasoning: "accept only offers you know beat your cost"},
			Counter: types.DecisionBucket{Reasoning: "defer countering until price data is available"},
			Decline: types.DecisionBucket{Reasoning: "decline politely if pressed"},
		},
		Cultural:   culturalContext(language, types.IntentCasualInquiry),
		Confidence: fallbackConfidence,
		Fallback:   true,
	}
}

func discounted(price int, cut float64) int {
	p := int(math.Round(float64(price) * (1 - cut)))
	if p < 1 {
		p = 1
	}
	return p
}

func containsAny(norm string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(norm, w) {
			return true
		}
	}
	return false
}
