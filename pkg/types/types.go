// Package types defines the shared data structures used across all
// linguabridge packages.
//
// These types form the lingua franca between the classifier, price engine,
// negotiation engine, and synthesizer. Each package defines its own internal
// helpers, but every structure that crosses a stage boundary lives here to
// avoid circular imports.
//
// All structures are owned exclusively by the request that created them:
// constructed once, never mutated, discarded when the response has been
// delivered. The only cross-request data in the system is the immutable
// lexicon/price/template tables loaded at startup.
package types

// IntentType is the classified purpose of a customer utterance.
type IntentType string

// Intent categories in their fixed declaration order. The declaration order
// is also the documented tie-break order for intent scoring: on an exact
// score tie, the earlier category wins.
const (
	IntentBargaining    IntentType = "bargaining"
	IntentBulkPurchase  IntentType = "bulk_purchase"
	IntentCasualInquiry IntentType = "casual_inquiry"
)

// IntentOrder lists all intent types in tie-break order.
var IntentOrder = []IntentType{IntentBargaining, IntentBulkPurchase, IntentCasualInquiry}

// IsValid reports whether t is a recognised intent type.
func (t IntentType) IsValid() bool {
	switch t {
	case IntentBargaining, IntentBulkPurchase, IntentCasualInquiry:
		return true
	}
	return false
}

// Quantity is a parsed amount + unit pair extracted from an utterance
// (e.g., "5 kg" → {Amount: 5, Unit: "kg"}).
type Quantity struct {
	// Amount is the numeric quantity. Always > 0 when a Quantity is present.
	Amount int

	// Unit is the normalised unit name (kg, gram, liter, piece, dozen, box, bag).
	Unit string
}

// ClassifiedIntent is the output of the intent classifier for a single
// utterance. It is derived deterministically from the utterance text and
// language; classifying the same input twice yields an identical result.
type ClassifiedIntent struct {
	// Type is the winning intent category. Never empty — when no keyword
	// matches at all, the classifier defaults to [IntentCasualInquiry].
	Type IntentType

	// Confidence is the classifier's confidence in [0, 1]. Monotonic
	// non-decreasing in the number of matched keywords/phrases for the
	// winning category (phrase matches weigh twice a keyword hit).
	Confidence float64

	// MatchedKeywords lists the lexicon entries that contributed to the
	// winning category's score, in match order.
	MatchedKeywords []string

	// Product is the detected product name, or "unknown".
	Product string

	// Category is the detected product category, or "general".
	Category string

	// Quantity is the parsed quantity, or nil when none was found.
	Quantity *Quantity

	// Language is the language tag the utterance was classified under.
	Language string
}

// QuoteSource indicates which rung of the price-resolution ladder produced
// a quote. Sources degrade from exact_match down to fallback_estimate as
// lookup confidence decreases.
type QuoteSource string

const (
	// SourceExactMatch means the product key matched the dataset exactly.
	SourceExactMatch QuoteSource = "exact_match"

	// SourceFuzzyMatch means a bidirectional substring match resolved the product.
	SourceFuzzyMatch QuoteSource = "fuzzy_match"

	// SourcePhoneticMatch means phonetic/Jaro-Winkler similarity resolved a
	// product name the substring pass missed (common with speech transcripts).
	SourcePhoneticMatch QuoteSource = "phonetic_match"

	// SourceCategoryDefault means the quote was built from the per-category
	// default price table.
	SourceCategoryDefault QuoteSource = "category_default"

	// SourceFallbackEstimate means neither product nor category was
	// recognised and the general bucket was used.
	SourceFallbackEstimate QuoteSource = "fallback_estimate"
)

// Flexibility is the qualitative tolerance for price movement of a product
// category. Perishables tolerate more movement than storable staples.
type Flexibility string

const (
	FlexHigh     Flexibility = "high"
	FlexModerate Flexibility = "moderate"
	FlexLow      Flexibility = "low"
)

// BulkTier describes one bulk-discount breakpoint of a quote.
type BulkTier struct {
	// ThresholdQty is the minimum quantity at which this tier applies.
	ThresholdQty int

	// DiscountRatio is the fractional discount (0.05 = 5% off).
	DiscountRatio float64

	// TierPrice is the per-unit price after the discount, in whole rupees.
	TierPrice int
}

// SeasonalContext carries informational seasonal/market metadata attached to
// a quote. It never mutates the canonical MarketPrice.
type SeasonalContext struct {
	// Factor is the seasonal price multiplier for the current month
	// (peak season < 1.0, off season > 1.0).
	Factor float64

	// Note is a short human-readable seasonality remark.
	Note string

	// Trend is a market-direction label (rising, stable, falling). Produced
	// by a separately seeded subcomponent so the rest of the pipeline stays
	// deterministic.
	Trend string
}

// PriceQuote is a resolved price range plus negotiation metadata for a
// product or category. A quote is never absent: the resolution ladder always
// terminates in the general fallback bucket.
type PriceQuote struct {
	// Product is the resolved dataset product key, or the original query
	// when resolution fell through to a category/general default.
	Product string

	// Category is the resolved product category ("general" when unknown).
	Category string

	// MarketPrice is the typical per-unit price in whole rupees.
	MarketPrice int

	// MinPrice and MaxPrice bound the negotiable range.
	// Invariant: 0 < MinPrice ≤ MarketPrice ≤ MaxPrice.
	MinPrice int
	MaxPrice int

	// Unit is the pricing unit (kg, liter, dozen, piece).
	Unit string

	// BulkTiers lists discount breakpoints in ascending threshold order.
	BulkTiers []BulkTier

	// Flexibility is the per-category negotiation tolerance.
	Flexibility Flexibility

	// Confidence reflects how reliable the resolution was, in [0, 1].
	Confidence float64

	// Source names the ladder rung that produced this quote.
	Source QuoteSource

	// Seasonal is optional seasonal/market context. Nil when the engine is
	// configured without seasonal adjustment.
	Seasonal *SeasonalContext
}

// CounterOffer is one step of the progressive counter-offer ladder.
type CounterOffer struct {
	// Level labels the ladder step (first_offer, second_offer, final_offer,
	// or check_market when no price data exists).
	Level string

	// Price is the suggested per-unit counter price, or nil for the
	// no-price placeholder offer.
	Price *int

	// Message is vendor-facing phrasing for presenting the offer.
	Message string

	// Reasoning explains why this offer is sensible.
	Reasoning []string

	// Recommended marks the single offer the engine suggests leading with.
	// Exactly one offer in a guidance payload carries Recommended = true.
	Recommended bool
}

// Tactics groups negotiation tactics by applicability.
type Tactics struct {
	// Primary tactics should drive the conversation.
	Primary []string

	// Secondary tactics support the primary ones.
	Secondary []string

	// Avoid lists tactics that would backfire for this customer.
	Avoid []string
}

// ValueProp is a non-price selling point the vendor can offer instead of a
// deeper discount.
type ValueProp struct {
	Type      string
	Message   string
	Reasoning string
}

// DecisionBucket carries the conditions and reasoning for one of the three
// accept/counter/decline outcomes.
type DecisionBucket struct {
	Conditions []string
	Reasoning  string
}

// DecisionGuide holds all three decision buckets. All three are always
// present, possibly with empty condition lists.
type DecisionGuide struct {
	Accept  DecisionBucket
	Counter DecisionBucket
	Decline DecisionBucket
}

// CulturalContext describes customary trade behaviour for the customer's
// language/region.
type CulturalContext struct {
	// Customary lists 2–4 short customary-behaviour notes.
	Customary []string

	// CommunicationStyle is a fixed per-language style tag
	// (e.g., "respectful_and_patient").
	CommunicationStyle string
}

// NegotiationGuidance is the full advisory payload produced by the
// negotiation strategy engine.
type NegotiationGuidance struct {
	CounterOffers []CounterOffer
	Tactics       Tactics
	ValueProps    []ValueProp
	Decision      DecisionGuide
	Cultural      CulturalContext

	// Confidence is the engine's confidence in [0, 1]. Degrades to a fixed
	// low value on the fallback path.
	Confidence float64

	// Fallback is true when the payload was produced by the fixed fallback
	// path rather than real analysis.
	Fallback bool
}

// LocalizedResponse is the finished, display-ready message for the vendor.
type LocalizedResponse struct {
	// Text is the rendered message. Length never exceeds the configured
	// display cap; over-long renders are truncated at a sentence boundary.
	Text string

	// Language is the language the text was rendered in.
	Language string

	// Actionable is true when the response contains concrete negotiation
	// guidance (as opposed to a generic fallback message).
	Actionable bool

	// Fallback is true when a degraded path produced this response.
	Fallback bool
}
