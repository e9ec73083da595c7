package classify_test

import (
	"testing"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/classify"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/lexicon"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

func newClassifier(t *testing.T) *classify.Classifier {
	t.Helper()
	store, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	return classify.New(store)
}

func TestClassify_BulkRicePurchase(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	got := c.Classify("What is the price of 5 kg rice?", "english")

	if got.Type != types.IntentBulkPurchase {
		t.Errorf("Type = %q, want %q", got.Type, types.IntentBulkPurchase)
	}
	if got.Product != "rice" {
		t.Errorf("Product = %q, want %q", got.Product, "rice")
	}
	if got.Category != "grains" {
		t.Errorf("Category = %q, want %q", got.Category, "grains")
	}
	if got.Quantity == nil {
		t.Fatal("Quantity = nil, want 5 kg")
	}
	if got.Quantity.Amount != 5 || got.Quantity.Unit != "kg" {
		t.Errorf("Quantity = %+v, want {5 kg}", *got.Quantity)
	}
	if got.Confidence < 0.5 {
		t.Errorf("Confidence = %.2f, want >= 0.5", got.Confidence)
	}
}

func TestClassify_FreshTomatoInquiry(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	got := c.Classify("Do you have fresh tomatoes?", "english")

	if got.Type != types.IntentCasualInquiry {
		t.Errorf("Type = %q, want %q", got.Type, types.IntentCasualInquiry)
	}
	if got.Product != "tomato" {
		t.Errorf("Product = %q, want %q", got.Product, "tomato")
	}
	if got.Category != "vegetables" {
		t.Errorf("Category = %q, want %q", got.Category, "vegetables")
	}
	if got.Quantity != nil {
		t.Errorf("Quantity = %+v, want nil", *got.Quantity)
	}
	if got.Confidence < 0.8 {
		t.Errorf("Confidence = %.2f, want >= 0.8 for a strongly matched inquiry", got.Confidence)
	}
}

func TestClassify_UnknownProductDefaults(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	got := c.Classify("zorblax", "english")

	if got.Type != types.IntentCasualInquiry {
		t.Errorf("Type = %q, want default %q", got.Type, types.IntentCasualInquiry)
	}
	if got.Product != "unknown" {
		t.Errorf("Product = %q, want %q", got.Product, "unknown")
	}
	if got.Category != "general" {
		t.Errorf("Category = %q, want %q", got.Category, "general")
	}
	if got.Confidence > 0.5 {
		t.Errorf("Confidence = %.2f, want <= 0.5 for unmatched input", got.Confidence)
	}
}

func TestClassify_TotalOnDegenerateInput(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	inputs := []string{
		"",
		"   ",
		"?!?!...",
		"1234567890",
		"a b c d e f g",
	}
	for _, in := range inputs {
		got := c.Classify(in, "english")
		if !got.Type.IsValid() {
			t.Errorf("Classify(%q).Type = %q, not a valid intent", in, got.Type)
		}
		if got.Confidence <= 0 || got.Confidence > 0.95 {
			t.Errorf("Classify(%q).Confidence = %.2f, out of (0, 0.95]", in, got.Confidence)
		}
		if got.Product == "" || got.Category == "" {
			t.Errorf("Classify(%q) = product %q category %q, want non-empty", in, got.Product, got.Category)
		}
	}
}

func TestClassify_TieBreakPrefersBargaining(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	// "discount" scores 1 for bargaining, "bulk" scores 1 for bulk_purchase,
	// no boosts apply: an exact tie resolved by the fixed order.
	got := c.Classify("discount bulk", "english")
	if got.Type != types.IntentBargaining {
		t.Errorf("Type = %q, want %q on score tie", got.Type, types.IntentBargaining)
	}
}

func TestClassify_QuantityForms(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	tests := []struct {
		text   string
		amount int
		unit   string
	}{
		{"give me 5 kg rice", 5, "kg"},
		{"give me 5kg rice", 5, "kg"},
		{"2 dozen bananas please", 2, "dozen"},
		{"need 10 sacks of wheat", 10, "bag"},
		{"3 litres of milk", 3, "liter"},
		{"250 grams paneer", 250, "gram"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.text, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(tc.text, "english")
			if got.Quantity == nil {
				t.Fatalf("Quantity = nil, want {%d %s}", tc.amount, tc.unit)
			}
			if got.Quantity.Amount != tc.amount || got.Quantity.Unit != tc.unit {
				t.Errorf("Quantity = %+v, want {%d %s}", *got.Quantity, tc.amount, tc.unit)
			}
		})
	}
}

func TestClassify_NoQuantityWithoutUnit(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	got := c.Classify("I want 5 tomatoes", "english")
	if got.Quantity != nil {
		t.Errorf("Quantity = %+v, want nil for a bare count", *got.Quantity)
	}
}

func TestClassify_PhoneticProductRescue(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	// Speech transcript garbling: no substring match, phonetic code and
	// string similarity still identify the product.
	got := c.Classify("how much for tomatto", "english")
	if got.Product != "tomato" {
		t.Errorf("Product = %q, want phonetic rescue to %q", got.Product, "tomato")
	}
	if got.Category != "vegetables" {
		t.Errorf("Category = %q, want %q", got.Category, "vegetables")
	}
}

func TestClassify_PrepositionHeuristic(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	got := c.Classify("what is the price for dragonfruit", "english")
	if got.Product != "dragonfruit" {
		t.Errorf("Product = %q, want preposition heuristic to pick %q", got.Product, "dragonfruit")
	}
	if got.Category != "general" {
		t.Errorf("Category = %q, want %q", got.Category, "general")
	}
}

func TestClassify_VocabularyWordsAreNotProducts(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	// "price" contains "rice" as a substring and sits one edit away from it,
	// but a price question without a product must not resolve to rice.
	tests := []string{
		"what is the price",
		"price please",
		"cheapest rate today",
	}
	for _, text := range tests {
		text := text
		t.Run(text, func(t *testing.T) {
			t.Parallel()
			got := c.Classify(text, "english")
			if got.Product != "unknown" {
				t.Errorf("Product = %q, want %q", got.Product, "unknown")
			}
			if got.Category != "general" {
				t.Errorf("Category = %q, want %q", got.Category, "general")
			}
		})
	}

	// Plural and inflected product forms still resolve through the stricter
	// prefix rule.
	got := c.Classify("price of tomatoes", "english")
	if got.Product != "tomato" || got.Category != "vegetables" {
		t.Errorf("product/category = %s/%s, want tomato/vegetables", got.Product, got.Category)
	}
}

func TestClassify_HindiBargaining(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	got := c.Classify("bahut mehenga hai", "hindi")
	if got.Type != types.IntentBargaining {
		t.Errorf("Type = %q, want %q", got.Type, types.IntentBargaining)
	}
	if got.Language != "hindi" {
		t.Errorf("Language = %q, want %q", got.Language, "hindi")
	}
}

func TestClassify_KannadaPriceQuestion(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	got := c.Classify("tomato bele eshtu", "kannada")
	if got.Type != types.IntentBargaining {
		t.Errorf("Type = %q, want %q", got.Type, types.IntentBargaining)
	}
	if got.Product != "tomato" {
		t.Errorf("Product = %q, want %q", got.Product, "tomato")
	}
	if got.Category != "vegetables" {
		t.Errorf("Category = %q, want %q", got.Category, "vegetables")
	}
}

func TestClassify_UnsupportedLanguageUsesEnglishTables(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	got := c.Classify("give discount on rice", "german")
	if got.Type != types.IntentBargaining {
		t.Errorf("Type = %q, want %q via english fallback tables", got.Type, types.IntentBargaining)
	}
	if got.Language != "german" {
		t.Errorf("Language = %q, want the requested tag preserved", got.Language)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	const text = "What is the price of 5 kg rice?"
	first := c.Classify(text, "english")
	for i := 0; i < 10; i++ {
		again := c.Classify(text, "english")
		if again.Type != first.Type || again.Confidence != first.Confidence ||
			again.Product != first.Product || again.Category != first.Category {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestClassify_ConfidenceMonotonicInEvidence(t *testing.T) {
	t.Parallel()
	c := newClassifier(t)

	weak := c.Classify("price", "english")
	strong := c.Classify("price discount cheap", "english")
	if strong.Confidence < weak.Confidence {
		t.Errorf("confidence fell with more evidence: %.2f -> %.2f", weak.Confidence, strong.Confidence)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"What is the PRICE?", "what is the price"},
		{"  rice,  5kg!  ", "rice 5kg"},
		{"", ""},
		{"क्या आपके पास टमाटर है?", "क्या आपके पास टमाटर है"},
	}
	for _, tc := range tests {
		if got := classify.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
