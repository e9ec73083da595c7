package translate_test

import (
	"testing"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/lexicon"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/internal/translate"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

func newTranslator(t *testing.T) *translate.Translator {
	t.Helper()
	store, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	tr, err := translate.New(store)
	if err != nil {
		t.Fatalf("load translator: %v", err)
	}
	return tr
}

func TestTranslate_IdentityWhenLanguagesEqual(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	const text = "What is the price of rice?"
	if got := tr.Translate(text, "english", "english", types.IntentBargaining); got != text {
		t.Errorf("Translate = %q, want input unchanged", got)
	}
	if got := tr.Translate(text, "English ", "english", ""); got != text {
		t.Errorf("Translate should normalise language tags, got %q", got)
	}
}

func TestTranslate_TemplatePath(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	tests := []struct {
		name           string
		text, from, to string
		hint           types.IntentType
		want           string
	}{
		{
			name: "price question to hindi",
			text: "What is the price of rice?", from: "english", to: "hindi",
			hint: types.IntentBargaining,
			want: "rice ka kya daam hai",
		},
		{
			name: "price question to kannada",
			text: "what is the price of tomato", from: "english", to: "kannada",
			hint: types.IntentBargaining,
			want: "tomato bele eshtu",
		},
		{
			name: "bulk ask carries quantity",
			text: "I want 5 kg rice", from: "english", to: "hindi",
			hint: types.IntentBulkPurchase,
			want: "mujhe 5 kilo rice chahiye",
		},
		{
			name: "hindi to english",
			text: "tamatar ka kya daam hai", from: "hindi", to: "english",
			hint: types.IntentBargaining,
			want: "what is the price of tamatar",
		},
		{
			name: "availability check to hindi",
			text: "do you have tomato", from: "english", to: "hindi",
			hint: types.IntentCasualInquiry,
			want: "kya aapke paas tomato hai",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tr.Translate(tc.text, tc.from, tc.to, tc.hint); got != tc.want {
				t.Errorf("Translate(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestTranslate_DictionaryPath(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	// No template matches free-form text; known trade terms are still
	// substituted token by token.
	got := tr.Translate("fresh tomato", "english", "hindi", "")
	if got != "taaza tamatar" {
		t.Errorf("Translate = %q, want %q", got, "taaza tamatar")
	}

	got = tr.Translate("rice sugar oil", "english", "kannada", "")
	if got != "akki sakkare enne" {
		t.Errorf("Translate = %q, want %q", got, "akki sakkare enne")
	}
}

func TestTranslate_ToneMirroring(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	got := tr.Translate("please reduce the price of rice", "english", "hindi", types.IntentBargaining)
	want := "kripya, rice ka daam kam karo"
	if got != want {
		t.Errorf("Translate = %q, want politeness marker mirrored: %q", got, want)
	}
}

func TestTranslate_PassThroughWhenNoRuleApplies(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	const text = "the weather is wonderful here"
	if got := tr.Translate(text, "english", "hindi", types.IntentCasualInquiry); got != text {
		t.Errorf("Translate = %q, want pass-through of the original", got)
	}
}

func TestTranslate_EmptyInput(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	if got := tr.Translate("", "english", "hindi", types.IntentBargaining); got != "" {
		t.Errorf("Translate(\"\") = %q, want empty", got)
	}
	if got := tr.Translate("   ", "english", "hindi", ""); got != "   " {
		t.Errorf("Translate(blank) = %q, want input unchanged", got)
	}
}

func TestTranslate_UnknownLanguagePassesThrough(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	const text = "what is the price of rice"
	if got := tr.Translate(text, "english", "german", types.IntentBargaining); got != text {
		t.Errorf("Translate to unsupported language = %q, want pass-through", got)
	}
}

func TestTranslate_Deterministic(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	first := tr.Translate("cheap tomato price today", "english", "kannada", "")
	for i := 0; i < 10; i++ {
		if again := tr.Translate("cheap tomato price today", "english", "kannada", ""); again != first {
			t.Fatalf("run %d differs: %q vs %q", i, again, first)
		}
	}
}

func TestLanguages(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)
	if got := tr.Languages(); got != 3 {
		t.Errorf("Languages() = %d, want 3", got)
	}
}
