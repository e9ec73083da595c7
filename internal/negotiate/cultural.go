package negotiate

import (
	"strings"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

// culturalEntry holds the fixed per-language cultural baseline.
type culturalEntry struct {
	style     string
	customary []string
}

var culturalTable = map[string]culturalEntry{
	"english": {
		style: "warm_and_direct",
		customary: []string{
			"a little friendly haggling is normal at the market",
			"quality inspection before buying is expected",
		},
	},
	"hindi": {
		style: "respectful_and_patient",
		customary: []string{
			"bargaining is expected and part of the relationship",
			"address regulars warmly — repeat custom matters more than one sale",
			"offering a small extra (free coriander, an extra chilli) builds goodwill",
		},
	},
	"kannada": {
		style: "courteous_and_measured",
		customary: []string{
			"polite, measured bargaining is customary",
			"regular customers expect a loyal-customer rate",
		},
	},
}

// defaultCultural is served for unsupported languages.
var defaultCultural = culturalEntry{
	style: "polite_and_neutral",
	customary: []string{
		"stay polite and transparent about pricing",
		"light bargaining is generally acceptable",
	},
}

// culturalContext returns the per-language baseline adjusted by intent:
// bargaining notes the haggling custom, bulk orders get business framing,
// inquiries get informational framing.
func culturalContext(language string, intent types.IntentType) types.CulturalContext {
	entry, ok := culturalTable[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		entry = defaultCultural
	}

	customary := make([]string, 0, len(entry.customary)+1)
	customary = append(customary, entry.customary...)

	switch intent {
	case types.IntentBargaining:
		customary = append(customary, "expect a couple of rounds of back-and-forth before settling")
	case types.IntentBulkPurchase:
		customary = append(customary, "bulk buyers appreciate businesslike, numbers-first talk")
	case types.IntentCasualInquiry:
		customary = append(customary, "an informative, no-pressure answer earns trust")
	}

	return types.CulturalContext{
		Customary:          customary,
		CommunicationStyle: entry.style,
	}
}
