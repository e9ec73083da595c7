package price

import (
	"fmt"
	"hash/fnv"
	"slices"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/types"
)

// Market-trend labels attached to seasonal context. The label is flavour
// text only; no price field depends on it.
var trendLabels = []string{"stable", "rising", "falling"}

// seasonalContext derives the informational seasonal/market context for a
// product. The trend label is a pure function of (trendSeed, product, month)
// so that identical requests produce identical quotes; callers wanting
// varying flavour can rotate the seed.
func (e *Engine) seasonalContext(product, category string) *types.SeasonalContext {
	month := int(e.now().Month())

	factor := 1.0
	note := "regular season pricing"
	if s, ok := e.seasons[category]; ok {
		switch {
		case slices.Contains(s.PeakMonths, month):
			factor = s.PeakFactor
			note = "peak season — supply is plentiful, prices soften"
		case slices.Contains(s.OffMonths, month):
			factor = s.OffFactor
			note = "off season — supply is tight, prices firm up"
		}
	}

	return &types.SeasonalContext{
		Factor: factor,
		Note:   note,
		Trend:  e.trendFor(product, month),
	}
}

// trendFor hashes (seed, product, month) into one of the trend labels.
func (e *Engine) trendFor(product string, month int) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%d", e.trendSeed, product, month)
	return trendLabels[h.Sum64()%uint64(len(trendLabels))]
}
