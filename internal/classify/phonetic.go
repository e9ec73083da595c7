package classify

import (
	"github.com/antzucaro/matchr"
)

// Speech transcripts regularly mangle product names ("tomatto", "bananaz",
// "bazmathi"). The product matcher recovers the intended dataset term using
// Double Metaphone phonetic codes filtered by Jaro-Winkler similarity:
// a token is a candidate when its phonetic code overlaps a product term's
// code and the string similarity clears the phonetic threshold. When no
// phonetic candidate exists, a stricter pure Jaro-Winkler pass is tried.
const (
	phoneticThreshold = 0.70
	fuzzyThreshold    = 0.85

	// minTokenRunes is the shortest token worth phonetic analysis; shorter
	// tokens produce degenerate metaphone codes.
	minTokenRunes = 4
)

type productMatcher struct{}

func newProductMatcher() *productMatcher {
	return &productMatcher{}
}

// match scans tokens against every product term and returns the best-scoring
// term with its category. The boolean is false when nothing clears the
// thresholds.
func (m *productMatcher) match(tokens []string, products map[string][]string) (term, category string, ok bool) {
	type candidate struct {
		term     string
		category string
		score    float64
		phonetic bool
	}
	var best candidate

	for _, tok := range tokens {
		if len([]rune(tok)) < minTokenRunes {
			continue
		}
		tokPrimary, tokSecondary := matchr.DoubleMetaphone(tok)

		for _, cat := range categoryOrder {
			for _, t := range products[cat] {
				if len([]rune(t)) < minTokenRunes {
					continue
				}
				score := matchr.JaroWinkler(tok, t, false)
				termPrimary, termSecondary := matchr.DoubleMetaphone(t)
				phonetic := codesOverlap(tokPrimary, tokSecondary, termPrimary, termSecondary)

				switch {
				case phonetic && score >= phoneticThreshold:
					if !best.phonetic || score > best.score {
						best = candidate{term: t, category: cat, score: score, phonetic: true}
					}
				case !best.phonetic && score >= fuzzyThreshold && score > best.score:
					best = candidate{term: t, category: cat, score: score}
				}
			}
		}
	}

	if best.term == "" {
		return "", "", false
	}
	return best.term, best.category, true
}

// codesOverlap reports whether any non-empty metaphone code is shared
// between the two code pairs. Non-Latin scripts produce empty codes and
// never overlap, so phonetic rescue is effectively Latin-only.
func codesOverlap(aPrimary, aSecondary, bPrimary, bSecondary string) bool {
	for _, a := range []string{aPrimary, aSecondary} {
		if a == "" {
			continue
		}
		if a == bPrimary || (bSecondary != "" && a == bSecondary) {
			return true
		}
	}
	return false
}
