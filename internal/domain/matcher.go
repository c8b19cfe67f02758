package domain

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"

	m "parity.dev/pkg/parity/internal/model"
)

// MatchThreshold is the partial ratio a name or description must exceed.
const MatchThreshold = 80

// PartialRatio scores how well the shorter string matches its best-aligned
// window of the longer one, from 0 to 100.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	if len(short) == 0 {
		return 0
	}

	needle := string(short)
	best := 0

	for i := 0; i+len(short) <= len(long); i++ {
		d := levenshtein.ComputeDistance(needle, string(long[i:i+len(short)]))
		score := int(math.Round(100 * (1 - float64(d)/float64(len(short)))))

		if score > best {
			best = score
		}

		if best == 100 {
			break
		}
	}

	return best
}

// MatchCase reports whether query selects c by name or description.
func MatchCase(query string, c m.Case) bool {
	q := strings.ToLower(query)
	if q == "" {
		return false
	}

	return PartialRatio(strings.ToLower(c.Name), q) > MatchThreshold ||
		PartialRatio(strings.ToLower(c.Description), q) > MatchThreshold
}

// FilterCatalog keeps the cases selected by query, in catalog order.
func FilterCatalog(catalog m.Catalog, query string) m.Catalog {
	return catalog.Filter(func(c m.Case) bool {
		return MatchCase(query, c)
	})
}
