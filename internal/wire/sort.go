package wire

import (
	"slices"
	"strings"
	"time"
)

// dateLayouts are the forms seen in start_date/end_date, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"01/2006",
	"2006",
}

// parseDate returns the zero time for empty or unrecognised input, which
// sorts after every real date in descending order.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// datedKey extracts what the ordering needs from one item.
type datedKey struct {
	current    bool
	start, end string
}

// sortDated orders items current-first, then by end date (or start date when
// there is no end date) newest first. Ties keep their input order.
func sortDated[T any](items []T, key func(*T) datedKey) {
	slices.SortStableFunc(items, func(a, b T) int {
		ka, kb := key(&a), key(&b)
		if ka.current != kb.current {
			if ka.current {
				return -1
			}
			return 1
		}
		return parseDate(kb.sortDate()).Compare(parseDate(ka.sortDate()))
	})
}

func (k datedKey) sortDate() string {
	if strings.TrimSpace(k.end) != "" {
		return k.end
	}
	return k.start
}
