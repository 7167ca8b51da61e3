// Package navigation classifies and orders sidebar navigation entries.
//
// Every function in this package is pure: inputs are never modified, malformed
// fields are normalized to safe defaults, and nothing returns an error.
package navigation

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"navd/internal/model"
)

// collate.Collator keeps internal buffers and must not be shared between goroutines.
var collators = sync.Pool{
	New: func() any { return collate.New(language.Russian) },
}

func acquireCollator() *collate.Collator {
	return collators.Get().(*collate.Collator)
}

func releaseCollator(c *collate.Collator) {
	collators.Put(c)
}

// CompareLabels compares two display labels using Russian collation.
func CompareLabels(a, b string) int {
	c := acquireCollator()
	defer releaseCollator(c)
	return c.CompareString(a, b)
}

// Compare orders two items by section order, then position, then label.
// It returns -1, 0 or 1. A missing or NaN section order means "no preference"
// and sorts after every explicit value, including an explicit zero.
func Compare(a, b model.NavigationItem) int {
	c := acquireCollator()
	defer releaseCollator(c)
	return compareWith(c, a, b)
}

func compareWith(coll *collate.Collator, a, b model.NavigationItem) int {
	if c := compareSectionOrder(a.SectionOrder, b.SectionOrder); c != 0 {
		return c
	}
	if c := cmp.Compare(positionValue(a.Position), positionValue(b.Position)); c != 0 {
		return c
	}
	return coll.CompareString(a.Label, b.Label)
}

func compareSectionOrder(a, b *float64) int {
	aok, bok := hasValue(a), hasValue(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return cmp.Compare(*a, *b)
}

func hasValue(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}

func positionValue(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// SortItems returns a stably sorted copy of items. Items that compare equal
// keep their input order.
func SortItems(items []model.NavigationItem) []model.NavigationItem {
	sorted := slices.Clone(items)
	sortInPlace(sorted)
	return sorted
}

func sortInPlace(items []model.NavigationItem) {
	c := acquireCollator()
	defer releaseCollator(c)
	slices.SortStableFunc(items, func(a, b model.NavigationItem) int {
		return compareWith(c, a, b)
	})
}
