package reconciler

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"

	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// SortValue returns the value loc is ordered by under key, and false when
// the value is undefined (no offered price for the key).
func SortValue(loc *locations.Location, key SortKey) (float64, bool) {
	switch key {
	case SortPrice5mg:
		return loc.Price5mg.Amount()
	case SortPrice10mg:
		return loc.Price10mg.Amount()
	default:
		return loc.MinPrice()
	}
}

type sortEntry struct {
	loc     locations.Location
	value   float64
	defined bool
}

// sortLocations orders locs in place. Defined values come first in either
// direction, then names under the collator break ties. The sort is stable.
func sortLocations(locs []locations.Location, key SortKey, dir Direction, col *collate.Collator) {
	entries := make([]sortEntry, len(locs))
	for i := range locs {
		v, ok := SortValue(&locs[i], key)
		entries[i] = sortEntry{loc: locs[i], value: v, defined: ok}
	}

	slices.SortStableFunc(entries, func(a, b sortEntry) int {
		switch {
		case !a.defined && !b.defined:
			return 0
		case !a.defined:
			return 1
		case !b.defined:
			return -1
		}
		if c := cmp.Compare(a.value, b.value); c != 0 {
			if dir == Desc {
				return -c
			}
			return c
		}
		return col.CompareString(a.loc.Name, b.loc.Name)
	})

	for i := range entries {
		locs[i] = entries[i].loc
	}
}
