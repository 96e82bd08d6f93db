// Package reporting groups already-fetched expense and fuel records into the
// aggregate views served by the stats endpoints. Everything here is a pure,
// stateless transformation over an input batch: callers pass in records that
// persistence has already loaded and filtered by ownership, and get back
// freshly built report values. Nothing is cached or mutated in place, so
// concurrent report requests never interfere.
package reporting

import (
	"sort"

	"bilancio/internal/core"
)

// Placeholder labels for records whose grouping key is missing. One stable
// label per entity type, matching what the views display.
const (
	UncategorizedLabel = "Non categorizzato"
	NoStoreLabel       = "Non specificato"
	NoWeekLabel        = "Settimana sconosciuta"
)

// GroupStat is one aggregate bucket: the grouping label, the summed amount,
// how many records fell into the bucket and their average amount in cents.
// Ephemeral: built per request and discarded.
type GroupStat struct {
	Label   string
	Total   core.Money
	Count   int
	Average float64
}

// Aggregate groups records by the label keyFn extracts and reduces each group
// to total/count/average of the amounts valueFn extracts. Records with an
// empty key are never dropped: they land in a single group under the given
// placeholder label.
//
// The result is ordered by descending total; ties keep the first-seen order
// of the keys (sort.SliceStable, since Go's plain sort is not stable). A
// positive limit truncates the list after sorting, so it only affects which
// groups are returned, never their computed values. Empty input yields an
// empty result.
func Aggregate[T any](records []T, keyFn func(T) string, valueFn func(T) core.Money, placeholder string, limit int) []GroupStat {
	totals := make(map[string]*GroupStat)
	order := make([]string, 0, len(records))

	for _, r := range records {
		key := keyFn(r)
		if key == "" {
			key = placeholder
		}
		g, ok := totals[key]
		if !ok {
			g = &GroupStat{Label: key}
			totals[key] = g
			order = append(order, key)
		}
		g.Total.Cents += valueFn(r).Cents
		g.Count++
	}

	out := make([]GroupStat, 0, len(order))
	for _, key := range order {
		g := totals[key]
		g.Average = float64(g.Total.Cents) / float64(g.Count)
		out = append(out, *g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
