// Package insights computes derived spend views over the payment history.
// Aggregation is a pure function of its inputs and is recomputed on every
// read; results are never cached.
package insights

import (
	"sort"
	"time"

	"vaanipay/internal/core"
)

// Window is the trailing period used for spend aggregation.
const Window = 7 * 24 * time.Hour

// Filter selects which categories count toward the weekly total.
type Filter struct {
	category core.Category
	all      bool
}

// All matches every category.
func All() Filter {
	return Filter{all: true}
}

// Only matches a single category.
func Only(c core.Category) Filter {
	return Filter{category: c}
}

// Matches reports whether a record's category passes the filter.
func (f Filter) Matches(c core.Category) bool {
	return f.all || f.category == c
}

// String returns "All" or the category name.
func (f Filter) String() string {
	if f.all {
		return "All"
	}
	return string(f.category)
}

// ParseFilter maps "All" (or empty) to the all-filter and anything else to
// a single-category filter.
func ParseFilter(s string) (Filter, error) {
	if s == "" || s == "All" {
		return All(), nil
	}
	c, err := core.ParseCategory(s)
	if err != nil {
		return Filter{}, err
	}
	return Only(c), nil
}

// Aggregate computes the weekly total and per-category breakdown for
// records with Timestamp >= windowStart. The filter applies to the weekly
// total only; the breakdown always reflects every category in the window.
// Records may arrive in any order; the input is never mutated.
func Aggregate(history []core.TransactionRecord, windowStart time.Time, filter Filter) core.SpendSummary {
	var summary core.SpendSummary

	totals := make(map[core.Category]int64)
	var order []core.Category // first-encountered order, for stable ties
	var grandTotal int64

	for _, rec := range history {
		if rec.Timestamp.Before(windowStart) {
			continue
		}
		if filter.Matches(rec.Category) {
			summary.WeeklyTotal = summary.WeeklyTotal.Add(rec.Amount)
		}
		if _, seen := totals[rec.Category]; !seen {
			order = append(order, rec.Category)
		}
		totals[rec.Category] += rec.Amount.Paise
		grandTotal += rec.Amount.Paise
	}

	for _, cat := range order {
		summary.Breakdown = append(summary.Breakdown, core.CategoryShare{
			Category: cat,
			Total:    core.Money{Paise: totals[cat]},
			Percent:  percentOf(totals[cat], grandTotal),
		})
	}

	// Descending by total; SliceStable keeps first-encountered order on ties.
	sort.SliceStable(summary.Breakdown, func(i, j int) bool {
		return summary.Breakdown[i].Total.Paise > summary.Breakdown[j].Total.Paise
	})

	return summary
}

// percentOf returns round-half-up(100 * part / total), or 0 when total is 0.
func percentOf(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int((part*100 + total/2) / total)
}
