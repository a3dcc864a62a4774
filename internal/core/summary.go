package core

// CategoryShare is an amount aggregated by category with its share of the
// window total. Percent is integer-rounded; shares are not adjusted to sum
// to exactly 100.
type CategoryShare struct {
	Category Category
	Total    Money
	Percent  int
}

// SpendSummary is the derived view over the trailing spend window.
type SpendSummary struct {
	WeeklyTotal Money
	Breakdown   []CategoryShare
}
