// Package savings serves the smart-savings demo view: fixed goals with
// derived progress, overview stats and goal recommendations.
package savings

import "vaanipay/internal/core"

type (
	// Goal is a savings target with the amount put aside so far.
	Goal struct {
		ID          int        `json:"id"`
		Name        string     `json:"name"`
		Target      core.Money `json:"-"`
		Saved       core.Money `json:"-"`
		TargetR     float64    `json:"target"`
		SavedR      float64    `json:"saved"`
		Progress    int        `json:"progress"`
		Deadline    string     `json:"deadline"`
		Probability string     `json:"probability"`
	}

	// Recommendation is a suggested goal with a monthly plan.
	Recommendation struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Amount  string `json:"amount"`
		Months  int    `json:"months"`
		Monthly string `json:"monthly"`
	}

	// TrendPoint is one month of the savings trend chart.
	TrendPoint struct {
		Month string `json:"month"`
		Saved int64  `json:"saved"`
	}

	// OverviewStat is a headline figure for the savings page.
	OverviewStat struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	// Summary is the full savings view.
	Summary struct {
		Overview        []OverviewStat   `json:"overview"`
		Goals           []Goal           `json:"goals"`
		Recommendations []Recommendation `json:"recommendations"`
		Trend           []TrendPoint     `json:"trend"`
	}
)

// Progress returns the rounded percentage of a goal already saved, capped
// at 100.
func Progress(saved, target core.Money) int {
	if target.Paise <= 0 {
		return 0
	}
	p := int((saved.Paise*100 + target.Paise/2) / target.Paise)
	if p > 100 {
		p = 100
	}
	return p
}

func goal(id int, name string, target, saved int64, deadline, probability string) Goal {
	t, s := core.RupeesToMoney(target), core.RupeesToMoney(saved)
	return Goal{
		ID:          id,
		Name:        name,
		Target:      t,
		Saved:       s,
		TargetR:     t.Rupees(),
		SavedR:      s.Rupees(),
		Progress:    Progress(s, t),
		Deadline:    deadline,
		Probability: probability,
	}
}

// BuildSummary assembles the savings view from the fixed demo data.
func BuildSummary() Summary {
	return Summary{
		Overview: []OverviewStat{
			{Label: "Total Saved", Value: "₹1,25,000"},
			{Label: "Active Goals", Value: "4"},
			{Label: "Goals Completed", Value: "2"},
			{Label: "This Month's Savings", Value: "₹8,500"},
		},
		Goals: []Goal{
			goal(1, "Emergency Fund", 50000, 32000, "4 months", "High"),
			goal(2, "Dream Vacation", 80000, 15000, "8 months", "Medium"),
			goal(3, "New Laptop", 65000, 58000, "1 month", "High"),
			goal(4, "Wedding Fund", 200000, 45000, "12 months", "Low"),
		},
		Recommendations: []Recommendation{
			{ID: "r1", Name: "Build 6-Month Emergency Fund", Amount: "₹1,50,000", Months: 10, Monthly: "₹15,000"},
			{ID: "r2", Name: "Save for Health Insurance", Amount: "₹25,000", Months: 5, Monthly: "₹5,000"},
			{ID: "r3", Name: "Festival Shopping Fund", Amount: "₹30,000", Months: 4, Monthly: "₹7,500"},
		},
		Trend: []TrendPoint{
			{Month: "May", Saved: 6000}, {Month: "Jun", Saved: 7200}, {Month: "Jul", Saved: 6500},
			{Month: "Aug", Saved: 12500}, {Month: "Sep", Saved: 4200}, {Month: "Oct", Saved: 8500},
		},
	}
}
