// Package advisor serves the mock financial-advisor view: a fixed score
// breakdown with derived rating, plus hard-coded recommendations, priority
// actions and investment options. Display data only; nothing here analyses
// a real account.
package advisor

type (
	// ScoreComponent is one slice of the financial health score.
	ScoreComponent struct {
		Key   string `json:"key"`
		Score int    `json:"score"`
		Max   int    `json:"max"`
	}

	// Recommendation is one suggested action with its expected impact.
	Recommendation struct {
		ID     int    `json:"id"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Impact string `json:"impact,omitempty"`
		Risk   string `json:"risk"`
	}

	// Action is a quick to-do with a priority tag.
	Action struct {
		ID       string `json:"id"`
		Priority string `json:"priority"`
		Title    string `json:"title"`
		Detail   string `json:"detail"`
		Time     string `json:"time"`
		Benefit  string `json:"benefit,omitempty"`
	}

	// InvestmentOption is a row in the investment comparison table.
	InvestmentOption struct {
		Name    string `json:"name"`
		Risk    string `json:"risk"`
		Returns string `json:"returns"`
		Minimum string `json:"minimum"`
	}

	// TrendPoint is one month of the score trend chart.
	TrendPoint struct {
		Month string `json:"month"`
		Score int    `json:"score"`
	}

	// Report is the full advisor view.
	Report struct {
		Breakdown       []ScoreComponent   `json:"breakdown"`
		Percent         int                `json:"percent"`
		Rating          string             `json:"rating"`
		Recommendations []Recommendation   `json:"recommendations"`
		Actions         []Action           `json:"actions"`
		Investments     []InvestmentOption `json:"investments"`
		Trend           []TrendPoint       `json:"trend"`
	}
)

func scoreBreakdown() []ScoreComponent {
	return []ScoreComponent{
		{Key: "Savings Health", Score: 30, Max: 30},
		{Key: "Spending Habits", Score: 25, Max: 25},
		{Key: "Investment Portfolio", Score: 15, Max: 20},
		{Key: "Debt Management", Score: 20, Max: 25},
	}
}

// Percent computes the overall health score from the component breakdown,
// rounded to the nearest integer.
func Percent(breakdown []ScoreComponent) int {
	var score, max int
	for _, c := range breakdown {
		score += c.Score
		max += c.Max
	}
	if max == 0 {
		return 0
	}
	return (score*100 + max/2) / max
}

// Rating maps a percentage to its display band.
func Rating(percent int) string {
	switch {
	case percent >= 85:
		return "Excellent"
	case percent >= 70:
		return "Good"
	case percent >= 50:
		return "Fair"
	default:
		return "Needs Attention"
	}
}

// BuildReport assembles the advisor view from the fixed demo data.
func BuildReport() Report {
	breakdown := scoreBreakdown()
	percent := Percent(breakdown)
	return Report{
		Breakdown: breakdown,
		Percent:   percent,
		Rating:    Rating(percent),
		Recommendations: []Recommendation{
			{ID: 1, Title: "Start SIP in Mutual Funds", Detail: "Based on your spending pattern, you can invest ₹3,000/month", Impact: "Potential returns: ₹5.2L in 5 years", Risk: "Medium"},
			{ID: 2, Title: "Reduce Food Delivery Expenses", Detail: "You're spending 23% more on food delivery than similar users", Impact: "Save ₹2,500/month", Risk: "Low"},
			{ID: 3, Title: "Pay Off High-Interest Debt First", Detail: "Credit card APR: 42%. Pay ₹5,000 extra to save ₹15,000 in interest", Risk: "High"},
			{ID: 4, Title: "Maximize Tax Savings", Detail: "Invest ₹46,000 more in 80C to save ₹14,500 in taxes", Impact: "45 days left", Risk: "Low"},
			{ID: 5, Title: "Improve Your Credit Score", Detail: "Current score: 720. Pay bills on time to reach 800+", Impact: "Better loan rates available at 750+", Risk: "Low"},
			{ID: 6, Title: "Build Emergency Fund", Detail: "Recommended: ₹1.5L (6 months expenses). Current: ₹40,000", Risk: "Low"},
		},
		Actions: []Action{
			{ID: "a1", Priority: "HIGH", Title: "Link Aadhaar to PAN", Detail: "Avoid penalties", Time: "5 mins", Benefit: "₹10,000 fine avoidance"},
			{ID: "a2", Priority: "MEDIUM", Title: "Review insurance coverage", Detail: "Under-insured by ₹5L", Time: "15 mins"},
			{ID: "a3", Priority: "LOW", Title: "Organize receipts", Detail: "Tax-friendly records", Time: "10 mins"},
		},
		Investments: []InvestmentOption{
			{Name: "Fixed Deposits", Risk: "Low", Returns: "7.5%", Minimum: "₹10,000"},
			{Name: "Mutual Funds", Risk: "Medium", Returns: "12% avg", Minimum: "₹500"},
			{Name: "Gold", Risk: "Medium", Returns: "8%", Minimum: "₹1,000"},
			{Name: "Digital Gold", Risk: "Medium", Returns: "8.5%", Minimum: "₹100"},
		},
		Trend: []TrendPoint{
			{Month: "May", Score: 62}, {Month: "Jun", Score: 65}, {Month: "Jul", Score: 68},
			{Month: "Aug", Score: 70}, {Month: "Sep", Score: 74}, {Month: "Oct", Score: 80},
		},
	}
}
