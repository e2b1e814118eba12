package entities

// MonthSummary aggregates one user's transactions for a single month label.
type MonthSummary struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}
