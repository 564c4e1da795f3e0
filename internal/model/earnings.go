package model

// MonthlyEarnings is one month's aggregate for the year view.
type MonthlyEarnings struct {
	Month         int     `json:"month"` // 1-12
	TotalHours    float64 `json:"total_hours"`
	TotalEarnings string  `json:"total_earnings"`
	EntryCount    int     `json:"entry_count"`
}

// EarningsSummary is the aggregate for an arbitrary date range.
type EarningsSummary struct {
	TotalHours      float64 `json:"total_hours"`
	TotalEarnings   string  `json:"total_earnings"`
	PendingEarnings string  `json:"pending_earnings"`
	EntryCount      int     `json:"entry_count"`
}
