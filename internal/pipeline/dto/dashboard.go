package dto

import "time"

// SegmentSummary is one industry row in the dashboard breakdown.
type SegmentSummary struct {
	Segment          string    `json:"segment"`
	AverageSentiment float64   `json:"average_sentiment"`
	SentimentLabel   string    `json:"sentiment_label"`
	TotalCustomers   int       `json:"total_customers"`
	TrendDirection   string    `json:"trend_direction"`
	CalculatedAt     time.Time `json:"calculated_at"`
}

// DashboardSummary is the cached aggregate view served to dashboards.
type DashboardSummary struct {
	OverallSentiment  *float64         `json:"overall_sentiment"`
	WeightedSentiment *float64         `json:"weighted_sentiment"`
	SentimentLabel    string           `json:"sentiment_label"`
	TrendDirection    string           `json:"trend_direction"`
	TotalCustomers    int              `json:"total_customers"`
	ReportsToday      int64            `json:"reports_today"`
	FNReportsToday    int64            `json:"fn_reports_today"`
	FPReportsToday    int64            `json:"fp_reports_today"`
	Segments          []SegmentSummary `json:"segments"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
