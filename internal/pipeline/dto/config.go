package dto

// CreateDatabaseConfigRequest creates a new source database profile.
type CreateDatabaseConfigRequest struct {
	Name              string `json:"name"`
	Host              string `json:"host"`
	Port              int    `json:"port"`
	DatabaseName      string `json:"database_name"`
	Username          string `json:"username"`
	Password          string `json:"password"`
	ConnectionTimeout int    `json:"connection_timeout"`
	MaxConnections    int    `json:"max_connections"`
	IsActive          *bool  `json:"is_active"`
}

// CreateSentimentConfigRequest creates a new sentiment parameter set.
type CreateSentimentConfigRequest struct {
	Name                        string  `json:"name"`
	DefaultAlgorithm            string  `json:"default_algorithm"`
	DefaultWindowHours          int     `json:"default_window_hours"`
	TimeDecayFactor             float64 `json:"time_decay_factor"`
	TrendWeight                 float64 `json:"trend_weight"`
	MinReportsForConfidence     int     `json:"min_reports_for_confidence"`
	EnableIndustryNormalization *bool   `json:"enable_industry_normalization"`
	IsActive                    *bool   `json:"is_active"`
}

// CreateJobConfigRequest creates a new scheduler timing profile.
type CreateJobConfigRequest struct {
	Name                  string `json:"name"`
	SyncIntervalMinutes   int    `json:"sync_interval_minutes"`
	SyncBatchSize         int    `json:"sync_batch_size"`
	SentimentDelayMinutes int    `json:"sentiment_delay_minutes"`
	SegmentDelayMinutes   int    `json:"segment_delay_minutes"`
	OverallDelayMinutes   int    `json:"overall_delay_minutes"`
	MaxRetries            int    `json:"max_retries"`
	RetryDelayMinutes     int    `json:"retry_delay_minutes"`
	CleanupOldJobsDays    int    `json:"cleanup_old_jobs_days"`
	IsActive              *bool  `json:"is_active"`
}
