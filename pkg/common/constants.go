package common

const (
	RedisStreamStageEvents = "pipeline.stage.events"

	JobIDSync      = "data_sync_job"
	JobIDSentiment = "sentiment_calculation_job"
	JobIDSegment   = "segment_analysis_job"
	JobIDOverall   = "overall_sentiment_job"

	StageSync      = "sync"
	StageSentiment = "sentiment"
	StageSegment   = "segment"
	StageOverall   = "overall"
)
