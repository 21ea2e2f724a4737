package dto

import "time"

// JobStatus describes one scheduled job in a scheduler status response.
type JobStatus struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	NextRunTime *time.Time `json:"next_run_time"`
	Trigger     string     `json:"trigger"`
}

// SchedulerStatus is the response for the scheduler status endpoint.
type SchedulerStatus struct {
	Status string      `json:"status"`
	Jobs   []JobStatus `json:"jobs"`
}
