package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job once. A returned error marks the run failed;
	// the scheduler does not retry it.
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds field first
	// Examples: "0 0 2 * * *" (every day at 02:00)
	//           "@daily", "@every 6h"
	Schedule() string
}

// JobResult represents the result of a job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	Trigger   Trigger       `json:"trigger"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// Trigger records what started a run
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// maxHistory is the number of results kept per job
const maxHistory = 100

// JobHistory keeps the most recent results of one job, oldest first
type JobHistory struct {
	Results []JobResult
}

// AddResult appends a result, dropping the oldest beyond maxHistory
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if over := len(h.Results) - maxHistory; over > 0 {
		h.Results = append([]JobResult(nil), h.Results[over:]...)
	}
}

// GetLatestResults returns a copy of the latest n results
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	n = min(n, len(h.Results))
	if n <= 0 {
		return []JobResult{}
	}
	return append([]JobResult(nil), h.Results[len(h.Results)-n:]...)
}

// GetFailedResults returns all failed results
func (h *JobHistory) GetFailedResults() []JobResult {
	failed := make([]JobResult, 0)
	for _, result := range h.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// GetSuccessRate returns the success rate (0.0 - 1.0)
func (h *JobHistory) GetSuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}
	failed := len(h.GetFailedResults())
	return float64(len(h.Results)-failed) / float64(len(h.Results))
}

// lastOutcome returns the start time of the latest success and failure
func (h *JobHistory) lastOutcome() (success, failure *time.Time) {
	for i := len(h.Results) - 1; i >= 0 && (success == nil || failure == nil); i-- {
		start := h.Results[i].StartTime
		if h.Results[i].Success {
			if success == nil {
				success = &start
			}
		} else if failure == nil {
			failure = &start
		}
	}
	return success, failure
}
