package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/bluemf/backend/internal/brain"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// RefreshJobName is the registered name of the pipeline refresh job
const RefreshJobName = "pipeline_refresh"

// Refresher runs the full pipeline once
type Refresher interface {
	Refresh(ctx context.Context) brain.RefreshResult
}

// RefreshJob runs fetch → preprocess → analyze → store on a schedule
type RefreshJob struct {
	runner   Refresher
	schedule string
	logger   *logger.Logger
}

// NewRefreshJob creates a new pipeline refresh job
func NewRefreshJob(runner Refresher, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		runner:   runner,
		schedule: schedule,
		logger:   log.WithField("job", RefreshJobName),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return RefreshJobName
}

// Schedule returns the cron schedule
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes the pipeline. The first failing stage becomes the job error.
func (j *RefreshJob) Run(ctx context.Context) error {
	result := j.runner.Refresh(ctx)

	j.logger.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"stages":   len(result.Stages),
		"duration": result.Duration.Seconds(),
	}).Info("Pipeline refresh job finished")

	if result.OK() {
		return nil
	}
	if len(result.Stages) == 0 {
		return fmt.Errorf("refresh %s: no stage ran", result.RunID)
	}

	last := result.Stages[len(result.Stages)-1]
	return fmt.Errorf("refresh %s: stage %s failed: %s", result.RunID, last.Stage, last.Message)
}
