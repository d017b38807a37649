package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	slaJob      *DeliverySLAJob
	snapshotJob *BoardSnapshotJob
}

// NewJobManager creates a job manager. snapshotJob may be nil when no board cache is
// configured.
func NewJobManager(slaJob *DeliverySLAJob, snapshotJob *BoardSnapshotJob) *JobManager {
	return &JobManager{
		slaJob:      slaJob,
		snapshotJob: snapshotJob,
	}
}

func (jm *JobManager) jobs() []Job {
	jobs := []Job{jm.slaJob}
	if jm.snapshotJob != nil {
		jobs = append(jobs, jm.snapshotJob)
	}
	return jobs
}

// StartAll starts all scheduled jobs.
// Jobs already started are stopped again when one of them fails to start.
func (jm *JobManager) StartAll() error {
	started := make([]Job, 0, 2)
	for _, job := range jm.jobs() {
		if err := job.Start(); err != nil {
			for _, s := range started {
				s.Stop()
			}
			return fmt.Errorf("failed to start %T: %w", job, err)
		}
		started = append(started, job)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for _, job := range jm.jobs() {
		job.Stop()
	}
}
