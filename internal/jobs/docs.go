// Package jobs provides scheduled background tasks for the delivery service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds field enabled) and call the
// application query handlers like any other adapter.
//
// # Available Jobs
//
// 1. DeliverySLAJob - warns once about every active delivery older than the SLA
// 2. BoardSnapshotJob - stores the board counts in a BoardCache (Redis)
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewDeliverySLAJob(activeHandler, 45*time.Minute, "", logger),
//		jobs.NewBoardSnapshotJob(boardHandler, cache, "", logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Failed job starts stop any already running jobs.
package jobs
