package jobs

import (
	"context"
	"log/slog"
	"time"

	"rxdelivery/internal/core/application/usecases/queries"
	"rxdelivery/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultSnapshotSchedule publishes the board every ten seconds.
const DefaultSnapshotSchedule = "*/10 * * * * *"

const snapshotTimeout = 5 * time.Second

// BoardSnapshotJob periodically copies the board counts into a BoardCache.
type BoardSnapshotJob struct {
	handler  queries.GetDeliveryBoardQueryHandler
	cache    ports.BoardCache
	schedule string
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewBoardSnapshotJob(
	handler queries.GetDeliveryBoardQueryHandler,
	cache ports.BoardCache,
	schedule string,
	logger *slog.Logger,
) *BoardSnapshotJob {
	if schedule == "" {
		schedule = DefaultSnapshotSchedule
	}
	return &BoardSnapshotJob{
		handler:  handler,
		cache:    cache,
		schedule: schedule,
		now:      time.Now,
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		logger: logger.With("component", "board_snapshot_job"),
	}
}

// Start schedules the snapshot and publishes one immediately.
func (j *BoardSnapshotJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.publish(context.Background())
	})
	if err != nil {
		return err
	}

	_ = j.publish(context.Background())
	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Board snapshot job started", "schedule", j.schedule)
	return nil
}

// Stop stops the snapshot job and waits for a running publish to finish.
func (j *BoardSnapshotJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Board snapshot job stopped")
}

func (j *BoardSnapshotJob) publish(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	board, err := j.handler.Handle(ctx, queries.NewGetDeliveryBoardQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Board snapshot job failed", "error", err)
		return err
	}

	snapshot := ports.BoardSnapshot{
		Active:    board.ActiveCount,
		Completed: board.CompletedCount,
		UpdatedAt: j.now(),
	}
	if err := j.cache.Store(ctx, snapshot); err != nil {
		j.logger.ErrorContext(ctx, "Board snapshot job failed", "error", err)
		return err
	}
	return nil
}
