package jobs

import (
	"context"
	"log/slog"
	"time"

	"rxdelivery/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultSLASchedule runs the SLA check at the start of every minute.
const DefaultSLASchedule = "0 * * * * *"

// DeliverySLAJob warns about active deliveries that have not been delivered within the
// SLA since assignment. Each overdue delivery is reported once.
type DeliverySLAJob struct {
	handler  queries.GetActiveDeliveriesQueryHandler
	sla      time.Duration
	schedule string
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger

	// warned is only touched from cron callbacks, which never overlap for one entry
	// because of cron.SkipIfStillRunning.
	warned map[string]struct{}
}

func NewDeliverySLAJob(
	handler queries.GetActiveDeliveriesQueryHandler,
	sla time.Duration,
	schedule string,
	logger *slog.Logger,
) *DeliverySLAJob {
	if schedule == "" {
		schedule = DefaultSLASchedule
	}
	logger = logger.With("component", "delivery_sla_job")
	return &DeliverySLAJob{
		handler:  handler,
		sla:      sla,
		schedule: schedule,
		now:      time.Now,
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		logger: logger,
		warned: make(map[string]struct{}),
	}
}

// Start schedules the SLA check.
func (j *DeliverySLAJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.check(context.Background(), j.now())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery SLA job started",
		"schedule", j.schedule, "sla", j.sla.String())
	return nil
}

// Stop stops the SLA job and waits for a running check to finish.
func (j *DeliverySLAJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Delivery SLA job stopped")
}

// check logs every active delivery overdue at now that was not reported before and
// returns their ids.
func (j *DeliverySLAJob) check(ctx context.Context, now time.Time) []string {
	views, err := j.handler.Handle(ctx, queries.NewGetActiveDeliveriesQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery SLA job failed", "error", err)
		return nil
	}

	active := make(map[string]struct{}, len(views))
	var overdue []string
	for _, view := range views {
		active[view.ID] = struct{}{}

		age := now.Sub(view.AssignedAt)
		if age <= j.sla {
			continue
		}
		if _, done := j.warned[view.ID]; done {
			continue
		}

		j.warned[view.ID] = struct{}{}
		overdue = append(overdue, view.ID)
		j.logger.WarnContext(ctx, "Delivery is overdue",
			"order_id", view.ID,
			"status", view.Status.Code(),
			"assigned_at", view.AssignedAt,
			"age", age.Round(time.Second).String(),
		)
	}

	for id := range j.warned {
		if _, ok := active[id]; !ok {
			delete(j.warned, id)
		}
	}
	return overdue
}
