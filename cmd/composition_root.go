package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpin "rxdelivery/internal/adapters/in/http"
	"rxdelivery/internal/adapters/out/gormstore"
	"rxdelivery/internal/core/application/usecases/commands"
	"rxdelivery/internal/core/application/usecases/queries"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/core/domain/services"
	"rxdelivery/internal/core/ports"
	"rxdelivery/internal/jobs"
	"rxdelivery/internal/seed"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *gormstore.GormUnitOfWorkFactory
	manager    *services.LifecycleManager
	boardCache ports.BoardCache
	meter      metric.Meter
	logger     *slog.Logger
}

type RootOption func(*rootOptions)

type rootOptions struct {
	listeners  []services.TransitionListener
	boardCache ports.BoardCache
	meter      metric.Meter
}

// WithListeners registers transition listeners, e.g. the RabbitMQ status publisher.
func WithListeners(listeners ...services.TransitionListener) RootOption {
	return func(o *rootOptions) {
		o.listeners = append(o.listeners, listeners...)
	}
}

// WithBoardCache enables the board snapshot job.
func WithBoardCache(cache ports.BoardCache) RootOption {
	return func(o *rootOptions) {
		o.boardCache = cache
	}
}

func WithMeter(meter metric.Meter) RootOption {
	return func(o *rootOptions) {
		o.meter = meter
	}
}

// NewCompositionRoot wires the lifecycle manager to storage: every transition is written
// by the journal before it becomes visible.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger, opts ...RootOption) *CompositionRoot {
	var o rootOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: gormstore.NewGormUnitOfWorkFactory(gormDB),
		boardCache: o.boardCache,
		meter:      o.meter,
		logger:     logger,
	}
	c.manager = services.NewLifecycleManager(
		services.WithCommitters(c.CreateTransitionJournal()),
		services.WithListeners(o.listeners...),
	)
	return c
}

// Manager returns the lifecycle manager shared by all handlers.
func (c *CompositionRoot) Manager() *services.LifecycleManager {
	return c.manager
}

// Bootstrap loads stored deliveries into the manager. Empty storage is seeded first when
// seeding is enabled.
func (c *CompositionRoot) Bootstrap(ctx context.Context) error {
	active, completed, err := c.loadStored(ctx)
	if err != nil {
		return err
	}

	if len(active)+len(completed) == 0 && c.cfg.Seed.Enabled {
		records, err := c.seedRecords()
		if err != nil {
			return err
		}
		if err := seed.Store(ctx, c.uowFactory.Create(), records); err != nil {
			return fmt.Errorf("seed storage: %w", err)
		}
		c.logger.InfoContext(ctx, "Storage seeded", "deliveries", len(records))

		if active, completed, err = c.loadStored(ctx); err != nil {
			return err
		}
	}

	if err := c.manager.Load(append(active, completed...)...); err != nil {
		return fmt.Errorf("load deliveries: %w", err)
	}
	c.logger.InfoContext(ctx, "Deliveries loaded", "active", len(active), "completed", len(completed))
	return nil
}

func (c *CompositionRoot) loadStored(ctx context.Context) (active, completed []*order.Order, err error) {
	repo := c.uowFactory.Create().OrderRepository()
	if active, err = repo.GetAllActive(ctx); err != nil {
		return nil, nil, fmt.Errorf("load active deliveries: %w", err)
	}
	if completed, err = repo.GetAllCompleted(ctx); err != nil {
		return nil, nil, fmt.Errorf("load completed deliveries: %w", err)
	}
	return active, completed, nil
}

func (c *CompositionRoot) seedRecords() ([]seed.Record, error) {
	if c.cfg.Seed.File != "" {
		return seed.ReadFile(c.cfg.Seed.File)
	}
	return seed.Default()
}

func (c *CompositionRoot) CreateTransitionJournal() commands.TransitionJournal {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionJournal(f)
}

func (c *CompositionRoot) CreateRegisterDeliveryCommandHandler() commands.RegisterDeliveryCommandHandler {
	return commands.NewRegisterDeliveryCommandHandler(c.manager)
}

func (c *CompositionRoot) CreateAdvanceDeliveryCommandHandler() commands.AdvanceDeliveryCommandHandler {
	return commands.NewAdvanceDeliveryCommandHandler(c.manager, c.meter)
}

func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.manager)
}

func (c *CompositionRoot) CreateGetCompletedDeliveriesQueryHandler() queries.GetCompletedDeliveriesQueryHandler {
	return queries.NewGetCompletedDeliveriesQueryHandler(c.manager)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.manager)
}

func (c *CompositionRoot) CreateGetDeliveryBoardQueryHandler() queries.GetDeliveryBoardQueryHandler {
	return queries.NewGetDeliveryBoardQueryHandler(c.manager)
}

func (c *CompositionRoot) CreateGetDeliveryHistoryQueryHandler() queries.GetDeliveryHistoryQueryHandler {
	return queries.NewGetDeliveryHistoryQueryHandler(c.gormDB)
}

// CreateHTTPHandler builds the echo router serving the REST API.
func (c *CompositionRoot) CreateHTTPHandler(ctx context.Context) (*echo.Echo, error) {
	doc, err := httpin.LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}

	server := httpin.NewServer(httpin.Handlers{
		RegisterDelivery:       c.CreateRegisterDeliveryCommandHandler(),
		AdvanceDelivery:        c.CreateAdvanceDeliveryCommandHandler(),
		GetActiveDeliveries:    c.CreateGetActiveDeliveriesQueryHandler(),
		GetCompletedDeliveries: c.CreateGetCompletedDeliveriesQueryHandler(),
		GetDelivery:            c.CreateGetDeliveryQueryHandler(),
		GetDeliveryBoard:       c.CreateGetDeliveryBoardQueryHandler(),
		GetDeliveryHistory:     c.CreateGetDeliveryHistoryQueryHandler(),
	}, c.logger)

	return httpin.NewRouter(server, doc)
}

// CreateJobManager returns the SLA job and, when a board cache is configured, the
// snapshot job.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	slaJob := jobs.NewDeliverySLAJob(
		c.CreateGetActiveDeliveriesQueryHandler(), c.cfg.Jobs.SLA, c.cfg.Jobs.SLASchedule, c.logger)

	var snapshotJob *jobs.BoardSnapshotJob
	if c.boardCache != nil {
		snapshotJob = jobs.NewBoardSnapshotJob(
			c.CreateGetDeliveryBoardQueryHandler(), c.boardCache, c.cfg.Jobs.SnapshotSchedule, c.logger)
	}
	return jobs.NewJobManager(slaJob, snapshotJob)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
