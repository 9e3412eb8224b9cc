// Package bootstrap assembles the store, services, notification pipeline
// and boundary shared by the HTTP server and the CLI.
package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/boundary"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
)

// Desk holds every long-lived component of a running process.
type Desk struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Store    *persistence.Store
	Redis    *persistence.Redis
	Users    repository.UserRepository
	Auth     *service.AuthService
	Tickets  *service.TicketService
	Boundary *boundary.Boundary

	queue         notify.Queue
	worker        *worker.NotificationWorker
	notifications *service.NotificationService
	workerDone    <-chan struct{}
	stopWorker    context.CancelFunc
}

// New initializes the store and wires the services. The caller must call
// Shutdown once done.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Desk, error) {
	metrics := observability.NewMetrics()
	credentials := auth.NewCredentialPolicy(cfg.Auth)
	if !credentials.Hashed() {
		logger.Warn("passwords stored in plain text; set AUTH_HASH_PASSWORDS to hash them")
	}

	store := persistence.NewStore(*cfg, logger, persistence.WithPasswordEncoder(credentials.Encode))
	if err := store.Init(ctx); err != nil {
		return nil, err
	}

	d := &Desk{Config: cfg, Logger: logger, Metrics: metrics, Store: store}

	if cfg.Notification.Queue == "redis" {
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		d.Redis = rdb
		d.queue = notify.NewRedisQueue(rdb.Client, cfg.Notification.RedisQueueKey)
	} else {
		d.queue = notify.NewMemoryQueue(cfg.Notification.QueueSize)
	}

	var notifier notify.Notifier
	notifiers := notify.FromConfig(cfg.Notification)
	if len(notifiers) > 0 {
		notifier = notifiers
	} else {
		logger.Info("outbound notifications disabled")
	}

	dispatcher := events.NewInMemoryDispatcher()
	d.Users = repository.NewUserRepository(store)
	d.Auth = service.NewAuthService(*cfg, d.Users, credentials)
	d.Tickets = service.NewTicketService(repository.NewTicketRepository(store), dispatcher, logger)
	d.notifications = service.NewNotificationService(dispatcher, d.queue, notifier != nil, logger, metrics)
	d.worker = worker.NewNotificationWorker(d.queue, notifier, logger, metrics)
	d.Boundary = boundary.New(d.Auth, d.Tickets, logger, metrics)
	return d, nil
}

// Start launches the notification worker.
func (d *Desk) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	d.stopWorker = cancel
	d.workerDone = worker.StartNotificationWorker(workerCtx, d.notifications, d.worker)
}

// Shutdown stops accepting notifications, gives the worker up to drain to
// finish queued deliveries, then releases the store and Redis.
func (d *Desk) Shutdown(drain time.Duration) {
	_ = d.queue.Close()
	if d.workerDone != nil {
		select {
		case <-d.workerDone:
		case <-time.After(drain):
			d.Logger.Warn("notification worker did not drain in time")
		}
		d.stopWorker()
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.Error("close store", zap.Error(err))
	}
	d.Redis.Close()
}
