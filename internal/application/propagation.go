package application

import (
	"context"
	"expvar"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/internal/infrastructure/community"
	"github.com/oksasatya/user-profile-service/internal/infrastructure/search"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
	"github.com/oksasatya/user-profile-service/pkg/mailer"
)

// Propagation counters, served on /v2/debug/vars.
var (
	propagationStats    = expvar.NewMap("propagation")
	propagationInflight = expvar.NewInt("propagation_inflight")
)

type DispatcherConfig struct {
	EmailQueue        string
	NotificationQueue string
	// Timeout bounds each task, retries included.
	Timeout time.Duration
}

// Dispatcher runs post-commit side effects in the background. Tasks never
// share the request's cancellation, only its values; their failures are
// logged and counted, never returned to the caller.
type Dispatcher struct {
	publisher Publisher
	registrar CommunityRegistrar
	indexer   ProfileIndexer
	cfg       DispatcherConfig
	logger    logrus.FieldLogger

	wg sync.WaitGroup
}

func NewDispatcher(publisher Publisher, registrar CommunityRegistrar, indexer ProfileIndexer, cfg DispatcherConfig, logger logrus.FieldLogger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Dispatcher{publisher: publisher, registrar: registrar, indexer: indexer, cfg: cfg, logger: logger}
}

// Go schedules fn under name. Call only after the originating transaction committed.
func (d *Dispatcher) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	log := d.logger.WithFields(logrus.Fields{"task": name, "request_id": helpers.RequestIDFrom(ctx)})
	base := context.WithoutCancel(ctx)

	d.wg.Add(1)
	propagationInflight.Add(1)
	go func() {
		defer d.wg.Done()
		defer propagationInflight.Add(-1)

		tctx, cancel := context.WithTimeout(base, d.cfg.Timeout)
		defer cancel()

		start := time.Now()
		if err := fn(tctx); err != nil {
			propagationStats.Add(name+".failed", 1)
			log.WithError(err).WithField("duration", time.Since(start).String()).Warn("propagation task failed")
			return
		}
		propagationStats.Add(name+".ok", 1)
		log.WithField("duration", time.Since(start).String()).Debug("propagation task done")
	}()
}

// Wait blocks until every scheduled task has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) publish(ctx context.Context, name, queue string, body any) {
	if d.publisher == nil {
		return
	}
	d.Go(ctx, name, func(ctx context.Context) error {
		return d.publisher.PublishJSON(ctx, queue, body)
	})
}

func (d *Dispatcher) SendVerification(ctx context.Context, job mailer.EmailJob) {
	d.publish(ctx, "email.verification", d.cfg.EmailQueue, job)
}

func (d *Dispatcher) RegisterDevice(ctx context.Context, msg PushTokenMessage) {
	msg.Target = TargetToken
	d.publish(ctx, "notification.token", d.cfg.NotificationQueue, msg)
}

func (d *Dispatcher) NotifyMediaChanged(ctx context.Context, msg MediaChangedMessage) {
	d.publish(ctx, "notification."+msg.Target, d.cfg.NotificationQueue, msg)
}

// NotifyDropped tells subscribers the account is gone and drops it from search.
func (d *Dispatcher) NotifyDropped(ctx context.Context, userID string) {
	d.publish(ctx, "notification.drop_user", d.cfg.NotificationQueue, DropUserMessage{Target: TargetDropUser, UserID: userID})
	if d.indexer != nil {
		d.Go(ctx, "search.delete", func(ctx context.Context) error {
			return d.indexer.Delete(ctx, userID)
		})
	}
}

func (d *Dispatcher) RegisterWithCommunity(ctx context.Context, reg community.Registration) {
	if d.registrar == nil {
		return
	}
	d.Go(ctx, "community.register", func(ctx context.Context) error {
		return d.registrar.Register(ctx, reg)
	})
}

func (d *Dispatcher) IndexProfile(ctx context.Context, doc search.ProfileDocument) {
	if d.indexer == nil {
		return
	}
	d.Go(ctx, "search.index", func(ctx context.Context) error {
		return d.indexer.Index(ctx, doc)
	})
}
