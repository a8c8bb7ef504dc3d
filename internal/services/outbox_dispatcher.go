package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/outbox"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// DispatcherConfig controls how frequently the outbox is drained.
type DispatcherConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxDispatcher flushes pending notifications into Postgres on a
// cron schedule. It is also the NotificationOutbox port the use cases
// publish through: inserts go straight to the table while the store is
// healthy and fall back to the BoltDB queue otherwise.
type OutboxDispatcher struct {
	store         *outbox.Store
	monitor       ConnectionHealth
	notifications repository.NotificationRepository
	logger        *zap.Logger
	cron          *cron.Cron
	cfg           DispatcherConfig
}

func NewOutboxDispatcher(
	store *outbox.Store,
	monitor ConnectionHealth,
	notifications repository.NotificationRepository,
	logger *zap.Logger,
	cfg DispatcherConfig,
) *OutboxDispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &OutboxDispatcher{
		store:         store,
		monitor:       monitor,
		notifications: notifications,
		logger:        logger,
		cfg:           cfg,
		cron:          cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = d.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := d.Drain(ctx); err != nil {
			d.logger.Error("outbox drain failed", zap.Error(err))
		}
	})

	return d
}

// Start launches the cron scheduler.
func (d *OutboxDispatcher) Start() {
	if d == nil || d.cron == nil {
		return
	}
	d.cron.Start()
	d.logger.Info("outbox dispatcher started")
}

// Stop gracefully stops the scheduler.
func (d *OutboxDispatcher) Stop(ctx context.Context) {
	if d == nil || d.cron == nil {
		return
	}
	stopCtx := d.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	d.logger.Info("outbox dispatcher stopped")
}

// Publish inserts the notification immediately when the store is
// healthy, queueing it otherwise.
func (d *OutboxDispatcher) Publish(ctx context.Context, notification *domain.Notification) error {
	if d == nil || d.store == nil {
		return fmt.Errorf("outbox dispatcher not configured")
	}
	if notification == nil {
		return domain.ErrInvalidPayload
	}

	if d.monitor == nil || d.monitor.IsOnline() {
		if _, err := d.notifications.Create(ctx, notification); err == nil {
			return nil
		} else {
			d.logger.Warn("immediate notification insert failed, queueing", zap.Error(err))
		}
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return d.store.Enqueue(outbox.Item{
		ID:      notification.ID,
		StaffID: notification.StaffID,
		Type:    notification.Type,
		Payload: payload,
	})
}

// Drain processes queued notifications synchronously.
func (d *OutboxDispatcher) Drain(ctx context.Context) error {
	if d == nil || d.store == nil {
		return nil
	}
	if d.monitor != nil && !d.monitor.IsOnline() {
		d.logger.Debug("skipping outbox drain (offline)")
		return nil
	}

	items, err := d.store.GetBatch(d.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := d.processItem(ctx, item); err != nil {
			d.logger.Error("failed to dispatch notification",
				zap.String("item_id", item.ID),
				zap.String("type", item.Type),
				zap.Error(err))

			item.Retries++
			if item.Retries >= d.cfg.MaxRetries {
				d.logger.Warn("dropping notification (max retries reached)", zap.String("item_id", item.ID))
				_ = d.store.Remove(item)
				continue
			}

			if err := d.store.Requeue(item); err != nil {
				d.logger.Error("failed to requeue outbox item", zap.Error(err))
			}
			continue
		}

		if err := d.store.Remove(item); err != nil {
			d.logger.Warn("failed to purge dispatched item", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of queued notifications.
func (d *OutboxDispatcher) Size() int {
	if d == nil || d.store == nil {
		return 0
	}
	size, err := d.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (d *OutboxDispatcher) processItem(ctx context.Context, item outbox.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var notification domain.Notification
	if err := json.Unmarshal(item.Payload, &notification); err != nil {
		return err
	}
	_, err := d.notifications.Create(ctx, &notification)
	return err
}

var _ usecase.NotificationOutbox = (*OutboxDispatcher)(nil)
