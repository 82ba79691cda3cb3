package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/shared/utils"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"
)

// DefaultSubscriptionTTL is how long a subscription lives without a keep-up.
const DefaultSubscriptionTTL = 10 * time.Minute

// SubscriptionBridge activates subscriptions and mirrors their updates to the database
// as added, changed and removed records.
type SubscriptionBridge interface {
	Subscribe(ctx context.Context, topic model.Topic) (model.Subscription, error)
	KeepUp(ctx context.Context, sub model.Subscription) error
	Cancel(ctx context.Context, sub model.Subscription) error
	// CancelExpired cancels the subscriptions not kept up since their TTL and
	// returns how many were cancelled.
	CancelExpired(ctx context.Context) int
	// RunSweeper calls CancelExpired every interval until ctx is done.
	RunSweeper(ctx context.Context, interval time.Duration)
	// Active returns the number of live subscriptions.
	Active() int
}

// SubscriptionBridgeConfig tunes a SubscriptionBridge.
type SubscriptionBridgeConfig struct {
	TTL       time.Duration
	Metrics   Metrics
	Publisher RecordPublisher
	Now       func() time.Time
}

// mirroredEntity is what the bridge remembers about an entity it wrote.
type mirroredEntity struct {
	key  string
	data string
}

type activeSubscription struct {
	mu        sync.Mutex
	sub       model.Subscription
	path      model.DatabasePath
	entities  map[string]mirroredEntity
	expiresAt time.Time
	cancelled bool
}

type firebaseSubscriptionBridge struct {
	service   repository.SubscriptionService
	db        repository.DatabaseClient
	metrics   Metrics
	publisher RecordPublisher
	ttl       time.Duration
	now       func() time.Time
	log       logger.Logger

	mu     sync.Mutex
	active map[string]*activeSubscription
}

// NewSubscriptionBridge creates a SubscriptionBridge. Zero config fields take defaults.
func NewSubscriptionBridge(service repository.SubscriptionService, db repository.DatabaseClient, cfg SubscriptionBridgeConfig, log logger.Logger) SubscriptionBridge {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSubscriptionTTL
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &firebaseSubscriptionBridge{
		service:   service,
		db:        db,
		metrics:   cfg.Metrics,
		publisher: cfg.Publisher,
		ttl:       cfg.TTL,
		now:       cfg.Now,
		log:       log.WithComponent("subscription-bridge"),
		active:    make(map[string]*activeSubscription),
	}
}

func (b *firebaseSubscriptionBridge) Subscribe(ctx context.Context, topic model.Topic) (model.Subscription, error) {
	ctx = utils.WithOperation(ctx, "subscribe")
	model.EnsureID(&topic.ID)
	if err := applyRequestContext(ctx, &topic.Context); err != nil {
		return model.Subscription{}, err
	}
	if err := topic.Validate(); err != nil {
		return model.Subscription{}, validationError(err)
	}

	path := model.AllocateForTopic(topic)
	entry := &activeSubscription{
		sub:       model.Subscription{ID: model.SubscriptionID{Value: path.String()}, Topic: topic},
		path:      path,
		entities:  make(map[string]mirroredEntity),
		expiresAt: b.now().Add(b.ttl),
	}

	b.mu.Lock()
	if _, exists := b.active[path.String()]; exists {
		b.mu.Unlock()
		return model.Subscription{}, errors.NewConflictError("subscription already exists").
			WithDetail("subscription", path.String())
	}
	b.active[path.String()] = entry
	b.mu.Unlock()

	if err := b.db.Delete(ctx, path); err != nil {
		b.forget(path.String())
		return model.Subscription{}, errors.NewInfrastructureError("failed to prepare subscription path").WithCause(err)
	}

	handler := func(ctx context.Context, update model.SubscriptionUpdate) error {
		return b.apply(ctx, entry, update)
	}
	if err := b.service.Activate(ctx, entry.sub, handler); err != nil {
		b.forget(path.String())
		_ = b.db.Delete(ctx, path)
		return model.Subscription{}, errors.WrapError(err, "failed to activate subscription")
	}

	b.metrics.SubscriptionsActive(1)
	b.log.WithContext(ctx).WithFields(map[string]interface{}{
		"subscription": path.String(),
		"target_type":  topic.Target.Type,
	}).Info("Subscription activated")
	return entry.sub, nil
}

// apply diffs update against what was mirrored before and writes the resulting records.
// Writing stops at the first database error.
func (b *firebaseSubscriptionBridge) apply(ctx context.Context, entry *activeSubscription, update model.SubscriptionUpdate) error {
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.cancelled {
		return nil
	}

	batch := model.NewRecordBatch(entry.path)
	defer b.publish(ctx, batch)

	for _, change := range update.Changes {
		record, err := b.write(ctx, entry, change)
		if err != nil {
			return fmt.Errorf("mirror change of %s: %w", change.ID, err)
		}
		if record != nil {
			batch.Append(record)
		}
	}
	return nil
}

func (b *firebaseSubscriptionBridge) write(ctx context.Context, entry *activeSubscription, change model.EntityChange) (model.Record, error) {
	prev, known := entry.entities[change.ID]
	if change.Removed {
		if !known {
			return nil, nil
		}
		if err := b.db.Delete(ctx, entry.path.Child(prev.key)); err != nil {
			return nil, err
		}
		delete(entry.entities, change.ID)
		return model.RemovedRecord{Key: prev.key}, nil
	}

	data := entityJSON(change.State)
	if !known {
		key, err := b.db.Push(ctx, entry.path, data)
		if err != nil {
			return nil, err
		}
		entry.entities[change.ID] = mirroredEntity{key: key, data: data}
		return model.AddedRecord{Data: data}, nil
	}
	if prev.data == data {
		return nil, nil
	}
	if err := b.db.Set(ctx, entry.path.Child(prev.key), data); err != nil {
		return nil, err
	}
	entry.entities[change.ID] = mirroredEntity{key: prev.key, data: data}
	return model.ChangedRecord{Key: prev.key, Data: data}, nil
}

func (b *firebaseSubscriptionBridge) publish(ctx context.Context, batch *model.RecordBatch) {
	if batch.Len() == 0 {
		return
	}
	b.metrics.RecordsWritten(model.RecordKindAdded, len(batch.Added))
	b.metrics.RecordsWritten(model.RecordKindChanged, len(batch.Changed))
	b.metrics.RecordsWritten(model.RecordKindRemoved, len(batch.Removed))
	if b.publisher != nil {
		b.publisher.Publish(ctx, *batch)
	}
}

func (b *firebaseSubscriptionBridge) KeepUp(ctx context.Context, sub model.Subscription) error {
	ctx = utils.WithOperation(ctx, "keep_up")
	entry, err := b.lookup(ctx, sub)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	entry.expiresAt = b.now().Add(b.ttl)
	entry.mu.Unlock()
	return nil
}

func (b *firebaseSubscriptionBridge) Cancel(ctx context.Context, sub model.Subscription) error {
	ctx = utils.WithOperation(ctx, "cancel_subscription")
	entry, err := b.lookup(ctx, sub)
	if err != nil {
		return err
	}
	return b.cancel(ctx, entry)
}

func (b *firebaseSubscriptionBridge) cancel(ctx context.Context, entry *activeSubscription) error {
	key := entry.path.String()
	b.mu.Lock()
	if b.active[key] != entry {
		b.mu.Unlock()
		return errors.NewNotFoundError("subscription").WithCause(errors.ErrSubscriptionNotFound)
	}
	delete(b.active, key)
	b.mu.Unlock()

	entry.mu.Lock()
	entry.cancelled = true
	entry.mu.Unlock()
	b.metrics.SubscriptionsActive(-1)

	// The entry is unregistered already, so the records go even if the framework cancel fails.
	cancelErr := b.service.Cancel(ctx, entry.sub)
	deleteErr := b.db.Delete(ctx, entry.path)
	switch {
	case cancelErr != nil && deleteErr != nil:
		return errors.NewInfrastructureError("failed to cancel subscription and delete its records").
			WithCause(errors.Join(cancelErr, deleteErr))
	case cancelErr != nil:
		return errors.WrapError(cancelErr, "failed to cancel subscription")
	case deleteErr != nil:
		return errors.NewInfrastructureError("failed to delete subscription records").WithCause(deleteErr)
	}
	b.log.WithContext(ctx).WithFields(map[string]interface{}{"subscription": key}).Info("Subscription cancelled")
	return nil
}

// lookup finds the live subscription sub refers to. Subscriptions of other tenants
// are reported as missing.
func (b *firebaseSubscriptionBridge) lookup(ctx context.Context, sub model.Subscription) (*activeSubscription, error) {
	notFound := errors.NewNotFoundError("subscription").WithCause(errors.ErrSubscriptionNotFound).
		WithDetail("subscription", sub.ID.Value)

	path, err := model.ParseDatabasePath(sub.ID.Value)
	if err != nil {
		return nil, validationError(err)
	}
	b.mu.Lock()
	entry, ok := b.active[path.String()]
	b.mu.Unlock()
	if !ok {
		return nil, notFound
	}
	tenant, _ := model.TenantFromContext(ctx)
	if !path.BelongsTo(tenant) {
		return nil, notFound
	}
	return entry, nil
}

func (b *firebaseSubscriptionBridge) forget(key string) {
	b.mu.Lock()
	delete(b.active, key)
	b.mu.Unlock()
}

func (b *firebaseSubscriptionBridge) CancelExpired(ctx context.Context) int {
	now := b.now()
	var expired []*activeSubscription
	b.mu.Lock()
	for _, entry := range b.active {
		entry.mu.Lock()
		if !entry.expiresAt.After(now) {
			expired = append(expired, entry)
		}
		entry.mu.Unlock()
	}
	b.mu.Unlock()

	cancelled := 0
	for _, entry := range expired {
		if err := b.cancel(ctx, entry); err != nil {
			b.log.WithFields(map[string]interface{}{
				"subscription": entry.path.String(),
				"error":        err,
			}).Error("Failed to cancel expired subscription")
			continue
		}
		cancelled++
	}
	if cancelled > 0 {
		b.log.Infof("Cancelled %d expired subscriptions", cancelled)
	}
	return cancelled
}

func (b *firebaseSubscriptionBridge) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.CancelExpired(ctx)
		}
	}
}

func (b *firebaseSubscriptionBridge) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.active)
}
