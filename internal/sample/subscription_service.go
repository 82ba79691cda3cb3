package sample

import (
	"context"
	"sync"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/eventbus"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web/domain/model"
	"firebase-web/internal/web/domain/repository"
)

type liveSubscription struct {
	mu          sync.Mutex
	sub         model.Subscription
	tenant      string
	matcher     *matcher
	handler     repository.UpdateHandler
	matched     map[string]bool
	unsubscribe func()
	cancelled   bool
}

// SubscriptionService delivers entity changes published on the event bus to
// activated subscriptions.
type SubscriptionService struct {
	store   *Store
	filters *Filters
	bus     eventbus.EventBusInterface
	log     logger.Logger

	mu   sync.Mutex
	subs map[string]*liveSubscription
}

// NewSubscriptionService creates a SubscriptionService listening on bus.
func NewSubscriptionService(store *Store, filters *Filters, bus eventbus.EventBusInterface, log logger.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:   store,
		filters: filters,
		bus:     bus,
		log:     log.WithComponent("sample-subscriptions"),
		subs:    make(map[string]*liveSubscription),
	}
}

// Activate registers sub and delivers the currently matching entities to handler
// before any later change.
func (s *SubscriptionService) Activate(ctx context.Context, sub model.Subscription, handler repository.UpdateHandler) error {
	m, err := targetMatcher(s.filters, sub.Topic.Target)
	if err != nil {
		return err
	}
	tenant := sub.Topic.Context.TenantID

	live := &liveSubscription{
		sub:     sub,
		tenant:  tenant.String(),
		matcher: m,
		handler: handler,
		matched: make(map[string]bool),
	}

	s.mu.Lock()
	if _, exists := s.subs[sub.ID.Value]; exists {
		s.mu.Unlock()
		return errors.NewConflictError("subscription already active").WithDetail("subscription", sub.ID.Value)
	}
	s.subs[sub.ID.Value] = live
	s.mu.Unlock()

	live.mu.Lock()
	live.unsubscribe = s.bus.Subscribe(eventbus.EventTypeEntityStateChanged, func(ctx context.Context, event eventbus.Event) error {
		return s.deliver(ctx, live, event)
	})
	initial := model.SubscriptionUpdate{SubscriptionID: sub.ID, Changes: []model.EntityChange{}}
	for _, entity := range s.store.List(tenant, sub.Topic.Target.Type) {
		if m.matches(entity) {
			live.matched[entity.ID] = true
			initial.Changes = append(initial.Changes, model.EntityChange{ID: entity.ID, State: entity.State})
		}
	}
	err = handler(ctx, initial)
	live.mu.Unlock()

	if err != nil {
		s.remove(live)
		return err
	}
	return nil
}

// deliver turns one state change into an update of live. An entity that stops
// matching the target is reported as removed.
func (s *SubscriptionService) deliver(ctx context.Context, live *liveSubscription, event eventbus.Event) error {
	changed, ok := event.Data().(EntityStateChanged)
	if !ok || changed.Tenant.String() != live.tenant {
		return nil
	}
	entity := changed.Entity

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.cancelled {
		return nil
	}

	var change model.EntityChange
	switch {
	case live.matcher.matches(entity):
		live.matched[entity.ID] = true
		change = model.EntityChange{ID: entity.ID, State: entity.State}
	case live.matched[entity.ID]:
		delete(live.matched, entity.ID)
		change = model.EntityChange{ID: entity.ID, Removed: true}
	default:
		return nil
	}
	return live.handler(ctx, model.SubscriptionUpdate{
		SubscriptionID: live.sub.ID,
		Changes:        []model.EntityChange{change},
	})
}

// Cancel stops the updates of sub.
func (s *SubscriptionService) Cancel(_ context.Context, sub model.Subscription) error {
	s.mu.Lock()
	live, ok := s.subs[sub.ID.Value]
	s.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError("subscription").WithCause(errors.ErrSubscriptionNotFound)
	}
	s.remove(live)
	return nil
}

func (s *SubscriptionService) remove(live *liveSubscription) {
	s.mu.Lock()
	if s.subs[live.sub.ID.Value] == live {
		delete(s.subs, live.sub.ID.Value)
	}
	s.mu.Unlock()

	live.mu.Lock()
	live.cancelled = true
	unsubscribe := live.unsubscribe
	live.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Active returns the number of activated subscriptions.
func (s *SubscriptionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
