package sample

import (
	"firebase-web/internal/shared/eventbus"
	"firebase-web/internal/shared/logger"
)

// Application bundles the services of the sample application around one store.
type Application struct {
	Store         *Store
	Commands      *CommandService
	Queries       *QueryService
	Subscriptions *SubscriptionService
}

// NewApplication wires the sample services over a fresh store and bus.
func NewApplication(bus eventbus.EventBusInterface, log logger.Logger) (*Application, error) {
	filters, err := NewFilters(DefaultFilterCacheSize)
	if err != nil {
		return nil, err
	}
	store := NewStore()
	return &Application{
		Store:         store,
		Commands:      NewCommandService(store, bus, log),
		Queries:       NewQueryService(store, filters),
		Subscriptions: NewSubscriptionService(store, filters, bus, log),
	}, nil
}
