package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"firebase-web/internal/sample"
	"firebase-web/internal/shared/eventbus"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web"
	"firebase-web/internal/web/config"
)

// Container holds the application modules and shared services with their lifecycle.
type Container struct {
	mu       sync.RWMutex
	services map[reflect.Type]interface{}
	// Module instances
	Sample    *sample.Application
	WebModule *web.WebModule
	// Shared components
	EventBus *eventbus.EventBus
	Config   *config.Config
	Logger   logger.Logger
}

// NewContainer creates an empty container logging through log.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{
		services: make(map[reflect.Type]interface{}),
		Logger:   log,
	}
}

// InitializeSample creates the sample application and the event bus it publishes on.
func (c *Container) InitializeSample() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.EventBus == nil {
		c.EventBus = eventbus.NewEventBus(c.Logger)
	}
	app, err := sample.NewApplication(c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create sample application: %w", err)
	}
	c.Sample = app
	c.registerLocked(c.EventBus)
	c.registerLocked(app)
	return nil
}

// InitializeWeb opens the configured database and creates the web module over the
// sample application.
func (c *Container) InitializeWeb(ctx context.Context, cfg *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Sample == nil {
		return fmt.Errorf("sample application must be initialized before the web module")
	}
	module, err := web.NewWebModule(ctx, cfg, web.Services{
		Commands:      c.Sample.Commands,
		Queries:       c.Sample.Queries,
		Subscriptions: c.Sample.Subscriptions,
	}, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create web module: %w", err)
	}
	c.Config = cfg
	c.WebModule = module
	c.registerLocked(cfg)
	c.registerLocked(module)
	return nil
}

// registerLocked keeps service under its dereferenced type for Resolve.
func (c *Container) registerLocked(service interface{}) {
	serviceType := reflect.TypeOf(service)
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}
	c.services[serviceType] = service
}

// Resolve resolves a service by type.
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}
	if service, exists := c.services[serviceType]; exists {
		return service, nil
	}
	return nil, fmt.Errorf("service of type %v not registered", serviceType)
}

// GetService is a generic helper for resolving services
func GetService[T any](c *Container) (T, error) {
	var zero T
	service, err := c.Resolve(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	if typedService, ok := service.(T); ok {
		return typedService, nil
	}
	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// HealthCheck pings the database of the web module.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.WebModule != nil {
		if err := c.WebModule.Database.Ping(ctx); err != nil {
			return fmt.Errorf("%s database health check failed: %w", c.WebModule.Config.Backend, err)
		}
	}
	return nil
}

// Cleanup stops the modules in reverse order of initialization.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.WebModule != nil {
		err = c.WebModule.Stop(ctx)
		c.WebModule = nil
	}
	c.Sample = nil
	c.services = make(map[reflect.Type]interface{})
	return err
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("Cleanup errors occurred: %v", err)
		return err
	}
	c.Logger.Info("DI container resources closed.")
	return nil
}
