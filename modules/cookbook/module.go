// Package cookbook is the mono module owning the recipe, menu and shopping
// list collections. It exposes one request-reply service per collection;
// each takes a Command and answers with an Envelope.
package cookbook

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	domain "github.com/nerggnet/WebBackend/domain/cookbook"
	"github.com/nerggnet/WebBackend/modules/tablestore"
)

// ModuleName is the name other modules depend on.
const ModuleName = "cookbook"

// Module provides the cookbook services.
type Module struct {
	cfg        Config
	store      tablestore.Store
	dispatcher *Dispatcher
	metrics    *Metrics
	logger     types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the cookbook module. The store is opened in Start.
func NewModule(cfg Config, metrics *Metrics, logger types.Logger) *Module {
	return &Module{
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.WithModule(ModuleName),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return ModuleName
}

// Start opens the table store.
func (m *Module) Start(ctx context.Context) error {
	collections := make([]string, 0, len(domain.Collections()))
	for _, c := range domain.Collections() {
		collections = append(collections, string(c))
	}

	store, err := tablestore.Open(ctx, m.cfg.Store, collections)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", m.cfg.Store.Driver, err)
	}
	m.store = store
	m.dispatcher = NewDispatcher(store, m.cfg.MaxUpdateAttempts, m.metrics, m.logger)

	m.logger.Info("Cookbook module started",
		"driver", string(m.cfg.Store.Driver),
		"max_update_attempts", m.cfg.MaxUpdateAttempts)
	return nil
}

// Stop closes the table store.
func (m *Module) Stop(_ context.Context) error {
	if m.store == nil {
		return nil
	}
	err := m.store.Close()
	m.store = nil
	m.dispatcher = nil
	m.logger.Info("Cookbook module stopped")
	return err
}

// Health pings the table store.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("store ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver":              string(m.cfg.Store.Driver),
			"max_update_attempts": m.cfg.MaxUpdateAttempts,
		},
	}
}

// RegisterServices registers one request-reply service per collection.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	for _, collection := range domain.Collections() {
		if err := helper.RegisterTypedRequestReplyService(
			container,
			string(collection),
			json.Unmarshal,
			json.Marshal,
			m.commandHandler(collection),
		); err != nil {
			return fmt.Errorf("failed to register %s service: %w", collection, err)
		}
	}

	m.logger.Info("Registered services", "services", domain.Collections())
	return nil
}

func (m *Module) commandHandler(collection domain.Collection) func(context.Context, Command, *mono.Msg) (Envelope, error) {
	return func(ctx context.Context, cmd Command, _ *mono.Msg) (Envelope, error) {
		return m.Handle(ctx, collection, cmd), nil
	}
}

// Handle runs a command in-process.
func (m *Module) Handle(ctx context.Context, collection domain.Collection, cmd Command) Envelope {
	if m.dispatcher == nil {
		return Failure(fmt.Errorf("%w: cookbook module not started", ErrStorage))
	}
	return m.dispatcher.Handle(ctx, collection, cmd)
}
