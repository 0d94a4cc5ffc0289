package schemaapi

import (
	"context"

	"tablekeeper/core/cluster"
	"tablekeeper/core/reconcile"
	"tablekeeper/core/schema"

	"go.uber.org/zap"
)

// Service exposes reconciliation operations over HTTP. Every request runs
// against a fresh engine so no catalog state leaks between requests.
type Service struct {
	client cluster.AdminClient
	tables []schema.TableSchema
	logger *zap.Logger
}

// NewService creates a new schema API service.
func NewService(client cluster.AdminClient, tables []schema.TableSchema, logger *zap.Logger) *Service {
	return &Service{client: client, tables: tables, logger: logger}
}

// ListRemote returns the remote table catalog.
func (s *Service) ListRemote(ctx context.Context) ([]cluster.TableDescriptor, error) {
	return reconcile.NewEngine(s.client, nil).ListRemote(ctx)
}

// Plan computes the diffs a reconciliation run would apply.
func (s *Service) Plan(ctx context.Context) ([]reconcile.TableDiff, error) {
	return reconcile.NewEngine(s.client, nil).Plan(ctx, s.tables)
}

// Reconcile runs the desired schema set against the cluster.
func (s *Service) Reconcile(ctx context.Context, opts reconcile.Options) []reconcile.Result {
	engine := reconcile.NewEngine(s.client, reconcile.NewLogSink(s.logger))
	return engine.Reconcile(ctx, s.tables, opts)
}
