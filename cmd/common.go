package cmd

import (
	"context"
	"fmt"
	"strings"

	"tablekeeper/core/cluster"
	"tablekeeper/core/config"
	"tablekeeper/core/schema"
	"tablekeeper/core/storage"
	"tablekeeper/feature/bigtable"
	"tablekeeper/feature/cassandra"

	"go.uber.org/zap"
)

// loadDocument resolves the schema source (config plus flag overrides),
// fetches the document and selects the requested configuration.
func loadDocument(ctx context.Context, cfg *config.Config) (*schema.Configuration, error) {
	source := cfg.Schema.Path
	if schemaFlag != "" {
		source = schemaFlag
	}
	name := cfg.Schema.Name
	if configFlag != "" {
		name = configFlag
	}

	var store storage.Client
	if strings.HasPrefix(source, "s3://") {
		var err error
		if store, err = storage.NewClient(cfg.Storage); err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
	}

	doc, err := schema.Load(ctx, source, store)
	if err != nil {
		return nil, err
	}
	return doc.Resolve(name)
}

// newAdminClient builds the backend adapter selected by the cluster
// parameters. The returned closer releases the adapter's connections.
func newAdminClient(ctx context.Context, params schema.ClusterParams, logg *zap.Logger) (cluster.AdminClient, func() error, error) {
	switch params.Backend {
	case "bigtable":
		adapter, err := bigtable.New(ctx, params)
		if err != nil {
			return nil, nil, err
		}
		logg.Info("Connected to cluster", zap.String("backend", "bigtable"))
		return adapter, adapter.Close, nil
	case "cassandra":
		adapter, err := cassandra.New(params)
		if err != nil {
			return nil, nil, err
		}
		logg.Info("Connected to cluster", zap.String("backend", "cassandra"), zap.Strings("hosts", params.Hosts))
		return adapter, adapter.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cluster backend %q (expected bigtable or cassandra)", params.Backend)
	}
}
