package reconcile

import (
	"context"
	"sync"

	"tablekeeper/core/cluster"
)

// Snapshot is a lazily populated cache of the cluster's table catalog.
// Full catalog scans are expensive on this class of storage engine, so
// existence checks and lookups are answered from one cached ListTables
// call instead of hitting the cluster per table.
//
// A snapshot belongs to exactly one reconciliation run and is discarded
// with it; it is not designed for sharing across concurrent runs.
type Snapshot struct {
	client cluster.AdminClient

	mu     sync.Mutex
	tables map[string]cluster.TableDescriptor
	loaded bool
}

// NewSnapshot wraps an admin client with a catalog cache.
func NewSnapshot(client cluster.AdminClient) *Snapshot {
	return &Snapshot{client: client}
}

// Tables returns the table catalog, fetching it from the cluster on first
// use or when force is set. On a fetch failure the previous cache is kept
// untouched; the replacement is all-or-nothing.
func (s *Snapshot) Tables(ctx context.Context, force bool) (map[string]cluster.TableDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx, force); err != nil {
		return nil, err
	}
	return s.tables, nil
}

// Lookup returns the cached descriptor for a table, nil when the table is
// absent remotely. The cache is only fetched when it has never been
// populated.
func (s *Snapshot) Lookup(ctx context.Context, name string) (*cluster.TableDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx, false); err != nil {
		return nil, err
	}
	desc, ok := s.tables[name]
	if !ok {
		return nil, nil
	}
	return &desc, nil
}

// Exists reports whether a table is present in the cached catalog.
func (s *Snapshot) Exists(ctx context.Context, name string) (bool, error) {
	desc, err := s.Lookup(ctx, name)
	if err != nil {
		return false, err
	}
	return desc != nil, nil
}

// Refresh forces a full catalog reload. The admin port exposes no
// per-table fetch, so refreshing a single entry after a mutation means
// replacing the whole cached catalog.
func (s *Snapshot) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoaded(ctx, true)
}

// Invalidate drops the cache so the next access fetches fresh state.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = nil
	s.loaded = false
}

// ensureLoaded fetches the catalog if needed. Callers hold s.mu.
func (s *Snapshot) ensureLoaded(ctx context.Context, force bool) error {
	if s.loaded && !force {
		return nil
	}
	listed, err := s.client.ListTables(ctx)
	if err != nil {
		return err
	}
	tables := make(map[string]cluster.TableDescriptor, len(listed))
	for _, desc := range listed {
		tables[desc.Name] = desc
	}
	s.tables = tables
	s.loaded = true
	return nil
}
