package cluster

import (
	"context"

	"tablekeeper/core/schema"
)

// TableDescriptor is the observed state of one remote table: its name and
// the column families currently present on the cluster. Descriptors are
// only ever produced by an AdminClient, never constructed by hand.
type TableDescriptor struct {
	// Name is the remote table name.
	Name string
	// Families maps family name to its observed spec.
	Families map[string]schema.ColumnFamilySpec
}

// Family returns the observed spec for the named column family.
func (d TableDescriptor) Family(name string) (schema.ColumnFamilySpec, bool) {
	spec, ok := d.Families[name]
	return spec, ok
}

// AdminClient is the capability set the reconciliation engine needs from a
// cluster. Every call is synchronous; any failure is fatal to the table
// being reconciled. Implementations own their timeout and retry policy,
// the engine imposes neither.
//
// Mutating a column family requires the table to be offline on engines
// that enforce it; DisableTable and EnableTable bracket such mutations.
// Backends whose tables stay online implement both as no-ops.
type AdminClient interface {
	// ListTables returns descriptors for every table on the cluster.
	ListTables(ctx context.Context) ([]TableDescriptor, error)
	// CreateTable creates a table with all of its column families. The
	// table comes up enabled.
	CreateTable(ctx context.Context, desc TableDescriptor) error
	// DisableTable takes a table offline for structural mutations.
	DisableTable(ctx context.Context, table string) error
	// EnableTable brings a table back online.
	EnableTable(ctx context.Context, table string) error
	// AddColumnFamily adds a new column family to an existing table.
	AddColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error
	// ModifyColumnFamily replaces the configuration of an existing family.
	ModifyColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error
	// DeleteColumnFamily removes a column family by name.
	DeleteColumnFamily(ctx context.Context, table, family string) error
}
