package bigtable

import (
	"context"
	"fmt"

	"tablekeeper/core/cluster"
	"tablekeeper/core/schema"

	"cloud.google.com/go/bigtable"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const userAgent = "tablekeeper"

// Adapter implements cluster.AdminClient on top of the Bigtable admin API.
//
// Bigtable mutates schemas online, so DisableTable and EnableTable are
// no-ops. Version retention and expiry map onto GC policies; the remaining
// family attributes have no Bigtable equivalent and are reported at their
// cluster defaults so they never show up as drift.
type Adapter struct {
	admin *bigtable.AdminClient
}

var _ cluster.AdminClient = (*Adapter)(nil)

// New connects to the instance described by the cluster parameters.
// Required options: project, instance.
func New(ctx context.Context, params schema.ClusterParams) (*Adapter, error) {
	project := params.Option("project", "")
	instance := params.Option("instance", "")
	if project == "" || instance == "" {
		return nil, fmt.Errorf("bigtable backend requires the project and instance cluster options")
	}

	admin, err := bigtable.NewAdminClient(ctx, project, instance, option.WithUserAgent(userAgent))
	if err != nil {
		return nil, fmt.Errorf("connect bigtable admin %s/%s: %w", project, instance, err)
	}
	return &Adapter{admin: admin}, nil
}

// Close releases the underlying admin connection.
func (a *Adapter) Close() error {
	return a.admin.Close()
}

func (a *Adapter) ListTables(ctx context.Context) ([]cluster.TableDescriptor, error) {
	names, err := a.admin.Tables(ctx)
	if err != nil {
		return nil, &cluster.CommError{Op: "list tables", Err: err}
	}

	descriptors := make([]cluster.TableDescriptor, 0, len(names))
	for _, name := range names {
		info, err := a.admin.TableInfo(ctx, name)
		if err != nil {
			return nil, &cluster.CommError{Op: "describe table", Table: name, Err: err}
		}
		desc := cluster.TableDescriptor{
			Name:     name,
			Families: make(map[string]schema.ColumnFamilySpec, len(info.FamilyInfos)),
		}
		for _, fi := range info.FamilyInfos {
			desc.Families[fi.Name] = familySpec(fi)
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

func (a *Adapter) CreateTable(ctx context.Context, desc cluster.TableDescriptor) error {
	families := make(map[string]bigtable.Family, len(desc.Families))
	for name, spec := range desc.Families {
		families[name] = bigtable.Family{GCPolicy: gcPolicyFor(spec)}
	}

	err := a.admin.CreateTableFromConf(ctx, &bigtable.TableConf{
		TableID:        desc.Name,
		ColumnFamilies: families,
	})
	// Racing creators are fine, the table is there either way.
	if status.Code(err) == codes.AlreadyExists {
		err = nil
	}
	if err != nil {
		return &cluster.CommError{Op: "create table", Table: desc.Name, Err: err}
	}
	return nil
}

// DisableTable is a no-op. Bigtable applies schema changes online and has
// no table lifecycle state.
func (a *Adapter) DisableTable(ctx context.Context, table string) error {
	return nil
}

// EnableTable is a no-op, see DisableTable.
func (a *Adapter) EnableTable(ctx context.Context, table string) error {
	return nil
}

func (a *Adapter) AddColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	err := a.admin.CreateColumnFamily(ctx, table, spec.Name)
	if status.Code(err) == codes.AlreadyExists {
		err = nil
	}
	if err != nil {
		return &cluster.CommError{Op: "add family", Table: table, Err: err}
	}
	return a.setPolicy(ctx, table, spec)
}

func (a *Adapter) ModifyColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	return a.setPolicy(ctx, table, spec)
}

func (a *Adapter) DeleteColumnFamily(ctx context.Context, table, family string) error {
	if err := a.admin.DeleteColumnFamily(ctx, table, family); err != nil {
		return &cluster.CommError{Op: "delete family", Table: table, Err: err}
	}
	return nil
}

func (a *Adapter) setPolicy(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	if err := a.admin.SetGCPolicy(ctx, table, spec.Name, gcPolicyFor(spec)); err != nil {
		return &cluster.CommError{Op: "set gc policy", Table: table, Err: err}
	}
	return nil
}

// familySpec converts reported family info back into a spec. Attributes
// Bigtable cannot express come back as their defaults.
func familySpec(fi bigtable.FamilyInfo) schema.ColumnFamilySpec {
	maxVersions, ttl := parseGCPolicy(fi.GCPolicy)
	return schema.ColumnFamilySpec{
		Name:              fi.Name,
		MaxVersions:       maxVersions,
		TTLSeconds:        ttl,
		Compression:       schema.DefaultCompression,
		BlockCacheEnabled: true,
		BlockSize:         schema.DefaultBlockSize,
		BloomFilter:       schema.DefaultBloomFilter,
	}
}
