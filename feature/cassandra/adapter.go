package cassandra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tablekeeper/core/cluster"
	"tablekeeper/core/schema"

	"github.com/gocql/gocql"
)

// Adapter implements cluster.AdminClient against a Cassandra cluster.
//
// A reconciled table maps onto a keyspace, each column family onto a
// wide-row table inside it. Keyspaces managed by the adapter carry a name
// prefix so foreign keyspaces are never touched. Compression,
// time-to-live, block caching and bloom filters translate to table
// options; the remaining family attributes have no Cassandra equivalent
// and are reported at their defaults.
type Adapter struct {
	sess              *gocql.Session
	prefix            string
	replicationFactor int
}

var _ cluster.AdminClient = (*Adapter)(nil)

// New connects to the cluster described by the parameters. Hosts lists the
// contact points; the prefix, replication_factor, port, timeout, retries
// and interval options tune the adapter.
func New(params schema.ClusterParams) (*Adapter, error) {
	if len(params.Hosts) == 0 {
		return nil, fmt.Errorf("cassandra backend requires at least one host")
	}

	timeout, err := params.IntOption("timeout", 10)
	if err != nil {
		return nil, err
	}
	retries, err := params.IntOption("retries", 0)
	if err != nil {
		return nil, err
	}
	interval, err := params.IntOption("interval", 2)
	if err != nil {
		return nil, err
	}
	port, err := params.IntOption("port", 0)
	if err != nil {
		return nil, err
	}
	rf, err := params.IntOption("replication_factor", 1)
	if err != nil {
		return nil, err
	}

	config := gocql.NewCluster(params.Hosts...)
	config.Timeout = time.Second * time.Duration(timeout)
	if port > 0 {
		config.Port = port
	}

	var sess *gocql.Session
	for {
		if sess, err = config.CreateSession(); err == nil || retries <= 0 {
			break
		}
		retries--
		time.Sleep(time.Second * time.Duration(interval))
	}
	if err != nil {
		return nil, fmt.Errorf("connect cassandra %s: %w", strings.Join(params.Hosts, ","), err)
	}

	return &Adapter{
		sess:              sess,
		prefix:            params.Option("prefix", "tk_"),
		replicationFactor: rf,
	}, nil
}

// Close releases the underlying session.
func (a *Adapter) Close() error {
	a.sess.Close()
	return nil
}

func (a *Adapter) keyspace(table string) string {
	return a.prefix + table
}

func (a *Adapter) ListTables(ctx context.Context) ([]cluster.TableDescriptor, error) {
	const q = "select keyspace_name from system_schema.keyspaces"
	iter := a.sess.Query(q).WithContext(ctx).Iter()

	var keyspaces []string
	var name string
	for iter.Scan(&name) {
		if strings.HasPrefix(name, a.prefix) {
			keyspaces = append(keyspaces, name)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, &cluster.CommError{Op: "list tables", Err: err}
	}

	descriptors := make([]cluster.TableDescriptor, 0, len(keyspaces))
	for _, ks := range keyspaces {
		desc, err := a.describeKeyspace(ctx, ks)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

func (a *Adapter) describeKeyspace(ctx context.Context, keyspace string) (cluster.TableDescriptor, error) {
	const q = `select
			table_name,
			bloom_filter_fp_chance,
			caching,
			compression,
			default_time_to_live
		from system_schema.tables
		where keyspace_name = ?`

	table := strings.TrimPrefix(keyspace, a.prefix)
	desc := cluster.TableDescriptor{Name: table, Families: make(map[string]schema.ColumnFamilySpec)}

	iter := a.sess.Query(q, keyspace).WithContext(ctx).Iter()
	var (
		family      string
		chance      float64
		caching     map[string]string
		compression map[string]string
		ttl         int
	)
	for iter.Scan(&family, &chance, &caching, &compression, &ttl) {
		desc.Families[family] = familySpec(family, chance, caching, compression, ttl)
	}
	if err := iter.Close(); err != nil {
		return cluster.TableDescriptor{}, &cluster.CommError{Op: "describe table", Table: table, Err: err}
	}
	return desc, nil
}

func (a *Adapter) CreateTable(ctx context.Context, desc cluster.TableDescriptor) error {
	ks := a.keyspace(desc.Name)
	if err := a.exec(ctx, createKeyspaceStmt(ks, a.replicationFactor)); err != nil {
		return &cluster.CommError{Op: "create table", Table: desc.Name, Err: err}
	}
	for _, spec := range desc.Families {
		if err := a.exec(ctx, createFamilyStmt(ks, spec)); err != nil {
			return &cluster.CommError{Op: "create table", Table: desc.Name, Err: err}
		}
	}
	return nil
}

// DisableTable is a no-op. Cassandra alters schemas on live keyspaces.
func (a *Adapter) DisableTable(ctx context.Context, table string) error {
	return nil
}

// EnableTable is a no-op, see DisableTable.
func (a *Adapter) EnableTable(ctx context.Context, table string) error {
	return nil
}

func (a *Adapter) AddColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	if err := a.exec(ctx, createFamilyStmt(a.keyspace(table), spec)); err != nil {
		return &cluster.CommError{Op: "add family", Table: table, Err: err}
	}
	return nil
}

func (a *Adapter) ModifyColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	if err := a.exec(ctx, alterFamilyStmt(a.keyspace(table), spec)); err != nil {
		return &cluster.CommError{Op: "modify family", Table: table, Err: err}
	}
	return nil
}

func (a *Adapter) DeleteColumnFamily(ctx context.Context, table, family string) error {
	if err := a.exec(ctx, dropFamilyStmt(a.keyspace(table), family)); err != nil {
		return &cluster.CommError{Op: "delete family", Table: table, Err: err}
	}
	return nil
}

func (a *Adapter) exec(ctx context.Context, stmt string) error {
	return a.sess.Query(stmt).WithContext(ctx).Exec()
}

// familySpec converts a system_schema row back into a spec. Attributes
// Cassandra cannot express come back as their defaults.
func familySpec(name string, chance float64, caching, compression map[string]string, ttl int) schema.ColumnFamilySpec {
	return schema.ColumnFamilySpec{
		Name:              name,
		MaxVersions:       schema.DefaultMaxVersions,
		Compression:       compressionName(compression),
		BlockCacheEnabled: caching["keys"] != "NONE",
		BlockSize:         schema.DefaultBlockSize,
		BloomFilter:       bloomFilterName(chance),
		TTLSeconds:        ttl,
	}
}

// bloomFilterName reverses the false-positive chance written by
// familyOptions into the filter type it stands for.
func bloomFilterName(chance float64) string {
	for name, c := range bloomChances {
		if c == chance {
			return name
		}
	}
	return schema.DefaultBloomFilter
}

// compressionName reverses the compressor class reported by
// system_schema.tables, e.g. "org.apache.cassandra.io.compress.LZ4Compressor".
func compressionName(compression map[string]string) string {
	class := compression["class"]
	if class == "" {
		return schema.DefaultCompression
	}
	class = class[strings.LastIndex(class, ".")+1:]
	for name, compressor := range compressorClasses {
		if compressor == class {
			return name
		}
	}
	return schema.DefaultCompression
}
