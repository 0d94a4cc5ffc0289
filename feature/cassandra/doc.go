// Package cassandra adapts a Cassandra cluster to the cluster
// administration interface used by the reconciliation engine.
//
// # Layout
//
// A reconciled table maps onto a keyspace, each column family onto a
// wide-row table (key, column, value) inside it. Managed keyspaces carry
// a configurable name prefix so the adapter never touches keyspaces it
// does not own. Remote state is read back from the system_schema tables.
//
// # Attribute Mapping
//
// Compression maps onto the table compression option, time_to_live onto
// default_time_to_live, block caching onto the caching option and the
// bloom filter type onto bloom_filter_fp_chance. The remaining family
// attributes (versioning, the in-memory tier, block size) have no
// Cassandra equivalent and are reported at their defaults so they never
// produce drift.
//
// # Configuration
//
// The adapter is selected with backend "cassandra":
//
//	cluster:
//	  backend: cassandra
//	  hosts: [cass-1, cass-2]
//	  options:
//	    prefix: tk_
//	    replication_factor: "3"
package cassandra
