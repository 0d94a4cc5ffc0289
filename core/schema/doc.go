// Package schema holds the desired-state model: immutable column family
// specs, table schemas, and the YAML schema document they are parsed from.
//
// A schema document contains one or more named configurations. Each
// configuration pairs the connection parameters of a target cluster with
// the list of tables that cluster should carry:
//
//	configurations:
//	  - name: production
//	    cluster:
//	      backend: cassandra
//	      hosts: [cass-1, cass-2]
//	    tables:
//	      - name: users
//	        description: account data
//	        column_families:
//	          - name: info
//	            max_versions: 3
//	          - name: stats
//	            compression: gz
//
// Optional family attributes fall back to cluster defaults at parse time,
// so the in-memory model only ever holds concrete values and structural
// equality stays well defined.
//
// The package has no behavior beyond accessors, validation and equality;
// diffing and mutation live in core/reconcile.
package schema
