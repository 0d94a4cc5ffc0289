// Package cluster defines the admin client port: the abstract capability
// set the reconciliation engine calls to inspect and mutate a
// column-family storage cluster.
//
// The engine treats the client as already connected; connection
// parameters, authentication and timeouts are the concern of whichever
// adapter implements the interface (see feature/bigtable and
// feature/cassandra). A testify-style mock and a programmable in-memory
// catalog live in cluster/mocks for deterministic tests without network
// access.
package cluster
