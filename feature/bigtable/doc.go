// Package bigtable adapts the Cloud Bigtable admin API to the cluster
// administration interface used by the reconciliation engine.
//
// # Attribute Mapping
//
// Bigtable expresses version retention and cell expiry through garbage
// collection policies; max_versions and time_to_live map onto a versions
// rule and an age rule. The remaining family attributes (compression,
// caching, block size, bloom filters) are managed by Bigtable itself and
// are reported at their defaults so they never produce drift.
//
// # Lifecycle
//
// Bigtable applies schema changes to online tables, so the disable and
// enable operations succeed without doing anything.
//
// # Configuration
//
// The adapter is selected with backend "bigtable" and requires the
// project and instance cluster options:
//
//	cluster:
//	  backend: bigtable
//	  options:
//	    project: my-project
//	    instance: my-instance
package bigtable
