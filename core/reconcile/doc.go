// Package reconcile implements the reconciliation engine: it compares
// desired table schemas against a cluster's observed state and applies
// the minimal mutation set that aligns them.
//
// # Architecture
//
// The engine is built from three pieces:
//
// 1. Snapshot: a per-run cache of the cluster's table catalog, populated
// by a single ListTables call so per-table existence checks never turn
// into repeated full catalog scans.
//
// 2. Diff: a pure function partitioning column families by name into
// add/modify/delete sets using structural equality, with an empty diff as
// the authoritative "already matches" signal.
//
// 3. Engine: the per-table state machine. Missing tables are created in
// one call (new tables come up enabled); existing tables that drifted go
// through the offline window the storage engine requires for structural
// changes: disable, apply mutations, enable.
//
// # Failure model
//
// Tables are processed independently; one failure never aborts the rest
// of the run. If a mutation fails mid-window the table is left disabled
// with the already-applied mutations recorded in the result. There is no
// automatic rollback: re-running reconciliation recomputes the diff
// against the partially mutated state and finishes the job, which makes
// re-invocation the recovery mechanism.
//
// # Usage
//
//	engine := reconcile.NewEngine(client, reconcile.NewLogSink(log))
//	results := engine.Reconcile(ctx, cfg.Tables, reconcile.Options{
//	    AllowCreateOrModify: true,
//	})
package reconcile
