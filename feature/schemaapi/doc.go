// Package schemaapi exposes the reconciliation engine over HTTP.
//
// It provides read endpoints for the remote catalog and the computed plan,
// and a write endpoint that runs a reconciliation. Every request builds a
// fresh engine, so the API always works against current remote state.
//
// # Endpoints
//
//   - GET /schema/tables: the remote table catalog
//   - GET /schema/plan: the diffs a run would apply
//   - POST /schema/reconcile: run a reconciliation (no_create=true restricts
//     the run to inspection)
//
// The feature is registered through the core/loader manager and inherits
// the application's auth and ray id middleware.
package schemaapi
