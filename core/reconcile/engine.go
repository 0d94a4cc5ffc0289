package reconcile

import (
	"context"
	"fmt"

	"tablekeeper/core/cluster"
	"tablekeeper/core/schema"

	"github.com/google/uuid"
)

// Engine reconciles a set of desired table schemas against one cluster.
// An engine represents a single run: it owns a fresh catalog snapshot,
// carries a run ID for event correlation, and is discarded afterwards.
// Tables are processed strictly one at a time; disable/enable cycles on
// the same cluster serialize anyway, so interleaving adds risk without
// benefit.
type Engine struct {
	client cluster.AdminClient
	snap   *Snapshot
	sink   EventSink
	runID  string
}

// NewEngine builds an engine for one reconciliation run. A nil sink
// disables event publishing.
func NewEngine(client cluster.AdminClient, sink EventSink) *Engine {
	if sink == nil {
		sink = nopSink{}
	}
	return &Engine{
		client: client,
		snap:   NewSnapshot(client),
		sink:   sink,
		runID:  uuid.NewString(),
	}
}

// RunID returns the identifier attached to this run's events.
func (e *Engine) RunID() string {
	return e.runID
}

// Reconcile processes the desired tables in the order supplied and
// returns one result per table. A failure on one table never aborts the
// remaining tables; the caller decides overall exit status from the
// results.
func (e *Engine) Reconcile(ctx context.Context, tables []schema.TableSchema, opts Options) []Result {
	results := make([]Result, 0, len(tables))
	for _, table := range tables {
		e.sink.Publish(Event{Kind: EventTableStarted, RunID: e.runID, Table: table.Name})
		result := e.reconcileTable(ctx, table, opts)
		e.sink.Publish(Event{Kind: EventOutcome, RunID: e.runID, Table: table.Name, Outcome: result.Outcome, Err: result.Err})
		results = append(results, result)
	}
	return results
}

// Plan computes the diff for every desired table without mutating
// anything. Used by the HTTP surface and dry-run style inspection.
func (e *Engine) Plan(ctx context.Context, tables []schema.TableSchema) ([]TableDiff, error) {
	diffs := make([]TableDiff, 0, len(tables))
	for _, table := range tables {
		if err := table.Validate(); err != nil {
			return nil, err
		}
		remote, err := e.snap.Lookup(ctx, table.Name)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, Diff(table, remote))
	}
	return diffs, nil
}

// ListRemote returns the cluster's current table catalog.
func (e *Engine) ListRemote(ctx context.Context) ([]cluster.TableDescriptor, error) {
	tables, err := e.snap.Tables(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]cluster.TableDescriptor, 0, len(tables))
	for _, desc := range tables {
		out = append(out, desc)
	}
	return out, nil
}

// reconcileTable drives one table through the state machine:
//
//	Inspecting -> {UpToDate | NeedsCreate | NeedsUpdate}
//	            -> (Disabling -> Mutating -> Enabling ->) Done | Failed
//
// Validation happens before the first remote call so an inconsistent
// schema never leaves partial state. Once a disable has been issued the
// sequence runs to completion or leaves the table disabled; the result
// then records which mutations were applied so a re-run can resume from
// the partially mutated state.
func (e *Engine) reconcileTable(ctx context.Context, desired schema.TableSchema, opts Options) Result {
	result := Result{Table: desired.Name}

	if err := desired.Validate(); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	// Inspecting: non-forced lookup against the run's snapshot.
	remote, err := e.snap.Lookup(ctx, desired.Name)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	result.Exists = remote != nil

	if opts.ListOnly {
		if remote == nil {
			result.Outcome = OutcomeSkippedNoCreate
		} else {
			result.Outcome = OutcomeUnchanged
		}
		return result
	}

	// NeedsCreate.
	if remote == nil {
		if !opts.AllowCreateOrModify {
			result.Outcome = OutcomeSkippedNoCreate
			return result
		}
		if err := e.client.CreateTable(ctx, descriptorFor(desired)); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = fmt.Errorf("create table %s: %w", desired.Name, err)
			return result
		}
		result.Outcome = OutcomeCreated
		return result
	}

	diff := Diff(desired, remote)
	adds, mods, dels := diff.Counts()
	e.sink.Publish(Event{Kind: EventDiffComputed, RunID: e.runID, Table: desired.Name, Adds: adds, Mods: mods, Dels: dels})

	// UpToDate.
	if diff.Empty() {
		result.Outcome = OutcomeUnchanged
		return result
	}

	// NeedsUpdate, but mutation not permitted.
	if !opts.AllowCreateOrModify {
		result.Outcome = OutcomeSkippedNoCreate
		return result
	}

	return e.applyDiff(ctx, desired.Name, diff, opts, result)
}

// applyDiff runs the offline mutation window: disable, apply the diff's
// mutations, enable, then force-refresh the snapshot so later reads see
// the new remote state.
func (e *Engine) applyDiff(ctx context.Context, table string, diff TableDiff, opts Options, result Result) Result {
	if err := e.client.DisableTable(ctx, table); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("disable table %s: %w", table, err)
		return result
	}
	e.sink.Publish(Event{Kind: EventTableDisabled, RunID: e.runID, Table: table})

	// From here on the table is offline: a failure leaves it disabled
	// with result.Applied recording how far the mutations got.
	for _, change := range diff.Modify {
		if err := e.client.ModifyColumnFamily(ctx, table, change.New); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = fmt.Errorf("modify family %s.%s: %w", table, change.New.Name, err)
			return result
		}
		result.Applied = append(result.Applied, "modify "+change.New.Name)
		e.publishMutation(opts, table, "modify "+change.New.Name)
	}
	for _, spec := range diff.Add {
		if err := e.client.AddColumnFamily(ctx, table, spec); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = fmt.Errorf("add family %s.%s: %w", table, spec.Name, err)
			return result
		}
		result.Applied = append(result.Applied, "add "+spec.Name)
		e.publishMutation(opts, table, "add "+spec.Name)
	}
	for _, name := range diff.Delete {
		if err := e.client.DeleteColumnFamily(ctx, table, name); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = fmt.Errorf("delete family %s.%s: %w", table, name, err)
			return result
		}
		result.Applied = append(result.Applied, "delete "+name)
		e.publishMutation(opts, table, "delete "+name)
	}

	if err := e.client.EnableTable(ctx, table); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("enable table %s: %w", table, err)
		return result
	}
	e.sink.Publish(Event{Kind: EventTableEnabled, RunID: e.runID, Table: table})

	if err := e.snap.Refresh(ctx); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("refresh catalog after updating %s: %w", table, err)
		return result
	}

	result.Outcome = OutcomeUpdated
	return result
}

func (e *Engine) publishMutation(opts Options, table, mutation string) {
	if !opts.Verbose {
		return
	}
	e.sink.Publish(Event{Kind: EventMutationApplied, RunID: e.runID, Table: table, Mutation: mutation})
}

// descriptorFor builds the full remote descriptor for a create from the
// desired schema. New tables come up enabled; no disable cycle applies.
func descriptorFor(desired schema.TableSchema) cluster.TableDescriptor {
	desc := cluster.TableDescriptor{
		Name:     desired.Name,
		Families: make(map[string]schema.ColumnFamilySpec, len(desired.Families)),
	}
	for name, spec := range desired.Families {
		desc.Families[name] = spec
	}
	return desc
}
