package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tablekeeper/core/cluster/mocks"
	"tablekeeper/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_CreateMissingTable(t *testing.T) {
	catalog := mocks.NewCatalog()
	engine := NewEngine(catalog, nil)

	desired := table("audit", family("trail"))
	results := engine.Reconcile(context.Background(), []schema.TableSchema{desired}, Options{AllowCreateOrModify: true})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeCreated, results[0].Outcome)
	assert.False(t, results[0].Exists)

	created, ok := catalog.Table("audit")
	require.True(t, ok)
	assert.Contains(t, created.Families, "trail")
	assert.False(t, catalog.Disabled("audit"), "new tables come up enabled")
	assert.Equal(t, []string{"list", "create audit"}, catalog.Calls)
}

func TestEngine_NoCreateModeSkipsMissingTable(t *testing.T) {
	catalog := mocks.NewCatalog()
	engine := NewEngine(catalog, nil)

	desired := table("audit", family("trail"))
	results := engine.Reconcile(context.Background(), []schema.TableSchema{desired}, Options{AllowCreateOrModify: false})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeSkippedNoCreate, results[0].Outcome)

	_, ok := catalog.Table("audit")
	assert.False(t, ok)
	assert.Equal(t, []string{"list"}, catalog.Calls, "no-create mode must not issue any mutation")
}

func TestEngine_UnchangedTableTouchesNothing(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("events", family("data"))
	engine := NewEngine(catalog, nil)

	desired := table("events", family("data"))
	results := engine.Reconcile(context.Background(), []schema.TableSchema{desired}, Options{AllowCreateOrModify: true})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeUnchanged, results[0].Outcome)
	assert.True(t, results[0].Exists)
	assert.Equal(t, []string{"list"}, catalog.Calls, "a matching table must not see a disable/enable cycle")
}

func TestEngine_UpdateAppliesDiffInsideOfflineWindow(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("users",
		family("info", func(s *schema.ColumnFamilySpec) { s.MaxVersions = 1 }),
		family("legacy"),
	)
	engine := NewEngine(catalog, nil)

	desired := table("users",
		family("info", func(s *schema.ColumnFamilySpec) { s.MaxVersions = 3 }),
		family("stats", func(s *schema.ColumnFamilySpec) { s.Compression = "gz" }),
	)
	results := engine.Reconcile(context.Background(), []schema.TableSchema{desired}, Options{AllowCreateOrModify: true})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeUpdated, results[0].Outcome)
	assert.Equal(t, []string{"modify info", "add stats", "delete legacy"}, results[0].Applied)

	// disable -> modify -> add -> delete -> enable -> forced refresh.
	assert.Equal(t, []string{
		"list",
		"disable users",
		"modify users info",
		"add users stats",
		"delete users legacy",
		"enable users",
		"list",
	}, catalog.Calls)

	assert.False(t, catalog.Disabled("users"))
	updated, ok := catalog.Table("users")
	require.True(t, ok)
	assert.Equal(t, 3, updated.Families["info"].MaxVersions)
	assert.Contains(t, updated.Families, "stats")
	assert.NotContains(t, updated.Families, "legacy")
}

func TestEngine_ListOnlyReportsExistence(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("present", family("cf"))
	engine := NewEngine(catalog, nil)

	tables := []schema.TableSchema{
		table("present", family("other")), // drifted, but list-only must not care
		table("absent", family("cf")),
	}
	results := engine.Reconcile(context.Background(), tables, Options{ListOnly: true, AllowCreateOrModify: true})

	require.Len(t, results, 2)
	assert.Equal(t, OutcomeUnchanged, results[0].Outcome)
	assert.True(t, results[0].Exists)
	assert.Equal(t, OutcomeSkippedNoCreate, results[1].Outcome)
	assert.False(t, results[1].Exists)
	assert.Equal(t, []string{"list"}, catalog.Calls, "list-only mode may only scan the catalog")
}

func TestEngine_NoCreateModeSkipsDriftedTable(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("users", family("info"))
	engine := NewEngine(catalog, nil)

	desired := table("users", family("info", func(s *schema.ColumnFamilySpec) { s.TTLSeconds = 60 }))
	results := engine.Reconcile(context.Background(), []schema.TableSchema{desired}, Options{AllowCreateOrModify: false})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeSkippedNoCreate, results[0].Outcome)
	assert.Equal(t, []string{"list"}, catalog.Calls)
}

func TestEngine_MutationFailureLeavesTableDisabled(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("users",
		family("info", func(s *schema.ColumnFamilySpec) { s.MaxVersions = 1 }),
		family("legacy"),
	)
	catalog.FailNext["add"] = fmt.Errorf("region server unavailable")
	engine := NewEngine(catalog, nil)

	desired := table("users",
		family("info", func(s *schema.ColumnFamilySpec) { s.MaxVersions = 3 }),
		family("stats"),
	)
	results := engine.Reconcile(context.Background(), []schema.TableSchema{desired}, Options{AllowCreateOrModify: true})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeFailed, results[0].Outcome)
	assert.Error(t, results[0].Err)

	// The modify ran before the add failed; the table stays disabled and
	// the result says how far the window got.
	assert.Equal(t, []string{"modify info"}, results[0].Applied)
	assert.True(t, catalog.Disabled("users"), "no automatic rollback: the table is left offline")

	// Re-running recomputes the diff against the partially mutated state
	// and finishes the job.
	rerun := NewEngine(catalog, nil)
	results = rerun.Reconcile(context.Background(), []schema.TableSchema{desired}, Options{AllowCreateOrModify: true})
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeUpdated, results[0].Outcome)
	assert.Equal(t, []string{"add stats", "delete legacy"}, results[0].Applied, "the completed modify must not be re-applied")
	assert.False(t, catalog.Disabled("users"))

	// A third run converges to a no-op.
	final := NewEngine(catalog, nil)
	results = final.Reconcile(context.Background(), []schema.TableSchema{desired}, Options{AllowCreateOrModify: true})
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeUnchanged, results[0].Outcome)
}

func TestEngine_FailureDoesNotAbortRemainingTables(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("first", family("cf"))
	catalog.FailNext["disable"] = fmt.Errorf("lock timeout")
	engine := NewEngine(catalog, nil)

	tables := []schema.TableSchema{
		table("first", family("cf", func(s *schema.ColumnFamilySpec) { s.InMemory = true })),
		table("second", family("cf")),
	}
	results := engine.Reconcile(context.Background(), tables, Options{AllowCreateOrModify: true})

	require.Len(t, results, 2)
	assert.Equal(t, OutcomeFailed, results[0].Outcome)
	assert.Equal(t, OutcomeCreated, results[1].Outcome, "tables are reconciled independently")
}

func TestEngine_InvalidSchemaFailsBeforeAnyRemoteCall(t *testing.T) {
	catalog := mocks.NewCatalog()
	engine := NewEngine(catalog, nil)

	bad := table("broken", family("cf", func(s *schema.ColumnFamilySpec) { s.BlockSize = -1 }))
	results := engine.Reconcile(context.Background(), []schema.TableSchema{bad}, Options{AllowCreateOrModify: true})

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeFailed, results[0].Outcome)

	var serr *schema.SchemaError
	assert.True(t, errors.As(results[0].Err, &serr))
	assert.Empty(t, catalog.Calls, "validation failures must leave no remote footprint")
}

func TestEngine_SecondRunIsIdempotent(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("users", family("info", func(s *schema.ColumnFamilySpec) { s.MaxVersions = 1 }))

	tables := []schema.TableSchema{
		table("users", family("info", func(s *schema.ColumnFamilySpec) { s.MaxVersions = 3 })),
		table("audit", family("trail")),
		table("events", family("data")),
	}
	opts := Options{AllowCreateOrModify: true}

	first := NewEngine(catalog, nil).Reconcile(context.Background(), tables, opts)
	require.Len(t, first, 3)
	assert.Equal(t, OutcomeUpdated, first[0].Outcome)
	assert.Equal(t, OutcomeCreated, first[1].Outcome)
	assert.Equal(t, OutcomeCreated, first[2].Outcome)

	second := NewEngine(catalog, nil).Reconcile(context.Background(), tables, opts)
	require.Len(t, second, 3)
	for _, r := range second {
		assert.Equal(t, OutcomeUnchanged, r.Outcome, "table %s", r.Table)
	}
}

func TestEngine_PlanComputesDiffsWithoutMutating(t *testing.T) {
	catalog := mocks.NewCatalog()
	catalog.Seed("users", family("info", func(s *schema.ColumnFamilySpec) { s.MaxVersions = 1 }))
	engine := NewEngine(catalog, nil)

	tables := []schema.TableSchema{
		table("users", family("info", func(s *schema.ColumnFamilySpec) { s.MaxVersions = 3 })),
		table("audit", family("trail")),
	}
	diffs, err := engine.Plan(context.Background(), tables)

	require.NoError(t, err)
	require.Len(t, diffs, 2)
	assert.True(t, diffs[0].Exists)
	assert.Len(t, diffs[0].Modify, 1)
	assert.False(t, diffs[1].Exists)
	assert.Equal(t, []string{"list"}, catalog.Calls)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Outcome: OutcomeCreated},
		{Outcome: OutcomeUpdated},
		{Outcome: OutcomeUnchanged},
		{Outcome: OutcomeUnchanged},
		{Outcome: OutcomeSkippedNoCreate},
		{Outcome: OutcomeFailed},
	}
	s := Summarize(results)
	assert.Equal(t, Summary{Created: 1, Updated: 1, Unchanged: 2, Skipped: 1, Failed: 1}, s)
}
