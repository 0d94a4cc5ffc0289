package reconcile

// Outcome classifies the result of reconciling a single table.
type Outcome string

const (
	// OutcomeCreated means the table was absent and has been created.
	OutcomeCreated Outcome = "created"
	// OutcomeUpdated means column family mutations were applied.
	OutcomeUpdated Outcome = "updated"
	// OutcomeUnchanged means the table already matched the desired schema.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSkippedNoCreate means a create or update was needed but the
	// run did not permit mutations.
	OutcomeSkippedNoCreate Outcome = "skipped_no_create"
	// OutcomeFailed means a remote call or validation failed; Result.Err
	// carries the reason.
	OutcomeFailed Outcome = "failed"
)

// Result is the per-table outcome of a reconciliation run.
type Result struct {
	// Table is the desired table name.
	Table string `json:"table"`
	// Outcome classifies what happened.
	Outcome Outcome `json:"outcome"`
	// Exists reports whether the table was present remotely at inspection
	// time.
	Exists bool `json:"exists"`
	// Applied lists the mutations issued before the run finished or
	// failed, e.g. "modify info". After a mid-update failure the table is
	// left disabled with exactly these mutations applied; a re-run
	// recomputes the diff against that state and finishes the job.
	Applied []string `json:"applied,omitempty"`
	// Err is the failure reason when Outcome is OutcomeFailed.
	Err error `json:"-"`
}

// Options control a reconciliation run. They map directly onto the
// command line flags of the apply and list commands.
type Options struct {
	// ListOnly stops after inspection: only the catalog lookup happens,
	// existence is reported, and no mutation path is entered.
	ListOnly bool
	// AllowCreateOrModify permits table creation and column family
	// mutations. When false the run classifies outcomes without touching
	// the cluster.
	AllowCreateOrModify bool
	// Verbose emits extra diagnostic events; it never changes behavior.
	Verbose bool
}

// Summary aggregates outcome counts across one run.
type Summary struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Summarize tallies outcomes for a run's results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeCreated:
			s.Created++
		case OutcomeUpdated:
			s.Updated++
		case OutcomeUnchanged:
			s.Unchanged++
		case OutcomeSkippedNoCreate:
			s.Skipped++
		case OutcomeFailed:
			s.Failed++
		}
	}
	return s
}
