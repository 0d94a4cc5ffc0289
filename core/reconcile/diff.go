package reconcile

import (
	"sort"

	"tablekeeper/core/cluster"
	"tablekeeper/core/schema"
)

// FamilyChange pairs the observed spec of a column family with the
// desired spec that should replace it.
type FamilyChange struct {
	Old schema.ColumnFamilySpec
	New schema.ColumnFamilySpec
}

// TableDiff is the minimal mutation set that moves one remote table to
// its desired state. It is computed fresh each run and never persisted.
type TableDiff struct {
	// Table is the table name both sides share.
	Table string
	// Exists reports whether the table is present remotely. When false
	// the table needs a create and no per-family classification applies.
	Exists bool
	// Add holds families present only in the desired schema.
	Add []schema.ColumnFamilySpec
	// Modify holds families present on both sides but structurally
	// unequal, carrying the desired spec as the replacement.
	Modify []FamilyChange
	// Delete holds names of families present only on the remote side.
	Delete []string
}

// Empty reports whether the remote table already matches the desired
// schema. This is the authoritative no-change signal: it holds iff every
// desired family has a structurally equal remote counterpart and vice
// versa. An absent table is never empty.
func (d TableDiff) Empty() bool {
	return d.Exists && len(d.Add) == 0 && len(d.Modify) == 0 && len(d.Delete) == 0
}

// Counts returns the add, modify and delete cardinalities.
func (d TableDiff) Counts() (adds, modifies, deletes int) {
	return len(d.Add), len(d.Modify), len(d.Delete)
}

// Diff compares a desired table schema against its observed remote
// descriptor, nil meaning the table does not exist remotely. Families are
// partitioned by name: present on both sides but unequal is a modify,
// desired-only is an add, remote-only is a delete, and equal pairs drop
// out of the diff entirely. A renamed family is indistinguishable from a
// delete plus an add; identity is by name only.
func Diff(desired schema.TableSchema, remote *cluster.TableDescriptor) TableDiff {
	diff := TableDiff{Table: desired.Name}
	if remote == nil {
		return diff
	}
	diff.Exists = true

	for _, name := range sortedFamilyNames(desired.Families) {
		want := desired.Families[name]
		got, ok := remote.Families[name]
		switch {
		case !ok:
			diff.Add = append(diff.Add, want)
		case !want.Equal(got):
			diff.Modify = append(diff.Modify, FamilyChange{Old: got, New: want})
		}
	}

	for _, name := range sortedFamilyNames(remote.Families) {
		if _, ok := desired.Families[name]; !ok {
			diff.Delete = append(diff.Delete, name)
		}
	}

	return diff
}

// sortedFamilyNames keeps diff output deterministic across runs.
func sortedFamilyNames(families map[string]schema.ColumnFamilySpec) []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
