package schema

import "fmt"

// Cluster-side defaults applied to attributes the schema document leaves
// unset. Matching the storage engine's own defaults keeps an untouched
// family structurally equal to its observed counterpart.
const (
	DefaultMaxVersions = 3
	DefaultCompression = "none"
	DefaultBlockSize   = 65536
	DefaultBloomFilter = "none"
)

// ColumnFamilySpec describes the desired configuration of a single column
// family. Equality is structural across all attributes; two specs with the
// same values compare equal regardless of where they were parsed from.
// Specs are treated as immutable values once constructed.
type ColumnFamilySpec struct {
	// Name uniquely identifies the family within its table.
	Name string
	// MaxVersions is the number of cell versions to retain.
	MaxVersions int
	// Compression is the compression algorithm (none, gz, lz4, snappy).
	Compression string
	// InMemory requests the family be kept in the in-memory cache tier.
	InMemory bool
	// BlockCacheEnabled controls block-level read caching.
	BlockCacheEnabled bool
	// BlockSize is the storage block size in bytes.
	BlockSize int
	// TTLSeconds is the cell time-to-live in seconds; zero means no expiry.
	TTLSeconds int
	// BloomFilter is the bloom filter type (none, row, rowcol).
	BloomFilter string
}

// Equal reports structural equality across all attributes. Comparing by
// name alone would hide attribute-only edits, so every field counts.
func (s ColumnFamilySpec) Equal(other ColumnFamilySpec) bool {
	return s == other
}

// Validate checks the spec for attribute combinations the cluster would
// reject. It is called before any mutation is attempted so an invalid
// schema never leaves partial remote state behind.
func (s ColumnFamilySpec) Validate() error {
	if s.Name == "" {
		return &SchemaError{Reason: "column family name must not be empty"}
	}
	if s.MaxVersions <= 0 {
		return &SchemaError{Family: s.Name, Reason: fmt.Sprintf("max versions must be positive, got %d", s.MaxVersions)}
	}
	if s.BlockSize <= 0 {
		return &SchemaError{Family: s.Name, Reason: fmt.Sprintf("block size must be positive, got %d", s.BlockSize)}
	}
	if s.TTLSeconds < 0 {
		return &SchemaError{Family: s.Name, Reason: fmt.Sprintf("time to live must not be negative, got %d", s.TTLSeconds)}
	}
	return nil
}

// TableSchema is the desired state of one table: a name, an informational
// description and the set of column families keyed by family name.
type TableSchema struct {
	// Name uniquely identifies the table within a reconciliation run.
	Name string
	// Description is free text carried from the schema document. It is
	// informational only and never compared against remote state.
	Description string
	// Families maps family name to its desired spec. An empty set is
	// legal, if unusual.
	Families map[string]ColumnFamilySpec
}

// Family returns the spec for the named column family.
func (t TableSchema) Family(name string) (ColumnFamilySpec, bool) {
	spec, ok := t.Families[name]
	return spec, ok
}

// Validate checks the table and all of its families.
func (t TableSchema) Validate() error {
	if t.Name == "" {
		return &SchemaError{Reason: "table name must not be empty"}
	}
	for name, spec := range t.Families {
		if name != spec.Name {
			return &SchemaError{Table: t.Name, Family: name, Reason: fmt.Sprintf("family key %q does not match spec name %q", name, spec.Name)}
		}
		if err := spec.Validate(); err != nil {
			if serr, ok := err.(*SchemaError); ok {
				serr.Table = t.Name
			}
			return err
		}
	}
	return nil
}

// SchemaError reports a desired schema that references an invalid
// attribute combination. It is always surfaced before any remote call.
type SchemaError struct {
	Table  string
	Family string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Table != "" && e.Family != "":
		return fmt.Sprintf("schema %s.%s: %s", e.Table, e.Family, e.Reason)
	case e.Table != "":
		return fmt.Sprintf("schema %s: %s", e.Table, e.Reason)
	case e.Family != "":
		return fmt.Sprintf("schema family %s: %s", e.Family, e.Reason)
	default:
		return "schema: " + e.Reason
	}
}
