package cassandra

import (
	"fmt"
	"strings"

	"tablekeeper/core/schema"
)

// Family tables share one wide-row layout: a partition key, a column
// qualifier and an opaque value. Only the table options vary per family.
const familyLayout = "(key blob, column blob, value blob, PRIMARY KEY ((key), column))"

// compressorClasses maps compression names onto Cassandra compressor
// implementations.
var compressorClasses = map[string]string{
	"gz":     "DeflateCompressor",
	"lz4":    "LZ4Compressor",
	"snappy": "SnappyCompressor",
}

func compressionLiteral(compression string) string {
	class, ok := compressorClasses[compression]
	if !ok {
		return "{'enabled': 'false'}"
	}
	return fmt.Sprintf("{'class': '%s'}", class)
}

// bloomChances maps bloom filter types onto false-positive chances. The
// values are distinct so the observed chance reverses into the declared
// type; 1.0 disables the filter.
var bloomChances = map[string]float64{
	"row":    0.01,
	"rowcol": 0.001,
}

func bloomChance(filter string) float64 {
	if chance, ok := bloomChances[filter]; ok {
		return chance
	}
	return 1.0
}

func cachingLiteral(blockCache bool) string {
	keys := "NONE"
	if blockCache {
		keys = "ALL"
	}
	return fmt.Sprintf("{'keys': '%s', 'rows_per_partition': 'NONE'}", keys)
}

func familyOptions(spec schema.ColumnFamilySpec) string {
	opts := []string{
		fmt.Sprintf("bloom_filter_fp_chance = %g", bloomChance(spec.BloomFilter)),
		"caching = " + cachingLiteral(spec.BlockCacheEnabled),
		"compression = " + compressionLiteral(spec.Compression),
		fmt.Sprintf("default_time_to_live = %d", spec.TTLSeconds),
	}
	return strings.Join(opts, " AND ")
}

func createKeyspaceStmt(keyspace string, replicationFactor int) string {
	return fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}",
		keyspace, replicationFactor,
	)
}

func createFamilyStmt(keyspace string, spec schema.ColumnFamilySpec) string {
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s.%s %s WITH %s",
		keyspace, spec.Name, familyLayout, familyOptions(spec),
	)
}

func alterFamilyStmt(keyspace string, spec schema.ColumnFamilySpec) string {
	return fmt.Sprintf("ALTER TABLE %s.%s WITH %s", keyspace, spec.Name, familyOptions(spec))
}

func dropFamilyStmt(keyspace, family string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", keyspace, family)
}
