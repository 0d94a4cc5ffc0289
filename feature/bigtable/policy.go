package bigtable

import (
	"strconv"
	"strings"
	"time"

	"tablekeeper/core/schema"

	"cloud.google.com/go/bigtable"
)

// gcPolicyFor maps a family spec onto a garbage collection policy. Version
// retention and cell expiry are the two attributes Bigtable expresses
// through GC rules.
func gcPolicyFor(spec schema.ColumnFamilySpec) bigtable.GCPolicy {
	versions := bigtable.MaxVersionsPolicy(spec.MaxVersions)
	if spec.TTLSeconds > 0 {
		return bigtable.UnionPolicy(versions, bigtable.MaxAgePolicy(time.Duration(spec.TTLSeconds)*time.Second))
	}
	return versions
}

// parseGCPolicy recovers version and age limits from the policy string the
// admin API reports, e.g. "versions() > 3" or
// "(versions() > 3 || age() > 24h0m0s)". Rules the reconciler never writes
// are ignored; a family without a versions rule reports the cluster
// default so an untouched family does not read as drifted.
func parseGCPolicy(policy string) (maxVersions, ttlSeconds int) {
	maxVersions = schema.DefaultMaxVersions

	policy = strings.TrimSpace(policy)
	policy = strings.TrimPrefix(policy, "(")
	policy = strings.TrimSuffix(policy, ")")

	for _, term := range strings.Split(policy, "||") {
		term = strings.TrimSpace(term)
		switch {
		case strings.HasPrefix(term, "versions() > "):
			if n, err := strconv.Atoi(strings.TrimPrefix(term, "versions() > ")); err == nil {
				maxVersions = n
			}
		case strings.HasPrefix(term, "age() > "):
			if d, err := time.ParseDuration(strings.TrimPrefix(term, "age() > ")); err == nil {
				ttlSeconds = int(d / time.Second)
			}
		}
	}
	return maxVersions, ttlSeconds
}
