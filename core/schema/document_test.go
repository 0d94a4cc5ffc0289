package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
configurations:
  - name: production
    cluster:
      backend: bigtable
      options:
        project: acme-prod
        instance: serving
    tables:
      - name: users
        description: user profiles
        column_families:
          - name: info
            max_versions: 5
            compression: GZ
            in_memory: true
          - name: stats
            time_to_live: 86400
  - name: staging
    cluster:
      backend: cassandra
      hosts: [cass-1, cass-2]
      options:
        keyspace: staging
    tables:
      - name: users
        column_families:
          - name: info
            block_cache_enabled: false
`

func TestParse_ResolvesDefaults(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)
	require.Len(t, doc.Configurations, 2)

	cfg := doc.Configurations[0]
	assert.Equal(t, "production", cfg.Name)
	assert.Equal(t, "bigtable", cfg.Cluster.Backend)
	require.Len(t, cfg.Tables, 1)

	users := cfg.Tables[0]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, "user profiles", users.Description)

	info, ok := users.Family("info")
	require.True(t, ok)
	assert.Equal(t, 5, info.MaxVersions)
	assert.Equal(t, "gz", info.Compression, "compression is normalized to lower case")
	assert.True(t, info.InMemory)
	assert.True(t, info.BlockCacheEnabled, "omitted flags take the cluster default")
	assert.Equal(t, DefaultBlockSize, info.BlockSize)
	assert.Equal(t, DefaultBloomFilter, info.BloomFilter)

	stats, ok := users.Family("stats")
	require.True(t, ok)
	assert.Equal(t, DefaultMaxVersions, stats.MaxVersions)
	assert.Equal(t, DefaultCompression, stats.Compression)
	assert.Equal(t, 86400, stats.TTLSeconds)

	staging := doc.Configurations[1]
	assert.Equal(t, []string{"cass-1", "cass-2"}, staging.Cluster.Hosts)
	stagingInfo, ok := staging.Tables[0].Family("info")
	require.True(t, ok)
	assert.False(t, stagingInfo.BlockCacheEnabled, "an explicit false must survive default resolution")
}

func TestParse_EqualSpecsAcrossConfigurations(t *testing.T) {
	// Two families written with different amounts of detail resolve to
	// equal specs when the detail only restates defaults.
	explicit := `
configurations:
  - name: a
    cluster: {backend: bigtable}
    tables:
      - name: t
        column_families:
          - name: cf
            max_versions: 3
            compression: none
            block_size: 65536
`
	implicit := `
configurations:
  - name: b
    cluster: {backend: bigtable}
    tables:
      - name: t
        column_families:
          - name: cf
`
	da, err := Parse([]byte(explicit))
	require.NoError(t, err)
	db, err := Parse([]byte(implicit))
	require.NoError(t, err)

	fa, _ := da.Configurations[0].Tables[0].Family("cf")
	fb, _ := db.Configurations[0].Tables[0].Family("cf")
	assert.True(t, fa.Equal(fb))
}

func TestParse_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("configurations: ["))
		assert.Error(t, err)
	})

	t.Run("no configurations", func(t *testing.T) {
		_, err := Parse([]byte("configurations: []"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no configurations")
	})

	t.Run("duplicate family", func(t *testing.T) {
		_, err := Parse([]byte(`
configurations:
  - name: a
    cluster: {backend: bigtable}
    tables:
      - name: t
        column_families:
          - name: cf
          - name: cf
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "declares family cf twice")
	})

	t.Run("invalid table schema", func(t *testing.T) {
		_, err := Parse([]byte(`
configurations:
  - name: a
    cluster: {backend: bigtable}
    tables:
      - name: t
        column_families:
          - name: cf
            time_to_live: -5
`))
		assert.Error(t, err)
	})
}

func TestDocument_Resolve(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	t.Run("empty name selects the first configuration", func(t *testing.T) {
		cfg, err := doc.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.Name)
	})

	t.Run("lookup ignores case", func(t *testing.T) {
		cfg, err := doc.Resolve("STAGING")
		require.NoError(t, err)
		assert.Equal(t, "staging", cfg.Name)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := doc.Resolve("missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"missing" not found`)
	})
}

func TestClusterParams_Options(t *testing.T) {
	p := ClusterParams{Options: map[string]string{"project": "acme", "port": "9042", "bad": "x"}}

	assert.Equal(t, "acme", p.Option("project", "fallback"))
	assert.Equal(t, "fallback", p.Option("missing", "fallback"))

	n, err := p.IntOption("port", 7000)
	require.NoError(t, err)
	assert.Equal(t, 9042, n)

	n, err = p.IntOption("missing", 7000)
	require.NoError(t, err)
	assert.Equal(t, 7000, n)

	_, err = p.IntOption("bad", 0)
	assert.Error(t, err)
}
