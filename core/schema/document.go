package schema

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed schema document. A document carries one or more
// named configurations, each pairing cluster connection parameters with
// the table schemas to reconcile against that cluster.
type Document struct {
	Configurations []Configuration `yaml:"configurations"`
}

// Configuration is a single named configuration inside a schema document.
type Configuration struct {
	// Name selects the configuration on the command line. The first
	// configuration acts as the default when no name is given.
	Name string `yaml:"name"`
	// Cluster holds connection parameters for the target cluster.
	Cluster ClusterParams `yaml:"cluster"`
	// Tables is the desired schema set, parsed into model objects.
	Tables []TableSchema `yaml:"-"`

	rawTables []tableDoc
}

// ClusterParams describes how to reach the cluster a configuration
// targets. Backend selects the adapter; everything else is
// backend-specific and stays opaque to the core.
type ClusterParams struct {
	// Backend names the admin client adapter (bigtable, cassandra).
	Backend string `yaml:"backend"`
	// Hosts lists cluster contact points, for backends that use them.
	Hosts []string `yaml:"hosts,omitempty"`
	// Options carries backend-specific settings (project, instance,
	// keyspace prefix, timeouts) as free-form string pairs.
	Options map[string]string `yaml:"options,omitempty"`
}

// Option returns a backend option with a fallback default.
func (p ClusterParams) Option(key, def string) string {
	if v, ok := p.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// IntOption returns a backend option parsed as an integer.
func (p ClusterParams) IntOption(key string, def int) (int, error) {
	v, ok := p.Options[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("cluster option %s: %w", key, err)
	}
	return n, nil
}

// tableDoc and familyDoc mirror the document layout. Optional booleans are
// pointers so an omitted flag can fall back to the cluster default instead
// of the Go zero value.
type tableDoc struct {
	Name           string      `yaml:"name"`
	Description    string      `yaml:"description"`
	ColumnFamilies []familyDoc `yaml:"column_families"`
}

type familyDoc struct {
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	MaxVersions       int    `yaml:"max_versions"`
	Compression       string `yaml:"compression"`
	InMemory          *bool  `yaml:"in_memory"`
	BlockCacheEnabled *bool  `yaml:"block_cache_enabled"`
	BlockSize         int    `yaml:"block_size"`
	TimeToLive        int    `yaml:"time_to_live"`
	BloomFilter       string `yaml:"bloom_filter"`
}

type documentDoc struct {
	Configurations []struct {
		Name    string        `yaml:"name"`
		Cluster ClusterParams `yaml:"cluster"`
		Tables  []tableDoc    `yaml:"tables"`
	} `yaml:"configurations"`
}

// Parse decodes a YAML schema document and resolves optional family
// attributes to their cluster defaults.
func Parse(data []byte) (*Document, error) {
	var raw documentDoc
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}
	if len(raw.Configurations) == 0 {
		return nil, fmt.Errorf("parse schema document: no configurations defined")
	}

	doc := &Document{}
	for _, rc := range raw.Configurations {
		cfg := Configuration{Name: rc.Name, Cluster: rc.Cluster, rawTables: rc.Tables}
		for _, rt := range rc.Tables {
			table := TableSchema{
				Name:        rt.Name,
				Description: rt.Description,
				Families:    make(map[string]ColumnFamilySpec, len(rt.ColumnFamilies)),
			}
			for _, rf := range rt.ColumnFamilies {
				spec := resolveFamily(rf)
				if _, dup := table.Families[spec.Name]; dup {
					return nil, fmt.Errorf("parse schema document: table %s declares family %s twice", rt.Name, spec.Name)
				}
				table.Families[spec.Name] = spec
			}
			if err := table.Validate(); err != nil {
				return nil, err
			}
			cfg.Tables = append(cfg.Tables, table)
		}
		doc.Configurations = append(doc.Configurations, cfg)
	}
	return doc, nil
}

// resolveFamily fills unset attributes with cluster defaults so the model
// only ever holds concrete values.
func resolveFamily(rf familyDoc) ColumnFamilySpec {
	spec := ColumnFamilySpec{
		Name:              rf.Name,
		MaxVersions:       rf.MaxVersions,
		Compression:       strings.ToLower(rf.Compression),
		BlockSize:         rf.BlockSize,
		TTLSeconds:        rf.TimeToLive,
		BloomFilter:       strings.ToLower(rf.BloomFilter),
		BlockCacheEnabled: true,
	}
	if spec.MaxVersions == 0 {
		spec.MaxVersions = DefaultMaxVersions
	}
	if spec.Compression == "" {
		spec.Compression = DefaultCompression
	}
	if spec.BlockSize == 0 {
		spec.BlockSize = DefaultBlockSize
	}
	if spec.BloomFilter == "" {
		spec.BloomFilter = DefaultBloomFilter
	}
	if rf.InMemory != nil {
		spec.InMemory = *rf.InMemory
	}
	if rf.BlockCacheEnabled != nil {
		spec.BlockCacheEnabled = *rf.BlockCacheEnabled
	}
	return spec
}

// Resolve returns the configuration matching name, ignoring case. An empty
// name selects the first configuration in the document.
func (d *Document) Resolve(name string) (*Configuration, error) {
	if len(d.Configurations) == 0 {
		return nil, fmt.Errorf("schema document has no configurations")
	}
	if name == "" {
		return &d.Configurations[0], nil
	}
	for i := range d.Configurations {
		if strings.EqualFold(d.Configurations[i].Name, name) {
			return &d.Configurations[i], nil
		}
	}
	return nil, fmt.Errorf("configuration %q not found in schema document", name)
}
