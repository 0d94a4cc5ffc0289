package schema

// Config holds configuration for the schema document source.
type Config struct {
	// Path is the schema document location, either a local file path or an
	// s3://bucket/object URL served by the configured storage provider.
	Path string `mapstructure:"path" default:"schema.yaml"`
	// Name selects a configuration inside the document. Empty selects the
	// first one.
	Name string `mapstructure:"config" default:""`
}
