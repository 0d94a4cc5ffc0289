package schema

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"tablekeeper/core/storage"

	"github.com/minio/minio-go/v7"
)

// Load reads and parses a schema document from source. A plain path is
// read from the local filesystem; an "s3://bucket/key" source is fetched
// through the storage client, which may be nil for local paths.
func Load(ctx context.Context, source string, store storage.Client) (*Document, error) {
	data, err := read(ctx, source, store)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func read(ctx context.Context, source string, store storage.Client) ([]byte, error) {
	if !strings.HasPrefix(source, "s3://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read schema document: %w", err)
		}
		return data, nil
	}

	bucket, object, ok := strings.Cut(strings.TrimPrefix(source, "s3://"), "/")
	if !ok || bucket == "" || object == "" {
		return nil, fmt.Errorf("schema source %q: expected s3://bucket/key", source)
	}
	if store == nil {
		return nil, fmt.Errorf("schema source %q requires a storage client", source)
	}

	reader, err := store.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch schema document %s: %w", source, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("fetch schema document %s: %w", source, err)
	}
	return data, nil
}
