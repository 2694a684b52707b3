package catalog

import (
	"context"
	"fmt"
)

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// SourceConfig selects where the dataset comes from.
type SourceConfig struct {
	Kind string

	Path string

	Bucket string
	Key    string
	S3     S3Config

	DatabaseURL string
}

// Open loads the configured dataset and builds a store from it.
func Open(ctx context.Context, cfg SourceConfig) (*Store, error) {
	ds, err := load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(ds)
}

func load(ctx context.Context, cfg SourceConfig) (Dataset, error) {
	switch cfg.Kind {
	case "", SourceEmbedded:
		return Default()
	case SourceFile:
		if cfg.Path == "" {
			return Dataset{}, fmt.Errorf("file source: path is required")
		}
		return LoadFile(cfg.Path)
	case SourceS3:
		if cfg.Bucket == "" || cfg.Key == "" {
			return Dataset{}, fmt.Errorf("s3 source: bucket and key are required")
		}
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return Dataset{}, err
		}
		return LoadS3(ctx, client, cfg.Bucket, cfg.Key)
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return Dataset{}, fmt.Errorf("postgres source: database url is required")
		}
		pool, err := Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Dataset{}, err
		}
		defer pool.Close()
		return LoadPostgres(ctx, pool)
	default:
		return Dataset{}, fmt.Errorf("unknown dataset source %q", cfg.Kind)
	}
}
