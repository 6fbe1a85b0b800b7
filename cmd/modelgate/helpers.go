package main

import (
	"context"
	"fmt"

	"modelgate/internal/artifact"
	"modelgate/internal/config"
)

// storeFlags are shared by every command that touches the artifact store.
type storeFlags struct {
	kind   string
	bucket string
	dir    string
}

func (f *storeFlags) apply(sc *config.StoreConfig) {
	if f.kind != "" {
		sc.Kind = f.kind
	}
	if f.bucket != "" {
		sc.Bucket = f.bucket
	}
	if f.dir != "" {
		sc.Dir = f.dir
	}
}

// openStore builds the configured artifact store. The S3 client is
// constructed here, once per command invocation, and injected.
func openStore(ctx context.Context, sc config.StoreConfig) (artifact.Store, error) {
	switch sc.Kind {
	case "fs":
		return artifact.NewFSStore(sc.Dir)
	case "s3":
		client, err := artifact.NewS3Client(ctx, sc.Region)
		if err != nil {
			return nil, err
		}
		return artifact.NewS3Store(client, sc.Bucket)
	default:
		return nil, fmt.Errorf("unknown store kind %q (want s3 or fs)", sc.Kind)
	}
}
