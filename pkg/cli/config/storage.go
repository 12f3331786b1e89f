package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sprintdeck/sprintdeck/pkg/domain/interfaces"
	"github.com/sprintdeck/sprintdeck/pkg/service/storage"
	"github.com/sprintdeck/sprintdeck/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for the attachment blob store
type Storage struct {
	backend string
	bucket  string
}

// Flags returns CLI flags for storage configuration
func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Blob storage backend (gcs, memory, or none)",
			Value:       "none",
			Category:    "Storage",
			Sources:     cli.EnvVars("SPRINTDECK_STORAGE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "GCS bucket for attachment blobs (required for gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("SPRINTDECK_STORAGE_BUCKET"),
			Destination: &x.bucket,
		},
	}
}

// Configure builds the blob store. Returns nil when storage is disabled,
// which turns attachment uploads into ErrUnavailable responses.
func (x *Storage) Configure(ctx context.Context) (interfaces.BlobStore, error) {
	switch x.backend {
	case "gcs":
		if x.bucket == "" {
			return nil, goerr.New("storage-bucket is required when using gcs backend")
		}
		store, err := storage.NewGCS(ctx, x.bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize GCS blob store")
		}
		logging.Default().Info("Using GCS blob store", "bucket", x.bucket)
		return store, nil

	case "memory":
		logging.Default().Info("Using in-memory blob store (development mode)")
		return storage.NewMemory(), nil

	case "none", "":
		logging.Default().Info("Blob storage not configured, attachments are disabled")
		return nil, nil

	default:
		return nil, goerr.New("invalid storage backend", goerr.V("backend", x.backend))
	}
}

// LogValue implements slog.LogValuer
func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("bucket", x.bucket),
	)
}
