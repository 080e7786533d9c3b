// Package storage pkg/storage/interfaces.go
package storage

import (
	"context"
	"time"

	"github.com/mfreeman451/meshbridge/pkg/models"
)

//go:generate mockgen -destination=mock_storage.go -package=storage github.com/mfreeman451/meshbridge/pkg/storage Writer,Maintainer

// Writer persists data points to a time-series store.
type Writer interface {
	// WritePoint synchronously writes one point to bucket in org.
	WritePoint(ctx context.Context, bucket, org string, point *models.DataPoint) error
	// Close releases the connection to the store.
	Close() error
}

// Maintainer is implemented by writers that need periodic housekeeping.
type Maintainer interface {
	Maintain(ctx context.Context, now time.Time) error
}
