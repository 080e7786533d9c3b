package mesh

import (
	"context"
	"fmt"
	"time"

	"github.com/mfreeman451/meshbridge/pkg/models"
)

// PowerOnTime estimates when the locally attached node was powered on from
// the uptime it last reported. It is a diagnostic and is not used by the
// collection loop.
func PowerOnTime(ctx context.Context, iface Interface, now time.Time) (time.Time, error) {
	node, ok, err := iface.MyNode(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get local node: %w", err)
	}

	if !ok {
		return time.Time{}, ErrMyNodeUnknown
	}

	metrics, ok, err := node.Sub(models.KeyDeviceMetrics)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrNoUptime, err)
	}

	if !ok {
		return time.Time{}, ErrNoUptime
	}

	var secs float64

	switch v := metrics["uptimeSeconds"].(type) {
	case int64:
		secs = float64(v)
	case int:
		secs = float64(v)
	case float64:
		secs = v
	default:
		return time.Time{}, ErrNoUptime
	}

	return now.Add(-time.Duration(secs * float64(time.Second))), nil
}
