package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mfreeman451/meshbridge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T, retention time.Duration) *SQLiteWriter {
	t.Helper()

	db, err := NewSQLiteWriter(filepath.Join(t.TempDir(), "points.db"), retention)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

// getPoints reads back the points of measurement in bucket within
// [start, end], oldest first.
func getPoints(ctx context.Context, db *SQLiteWriter, bucket, measurement string, start, end time.Time) ([]models.DataPoint, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT measurement, timestamp_ms, tags, fields
        FROM points
        WHERE bucket = ?
        AND measurement = ?
        AND timestamp_ms BETWEEN ? AND ?
        ORDER BY timestamp_ms ASC, id ASC`,
		bucket,
		measurement,
		start.UnixMilli(),
		end.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var points []models.DataPoint

	for rows.Next() {
		var (
			p            models.DataPoint
			ms           int64
			tags, fields string
		)

		if err := rows.Scan(&p.Measurement, &ms, &tags, &fields); err != nil {
			return nil, err
		}

		p.Timestamp = time.UnixMilli(ms).UTC()

		if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(fields), &p.Fields); err != nil {
			return nil, err
		}

		points = append(points, p)
	}

	return points, rows.Err()
}

func TestSQLiteWriter_RoundTripKeepsValueStates(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t, 0)

	require.NoError(t, db.WritePoint(ctx, "mesh", "home", scenarioPoint()))

	points, err := getPoints(ctx, db, "mesh", models.MeasurementNodeDB,
		time.Unix(1699999999, 0), time.Unix(1700000001, 0))
	require.NoError(t, err)
	require.Len(t, points, 1)

	got := points[0]
	assert.Equal(t, models.MeasurementNodeDB, got.Measurement)
	assert.True(t, time.Unix(1700000000, 0).Equal(got.Timestamp))

	assert.Equal(t, models.Present("!a1b2"), got.Tags["id"])
	assert.Equal(t, models.Present("AB"), got.Tags["user.shortName"])
	assert.Equal(t, models.Absent(), got.Tags["user.longName"])
	assert.Equal(t, models.Absent(), got.Fields["snr"])
	assert.Equal(t, models.Null(), got.Fields["hopsAway"])
	// JSON numbers come back as float64
	assert.Equal(t, models.Present(87.0), got.Fields["deviceMetrics.batteryLevel"])

	var nodeID string
	require.NoError(t, db.QueryRow("SELECT node_id FROM points").Scan(&nodeID))
	assert.Equal(t, "!a1b2", nodeID)
}

func TestSQLiteWriter_StoresBucketAndTime(t *testing.T) {
	ctx := context.Background()
	db := newTestSQLite(t, 0)

	for i, ts := range []int64{1700000000, 1700000060, 1700000120} {
		p := models.NewDataPoint(models.MeasurementNodeDB, time.Unix(ts, 0))
		p.SetField("snr", models.Present(float64(i)))
		require.NoError(t, db.WritePoint(ctx, "mesh", "home", p))
	}

	other := models.NewDataPoint(models.MeasurementNodeDB, time.Unix(1700000060, 0))
	require.NoError(t, db.WritePoint(ctx, "other", "home", other))

	points, err := getPoints(ctx, db, "mesh", models.MeasurementNodeDB,
		time.Unix(1700000030, 0), time.Unix(1700000200, 0))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, models.Present(1.0), points[0].Fields["snr"])
	assert.Equal(t, models.Present(2.0), points[1].Fields["snr"])

	require.ErrorIs(t, db.WritePoint(ctx, "mesh", "home", nil), ErrNilPoint)
}

func TestSQLiteWriter_Maintain(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700086400, 0)

	t.Run("prunes past retention once per interval", func(t *testing.T) {
		db := newTestSQLite(t, 24*time.Hour)

		old := models.NewDataPoint(models.MeasurementNodeDB, now.Add(-25*time.Hour))
		fresh := models.NewDataPoint(models.MeasurementNodeDB, now.Add(-time.Hour))
		require.NoError(t, db.WritePoint(ctx, "mesh", "home", old))
		require.NoError(t, db.WritePoint(ctx, "mesh", "home", fresh))

		require.NoError(t, db.Maintain(ctx, now))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM points").Scan(&count))
		assert.Equal(t, 1, count)

		// not due yet: a newly stale point survives
		stale := models.NewDataPoint(models.MeasurementNodeDB, now.Add(-48*time.Hour))
		require.NoError(t, db.WritePoint(ctx, "mesh", "home", stale))
		require.NoError(t, db.Maintain(ctx, now.Add(time.Minute)))
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM points").Scan(&count))
		assert.Equal(t, 2, count)

		require.NoError(t, db.Maintain(ctx, now.Add(cleanInterval)))
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM points").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("no retention keeps everything", func(t *testing.T) {
		db := newTestSQLite(t, 0)

		old := models.NewDataPoint(models.MeasurementNodeDB, now.Add(-365*24*time.Hour))
		require.NoError(t, db.WritePoint(ctx, "mesh", "home", old))
		require.NoError(t, db.Maintain(ctx, now))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM points").Scan(&count))
		assert.Equal(t, 1, count)
	})
}
