/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package storage pkg/storage/sqlite.go provides a SQLite point store for
// installations without an InfluxDB server.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/mfreeman451/meshbridge/pkg/models"
)

const (
	// how often Maintain actually prunes.
	cleanInterval = time.Hour

	createTablesSQL = `
	CREATE TABLE IF NOT EXISTS points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bucket TEXT NOT NULL,
		org TEXT NOT NULL,
		measurement TEXT NOT NULL,
		node_id TEXT,
		timestamp_ms INTEGER NOT NULL,
		tags TEXT NOT NULL,
		fields TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_points_measurement_time
		ON points(bucket, measurement, timestamp_ms);
	CREATE INDEX IF NOT EXISTS idx_points_node_time
		ON points(node_id, timestamp_ms);
	`
)

// SQLiteWriter stores every point as one row with its tags and fields encoded
// as JSON, keeping null and absent values apart.
type SQLiteWriter struct {
	*sql.DB
	retention time.Duration

	mu        sync.Mutex
	lastClean time.Time
}

var (
	_ Writer     = (*SQLiteWriter)(nil)
	_ Maintainer = (*SQLiteWriter)(nil)
)

// NewSQLiteWriter opens (or creates) the database at dbPath. A positive
// retention makes Maintain prune older points.
func NewSQLiteWriter(dbPath string, retention time.Duration) (*SQLiteWriter, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// one writer at a time; the collector never writes concurrently anyway
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &SQLiteWriter{DB: sqlDB, retention: retention}
	if err := db.initSchema(); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return db, nil
}

func (db *SQLiteWriter) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

// WritePoint implements Writer.
func (db *SQLiteWriter) WritePoint(ctx context.Context, bucket, org string, point *models.DataPoint) error {
	if point == nil {
		return ErrNilPoint
	}

	tags, err := json.Marshal(point.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	fields, err := json.Marshal(point.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	var nodeID sql.NullString
	if id, ok := point.Tags["id"]; ok && id.IsPresent() {
		nodeID.String, nodeID.Valid = fmt.Sprint(id.Raw), true
	}

	_, err = db.ExecContext(ctx, `
        INSERT INTO points
            (bucket, org, measurement, node_id, timestamp_ms, tags, fields)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bucket,
		org,
		point.Measurement,
		nodeID,
		point.Timestamp.UnixMilli(),
		string(tags),
		string(fields),
	)
	if err != nil {
		return fmt.Errorf("%w point: %w", ErrFailedToInsert, err)
	}

	return nil
}

// Maintain implements Maintainer. It prunes at most once per hour and does
// nothing without a retention.
func (db *SQLiteWriter) Maintain(ctx context.Context, now time.Time) error {
	if db.retention <= 0 {
		return nil
	}

	db.mu.Lock()
	due := db.lastClean.IsZero() || now.Sub(db.lastClean) >= cleanInterval
	if due {
		db.lastClean = now
	}
	db.mu.Unlock()

	if !due {
		return nil
	}

	return db.CleanOldData(ctx, now.Add(-db.retention))
}
