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

package storage

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/mfreeman451/meshbridge/pkg/models"
)

// InfluxWriter writes points to InfluxDB v2 through the blocking write API,
// one HTTP request per point.
type InfluxWriter struct {
	client influxdb2.Client
	mu     sync.Mutex
	apis   map[string]api.WriteAPIBlocking
}

var _ Writer = (*InfluxWriter)(nil)

// NewInfluxWriter creates a client for the server at url. No request is made
// until the first write.
func NewInfluxWriter(url, token string) *InfluxWriter {
	opts := influxdb2.DefaultOptions().SetPrecision(time.Millisecond)

	return &InfluxWriter{
		client: influxdb2.NewClientWithOptions(url, token, opts),
		apis:   make(map[string]api.WriteAPIBlocking),
	}
}

// WritePoint implements Writer. Only present values are sent; line protocol
// has no way to carry a null. A point left without fields is not written.
func (w *InfluxWriter) WritePoint(ctx context.Context, bucket, org string, point *models.DataPoint) error {
	if point == nil {
		return ErrNilPoint
	}

	p, ok := ToInfluxPoint(point)
	if !ok {
		log.Printf("Point %s at %v has no reported fields, not writing", point.Measurement, point.Timestamp)
		return nil
	}

	if err := w.writeAPI(org, bucket).WritePoint(ctx, p); err != nil {
		return fmt.Errorf("%w to %s/%s: %w", ErrFailedToWrite, org, bucket, err)
	}

	return nil
}

// Close implements Writer.
func (w *InfluxWriter) Close() error {
	w.client.Close()

	return nil
}

func (w *InfluxWriter) writeAPI(org, bucket string) api.WriteAPIBlocking {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := org + "/" + bucket

	wa, ok := w.apis[key]
	if !ok {
		wa = w.client.WriteAPIBlocking(org, bucket)
		w.apis[key] = wa
	}

	return wa
}

// ToInfluxPoint converts a data point to the client's point type. ok is false
// when no field carries a value.
func ToInfluxPoint(point *models.DataPoint) (*write.Point, bool) {
	fields := make(map[string]interface{}, len(point.Fields))

	for k, v := range point.Fields {
		if v.IsPresent() && v.Raw != nil {
			fields[k] = v.Raw
		}
	}

	if len(fields) == 0 {
		return nil, false
	}

	tags := make(map[string]string, len(point.Tags))

	for k, v := range point.Tags {
		if !v.IsPresent() || v.Raw == nil {
			continue
		}

		s := tagString(v.Raw)
		if s == "" {
			continue
		}

		tags[k] = s
	}

	return influxdb2.NewPoint(point.Measurement, tags, fields, point.Timestamp), true
}

func tagString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}
