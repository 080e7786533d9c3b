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

// Package mapper converts mesh node records into node_db data points.
package mapper

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mfreeman451/meshbridge/pkg/models"
)

var (
	ErrInvalidTimestamp = errors.New("invalid lastHeard timestamp")
	ErrInvalidSubRecord = errors.New("invalid sub-record")
)

// userTags maps keys of the user sub-record to the tags they are written as.
var userTags = []struct{ key, tag string }{
	{"id", "id"},
	{"longName", "user.longName"},
	{"shortName", "user.shortName"},
	{"macaddr", "user.macaddr"},
	{"hwModel", "user.hwModel"},
	{"publicKey", "user.publicKey"},
}

var deviceMetricFields = []string{
	"batteryLevel",
	"voltage",
	"channelUtilization",
	"airUtilTx",
	"uptimeSeconds",
}

var positionFields = []string{
	"latitude",
	"longitude",
	"altitude",
	"time",
}

const locationSourceKey = "locationSource"

// NodeToPoint builds the node_db point for a node. It returns ok=false when
// the node has no lastHeard, in which case the node must not be written.
func NodeToPoint(node models.NodeRecord) (point *models.DataPoint, ok bool, err error) {
	raw, found := node.Lookup(models.KeyLastHeard)
	if !found {
		return nil, false, nil
	}

	ts, err := epochToUTC(raw)
	if err != nil {
		return nil, false, err
	}

	user, hasUser, err := node.Sub(models.KeyUser)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidSubRecord, err)
	}

	metrics, hasMetrics, err := node.Sub(models.KeyDeviceMetrics)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidSubRecord, err)
	}

	position, hasPosition, err := node.Sub(models.KeyPosition)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidSubRecord, err)
	}

	point = models.NewDataPoint(models.MeasurementNodeDB, ts)

	point.SetField(models.KeySNR, node.Value(models.KeySNR))
	point.SetField(models.KeyHopsAway, node.Value(models.KeyHopsAway))

	if hasUser {
		for _, t := range userTags {
			point.SetTag(t.tag, user.Value(t.key))
		}
	}

	if hasMetrics {
		for _, f := range deviceMetricFields {
			point.SetField(models.KeyDeviceMetrics+"."+f, metrics.Value(f))
		}
	}

	if hasPosition {
		for _, f := range positionFields {
			point.SetField(models.KeyPosition+"."+f, position.Value(f))
		}

		point.SetTag(models.KeyPosition+"."+locationSourceKey, position.Value(locationSourceKey))
	}

	return point, true, nil
}

// MessageToPoint is the hook for message-level telemetry. Messages are not
// persisted, so it always skips.
func MessageToPoint(_ models.NodeRecord) (*models.DataPoint, bool) {
	return nil, false
}

// epochToUTC interprets v as Unix seconds and returns it in UTC truncated to
// the millisecond.
func epochToUTC(v interface{}) (time.Time, error) {
	var secs float64

	switch n := v.(type) {
	case int:
		return time.Unix(int64(n), 0).UTC(), nil
	case int32:
		return time.Unix(int64(n), 0).UTC(), nil
	case int64:
		return time.Unix(n, 0).UTC(), nil
	case uint32:
		return time.Unix(int64(n), 0).UTC(), nil
	case uint64:
		if n > math.MaxInt64 {
			return time.Time{}, fmt.Errorf("%w: %d out of range", ErrInvalidTimestamp, n)
		}

		return time.Unix(int64(n), 0).UTC(), nil
	case float32:
		secs = float64(n)
	case float64:
		secs = n
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimestamp, v)
	}

	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, secs)
	}

	ms := int64(math.Floor(secs * 1000))

	return time.UnixMilli(ms).UTC(), nil
}
