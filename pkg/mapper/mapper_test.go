package mapper

import (
	"strings"
	"testing"
	"time"

	"github.com/mfreeman451/meshbridge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullNode() models.NodeRecord {
	return models.NodeRecord{
		"num":       int64(2730665650),
		"snr":       6.25,
		"hopsAway":  int64(1),
		"lastHeard": int64(1700000000),
		"user": map[string]interface{}{
			"id":        "!a2c3d4b2",
			"longName":  "Hilltop Relay",
			"shortName": "HTR",
			"macaddr":   "xkSiw9Sy",
			"hwModel":   "RAK4631",
			"publicKey": "q83vEjRWeJA=",
		},
		"deviceMetrics": map[string]interface{}{
			"batteryLevel":       int64(87),
			"voltage":            4.1,
			"channelUtilization": 3.5,
			"airUtilTx":          0.42,
			"uptimeSeconds":      int64(86400),
		},
		"position": map[string]interface{}{
			"latitude":       47.6062,
			"longitude":      -122.3321,
			"altitude":       int64(56),
			"time":           int64(1699999990),
			"locationSource": "LOC_INTERNAL",
		},
	}
}

func TestNodeToPoint_SkipsWithoutLastHeard(t *testing.T) {
	tests := []struct {
		name string
		node models.NodeRecord
	}{
		{name: "nil record", node: nil},
		{name: "empty record", node: models.NodeRecord{}},
		{name: "snr only", node: models.NodeRecord{"snr": 5.0}},
		{
			name: "everything but lastHeard",
			node: func() models.NodeRecord {
				n := fullNode()
				delete(n, models.KeyLastHeard)

				return n
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, ok, err := NodeToPoint(tt.node)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, point)
		})
	}
}

func TestNodeToPoint_Timestamp(t *testing.T) {
	tests := []struct {
		name      string
		lastHeard interface{}
		want      time.Time
	}{
		{name: "int64 seconds", lastHeard: int64(1700000000), want: time.Unix(1700000000, 0)},
		{name: "int seconds", lastHeard: 1700000000, want: time.Unix(1700000000, 0)},
		{name: "uint32 seconds", lastHeard: uint32(1700000000), want: time.Unix(1700000000, 0)},
		{name: "float seconds", lastHeard: 1700000000.0, want: time.Unix(1700000000, 0)},
		{
			name:      "sub-millisecond truncated",
			lastHeard: 1700000000.1239,
			want:      time.UnixMilli(1700000000123),
		},
	}

	origLocal := time.Local
	time.Local = time.FixedZone("UTC+9", 9*60*60)

	defer func() { time.Local = origLocal }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, ok, err := NodeToPoint(models.NodeRecord{"lastHeard": tt.lastHeard})
			require.NoError(t, err)
			require.True(t, ok)

			assert.Equal(t, time.UTC, point.Timestamp.Location())
			assert.True(t, tt.want.Equal(point.Timestamp), "got %v want %v", point.Timestamp, tt.want)
			assert.Zero(t, point.Timestamp.Nanosecond()%int(time.Millisecond))
		})
	}
}

func TestNodeToPoint_InvalidTimestamp(t *testing.T) {
	for _, v := range []interface{}{"1700000000", true, nil} {
		_, ok, err := NodeToPoint(models.NodeRecord{"lastHeard": v})
		require.ErrorIs(t, err, ErrInvalidTimestamp)
		assert.False(t, ok)
	}
}

func TestNodeToPoint_FullRecord(t *testing.T) {
	point, ok, err := NodeToPoint(fullNode())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.MeasurementNodeDB, point.Measurement)

	assert.Equal(t, map[string]models.Value{
		"id":                      models.Present("!a2c3d4b2"),
		"user.longName":           models.Present("Hilltop Relay"),
		"user.shortName":          models.Present("HTR"),
		"user.macaddr":            models.Present("xkSiw9Sy"),
		"user.hwModel":            models.Present("RAK4631"),
		"user.publicKey":          models.Present("q83vEjRWeJA="),
		"position.locationSource": models.Present("LOC_INTERNAL"),
	}, point.Tags)

	assert.Equal(t, map[string]models.Value{
		"snr":                              models.Present(6.25),
		"hopsAway":                         models.Present(int64(1)),
		"deviceMetrics.batteryLevel":       models.Present(int64(87)),
		"deviceMetrics.voltage":            models.Present(4.1),
		"deviceMetrics.channelUtilization": models.Present(3.5),
		"deviceMetrics.airUtilTx":          models.Present(0.42),
		"deviceMetrics.uptimeSeconds":      models.Present(int64(86400)),
		"position.latitude":                models.Present(47.6062),
		"position.longitude":               models.Present(-122.3321),
		"position.altitude":                models.Present(int64(56)),
		"position.time":                    models.Present(int64(1699999990)),
	}, point.Fields)
}

func TestNodeToPoint_TagsAndFieldsDisjoint(t *testing.T) {
	point, ok, err := NodeToPoint(fullNode())
	require.NoError(t, err)
	require.True(t, ok)

	for k := range point.Tags {
		_, clash := point.Fields[k]
		assert.False(t, clash, "key %q is both tag and field", k)

		assert.True(t, k == "id" || strings.HasPrefix(k, "user.") || k == "position.locationSource",
			"unexpected tag %q", k)
	}

	for k := range point.Fields {
		assert.False(t, k == "id" || strings.HasPrefix(k, "user.") || k == "position.locationSource",
			"identity attribute %q written as field", k)
	}
}

func TestNodeToPoint_AbsentSubRecordsOmitted(t *testing.T) {
	tests := []struct {
		name       string
		drop       string
		goneTags   []string
		goneFields []string
	}{
		{
			name:     "no user",
			drop:     models.KeyUser,
			goneTags: []string{"id", "user.longName", "user.shortName", "user.macaddr", "user.hwModel", "user.publicKey"},
		},
		{
			name: "no deviceMetrics",
			drop: models.KeyDeviceMetrics,
			goneFields: []string{
				"deviceMetrics.batteryLevel", "deviceMetrics.voltage", "deviceMetrics.channelUtilization",
				"deviceMetrics.airUtilTx", "deviceMetrics.uptimeSeconds",
			},
		},
		{
			name:       "no position",
			drop:       models.KeyPosition,
			goneTags:   []string{"position.locationSource"},
			goneFields: []string{"position.latitude", "position.longitude", "position.altitude", "position.time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := fullNode()
			delete(node, tt.drop)

			point, ok, err := NodeToPoint(node)
			require.NoError(t, err)
			require.True(t, ok)

			for _, k := range tt.goneTags {
				assert.NotContains(t, point.Tags, k)
			}

			for _, k := range tt.goneFields {
				assert.NotContains(t, point.Fields, k)
			}

			// the other sub-records are untouched
			assert.Contains(t, point.Fields, "snr")
			assert.Contains(t, point.Fields, "hopsAway")
		})
	}
}

func TestNodeToPoint_ThreeStateValues(t *testing.T) {
	node := models.NodeRecord{
		"lastHeard": int64(1700000000),
		"snr":       nil,
		"user":      map[string]interface{}{"id": "!a1b2", "longName": nil},
	}

	point, ok, err := NodeToPoint(node)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.Null(), point.Fields["snr"])
	assert.Equal(t, models.Absent(), point.Fields["hopsAway"])
	assert.Equal(t, models.Present("!a1b2"), point.Tags["id"])
	assert.Equal(t, models.Null(), point.Tags["user.longName"])
	assert.Equal(t, models.Absent(), point.Tags["user.shortName"])

	zero := models.NodeRecord{"lastHeard": int64(1700000000), "snr": 0.0, "hopsAway": int64(0)}

	point, _, err = NodeToPoint(zero)
	require.NoError(t, err)
	assert.Equal(t, models.Present(0.0), point.Fields["snr"])
	assert.Equal(t, models.Present(int64(0)), point.Fields["hopsAway"])
}

func TestNodeToPoint_NonObjectSubRecord(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"user string", models.KeyUser, "garbage"},
		{"position null", models.KeyPosition, nil},
		{"device metrics number", models.KeyDeviceMetrics, int64(87)},
		{"user list", models.KeyUser, []interface{}{"!a1b2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, ok, err := NodeToPoint(models.NodeRecord{"lastHeard": int64(1700000000), tt.key: tt.val})
			require.ErrorIs(t, err, ErrInvalidSubRecord)
			require.ErrorIs(t, err, models.ErrNotObject)
			assert.Contains(t, err.Error(), tt.key)
			assert.False(t, ok)
			assert.Nil(t, point)
		})
	}
}

func TestNodeToPoint_Idempotent(t *testing.T) {
	node := fullNode()

	first, ok, err := NodeToPoint(node)
	require.NoError(t, err)
	require.True(t, ok)

	second, ok, err := NodeToPoint(node)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, fullNode(), node, "mapping must not mutate the record")
}

func TestNodeToPoint_ScenarioSingleNode(t *testing.T) {
	node := models.NodeRecord{
		"lastHeard":     int64(1700000000),
		"user":          map[string]interface{}{"id": "!a1b2", "shortName": "AB"},
		"deviceMetrics": map[string]interface{}{"batteryLevel": int64(87)},
	}

	point, ok, err := NodeToPoint(node)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, time.Unix(1700000000, 0).Equal(point.Timestamp))
	assert.Equal(t, map[string]interface{}{"id": "!a1b2", "user.shortName": "AB"}, point.PresentTags())
	assert.Equal(t, map[string]interface{}{"deviceMetrics.batteryLevel": int64(87)}, point.PresentFields())
}

func TestMessageToPoint(t *testing.T) {
	point, ok := MessageToPoint(models.NodeRecord{"decoded": map[string]interface{}{"portnum": "TEXT_MESSAGE_APP"}})
	assert.False(t, ok)
	assert.Nil(t, point)
}
