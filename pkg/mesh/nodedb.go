package mesh

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mfreeman451/meshbridge/pkg/models"
)

// Envelope types carried on the Meshtastic JSON uplink.
const (
	EnvelopeNodeInfo  = "nodeinfo"
	EnvelopePosition  = "position"
	EnvelopeTelemetry = "telemetry"
)

const degreesPerUnit = 1e-7

// Envelope is one decoded packet from the JSON uplink.
type Envelope struct {
	From      uint32                 `json:"from"`
	Sender    string                 `json:"sender"`
	Type      string                 `json:"type"`
	Timestamp int64                  `json:"timestamp"`
	SNR       *float64               `json:"snr,omitempty"`
	HopsAway  *int64                 `json:"hops_away,omitempty"`
	Payload   map[string]interface{} `json:"-"`
}

// DecodeEnvelope parses a JSON uplink message.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env struct {
		Envelope
		Payload json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	out := env.Envelope

	if len(env.Payload) > 0 && env.Payload[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(env.Payload))
		dec.UseNumber()

		var payload map[string]interface{}
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s payload: %w", out.Type, err)
		}

		out.Payload, _ = normalizeJSON(payload).(map[string]interface{})
	}

	if out.From == 0 {
		return nil, ErrMissingSender
	}

	return &out, nil
}

// NodeID formats a node number the way the radio names nodes.
func NodeID(num uint32) string {
	return fmt.Sprintf("!%08x", num)
}

// NodeDB accumulates uplink envelopes into node records shaped like the ones
// the radio keeps in its own node database.
type NodeDB struct {
	mu    sync.RWMutex
	order []string
	nodes map[string]models.NodeRecord
}

// NewNodeDB returns an empty node database.
func NewNodeDB() *NodeDB {
	return &NodeDB{
		nodes: make(map[string]models.NodeRecord),
	}
}

// Apply folds one envelope into the database.
func (db *NodeDB) Apply(env *Envelope) {
	id := NodeID(env.From)

	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.nodes[id]
	if !ok {
		rec = models.NodeRecord{models.KeyNum: int64(env.From)}
		db.nodes[id] = rec
		db.order = append(db.order, id)
	}

	if env.Timestamp > 0 {
		rec[models.KeyLastHeard] = env.Timestamp
	}

	if env.SNR != nil {
		rec[models.KeySNR] = *env.SNR
	}

	if env.HopsAway != nil {
		rec[models.KeyHopsAway] = *env.HopsAway
	}

	switch env.Type {
	case EnvelopeNodeInfo:
		copyKeys(subRecord(rec, models.KeyUser), env.Payload, map[string]string{
			"id":         "id",
			"longname":   "longName",
			"shortname":  "shortName",
			"hardware":   "hwModel",
			"macaddr":    "macaddr",
			"public_key": "publicKey",
			"role":       "role",
		})
	case EnvelopePosition:
		pos := subRecord(rec, models.KeyPosition)
		copyKeys(pos, env.Payload, map[string]string{
			"altitude":        "altitude",
			"time":            "time",
			"location_source": "locationSource",
		})

		if v, ok := env.Payload["latitude_i"]; ok {
			pos["latitude"] = scaleDegrees(v)
		}

		if v, ok := env.Payload["longitude_i"]; ok {
			pos["longitude"] = scaleDegrees(v)
		}
	case EnvelopeTelemetry:
		// environment and power telemetry share the type; only device
		// metrics carry battery_level/uptime_seconds and friends.
		fields := map[string]string{
			"battery_level":       "batteryLevel",
			"voltage":             "voltage",
			"channel_utilization": "channelUtilization",
			"air_util_tx":         "airUtilTx",
			"uptime_seconds":      "uptimeSeconds",
		}

		if hasAny(env.Payload, fields) {
			copyKeys(subRecord(rec, models.KeyDeviceMetrics), env.Payload, fields)
		}
	}
}

// Snapshot returns a copy of the database in first-heard order. ok is false
// while no node has been heard.
func (db *NodeDB) Snapshot() (Snapshot, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.order) == 0 {
		return nil, false
	}

	snap := make(Snapshot, 0, len(db.order))
	for _, id := range db.order {
		snap = append(snap, Entry{ID: id, Record: db.nodes[id].Clone()})
	}

	return snap, true
}

// Get returns a copy of one node record.
func (db *NodeDB) Get(id string) (models.NodeRecord, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.nodes[id]
	if !ok {
		return nil, false
	}

	return rec.Clone(), true
}

func subRecord(rec models.NodeRecord, key string) models.NodeRecord {
	if sub, ok := rec[key].(models.NodeRecord); ok {
		return sub
	}

	sub := models.NodeRecord{}
	rec[key] = sub

	return sub
}

func copyKeys(dst models.NodeRecord, src map[string]interface{}, keys map[string]string) {
	for from, to := range keys {
		if v, ok := src[from]; ok {
			dst[to] = v
		}
	}
}

func hasAny(src map[string]interface{}, keys map[string]string) bool {
	for k := range keys {
		if _, ok := src[k]; ok {
			return true
		}
	}

	return false
}

func scaleDegrees(v interface{}) interface{} {
	switch n := v.(type) {
	case int64:
		return float64(n) * degreesPerUnit
	case float64:
		return n * degreesPerUnit
	default:
		return v
	}
}
