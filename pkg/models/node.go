// Package models pkg/models/node.go
package models

import "fmt"

// NodeRecord is one mesh peer as last observed by the mesh interface. It is
// keyed by the field names the radio reports and is only partially populated.
type NodeRecord map[string]interface{}

// Node record keys.
const (
	KeyNum           = "num"
	KeyUser          = "user"
	KeyDeviceMetrics = "deviceMetrics"
	KeyPosition      = "position"
	KeySNR           = "snr"
	KeyHopsAway      = "hopsAway"
	KeyLastHeard     = "lastHeard"
)

// Lookup returns the value stored under key and whether the key exists.
func (n NodeRecord) Lookup(key string) (interface{}, bool) {
	if n == nil {
		return nil, false
	}

	v, ok := n[key]

	return v, ok
}

// Sub returns the nested record stored under key. ok is false when the key is
// missing. A key holding anything but an object, null included, is an error.
func (n NodeRecord) Sub(key string) (NodeRecord, bool, error) {
	v, ok := n.Lookup(key)
	if !ok {
		return nil, false, nil
	}

	switch sub := v.(type) {
	case NodeRecord:
		return sub, true, nil
	case map[string]interface{}:
		return sub, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %s is %T", ErrNotObject, key, v)
	}
}

// Value returns the three-state value of key.
func (n NodeRecord) Value(key string) Value {
	v, ok := n.Lookup(key)
	if !ok {
		return Absent()
	}

	if v == nil {
		return Null()
	}

	return Present(v)
}

// Clone returns a copy of the record. Nested records are copied one level
// deep, which is as deep as the mesh sources ever mutate.
func (n NodeRecord) Clone() NodeRecord {
	if n == nil {
		return nil
	}

	out := make(NodeRecord, len(n))

	for k, v := range n {
		switch sub := v.(type) {
		case NodeRecord:
			out[k] = shallowCopy(sub)
		case map[string]interface{}:
			out[k] = shallowCopy(sub)
		default:
			out[k] = v
		}
	}

	return out
}

func shallowCopy(m map[string]interface{}) NodeRecord {
	out := make(NodeRecord, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
