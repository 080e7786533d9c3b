package mesh

import "errors"

var (
	ErrNodeDBNotObject    = errors.New("node database is not a JSON object")
	ErrDecodeNodeDB       = errors.New("failed to decode node database")
	ErrReadNodeDB         = errors.New("failed to read node database")
	ErrMQTTConnect        = errors.New("MQTT connect failed")
	ErrMQTTSubscribe      = errors.New("MQTT subscribe failed")
	ErrMQTTTimeout        = errors.New("MQTT operation timed out")
	ErrMissingSender      = errors.New("envelope has no sender")
	ErrMyNodeUnknown      = errors.New("local node is not in the node database")
	ErrNoUptime           = errors.New("local node reports no uptime")
	ErrUnsupportedSource  = errors.New("unsupported mesh source")
	ErrMyNodeIDRequired   = errors.New("my_node_id is required for this source")
	ErrMQTTBrokerRequired = errors.New("mqtt_broker is required")
)
