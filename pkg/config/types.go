package config

import "time"

// Storage backends.
const (
	BackendInflux = "influx"
	BackendSQLite = "sqlite"
)

// Mesh sources.
const (
	SourceFile = "file"
	SourceMQTT = "mqtt"
)

// Error policies.
const (
	PolicyAbort    = "abort"
	PolicyContinue = "continue"
)

// InfluxDBConfig holds the InfluxDB connection settings. The bucket and
// org are also the write coordinates handed to every storage backend.
type InfluxDBConfig struct {
	URL    string `mapstructure:"influxdb_url"`
	Token  string `mapstructure:"influxdb_token"`
	Org    string `mapstructure:"influxdb_org"`
	Bucket string `mapstructure:"influxdb_bucket"`
}

// MeshConfig selects and configures the mesh interface.
type MeshConfig struct {
	Source       string `mapstructure:"mesh_source"`   // file or mqtt
	File         string `mapstructure:"mesh_file"`     // node database dump for the file source
	MyNodeID     string `mapstructure:"my_node_id"`    // e.g. !a2c3d4b2
	MQTTBroker   string `mapstructure:"mqtt_broker"`   // e.g. tcp://localhost:1883
	MQTTTopic    string `mapstructure:"mqtt_topic"`
	MQTTClientID string `mapstructure:"mqtt_client_id"`
	MQTTUsername string `mapstructure:"mqtt_username"`
	MQTTPassword string `mapstructure:"mqtt_password"`
}

// CollectorConfig tunes the collection loop.
type CollectorConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	ErrorLog        string        `mapstructure:"error_log"`
	ErrorPolicy     string        `mapstructure:"error_policy"`
	SnapshotTimeout time.Duration `mapstructure:"snapshot_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	WriteRateLimit  float64       `mapstructure:"write_rate_limit"` // points per second, 0 is unlimited
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	Backend         string        `mapstructure:"storage_backend"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	SQLiteRetention time.Duration `mapstructure:"sqlite_retention"`
}

// Config is the complete bridge configuration. Every key is flat so the same
// name works as an environment variable (upper case) and in a .env file.
type Config struct {
	InfluxDBConfig  `mapstructure:",squash"`
	MeshConfig      `mapstructure:",squash"`
	CollectorConfig `mapstructure:",squash"`
	StorageConfig   `mapstructure:",squash"`
}
