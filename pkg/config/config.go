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

// Package config pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultEnvFile is read when no config file is named. It may be missing.
const DefaultEnvFile = ".env"

const defaultPollInterval = 30 * time.Second

var (
	errUnknownBackend  = errors.New("unknown storage_backend")
	errUnknownSource   = errors.New("unknown mesh_source")
	errUnknownPolicy   = errors.New("unknown error_policy")
	errInvalidInterval = errors.New("poll_interval must be positive")
	errNegativeSetting = errors.New("setting must not be negative")
	errMissingSetting  = errors.New("setting is required")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("influxdb_url", "")
	v.SetDefault("influxdb_token", "")
	v.SetDefault("influxdb_org", "")
	v.SetDefault("influxdb_bucket", "")

	v.SetDefault("mesh_source", SourceFile)
	v.SetDefault("mesh_file", "nodes.json")
	v.SetDefault("my_node_id", "")
	v.SetDefault("mqtt_broker", "")
	v.SetDefault("mqtt_topic", "msh/+/2/json/#")
	v.SetDefault("mqtt_client_id", "")
	v.SetDefault("mqtt_username", "")
	v.SetDefault("mqtt_password", "")

	v.SetDefault("poll_interval", defaultPollInterval.String())
	v.SetDefault("error_log", "error.log")
	v.SetDefault("error_policy", PolicyAbort)
	v.SetDefault("snapshot_timeout", "0s")
	v.SetDefault("write_timeout", "0s")
	v.SetDefault("write_rate_limit", 0)

	v.SetDefault("storage_backend", BackendInflux)
	v.SetDefault("sqlite_path", "meshbridge.db")
	v.SetDefault("sqlite_retention", "0s")
}

// Load builds the configuration from defaults, the file at path and the
// environment, in increasing precedence. An empty path means DefaultEnvFile,
// which is skipped when it does not exist; a named file must exist. Files
// named *.env or .env* are read as dotenv, others by their extension.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	optional := path == ""
	if optional {
		path = DefaultEnvFile
	}

	v.SetConfigFile(path)

	if base := filepath.Base(path); strings.HasPrefix(base, ".env") || strings.HasSuffix(base, ".env") {
		v.SetConfigType("env")
	}

	if err := v.ReadInConfig(); err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file '%s': %w", path, err)
		}

		log.Printf("No %s file found, using environment and defaults", path)
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	if v, ok := cfg.(Validator); ok {
		return v.Validate()
	}

	return nil
}

// Validate implements Validator. The InfluxDB settings are not checked; see
// MissingInfluxSettings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendInflux, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, c.Backend)
	}

	switch c.Source {
	case SourceFile:
		if c.File == "" {
			return fmt.Errorf("%w: mesh_file", errMissingSetting)
		}
	case SourceMQTT:
		if c.MQTTBroker == "" {
			return fmt.Errorf("%w: mqtt_broker", errMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownSource, c.Source)
	}

	switch c.ErrorPolicy {
	case PolicyAbort, PolicyContinue:
	default:
		return fmt.Errorf("%w: %q", errUnknownPolicy, c.ErrorPolicy)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: %v", errInvalidInterval, c.PollInterval)
	}

	if c.SnapshotTimeout < 0 || c.WriteTimeout < 0 || c.WriteRateLimit < 0 || c.SQLiteRetention < 0 {
		return errNegativeSetting
	}

	return nil
}

// MissingInfluxSettings lists the InfluxDB settings that are empty. Missing
// settings surface as write errors, so callers only warn about them.
func (c *Config) MissingInfluxSettings() []string {
	var missing []string

	for key, val := range map[string]string{
		"INFLUXDB_URL":    c.URL,
		"INFLUXDB_TOKEN":  c.Token,
		"INFLUXDB_ORG":    c.Org,
		"INFLUXDB_BUCKET": c.Bucket,
	} {
		if val == "" {
			missing = append(missing, key)
		}
	}

	return missing
}
