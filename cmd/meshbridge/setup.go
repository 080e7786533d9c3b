package main

import (
	"fmt"
	"log"

	"github.com/mfreeman451/meshbridge/pkg/bridge"
	"github.com/mfreeman451/meshbridge/pkg/config"
	"github.com/mfreeman451/meshbridge/pkg/mesh"
	"github.com/mfreeman451/meshbridge/pkg/storage"
)

// openMesh connects to the configured mesh source.
func openMesh(cfg *config.Config) (mesh.Interface, error) {
	switch cfg.Source {
	case config.SourceFile:
		return mesh.NewFileInterface(cfg.File, cfg.MyNodeID)
	case config.SourceMQTT:
		return mesh.NewMQTTInterface(mesh.MQTTConfig{
			Broker:   cfg.MQTTBroker,
			Topic:    cfg.MQTTTopic,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
			MyNodeID: cfg.MyNodeID,
		})
	default:
		return nil, fmt.Errorf("%w: %q", mesh.ErrUnsupportedSource, cfg.Source)
	}
}

// openWriter opens the configured storage backend.
func openWriter(cfg *config.Config) (storage.Writer, error) {
	switch cfg.Backend {
	case config.BackendInflux:
		if missing := cfg.MissingInfluxSettings(); len(missing) > 0 {
			log.Printf("Warning: %v not set, writes will fail until they are", missing)
		}

		return storage.NewInfluxWriter(cfg.URL, cfg.Token), nil
	case config.BackendSQLite:
		return storage.NewSQLiteWriter(cfg.SQLitePath, cfg.SQLiteRetention)
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, cfg.Backend)
	}
}

func bridgeConfig(cfg *config.Config) bridge.Config {
	return bridge.Config{
		Bucket:          cfg.Bucket,
		Org:             cfg.Org,
		Interval:        cfg.PollInterval,
		ErrorPolicy:     cfg.ErrorPolicy,
		SnapshotTimeout: cfg.SnapshotTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		WriteRateLimit:  cfg.WriteRateLimit,
	}
}
