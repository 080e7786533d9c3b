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

// cmd/meshbridge/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mfreeman451/meshbridge/pkg/bridge"
	"github.com/mfreeman451/meshbridge/pkg/config"
	"github.com/mfreeman451/meshbridge/pkg/failurelog"
	"github.com/mfreeman451/meshbridge/pkg/lifecycle"
	"github.com/mfreeman451/meshbridge/pkg/mesh"
	"github.com/urfave/cli/v3"
)

const serviceName = "meshbridge"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  serviceName,
		Usage: "Copy the mesh node database into a time-series store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (.env, yaml or json); defaults to ./.env if present",
				Sources: cli.EnvVars("MESHBRIDGE_CONFIG"),
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Collect node snapshots until interrupted",
				Action: runAction,
			},
			{
				Name:  "uptime",
				Usage: "Print when the local node was powered on",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "wait",
						Usage: "How long to wait for the local node to be heard",
						Value: 30 * time.Second,
					},
				},
				Action: uptimeAction,
			},
		},
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	iface, err := openMesh(cfg)
	if err != nil {
		return fmt.Errorf("failed to open mesh interface: %w", err)
	}

	defer func() {
		if err := iface.Close(); err != nil {
			log.Printf("Failed to close mesh interface: %v", err)
		}
	}()

	writer, err := openWriter(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("Failed to close storage: %v", err)
		}
	}()

	b := bridge.New(bridgeConfig(cfg), iface, writer, failurelog.New(cfg.ErrorLog))

	return lifecycle.RunService(ctx, &lifecycle.ServiceOptions{
		ServiceName: serviceName,
		Service:     b,
	})
}

func uptimeAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	iface, err := openMesh(cfg)
	if err != nil {
		return fmt.Errorf("failed to open mesh interface: %w", err)
	}

	defer func() {
		if err := iface.Close(); err != nil {
			log.Printf("Failed to close mesh interface: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("wait"))
	defer cancel()

	poweredOn, err := waitPowerOnTime(ctx, iface, time.Second)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "Powered on at %s (up %v)\n",
		poweredOn.Format(time.RFC3339), time.Since(poweredOn).Round(time.Second))

	return err
}

// waitPowerOnTime retries while the local node has not been heard yet.
func waitPowerOnTime(ctx context.Context, iface mesh.Interface, every time.Duration) (time.Time, error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		t, err := mesh.PowerOnTime(ctx, iface, time.Now())
		if !errors.Is(err, mesh.ErrMyNodeUnknown) {
			return t, err
		}

		select {
		case <-ctx.Done():
			return time.Time{}, err
		case <-ticker.C:
		}
	}
}
