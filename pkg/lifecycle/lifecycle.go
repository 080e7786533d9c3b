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

// Package lifecycle pkg/lifecycle/lifecycle.go runs a long-lived service until
// it fails or the process is asked to stop.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const ShutdownTimeout = 10 * time.Second

// Service defines the interface that all services must implement.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// ServiceOptions holds configuration for running a service.
type ServiceOptions struct {
	ServiceName     string
	Service         Service
	ShutdownTimeout time.Duration
	Signals         []os.Signal // defaults to SIGINT and SIGTERM
}

// RunService starts opts.Service and blocks until it returns, ctx is cancelled
// or a signal arrives. The service is then stopped within the shutdown
// timeout. A cancellation-driven stop is not an error.
func RunService(ctx context.Context, opts *ServiceOptions) error {
	signals := opts.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = ShutdownTimeout
	}

	ctx, stopSignals := signal.NotifyContext(ctx, signals...)
	defer stopSignals()

	log.Printf("*** Starting service %s", opts.ServiceName)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := opts.Service.Start(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("service error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		if ctx.Err() != nil {
			log.Printf("Received shutdown request, stopping %s", opts.ServiceName)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := opts.Service.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("Service %s exited: %v", opts.ServiceName, err)

		return err
	}

	log.Printf("Service %s stopped", opts.ServiceName)

	return nil
}
