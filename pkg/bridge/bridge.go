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

// Package bridge pkg/bridge/bridge.go runs the collection loop that copies the
// mesh node database into a time-series store.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mfreeman451/meshbridge/pkg/config"
	"github.com/mfreeman451/meshbridge/pkg/failurelog"
	"github.com/mfreeman451/meshbridge/pkg/mapper"
	"github.com/mfreeman451/meshbridge/pkg/mesh"
	"github.com/mfreeman451/meshbridge/pkg/storage"
	"golang.org/x/time/rate"
)

// DefaultInterval is the pause between two cycles.
const DefaultInterval = 30 * time.Second

// Config holds the collector settings.
type Config struct {
	Bucket          string
	Org             string
	Interval        time.Duration
	ErrorPolicy     string // config.PolicyAbort or config.PolicyContinue
	SnapshotTimeout time.Duration
	WriteTimeout    time.Duration
	WriteRateLimit  float64 // points per second, 0 is unlimited
}

// Bridge polls a mesh interface and writes one point per heard node.
type Bridge struct {
	config   Config
	mesh     mesh.Interface
	writer   storage.Writer
	failures *failurelog.Log
	limiter  *rate.Limiter

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a collector. The mesh interface and writer stay owned by the
// caller, which closes them after Stop.
func New(cfg Config, iface mesh.Interface, writer storage.Writer, failures *failurelog.Log) *Bridge {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	if cfg.ErrorPolicy == "" {
		cfg.ErrorPolicy = config.PolicyAbort
	}

	b := &Bridge{
		config:   cfg,
		mesh:     iface,
		writer:   writer,
		failures: failures,
		now:      time.Now,
		wait:     sleep,
	}

	if cfg.WriteRateLimit > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.WriteRateLimit), 1)
	}

	return b
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Start runs cycles until ctx is cancelled or Stop is called. The pause
// between cycles is fixed and does not depend on how long a cycle took.
func (b *Bridge) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()

		return ErrAlreadyStarted
	}

	done := make(chan struct{})
	b.cancel, b.done = cancel, done
	b.mu.Unlock()

	defer close(done)

	log.Printf("Starting collector with interval %v and error policy %s", b.config.Interval, b.config.ErrorPolicy)

	for {
		report := b.collect(ctx)
		log.Print(report)

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := b.wait(ctx, b.config.Interval); err != nil {
			return err
		}
	}
}

// Stop cancels the loop and waits for the running cycle to finish.
func (b *Bridge) Stop(ctx context.Context) error {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()

	select {
	case <-done:
		log.Printf("Collector stopped")

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}

// collect runs a single cycle.
func (b *Bridge) collect(ctx context.Context) *CycleReport {
	report := newCycleReport(uuid.NewString(), b.now())
	defer func() { report.Duration = b.now().Sub(report.Started) }()

	snapCtx, cancel := withTimeout(ctx, b.config.SnapshotTimeout)
	snap, ok, err := b.mesh.NodeSnapshot(snapCtx)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			report.Cancelled = true

			return report
		}

		b.recordFailure(report, fmt.Errorf("%w: %w", ErrSnapshot, err))

		return report
	}

	if !ok {
		report.Absent = true

		return report
	}

	for i, entry := range snap {
		if !b.collectNode(ctx, report, entry) {
			for _, rest := range snap[i+1:] {
				report.add(rest.ID, NodeNotAttempted, nil)
			}

			break
		}
	}

	b.maintain(ctx, report)

	return report
}

// collectNode maps and writes one node. It returns false when the rest of the
// cycle must be abandoned.
func (b *Bridge) collectNode(ctx context.Context, report *CycleReport, entry mesh.Entry) bool {
	if ctx.Err() != nil {
		report.Cancelled = true
		report.add(entry.ID, NodeNotAttempted, nil)

		return false
	}

	point, ok, err := mapper.NodeToPoint(entry.Record)
	if err != nil {
		return b.nodeFailed(report, entry.ID, fmt.Errorf("%w %s: %w", ErrMapNode, entry.ID, err))
	}

	if !ok {
		log.Printf("Node %s has no lastHeard, skipping", entry.ID)
		report.add(entry.ID, NodeSkipped, nil)

		return true
	}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			report.Cancelled = true
			report.add(entry.ID, NodeNotAttempted, nil)

			return false
		}
	}

	writeCtx, cancel := withTimeout(ctx, b.config.WriteTimeout)
	err = b.writer.WritePoint(writeCtx, b.config.Bucket, b.config.Org, point)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			report.Cancelled = true
			report.add(entry.ID, NodeNotAttempted, nil)

			return false
		}

		return b.nodeFailed(report, entry.ID, fmt.Errorf("%w for node %s: %w", ErrWritePoint, entry.ID, err))
	}

	report.add(entry.ID, NodeWritten, nil)

	return true
}

func (b *Bridge) nodeFailed(report *CycleReport, id string, err error) bool {
	report.add(id, NodeFailed, err)
	b.logFailure(report.CycleID, err)

	return b.config.ErrorPolicy == config.PolicyContinue
}

func (b *Bridge) maintain(ctx context.Context, report *CycleReport) {
	m, ok := b.writer.(storage.Maintainer)
	if !ok || ctx.Err() != nil {
		return
	}

	if err := m.Maintain(ctx, b.now()); err != nil && !errors.Is(err, context.Canceled) {
		b.recordFailure(report, fmt.Errorf("%w: %w", ErrMaintain, err))
	}
}

func (b *Bridge) recordFailure(report *CycleReport, err error) {
	report.Errors = append(report.Errors, err)
	b.logFailure(report.CycleID, err)
}

func (b *Bridge) logFailure(cycleID string, err error) {
	log.Printf("Cycle %s error: %v", cycleID, err)

	if b.failures == nil {
		return
	}

	if logErr := b.failures.Append(err); logErr != nil {
		log.Printf("Failed to append to failure log: %v", logErr)
	}
}
