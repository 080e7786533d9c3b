package bridge

import (
	"errors"
	"fmt"
	"time"
)

// NodeResult is what happened to one node during a cycle.
type NodeResult int

const (
	NodeNotAttempted NodeResult = iota
	NodeWritten
	NodeSkipped
	NodeFailed
)

func (r NodeResult) String() string {
	switch r {
	case NodeWritten:
		return "written"
	case NodeSkipped:
		return "skipped"
	case NodeFailed:
		return "failed"
	case NodeNotAttempted:
		return "not attempted"
	default:
		return fmt.Sprintf("NodeResult(%d)", int(r))
	}
}

// NodeOutcome is the result for a single node id.
type NodeOutcome struct {
	ID     string
	Result NodeResult
	Err    error
}

// CycleReport summarizes one collection cycle.
type CycleReport struct {
	CycleID   string
	Started   time.Time
	Duration  time.Duration
	Absent    bool // the mesh interface had no snapshot to offer
	Cancelled bool
	Nodes     []NodeOutcome
	Errors    []error
}

func newCycleReport(id string, started time.Time) *CycleReport {
	return &CycleReport{CycleID: id, Started: started}
}

func (r *CycleReport) add(id string, result NodeResult, err error) {
	r.Nodes = append(r.Nodes, NodeOutcome{ID: id, Result: result, Err: err})

	if err != nil {
		r.Errors = append(r.Errors, err)
	}
}

// Count returns how many nodes ended with result.
func (r *CycleReport) Count(result NodeResult) int {
	n := 0

	for _, o := range r.Nodes {
		if o.Result == result {
			n++
		}
	}

	return n
}

// Err joins every error of the cycle, or returns nil.
func (r *CycleReport) Err() error {
	return errors.Join(r.Errors...)
}

func (r *CycleReport) String() string {
	if r.Absent {
		return fmt.Sprintf("cycle %s: no node snapshot available", r.CycleID)
	}

	s := fmt.Sprintf("cycle %s: %d nodes, %d written, %d skipped, %d failed, %d not attempted, %d errors in %v",
		r.CycleID,
		len(r.Nodes),
		r.Count(NodeWritten),
		r.Count(NodeSkipped),
		r.Count(NodeFailed),
		r.Count(NodeNotAttempted),
		len(r.Errors),
		r.Duration.Round(time.Millisecond))

	if r.Cancelled {
		s += " (cancelled)"
	}

	return s
}
