// Package mesh pkg/mesh/interfaces.go
package mesh

import (
	"context"

	"github.com/mfreeman451/meshbridge/pkg/models"
)

//go:generate mockgen -destination=mock_mesh.go -package=mesh github.com/mfreeman451/meshbridge/pkg/mesh Interface

// Interface is a connection to a mesh radio network. The connection is opened
// by the constructor and held until Close.
type Interface interface {
	// NodeSnapshot returns the current node database. ok is false when the
	// interface has no node database to offer yet.
	NodeSnapshot(ctx context.Context) (snap Snapshot, ok bool, err error)
	// MyNode returns the record of the locally attached node.
	MyNode(ctx context.Context) (node models.NodeRecord, ok bool, err error)
	// Close releases the connection.
	Close() error
}
