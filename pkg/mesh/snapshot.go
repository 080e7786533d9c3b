package mesh

import (
	"github.com/mfreeman451/meshbridge/pkg/models"
)

// Entry is one node of a snapshot.
type Entry struct {
	ID     string
	Record models.NodeRecord
}

// Snapshot is the node database at one instant, in the order the interface
// keeps its nodes.
type Snapshot []Entry

// Get returns the record for id.
func (s Snapshot) Get(id string) (models.NodeRecord, bool) {
	for _, e := range s {
		if e.ID == id {
			return e.Record, true
		}
	}

	return nil, false
}
