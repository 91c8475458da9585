package directory

import (
	"cmp"
	"slices"

	"github.com/marcusziade/maykott/pkg/models"
)

// Leadership is the executive profile directory
type Leadership struct {
	ordered []models.Leader
}

// NewLeadership creates a directory over a copy of records. The ranking by
// Order is computed once; equal orders keep their input sequence.
func NewLeadership(records []models.Leader) *Leadership {
	ordered := slices.Clone(records)
	slices.SortStableFunc(ordered, func(a, b models.Leader) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return &Leadership{ordered: ordered}
}

// AllOrdered returns every leader ranked by ascending Order
func (d *Leadership) AllOrdered() []models.Leader {
	return slices.Clone(d.ordered)
}

// Featured returns featured leaders by rank, at most limit of them. A limit
// of zero or less returns every featured leader.
func (d *Leadership) Featured(limit int) []models.Leader {
	return featured(d.ordered, func(l models.Leader) bool { return l.Featured }, limit)
}

// FindByID looks up a leader by ID
func (d *Leadership) FindByID(id string) (models.Leader, bool) {
	for _, l := range d.ordered {
		if l.ID == id {
			return l, true
		}
	}
	return models.Leader{}, false
}
