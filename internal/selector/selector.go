// Package selector picks the next item to administer: the remaining item
// with the greatest Fisher information at the current ability estimate.
package selector

import (
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/bank"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/logger"
)

// MinInformation is the information level at or below which no remaining
// item is considered worth administering.
const MinInformation = 1e-9

// Candidates is the set of items a selection is made from.
// *bank.Pool and *bank.Bank both satisfy it.
type Candidates interface {
	Items() []bank.Item
}

// Selector chooses items by maximum information.
type Selector struct {
	log *logger.Logger
}

// New creates a Selector. A nil logger discards diagnostics.
func New(log *logger.Logger) *Selector {
	return &Selector{log: logger.OrNop(log)}
}

// Next returns the id of the most informative candidate at theta.
// ok is false when there is nothing to select: the pool is empty, an item
// has malformed parameters, or the best information is at or below
// MinInformation. Equal information is broken by the lowest id.
func (s *Selector) Next(theta float64, pool Candidates) (id int, ok bool) {
	items := pool.Items()
	if len(items) == 0 {
		s.log.Debug("no items remain to select from")
		return 0, false
	}

	bestID, bestInfo := 0, -1.0
	for _, it := range items {
		info, err := irt.ItemInformation(theta, it.A, it.B, it.C)
		if err != nil {
			s.log.Error("malformed item parameters; stopping selection",
				"item_id", it.ID,
				"theta", theta,
				"error", err,
			)
			return 0, false
		}
		if info > bestInfo || (info == bestInfo && it.ID < bestID) {
			bestID, bestInfo = it.ID, info
		}
	}

	if bestInfo <= MinInformation {
		s.log.Warn("no informative item remains",
			"theta", theta,
			"best_item_id", bestID,
			"information", bestInfo,
		)
		return 0, false
	}
	return bestID, true
}
