// Package bank holds the item pool a CAT run draws from: the canonical,
// read-only Bank and the per-run Pool of items not yet administered.
package bank

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
)

// Parameter ranges used by Generate.
const (
	MinDiscrimination = 0.2
	MaxDiscrimination = 1.5
	MinDifficulty     = -2.0
	MaxDifficulty     = 2.0
	MinGuessing       = 0.1
	MaxGuessing       = 0.25
)

// Item is a calibrated 3PL item.
type Item struct {
	ID int     `json:"id"`
	A  float64 `json:"a"` // discrimination
	B  float64 `json:"b"` // difficulty
	C  float64 `json:"c"` // guessing
}

// Validate checks that the parameters are finite, a > 0 and c in [0,1).
func (it Item) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{{"a", it.A}, {"b", it.B}, {"c", it.C}} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &irt.ValidationError{Field: fmt.Sprintf("item[%d].%s", it.ID, f.name), Index: -1, Value: f.value, Reason: "must be a finite number"}
		}
	}
	if it.A <= 0 {
		return &irt.ValidationError{Field: fmt.Sprintf("item[%d].a", it.ID), Index: -1, Value: it.A, Reason: "discrimination must be positive"}
	}
	if it.C < 0 || it.C >= 1 {
		return &irt.ValidationError{Field: fmt.Sprintf("item[%d].c", it.ID), Index: -1, Value: it.C, Reason: "guessing parameter must be in [0,1)"}
	}
	return nil
}

// Bank is an immutable id-keyed collection of items. Runs never modify it;
// they work on a Pool obtained from Pool().
type Bank struct {
	items map[int]Item
}

// New builds a bank from items, rejecting duplicate ids and invalid
// parameters.
func New(items []Item) (*Bank, error) {
	b := &Bank{items: make(map[int]Item, len(items))}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, dup := b.items[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %d", it.ID)
		}
		b.items[it.ID] = it
	}
	return b, nil
}

// Generate deterministically creates n items with ids 0..n-1, drawing
// a∈[0.2,1.5], b∈[-2,2] and c∈[0.1,0.25) uniformly from a source seeded
// with seed. The same seed and n always produce the same bank.
func Generate(n int, seed int64) (*Bank, error) {
	if n <= 0 {
		return nil, &irt.ValidationError{Field: "num_questions", Index: -1, Value: float64(n), Reason: "must be a positive integer"}
	}

	rng := rand.New(rand.NewSource(seed))
	b := &Bank{items: make(map[int]Item, n)}
	for id := 0; id < n; id++ {
		b.items[id] = Item{
			ID: id,
			A:  uniform(rng, MinDiscrimination, MaxDiscrimination),
			B:  uniform(rng, MinDifficulty, MaxDifficulty),
			C:  uniform(rng, MinGuessing, MaxGuessing),
		}
	}
	return b, nil
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// Len returns the number of items.
func (b *Bank) Len() int { return len(b.items) }

// Get returns the item with the given id.
func (b *Bank) Get(id int) (Item, bool) {
	it, ok := b.items[id]
	return it, ok
}

// Items returns all items sorted by id.
func (b *Bank) Items() []Item {
	return sortedItems(b.items)
}

// Pool returns an independent working copy of the bank for one run.
func (b *Bank) Pool() *Pool {
	remaining := make(map[int]Item, len(b.items))
	for id, it := range b.items {
		remaining[id] = it
	}
	return &Pool{remaining: remaining}
}

// Pool is the set of items not yet administered in a run. It is owned by
// a single run and is not safe for concurrent use.
type Pool struct {
	remaining map[int]Item
}

// Len returns the number of items left.
func (p *Pool) Len() int { return len(p.remaining) }

// Get returns a remaining item by id.
func (p *Pool) Get(id int) (Item, bool) {
	it, ok := p.remaining[id]
	return it, ok
}

// Remove drops an administered item. Removing an absent id is a no-op.
func (p *Pool) Remove(id int) {
	delete(p.remaining, id)
}

// Items returns the remaining items sorted by id.
func (p *Pool) Items() []Item {
	return sortedItems(p.remaining)
}

func sortedItems(m map[int]Item) []Item {
	out := make([]Item, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
