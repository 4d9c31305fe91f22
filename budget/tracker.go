// Package budget keeps the spend ledger for one compilation run.
package budget

import (
	"fmt"
	"sync"
)

// epsilon absorbs float rounding when comparing dollar amounts
const epsilon = 1e-9

// Tracker is a spend ledger with a hard cap. Spend only ever increases between resets.
type Tracker struct {
	mu        sync.Mutex
	spend     float64
	ceiling   float64
	unitCost  float64
	processed int
}

// NewTracker creates a tracker with the given cap and per-item unit cost
func NewTracker(ceiling, unitCost float64) *Tracker {
	return &Tracker{ceiling: ceiling, unitCost: unitCost}
}

// Reset zeroes spend and the processed counter and installs a new cap
func (t *Tracker) Reset(ceiling float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spend = 0
	t.processed = 0
	t.ceiling = ceiling
}

// RecordSpend commits amount if it fits under the cap. It returns false and leaves
// spend unchanged when spend has reached the cap or spend+amount would exceed it.
func (t *Tracker) RecordSpend(amount float64) bool {
	if amount < 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.spend >= t.ceiling-epsilon || t.spend+amount > t.ceiling+epsilon {
		return false
	}
	t.spend += amount
	return true
}

// Remaining returns the budget left before the cap
func (t *Tracker) Remaining() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := t.ceiling - t.spend
	if r < 0 {
		return 0
	}
	return r
}

// Estimate returns the cost of reading n items
func (t *Tracker) Estimate(n int) float64 {
	return float64(n) * t.unitCost
}

// AddProcessed counts items that went through enrichment and judging
func (t *Tracker) AddProcessed(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processed += n
}

// Snapshot returns the current cost summary
func (t *Tracker) Snapshot() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := t.ceiling - t.spend
	if remaining < 0 {
		remaining = 0
	}
	return Summary{
		Spend:          t.spend,
		Budget:         t.ceiling,
		Remaining:      remaining,
		ItemsProcessed: t.processed,
	}
}

// Summary renders the ledger for logs
func (t *Tracker) Summary() string {
	return t.Snapshot().String()
}

// Summary is the cost report exposed to consumers
type Summary struct {
	Spend          float64 `json:"spend"`
	Budget         float64 `json:"budget"`
	Remaining      float64 `json:"remaining"`
	ItemsProcessed int     `json:"itemsProcessed"`
}

func (s Summary) String() string {
	return fmt.Sprintf("spent $%.4f of $%.4f ($%.4f remaining), %d items processed",
		s.Spend, s.Budget, s.Remaining, s.ItemsProcessed)
}
