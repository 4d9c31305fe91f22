package budget

import (
	"math"
	"strings"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRecordSpendRejectsOverCap(t *testing.T) {
	tr := NewTracker(0.10, 0.005)

	if !tr.RecordSpend(0.075) {
		t.Fatal("expected first spend to be accepted")
	}
	if !almost(tr.Remaining(), 0.025) {
		t.Fatalf("Remaining() = %v; want 0.025", tr.Remaining())
	}
	if tr.RecordSpend(0.075) {
		t.Fatal("expected spend over the cap to be rejected")
	}
	if !almost(tr.Snapshot().Spend, 0.075) {
		t.Fatalf("rejected spend must leave ledger unchanged, got %v", tr.Snapshot().Spend)
	}
	if !tr.RecordSpend(0.025) {
		t.Fatal("spend exactly reaching the cap should be accepted")
	}
	for _, amount := range []float64{0.001, 1e-10, 0} {
		if tr.RecordSpend(amount) {
			t.Fatalf("RecordSpend(%v) accepted once spend >= cap", amount)
		}
	}
	if !almost(tr.Snapshot().Spend, 0.10) {
		t.Fatalf("spend moved past the cap: %v", tr.Snapshot().Spend)
	}
}

func TestSpendIsMonotonic(t *testing.T) {
	tr := NewTracker(1, 0.01)
	prev := 0.0
	for _, amt := range []float64{0.1, -0.5, 0.2, 2, 0.3, 0} {
		tr.RecordSpend(amt)
		cur := tr.Snapshot().Spend
		if cur < prev {
			t.Fatalf("spend decreased from %v to %v after %v", prev, cur, amt)
		}
		prev = cur
	}
}

func TestResetAndSummary(t *testing.T) {
	tr := NewTracker(0.5, 0.005)
	tr.RecordSpend(0.2)
	tr.AddProcessed(4)
	tr.Reset(0.10)

	s := tr.Snapshot()
	if s.Spend != 0 || s.ItemsProcessed != 0 || s.Budget != 0.10 {
		t.Fatalf("unexpected snapshot after reset: %+v", s)
	}
	if !almost(tr.Estimate(15), 0.075) {
		t.Fatalf("Estimate(15) = %v", tr.Estimate(15))
	}
	if !strings.Contains(tr.Summary(), "$0.1000") {
		t.Fatalf("summary missing budget: %s", tr.Summary())
	}
}
