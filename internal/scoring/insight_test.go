package scoring

import (
	"strings"
	"testing"
)

func TestInsight_SuppressedBelowThreshold(t *testing.T) {
	w := ImpactWeights{ImpactEquity: 0.5, ImpactReach: 0.1}
	for _, delta := range []int{-2, -1, 0, 1, 2} {
		if got := Insight(60, 60+delta, w); got != "" {
			t.Errorf("delta %d: expected no insight, got %q", delta, got)
		}
	}
}

func TestInsight_NamesTopFactor(t *testing.T) {
	w := ImpactWeights{ImpactEquity: 0.5, ImpactReach: 0.1, ImpactEvidence: 0.1}
	got := Insight(60, 68, w)
	if got == "" {
		t.Fatal("expected insight text for an 8 point delta")
	}
	if !strings.Contains(got, "fairness") {
		t.Errorf("expected top factor label in %q", got)
	}
	if !strings.Contains(got, "8 points better") {
		t.Errorf("expected delta and direction in %q", got)
	}
}

func TestInsight_Underperform(t *testing.T) {
	w := EconomyWeights{EconomyDeficit: 0.6, EconomyJobs: 0.2}
	got := Insight(70, 55, w)
	if !strings.Contains(got, "fiscal responsibility") || !strings.Contains(got, "15 points worse") {
		t.Errorf("unexpected insight %q", got)
	}
}

func TestInsight_FlatProfileSaysNothing(t *testing.T) {
	if got := Insight(40, 80, DefaultImpactWeights()); got != "" {
		t.Errorf("flat profile has no standout factor, got %q", got)
	}
}

func TestInsight_TiedFactorsBothNamed(t *testing.T) {
	w := NeedsWeights{NeedHealth: 0.4, NeedSecurity: 0.4, NeedAutonomy: 0.2}
	got := Insight(50, 60, w)
	if !strings.Contains(got, "health") || !strings.Contains(got, "security") {
		t.Errorf("expected both tied factors in %q", got)
	}
}
