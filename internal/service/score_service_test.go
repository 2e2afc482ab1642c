package service

import (
	"errors"
	"testing"

	"github.com/civicengine/api/internal/model"
	"github.com/civicengine/api/internal/policy"
	"github.com/civicengine/api/internal/scoring"
)

func TestScoreDefaultsWholeCatalog(t *testing.T) {
	svc := NewScoreService(policy.Default())

	ids := []string{}
	for _, p := range policy.Default().All() {
		ids = append(ids, p.ID)
	}

	resp, err := svc.Score(&model.ScoreRequest{PolicyIDs: ids})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(resp.Scores) != len(ids) {
		t.Fatalf("got %d scores, want %d", len(resp.Scores), len(ids))
	}

	for _, s := range resp.Scores {
		for name, v := range map[string]*int{"impact": s.Impact, "economics": s.Economy, "needs": s.Needs, "overall": s.Overall} {
			if v != nil && (*v < 0 || *v > 100) {
				t.Errorf("%s: %s score %d out of range", s.PolicyID, name, *v)
			}
		}
		// Every catalog policy has at least one lens authored.
		if s.Overall == nil {
			t.Errorf("%s: expected an overall score", s.PolicyID)
		}
	}
	if resp.AvgConsensusSupport < 0 || resp.AvgConsensusSupport > 100 {
		t.Errorf("avg consensus support %d out of range", resp.AvgConsensusSupport)
	}
}

func TestScoreArchetypeResolves(t *testing.T) {
	svc := NewScoreService(policy.Default())

	resp, err := svc.Score(&model.ScoreRequest{
		PolicyIDs: []string{"childcare-tax-credit"},
		Archetype: "guardian",
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if resp.Scores[0].Overall == nil {
		t.Fatal("expected an overall score")
	}
}

func TestScoreUnknownArchetype(t *testing.T) {
	svc := NewScoreService(policy.Default())

	_, err := svc.Score(&model.ScoreRequest{
		PolicyIDs: []string{"childcare-tax-credit"},
		Archetype: "nope",
	})
	if !errors.Is(err, ErrUnknownArchetype) {
		t.Fatalf("got %v, want ErrUnknownArchetype", err)
	}
}

func TestScoreUnknownPolicy(t *testing.T) {
	svc := NewScoreService(policy.Default())

	_, err := svc.Score(&model.ScoreRequest{PolicyIDs: []string{"missing"}})
	if !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("got %v, want ErrUnknownPolicy", err)
	}
}

func TestExplicitWeightsOverrideArchetype(t *testing.T) {
	req := &model.ScoreRequest{
		PolicyIDs: []string{"childcare-tax-credit"},
		Archetype: "optimizer",
		Weights: &model.WeightInputs{
			Lenses: &scoring.LensWeights{Impact: 1},
		},
	}

	w, err := resolve(req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if w.Lenses.Impact != 1 || w.Lenses.Economy != 0 {
		t.Errorf("explicit lens weights should win over the preset, got %+v", w.Lenses)
	}

	// Impact map untouched by the override comes from the preset.
	preset, _ := scoring.ArchetypeByID("optimizer")
	if w.Impact[scoring.ImpactEvidence] != preset.Impact[scoring.ImpactEvidence] {
		t.Errorf("impact weights should come from the preset")
	}
}

func TestPoliciesBaseline(t *testing.T) {
	svc := NewScoreService(policy.Default())

	resp := svc.Policies()
	if len(resp.Policies) != policy.Default().Len() {
		t.Fatalf("got %d policies, want %d", len(resp.Policies), policy.Default().Len())
	}
	for _, p := range resp.Policies {
		if p.Insight != "" {
			t.Errorf("%s: baseline listing should carry no insight text", p.PolicyID)
		}
	}
}
