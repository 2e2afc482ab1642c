package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/civicengine/api/internal/model"
	"github.com/civicengine/api/internal/policy"
	"github.com/civicengine/api/internal/scoring"
)

var (
	// ErrUnknownArchetype means the requested preset does not exist.
	ErrUnknownArchetype = errors.New("unknown archetype")
	// ErrUnknownPolicy means a requested policy id is not in the catalog.
	ErrUnknownPolicy = errors.New("unknown policy")
)

// ScoreService computes personalized multi-lens scores over the policy
// catalog. The engine itself is pure; this layer resolves the caller's
// weight profile (archetype preset, explicit maps, or balanced
// defaults) and attaches insight lines.
type ScoreService struct {
	catalog *policy.Catalog
}

func NewScoreService(catalog *policy.Catalog) *ScoreService {
	return &ScoreService{catalog: catalog}
}

// resolvedWeights is one caller's full weight profile across the lenses.
type resolvedWeights struct {
	Impact  scoring.ImpactWeights
	Economy scoring.EconomyWeights
	Needs   scoring.NeedsWeights
	Lenses  scoring.LensWeights
}

// resolve builds the weight profile: archetype preset first, explicit
// per-lens maps layered on top, balanced defaults for whatever remains.
func resolve(req *model.ScoreRequest) (resolvedWeights, error) {
	w := resolvedWeights{
		Impact:  scoring.DefaultImpactWeights(),
		Economy: scoring.DefaultEconomyWeights(),
		Needs:   scoring.DefaultNeedsWeights(),
		Lenses:  scoring.DefaultLensWeights(),
	}

	if req.Archetype != "" {
		preset, ok := scoring.ArchetypeByID(req.Archetype)
		if !ok {
			return w, fmt.Errorf("%w: %s", ErrUnknownArchetype, req.Archetype)
		}
		w.Impact = preset.Impact
		w.Economy = preset.Economy
		w.Needs = preset.Needs
		w.Lenses = preset.Lenses
	}

	if req.Weights != nil {
		if len(req.Weights.Impact) > 0 {
			w.Impact = req.Weights.Impact
		}
		if len(req.Weights.Economy) > 0 {
			w.Economy = req.Weights.Economy
		}
		if len(req.Weights.Needs) > 0 {
			w.Needs = req.Weights.Needs
		}
		if req.Weights.Lenses != nil {
			w.Lenses = *req.Weights.Lenses
		}
	}

	return w, nil
}

// Score computes the personalized profile for a selection.
func (s *ScoreService) Score(req *model.ScoreRequest) (*model.ScoreResponse, error) {
	w, err := resolve(req)
	if err != nil {
		return nil, err
	}

	resp := &model.ScoreResponse{Scores: make([]model.PolicyScore, 0, len(req.PolicyIDs))}
	supportSum := 0
	for _, id := range req.PolicyIDs {
		p, ok := s.catalog.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, id)
		}
		resp.Scores = append(resp.Scores, scorePolicy(p, w, true))
		supportSum += p.AverageSupport
	}

	if len(resp.Scores) > 0 {
		resp.AvgConsensusSupport = int(math.Round(float64(supportSum) / float64(len(resp.Scores))))
	}
	return resp, nil
}

// Policies returns the full catalog with baseline scores (balanced
// weights) for the exploration surface.
func (s *ScoreService) Policies() *model.PolicyListResponse {
	defaults := resolvedWeights{
		Impact:  scoring.DefaultImpactWeights(),
		Economy: scoring.DefaultEconomyWeights(),
		Needs:   scoring.DefaultNeedsWeights(),
		Lenses:  scoring.DefaultLensWeights(),
	}

	all := s.catalog.All()
	resp := &model.PolicyListResponse{Policies: make([]model.PolicyScore, 0, len(all))}
	for _, p := range all {
		resp.Policies = append(resp.Policies, scorePolicy(p, defaults, false))
	}
	return resp
}

// Archetypes returns the preset weight profiles.
func (s *ScoreService) Archetypes() []scoring.Archetype {
	return scoring.Archetypes()
}

// scorePolicy runs all four lenses over one policy. Lenses with no
// authored factor table come back nil. The insight line compares the
// personalized unified score against the balanced-defaults baseline.
func scorePolicy(p *policy.Policy, w resolvedWeights, withInsight bool) model.PolicyScore {
	score := model.PolicyScore{
		PolicyID:       p.ID,
		Title:          p.Title,
		Category:       p.Category,
		AverageSupport: p.AverageSupport,
	}

	impact, hasImpact := scoring.ScoreImpact(p.Impact, w.Impact)
	economy, hasEconomy := scoring.ScoreEconomy(p.Economy, w.Economy)
	needs, hasNeeds := scoring.ScoreNeeds(p.Needs, w.Needs)

	if hasImpact {
		score.Impact = &impact
	}
	if hasEconomy {
		score.Economy = &economy
	}
	if hasNeeds {
		score.Needs = &needs
	}

	overall, hasOverall := scoring.ScoreUnified(impact, economy, needs, hasImpact, hasEconomy, hasNeeds, w.Lenses)
	if hasOverall {
		score.Overall = &overall
	}

	if withInsight && hasOverall {
		baseImpact, baseHasImpact := scoring.ScoreImpact(p.Impact, scoring.DefaultImpactWeights())
		baseEconomy, baseHasEconomy := scoring.ScoreEconomy(p.Economy, scoring.DefaultEconomyWeights())
		baseNeeds, baseHasNeeds := scoring.ScoreNeeds(p.Needs, scoring.DefaultNeedsWeights())
		base, baseOK := scoring.ScoreUnified(baseImpact, baseEconomy, baseNeeds,
			baseHasImpact, baseHasEconomy, baseHasNeeds, scoring.DefaultLensWeights())
		if baseOK {
			score.Insight = scoring.Insight(base, overall, w.Lenses)
		}
	}

	return score
}
