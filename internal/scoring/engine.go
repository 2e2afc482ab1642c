package scoring

import "math"

// FactorScore is one authored factor strength with an optional
// human-readable rationale shown in policy detail views.
type FactorScore struct {
	Value     float64 `json:"value"` // normalized to [0,1]
	Rationale string  `json:"rationale,omitempty"`
}

// ImpactProfile is a policy's authored V1 factor table.
type ImpactProfile map[ImpactFactor]FactorScore

// EconomyProfile is a policy's authored V2 factor table.
type EconomyProfile map[EconomyFactor]FactorScore

// NeedsProfile is a policy's authored V3 data: five category scores and
// four fixed dimension scores, all natively 0-10 with 5 as neutral.
type NeedsProfile struct {
	Categories map[NeedCategory]float64 `json:"categories"`
	// Dimensions are urgency, breadth, persistence, agency — always
	// exactly four and always averaged unweighted.
	Dimensions [4]float64 `json:"dimensions"`
}

// neutralScore is returned whenever a normalization denominator
// collapses to zero; the midpoint is the only defensible answer there.
const neutralScore = 50

// ScoreImpact computes the V1 score: a weighted sum over the seven
// impact factors, scaled to 0-100. The second return is false when the
// policy has no V1 factor data.
func ScoreImpact(p ImpactProfile, w ImpactWeights) (int, bool) {
	if len(p) == 0 {
		return 0, false
	}
	if w == nil {
		w = DefaultImpactWeights()
	}
	var sum, total float64
	for _, f := range ImpactFactors {
		fs, ok := p[f]
		if !ok {
			continue
		}
		weight, present := w[f]
		if !present {
			weight = 1.0 / float64(len(ImpactFactors))
		}
		if weight < 0 {
			weight = 0
		}
		sum += weight * clamp01(fs.Value)
		total += weight
	}
	return normalize(sum, total), true
}

// ScoreEconomy computes the V2 score over the thirteen
// political-economy factors, scaled to 0-100.
func ScoreEconomy(p EconomyProfile, w EconomyWeights) (int, bool) {
	if len(p) == 0 {
		return 0, false
	}
	if w == nil {
		w = DefaultEconomyWeights()
	}
	var sum, total float64
	for _, f := range EconomyFactors {
		fs, ok := p[f]
		if !ok {
			continue
		}
		weight, present := w[f]
		if !present {
			weight = 1.0 / float64(len(EconomyFactors))
		}
		if weight < 0 {
			weight = 0
		}
		sum += weight * clamp01(fs.Value)
		total += weight
	}
	return normalize(sum, total), true
}

// ScoreNeeds computes the V3 score. Stage one is a weighted average of
// the need-category scores normalized by the weight actually present;
// stage two is the unweighted mean of the four dimension scores. The
// two halves combine 50/50 on the native 0-10 scale, then scale x10.
func ScoreNeeds(p *NeedsProfile, w NeedsWeights) (int, bool) {
	if p == nil || len(p.Categories) == 0 {
		return 0, false
	}
	if w == nil {
		w = DefaultNeedsWeights()
	}

	var catSum, catTotal float64
	for _, c := range NeedCategories {
		score, ok := p.Categories[c]
		if !ok {
			continue
		}
		weight, present := w[c]
		if !present {
			weight = 1.0 / float64(len(NeedCategories))
		}
		if weight < 0 {
			weight = 0
		}
		catSum += weight * clampScale(score, 0, 10)
		catTotal += weight
	}
	catAvg := 5.0
	if catTotal > 0 {
		catAvg = catSum / catTotal
	}

	var dimSum float64
	for _, d := range p.Dimensions {
		dimSum += clampScale(d, 0, 10)
	}
	dimAvg := dimSum / float64(len(p.Dimensions))

	combined := (catAvg + dimAvg) / 2
	return int(math.Round(combined * 10)), true
}

// ScoreUnified combines the three sub-lens scores via the V4 lens
// weights. Absent sub-scores are excluded from both numerator and
// denominator; if every sub-score is absent there is no unified score.
func ScoreUnified(impact, economy, needs int, hasImpact, hasEconomy, hasNeeds bool, w LensWeights) (int, bool) {
	if !hasImpact && !hasEconomy && !hasNeeds {
		return 0, false
	}
	if w == (LensWeights{}) {
		w = DefaultLensWeights()
	}
	var sum, total float64
	add := func(score int, weight float64, ok bool) {
		if !ok {
			return
		}
		if weight < 0 {
			weight = 0
		}
		sum += weight * float64(score)
		total += weight
	}
	add(impact, w.Impact, hasImpact)
	add(economy, w.Economy, hasEconomy)
	add(needs, w.Needs, hasNeeds)

	if total == 0 {
		return neutralScore, true
	}
	return int(math.Round(sum / total)), true
}

// normalize converts a weighted sum over [0,1] values into a 0-100
// integer, guarding the zero-denominator case.
func normalize(sum, total float64) int {
	if total == 0 {
		return neutralScore
	}
	return int(math.Round(sum / total * 100))
}

func clamp01(v float64) float64 {
	return clampScale(v, 0, 1)
}

func clampScale(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
