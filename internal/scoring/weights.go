// Package scoring computes personalized policy scores across the four
// Civic Engine lenses: Impact (V1), Political-Economy (V2), Needs (V3)
// and the Unified combination (V4). All scorers are pure functions over
// authored factor tables and a caller-supplied weight profile; a missing
// factor table is a "no score" outcome, never an error.
package scoring

// Lens identifies one of the four scoring models.
type Lens string

const (
	LensImpact  Lens = "impact"
	LensEconomy Lens = "economics"
	LensNeeds   Lens = "needs"
	LensUnified Lens = "unified"
)

// ImpactFactor keys the seven V1 impact factors.
type ImpactFactor string

const (
	ImpactReach       ImpactFactor = "reach"
	ImpactDepth       ImpactFactor = "depth"
	ImpactDurability  ImpactFactor = "durability"
	ImpactEquity      ImpactFactor = "equity"
	ImpactEvidence    ImpactFactor = "evidence"
	ImpactFeasibility ImpactFactor = "feasibility"
	ImpactResilience  ImpactFactor = "resilience"
)

// ImpactFactors lists the V1 factors in canonical order.
var ImpactFactors = []ImpactFactor{
	ImpactReach, ImpactDepth, ImpactDurability, ImpactEquity,
	ImpactEvidence, ImpactFeasibility, ImpactResilience,
}

// EconomyFactor keys the thirteen V2 political-economy factors.
type EconomyFactor string

const (
	EconomyGrowth        EconomyFactor = "growth"
	EconomyJobs          EconomyFactor = "jobs"
	EconomyWages         EconomyFactor = "wages"
	EconomyPrices        EconomyFactor = "prices"
	EconomyDeficit       EconomyFactor = "deficit"
	EconomyTaxBurden     EconomyFactor = "taxBurden"
	EconomySmallBusiness EconomyFactor = "smallBusiness"
	EconomyCompetition   EconomyFactor = "competition"
	EconomyInnovation    EconomyFactor = "innovation"
	EconomyTrade         EconomyFactor = "trade"
	EconomyLaborMarket   EconomyFactor = "laborMarket"
	EconomyStability     EconomyFactor = "stability"
	EconomyInequality    EconomyFactor = "inequality"
)

// EconomyFactors lists the V2 factors in canonical order.
var EconomyFactors = []EconomyFactor{
	EconomyGrowth, EconomyJobs, EconomyWages, EconomyPrices,
	EconomyDeficit, EconomyTaxBurden, EconomySmallBusiness,
	EconomyCompetition, EconomyInnovation, EconomyTrade,
	EconomyLaborMarket, EconomyStability, EconomyInequality,
}

// NeedCategory keys the five V3 need categories.
type NeedCategory string

const (
	NeedSecurity  NeedCategory = "security"
	NeedHealth    NeedCategory = "health"
	NeedEconomic  NeedCategory = "economic"
	NeedCommunity NeedCategory = "community"
	NeedAutonomy  NeedCategory = "autonomy"
)

// NeedCategories lists the V3 categories in canonical order.
var NeedCategories = []NeedCategory{
	NeedSecurity, NeedHealth, NeedEconomic, NeedCommunity, NeedAutonomy,
}

// Weight profile variants. One concrete type per lens so each scorer's
// signature states exactly which profile it accepts.

// ImpactWeights maps V1 factors to importance weights (non-negative,
// nominally summing to 1.0). Missing factors fall back to the balanced
// default of 1/7.
type ImpactWeights map[ImpactFactor]float64

// EconomyWeights maps V2 factors to importance weights. Missing factors
// fall back to the balanced default of 1/13.
type EconomyWeights map[EconomyFactor]float64

// NeedsWeights maps V3 need categories to importance weights. Missing
// categories fall back to the balanced default of 1/5.
type NeedsWeights map[NeedCategory]float64

// LensWeights weighs the three sub-lenses inside the V4 unified score.
type LensWeights struct {
	Impact  float64 `json:"impact"`
	Economy float64 `json:"economics"`
	Needs   float64 `json:"needs"`
}

// Weights is the closed set over the four per-lens weight profiles.
type Weights interface {
	Lens() Lens
}

func (ImpactWeights) Lens() Lens  { return LensImpact }
func (EconomyWeights) Lens() Lens { return LensEconomy }
func (NeedsWeights) Lens() Lens   { return LensNeeds }
func (LensWeights) Lens() Lens    { return LensUnified }

// DefaultImpactWeights returns the balanced V1 profile (1/7 each).
func DefaultImpactWeights() ImpactWeights {
	w := make(ImpactWeights, len(ImpactFactors))
	for _, f := range ImpactFactors {
		w[f] = 1.0 / float64(len(ImpactFactors))
	}
	return w
}

// DefaultEconomyWeights returns the balanced V2 profile (1/13 each).
func DefaultEconomyWeights() EconomyWeights {
	w := make(EconomyWeights, len(EconomyFactors))
	for _, f := range EconomyFactors {
		w[f] = 1.0 / float64(len(EconomyFactors))
	}
	return w
}

// DefaultNeedsWeights returns the balanced V3 profile (1/5 each).
func DefaultNeedsWeights() NeedsWeights {
	w := make(NeedsWeights, len(NeedCategories))
	for _, c := range NeedCategories {
		w[c] = 1.0 / float64(len(NeedCategories))
	}
	return w
}

// DefaultLensWeights returns the balanced V4 profile (1/3 each).
func DefaultLensWeights() LensWeights {
	return LensWeights{Impact: 1.0 / 3, Economy: 1.0 / 3, Needs: 1.0 / 3}
}
