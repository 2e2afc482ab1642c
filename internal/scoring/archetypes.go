package scoring

// Archetype is a named preset weight profile offered as a shortcut to
// the full questionnaire.
type Archetype struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Impact      ImpactWeights  `json:"impact"`
	Economy     EconomyWeights `json:"economics"`
	Needs       NeedsWeights   `json:"needs"`
	Lenses      LensWeights    `json:"lenses"`
}

// Archetypes returns the preset profiles in display order.
func Archetypes() []Archetype {
	return []Archetype{
		{
			ID:          "optimizer",
			Name:        "Optimizer",
			Description: "Wants the most proven good per dollar: evidence and feasibility first.",
			Impact: ImpactWeights{
				ImpactEvidence: 0.30, ImpactFeasibility: 0.25, ImpactReach: 0.15,
				ImpactDepth: 0.10, ImpactDurability: 0.10, ImpactEquity: 0.05, ImpactResilience: 0.05,
			},
			Economy: EconomyWeights{
				EconomyGrowth: 0.20, EconomyDeficit: 0.20, EconomyInnovation: 0.15,
				EconomyJobs: 0.10, EconomyPrices: 0.10, EconomyCompetition: 0.10,
				EconomyStability: 0.15,
			},
			Needs:  NeedsWeights{NeedEconomic: 0.35, NeedSecurity: 0.25, NeedHealth: 0.20, NeedAutonomy: 0.10, NeedCommunity: 0.10},
			Lenses: LensWeights{Impact: 0.45, Economy: 0.40, Needs: 0.15},
		},
		{
			ID:          "advocate",
			Name:        "Advocate",
			Description: "Leads with fairness: who is reached and how deeply it changes their lives.",
			Impact: ImpactWeights{
				ImpactEquity: 0.30, ImpactDepth: 0.25, ImpactReach: 0.20,
				ImpactDurability: 0.10, ImpactEvidence: 0.05, ImpactFeasibility: 0.05, ImpactResilience: 0.05,
			},
			Economy: EconomyWeights{
				EconomyWages: 0.25, EconomyInequality: 0.25, EconomyJobs: 0.20,
				EconomyLaborMarket: 0.15, EconomyPrices: 0.15,
			},
			Needs:  NeedsWeights{NeedHealth: 0.30, NeedCommunity: 0.25, NeedEconomic: 0.25, NeedSecurity: 0.10, NeedAutonomy: 0.10},
			Lenses: LensWeights{Impact: 0.40, Economy: 0.20, Needs: 0.40},
		},
		{
			ID:          "guardian",
			Name:        "Guardian",
			Description: "Values stability and safety nets that hold up over time.",
			Impact: ImpactWeights{
				ImpactDurability: 0.30, ImpactResilience: 0.25, ImpactFeasibility: 0.15,
				ImpactReach: 0.10, ImpactDepth: 0.10, ImpactEquity: 0.05, ImpactEvidence: 0.05,
			},
			Economy: EconomyWeights{
				EconomyStability: 0.30, EconomyPrices: 0.20, EconomyDeficit: 0.20,
				EconomyTaxBurden: 0.15, EconomySmallBusiness: 0.15,
			},
			Needs:  NeedsWeights{NeedSecurity: 0.40, NeedHealth: 0.25, NeedEconomic: 0.15, NeedCommunity: 0.10, NeedAutonomy: 0.10},
			Lenses: LensWeights{Impact: 0.30, Economy: 0.30, Needs: 0.40},
		},
		{
			ID:          "builder",
			Name:        "Builder",
			Description: "Bets on growth, competition and the people starting things.",
			Impact: ImpactWeights{
				ImpactReach: 0.25, ImpactFeasibility: 0.25, ImpactEvidence: 0.15,
				ImpactDurability: 0.15, ImpactDepth: 0.10, ImpactEquity: 0.05, ImpactResilience: 0.05,
			},
			Economy: EconomyWeights{
				EconomyGrowth: 0.20, EconomyInnovation: 0.20, EconomySmallBusiness: 0.20,
				EconomyCompetition: 0.15, EconomyJobs: 0.15, EconomyTrade: 0.10,
			},
			Needs:  NeedsWeights{NeedEconomic: 0.35, NeedAutonomy: 0.30, NeedCommunity: 0.15, NeedSecurity: 0.10, NeedHealth: 0.10},
			Lenses: LensWeights{Impact: 0.35, Economy: 0.45, Needs: 0.20},
		},
	}
}

// ArchetypeByID looks up a preset by its id.
func ArchetypeByID(id string) (Archetype, bool) {
	for _, a := range Archetypes() {
		if a.ID == id {
			return a, true
		}
	}
	return Archetype{}, false
}
