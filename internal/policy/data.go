package policy

import "github.com/civicengine/api/internal/scoring"

// defaultPolicies is the authored catalog. Support percentages come
// from public cross-party polling; factor values are editorial
// judgments reviewed at authoring time.
func defaultPolicies() []Policy {
	return []Policy{
		{
			ID:             "childcare-tax-credit",
			Title:          "Expand the Child Care Tax Credit",
			Category:       "families",
			Summary:        "Raise the federal credit for child care expenses and make it refundable for working families.",
			AverageSupport: 81,
			Impact: scoring.ImpactProfile{
				scoring.ImpactReach:       {Value: 0.85, Rationale: "Reaches most households with children under 13."},
				scoring.ImpactDepth:       {Value: 0.70},
				scoring.ImpactDurability:  {Value: 0.55, Rationale: "Tax credits are revisited every budget cycle."},
				scoring.ImpactEquity:      {Value: 0.80},
				scoring.ImpactEvidence:    {Value: 0.75},
				scoring.ImpactFeasibility: {Value: 0.80},
				scoring.ImpactResilience:  {Value: 0.60},
			},
			Economy: scoring.EconomyProfile{
				scoring.EconomyGrowth:      {Value: 0.65},
				scoring.EconomyJobs:        {Value: 0.70, Rationale: "Frees parents to rejoin the workforce."},
				scoring.EconomyWages:       {Value: 0.55},
				scoring.EconomyPrices:      {Value: 0.45},
				scoring.EconomyDeficit:     {Value: 0.30},
				scoring.EconomyTaxBurden:   {Value: 0.70},
				scoring.EconomyLaborMarket: {Value: 0.75},
				scoring.EconomyInequality:  {Value: 0.70},
			},
			Needs: &scoring.NeedsProfile{
				Categories: map[scoring.NeedCategory]float64{
					scoring.NeedSecurity:  6,
					scoring.NeedHealth:    6,
					scoring.NeedEconomic:  8,
					scoring.NeedCommunity: 7,
					scoring.NeedAutonomy:  7,
				},
				Dimensions: [4]float64{8, 7, 6, 7},
			},
		},
		{
			ID:             "drug-price-negotiation",
			Title:          "Let Medicare Negotiate Drug Prices",
			Category:       "healthcare",
			Summary:        "Allow Medicare to negotiate prescription drug prices directly with manufacturers.",
			AverageSupport: 83,
			Impact: scoring.ImpactProfile{
				scoring.ImpactReach:       {Value: 0.75},
				scoring.ImpactDepth:       {Value: 0.65},
				scoring.ImpactDurability:  {Value: 0.70},
				scoring.ImpactEquity:      {Value: 0.70},
				scoring.ImpactEvidence:    {Value: 0.80, Rationale: "Peer countries negotiate and pay roughly half as much."},
				scoring.ImpactFeasibility: {Value: 0.60},
				scoring.ImpactResilience:  {Value: 0.65},
			},
			Economy: scoring.EconomyProfile{
				scoring.EconomyPrices:     {Value: 0.85, Rationale: "Directly targets list prices."},
				scoring.EconomyDeficit:    {Value: 0.75},
				scoring.EconomyInnovation: {Value: 0.35, Rationale: "Manufacturers argue revenue funds R&D."},
				scoring.EconomyStability:  {Value: 0.60},
				scoring.EconomyInequality: {Value: 0.65},
			},
			Needs: &scoring.NeedsProfile{
				Categories: map[scoring.NeedCategory]float64{
					scoring.NeedSecurity: 7,
					scoring.NeedHealth:   9,
					scoring.NeedEconomic: 7,
					scoring.NeedAutonomy: 5,
				},
				Dimensions: [4]float64{8, 7, 7, 5},
			},
		},
		{
			ID:             "right-to-repair",
			Title:          "Right to Repair",
			Category:       "consumer",
			Summary:        "Require manufacturers to provide parts, tools and documentation so owners and independent shops can fix devices and equipment.",
			AverageSupport: 75,
			Impact: scoring.ImpactProfile{
				scoring.ImpactReach:       {Value: 0.70},
				scoring.ImpactDepth:       {Value: 0.45},
				scoring.ImpactDurability:  {Value: 0.75},
				scoring.ImpactEquity:      {Value: 0.60},
				scoring.ImpactEvidence:    {Value: 0.55},
				scoring.ImpactFeasibility: {Value: 0.70},
				scoring.ImpactResilience:  {Value: 0.70},
			},
			Economy: scoring.EconomyProfile{
				scoring.EconomySmallBusiness: {Value: 0.85, Rationale: "Opens repair markets to independent shops."},
				scoring.EconomyCompetition:   {Value: 0.85},
				scoring.EconomyPrices:        {Value: 0.70},
				scoring.EconomyInnovation:    {Value: 0.50},
				scoring.EconomyJobs:          {Value: 0.60},
			},
			// Needs lens not yet authored for this policy.
		},
		{
			ID:             "rural-broadband",
			Title:          "Finish Rural Broadband Buildout",
			Category:       "infrastructure",
			Summary:        "Fund last-mile fiber and fixed wireless so every address has a real broadband option.",
			AverageSupport: 78,
			Impact: scoring.ImpactProfile{
				scoring.ImpactReach:       {Value: 0.55, Rationale: "Targets the roughly 7% of addresses still unserved."},
				scoring.ImpactDepth:       {Value: 0.80},
				scoring.ImpactDurability:  {Value: 0.85},
				scoring.ImpactEquity:      {Value: 0.85},
				scoring.ImpactEvidence:    {Value: 0.70},
				scoring.ImpactFeasibility: {Value: 0.65},
				scoring.ImpactResilience:  {Value: 0.80},
			},
			Economy: scoring.EconomyProfile{
				scoring.EconomyGrowth:        {Value: 0.75},
				scoring.EconomyJobs:          {Value: 0.70},
				scoring.EconomySmallBusiness: {Value: 0.75},
				scoring.EconomyDeficit:       {Value: 0.35},
				scoring.EconomyLaborMarket:   {Value: 0.70, Rationale: "Remote work requires reliable service."},
			},
			Needs: &scoring.NeedsProfile{
				Categories: map[scoring.NeedCategory]float64{
					scoring.NeedSecurity:  5,
					scoring.NeedHealth:    6,
					scoring.NeedEconomic:  8,
					scoring.NeedCommunity: 8,
					scoring.NeedAutonomy:  7,
				},
				Dimensions: [4]float64{6, 6, 8, 7},
			},
		},
		{
			ID:             "congress-stock-ban",
			Title:          "Ban Congressional Stock Trading",
			Category:       "governance",
			Summary:        "Prohibit members of Congress and their spouses from trading individual stocks while in office.",
			AverageSupport: 86,
			Impact: scoring.ImpactProfile{
				scoring.ImpactReach:       {Value: 0.40, Rationale: "Directly binds a few hundred officials; indirectly restores trust broadly."},
				scoring.ImpactDepth:       {Value: 0.55},
				scoring.ImpactDurability:  {Value: 0.80},
				scoring.ImpactEquity:      {Value: 0.65},
				scoring.ImpactEvidence:    {Value: 0.50},
				scoring.ImpactFeasibility: {Value: 0.75},
				scoring.ImpactResilience:  {Value: 0.70},
			},
			// Economics lens not applicable: no meaningful market-wide effect.
			Needs: &scoring.NeedsProfile{
				Categories: map[scoring.NeedCategory]float64{
					scoring.NeedSecurity:  5,
					scoring.NeedCommunity: 7,
					scoring.NeedAutonomy:  6,
				},
				Dimensions: [4]float64{6, 8, 7, 5},
			},
		},
		{
			ID:             "vocational-training",
			Title:          "Double Career and Technical Education",
			Category:       "education",
			Summary:        "Expand apprenticeships and technical-school capacity for skilled trades.",
			AverageSupport: 84,
			Impact: scoring.ImpactProfile{
				scoring.ImpactReach:       {Value: 0.60},
				scoring.ImpactDepth:       {Value: 0.85, Rationale: "Credentialed graduates see large, durable wage gains."},
				scoring.ImpactDurability:  {Value: 0.80},
				scoring.ImpactEquity:      {Value: 0.75},
				scoring.ImpactEvidence:    {Value: 0.80},
				scoring.ImpactFeasibility: {Value: 0.75},
				scoring.ImpactResilience:  {Value: 0.75},
			},
			Economy: scoring.EconomyProfile{
				scoring.EconomyJobs:          {Value: 0.85},
				scoring.EconomyWages:         {Value: 0.85},
				scoring.EconomyGrowth:        {Value: 0.70},
				scoring.EconomyLaborMarket:   {Value: 0.85},
				scoring.EconomySmallBusiness: {Value: 0.65},
				scoring.EconomyInequality:    {Value: 0.70},
			},
			Needs: &scoring.NeedsProfile{
				Categories: map[scoring.NeedCategory]float64{
					scoring.NeedSecurity:  6,
					scoring.NeedHealth:    5,
					scoring.NeedEconomic:  9,
					scoring.NeedCommunity: 6,
					scoring.NeedAutonomy:  8,
				},
				Dimensions: [4]float64{7, 7, 8, 8},
			},
		},
		{
			ID:             "clean-water-infrastructure",
			Title:          "Replace Lead Water Lines",
			Category:       "infrastructure",
			Summary:        "Fund replacement of the remaining lead service lines nationwide within ten years.",
			AverageSupport: 79,
			Impact: scoring.ImpactProfile{
				scoring.ImpactReach:       {Value: 0.50},
				scoring.ImpactDepth:       {Value: 0.90, Rationale: "Lead exposure harms are severe and irreversible."},
				scoring.ImpactDurability:  {Value: 0.95},
				scoring.ImpactEquity:      {Value: 0.85},
				scoring.ImpactEvidence:    {Value: 0.90},
				scoring.ImpactFeasibility: {Value: 0.60},
				scoring.ImpactResilience:  {Value: 0.90},
			},
			Needs: &scoring.NeedsProfile{
				Categories: map[scoring.NeedCategory]float64{
					scoring.NeedSecurity:  8,
					scoring.NeedHealth:    9,
					scoring.NeedEconomic:  5,
					scoring.NeedCommunity: 7,
				},
				Dimensions: [4]float64{8, 6, 9, 4},
			},
		},
		{
			ID:             "election-audit-standards",
			Title:          "National Post-Election Audit Standards",
			Category:       "governance",
			Summary:        "Require risk-limiting audits of federal election results in every state.",
			AverageSupport: 72,
			// Only the needs lens is authored so far; impact and
			// economics tables are pending data review.
			Needs: &scoring.NeedsProfile{
				Categories: map[scoring.NeedCategory]float64{
					scoring.NeedSecurity:  7,
					scoring.NeedCommunity: 8,
					scoring.NeedAutonomy:  6,
				},
				Dimensions: [4]float64{6, 9, 6, 4},
			},
		},
	}
}
