package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// insightThreshold is the minimum base-vs-personalized delta, in score
// points, below which no insight text is produced.
const insightThreshold = 3

// factorLabels give the display names used inside insight sentences.
var factorLabels = map[string]string{
	string(ImpactReach):          "broad reach",
	string(ImpactDepth):          "depth of impact",
	string(ImpactDurability):     "lasting change",
	string(ImpactEquity):         "fairness",
	string(ImpactEvidence):       "strong evidence",
	string(ImpactFeasibility):    "feasibility",
	string(ImpactResilience):     "resilience",
	string(EconomyGrowth):        "economic growth",
	string(EconomyJobs):          "jobs",
	string(EconomyWages):         "wages",
	string(EconomyPrices):        "lower prices",
	string(EconomyDeficit):       "fiscal responsibility",
	string(EconomyTaxBurden):     "tax burden",
	string(EconomySmallBusiness): "small business",
	string(EconomyCompetition):   "competition",
	string(EconomyInnovation):    "innovation",
	string(EconomyTrade):         "trade",
	string(EconomyLaborMarket):   "the labor market",
	string(EconomyStability):     "economic stability",
	string(EconomyInequality):    "reducing inequality",
	string(NeedSecurity):         "security",
	string(NeedHealth):           "health",
	string(NeedEconomic):         "economic opportunity",
	string(NeedCommunity):        "community",
	string(NeedAutonomy):         "personal freedom",
	string(LensImpact):           "real-world impact",
	string(LensEconomy):          "economic effects",
	string(LensNeeds):            "everyday needs",
}

// Insight explains why a personalized score diverges from the
// unweighted baseline: it names the caller's top-weighted factors and
// the direction of the divergence. Returns "" when the delta is inside
// the noise threshold or the profile has no standout factor.
func Insight(base, personalized int, w Weights) string {
	delta := personalized - base
	if delta > -insightThreshold && delta < insightThreshold {
		return ""
	}

	top := topFactors(w)
	if len(top) == 0 {
		return ""
	}

	direction := "better"
	points := delta
	if delta < 0 {
		direction = "worse"
		points = -delta
	}
	return fmt.Sprintf("Because you care most about %s, this policy scores %d points %s than the typical view.",
		joinFactors(top), points, direction)
}

// topFactors returns the display labels of the heaviest-weighted
// factors (ties included), skipping flat profiles where every weight is
// equal and nothing stands out.
func topFactors(w Weights) []string {
	entries := weightEntries(w)
	if len(entries) == 0 {
		return nil
	}

	max := entries[0].weight
	min := entries[0].weight
	for _, e := range entries[1:] {
		if e.weight > max {
			max = e.weight
		}
		if e.weight < min {
			min = e.weight
		}
	}
	if max == min {
		return nil
	}

	var top []string
	for _, e := range entries {
		if e.weight == max {
			label := e.key
			if l, ok := factorLabels[e.key]; ok {
				label = l
			}
			top = append(top, label)
		}
	}
	sort.Strings(top)
	return top
}

type weightEntry struct {
	key    string
	weight float64
}

func weightEntries(w Weights) []weightEntry {
	var entries []weightEntry
	switch v := w.(type) {
	case ImpactWeights:
		for k, weight := range v {
			entries = append(entries, weightEntry{string(k), weight})
		}
	case EconomyWeights:
		for k, weight := range v {
			entries = append(entries, weightEntry{string(k), weight})
		}
	case NeedsWeights:
		for k, weight := range v {
			entries = append(entries, weightEntry{string(k), weight})
		}
	case LensWeights:
		entries = append(entries,
			weightEntry{string(LensImpact), v.Impact},
			weightEntry{string(LensEconomy), v.Economy},
			weightEntry{string(LensNeeds), v.Needs},
		)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries
}

func joinFactors(labels []string) string {
	switch len(labels) {
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " and " + labels[1]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}
