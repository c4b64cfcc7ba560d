package louvain

// modularity computes
//
//	Q = Σ_c resolution·(internal(c)/2)/(totalWeight/2) − (total(c)/totalWeight)²
//
// where totalWeight is the sum of all weighted degrees. Empty graphs score 0.
func modularity(l *ledger, totalWeight, resolution float64) float64 {
	if totalWeight == 0 {
		return 0.0
	}

	q := 0.0
	for c, s := range l.stats {
		if !l.known[c] {
			continue
		}
		frac := s.total / totalWeight
		q += resolution*(s.internal/2)/(totalWeight/2) - frac*frac
	}
	return q
}

// normalizedModularity scales Q by the value it would reach if every edge
// were internal while keeping the community degree totals, i.e.
// resolution − Σ_c (total(c)/totalWeight)². Returns 0 when that bound is not
// positive.
func normalizedModularity(l *ledger, totalWeight, resolution float64) float64 {
	if totalWeight == 0 {
		return 0.0
	}

	expected := 0.0
	for c, s := range l.stats {
		if !l.known[c] {
			continue
		}
		frac := s.total / totalWeight
		expected += frac * frac
	}

	bound := resolution - expected
	if bound <= 0 {
		return 0.0
	}
	return modularity(l, totalWeight, resolution) / bound
}

// gain is the modularity gain, up to a positive constant, of inserting a
// node of degree nodeDegree into a community with the given total degree.
func gain(resolution, weightToCommunity, communityTotal, nodeDegree, totalWeight float64) float64 {
	return resolution*weightToCommunity - communityTotal*nodeDegree/totalWeight
}
