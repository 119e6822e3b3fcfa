package export

import "strings"

// Query narrows a candidate list. Zero values mean "no constraint";
// all set constraints must hold at once.
type Query struct {
	// case-insensitive substring of the candidate name
	Name string
	// exact party
	Party string
	// exact two-letter state
	State string
	// exact recommendation tier
	Tier string
	// minimum overall impact score. when above zero, candidates with
	// no score at all are excluded; at exactly zero they pass.
	MinScore float64
}

// Filter applies a query to a candidate list. The constraints combine
// with logical AND, so the order they are applied in never matters.
func Filter(candidates []Candidate, q Query) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if matches(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c Candidate, q Query) bool {
	if q.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(q.Name)) {
		return false
	}
	if q.Party != "" && c.Party != q.Party {
		return false
	}
	if q.State != "" && c.State != q.State {
		return false
	}
	if q.Tier != "" && (c.RecommendationTier == nil || *c.RecommendationTier != q.Tier) {
		return false
	}
	if q.MinScore > 0 {
		if c.OverallImpactScore == nil || *c.OverallImpactScore < q.MinScore {
			return false
		}
	}
	return true
}
