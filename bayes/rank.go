package bayes

import "sort"

// TokenWeight is a vocabulary token with its log-likelihood ratio.
type TokenWeight struct {
	Token  string  `json:"token"`
	Weight float64 `json:"weight"`
}

// TopTokens returns up to n of the most positive and n of the most negative
// tokens. Ties are broken lexically so the result is stable across runs.
func (m *Model) TopTokens(n int) (positive, negative []TokenWeight) {
	ranked := make([]TokenWeight, 0, len(m.LogLikelihood))
	for token, ll := range m.LogLikelihood {
		ranked = append(ranked, TokenWeight{token, ll})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Token < ranked[j].Token
	})

	for _, tw := range ranked {
		if len(positive) == n || tw.Weight <= 0 {
			break
		}
		positive = append(positive, tw)
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		if len(negative) == n || ranked[i].Weight >= 0 {
			break
		}
		negative = append(negative, ranked[i])
	}
	return positive, negative
}
