package bayes

import (
	"fmt"
	"math"
)

// LogLikelihood maps each vocabulary token to ln(P(token|pos) / P(token|neg)).
type LogLikelihood map[string]float64

// SmoothedProbabilities returns the add-one smoothed probabilities of token in
// the positive and negative class:
//
//	p(w|c) = (freq(w, c) + 1) / (N_c + |V|)
func SmoothedProbabilities(freqs FreqTable, totals ClassTotals, vocab Vocabulary, token string) (pPos, pNeg float64) {
	v := float64(len(vocab))
	pPos = float64(freqs[FreqKey{token, Positive}]+1) / (float64(totals.Pos) + v)
	pNeg = float64(freqs[FreqKey{token, Negative}]+1) / (float64(totals.Neg) + v)
	return pPos, pNeg
}

// BuildLogLikelihood computes the Laplace-smoothed log-likelihood ratio of
// every vocabulary token.
func BuildLogLikelihood(freqs FreqTable, totals ClassTotals, vocab Vocabulary) (LogLikelihood, error) {
	if totals.Pos < 0 || totals.Neg < 0 {
		return nil, fmt.Errorf("%w: pos=%d neg=%d", ErrNegativeTotals, totals.Pos, totals.Neg)
	}
	if totals.Pos == 0 && totals.Neg == 0 {
		return nil, fmt.Errorf("%w: no token occurrences in either class (vocabulary size %d)", ErrEmptyTrainingSet, len(vocab))
	}

	loglikelihood := make(LogLikelihood, len(vocab))
	for token := range vocab {
		pPos, pNeg := SmoothedProbabilities(freqs, totals, vocab, token)
		loglikelihood[token] = math.Log(pPos) - math.Log(pNeg)
	}
	return loglikelihood, nil
}

// PriorLogRatio returns ln(Pos/Neg). The second result is true when the ratio
// is not finite because one class has no token occurrences; the value is then
// +Inf or -Inf and uniformly favours the class that is present.
func PriorLogRatio(totals ClassTotals) (float64, bool) {
	prior := math.Log(float64(totals.Pos) / float64(totals.Neg))
	return prior, math.IsInf(prior, 0) || math.IsNaN(prior)
}
