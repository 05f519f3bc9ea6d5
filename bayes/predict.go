package bayes

import (
	"encoding/json"
	"fmt"
	"math"
)

// Outcome is the classification derived from a score.
type Outcome int

const (
	PredictedNegative Outcome = -1
	Undetermined      Outcome = 0
	PredictedPositive Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case PredictedNegative:
		return "Negative"
	case Undetermined:
		return "Undetermined"
	case PredictedPositive:
		return "Positive"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Negative":
		*o = PredictedNegative
	case "Undetermined":
		*o = Undetermined
	case "Positive":
		*o = PredictedPositive
	default:
		return fmt.Errorf("bayes: unknown outcome: %q", s)
	}
	return nil
}

// Matches reports whether the outcome agrees with label. Undetermined never does.
func (o Outcome) Matches(label Label) bool {
	return (o == PredictedPositive && label == Positive) ||
		(o == PredictedNegative && label == Negative)
}

// Predict scores doc as prior plus the log-likelihood of every token in the
// table. Tokens missing from the table contribute nothing.
func Predict(loglikelihood LogLikelihood, prior float64, doc Document) float64 {
	score := prior
	for _, token := range doc {
		if ll, ok := loglikelihood[token]; ok {
			score += ll
		}
	}
	return score
}

// Classify maps a score to an outcome: positive above zero, negative below,
// undetermined at exactly zero or NaN.
func Classify(score float64) Outcome {
	switch {
	case math.IsNaN(score):
		return Undetermined
	case score > 0:
		return PredictedPositive
	case score < 0:
		return PredictedNegative
	}
	return Undetermined
}
