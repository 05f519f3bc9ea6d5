// Package evaluate scores a held-out test set against a trained model and
// collects the misclassified examples.
package evaluate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/logger"
)

// Explainer produces a free-text explanation for a misclassified post.
type Explainer interface {
	Explain(ctx context.Context, text string) (string, error)
}

// ExplainerFunc adapts a function to the Explainer interface.
type ExplainerFunc func(ctx context.Context, text string) (string, error)

func (f ExplainerFunc) Explain(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Misclassification is a test example whose predicted outcome did not match
// its label. Undetermined outcomes are always misclassifications.
type Misclassification struct {
	Doc         bayes.Document
	Text        string
	Label       bayes.Label
	Score       float64
	Outcome     bayes.Outcome
	Explanation string
}

// Result summarises an evaluation. Correct + Mislabeled == TestSize.
type Result struct {
	Correct      int
	Mislabeled   int
	Undetermined int
	TestSize     int
	// ErrorRate is Mislabeled / TestSize, or 0 for an empty test set.
	ErrorRate     float64
	Misclassified []Misclassification
}

// Evaluator runs the predictor over a test set. Explainer is optional; when
// set, each misclassified example gets one explanation request bounded by
// Timeout (zero means no timeout beyond the caller's context).
type Evaluator struct {
	Explainer Explainer
	Timeout   time.Duration
}

// Evaluate scores every test example of split. A cancelled context stops the
// evaluation between examples and returns the context's error.
func (e *Evaluator) Evaluate(ctx context.Context, model *bayes.Model, split *bayes.Split) (*Result, error) {
	result := &Result{
		TestSize:      split.TestSize(),
		Misclassified: []Misclassification{},
	}

	for _, ex := range split.Test {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score := model.Predict(ex.Doc)
		outcome := bayes.Classify(score)
		if outcome.Matches(ex.Label) {
			result.Correct++
			continue
		}

		result.Mislabeled++
		if outcome == bayes.Undetermined {
			result.Undetermined++
		}
		result.Misclassified = append(result.Misclassified, Misclassification{
			Doc:         ex.Doc,
			Text:        ex.Text,
			Label:       ex.Label,
			Score:       score,
			Outcome:     outcome,
			Explanation: e.explain(ctx, ex),
		})
	}

	if result.TestSize > 0 {
		result.ErrorRate = float64(result.Mislabeled) / float64(result.TestSize)
	}
	return result, nil
}

func (e *Evaluator) explain(ctx context.Context, ex bayes.Example) string {
	if e.Explainer == nil {
		return ""
	}

	text := ex.Text
	if text == "" {
		text = strings.Join(ex.Doc, " ")
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	explanation, err := e.Explainer.Explain(ctx, text)
	if err != nil {
		logger.HandleError(fmt.Errorf("explaining %q: %w", text, err))
		return ""
	}
	return explanation
}
