package report

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/evaluate"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	pos := []bayes.Example{
		{Doc: bayes.Document{"good", "good"}, Text: "good good"},
		{Doc: bayes.Document{"great"}, Text: "great"},
		{Doc: bayes.Document{"bad"}, Text: "not bad"},
	}
	neg := []bayes.Example{
		{Doc: bayes.Document{"bad"}, Text: "bad"},
		{Doc: bayes.Document{"awful"}, Text: "awful"},
	}
	split, err := bayes.Partition(pos, neg, 0.7)
	require.NoError(t, err)
	model, err := bayes.Train(split)
	require.NoError(t, err)
	result, err := (&evaluate.Evaluator{}).Evaluate(context.Background(), model, split)
	require.NoError(t, err)
	return New("twitter_samples", 0.7, split, model, result, 3)
}

func TestNew(t *testing.T) {
	r := sampleReport(t)

	require.Equal(t, 2, r.TrainPos)
	require.Equal(t, 1, r.TrainNeg)
	require.Equal(t, 1, r.TestPos)
	require.Equal(t, 1, r.TestNeg)
	require.Equal(t, 2, r.TestSize())
	require.Equal(t, 3, r.VocabularySize)
	require.Equal(t, 3, r.FreqTableSize)
	require.Equal(t, 3, r.PositiveEvents)
	require.Equal(t, 1, r.NegativeEvents)
	require.InDelta(t, math.Log(3), float64(r.Prior), 1e-12)
	require.Equal(t, r.TestSize(), r.Correct+r.Mislabeled)
	require.Len(t, r.Misclassified, r.Mislabeled)
	require.NotEmpty(t, r.TopPositive)
	require.Equal(t, "good", r.TopPositive[0].Token)
}

func TestRender(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, -1))
	out := buf.String()

	require.Contains(t, out, "N_train_pos = 2, N_train_neg = 1")
	require.Contains(t, out, "N_test_pos = 1, N_test_neg = 1")
	require.Contains(t, out, "freq dictionary size: 3, vocab size: 3")
	require.Contains(t, out, "Number of positive events: 3, Number of negative events: 1")
	require.Contains(t, out, "log_pos_neg_ratio of the training set = 1.0986")
	require.Contains(t, out, "# of mislabeled: ")
	require.Contains(t, out, "Error rate:")
	require.NotContains(t, out, "warning:")
}

func TestRenderLimitsMislabeled(t *testing.T) {
	r := &Report{
		Dataset:    "x",
		Mislabeled: 3,
		Misclassified: []Item{
			{Tokens: []string{"a"}, Label: bayes.Positive, Score: -1, Outcome: bayes.PredictedNegative},
			{Tokens: []string{"b"}, Label: bayes.Positive, Score: -2, Outcome: bayes.PredictedNegative},
			{Tokens: []string{"c"}, Label: bayes.Negative, Score: 0, Outcome: bayes.Undetermined, Explanation: "unclear"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, 1))
	out := buf.String()
	require.Contains(t, out, "Tokens: [a]")
	require.NotContains(t, out, "Tokens: [b]")
	require.Contains(t, out, "... 2 more")

	buf.Reset()
	require.NoError(t, r.Render(&buf, 0))
	require.NotContains(t, buf.String(), "Tokens:")

	item := RenderItem(r.Misclassified[2])
	require.Contains(t, item, "Prediction: 0.0000 (Undetermined)")
	require.Contains(t, item, "Explanation: unclear")
}

func TestRenderDegeneratePrior(t *testing.T) {
	r := &Report{Dataset: "x", Prior: Score(math.Inf(1)), DegeneratePrior: true}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, -1))
	require.Contains(t, buf.String(), "warning:")
	require.Contains(t, buf.String(), "+Inf")
}

func TestWriteJSON(t *testing.T) {
	r := sampleReport(t)
	r.Prior = Score(math.Inf(1))

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))
	require.True(t, strings.Contains(buf.String(), `"prior_log_ratio": "+Inf"`))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.True(t, math.IsInf(float64(decoded.Prior), 1))
	require.Equal(t, r.Mislabeled, decoded.Mislabeled)
	require.Equal(t, len(r.Misclassified), len(decoded.Misclassified))
}

func TestScoreJSON(t *testing.T) {
	testCases := []struct {
		score Score
		json  string
	}{
		{Score(1.5), `1.5`},
		{Score(math.Inf(1)), `"+Inf"`},
		{Score(math.Inf(-1)), `"-Inf"`},
	}
	for _, tc := range testCases {
		b, err := json.Marshal(tc.score)
		require.NoError(t, err)
		require.Equal(t, tc.json, string(b))

		var s Score
		require.NoError(t, json.Unmarshal(b, &s))
		require.Equal(t, tc.score, s)
	}
}

func TestSamplePredictions(t *testing.T) {
	r := sampleReport(t)

	require.Len(t, r.Samples, 2)
	require.Equal(t, "not bad", r.Samples[0].Text)
	require.Equal(t, bayes.Positive, r.Samples[0].Label)
	require.Equal(t, "awful", r.Samples[1].Text)
	require.Equal(t, bayes.PredictedPositive, r.Samples[1].Outcome)
	require.InDelta(t, math.Log(3), float64(r.Samples[1].Score), 1e-12)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, 0))
	require.Contains(t, buf.String(), "Sample predictions")
	require.Contains(t, buf.String(), "awful => 1.0986 (Positive, labeled Negative)")
}

func TestSamplePredictionsCapped(t *testing.T) {
	var pos, neg []bayes.Example
	for i := 0; i < 20; i++ {
		pos = append(pos, bayes.Example{Doc: bayes.Document{"up"}})
		neg = append(neg, bayes.Example{Doc: bayes.Document{"down"}})
	}
	split, err := bayes.Partition(pos, neg, 0.5)
	require.NoError(t, err)
	model, err := bayes.Train(split)
	require.NoError(t, err)
	result, err := (&evaluate.Evaluator{}).Evaluate(context.Background(), model, split)
	require.NoError(t, err)

	r := New("capped", 0.5, split, model, result, 0)
	require.Len(t, r.Samples, SampleSize)
	for i, item := range r.Samples {
		require.Equal(t, split.Test[i].Label, item.Label)
		require.True(t, item.Outcome.Matches(item.Label))
	}
}
