// Package report assembles and renders the summary of a training and
// evaluation run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/evaluate"
)

// Score is a prediction score. Infinite values, which a degenerate prior
// produces, are encoded in JSON as the strings "+Inf" and "-Inf".
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	f := float64(s)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(f)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("report: invalid score %q", str)
		}
		*s = Score(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// SampleSize is the number of leading test examples whose predictions are
// listed in every report.
const SampleSize = 10

// Item is one scored test example.
type Item struct {
	Tokens      []string      `json:"tokens"`
	Text        string        `json:"text,omitempty"`
	Label       bayes.Label   `json:"label"`
	Score       Score         `json:"score"`
	Outcome     bayes.Outcome `json:"outcome"`
	Explanation string        `json:"explanation,omitempty"`
}

// Report is the outcome of one run.
type Report struct {
	Dataset   string    `json:"dataset"`
	CreatedAt time.Time `json:"created_at"`
	Split     float64   `json:"split"`

	TrainPos int `json:"train_pos"`
	TrainNeg int `json:"train_neg"`
	TestPos  int `json:"test_pos"`
	TestNeg  int `json:"test_neg"`

	VocabularySize  int   `json:"vocabulary_size"`
	FreqTableSize   int   `json:"freq_table_size"`
	PositiveEvents  int   `json:"positive_events"`
	NegativeEvents  int   `json:"negative_events"`
	Prior           Score `json:"prior_log_ratio"`
	DegeneratePrior bool  `json:"degenerate_prior"`

	Correct      int     `json:"correct"`
	Mislabeled   int     `json:"mislabeled"`
	Undetermined int     `json:"undetermined"`
	ErrorRate    float64 `json:"error_rate"`

	TopPositive []bayes.TokenWeight `json:"top_positive"`
	TopNegative []bayes.TokenWeight `json:"top_negative"`

	Samples       []Item `json:"samples"`
	Misclassified []Item `json:"misclassified"`
}

// New builds a report from the artifacts of a run. topTokens bounds the
// number of most positive and most negative tokens listed.
func New(dataset string, fraction float64, split *bayes.Split, model *bayes.Model, result *evaluate.Result, topTokens int) *Report {
	r := &Report{
		Dataset:         dataset,
		CreatedAt:       time.Now().UTC(),
		Split:           fraction,
		TrainPos:        split.TrainPos,
		TrainNeg:        split.TrainNeg,
		TestPos:         split.TestPos,
		TestNeg:         split.TestNeg,
		VocabularySize:  len(model.Vocab),
		FreqTableSize:   len(model.Freqs),
		PositiveEvents:  model.Totals.Pos,
		NegativeEvents:  model.Totals.Neg,
		Prior:           Score(model.Prior),
		DegeneratePrior: model.DegeneratePrior,
		Correct:         result.Correct,
		Mislabeled:      result.Mislabeled,
		Undetermined:    result.Undetermined,
		ErrorRate:       result.ErrorRate,
		Misclassified:   make([]Item, 0, len(result.Misclassified)),
	}
	r.TopPositive, r.TopNegative = model.TopTokens(topTokens)

	n := len(split.Test)
	if n > SampleSize {
		n = SampleSize
	}
	r.Samples = make([]Item, 0, n)
	for _, ex := range split.Test[:n] {
		score := model.Predict(ex.Doc)
		r.Samples = append(r.Samples, Item{
			Tokens:  ex.Doc,
			Text:    ex.Text,
			Label:   ex.Label,
			Score:   Score(score),
			Outcome: bayes.Classify(score),
		})
	}

	for _, m := range result.Misclassified {
		r.Misclassified = append(r.Misclassified, Item{
			Tokens:      m.Doc,
			Text:        m.Text,
			Label:       m.Label,
			Score:       Score(m.Score),
			Outcome:     m.Outcome,
			Explanation: m.Explanation,
		})
	}
	return r
}

// TestSize is the number of evaluated documents.
func (r *Report) TestSize() int {
	return r.TestPos + r.TestNeg
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	rateStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// Render writes the console summary. At most maxMislabeled misclassified
// examples are listed; a negative value lists all of them.
func (r *Report) Render(w io.Writer, maxMislabeled int) error {
	var b strings.Builder

	fmt.Fprintln(&b, titleStyle.Render("Sentiment report: "+r.Dataset))
	fmt.Fprintf(&b, "%s N_train_pos = %d, N_train_neg = %d\n", keyStyle.Render("split:"), r.TrainPos, r.TrainNeg)
	fmt.Fprintf(&b, "%s N_test_pos = %d, N_test_neg = %d\n", keyStyle.Render("split:"), r.TestPos, r.TestNeg)
	fmt.Fprintf(&b, "freq dictionary size: %d, vocab size: %d\n", r.FreqTableSize, r.VocabularySize)
	fmt.Fprintf(&b, "Number of positive events: %d, Number of negative events: %d\n", r.PositiveEvents, r.NegativeEvents)
	fmt.Fprintf(&b, "log_pos_neg_ratio of the training set = %.4f\n", float64(r.Prior))
	if r.DegeneratePrior {
		fmt.Fprintln(&b, warnStyle.Render("warning: one class has no training tokens, every prediction favours the other"))
	}

	if len(r.TopPositive) > 0 || len(r.TopNegative) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, titleStyle.Render("Most telling tokens"))
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("positive:"), formatWeights(r.TopPositive))
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("negative:"), formatWeights(r.TopNegative))
	}

	if len(r.Samples) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, titleStyle.Render("Sample predictions"))
		for _, item := range r.Samples {
			text := item.Text
			if text == "" {
				text = strings.Join(item.Tokens, " ")
			}
			fmt.Fprintf(&b, "%s => %.4f (%s, labeled %s)\n", text, float64(item.Score), item.Outcome, item.Label)
		}
	}

	if len(r.Misclassified) > 0 && maxMislabeled != 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, titleStyle.Render("Mislabeled examples"))
		for i, item := range r.Misclassified {
			if maxMislabeled > 0 && i == maxMislabeled {
				fmt.Fprintf(&b, "... %d more\n", len(r.Misclassified)-maxMislabeled)
				break
			}
			fmt.Fprintln(&b)
			renderItem(&b, item)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "# of mislabeled: %d\n", r.Mislabeled)
	fmt.Fprintf(&b, "# of correctly labeled: %d\n", r.Correct)
	fmt.Fprintf(&b, "# of undetermined: %d\n", r.Undetermined)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Error rate:"), rateStyle.Render(fmt.Sprintf("%.4f", r.ErrorRate)))

	_, err := io.WriteString(w, b.String())
	return err
}

func renderItem(b *strings.Builder, item Item) {
	if item.Text != "" {
		fmt.Fprintf(b, "Text: %s\n", item.Text)
	}
	fmt.Fprintf(b, "Tokens: [%s]\n", strings.Join(item.Tokens, " "))
	fmt.Fprintf(b, "True Label: %s\n", item.Label)
	fmt.Fprintf(b, "Prediction: %.4f (%s)\n", float64(item.Score), item.Outcome)
	if item.Explanation != "" {
		fmt.Fprintf(b, "Explanation: %s\n", item.Explanation)
	}
}

// RenderItem renders a single misclassified example.
func RenderItem(item Item) string {
	var b strings.Builder
	renderItem(&b, item)
	return b.String()
}

func formatWeights(weights []bayes.TokenWeight) string {
	if len(weights) == 0 {
		return "-"
	}
	parts := make([]string, len(weights))
	for i, tw := range weights {
		parts[i] = fmt.Sprintf("%s (%.2f)", tw.Token, tw.Weight)
	}
	return strings.Join(parts, ", ")
}
