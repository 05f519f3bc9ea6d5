// Package bayes implements a binary Naive Bayes sentiment classifier over
// normalized token sequences: partitioning, per-class token frequencies,
// Laplace-smoothed log-likelihoods and log-odds prediction.
package bayes

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidSplit is returned when a split fraction is outside (0, 1].
	ErrInvalidSplit = errors.New("bayes: invalid split fraction")
	// ErrLengthMismatch is returned when documents and labels differ in count.
	ErrLengthMismatch = errors.New("bayes: documents and labels length mismatch")
	// ErrEmptyTrainingSet is returned when neither class has a single token occurrence.
	ErrEmptyTrainingSet = errors.New("bayes: empty training set")
	// ErrNegativeTotals is returned when a class total is below zero.
	ErrNegativeTotals = errors.New("bayes: negative class totals")
)

type Label int

const (
	Negative Label = 0
	Positive Label = 1
)

func (l Label) String() string {
	switch l {
	case Negative:
		return "Negative"
	case Positive:
		return "Positive"
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// MarshalJSON encodes the label as its name.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a label name.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Negative":
		*l = Negative
	case "Positive":
		*l = Positive
	default:
		return fmt.Errorf("bayes: unknown label: %q", s)
	}
	return nil
}

// Document is an ordered sequence of normalized tokens.
type Document []string

// Example pairs a document with its label. Text is the raw post the document
// was normalized from and may be empty.
type Example struct {
	Doc   Document
	Label Label
	Text  string
}

// Split holds the disjoint training and test subsets of a labeled corpus.
type Split struct {
	Train []Example
	Test  []Example

	TrainPos int
	TrainNeg int
	TestPos  int
	TestNeg  int
}

// TestSize is the number of test documents across both classes.
func (s *Split) TestSize() int {
	return s.TestPos + s.TestNeg
}

// TrainingSet returns the training documents and their labels as parallel slices.
func (s *Split) TrainingSet() ([]Document, []Label) {
	docs := make([]Document, len(s.Train))
	labels := make([]Label, len(s.Train))
	for i, ex := range s.Train {
		docs[i] = ex.Doc
		labels[i] = ex.Label
	}
	return docs, labels
}
