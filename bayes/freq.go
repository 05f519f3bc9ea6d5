package bayes

import (
	"fmt"
	"sort"
)

// FreqKey identifies the count of a token within one class.
type FreqKey struct {
	Token string
	Label Label
}

// FreqTable maps (token, label) pairs to the number of times the token occurs
// across all training documents of that label.
type FreqTable map[FreqKey]int

// Vocabulary is the set of distinct tokens seen in training.
type Vocabulary map[string]struct{}

// Contains reports whether token was seen in training.
func (v Vocabulary) Contains(token string) bool {
	_, ok := v[token]
	return ok
}

// Sorted returns the vocabulary in lexical order.
func (v Vocabulary) Sorted() []string {
	tokens := make([]string, 0, len(v))
	for token := range v {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// ClassTotals holds the total token occurrences per class.
type ClassTotals struct {
	Pos int
	Neg int
}

// BuildFreqTable counts every token occurrence of every document under the
// document's label. Repeated tokens within a document each count.
func BuildFreqTable(docs []Document, labels []Label) (FreqTable, Vocabulary, error) {
	if len(docs) != len(labels) {
		return nil, nil, fmt.Errorf("%w: %d documents, %d labels", ErrLengthMismatch, len(docs), len(labels))
	}

	freqs := make(FreqTable)
	vocab := make(Vocabulary)
	for i, doc := range docs {
		for _, token := range doc {
			freqs[FreqKey{token, labels[i]}] += 1
			vocab[token] = struct{}{}
		}
	}
	return freqs, vocab, nil
}

// Merge returns a new table holding the summed counts of f and other.
func (f FreqTable) Merge(other FreqTable) FreqTable {
	merged := make(FreqTable, len(f)+len(other))
	for k, n := range f {
		merged[k] += n
	}
	for k, n := range other {
		merged[k] += n
	}
	return merged
}

// Vocabulary derives the set of tokens with a non-zero count.
func (f FreqTable) Vocabulary() Vocabulary {
	vocab := make(Vocabulary)
	for k, n := range f {
		if n > 0 {
			vocab[k.Token] = struct{}{}
		}
	}
	return vocab
}

// CountPosNeg sums the frequency table by label.
func CountPosNeg(freqs FreqTable) ClassTotals {
	var totals ClassTotals
	for k, n := range freqs {
		switch k.Label {
		case Positive:
			totals.Pos += n
		case Negative:
			totals.Neg += n
		}
	}
	return totals
}
