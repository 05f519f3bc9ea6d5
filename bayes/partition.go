package bayes

import "fmt"

// Partition splits positive and negative examples into training and test sets.
// The first floor(fraction*len) examples of each class go to training, positives
// first, and the rest go to test in their original order. Labels are assigned
// from the slice an example came from.
func Partition(pos, neg []Example, fraction float64) (*Split, error) {
	if !(fraction > 0 && fraction <= 1) {
		return nil, fmt.Errorf("%w: %v is outside (0, 1]", ErrInvalidSplit, fraction)
	}

	posTrain := int(fraction * float64(len(pos)))
	negTrain := int(fraction * float64(len(neg)))

	split := &Split{
		Train:    make([]Example, 0, posTrain+negTrain),
		Test:     make([]Example, 0, len(pos)-posTrain+len(neg)-negTrain),
		TrainPos: posTrain,
		TrainNeg: negTrain,
		TestPos:  len(pos) - posTrain,
		TestNeg:  len(neg) - negTrain,
	}

	split.Train = appendLabeled(split.Train, pos[:posTrain], Positive)
	split.Train = appendLabeled(split.Train, neg[:negTrain], Negative)
	split.Test = appendLabeled(split.Test, pos[posTrain:], Positive)
	split.Test = appendLabeled(split.Test, neg[negTrain:], Negative)

	return split, nil
}

// PartitionDocuments is Partition for bare token sequences.
func PartitionDocuments(pos, neg []Document, fraction float64) (*Split, error) {
	return Partition(examples(pos), examples(neg), fraction)
}

func appendLabeled(dst, src []Example, label Label) []Example {
	for _, ex := range src {
		ex.Label = label
		dst = append(dst, ex)
	}
	return dst
}

func examples(docs []Document) []Example {
	out := make([]Example, len(docs))
	for i, doc := range docs {
		out[i] = Example{Doc: doc}
	}
	return out
}
