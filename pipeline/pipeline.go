// Package pipeline runs one training and evaluation pass: partition,
// count, estimate, evaluate, report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/corpus"
	"github.com/deanrtaylor1/gosentiment/evaluate"
	"github.com/deanrtaylor1/gosentiment/lexer"
	"github.com/deanrtaylor1/gosentiment/logger"
	"github.com/deanrtaylor1/gosentiment/report"
)

type Phase int

const (
	Idle Phase = iota
	Partitioning
	Counting
	Estimating
	Evaluating
	Done
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Not Started"
	case Partitioning:
		return "Partitioning"
	case Counting:
		return "Counting"
	case Estimating:
		return "Estimating"
	case Evaluating:
		return "Evaluating"
	case Done:
		return "Complete"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Observer is notified when the pipeline enters a phase.
type Observer interface {
	OnPhase(Phase)
}

type ObserverFunc func(Phase)

func (f ObserverFunc) OnPhase(p Phase) { f(p) }

// Input is the labeled data of one run.
type Input struct {
	Positive []bayes.Example
	Negative []bayes.Example
	Split    float64
}

type Options struct {
	Dataset        string
	Explainer      evaluate.Explainer
	ExplainTimeout time.Duration
	TopTokens      int
	Observer       Observer
}

func (o Options) notify(p Phase) {
	if o.Observer != nil {
		o.Observer.OnPhase(p)
	}
}

// Run trains a model on the training part of in and evaluates it on the
// rest. Cancellation is checked between phases and during evaluation.
func Run(ctx context.Context, in Input, opts Options) (*report.Report, *bayes.Model, error) {
	rep, model, err := run(ctx, in, opts)
	if err != nil {
		opts.notify(Failed)
		return nil, nil, err
	}
	opts.notify(Done)
	return rep, model, nil
}

func run(ctx context.Context, in Input, opts Options) (*report.Report, *bayes.Model, error) {
	start := time.Now()

	opts.notify(Partitioning)
	split, err := bayes.Partition(in.Positive, in.Negative, in.Split)
	if err != nil {
		return nil, nil, fmt.Errorf("partitioning: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	opts.notify(Counting)
	freqs, err := bayes.CountTraining(split)
	if err != nil {
		return nil, nil, fmt.Errorf("counting: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	opts.notify(Estimating)
	model, err := bayes.NewModel(freqs)
	if err != nil {
		return nil, nil, fmt.Errorf("estimating: %w", err)
	}
	if model.DegeneratePrior {
		logger.HandleWarning(fmt.Sprintf("degenerate prior %v (pos=%d neg=%d): every document is scored toward one class",
			model.Prior, model.Totals.Pos, model.Totals.Neg))
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	opts.notify(Evaluating)
	evaluator := &evaluate.Evaluator{Explainer: opts.Explainer, Timeout: opts.ExplainTimeout}
	result, err := evaluator.Evaluate(ctx, model, split)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluating: %w", err)
	}

	logger.HandleLog(fmt.Sprintf("trained on %d documents, evaluated %d in %d ms",
		len(split.Train), result.TestSize, time.Since(start).Milliseconds()))

	return report.New(opts.Dataset, in.Split, split, model, result, opts.TopTokens), model, nil
}

// Normalize turns raw posts into labeled examples. The raw text is kept on
// each example.
func Normalize(n *lexer.Normalizer, raw []string, label bayes.Label) []bayes.Example {
	examples := make([]bayes.Example, len(raw))
	for i, text := range raw {
		examples[i] = bayes.Example{
			Doc:   n.Normalize(text),
			Label: label,
			Text:  text,
		}
	}
	return examples
}

// Prepare normalizes a loaded dataset into pipeline input.
func Prepare(ds *corpus.Dataset, split float64) (Input, error) {
	n, err := lexer.NewNormalizer(ds.Stopwords)
	if err != nil {
		return Input{}, fmt.Errorf("creating normalizer: %w", err)
	}
	defer n.Close()

	return Input{
		Positive: Normalize(n, ds.Positive, bayes.Positive),
		Negative: Normalize(n, ds.Negative, bayes.Negative),
		Split:    split,
	}, nil
}
