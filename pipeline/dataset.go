package pipeline

import (
	"context"
	"fmt"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/config"
	"github.com/deanrtaylor1/gosentiment/corpus"
	"github.com/deanrtaylor1/gosentiment/evaluate"
	"github.com/deanrtaylor1/gosentiment/explain"
	"github.com/deanrtaylor1/gosentiment/report"
	"github.com/deanrtaylor1/gosentiment/util"
)

// NewExplainer builds the chat completion explainer, or returns nil when
// explanations are disabled.
func NewExplainer(cfg config.ExplainConfig) (evaluate.Explainer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client, err := explain.NewClient(explain.Config{
		BaseURL:    cfg.BaseURL,
		APIKeyEnv:  cfg.APIKeyEnv,
		Model:      cfg.Model,
		Timeout:    cfg.Timeout(),
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// RunDataset loads the dataset in dir with the file names of cfg, normalizes
// it and runs the pipeline with cfg's split and explanation settings.
func RunDataset(ctx context.Context, cfg config.Config, dir string, observer Observer) (*report.Report, *bayes.Model, error) {
	isValid, err := util.CheckDirIsValid(dir)
	if err != nil {
		return nil, nil, err
	}
	if !isValid {
		return nil, nil, fmt.Errorf("dataset directory %s does not exist", dir)
	}

	ds, err := corpus.LoadDataset(dir, corpus.Files{
		Positive:  cfg.PositiveFile,
		Negative:  cfg.NegativeFile,
		Stopwords: cfg.StopwordsFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading dataset: %w", err)
	}

	in, err := Prepare(ds, cfg.Split)
	if err != nil {
		return nil, nil, err
	}

	explainer, err := NewExplainer(cfg.Explain)
	if err != nil {
		return nil, nil, fmt.Errorf("creating explainer: %w", err)
	}

	return Run(ctx, in, Options{
		Dataset:        util.DatasetTitle(ds.Name),
		Explainer:      explainer,
		ExplainTimeout: cfg.Explain.Timeout(),
		TopTokens:      cfg.Report.TopTokens,
		Observer:       observer,
	})
}
