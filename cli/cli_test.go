package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/report"
)

func TestValidateSplit(t *testing.T) {
	testCases := []struct {
		input   interface{}
		wantErr bool
	}{
		{"0.8", false},
		{" 1 ", false},
		{"0.001", false},
		{"0", true},
		{"1.5", true},
		{"-0.2", true},
		{"abc", true},
		{"", true},
		{42, true},
	}

	for _, tc := range testCases {
		err := validateSplit(tc.input)
		if tc.wantErr {
			require.Error(t, err, "input %v", tc.input)
		} else {
			require.NoError(t, err, "input %v", tc.input)
		}
	}
}

func TestDatasetOptions(t *testing.T) {
	options := datasetOptions([]string{"twitter_samples", "movies"})
	require.Equal(t, []string{"○ twitter_samples", "○ movies", optionExit}, options)
	require.Equal(t, "twitter_samples", formatCliResponse(options[0]))
}

func TestMislabeledOptions(t *testing.T) {
	rep := &report.Report{Misclassified: []report.Item{
		{Text: "not bad at all", Label: bayes.Positive},
		{Tokens: []string{"good", "grief"}, Label: bayes.Negative},
	}}

	options := mislabeledOptions(rep)
	require.Equal(t, []string{
		"○ 1. [Positive] not bad at all",
		"○ 2. [Negative] good grief",
		optionNewRun,
		optionExit,
	}, options)

	require.Equal(t, 0, selectedIndex(options[0]))
	require.Equal(t, 1, selectedIndex(options[1]))
	require.Equal(t, -1, selectedIndex(optionNewRun))
}
