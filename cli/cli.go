package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/deanrtaylor1/gosentiment/config"
	"github.com/deanrtaylor1/gosentiment/pipeline"
	"github.com/deanrtaylor1/gosentiment/report"
	"github.com/deanrtaylor1/gosentiment/store"
	"github.com/deanrtaylor1/gosentiment/util"
)

//CLI Interface of GoSentiment

const (
	optionNewRun = "○ GoSentiment: New Run"
	optionExit   = "○ GoSentiment: Exit"
)

// Utility function to show the user the phase of the running pipeline
func logStatus(phase pipeline.Phase) {
	state := "⌛"
	if phase == pipeline.Done {
		state = "✓"
	}
	fmt.Printf(util.TerminalGreen+"Run Status: %s %s\n"+util.TerminalReset, state, phase)
}

// Clean up the CLI response to remove the bullet point
func formatCliResponse(response string) string {
	return strings.Replace(response, "○ ", "", -1)
}

// validateSplit accepts a fraction in (0, 1].
func validateSplit(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return fmt.Errorf("expected text input")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	if !(f > 0 && f <= 1) {
		return fmt.Errorf("split must be in (0, 1]")
	}
	return nil
}

func datasetOptions(names []string) []string {
	options := make([]string, 0, len(names)+1)
	for _, name := range names {
		options = append(options, "○ "+name)
	}
	return append(options, optionExit)
}

// mislabeledOptions lists each misclassified example by its text, falling
// back to its tokens, and prefixes its position so duplicates stay distinct.
func mislabeledOptions(rep *report.Report) []string {
	options := make([]string, 0, len(rep.Misclassified)+2)
	for i, item := range rep.Misclassified {
		text := item.Text
		if text == "" {
			text = strings.Join(item.Tokens, " ")
		}
		options = append(options, fmt.Sprintf("○ %d. [%s] %s", i+1, item.Label, text))
	}
	return append(options, optionNewRun, optionExit)
}

// selectedIndex returns the position of a mislabeled option, or -1.
func selectedIndex(option string) int {
	option = formatCliResponse(option)
	dot := strings.Index(option, ".")
	if dot < 1 {
		return -1
	}
	n, err := strconv.Atoi(option[:dot])
	if err != nil {
		return -1
	}
	return n - 1
}

// Start the CLI
func InitialPrompt(cfg config.Config, history *store.Store) {
	datasets, err := util.GetAvailableDatasets(cfg.DatasetDir)
	if err != nil {
		log.Fatal(err)
	}
	if len(datasets) == 0 {
		log.Println(util.TerminalRed, "No datasets found in", cfg.DatasetDir, util.TerminalReset)
		return
	}

	prompt := &survey.Select{
		Message: "Select a dataset:",
		Options: datasetOptions(datasets),
	}

	var selectedDataset string
	err = survey.AskOne(prompt, &selectedDataset)
	if err != nil {
		log.Fatal(err)
	}
	if selectedDataset == optionExit {
		return
	}

	var split string
	err = survey.AskOne(&survey.Input{
		Message: "Training fraction:",
		Default: strconv.FormatFloat(cfg.Split, 'f', -1, 64),
	}, &split, survey.WithValidator(validateSplit))
	if err != nil {
		log.Fatal(err)
	}
	cfg.Split, _ = strconv.ParseFloat(strings.TrimSpace(split), 64)

	if os.Getenv(cfg.Explain.APIKeyEnv) != "" {
		err = survey.AskOne(&survey.Confirm{
			Message: "Explain misclassified posts?",
			Default: cfg.Explain.Enabled,
		}, &cfg.Explain.Enabled)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		cfg.Explain.Enabled = false
	}

	rep := startRun(cfg, filepath.Join(cfg.DatasetDir, formatCliResponse(selectedDataset)), history)
	if rep == nil {
		InitialPrompt(cfg, history)
		return
	}
	BrowseMislabeled(cfg, rep, history)
}

// Run the pipeline and print the report
func startRun(cfg config.Config, dir string, history *store.Store) *report.Report {
	start := time.Now()
	observer := pipeline.ObserverFunc(logStatus)

	rep, _, err := pipeline.RunDataset(context.Background(), cfg, dir, observer)
	if err != nil {
		log.Println(util.TerminalRed, err, util.TerminalReset)
		return nil
	}

	if err := rep.Render(os.Stdout, 0); err != nil {
		log.Println(err)
	}

	if history != nil {
		id, err := history.SaveRun(context.Background(), rep)
		if err != nil {
			log.Println(util.TerminalRed, err, util.TerminalReset)
		} else {
			log.Println("Saved run", id)
		}
	}

	log.Println("------------------------------------")
	log.Println(util.TerminalCyan+"Evaluated ", rep.TestSize(), " documents in ", time.Since(start).Milliseconds(), " ms"+util.TerminalReset)
	log.Println("------------------------------------")
	return rep
}

// Browse the mislabeled examples of a finished run
func BrowseMislabeled(cfg config.Config, rep *report.Report, history *store.Store) {
	prompt := &survey.Select{
		Message:  "Mislabeled:",
		Options:  mislabeledOptions(rep),
		PageSize: 15,
	}

	var selected string
	fmt.Println("------------------------------------------------")
	err := survey.AskOne(prompt, &selected)
	if err != nil {
		log.Fatal(err)
	}

	switch selected {
	case optionNewRun:
		InitialPrompt(cfg, history)
	case optionExit:
		return
	default:
		if i := selectedIndex(selected); i >= 0 && i < len(rep.Misclassified) {
			fmt.Println()
			fmt.Print(report.RenderItem(rep.Misclassified[i]))
		}
		BrowseMislabeled(cfg, rep, history)
	}
}
