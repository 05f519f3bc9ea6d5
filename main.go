package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/cli"
	"github.com/deanrtaylor1/gosentiment/config"
	"github.com/deanrtaylor1/gosentiment/logger"
	"github.com/deanrtaylor1/gosentiment/pipeline"
	"github.com/deanrtaylor1/gosentiment/report"
	"github.com/deanrtaylor1/gosentiment/server"
	"github.com/deanrtaylor1/gosentiment/store"
	"github.com/deanrtaylor1/gosentiment/util"
)

func help() {
	fmt.Println("GoSentiment - Naive Bayes sentiment classifier for short posts")
	fmt.Println("Author: Dean Taylor")
	fmt.Println("Version: 0.2")
	fmt.Println("License: MIT")
	fmt.Println("default start: gosentiment trains and evaluates the default dataset and prints the report")

	fmt.Println("CLI Usage: PROGRAM [SUBCOMMAND] [OPTIONS]")
	fmt.Println("----------------------------------")
	fmt.Println("Subcommands:")
	fmt.Println("    run:                             train, evaluate and print the report")
	fmt.Println("    cli:                             interactive dataset picker and mislabeled browser")
	fmt.Println("    serve:                           run, then serve the report on server.addr")
	fmt.Println("    runs:                            list stored runs")
	fmt.Println("    tokens:                          print the most telling tokens of a model snapshot")
	fmt.Println("    help:                            list all commands")
	fmt.Println("Options:")
	fmt.Println("    -config <path>                   YAML config file")
	fmt.Println("    -dataset <name>                  dataset directory under dataset_dir")
	fmt.Println("    -json                            print the report as JSON (run)")
	fmt.Println("    -snapshot <path>                 model snapshot to read (tokens)")
}

type options struct {
	configPath string
	dataset    string
	json       bool
	snapshot   string
	limit      int
}

func parseOptions(name string, args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.dataset, "dataset", "twitter_samples", "dataset directory under dataset_dir")
	fs.BoolVar(&opts.json, "json", false, "print the report as JSON")
	fs.StringVar(&opts.snapshot, "snapshot", "", "model snapshot to read")
	fs.IntVar(&opts.limit, "limit", 20, "number of stored runs to list")
	err := fs.Parse(args)
	return opts, err
}

func openHistory(cfg config.Config) *store.Store {
	if cfg.Report.DBPath == "" {
		return nil
	}
	history, err := store.New(cfg.Report.DBPath)
	if err != nil {
		logger.HandleError(err)
		return nil
	}
	return history
}

// runOnce trains and evaluates the selected dataset, stores the run and
// writes the optional model snapshot.
func runOnce(ctx context.Context, cfg config.Config, opts options, history *store.Store, observer pipeline.Observer) (*report.Report, error) {
	dir := filepath.Join(cfg.DatasetDir, opts.dataset)
	rep, model, err := pipeline.RunDataset(ctx, cfg, dir, observer)
	if err != nil {
		return nil, err
	}

	if history != nil {
		id, err := history.SaveRun(ctx, rep)
		if err != nil {
			logger.HandleError(err)
		} else {
			logger.HandleLog(fmt.Sprintf("saved run %d to %s", id, cfg.Report.DBPath))
		}
	}

	if cfg.SnapshotDir != "" {
		snapshotDir := filepath.Join(cfg.SnapshotDir, opts.dataset)
		if err := bayes.SaveModel(bayes.FileOpsImpl{}, snapshotDir, model); err != nil {
			logger.HandleError(err)
		} else {
			logger.HandleLog("saved model snapshot to " + filepath.Join(snapshotDir, bayes.SnapshotFile))
		}
	}
	return rep, nil
}

func printReport(cfg config.Config, opts options, rep *report.Report) error {
	if opts.json || cfg.Report.Format == config.FormatJSON {
		return rep.WriteJSON(os.Stdout)
	}
	return rep.Render(os.Stdout, cfg.Report.MaxMislabeled)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.HandleError(err)
	}

	args := os.Args[1:]
	program := "run"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		program = args[0]
		args = args[1:]
	}
	if program == "help" || (len(args) > 0 && (args[0] == "-help" || args[0] == "--help")) {
		help()
		return
	}

	opts, err := parseOptions(program, args)
	if err != nil {
		help()
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch program {
	case "run":
		history := openHistory(cfg)
		if history != nil {
			defer history.Close()
		}
		rep, err := runOnce(ctx, cfg, opts, history, nil)
		if err != nil {
			logger.HandleError(err)
			os.Exit(1)
		}
		if err := printReport(cfg, opts, rep); err != nil {
			logger.HandleError(err)
			os.Exit(1)
		}

	case "cli":
		history := openHistory(cfg)
		if history != nil {
			defer history.Close()
		}
		cli.InitialPrompt(cfg, history)

	case "serve":
		history := openHistory(cfg)
		if history != nil {
			defer history.Close()
		}
		progress := pipeline.NewProgress()
		go func() {
			rep, err := runOnce(ctx, cfg, opts, history, progress)
			progress.Finish(rep, err)
			if err != nil {
				logger.HandleError(err)
				return
			}
			logger.HandleLog(util.TerminalGreen + "report ready at /api/report" + util.TerminalReset)
		}()
		state := &server.State{Dataset: util.DatasetTitle(opts.dataset), Progress: progress}
		if history != nil {
			state.History = history
		}
		log.Fatal(server.Serve(cfg.Server.Addr, state))

	case "runs":
		history, err := store.New(cfg.Report.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		defer history.Close()
		runs, err := history.ListRuns(ctx, opts.limit)
		if err != nil {
			log.Fatal(err)
		}
		if len(runs) == 0 {
			fmt.Println("No stored runs")
		}
		for _, r := range runs {
			fmt.Printf("%4d  %s  %-20s split=%.2f test=%d mislabeled=%d undetermined=%d error_rate=%.4f\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Dataset, r.Split, r.TestSize, r.Mislabeled, r.Undetermined, r.ErrorRate)
		}

	case "tokens":
		path := opts.snapshot
		if path == "" {
			path = filepath.Join(cfg.SnapshotDir, opts.dataset, bayes.SnapshotFile)
		}
		model, err := bayes.LoadModel(path)
		if err != nil {
			log.Fatal(err)
		}
		positive, negative := model.TopTokens(cfg.Report.TopTokens)
		fmt.Printf(util.TerminalCyan+"%s: vocab size %d, log prior %.4f\n"+util.TerminalReset, path, len(model.Vocab), model.Prior)
		for _, tw := range positive {
			fmt.Printf(util.TerminalGreen+"  + %-20s %.4f\n"+util.TerminalReset, tw.Token, tw.Weight)
		}
		for _, tw := range negative {
			fmt.Printf(util.TerminalRed+"  - %-20s %.4f\n"+util.TerminalReset, tw.Token, tw.Weight)
		}

	default:
		help()
	}
}
