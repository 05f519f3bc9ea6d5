package util

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GetAvailableDatasets lists the dataset directories under root. Hidden
// directories are skipped. A missing root yields an empty list.
func GetAvailableDatasets(root string) ([]string, error) {
	files, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	directories := []string{}
	for _, f := range files {
		if f.IsDir() {
			if strings.HasPrefix(f.Name(), ".") {
				continue
			}
			directories = append(directories, f.Name())
		}
	}

	return directories, nil
}

func CheckDirIsValid(dirName string) (bool, error) {
	info, err := os.Stat(dirName)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil // Directory does not exist
		}
		return false, err // Some other error occurred
	}
	return info.IsDir(), nil
}

// DatasetTitle turns a dataset directory such as "data/twitter_samples" into
// a display name like "Twitter Samples".
func DatasetTitle(dirName string) string {
	name := filepath.Base(filepath.Clean(dirName))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(name)
}

const (
	TerminalReset  = "\033[0m"
	TerminalRed    = "\033[31m"
	TerminalGreen  = "\033[32m"
	TerminalYellow = "\033[33m"
	TerminalBlue   = "\033[34m"
	TerminalPurple = "\033[35m"
	TerminalCyan   = "\033[36m"
	TerminalWhite  = "\033[37m"
)
