// Package corpus loads labeled posts and stop-word lists from disk.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const maxLineBytes = 1 << 20

// Dataset holds the raw positive and negative posts of one corpus together
// with its stop-word list.
type Dataset struct {
	Name      string
	Positive  []string
	Negative  []string
	Stopwords []string
}

// Files names the files of a dataset directory.
type Files struct {
	Positive  string
	Negative  string
	Stopwords string
}

// DefaultFiles matches the layout of the twitter_samples corpus.
func DefaultFiles() Files {
	return Files{
		Positive:  "positive_tweets.json",
		Negative:  "negative_tweets.json",
		Stopwords: "english_stopwords.txt",
	}
}

type post struct {
	Text string `json:"text"`
}

// LoadDataset reads the posts and stop words of the dataset in dir. An empty
// Stopwords file name means no stop words.
func LoadDataset(dir string, files Files) (*Dataset, error) {
	pos, err := LoadPosts(filepath.Join(dir, files.Positive))
	if err != nil {
		return nil, err
	}
	neg, err := LoadPosts(filepath.Join(dir, files.Negative))
	if err != nil {
		return nil, err
	}

	var stopwords []string
	if files.Stopwords != "" {
		stopwords, err = LoadStopwords(filepath.Join(dir, files.Stopwords))
		if err != nil {
			return nil, err
		}
	}

	return &Dataset{
		Name:      filepath.Base(filepath.Clean(dir)),
		Positive:  pos,
		Negative:  neg,
		Stopwords: stopwords,
	}, nil
}

// LoadPosts reads one post per line. Files ending in .json or .jsonl hold one
// JSON object per line with a "text" field; anything else is plain text.
// Blank lines are skipped.
func LoadPosts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening posts: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	posts, err := ReadPosts(f, ext == ".json" || ext == ".jsonl")
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return posts, nil
}

// ReadPosts reads posts from r, one per line.
func ReadPosts(r io.Reader, jsonLines bool) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	posts := []string{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !jsonLines {
			posts = append(posts, line)
			continue
		}
		var p post
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		posts = append(posts, p.Text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// LoadStopwords reads one stop word per line, ignoring blank lines and lines
// starting with #.
func LoadStopwords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening stop words: %w", err)
	}
	defer f.Close()

	words := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading stop words: %w", err)
	}
	return words, nil
}
