// Package store keeps the history of evaluation runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/report"
)

// Run is the stored summary of one evaluation.
type Run struct {
	ID             int64        `json:"id"`
	Dataset        string       `json:"dataset"`
	CreatedAt      time.Time    `json:"created_at"`
	Split          float64      `json:"split"`
	TestSize       int          `json:"test_size"`
	Correct        int          `json:"correct"`
	Mislabeled     int          `json:"mislabeled"`
	Undetermined   int          `json:"undetermined"`
	ErrorRate      float64      `json:"error_rate"`
	Prior          report.Score `json:"prior_log_ratio"`
	VocabularySize int          `json:"vocabulary_size"`
}

type Store struct {
	db *sql.DB
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset TEXT,
	created_at INTEGER,
	split REAL,
	test_size INTEGER,
	correct INTEGER,
	mislabeled INTEGER,
	undetermined INTEGER,
	error_rate REAL,
	prior TEXT,
	vocabulary_size INTEGER
);

CREATE TABLE IF NOT EXISTS mislabeled (
	run_id INTEGER REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER,
	text TEXT,
	tokens TEXT,
	label INTEGER,
	score TEXT,
	outcome INTEGER,
	explanation TEXT,
	PRIMARY KEY (run_id, position)
);
`

// New opens the SQLite database at dbPath and creates the tables if needed.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set WAL mode: %w", err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores the summary and misclassified examples of r in one
// transaction and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, r *report.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (dataset, created_at, split, test_size, correct, mislabeled, undetermined, error_rate, prior, vocabulary_size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Dataset, r.CreatedAt.Unix(), r.Split, r.TestSize(), r.Correct, r.Mislabeled, r.Undetermined,
		r.ErrorRate, formatScore(r.Prior), r.VocabularySize,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: run id: %w", err)
	}

	for i, item := range r.Misclassified {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO mislabeled (run_id, position, text, tokens, label, score, outcome, explanation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, item.Text, strings.Join(item.Tokens, " "), int(item.Label), formatScore(item.Score),
			int(item.Outcome), item.Explanation,
		)
		if err != nil {
			return 0, fmt.Errorf("store: insert mislabeled %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dataset, created_at, split, test_size, correct, mislabeled, undetermined, error_rate, prior, vocabulary_size
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created int64
			prior   string
		)
		if err := rows.Scan(&r.ID, &r.Dataset, &created, &r.Split, &r.TestSize, &r.Correct, &r.Mislabeled,
			&r.Undetermined, &r.ErrorRate, &prior, &r.VocabularySize); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0).UTC()
		if r.Prior, err = parseScore(prior); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Mislabeled returns the misclassified examples of a run in evaluation order.
func (s *Store) Mislabeled(ctx context.Context, runID int64) ([]report.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text, tokens, label, score, outcome, explanation
		 FROM mislabeled WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: mislabeled for run %d: %w", runID, err)
	}
	defer rows.Close()

	items := []report.Item{}
	for rows.Next() {
		var (
			item           report.Item
			tokens, score  string
			label, outcome int
		)
		if err := rows.Scan(&item.Text, &tokens, &label, &score, &outcome, &item.Explanation); err != nil {
			return nil, fmt.Errorf("store: scan mislabeled: %w", err)
		}
		item.Tokens = strings.Fields(tokens)
		item.Label = bayes.Label(label)
		item.Outcome = bayes.Outcome(outcome)
		if item.Score, err = parseScore(score); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Scores are kept as text so that infinite priors survive the round trip.
func formatScore(s report.Score) string {
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}

func parseScore(s string) (report.Score, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("store: invalid score %q: %w", s, err)
	}
	return report.Score(f), nil
}
