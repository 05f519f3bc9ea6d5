package bayes

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotFile is the file name SaveModel writes inside its directory.
const SnapshotFile = "model.gz"

// Model is the trained classifier. It is built once by Train or NewModel and
// is read-only afterwards.
type Model struct {
	Freqs         FreqTable
	Vocab         Vocabulary
	Totals        ClassTotals
	LogLikelihood LogLikelihood
	Prior         float64
	// DegeneratePrior is set when one class had no token occurrences and
	// Prior is infinite.
	DegeneratePrior bool
}

// Train builds the frequency table from the training half of split and
// estimates a model from it.
func Train(split *Split) (*Model, error) {
	freqs, err := CountTraining(split)
	if err != nil {
		return nil, err
	}
	return NewModel(freqs)
}

// CountTraining builds the frequency table of the training half of split.
func CountTraining(split *Split) (FreqTable, error) {
	docs, labels := split.TrainingSet()
	freqs, _, err := BuildFreqTable(docs, labels)
	return freqs, err
}

// NewModel estimates log-likelihoods and the prior from a frequency table.
func NewModel(freqs FreqTable) (*Model, error) {
	vocab := freqs.Vocabulary()
	totals := CountPosNeg(freqs)

	loglikelihood, err := BuildLogLikelihood(freqs, totals, vocab)
	if err != nil {
		return nil, err
	}
	prior, degenerate := PriorLogRatio(totals)

	return &Model{
		Freqs:           freqs,
		Vocab:           vocab,
		Totals:          totals,
		LogLikelihood:   loglikelihood,
		Prior:           prior,
		DegeneratePrior: degenerate,
	}, nil
}

// Predict scores doc against the model.
func (m *Model) Predict(doc Document) float64 {
	return Predict(m.LogLikelihood, m.Prior, doc)
}

// SnapshotVersion is written at the head of every snapshot and checked on load.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned when a snapshot was written in another format.
var ErrSnapshotVersion = errors.New("bayes: unsupported snapshot version")

// Snapshot is the on-disk form of a model. Only the frequency table is kept;
// Totals is stored to detect a table that was altered or truncated.
type Snapshot struct {
	Version int
	Totals  ClassTotals
	Freqs   FreqTable
}

// FileOps writes snapshots. FileOpsNoOp lets tests train without touching disk.
type FileOps interface {
	MkdirAll(dirName string, perm os.FileMode) error
	WriteSnapshot(filePath string, s *Snapshot) error
}

type FileOpsImpl struct{}

func (f FileOpsImpl) MkdirAll(dirName string, perm os.FileMode) error {
	return os.MkdirAll(dirName, perm)
}

func (f FileOpsImpl) WriteSnapshot(filePath string, s *Snapshot) error {
	return WriteSnapshot(filePath, s)
}

type FileOpsNoOp struct{}

func (f FileOpsNoOp) MkdirAll(dirName string, perm os.FileMode) error {
	return nil
}

func (f FileOpsNoOp) WriteSnapshot(filePath string, s *Snapshot) error {
	return nil
}

// SaveModel writes a snapshot of m to dirName/model.gz.
func SaveModel(ops FileOps, dirName string, m *Model) error {
	if err := ops.MkdirAll(dirName, 0755); err != nil {
		return fmt.Errorf("error creating snapshot directory: %w", err)
	}
	return ops.WriteSnapshot(filepath.Join(dirName, SnapshotFile), &Snapshot{
		Version: SnapshotVersion,
		Totals:  m.Totals,
		Freqs:   m.Freqs,
	})
}

// LoadModel reads a snapshot written by SaveModel and re-estimates the model.
func LoadModel(filePath string) (*Model, error) {
	s, err := ReadSnapshot(filePath)
	if err != nil {
		return nil, err
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSnapshotVersion, s.Version, SnapshotVersion)
	}
	if got := CountPosNeg(s.Freqs); got != s.Totals {
		return nil, fmt.Errorf("snapshot %s is inconsistent: totals %+v, table sums to %+v", filePath, s.Totals, got)
	}
	return NewModel(s.Freqs)
}

// WriteSnapshot gob-encodes s into a gzip file at filePath.
func WriteSnapshot(filePath string, s *Snapshot) error {
	var compressedData bytes.Buffer
	gzipWriter := gzip.NewWriter(&compressedData)

	if err := gob.NewEncoder(gzipWriter).Encode(s); err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("error closing gzip writer: %w", err)
	}

	if err := os.WriteFile(filePath, compressedData.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing snapshot to disk: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot file without checking its version.
func ReadSnapshot(filePath string) (*Snapshot, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gzipReader, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("error opening gzip snapshot: %w", err)
	}
	defer gzipReader.Close()

	var s Snapshot
	if err := gob.NewDecoder(gzipReader).Decode(&s); err != nil {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}
	return &s, nil
}
