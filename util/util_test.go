package util

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDatasetTitle(t *testing.T) {
	cases := []struct {
		dir  string
		want string
	}{
		{"twitter_samples", "Twitter Samples"},
		{"datasets/movie-reviews/", "Movie Reviews"},
		{"IMDB", "IMDB"},
	}

	for _, v := range cases {
		got := DatasetTitle(v.dir)
		if got != v.want {
			t.Errorf("DatasetTitle(%q) == %q, want %q", v.dir, got, v.want)
		}
	}
}

func TestGetAvailableDatasets(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"tweets", "reviews", ".cache"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	got, err := GetAvailableDatasets(root)
	if err != nil {
		t.Fatalf("GetAvailableDatasets() failed: %v", err)
	}
	want := []string{"reviews", "tweets"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetAvailableDatasets() == %v, want %v", got, want)
	}

	missing, err := GetAvailableDatasets(filepath.Join(root, "nope"))
	if err != nil || len(missing) != 0 {
		t.Errorf("GetAvailableDatasets() on a missing root == %v, %v, want empty, nil", missing, err)
	}
}

func TestCheckDirIsValid(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	cases := []struct {
		path string
		want bool
	}{
		{root, true},
		{file, false},
		{filepath.Join(root, "missing"), false},
	}

	for _, v := range cases {
		got, err := CheckDirIsValid(v.path)
		if err != nil {
			t.Fatalf("CheckDirIsValid(%q) failed: %v", v.path, err)
		}
		if got != v.want {
			t.Errorf("CheckDirIsValid(%q) == %t, want %t", v.path, got, v.want)
		}
	}
}
