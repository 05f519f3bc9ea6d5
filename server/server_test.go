package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deanrtaylor1/gosentiment/bayes"
	"github.com/deanrtaylor1/gosentiment/pipeline"
	"github.com/deanrtaylor1/gosentiment/report"
	"github.com/deanrtaylor1/gosentiment/store"
)

type fakeHistory struct {
	runs  []store.Run
	items map[int64][]report.Item
	err   error
}

func (f *fakeHistory) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeHistory) Mislabeled(ctx context.Context, runID int64) ([]report.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[runID], nil
}

func finishedState(t *testing.T, history RunHistory) *State {
	t.Helper()
	progress := pipeline.NewProgress()
	in := pipeline.Input{
		Positive: []bayes.Example{{Doc: bayes.Document{"good"}}, {Doc: bayes.Document{"bad"}, Text: "not bad"}},
		Negative: []bayes.Example{{Doc: bayes.Document{"bad"}}, {Doc: bayes.Document{"awful"}}},
		Split:    0.5,
	}
	rep, _, err := pipeline.Run(context.Background(), in, pipeline.Options{Dataset: "tiny", Observer: progress})
	require.NoError(t, err)
	progress.Finish(rep, nil)
	return &State{Dataset: "tiny", Progress: progress, History: history}
}

func get(t *testing.T, state *State, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handleRequests(state).ServeHTTP(rr, req)
	return rr
}

func TestHandleApiReport(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		state := &State{Progress: pipeline.NewProgress()}
		rr := get(t, state, "/api/report")
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("finished", func(t *testing.T) {
		rr := get(t, finishedState(t, nil), "/api/report")
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var rep report.Report
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rep))
		require.Equal(t, "tiny", rep.Dataset)
		require.Equal(t, 1, rep.TestPos)
		require.Equal(t, 1, rep.TestNeg)
	})
}

func TestHandleApiMislabeled(t *testing.T) {
	history := &fakeHistory{items: map[int64][]report.Item{
		3: {{Tokens: []string{"meh"}, Label: bayes.Positive, Outcome: bayes.Undetermined}},
	}}
	state := finishedState(t, history)

	rr := get(t, state, "/api/mislabeled")
	require.Equal(t, http.StatusOK, rr.Code)
	var current MislabeledResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &current))
	require.Equal(t, "not bad", current.Data[0].Text)

	rr = get(t, state, "/api/mislabeled?run=3")
	require.Equal(t, http.StatusOK, rr.Code)
	var stored MislabeledResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stored))
	require.Len(t, stored.Data, 1)
	require.Equal(t, bayes.Undetermined, stored.Data[0].Outcome)

	rr = get(t, state, "/api/mislabeled?run=abc")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	state.History = nil
	rr = get(t, state, "/api/mislabeled?run=3")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleApiProgress(t *testing.T) {
	testCases := []struct {
		name       string
		setup      func(p *pipeline.Progress)
		message    string
		isComplete bool
	}{
		{"not started", func(p *pipeline.Progress) {}, "Not Started", false},
		{"in progress", func(p *pipeline.Progress) { p.OnPhase(pipeline.Counting) }, "In Progress", false},
		{"complete", func(p *pipeline.Progress) {
			p.OnPhase(pipeline.Partitioning)
			p.Finish(&report.Report{}, nil)
		}, "Complete", true},
		{"failed", func(p *pipeline.Progress) {
			p.OnPhase(pipeline.Partitioning)
			p.Finish(nil, errors.New("bad split"))
		}, "Failed", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			progress := pipeline.NewProgress()
			tc.setup(progress)

			rr := get(t, &State{Dataset: "tiny", Progress: progress}, "/api/progress")
			require.Equal(t, http.StatusOK, rr.Code)

			var resp ProgressResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.Equal(t, tc.message, resp.Message)
			require.Equal(t, tc.isComplete, resp.IsComplete)
			require.Equal(t, "tiny", resp.Dataset)
		})
	}
}

func TestHandleApiRuns(t *testing.T) {
	history := &fakeHistory{runs: []store.Run{{ID: 2, Dataset: "b"}, {ID: 1, Dataset: "a"}}}
	state := finishedState(t, history)

	rr := get(t, state, "/api/runs?limit=1")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp RunsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, int64(2), resp.Data[0].ID)

	rr = get(t, state, "/api/runs?limit=x")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	history.err = errors.New("disk gone")
	rr = get(t, state, "/api/runs")
	require.Equal(t, http.StatusInternalServerError, rr.Code)

	state.History = nil
	rr = get(t, state, "/api/runs")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Empty(t, resp.Data)
}

func TestHandleRequestsNotFound(t *testing.T) {
	state := finishedState(t, nil)

	rr := get(t, state, "/api/search")
	require.Equal(t, http.StatusNotFound, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/report", nil)
	rr = httptest.NewRecorder()
	handleRequests(state).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
