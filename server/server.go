package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/deanrtaylor1/gosentiment/pipeline"
	"github.com/deanrtaylor1/gosentiment/report"
	"github.com/deanrtaylor1/gosentiment/store"
	"github.com/deanrtaylor1/gosentiment/util"
)

// RunHistory is the part of the run store the server reads from.
type RunHistory interface {
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
	Mislabeled(ctx context.Context, runID int64) ([]report.Item, error)
}

// State is what the server reports on. History may be nil.
type State struct {
	Dataset  string
	Progress *pipeline.Progress
	History  RunHistory
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ProgressResponse struct {
	Message    string    `json:"message"`
	IsComplete bool      `json:"is_complete"`
	Phase      string    `json:"phase"`
	Dataset    string    `json:"dataset"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type MislabeledResponse struct {
	Message string        `json:"message"`
	Data    []report.Item `json:"data"`
}

type RunsResponse struct {
	Message string      `json:"message"`
	Data    []store.Run `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		log.Println(util.TerminalRed+"Unable to marshal json: ", err, util.TerminalReset)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(jsonBytes)
	if err != nil {
		log.Println(err)
	}
}

// Server route to get the report of the finished run
func handleApiReport(w http.ResponseWriter, r *http.Request, state *State) {
	rep := state.Progress.Report()
	if rep == nil {
		writeJSON(w, http.StatusServiceUnavailable, MessageResponse{Message: "Report not ready"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Server route to get the misclassified examples of the current run, or of a
// stored run when ?run=<id> is given
func handleApiMislabeled(w http.ResponseWriter, r *http.Request, state *State) {
	runParam := r.URL.Query().Get("run")
	if runParam == "" {
		rep := state.Progress.Report()
		if rep == nil {
			writeJSON(w, http.StatusServiceUnavailable, MessageResponse{Message: "Report not ready"})
			return
		}
		writeJSON(w, http.StatusOK, MislabeledResponse{
			Message: fmt.Sprintf("%d mislabeled of %d", rep.Mislabeled, rep.TestSize()),
			Data:    rep.Misclassified,
		})
		return
	}

	runID, err := strconv.ParseInt(runParam, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid run id"})
		return
	}
	if state.History == nil {
		writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Run history is disabled"})
		return
	}

	items, err := state.History.Mislabeled(r.Context(), runID)
	if err != nil {
		log.Println(util.TerminalRed, err, util.TerminalReset)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Unable to read run history"})
		return
	}
	writeJSON(w, http.StatusOK, MislabeledResponse{
		Message: fmt.Sprintf("%d mislabeled in run %d", len(items), runID),
		Data:    items,
	})
}

// Server route to get the status of the run
func handleApiProgress(w http.ResponseWriter, r *http.Request, state *State) {
	status := state.Progress.Status()

	response := ProgressResponse{
		Message:    status.Phase.String(),
		IsComplete: status.IsComplete,
		Phase:      status.Phase.String(),
		Dataset:    state.Dataset,
		StartedAt:  status.StartedAt,
	}
	switch {
	case status.Err != nil:
		response.Message = "Failed"
		response.Error = status.Err.Error()
	case status.Phase != pipeline.Idle && !status.IsComplete:
		response.Message = "In Progress"
	}
	writeJSON(w, http.StatusOK, response)
}

// Server route to list stored runs, most recent first
func handleApiRuns(w http.ResponseWriter, r *http.Request, state *State) {
	if state.History == nil {
		writeJSON(w, http.StatusOK, RunsResponse{Message: "Run history is disabled", Data: []store.Run{}})
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid limit"})
			return
		}
		limit = n
	}

	runs, err := state.History.ListRuns(r.Context(), limit)
	if err != nil {
		log.Println(util.TerminalRed, err, util.TerminalReset)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Unable to read run history"})
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, RunsResponse{Message: "Stored runs", Data: runs})
}

// Route handler
func handleRequests(state *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println(r.Method, r.URL.Path)
		switch {
		case r.Method == "GET" && r.URL.Path == "/api/report":
			handleApiReport(w, r, state)
		case r.Method == "GET" && r.URL.Path == "/api/mislabeled":
			handleApiMislabeled(w, r, state)
		case r.Method == "GET" && r.URL.Path == "/api/progress":
			handleApiProgress(w, r, state)
		case r.Method == "GET" && r.URL.Path == "/api/runs":
			handleApiRuns(w, r, state)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "404 Not Found")
		}
	}
}

func Serve(addr string, state *State) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleRequests(state))
	log.Println(util.TerminalCyan+"Listening on "+addr+"..."+util.TerminalReset)
	return http.ListenAndServe(addr, mux)
}
