// Package api exposes the tracker engine over HTTP. Handlers stay thin:
// they parse the request, call the service, and map engine errors to
// status codes.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/satyaki-up/tracker/internal/tracker"
)

type Server struct {
	svc *tracker.Service
	log *slog.Logger
}

func NewServer(svc *tracker.Service, log *slog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /projects/{$}", s.handleListProjects)
	mux.HandleFunc("POST /projects/{$}", s.handleCreateProject)
	mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	mux.HandleFunc("DELETE /projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("GET /projects/{id}/issues", s.handleProjectIssues)
	mux.HandleFunc("PATCH /projects/{id}/issues", s.handleMoveIssues)
	mux.HandleFunc("PATCH /projects/{pid}/issues/{iid}/assignee", s.handleAssignIssue)
	mux.HandleFunc("PATCH /projects/{pid}/issues/{iid}/watcher", s.handleUpdateWatcher)
	mux.HandleFunc("GET /projects/{pid}/issues/{iid}/comments", s.handleIssueComments)
	mux.HandleFunc("POST /projects/{pid}/issues/{iid}/comments", s.handleAddComment)

	mux.HandleFunc("GET /issues/{$}", s.handleListIssues)
	mux.HandleFunc("POST /issues/{$}", s.handleCreateIssue)
	mux.HandleFunc("GET /issues/search", s.handleSearchIssues)
	mux.HandleFunc("GET /issues/{id}", s.handleGetIssue)
	mux.HandleFunc("DELETE /issues/{id}", s.handleDeleteIssue)
	mux.HandleFunc("PATCH /issues/{id}/label", s.handleAddLabel)
	mux.HandleFunc("PATCH /issues/{id}/status", s.handleUpdateStatus)

	mux.HandleFunc("GET /users/{$}", s.handleListUsers)
	mux.HandleFunc("POST /users/{$}", s.handleCreateUser)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("GET /users/{id}/issues", s.handleAssignedIssues)
	mux.HandleFunc("POST /users/{id}/projects", s.handleAddMembership)

	mux.HandleFunc("GET /sprints/{$}", s.handleListSprints)
	mux.HandleFunc("POST /sprints/{$}", s.handleCreateSprint)
	mux.HandleFunc("GET /sprints/{id}", s.handleGetSprint)

	mux.HandleFunc("GET /labels/{$}", s.handleListLabels)
	mux.HandleFunc("POST /labels/{$}", s.handleCreateLabel)

	return s.logRequests(mux)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		requestLogger(r.Context(), s.log).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// The engine never sees HTTP; this is the single place its error kinds are
// mapped to status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrInvalidInput),
		errors.Is(err, tracker.ErrTerminalStatus),
		errors.Is(err, tracker.ErrInvalidTransition),
		errors.Is(err, tracker.ErrIneligible),
		errors.Is(err, tracker.ErrWatcherConflict),
		errors.Is(err, tracker.ErrNotAWatcher),
		errors.Is(err, tracker.ErrUnknownAction),
		errors.Is(err, tracker.ErrInvalidLogic):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(field string) error {
	return &requestError{field: field}
}

type requestError struct {
	field string
}

func (e *requestError) Error() string {
	return "invalid input: malformed " + e.field
}

func (e *requestError) Is(target error) bool {
	return target == tracker.ErrInvalidInput
}
