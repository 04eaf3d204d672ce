package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/satyaki-up/tracker/internal/tracker"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"desc"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	p, err := s.svc.CreateProject(r.Context(), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("project id"))
		return
	}
	p, err := s.svc.GetProject(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("project id"))
		return
	}
	if err := s.svc.DeleteProject(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectIssues(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("project id"))
		return
	}
	issues, err := s.svc.ProjectIssues(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleMoveIssues(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("project id"))
		return
	}
	var req struct {
		Issues       []int64 `json:"issues"`
		SourceSprint int64   `json:"source_sprint"`
		TargetSprint int64   `json:"target_sprint"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	moved, err := s.svc.MoveIssues(r.Context(), id, req.Issues, req.SourceSprint, req.TargetSprint)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

func (s *Server) handleAssignIssue(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.writeError(w, r, badRequest("project id"))
		return
	}
	iid, err := pathID(r, "iid")
	if err != nil {
		s.writeError(w, r, badRequest("issue id"))
		return
	}
	var req struct {
		Assignee int64 `json:"assignee"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	issue, err := s.svc.AssignIssue(r.Context(), iid, pid, req.Assignee)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) handleUpdateWatcher(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.writeError(w, r, badRequest("project id"))
		return
	}
	iid, err := pathID(r, "iid")
	if err != nil {
		s.writeError(w, r, badRequest("issue id"))
		return
	}
	var req struct {
		Watcher int64  `json:"watcher"`
		Action  string `json:"action"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	issue, err := s.svc.UpdateWatcher(r.Context(), iid, pid, req.Watcher, req.Action)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) handleIssueComments(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.writeError(w, r, badRequest("project id"))
		return
	}
	iid, err := pathID(r, "iid")
	if err != nil {
		s.writeError(w, r, badRequest("issue id"))
		return
	}
	comments, err := s.svc.IssueComments(r.Context(), pid, iid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r, "pid")
	if err != nil {
		s.writeError(w, r, badRequest("project id"))
		return
	}
	iid, err := pathID(r, "iid")
	if err != nil {
		s.writeError(w, r, badRequest("issue id"))
		return
	}
	var req struct {
		Text string `json:"text"`
		User int64  `json:"user"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	comment, err := s.svc.AddComment(r.Context(), pid, iid, req.Text, req.User)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := s.svc.ListIssues(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Summary     string `json:"summary"`
		Description string `json:"desc"`
		Type        string `json:"type"`
		Project     int64  `json:"project"`
		Sprint      int64  `json:"sprint"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	issue, err := s.svc.CreateIssue(r.Context(), req.Summary, req.Description, tracker.IssueType(req.Type), req.Project, req.Sprint)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, issue)
}

func (s *Server) handleSearchIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter tracker.SearchFilter

	if v := q.Get("project"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, badRequest("project filter"))
			return
		}
		filter.Project = &id
	}
	if v := q.Get("type"); v != "" {
		t := tracker.IssueType(v)
		filter.Type = &t
	}
	if v := q.Get("status"); v != "" {
		st := tracker.Status(v)
		filter.Status = &st
	}
	if v := q.Get("assignee"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, badRequest("assignee filter"))
			return
		}
		filter.Assignee = &id
	}
	if v := q.Get("label"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, badRequest("label filter"))
			return
		}
		filter.Label = &id
	}
	if v := q.Get("desc"); v != "" {
		filter.Desc = &v
	}

	issues, err := s.svc.Search(r.Context(), q.Get("logic"), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleGetIssue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("issue id"))
		return
	}
	issue, err := s.svc.GetIssue(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("issue id"))
		return
	}
	if err := s.svc.DeleteIssue(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddLabel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("issue id"))
		return
	}
	var req struct {
		Label int64 `json:"label"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	issue, err := s.svc.AddLabel(r.Context(), id, req.Label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("issue id"))
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	issue, err := s.svc.UpdateStatus(r.Context(), id, tracker.Status(req.Status))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Active bool   `json:"active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	u, err := s.svc.CreateUser(r.Context(), req.Name, req.Active)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("user id"))
		return
	}
	u, err := s.svc.GetUser(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleAssignedIssues(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("user id"))
		return
	}
	issues, err := s.svc.AssignedIssues(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleAddMembership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("user id"))
		return
	}
	var req struct {
		Project int64 `json:"project"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	u, err := s.svc.AddUserToProject(r.Context(), id, req.Project)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListSprints(w http.ResponseWriter, r *http.Request) {
	sprints, err := s.svc.ListSprints(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sprints)
}

func (s *Server) handleCreateSprint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string     `json:"name"`
		Project   int64      `json:"project"`
		StartDate *time.Time `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	sp, err := s.svc.CreateSprint(r.Context(), &tracker.Sprint{
		Name:      req.Name,
		ProjectID: req.Project,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sp)
}

func (s *Server) handleGetSprint(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, badRequest("sprint id"))
		return
	}
	sp, err := s.svc.GetSprint(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := s.svc.ListLabels(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, badRequest("body"))
		return
	}
	l, err := s.svc.CreateLabel(r.Context(), req.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}
