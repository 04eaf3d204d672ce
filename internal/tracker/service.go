package tracker

import (
	"context"
	"fmt"
	"strings"
)

// Watcher actions accepted by UpdateWatcher.
const (
	ActionAdd  = "add"
	ActionMute = "mute"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	p := &Project{Name: name, Description: description}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id int64) (*Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	return s.store.ListProjects(ctx)
}

// DeleteProject removes the project along with its sprints and issues.
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteProject(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, name string, active bool) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: user name is required", ErrInvalidInput)
	}
	u := &User{Name: name, Active: active}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}

// AddUserToProject records project membership; adding an existing member is
// a no-op.
func (s *Service) AddUserToProject(ctx context.Context, userID, projectID int64) (*User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if user.MemberOf(projectID) {
		return user, nil
	}
	if err := s.store.AddUserToProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, userID)
}

func (s *Service) CreateSprint(ctx context.Context, sp *Sprint) (*Sprint, error) {
	sp.Name = strings.TrimSpace(sp.Name)
	if sp.Name == "" {
		return nil, fmt.Errorf("%w: sprint name is required", ErrInvalidInput)
	}
	if _, err := s.store.GetProject(ctx, sp.ProjectID); err != nil {
		return nil, err
	}
	if err := s.store.CreateSprint(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *Service) GetSprint(ctx context.Context, id int64) (*Sprint, error) {
	return s.store.GetSprint(ctx, id)
}

func (s *Service) ListSprints(ctx context.Context) ([]Sprint, error) {
	return s.store.ListSprints(ctx)
}

func (s *Service) CreateLabel(ctx context.Context, value string) (*Label, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: label value is required", ErrInvalidInput)
	}
	l := &Label{Value: value}
	if err := s.store.CreateLabel(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) ListLabels(ctx context.Context) ([]Label, error) {
	return s.store.ListLabels(ctx)
}

// CreateIssue opens a new issue in the given project and sprint. New issues
// start at "open" with no assignee.
func (s *Service) CreateIssue(ctx context.Context, summary, description string, issueType IssueType, projectID, sprintID int64) (*Issue, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: summary is required", ErrInvalidInput)
	}
	if !IsValidType(issueType) {
		return nil, fmt.Errorf("%w: unknown issue type %q", ErrInvalidInput, issueType)
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetSprint(ctx, sprintID); err != nil {
		return nil, err
	}
	is := &Issue{
		Summary:     summary,
		Description: description,
		Type:        issueType,
		Status:      StatusOpen,
		ProjectID:   projectID,
		SprintID:    sprintID,
	}
	if err := s.store.CreateIssue(ctx, is); err != nil {
		return nil, err
	}
	return is, nil
}

func (s *Service) GetIssue(ctx context.Context, id int64) (*Issue, error) {
	return s.store.GetIssue(ctx, id)
}

func (s *Service) ListIssues(ctx context.Context) ([]Issue, error) {
	return s.store.ListIssues(ctx)
}

// ProjectIssues returns a project's issues, most recently created first.
func (s *Service) ProjectIssues(ctx context.Context, projectID int64) ([]Issue, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.ListProjectIssues(ctx, projectID)
}

// AssignedIssues returns the issues assigned to a user, most recently
// created first.
func (s *Service) AssignedIssues(ctx context.Context, userID int64) ([]Issue, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListAssignedIssues(ctx, userID)
}

// AssignIssue sets the issue's assignee after the eligibility gate passes.
func (s *Service) AssignIssue(ctx context.Context, issueID, projectID, userID int64) (*Issue, error) {
	issue, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := CheckEligibility(user, project); err != nil {
		return nil, err
	}
	issue.AssigneeID = &user.ID
	if err := s.store.UpdateIssue(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// AddLabel attaches a label to an issue. Adding a label that is already
// present is a no-op.
func (s *Service) AddLabel(ctx context.Context, issueID, labelID int64) (*Issue, error) {
	issue, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	label, err := s.store.GetLabel(ctx, labelID)
	if err != nil {
		return nil, err
	}
	if issue.HasLabel(label.ID) {
		return issue, nil
	}
	issue.Labels = append(issue.Labels, label.ID)
	if err := s.store.UpdateIssue(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// UpdateStatus advances the issue through the status lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, issueID int64, status Status) (*Issue, error) {
	issue, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(issue.Status, status); err != nil {
		return nil, err
	}
	issue.Status = status
	if err := s.store.UpdateIssue(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// UpdateWatcher adds or mutes a watcher. Eligibility is checked before the
// action is inspected, so an ineligible user fails even a mute request.
func (s *Service) UpdateWatcher(ctx context.Context, issueID, projectID, watcherID int64, action string) (*Issue, error) {
	issue, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	watcher, err := s.store.GetUser(ctx, watcherID)
	if err != nil {
		return nil, err
	}
	if err := CheckEligibility(watcher, project); err != nil {
		return nil, err
	}

	switch action {
	case ActionAdd:
		if issue.AssigneeID != nil && *issue.AssigneeID == watcher.ID {
			return nil, fmt.Errorf("%w: user %q is already the assignee and cannot also watch", ErrWatcherConflict, watcher.Name)
		}
		if issue.HasWatcher(watcher.ID) {
			return issue, nil
		}
		issue.Watchers = append(issue.Watchers, watcher.ID)
	case ActionMute:
		if !issue.HasWatcher(watcher.ID) {
			return nil, fmt.Errorf("%w: user %q is not a watcher of issue %q", ErrNotAWatcher, watcher.Name, issue.Summary)
		}
		kept := issue.Watchers[:0]
		for _, id := range issue.Watchers {
			if id != watcher.ID {
				kept = append(kept, id)
			}
		}
		issue.Watchers = kept
	default:
		return nil, fmt.Errorf("%w: %q is not one of [add mute]", ErrUnknownAction, action)
	}

	if err := s.store.UpdateIssue(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// MoveIssues transfers issues from one sprint to another. Only issues that
// belong to the project, currently sit in the source sprint, and appear in
// issueIDs are moved; non-matching ids are silently skipped. Returns the
// moved issues in selection order.
func (s *Service) MoveIssues(ctx context.Context, projectID int64, issueIDs []int64, sourceSprintID, targetSprintID int64) ([]Issue, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetSprint(ctx, sourceSprintID); err != nil {
		return nil, err
	}
	target, err := s.store.GetSprint(ctx, targetSprintID)
	if err != nil {
		return nil, err
	}

	requested := make(map[int64]bool, len(issueIDs))
	for _, id := range issueIDs {
		requested[id] = true
	}

	candidates, err := s.store.ListSprintIssues(ctx, projectID, sourceSprintID)
	if err != nil {
		return nil, err
	}

	moved := make([]Issue, 0, len(issueIDs))
	for i := range candidates {
		issue := &candidates[i]
		if !requested[issue.ID] {
			continue
		}
		issue.SprintID = target.ID
		if err := s.store.UpdateIssue(ctx, issue); err != nil {
			return nil, err
		}
		moved = append(moved, *issue)
	}
	return moved, nil
}

// AddComment creates a comment on an issue.
func (s *Service) AddComment(ctx context.Context, projectID, issueID int64, text string, userID int64) (*Comment, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	issue, err := s.store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := &Comment{Text: text, UserID: user.ID, IssueID: issue.ID}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// IssueComments returns an issue's comments in insertion order.
func (s *Service) IssueComments(ctx context.Context, projectID, issueID int64) ([]Comment, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetIssue(ctx, issueID); err != nil {
		return nil, err
	}
	return s.store.ListIssueComments(ctx, issueID)
}

// DeleteIssue removes the issue along with its comments.
func (s *Service) DeleteIssue(ctx context.Context, id int64) error {
	if _, err := s.store.GetIssue(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteIssue(ctx, id)
}
