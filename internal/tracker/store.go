package tracker

import "context"

// Store is the persistence boundary for the engine. Implementations must
// return errors wrapping ErrNotFound (via NotFoundf) for missing ids and
// ErrConflict for uniqueness violations.
//
// Single-entity writes are atomic; the engine does not require cross-entity
// transactions, so an operation touching several issues may be partially
// applied if the store fails mid-way.
type Store interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	// DeleteProject cascades to the project's sprints and issues.
	DeleteProject(ctx context.Context, id int64) error

	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	AddUserToProject(ctx context.Context, userID, projectID int64) error

	CreateSprint(ctx context.Context, sp *Sprint) error
	GetSprint(ctx context.Context, id int64) (*Sprint, error)
	ListSprints(ctx context.Context) ([]Sprint, error)

	CreateLabel(ctx context.Context, l *Label) error
	GetLabel(ctx context.Context, id int64) (*Label, error)
	ListLabels(ctx context.Context) ([]Label, error)

	CreateIssue(ctx context.Context, is *Issue) error
	GetIssue(ctx context.Context, id int64) (*Issue, error)
	// UpdateIssue persists scalar fields and the label/watcher sets.
	UpdateIssue(ctx context.Context, is *Issue) error
	ListIssues(ctx context.Context) ([]Issue, error)
	// ListProjectIssues and ListAssignedIssues return most recently created
	// issues first.
	ListProjectIssues(ctx context.Context, projectID int64) ([]Issue, error)
	ListAssignedIssues(ctx context.Context, userID int64) ([]Issue, error)
	// ListSprintIssues returns a project's issues in a sprint in insertion
	// order.
	ListSprintIssues(ctx context.Context, projectID, sprintID int64) ([]Issue, error)
	// DeleteIssue cascades to the issue's comments.
	DeleteIssue(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, c *Comment) error
	// ListIssueComments returns comments in insertion order.
	ListIssueComments(ctx context.Context, issueID int64) ([]Comment, error)
}
