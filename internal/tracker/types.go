package tracker

import "time"

type Status string

const (
	StatusOpen        Status = "open"
	StatusAssigned    Status = "assigned"
	StatusInProgress  Status = "inprogress"
	StatusUnderReview Status = "under review"
	StatusDone        Status = "done"
	StatusClose       Status = "close"
)

type IssueType string

const (
	TypeBug  IssueType = "bug"
	TypeTask IssueType = "task"
)

func IsValidType(t IssueType) bool {
	switch t {
	case TypeBug, TypeTask:
		return true
	default:
		return false
	}
}

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"desc"`
	CreatedAt   time.Time `json:"creation_date"`
}

// User.Projects holds the ids of the projects the user is a member of.
type User struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Active   bool    `json:"active"`
	Projects []int64 `json:"projects"`
}

func (u *User) MemberOf(projectID int64) bool {
	for _, id := range u.Projects {
		if id == projectID {
			return true
		}
	}
	return false
}

type Sprint struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	ProjectID int64      `json:"project"`
}

type Label struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// Issue relation fields carry bare ids; Labels and Watchers are ordered sets.
type Issue struct {
	ID          int64     `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"desc"`
	Type        IssueType `json:"type"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"creation_date"`
	ProjectID   int64     `json:"project"`
	SprintID    int64     `json:"sprint"`
	AssigneeID  *int64    `json:"assignee"`
	Labels      []int64   `json:"labels"`
	Watchers    []int64   `json:"watchers"`
}

func (is *Issue) HasLabel(labelID int64) bool {
	for _, id := range is.Labels {
		if id == labelID {
			return true
		}
	}
	return false
}

func (is *Issue) HasWatcher(userID int64) bool {
	for _, id := range is.Watchers {
		if id == userID {
			return true
		}
	}
	return false
}

type Comment struct {
	ID      int64  `json:"id"`
	Text    string `json:"text"`
	UserID  int64  `json:"user"`
	IssueID int64  `json:"issue"`
}
