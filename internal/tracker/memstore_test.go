package tracker_test

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/satyaki-up/tracker/internal/tracker"
)

// memStore is an in-memory tracker.Store for unit tests. Ids are assigned
// sequentially and creation timestamps strictly increase with insertion
// order.
type memStore struct {
	lastID   int64
	clock    time.Time
	projects map[int64]tracker.Project
	users    map[int64]tracker.User
	sprints  map[int64]tracker.Sprint
	labels   map[int64]tracker.Label
	issues   map[int64]tracker.Issue
	comments map[int64]tracker.Comment

	issueOrder   []int64
	commentOrder []int64
}

var _ tracker.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		projects: map[int64]tracker.Project{},
		users:    map[int64]tracker.User{},
		sprints:  map[int64]tracker.Sprint{},
		labels:   map[int64]tracker.Label{},
		issues:   map[int64]tracker.Issue{},
		comments: map[int64]tracker.Comment{},
	}
}

func (m *memStore) nextID() int64 {
	m.lastID++
	return m.lastID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) CreateProject(_ context.Context, p *tracker.Project) error {
	p.ID = m.nextID()
	p.CreatedAt = m.tick()
	m.projects[p.ID] = *p
	return nil
}

func (m *memStore) GetProject(_ context.Context, id int64) (*tracker.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, tracker.NotFoundf("project", id)
	}
	return &p, nil
}

func (m *memStore) ListProjects(_ context.Context) ([]tracker.Project, error) {
	out := make([]tracker.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeleteProject(_ context.Context, id int64) error {
	if _, ok := m.projects[id]; !ok {
		return tracker.NotFoundf("project", id)
	}
	delete(m.projects, id)
	for sid, sp := range m.sprints {
		if sp.ProjectID == id {
			delete(m.sprints, sid)
		}
	}
	for iid, is := range m.issues {
		if is.ProjectID == id {
			m.removeIssue(iid)
		}
	}
	return nil
}

func (m *memStore) CreateUser(_ context.Context, u *tracker.User) error {
	u.ID = m.nextID()
	if u.Projects == nil {
		u.Projects = []int64{}
	}
	m.users[u.ID] = cloneUser(*u)
	return nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (*tracker.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, tracker.NotFoundf("user", id)
	}
	u = cloneUser(u)
	return &u, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]tracker.User, error) {
	out := make([]tracker.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) AddUserToProject(_ context.Context, userID, projectID int64) error {
	u, ok := m.users[userID]
	if !ok {
		return tracker.NotFoundf("user", userID)
	}
	if !u.MemberOf(projectID) {
		u.Projects = append(u.Projects, projectID)
		m.users[userID] = u
	}
	return nil
}

func (m *memStore) CreateSprint(_ context.Context, sp *tracker.Sprint) error {
	for _, existing := range m.sprints {
		if existing.ProjectID == sp.ProjectID && existing.Name == sp.Name {
			return tracker.ErrConflict
		}
	}
	sp.ID = m.nextID()
	m.sprints[sp.ID] = *sp
	return nil
}

func (m *memStore) GetSprint(_ context.Context, id int64) (*tracker.Sprint, error) {
	sp, ok := m.sprints[id]
	if !ok {
		return nil, tracker.NotFoundf("sprint", id)
	}
	return &sp, nil
}

func (m *memStore) ListSprints(_ context.Context) ([]tracker.Sprint, error) {
	out := make([]tracker.Sprint, 0, len(m.sprints))
	for _, sp := range m.sprints {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateLabel(_ context.Context, l *tracker.Label) error {
	l.ID = m.nextID()
	m.labels[l.ID] = *l
	return nil
}

func (m *memStore) GetLabel(_ context.Context, id int64) (*tracker.Label, error) {
	l, ok := m.labels[id]
	if !ok {
		return nil, tracker.NotFoundf("label", id)
	}
	return &l, nil
}

func (m *memStore) ListLabels(_ context.Context) ([]tracker.Label, error) {
	out := make([]tracker.Label, 0, len(m.labels))
	for _, l := range m.labels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateIssue(_ context.Context, is *tracker.Issue) error {
	for _, existing := range m.issues {
		if existing.ProjectID == is.ProjectID && existing.Summary == is.Summary {
			return tracker.ErrConflict
		}
	}
	is.ID = m.nextID()
	is.CreatedAt = m.tick()
	if is.Labels == nil {
		is.Labels = []int64{}
	}
	if is.Watchers == nil {
		is.Watchers = []int64{}
	}
	m.issues[is.ID] = cloneIssue(*is)
	m.issueOrder = append(m.issueOrder, is.ID)
	return nil
}

func (m *memStore) GetIssue(_ context.Context, id int64) (*tracker.Issue, error) {
	is, ok := m.issues[id]
	if !ok {
		return nil, tracker.NotFoundf("issue", id)
	}
	is = cloneIssue(is)
	return &is, nil
}

func (m *memStore) UpdateIssue(_ context.Context, is *tracker.Issue) error {
	if _, ok := m.issues[is.ID]; !ok {
		return tracker.NotFoundf("issue", is.ID)
	}
	m.issues[is.ID] = cloneIssue(*is)
	return nil
}

func (m *memStore) ListIssues(_ context.Context) ([]tracker.Issue, error) {
	out := make([]tracker.Issue, 0, len(m.issueOrder))
	for _, id := range m.issueOrder {
		out = append(out, cloneIssue(m.issues[id]))
	}
	return out, nil
}

func (m *memStore) ListProjectIssues(_ context.Context, projectID int64) ([]tracker.Issue, error) {
	var out []tracker.Issue
	for _, id := range m.issueOrder {
		if is := m.issues[id]; is.ProjectID == projectID {
			out = append(out, cloneIssue(is))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) ListAssignedIssues(_ context.Context, userID int64) ([]tracker.Issue, error) {
	var out []tracker.Issue
	for _, id := range m.issueOrder {
		is := m.issues[id]
		if is.AssigneeID != nil && *is.AssigneeID == userID {
			out = append(out, cloneIssue(is))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) ListSprintIssues(_ context.Context, projectID, sprintID int64) ([]tracker.Issue, error) {
	var out []tracker.Issue
	for _, id := range m.issueOrder {
		is := m.issues[id]
		if is.ProjectID == projectID && is.SprintID == sprintID {
			out = append(out, cloneIssue(is))
		}
	}
	return out, nil
}

func (m *memStore) DeleteIssue(_ context.Context, id int64) error {
	if _, ok := m.issues[id]; !ok {
		return tracker.NotFoundf("issue", id)
	}
	m.removeIssue(id)
	return nil
}

func (m *memStore) removeIssue(id int64) {
	delete(m.issues, id)
	m.issueOrder = slices.DeleteFunc(m.issueOrder, func(v int64) bool { return v == id })
	for cid, c := range m.comments {
		if c.IssueID == id {
			delete(m.comments, cid)
			m.commentOrder = slices.DeleteFunc(m.commentOrder, func(v int64) bool { return v == cid })
		}
	}
}

func (m *memStore) CreateComment(_ context.Context, c *tracker.Comment) error {
	c.ID = m.nextID()
	m.comments[c.ID] = *c
	m.commentOrder = append(m.commentOrder, c.ID)
	return nil
}

func (m *memStore) ListIssueComments(_ context.Context, issueID int64) ([]tracker.Comment, error) {
	out := []tracker.Comment{}
	for _, id := range m.commentOrder {
		if c := m.comments[id]; c.IssueID == issueID {
			out = append(out, c)
		}
	}
	return out, nil
}

func cloneUser(u tracker.User) tracker.User {
	u.Projects = slices.Clone(u.Projects)
	return u
}

func cloneIssue(is tracker.Issue) tracker.Issue {
	is.Labels = slices.Clone(is.Labels)
	is.Watchers = slices.Clone(is.Watchers)
	return is
}
