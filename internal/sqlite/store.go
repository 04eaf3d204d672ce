package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/satyaki-up/tracker/internal/tracker"
)

const timeLayout = "2006-01-02 15:04:05"

// Store implements tracker.Store on a sqlite database.
type Store struct {
	db *sql.DB
}

var _ tracker.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func parseTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, value, time.UTC)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}

func (s *Store) CreateProject(ctx context.Context, p *tracker.Project) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects(name, desc) VALUES (?, ?)`,
		p.Name, p.Description)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	created, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (*tracker.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, desc, creation_date FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tracker.NotFoundf("project", id)
		}
		return nil, err
	}
	return p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]tracker.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, desc, creation_date FROM projects ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracker.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tracker.NotFoundf("project", id)
	}
	return nil
}

func scanProject(row scanner) (*tracker.Project, error) {
	var p tracker.Project
	var created string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &created); err != nil {
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("parse project %d creation_date: %w", p.ID, err)
	}
	p.CreatedAt = t
	return &p, nil
}

func (s *Store) CreateUser(ctx context.Context, u *tracker.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users(name, active) VALUES (?, ?)`, u.Name, u.Active)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	if u.Projects == nil {
		u.Projects = []int64{}
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*tracker.User, error) {
	var u tracker.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, active FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tracker.NotFoundf("user", id)
		}
		return nil, err
	}
	u.Projects, err = s.userProjects(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]tracker.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, active FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracker.User
	for rows.Next() {
		var u tracker.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Active); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Projects, err = s.userProjects(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) AddUserToProject(ctx context.Context, userID, projectID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_projects(user_id, project_id) VALUES (?, ?)`,
		userID, projectID)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (s *Store) userProjects(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id FROM user_projects WHERE user_id = ? ORDER BY rowid ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (s *Store) CreateSprint(ctx context.Context, sp *tracker.Sprint) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sprints(name, start_date, end_date, project_id) VALUES (?, ?, ?, ?)`,
		sp.Name, formatTimePtr(sp.StartDate), formatTimePtr(sp.EndDate), sp.ProjectID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sprint %q already exists in project %d", tracker.ErrConflict, sp.Name, sp.ProjectID)
		}
		return fmt.Errorf("insert sprint: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert sprint: %w", err)
	}
	sp.ID = id
	return nil
}

func (s *Store) GetSprint(ctx context.Context, id int64) (*tracker.Sprint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date, project_id FROM sprints WHERE id = ?`, id)
	sp, err := scanSprint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tracker.NotFoundf("sprint", id)
		}
		return nil, err
	}
	return sp, nil
}

func (s *Store) ListSprints(ctx context.Context) ([]tracker.Sprint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, start_date, end_date, project_id FROM sprints ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracker.Sprint
	for rows.Next() {
		sp, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sp)
	}
	return out, rows.Err()
}

func scanSprint(row scanner) (*tracker.Sprint, error) {
	var sp tracker.Sprint
	var start, end sql.NullString
	if err := row.Scan(&sp.ID, &sp.Name, &start, &end, &sp.ProjectID); err != nil {
		return nil, err
	}
	var err error
	sp.StartDate, err = parseTimePtr(start)
	if err != nil {
		return nil, fmt.Errorf("parse sprint %d start_date: %w", sp.ID, err)
	}
	sp.EndDate, err = parseTimePtr(end)
	if err != nil {
		return nil, fmt.Errorf("parse sprint %d end_date: %w", sp.ID, err)
	}
	return &sp, nil
}

func (s *Store) CreateLabel(ctx context.Context, l *tracker.Label) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO labels(value) VALUES (?)`, l.Value)
	if err != nil {
		return fmt.Errorf("insert label: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert label: %w", err)
	}
	l.ID = id
	return nil
}

func (s *Store) GetLabel(ctx context.Context, id int64) (*tracker.Label, error) {
	var l tracker.Label
	err := s.db.QueryRowContext(ctx,
		`SELECT id, value FROM labels WHERE id = ?`, id).Scan(&l.ID, &l.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tracker.NotFoundf("label", id)
		}
		return nil, err
	}
	return &l, nil
}

func (s *Store) ListLabels(ctx context.Context) ([]tracker.Label, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, value FROM labels ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracker.Label
	for rows.Next() {
		var l tracker.Label
		if err := rows.Scan(&l.ID, &l.Value); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) CreateIssue(ctx context.Context, is *tracker.Issue) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO issues(summary, desc, type, status, project_id, sprint_id, assignee_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		is.Summary, is.Description, string(is.Type), string(is.Status),
		is.ProjectID, is.SprintID, is.AssigneeID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: issue %q already exists in project %d", tracker.ErrConflict, is.Summary, is.ProjectID)
		}
		return fmt.Errorf("insert issue: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	created, err := s.GetIssue(ctx, id)
	if err != nil {
		return err
	}
	*is = *created
	return nil
}

func (s *Store) GetIssue(ctx context.Context, id int64) (*tracker.Issue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, summary, desc, type, status, creation_date, project_id, sprint_id, assignee_id
		FROM issues WHERE id = ?`, id)
	is, err := scanIssue(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tracker.NotFoundf("issue", id)
		}
		return nil, err
	}
	if err := s.loadIssueRelations(ctx, is); err != nil {
		return nil, err
	}
	return is, nil
}

// UpdateIssue rewrites the issue's scalar fields and its label and watcher
// sets in one transaction.
func (s *Store) UpdateIssue(ctx context.Context, is *tracker.Issue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE issues
		SET summary = ?, desc = ?, type = ?, status = ?, sprint_id = ?, assignee_id = ?
		WHERE id = ?`,
		is.Summary, is.Description, string(is.Type), string(is.Status),
		is.SprintID, is.AssigneeID, is.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: issue %q already exists in project %d", tracker.ErrConflict, is.Summary, is.ProjectID)
		}
		return fmt.Errorf("update issue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tracker.NotFoundf("issue", is.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM issue_labels WHERE issue_id = ?`, is.ID); err != nil {
		return fmt.Errorf("update issue labels: %w", err)
	}
	for _, labelID := range is.Labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO issue_labels(issue_id, label_id) VALUES (?, ?)`, is.ID, labelID); err != nil {
			return fmt.Errorf("update issue labels: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM issue_watchers WHERE issue_id = ?`, is.ID); err != nil {
		return fmt.Errorf("update issue watchers: %w", err)
	}
	for _, userID := range is.Watchers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO issue_watchers(issue_id, user_id) VALUES (?, ?)`, is.ID, userID); err != nil {
			return fmt.Errorf("update issue watchers: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) ListIssues(ctx context.Context) ([]tracker.Issue, error) {
	return s.queryIssues(ctx, `
		SELECT id, summary, desc, type, status, creation_date, project_id, sprint_id, assignee_id
		FROM issues ORDER BY id ASC`)
}

func (s *Store) ListProjectIssues(ctx context.Context, projectID int64) ([]tracker.Issue, error) {
	return s.queryIssues(ctx, `
		SELECT id, summary, desc, type, status, creation_date, project_id, sprint_id, assignee_id
		FROM issues WHERE project_id = ?
		ORDER BY creation_date DESC, id DESC`, projectID)
}

func (s *Store) ListAssignedIssues(ctx context.Context, userID int64) ([]tracker.Issue, error) {
	return s.queryIssues(ctx, `
		SELECT id, summary, desc, type, status, creation_date, project_id, sprint_id, assignee_id
		FROM issues WHERE assignee_id = ?
		ORDER BY creation_date DESC, id DESC`, userID)
}

func (s *Store) ListSprintIssues(ctx context.Context, projectID, sprintID int64) ([]tracker.Issue, error) {
	return s.queryIssues(ctx, `
		SELECT id, summary, desc, type, status, creation_date, project_id, sprint_id, assignee_id
		FROM issues WHERE project_id = ? AND sprint_id = ?
		ORDER BY id ASC`, projectID, sprintID)
}

func (s *Store) DeleteIssue(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tracker.NotFoundf("issue", id)
	}
	return nil
}

func (s *Store) queryIssues(ctx context.Context, query string, args ...any) ([]tracker.Issue, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracker.Issue
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *is)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadIssueRelations(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanIssue(row scanner) (*tracker.Issue, error) {
	var is tracker.Issue
	var created string
	var assignee sql.NullInt64
	if err := row.Scan(
		&is.ID,
		&is.Summary,
		&is.Description,
		&is.Type,
		&is.Status,
		&created,
		&is.ProjectID,
		&is.SprintID,
		&assignee,
	); err != nil {
		return nil, err
	}
	if assignee.Valid {
		v := assignee.Int64
		is.AssigneeID = &v
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("parse issue %d creation_date: %w", is.ID, err)
	}
	is.CreatedAt = t
	return &is, nil
}

func (s *Store) loadIssueRelations(ctx context.Context, is *tracker.Issue) error {
	labels, err := s.relationIDs(ctx,
		`SELECT label_id FROM issue_labels WHERE issue_id = ? ORDER BY rowid ASC`, is.ID)
	if err != nil {
		return fmt.Errorf("load issue %d labels: %w", is.ID, err)
	}
	watchers, err := s.relationIDs(ctx,
		`SELECT user_id FROM issue_watchers WHERE issue_id = ? ORDER BY rowid ASC`, is.ID)
	if err != nil {
		return fmt.Errorf("load issue %d watchers: %w", is.ID, err)
	}
	is.Labels = labels
	is.Watchers = watchers
	return nil
}

func (s *Store) relationIDs(ctx context.Context, query string, id int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) CreateComment(ctx context.Context, c *tracker.Comment) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO comments(text, user_id, issue_id) VALUES (?, ?, ?)`,
		c.Text, c.UserID, c.IssueID)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	c.ID = id
	return nil
}

func (s *Store) ListIssueComments(ctx context.Context, issueID int64) ([]tracker.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, user_id, issue_id FROM comments WHERE issue_id = ? ORDER BY id ASC`, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []tracker.Comment{}
	for rows.Next() {
		var c tracker.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.UserID, &c.IssueID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTimePtr(v sql.NullString) (*time.Time, error) {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
