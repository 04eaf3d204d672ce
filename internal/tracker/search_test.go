package tracker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyaki-up/tracker/internal/tracker"
)

type searchFixture struct {
	svc      *tracker.Service
	p1, p2   *tracker.Project
	bugOne   *tracker.Issue
	taskOne  *tracker.Issue
	bugTwo   *tracker.Issue
	label    *tracker.Label
	assignee *tracker.User
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	ctx := context.Background()
	svc := tracker.NewService(newMemStore())

	p1, err := svc.CreateProject(ctx, "apollo", "")
	require.NoError(t, err)
	p2, err := svc.CreateProject(ctx, "gemini", "")
	require.NoError(t, err)

	s1, err := svc.CreateSprint(ctx, &tracker.Sprint{Name: "s1", ProjectID: p1.ID})
	require.NoError(t, err)
	s2, err := svc.CreateSprint(ctx, &tracker.Sprint{Name: "s1", ProjectID: p2.ID})
	require.NoError(t, err)

	assignee, err := svc.CreateUser(ctx, "ada", true)
	require.NoError(t, err)
	_, err = svc.AddUserToProject(ctx, assignee.ID, p1.ID)
	require.NoError(t, err)

	bugOne, err := svc.CreateIssue(ctx, "telemetry drop", "radio", tracker.TypeBug, p1.ID, s1.ID)
	require.NoError(t, err)
	taskOne, err := svc.CreateIssue(ctx, "write runbook", "docs", tracker.TypeTask, p1.ID, s1.ID)
	require.NoError(t, err)
	bugTwo, err := svc.CreateIssue(ctx, "thruster stuck", "hardware", tracker.TypeBug, p2.ID, s2.ID)
	require.NoError(t, err)

	label, err := svc.CreateLabel(ctx, "urgent")
	require.NoError(t, err)
	_, err = svc.AddLabel(ctx, bugOne.ID, label.ID)
	require.NoError(t, err)

	bugOne, err = svc.AssignIssue(ctx, bugOne.ID, p1.ID, assignee.ID)
	require.NoError(t, err)

	return &searchFixture{svc: svc, p1: p1, p2: p2, bugOne: bugOne, taskOne: taskOne, bugTwo: bugTwo, label: label, assignee: assignee}
}

func issueIDs(issues []tracker.Issue) []int64 {
	out := make([]int64, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.ID)
	}
	return out
}

func TestSearchAnd(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	t.Run("single filter", func(t *testing.T) {
		got, err := f.svc.Search(ctx, tracker.LogicAnd, tracker.SearchFilter{Project: &f.p1.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{f.bugOne.ID, f.taskOne.ID}, issueIDs(got))
	})

	t.Run("filters intersect", func(t *testing.T) {
		bug := tracker.TypeBug
		got, err := f.svc.Search(ctx, tracker.LogicAnd, tracker.SearchFilter{Project: &f.p1.ID, Type: &bug})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.bugOne.ID}, issueIDs(got))
	})

	t.Run("label filter", func(t *testing.T) {
		got, err := f.svc.Search(ctx, tracker.LogicAnd, tracker.SearchFilter{Label: &f.label.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.bugOne.ID}, issueIDs(got))
	})

	t.Run("assignee filter skips unassigned", func(t *testing.T) {
		got, err := f.svc.Search(ctx, tracker.LogicAnd, tracker.SearchFilter{Assignee: &f.assignee.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.bugOne.ID}, issueIDs(got))
	})

	t.Run("no filters matches everything", func(t *testing.T) {
		got, err := f.svc.Search(ctx, tracker.LogicAnd, tracker.SearchFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestSearchOr(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	t.Run("union of filters", func(t *testing.T) {
		bug := tracker.TypeBug
		got, err := f.svc.Search(ctx, tracker.LogicOr, tracker.SearchFilter{Type: &bug, Project: &f.p1.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{f.bugOne.ID, f.taskOne.ID, f.bugTwo.ID}, issueIDs(got))
	})

	t.Run("desc filter", func(t *testing.T) {
		desc := "hardware"
		got, err := f.svc.Search(ctx, tracker.LogicOr, tracker.SearchFilter{Desc: &desc})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.bugTwo.ID}, issueIDs(got))
	})

	// Absent filters impose nothing; with no filters at all nothing can
	// match.
	t.Run("no filters matches nothing", func(t *testing.T) {
		got, err := f.svc.Search(ctx, tracker.LogicOr, tracker.SearchFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSearchInvalidLogic(t *testing.T) {
	f := newSearchFixture(t)

	_, err := f.svc.Search(context.Background(), "bogus", tracker.SearchFilter{})
	require.ErrorIs(t, err, tracker.ErrInvalidLogic)
	assert.Contains(t, err.Error(), `"bogus"`)
	assert.Contains(t, err.Error(), "[and or]")
}
