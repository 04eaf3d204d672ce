package tracker

import (
	"context"
	"fmt"
)

// Search logic values.
const (
	LogicAnd = "and"
	LogicOr  = "or"
)

// SearchFilter is a sparse set of exact-match conditions. A nil field
// imposes no constraint.
type SearchFilter struct {
	Project  *int64
	Type     *IssueType
	Status   *Status
	Assignee *int64
	Label    *int64
	Desc     *string
}

// Search filters all issues by the given filter fields. "and" intersects
// the present filters; with none present it returns every issue. "or"
// unions the present filters; with none present it matches nothing.
func (s *Service) Search(ctx context.Context, logic string, f SearchFilter) ([]Issue, error) {
	if logic != LogicAnd && logic != LogicOr {
		return nil, fmt.Errorf("%w: %q is not one of [and or]", ErrInvalidLogic, logic)
	}
	all, err := s.store.ListIssues(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Issue, 0, len(all))
	for i := range all {
		if f.matches(&all[i], logic) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (f SearchFilter) matches(is *Issue, logic string) bool {
	anySet := false
	all := true
	any := false

	apply := func(ok bool) {
		anySet = true
		if ok {
			any = true
		} else {
			all = false
		}
	}

	if f.Project != nil {
		apply(is.ProjectID == *f.Project)
	}
	if f.Type != nil {
		apply(is.Type == *f.Type)
	}
	if f.Status != nil {
		apply(is.Status == *f.Status)
	}
	if f.Assignee != nil {
		apply(is.AssigneeID != nil && *is.AssigneeID == *f.Assignee)
	}
	if f.Label != nil {
		apply(is.HasLabel(*f.Label))
	}
	if f.Desc != nil {
		apply(is.Description == *f.Desc)
	}

	if logic == LogicAnd {
		return all
	}
	return anySet && any
}
