package tracker

import "fmt"

// EligibilityError reports why a user may not be assigned to or watch an
// issue in a project. Both violations can hold at once; the message always
// lists the inactive violation before the membership one.
type EligibilityError struct {
	UserName    string
	ProjectName string
	Inactive    bool
	NotMember   bool
}

func (e *EligibilityError) Error() string {
	inactiveMsg := fmt.Sprintf("user %q is marked as inactive", e.UserName)
	memberMsg := fmt.Sprintf("user %q is not a part of project %q", e.UserName, e.ProjectName)
	switch {
	case e.Inactive && e.NotMember:
		return fmt.Sprintf("%v: %s; %s", ErrIneligible, inactiveMsg, memberMsg)
	case e.Inactive:
		return fmt.Sprintf("%v: %s", ErrIneligible, inactiveMsg)
	default:
		return fmt.Sprintf("%v: %s", ErrIneligible, memberMsg)
	}
}

func (e *EligibilityError) Is(target error) bool {
	return target == ErrIneligible
}

// CheckEligibility gates both assignment and watcher changes: the user must
// be active and a member of the issue's project.
func CheckEligibility(user *User, project *Project) error {
	inactive := !user.Active
	notMember := !user.MemberOf(project.ID)
	if !inactive && !notMember {
		return nil
	}
	return &EligibilityError{
		UserName:    user.Name,
		ProjectName: project.Name,
		Inactive:    inactive,
		NotMember:   notMember,
	}
}
