package ghclient

import "time"

// MaxPerPage is the largest page size GitHub accepts.
const MaxPerPage = 100

// Page selects one page of a list call.
type Page struct {
	Page    int
	PerPage int
}

// normalize applies the defaults page=1, per_page=30 and caps per_page.
func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 30
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// ListRepositoriesOptions filters the authenticated user's repositories.
type ListRepositoriesOptions struct {
	Visibility string // all, public, private
	Type       string // all, owner, member
	Sort       string // created, updated, pushed, full_name
	Direction  string // asc, desc
	Page
}

// ListIssuesOptions filters issues of a repository.
type ListIssuesOptions struct {
	State    string
	Labels   []string
	Assignee string
	Page
}

// ListPullRequestsOptions filters pull requests of a repository.
type ListPullRequestsOptions struct {
	State string
	Head  string
	Base  string
	Page
}

// ListBranchesOptions filters branches of a repository.
type ListBranchesOptions struct {
	ProtectedOnly bool
	Page
}

// ListCommitsOptions filters commits of a repository.
type ListCommitsOptions struct {
	SHA    string
	Path   string
	Author string
	Since  time.Time
	Until  time.Time
	Page
}

// SearchRepositoriesOptions controls repository search ordering.
type SearchRepositoriesOptions struct {
	Sort  string
	Order string
	Page
}

// CreateIssueRequest describes a new issue.
type CreateIssueRequest struct {
	Title     string
	Body      string
	Labels    []string
	Assignees []string
}

// CreatePullRequestRequest describes a new pull request.
type CreatePullRequestRequest struct {
	Title string
	Head  string
	Base  string
	Body  string
	Draft bool
}

// MergePullRequestRequest controls how a pull request is merged.
type MergePullRequestRequest struct {
	Method        string // merge, squash, rebase
	CommitTitle   string
	CommitMessage string
}

// UpdatePullRequestRequest lists the fields to change. Empty strings leave a
// field as is; a non-nil Body is sent even when empty, clearing the
// description.
type UpdatePullRequestRequest struct {
	Title string
	Body  *string
	State string
	Base  string
}

// CreateReviewRequest describes a review to submit.
type CreateReviewRequest struct {
	Event string // APPROVE, REQUEST_CHANGES, COMMENT
	Body  string
}
