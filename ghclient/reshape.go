package ghclient

import (
	"time"

	"github.com/google/go-github/v66/github"
)

func reshapeRepository(r *github.Repository, detailed bool) Repository {
	out := Repository{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Owner:         optString(r.GetOwner().GetLogin()),
		Description:   r.GetDescription(),
		Private:       r.GetPrivate(),
		Visibility:    r.GetVisibility(),
		Language:      r.GetLanguage(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		DefaultBranch: r.GetDefaultBranch(),
		CreatedAt:     timeOf(r.CreatedAt),
		UpdatedAt:     timeOf(r.UpdatedAt),
		PushedAt:      timeOf(r.PushedAt),
		HTMLURL:       r.GetHTMLURL(),
		CloneURL:      r.GetCloneURL(),
		SSHURL:        r.GetSSHURL(),
	}
	if detailed {
		watchers := r.GetWatchersCount()
		out.Watchers = &watchers
		out.Topics = r.Topics
		if out.Topics == nil {
			out.Topics = []string{}
		}
		out.License = optString(r.GetLicense().GetName())
		out.Archived = github.Bool(r.GetArchived())
		out.Disabled = github.Bool(r.GetDisabled())
	}
	return out
}

func reshapeSearchRepository(r *github.Repository) Repository {
	out := reshapeRepository(r, false)
	out.Visibility = ""
	out.DefaultBranch = ""
	out.PushedAt = nil
	out.SSHURL = ""
	return out
}

func reshapeIssue(i *github.Issue) Issue {
	out := Issue{
		Number:      i.GetNumber(),
		Title:       i.GetTitle(),
		Body:        i.GetBody(),
		State:       i.GetState(),
		User:        optString(i.GetUser().GetLogin()),
		Labels:      make([]Label, 0, len(i.Labels)),
		Assignees:   make([]string, 0, len(i.Assignees)),
		Comments:    i.GetComments(),
		CreatedAt:   timeOf(i.CreatedAt),
		UpdatedAt:   timeOf(i.UpdatedAt),
		ClosedAt:    timeOf(i.ClosedAt),
		HTMLURL:     i.GetHTMLURL(),
		PullRequest: i.IsPullRequest(),
	}
	for _, l := range i.Labels {
		out.Labels = append(out.Labels, Label{Name: l.GetName(), Color: l.GetColor()})
	}
	for _, a := range i.Assignees {
		out.Assignees = append(out.Assignees, a.GetLogin())
	}
	return out
}

func reshapePullRequest(pr *github.PullRequest) PullRequest {
	return PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		State:     pr.GetState(),
		Draft:     pr.GetDraft(),
		User:      optString(pr.GetUser().GetLogin()),
		Head:      branchRef(pr.GetHead()),
		Base:      branchRef(pr.GetBase()),
		CreatedAt: timeOf(pr.CreatedAt),
		UpdatedAt: timeOf(pr.UpdatedAt),
		ClosedAt:  timeOf(pr.ClosedAt),
		HTMLURL:   pr.GetHTMLURL(),
	}
}

// mergeDetail copies the fields only the single-PR endpoint reports.
func mergeDetail(dst *PullRequest, detail *github.PullRequest) {
	dst.Merged = github.Bool(detail.GetMerged())
	dst.Mergeable = detail.Mergeable
	dst.MergeableState = detail.MergeableState
	dst.Comments = github.Int(detail.GetComments())
	dst.ReviewComments = github.Int(detail.GetReviewComments())
	dst.Commits = github.Int(detail.GetCommits())
	dst.Additions = github.Int(detail.GetAdditions())
	dst.Deletions = github.Int(detail.GetDeletions())
	dst.ChangedFiles = github.Int(detail.GetChangedFiles())
	dst.MergedAt = timeOf(detail.MergedAt)
}

func reshapeReview(r *github.PullRequestReview) Review {
	return Review{
		ID:          r.GetID(),
		State:       r.GetState(),
		Body:        r.GetBody(),
		User:        optString(r.GetUser().GetLogin()),
		SubmittedAt: timeOf(r.SubmittedAt),
		HTMLURL:     r.GetHTMLURL(),
	}
}

func branchRef(b *github.PullRequestBranch) BranchRef {
	return BranchRef{
		Ref:  b.GetRef(),
		SHA:  b.GetSHA(),
		Repo: optString(b.GetRepo().GetFullName()),
	}
}

func timeOf(ts *github.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
