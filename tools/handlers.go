package tools

import (
	"context"

	"github.com/jonwraymond/ghtools/ghclient"
)

// listResponse is the envelope shared by the paginated list tools.
type listResponse[T any] struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Items []T `json:"-"`
	key   string
}

// MarshalJSON names the item array after the listed resource.
func (l listResponse[T]) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []T{}
	}
	return marshalOrdered(
		field{"total", l.Total},
		field{"page", l.Page},
		field{l.key, items},
	)
}

func list[T any](key string, page int, items []T) listResponse[T] {
	return listResponse[T]{Total: len(items), Page: page, Items: items, key: key}
}

type searchResponse struct {
	TotalCount   int                   `json:"total_count"`
	Page         int                   `json:"page"`
	Repositories []ghclient.Repository `json:"repositories"`
}

func (r *Registry) listRepositories(ctx context.Context, a *listRepositoriesArgs) (any, error) {
	repos, err := r.client.ListRepositories(ctx, a.options())
	if err != nil {
		return nil, err
	}
	return list("repositories", a.Page, repos), nil
}

func (r *Registry) getRepository(ctx context.Context, a *repoArgs) (any, error) {
	return r.client.GetRepository(ctx, a.Owner, a.Repo)
}

func (r *Registry) listIssues(ctx context.Context, a *listIssuesArgs) (any, error) {
	issues, err := r.client.ListIssues(ctx, a.Owner, a.Repo, a.options())
	if err != nil {
		return nil, err
	}
	return list("issues", a.Page, issues), nil
}

func (r *Registry) createIssue(ctx context.Context, a *createIssueArgs) (any, error) {
	return r.client.CreateIssue(ctx, a.Owner, a.Repo, a.request())
}

func (r *Registry) listPullRequests(ctx context.Context, a *listPullRequestsArgs) (any, error) {
	prs, err := r.client.ListPullRequests(ctx, a.Owner, a.Repo, a.options())
	if err != nil {
		return nil, err
	}
	return list("pull_requests", a.Page, prs), nil
}

func (r *Registry) getPullRequest(ctx context.Context, a *pullArgs) (any, error) {
	return r.client.GetPullRequest(ctx, a.Owner, a.Repo, a.PullNumber)
}

func (r *Registry) createPullRequest(ctx context.Context, a *createPullRequestArgs) (any, error) {
	return r.client.CreatePullRequest(ctx, a.Owner, a.Repo, a.request())
}

func (r *Registry) updatePullRequest(ctx context.Context, a *updatePullRequestArgs) (any, error) {
	return r.client.UpdatePullRequest(ctx, a.Owner, a.Repo, a.PullNumber, a.request())
}

func (r *Registry) closePullRequest(ctx context.Context, a *pullArgs) (any, error) {
	return r.client.ClosePullRequest(ctx, a.Owner, a.Repo, a.PullNumber)
}

func (r *Registry) mergePullRequest(ctx context.Context, a *mergePullRequestArgs) (any, error) {
	return r.client.MergePullRequest(ctx, a.Owner, a.Repo, a.PullNumber, a.request())
}

type reviewsResponse struct {
	Total   int               `json:"total"`
	Reviews []ghclient.Review `json:"reviews"`
}

func (r *Registry) listReviews(ctx context.Context, a *pullArgs) (any, error) {
	reviews, err := r.client.ListReviews(ctx, a.Owner, a.Repo, a.PullNumber)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []ghclient.Review{}
	}
	return reviewsResponse{Total: len(reviews), Reviews: reviews}, nil
}

func (r *Registry) addReview(ctx context.Context, a *reviewArgs) (any, error) {
	return r.client.CreateReview(ctx, a.Owner, a.Repo, a.PullNumber, a.request())
}

func (r *Registry) listBranches(ctx context.Context, a *listBranchesArgs) (any, error) {
	branches, err := r.client.ListBranches(ctx, a.Owner, a.Repo, ghclient.ListBranchesOptions{
		ProtectedOnly: a.Protected,
		Page:          a.page(),
	})
	if err != nil {
		return nil, err
	}
	return list("branches", a.Page, branches), nil
}

func (r *Registry) listTags(ctx context.Context, a *pagedRepoArgs) (any, error) {
	tags, err := r.client.ListTags(ctx, a.Owner, a.Repo, a.page())
	if err != nil {
		return nil, err
	}
	return list("tags", a.Page, tags), nil
}

func (r *Registry) listReleases(ctx context.Context, a *pagedRepoArgs) (any, error) {
	releases, err := r.client.ListReleases(ctx, a.Owner, a.Repo, a.page())
	if err != nil {
		return nil, err
	}
	return list("releases", a.Page, releases), nil
}

func (r *Registry) listCommits(ctx context.Context, a *listCommitsArgs) (any, error) {
	commits, err := r.client.ListCommits(ctx, a.Owner, a.Repo, a.options())
	if err != nil {
		return nil, err
	}
	return list("commits", a.Page, commits), nil
}

// getFileContent answers with the file or the directory listing, whichever
// the path names.
func (r *Registry) getFileContent(ctx context.Context, a *fileContentArgs) (any, error) {
	c, err := r.client.GetFileContent(ctx, a.Owner, a.Repo, a.Path, a.Ref)
	if err != nil {
		return nil, err
	}
	if c.Directory != nil {
		if c.Directory.Items == nil {
			c.Directory.Items = []ghclient.DirectoryItem{}
		}
		return c.Directory, nil
	}
	return c.File, nil
}

func (r *Registry) searchRepositories(ctx context.Context, a *searchRepositoriesArgs) (any, error) {
	res, err := r.client.SearchRepositories(ctx, a.Query, ghclient.SearchRepositoriesOptions{
		Sort:  a.Sort,
		Order: a.Order,
		Page:  a.page(),
	})
	if err != nil {
		return nil, err
	}
	out := searchResponse{TotalCount: res.TotalCount, Page: a.Page, Repositories: res.Repositories}
	if out.Repositories == nil {
		out.Repositories = []ghclient.Repository{}
	}
	return out, nil
}

func (r *Registry) getUserInfo(ctx context.Context, _ *noArgs) (any, error) {
	return r.client.GetAuthenticatedUser(ctx)
}
