package tools

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/ghtools/ghclient"
)

// fakeClient records calls and answers with canned data. Setting err makes
// every method fail with it.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int
	err   error

	lastRepoOpts   ghclient.ListRepositoriesOptions
	lastIssueOpts  ghclient.ListIssuesOptions
	lastCommitOpts ghclient.ListCommitsOptions
	lastOwnerRepo  [2]string
	lastCreate     ghclient.CreateIssueRequest
	lastCreatePR   ghclient.CreatePullRequestRequest
	lastUpdatePR   ghclient.UpdatePullRequestRequest
	lastMerge      ghclient.MergePullRequestRequest
	lastReview     ghclient.CreateReviewRequest
	lastPath       [2]string

	// dirs lists the paths GetFileContent answers with a directory.
	dirs map[string]bool

	repos []ghclient.Repository
	user  ghclient.User
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		calls: make(map[string]int),
		dirs:  map[string]bool{"docs": true},
		repos: []ghclient.Repository{
			{ID: 1, Name: "hello", FullName: "octo/hello", Language: "Go", Stars: 42, HTMLURL: "https://github.com/octo/hello"},
			{ID: 2, Name: "secret", FullName: "octo/secret", Private: true, Stars: 1},
		},
		user: ghclient.User{Login: "octo", Name: "Octo Cat", PublicRepos: 8, Followers: 3, HTMLURL: "https://github.com/octo"},
	}
}

func (f *fakeClient) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.err
}

func (f *fakeClient) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeClient) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeClient) ListRepositories(_ context.Context, opts ghclient.ListRepositoriesOptions) ([]ghclient.Repository, error) {
	if err := f.record("ListRepositories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastRepoOpts = opts
	f.mu.Unlock()
	return f.repos, nil
}

func (f *fakeClient) GetRepository(_ context.Context, owner, repo string) (*ghclient.Repository, error) {
	if err := f.record("GetRepository"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastOwnerRepo = [2]string{owner, repo}
	f.mu.Unlock()
	r := f.repos[0]
	return &r, nil
}

func (f *fakeClient) ListIssues(_ context.Context, _, _ string, opts ghclient.ListIssuesOptions) ([]ghclient.Issue, error) {
	if err := f.record("ListIssues"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastIssueOpts = opts
	f.mu.Unlock()
	return []ghclient.Issue{{Number: 7, Title: "bug", State: "open"}}, nil
}

func (f *fakeClient) CreateIssue(_ context.Context, _, _ string, req ghclient.CreateIssueRequest) (*ghclient.CreatedIssue, error) {
	if err := f.record("CreateIssue"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastCreate = req
	f.mu.Unlock()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &ghclient.CreatedIssue{Number: 8, Title: req.Title, State: "open", HTMLURL: "https://github.com/octo/hello/issues/8", CreatedAt: &created}, nil
}

func (f *fakeClient) ListPullRequests(_ context.Context, _, _ string, _ ghclient.ListPullRequestsOptions) ([]ghclient.PullRequest, error) {
	if err := f.record("ListPullRequests"); err != nil {
		return nil, err
	}
	return []ghclient.PullRequest{{Number: 3, Title: "feature"}}, nil
}

func (f *fakeClient) GetPullRequest(_ context.Context, _, _ string, number int) (*ghclient.PullRequest, error) {
	if err := f.record("GetPullRequest"); err != nil {
		return nil, err
	}
	return &ghclient.PullRequest{Number: number, Title: "feature"}, nil
}

func (f *fakeClient) CreatePullRequest(_ context.Context, _, _ string, req ghclient.CreatePullRequestRequest) (*ghclient.CreatedPullRequest, error) {
	if err := f.record("CreatePullRequest"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastCreatePR = req
	f.mu.Unlock()
	return &ghclient.CreatedPullRequest{
		Number: 21,
		Title:  req.Title,
		State:  "open",
		Draft:  req.Draft,
		Head:   ghclient.BranchRef{Ref: req.Head, SHA: "aaa"},
		Base:   ghclient.BranchRef{Ref: req.Base, SHA: "bbb"},
	}, nil
}

func (f *fakeClient) UpdatePullRequest(_ context.Context, _, _ string, number int, req ghclient.UpdatePullRequestRequest) (*ghclient.UpdatedPullRequest, error) {
	if err := f.record("UpdatePullRequest"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastUpdatePR = req
	f.mu.Unlock()
	out := &ghclient.UpdatedPullRequest{Number: number, Title: req.Title, State: orDefault(req.State, "open")}
	if req.Body != nil {
		out.Body = *req.Body
	}
	return out, nil
}

func (f *fakeClient) ClosePullRequest(_ context.Context, _, _ string, number int) (*ghclient.ClosedPullRequest, error) {
	if err := f.record("ClosePullRequest"); err != nil {
		return nil, err
	}
	closed := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	return &ghclient.ClosedPullRequest{Number: number, Title: "feature", State: "closed", ClosedAt: &closed}, nil
}

func (f *fakeClient) MergePullRequest(_ context.Context, _, _ string, _ int, req ghclient.MergePullRequestRequest) (*ghclient.MergeResult, error) {
	if err := f.record("MergePullRequest"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastMerge = req
	f.mu.Unlock()
	return &ghclient.MergeResult{Merged: true, Message: "Pull Request successfully merged", SHA: "ccc"}, nil
}

func (f *fakeClient) ListReviews(_ context.Context, _, _ string, _ int) ([]ghclient.Review, error) {
	if err := f.record("ListReviews"); err != nil {
		return nil, err
	}
	return []ghclient.Review{{ID: 1, State: "APPROVED"}}, nil
}

func (f *fakeClient) CreateReview(_ context.Context, _, _ string, _ int, req ghclient.CreateReviewRequest) (*ghclient.Review, error) {
	if err := f.record("CreateReview"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastReview = req
	f.mu.Unlock()
	return &ghclient.Review{ID: 2, State: "COMMENTED", Body: req.Body}, nil
}

func (f *fakeClient) GetFileContent(_ context.Context, _, _ string, path, ref string) (*ghclient.Contents, error) {
	if err := f.record("GetFileContent"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastPath = [2]string{path, ref}
	dir := f.dirs[path]
	f.mu.Unlock()
	if dir {
		return &ghclient.Contents{Directory: &ghclient.Directory{
			Type:  "directory",
			Path:  path,
			Items: []ghclient.DirectoryItem{{Name: "a.md", Type: "file", Path: path + "/a.md", Size: 3}},
		}}, nil
	}
	enc := "base64"
	return &ghclient.Contents{File: &ghclient.File{
		Type:     "file",
		Name:     path,
		Path:     path,
		Encoding: &enc,
		Content:  "hello world\n",
	}}, nil
}

func (f *fakeClient) ListBranches(_ context.Context, _, _ string, _ ghclient.ListBranchesOptions) ([]ghclient.Branch, error) {
	if err := f.record("ListBranches"); err != nil {
		return nil, err
	}
	return []ghclient.Branch{{Name: "main", Protected: true}}, nil
}

func (f *fakeClient) ListTags(_ context.Context, _, _ string, _ ghclient.Page) ([]ghclient.Tag, error) {
	if err := f.record("ListTags"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeClient) ListReleases(_ context.Context, _, _ string, _ ghclient.Page) ([]ghclient.Release, error) {
	if err := f.record("ListReleases"); err != nil {
		return nil, err
	}
	return []ghclient.Release{{ID: 1, TagName: "v1.0.0"}}, nil
}

func (f *fakeClient) ListCommits(_ context.Context, _, _ string, opts ghclient.ListCommitsOptions) ([]ghclient.Commit, error) {
	if err := f.record("ListCommits"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastCommitOpts = opts
	f.mu.Unlock()
	return []ghclient.Commit{{SHA: "abc123", Message: "init"}}, nil
}

func (f *fakeClient) SearchRepositories(_ context.Context, _ string, _ ghclient.SearchRepositoriesOptions) (*ghclient.SearchResult, error) {
	if err := f.record("SearchRepositories"); err != nil {
		return nil, err
	}
	return &ghclient.SearchResult{TotalCount: 1234, Repositories: f.repos[:1]}, nil
}

func (f *fakeClient) GetAuthenticatedUser(_ context.Context) (*ghclient.User, error) {
	if err := f.record("GetAuthenticatedUser"); err != nil {
		return nil, err
	}
	u := f.user
	return &u, nil
}

func (f *fakeClient) RateLimit(_ context.Context) (*ghclient.RateLimits, error) {
	if err := f.record("RateLimit"); err != nil {
		return nil, err
	}
	return &ghclient.RateLimits{}, nil
}

var _ ghclient.Client = (*fakeClient)(nil)
