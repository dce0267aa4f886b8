package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/sync/errgroup"
)

// Client is the subset of the GitHub API used by the tools.
type Client interface {
	ListRepositories(ctx context.Context, opts ListRepositoriesOptions) ([]Repository, error)
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)
	ListIssues(ctx context.Context, owner, repo string, opts ListIssuesOptions) ([]Issue, error)
	CreateIssue(ctx context.Context, owner, repo string, req CreateIssueRequest) (*CreatedIssue, error)
	ListPullRequests(ctx context.Context, owner, repo string, opts ListPullRequestsOptions) ([]PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
	CreatePullRequest(ctx context.Context, owner, repo string, req CreatePullRequestRequest) (*CreatedPullRequest, error)
	UpdatePullRequest(ctx context.Context, owner, repo string, number int, req UpdatePullRequestRequest) (*UpdatedPullRequest, error)
	ClosePullRequest(ctx context.Context, owner, repo string, number int) (*ClosedPullRequest, error)
	MergePullRequest(ctx context.Context, owner, repo string, number int, req MergePullRequestRequest) (*MergeResult, error)
	ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error)
	CreateReview(ctx context.Context, owner, repo string, number int, req CreateReviewRequest) (*Review, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (*Contents, error)
	ListBranches(ctx context.Context, owner, repo string, opts ListBranchesOptions) ([]Branch, error)
	ListTags(ctx context.Context, owner, repo string, page Page) ([]Tag, error)
	ListReleases(ctx context.Context, owner, repo string, page Page) ([]Release, error)
	ListCommits(ctx context.Context, owner, repo string, opts ListCommitsOptions) ([]Commit, error)
	SearchRepositories(ctx context.Context, query string, opts SearchRepositoriesOptions) (*SearchResult, error)
	GetAuthenticatedUser(ctx context.Context) (*User, error)
	RateLimit(ctx context.Context) (*RateLimits, error)
}

// DetailConcurrency bounds the per-PR detail fetches issued by ListPullRequests.
const DetailConcurrency = 4

// Option configures a GitHub client.
type Option func(*config)

type config struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = c
	}
}

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(u string) Option {
	return func(cfg *config) {
		cfg.baseURL = u
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cfg *config) {
		cfg.userAgent = ua
	}
}

// GitHub implements Client on top of go-github.
type GitHub struct {
	gh *github.Client
}

var _ Client = (*GitHub)(nil)

// New creates a client authenticated with token. An empty token yields an
// unauthenticated client.
func New(token string, opts ...Option) (*GitHub, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	gh := github.NewClient(cfg.httpClient)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("ghclient: invalid base URL: %w", err)
		}
		gh.BaseURL = u
	}
	if cfg.userAgent != "" {
		gh.UserAgent = cfg.userAgent
	}
	return &GitHub{gh: gh}, nil
}

// ListRepositories lists repositories of the authenticated user.
func (c *GitHub) ListRepositories(ctx context.Context, opts ListRepositoriesOptions) ([]Repository, error) {
	repos, _, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, repositoryListParams(opts))
	if err != nil {
		return nil, convertError(err)
	}
	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, reshapeRepository(r, false))
	}
	return out, nil
}

// repositoryListParams maps tool options onto the API. GitHub rejects
// visibility combined with type, so when a visibility filter is set the
// type is expressed as an affiliation instead.
func repositoryListParams(opts ListRepositoriesOptions) *github.RepositoryListByAuthenticatedUserOptions {
	p := opts.Page.normalize()
	params := &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        orDefault(opts.Sort, "updated"),
		Direction:   orDefault(opts.Direction, "desc"),
		ListOptions: github.ListOptions{Page: p.Page, PerPage: p.PerPage},
	}

	typ := orDefault(opts.Type, "all")
	if opts.Visibility != "" && opts.Visibility != "all" {
		params.Visibility = opts.Visibility
		switch typ {
		case "owner":
			params.Affiliation = "owner"
		case "member":
			params.Affiliation = "collaborator,organization_member"
		}
	} else if typ != "all" {
		params.Type = typ
	}
	return params
}

// GetRepository fetches one repository.
func (c *GitHub) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, convertError(err)
	}
	out := reshapeRepository(r, true)
	return &out, nil
}

// ListIssues lists issues of a repository.
func (c *GitHub) ListIssues(ctx context.Context, owner, repo string, opts ListIssuesOptions) ([]Issue, error) {
	p := opts.Page.normalize()
	issues, _, err := c.gh.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{
		State:       orDefault(opts.State, "open"),
		Labels:      opts.Labels,
		Assignee:    opts.Assignee,
		ListOptions: github.ListOptions{Page: p.Page, PerPage: p.PerPage},
	})
	if err != nil {
		return nil, convertError(err)
	}
	out := make([]Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, reshapeIssue(i))
	}
	return out, nil
}

// CreateIssue opens a new issue.
func (c *GitHub) CreateIssue(ctx context.Context, owner, repo string, req CreateIssueRequest) (*CreatedIssue, error) {
	body := &github.IssueRequest{Title: github.String(req.Title)}
	if req.Body != "" {
		body.Body = github.String(req.Body)
	}
	if len(req.Labels) > 0 {
		body.Labels = &req.Labels
	}
	if len(req.Assignees) > 0 {
		body.Assignees = &req.Assignees
	}

	issue, _, err := c.gh.Issues.Create(ctx, owner, repo, body)
	if err != nil {
		return nil, convertError(err)
	}
	return &CreatedIssue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		State:     issue.GetState(),
		HTMLURL:   issue.GetHTMLURL(),
		CreatedAt: timeOf(issue.CreatedAt),
	}, nil
}

// ListPullRequests lists pull requests and enriches each with the fields
// only the single-PR endpoint returns. A failed detail fetch leaves those
// fields null rather than failing the listing.
func (c *GitHub) ListPullRequests(ctx context.Context, owner, repo string, opts ListPullRequestsOptions) ([]PullRequest, error) {
	p := opts.Page.normalize()
	prs, _, err := c.gh.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State:       orDefault(opts.State, "open"),
		Head:        opts.Head,
		Base:        opts.Base,
		ListOptions: github.ListOptions{Page: p.Page, PerPage: p.PerPage},
	})
	if err != nil {
		return nil, convertError(err)
	}

	out := make([]PullRequest, len(prs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DetailConcurrency)
	for i, pr := range prs {
		out[i] = reshapePullRequest(pr)
		g.Go(func() error {
			detail, _, err := c.gh.PullRequests.Get(gctx, owner, repo, pr.GetNumber())
			if err != nil {
				return nil
			}
			mergeDetail(&out[i], detail)
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

// GetPullRequest fetches one pull request.
func (c *GitHub) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, convertError(err)
	}
	out := reshapePullRequest(pr)
	mergeDetail(&out, pr)
	out.DiffURL = pr.GetDiffURL()
	out.PatchURL = pr.GetPatchURL()
	return &out, nil
}

// CreatePullRequest opens a pull request from head into base.
func (c *GitHub) CreatePullRequest(ctx context.Context, owner, repo string, req CreatePullRequestRequest) (*CreatedPullRequest, error) {
	body := &github.NewPullRequest{
		Title: github.String(req.Title),
		Head:  github.String(req.Head),
		Base:  github.String(req.Base),
	}
	if req.Body != "" {
		body.Body = github.String(req.Body)
	}
	if req.Draft {
		body.Draft = github.Bool(true)
	}

	pr, _, err := c.gh.PullRequests.Create(ctx, owner, repo, body)
	if err != nil {
		return nil, convertError(err)
	}
	return &CreatedPullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     pr.GetState(),
		Draft:     pr.GetDraft(),
		User:      optString(pr.GetUser().GetLogin()),
		Head:      BranchRef{Ref: pr.GetHead().GetRef(), SHA: pr.GetHead().GetSHA()},
		Base:      BranchRef{Ref: pr.GetBase().GetRef(), SHA: pr.GetBase().GetSHA()},
		HTMLURL:   pr.GetHTMLURL(),
		CreatedAt: timeOf(pr.CreatedAt),
	}, nil
}

// UpdatePullRequest edits the title, body, state or base of a pull request.
func (c *GitHub) UpdatePullRequest(ctx context.Context, owner, repo string, number int, req UpdatePullRequestRequest) (*UpdatedPullRequest, error) {
	pr, err := c.editPullRequest(ctx, owner, repo, number, req)
	if err != nil {
		return nil, err
	}
	return &UpdatedPullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		State:     pr.GetState(),
		Draft:     pr.GetDraft(),
		Base:      BranchRef{Ref: pr.GetBase().GetRef(), SHA: pr.GetBase().GetSHA()},
		HTMLURL:   pr.GetHTMLURL(),
		UpdatedAt: timeOf(pr.UpdatedAt),
	}, nil
}

// ClosePullRequest closes a pull request without merging it.
func (c *GitHub) ClosePullRequest(ctx context.Context, owner, repo string, number int) (*ClosedPullRequest, error) {
	pr, err := c.editPullRequest(ctx, owner, repo, number, UpdatePullRequestRequest{State: "closed"})
	if err != nil {
		return nil, err
	}
	return &ClosedPullRequest{
		Number:   pr.GetNumber(),
		Title:    pr.GetTitle(),
		State:    pr.GetState(),
		ClosedAt: timeOf(pr.ClosedAt),
		HTMLURL:  pr.GetHTMLURL(),
	}, nil
}

func (c *GitHub) editPullRequest(ctx context.Context, owner, repo string, number int, req UpdatePullRequestRequest) (*github.PullRequest, error) {
	edit := &github.PullRequest{Body: req.Body}
	if req.Title != "" {
		edit.Title = github.String(req.Title)
	}
	if req.State != "" {
		edit.State = github.String(req.State)
	}
	if req.Base != "" {
		edit.Base = &github.PullRequestBranch{Ref: github.String(req.Base)}
	}

	pr, _, err := c.gh.PullRequests.Edit(ctx, owner, repo, number, edit)
	if err != nil {
		return nil, convertError(err)
	}
	return pr, nil
}

// MergePullRequest merges a pull request. An empty method merges with a
// merge commit.
func (c *GitHub) MergePullRequest(ctx context.Context, owner, repo string, number int, req MergePullRequestRequest) (*MergeResult, error) {
	res, _, err := c.gh.PullRequests.Merge(ctx, owner, repo, number, req.CommitMessage, &github.PullRequestOptions{
		CommitTitle: req.CommitTitle,
		MergeMethod: orDefault(req.Method, "merge"),
	})
	if err != nil {
		return nil, convertError(err)
	}
	return &MergeResult{Merged: res.GetMerged(), Message: res.GetMessage(), SHA: res.GetSHA()}, nil
}

// ListReviews lists the reviews submitted on a pull request.
func (c *GitHub) ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error) {
	reviews, _, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, convertError(err)
	}
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reshapeReview(r))
	}
	return out, nil
}

// CreateReview submits a review on a pull request.
func (c *GitHub) CreateReview(ctx context.Context, owner, repo string, number int, req CreateReviewRequest) (*Review, error) {
	body := &github.PullRequestReviewRequest{Event: github.String(req.Event)}
	if req.Body != "" {
		body.Body = github.String(req.Body)
	}

	r, _, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, number, body)
	if err != nil {
		return nil, convertError(err)
	}
	out := reshapeReview(r)
	return &out, nil
}

// GetFileContent reads a file or lists a directory at ref. An empty ref
// reads the default branch. Base64 file content is decoded; any other
// encoding leaves Content empty.
func (c *GitHub) GetFileContent(ctx context.Context, owner, repo, path, ref string) (*Contents, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}
	file, dir, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, convertError(err)
	}

	if file == nil {
		items := make([]DirectoryItem, 0, len(dir))
		for _, d := range dir {
			items = append(items, DirectoryItem{
				Name: d.GetName(),
				Type: d.GetType(),
				Path: d.GetPath(),
				Size: d.GetSize(),
				SHA:  d.GetSHA(),
				URL:  d.GetHTMLURL(),
			})
		}
		return &Contents{Directory: &Directory{Type: "directory", Path: path, Items: items}}, nil
	}

	out := &File{
		Type:        "file",
		Name:        file.GetName(),
		Path:        file.GetPath(),
		Size:        file.GetSize(),
		SHA:         file.GetSHA(),
		Encoding:    file.Encoding,
		DownloadURL: file.DownloadURL,
		HTMLURL:     file.GetHTMLURL(),
	}
	if file.GetEncoding() == "base64" {
		content, err := file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("ghclient: decode %s: %w", path, err)
		}
		out.Content = content
	}
	return &Contents{File: out}, nil
}

// ListBranches lists branches of a repository.
func (c *GitHub) ListBranches(ctx context.Context, owner, repo string, opts ListBranchesOptions) ([]Branch, error) {
	p := opts.Page.normalize()
	branches, _, err := c.gh.Repositories.ListBranches(ctx, owner, repo, &github.BranchListOptions{
		ListOptions: github.ListOptions{Page: p.Page, PerPage: p.PerPage},
	})
	if err != nil {
		return nil, convertError(err)
	}
	out := make([]Branch, 0, len(branches))
	for _, b := range branches {
		if opts.ProtectedOnly && !b.GetProtected() {
			continue
		}
		out = append(out, Branch{
			Name:      b.GetName(),
			Protected: b.GetProtected(),
			Commit:    CommitRef{SHA: b.GetCommit().GetSHA(), URL: b.GetCommit().GetURL()},
		})
	}
	return out, nil
}

// ListTags lists tags of a repository.
func (c *GitHub) ListTags(ctx context.Context, owner, repo string, page Page) ([]Tag, error) {
	p := page.normalize()
	tags, _, err := c.gh.Repositories.ListTags(ctx, owner, repo, &github.ListOptions{Page: p.Page, PerPage: p.PerPage})
	if err != nil {
		return nil, convertError(err)
	}
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, Tag{
			Name:       t.GetName(),
			Commit:     CommitRef{SHA: t.GetCommit().GetSHA(), URL: t.GetCommit().GetURL()},
			ZipballURL: t.GetZipballURL(),
			TarballURL: t.GetTarballURL(),
		})
	}
	return out, nil
}

// ListReleases lists releases of a repository.
func (c *GitHub) ListReleases(ctx context.Context, owner, repo string, page Page) ([]Release, error) {
	p := page.normalize()
	releases, _, err := c.gh.Repositories.ListReleases(ctx, owner, repo, &github.ListOptions{Page: p.Page, PerPage: p.PerPage})
	if err != nil {
		return nil, convertError(err)
	}
	out := make([]Release, 0, len(releases))
	for _, r := range releases {
		out = append(out, Release{
			ID:          r.GetID(),
			TagName:     r.GetTagName(),
			Name:        r.GetName(),
			Body:        r.GetBody(),
			Draft:       r.GetDraft(),
			Prerelease:  r.GetPrerelease(),
			Author:      optString(r.GetAuthor().GetLogin()),
			CreatedAt:   timeOf(r.CreatedAt),
			PublishedAt: timeOf(r.PublishedAt),
			HTMLURL:     r.GetHTMLURL(),
		})
	}
	return out, nil
}

// ListCommits lists commits of a repository.
func (c *GitHub) ListCommits(ctx context.Context, owner, repo string, opts ListCommitsOptions) ([]Commit, error) {
	p := opts.Page.normalize()
	commits, _, err := c.gh.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		SHA:         opts.SHA,
		Path:        opts.Path,
		Author:      opts.Author,
		Since:       opts.Since,
		Until:       opts.Until,
		ListOptions: github.ListOptions{Page: p.Page, PerPage: p.PerPage},
	})
	if err != nil {
		return nil, convertError(err)
	}
	out := make([]Commit, 0, len(commits))
	for _, rc := range commits {
		cm := Commit{
			SHA:     rc.GetSHA(),
			Message: rc.GetCommit().GetMessage(),
			Author:  optString(rc.GetAuthor().GetLogin()),
			HTMLURL: rc.GetHTMLURL(),
		}
		if a := rc.GetCommit().GetAuthor(); a != nil {
			cm.AuthorName = a.GetName()
			cm.AuthorEmail = a.GetEmail()
			cm.Date = timeOf(a.Date)
		}
		out = append(out, cm)
	}
	return out, nil
}

// SearchRepositories runs a repository search query.
func (c *GitHub) SearchRepositories(ctx context.Context, query string, opts SearchRepositoriesOptions) (*SearchResult, error) {
	p := opts.Page.normalize()
	res, _, err := c.gh.Search.Repositories(ctx, query, &github.SearchOptions{
		Sort:        orDefault(opts.Sort, "stars"),
		Order:       orDefault(opts.Order, "desc"),
		ListOptions: github.ListOptions{Page: p.Page, PerPage: p.PerPage},
	})
	if err != nil {
		return nil, convertError(err)
	}
	out := &SearchResult{
		TotalCount:   res.GetTotal(),
		Repositories: make([]Repository, 0, len(res.Repositories)),
	}
	for _, r := range res.Repositories {
		out.Repositories = append(out.Repositories, reshapeSearchRepository(r))
	}
	return out, nil
}

// GetAuthenticatedUser fetches the user the token belongs to.
func (c *GitHub) GetAuthenticatedUser(ctx context.Context) (*User, error) {
	u, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return nil, convertError(err)
	}
	return &User{
		ID:          u.GetID(),
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Email:       u.GetEmail(),
		Bio:         u.GetBio(),
		Company:     u.GetCompany(),
		Blog:        u.GetBlog(),
		Location:    u.GetLocation(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		CreatedAt:   timeOf(u.CreatedAt),
		UpdatedAt:   timeOf(u.UpdatedAt),
		HTMLURL:     u.GetHTMLURL(),
		AvatarURL:   u.GetAvatarURL(),
	}, nil
}

// RateLimit reports the current API quotas. The call itself does not count
// against the quota.
func (c *GitHub) RateLimit(ctx context.Context) (*RateLimits, error) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return nil, convertError(err)
	}
	return &RateLimits{
		Core:   rateOf(limits.GetCore()),
		Search: rateOf(limits.GetSearch()),
	}, nil
}

func rateOf(r *github.Rate) Rate {
	if r == nil {
		return Rate{}
	}
	return Rate{Limit: r.Limit, Remaining: r.Remaining, Reset: r.Reset.Time}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
