package ghclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/ghtools/failure"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *GitHub {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New("test-token", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("", WithBaseURL("://bad"))
	assert.Error(t, err)
}

func TestListRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "private", q.Get("visibility"))
		assert.Equal(t, "owner", q.Get("affiliation"))
		assert.Empty(t, q.Get("type"))
		assert.Equal(t, "updated", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("direction"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "1", q.Get("page"))

		writeJSON(w, http.StatusOK, []map[string]any{{
			"id":                1,
			"name":              "hello",
			"full_name":         "octocat/hello",
			"owner":             map[string]any{"login": "octocat"},
			"private":           true,
			"visibility":        "private",
			"stargazers_count":  5,
			"forks_count":       2,
			"open_issues_count": 1,
			"default_branch":    "main",
			"created_at":        "2024-01-01T00:00:00Z",
			"html_url":          "https://github.com/octocat/hello",
		}})
	})

	c := newTestClient(t, mux)
	repos, err := c.ListRepositories(context.Background(), ListRepositoriesOptions{
		Visibility: "private",
		Type:       "owner",
		Page:       Page{PerPage: 500},
	})
	require.NoError(t, err)
	require.Len(t, repos, 1)

	r := repos[0]
	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, "octocat/hello", r.FullName)
	require.NotNil(t, r.Owner)
	assert.Equal(t, "octocat", *r.Owner)
	assert.Equal(t, 5, r.Stars)
	assert.Equal(t, "", r.Description)
	require.NotNil(t, r.CreatedAt)
	assert.Nil(t, r.UpdatedAt)
	assert.Nil(t, r.Watchers, "list view omits detail fields")
}

func TestRepositoryListParams(t *testing.T) {
	tests := []struct {
		name            string
		opts            ListRepositoriesOptions
		wantVisibility  string
		wantAffiliation string
		wantType        string
	}{
		{"defaults", ListRepositoriesOptions{}, "", "", ""},
		{"type only", ListRepositoriesOptions{Type: "owner"}, "", "", "owner"},
		{"visibility all keeps type", ListRepositoriesOptions{Visibility: "all", Type: "member"}, "", "", "member"},
		{"visibility with owner", ListRepositoriesOptions{Visibility: "public", Type: "owner"}, "public", "owner", ""},
		{"visibility with member", ListRepositoriesOptions{Visibility: "private", Type: "member"}, "private", "collaborator,organization_member", ""},
		{"visibility with all", ListRepositoriesOptions{Visibility: "private", Type: "all"}, "private", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := repositoryListParams(tt.opts)
			assert.Equal(t, tt.wantVisibility, p.Visibility)
			assert.Equal(t, tt.wantAffiliation, p.Affiliation)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, 1, p.Page)
			assert.Equal(t, 30, p.PerPage)
		})
	}
}

func TestGetRepository_Detail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/hello", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":             7,
			"name":           "hello",
			"watchers_count": 9,
			"license":        map[string]any{"name": "MIT License"},
			"archived":       false,
		})
	})

	repo, err := newTestClient(t, mux).GetRepository(context.Background(), "octocat", "hello")
	require.NoError(t, err)
	require.NotNil(t, repo.Watchers)
	assert.Equal(t, 9, *repo.Watchers)
	require.NotNil(t, repo.License)
	assert.Equal(t, "MIT License", *repo.License)
	assert.Equal(t, []string{}, repo.Topics)
	assert.Nil(t, repo.Owner)
}

func TestGetRepository_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})

	_, err := newTestClient(t, mux).GetRepository(context.Background(), "octocat", "missing")
	require.Error(t, err)

	var tr *failure.Transport
	require.ErrorAs(t, err, &tr)
	assert.Equal(t, 404, tr.Status)
	assert.Equal(t, "Not Found", tr.Message)
	assert.Equal(t, failure.CodeNotFound, failure.Describe(err).Code)
}

func TestListIssues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "closed", q.Get("state"))
		assert.Equal(t, "bug,ui", q.Get("labels"))
		assert.Equal(t, "alice", q.Get("assignee"))

		writeJSON(w, http.StatusOK, []map[string]any{
			{
				"number":    3,
				"title":     "Broken",
				"state":     "closed",
				"user":      map[string]any{"login": "bob"},
				"labels":    []map[string]any{{"name": "bug", "color": "f00"}},
				"assignees": []map[string]any{{"login": "alice"}},
				"comments":  4,
			},
			{
				"number":       4,
				"title":        "A PR",
				"pull_request": map[string]any{"url": "https://api.github.com/repos/o/r/pulls/4"},
			},
		})
	})

	issues, err := newTestClient(t, mux).ListIssues(context.Background(), "o", "r", ListIssuesOptions{
		State:    "closed",
		Labels:   []string{"bug", "ui"},
		Assignee: "alice",
	})
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, []Label{{Name: "bug", Color: "f00"}}, issues[0].Labels)
	assert.Equal(t, []string{"alice"}, issues[0].Assignees)
	assert.False(t, issues[0].PullRequest)
	assert.True(t, issues[1].PullRequest)
	assert.Empty(t, issues[1].Labels)
	assert.Nil(t, issues[1].User)
}

func TestCreateIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New bug", body["title"])
		assert.Equal(t, []any{"bug"}, body["labels"])
		_, hasBody := body["body"]
		assert.False(t, hasBody, "empty body must not be sent")

		writeJSON(w, http.StatusCreated, map[string]any{
			"number":   10,
			"title":    "New bug",
			"state":    "open",
			"html_url": "https://github.com/o/r/issues/10",
		})
	})

	issue, err := newTestClient(t, mux).CreateIssue(context.Background(), "o", "r", CreateIssueRequest{
		Title:  "New bug",
		Labels: []string{"bug"},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, issue.Number)
	assert.Equal(t, "open", issue.State)
}

func TestCreateIssue_ValidationFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "Validation Failed"})
	})

	_, err := newTestClient(t, mux).CreateIssue(context.Background(), "o", "r", CreateIssueRequest{Title: "x"})
	d := failure.Describe(err)
	assert.Equal(t, failure.CodeValidationError, d.Code)
	require.NotNil(t, d.Status)
	assert.Equal(t, 422, *d.Status)
	assert.Contains(t, d.Message, "Validation Failed")
}

func TestListPullRequests_MergesDetails(t *testing.T) {
	var detailCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "feature", r.URL.Query().Get("base"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"number": 1, "title": "one", "head": map[string]any{"ref": "a", "sha": "111"}, "base": map[string]any{"ref": "feature"}},
			{"number": 2, "title": "two"},
		})
	})
	mux.HandleFunc("GET /repos/o/r/pulls/1", func(w http.ResponseWriter, r *http.Request) {
		detailCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{
			"number":    1,
			"merged":    false,
			"mergeable": true,
			"additions": 10,
			"deletions": 2,
		})
	})
	mux.HandleFunc("GET /repos/o/r/pulls/2", func(w http.ResponseWriter, r *http.Request) {
		detailCalls.Add(1)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
	})

	prs, err := newTestClient(t, mux).ListPullRequests(context.Background(), "o", "r", ListPullRequestsOptions{Base: "feature"})
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, int32(2), detailCalls.Load())

	assert.Equal(t, "a", prs[0].Head.Ref)
	require.NotNil(t, prs[0].Additions)
	assert.Equal(t, 10, *prs[0].Additions)
	require.NotNil(t, prs[0].Mergeable)
	assert.True(t, *prs[0].Mergeable)

	assert.Equal(t, "two", prs[1].Title)
	assert.Nil(t, prs[1].Merged, "failed detail fetch leaves fields null")
	assert.Nil(t, prs[1].Additions)
}

func TestListBranches_ProtectedOnly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/branches", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"name": "main", "protected": true, "commit": map[string]any{"sha": "abc", "url": "u"}},
			{"name": "dev", "protected": false},
		})
	})
	c := newTestClient(t, mux)

	all, err := c.ListBranches(context.Background(), "o", "r", ListBranchesOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	protected, err := c.ListBranches(context.Background(), "o", "r", ListBranchesOptions{ProtectedOnly: true})
	require.NoError(t, err)
	require.Len(t, protected, 1)
	assert.Equal(t, Branch{Name: "main", Protected: true, Commit: CommitRef{SHA: "abc", URL: "u"}}, protected[0])
}

func TestListTagsReleasesCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/tags", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"name": "v1.0.0", "commit": map[string]any{"sha": "t1"}}})
	})
	mux.HandleFunc("GET /repos/o/r/releases", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 5, "tag_name": "v1.0.0", "prerelease": true, "author": map[string]any{"login": "rel"}}})
	})
	mux.HandleFunc("GET /repos/o/r/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("sha"))
		writeJSON(w, http.StatusOK, []map[string]any{{
			"sha": "c1",
			"commit": map[string]any{
				"message": "initial",
				"author":  map[string]any{"name": "Ann", "email": "ann@example.com", "date": "2024-02-03T04:05:06Z"},
			},
		}})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	tags, err := c.ListTags(ctx, "o", "r", Page{})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "t1", tags[0].Commit.SHA)

	releases, err := c.ListReleases(ctx, "o", "r", Page{})
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.True(t, releases[0].Prerelease)
	require.NotNil(t, releases[0].Author)
	assert.Equal(t, "rel", *releases[0].Author)

	commits, err := c.ListCommits(ctx, "o", "r", ListCommitsOptions{SHA: "main"})
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "Ann", commits[0].AuthorName)
	require.NotNil(t, commits[0].Date)
	assert.Equal(t, 2024, commits[0].Date.Year())
	assert.Nil(t, commits[0].Author)
}

func TestSearchRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/repositories", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "language:go", q.Get("q"))
		assert.Equal(t, "stars", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		writeJSON(w, http.StatusOK, map[string]any{
			"total_count": 1234,
			"items":       []map[string]any{{"id": 1, "full_name": "golang/go", "default_branch": "master"}},
		})
	})

	res, err := newTestClient(t, mux).SearchRepositories(context.Background(), "language:go", SearchRepositoriesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1234, res.TotalCount)
	require.Len(t, res.Repositories, 1)
	assert.Empty(t, res.Repositories[0].DefaultBranch, "search view omits default_branch")
}

func TestGetAuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 42, "login": "octocat", "followers": 3})
	})

	u, err := newTestClient(t, mux).GetAuthenticatedUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", u.Login)
	assert.Equal(t, 3, u.Followers)
	assert.Equal(t, "", u.Email)
}

func TestGetAuthenticatedUser_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Bad credentials"})
	})

	_, err := newTestClient(t, mux).GetAuthenticatedUser(context.Background())
	assert.Equal(t, failure.CodeUnauthorized, failure.Describe(err).Code)
}

func TestRateLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rate_limit", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"resources": map[string]any{
				"core":   map[string]any{"limit": 5000, "remaining": 4999, "reset": 1700000000},
				"search": map[string]any{"limit": 30, "remaining": 30, "reset": 1700000000},
			},
		})
	})

	limits, err := newTestClient(t, mux).RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5000, limits.Core.Limit)
	assert.Equal(t, 4999, limits.Core.Remaining)
	assert.Equal(t, 30, limits.Search.Limit)
	assert.False(t, limits.Core.Reset.IsZero())
}

func TestRateLimitExceeded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "API rate limit exceeded for 1.2.3.4."})
	})

	_, err := newTestClient(t, mux).GetAuthenticatedUser(context.Background())
	d := failure.Describe(err)
	assert.Equal(t, failure.CodeRateLimit, d.Code)
	require.NotNil(t, d.Status)
	assert.Equal(t, 429, *d.Status)
}

func TestPage_Normalize(t *testing.T) {
	tests := []struct {
		in, want Page
	}{
		{Page{}, Page{Page: 1, PerPage: 30}},
		{Page{Page: 3, PerPage: 10}, Page{Page: 3, PerPage: 10}},
		{Page{Page: -1, PerPage: 1000}, Page{Page: 1, PerPage: MaxPerPage}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.normalize())
	}
}

func TestCreateIssue_SendsTitleAndBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Crash on start", body["title"])
		assert.Equal(t, "Steps to reproduce", body["body"])
		writeJSON(w, http.StatusCreated, map[string]any{"number": 11, "title": "Crash on start", "state": "open"})
	})

	issue, err := newTestClient(t, mux).CreateIssue(context.Background(), "o", "r", CreateIssueRequest{
		Title: "Crash on start",
		Body:  "Steps to reproduce",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, issue.Number)
}

func TestGetPullRequest_DetailCounters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"number":        5,
			"merged":        true,
			"comments":      3,
			"changed_files": 4,
			"diff_url":      "https://github.com/o/r/pull/5.diff",
		})
	})

	pr, err := newTestClient(t, mux).GetPullRequest(context.Background(), "o", "r", 5)
	require.NoError(t, err)
	require.NotNil(t, pr.Merged)
	assert.True(t, *pr.Merged)
	require.NotNil(t, pr.Comments)
	assert.Equal(t, 3, *pr.Comments)
	require.NotNil(t, pr.ChangedFiles)
	assert.Equal(t, 4, *pr.ChangedFiles)
	require.NotNil(t, pr.Deletions)
	assert.Equal(t, 0, *pr.Deletions)
	assert.Equal(t, "https://github.com/o/r/pull/5.diff", pr.DiffURL)
}

func TestCreatePullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Add feature", body["title"])
		assert.Equal(t, "feature", body["head"])
		assert.Equal(t, "main", body["base"])
		assert.Equal(t, true, body["draft"])
		_, hasBody := body["body"]
		assert.False(t, hasBody, "empty body must not be sent")

		writeJSON(w, http.StatusCreated, map[string]any{
			"number":   12,
			"title":    "Add feature",
			"state":    "open",
			"draft":    true,
			"user":     map[string]any{"login": "octocat"},
			"head":     map[string]any{"ref": "feature", "sha": "aaa", "repo": map[string]any{"full_name": "o/r"}},
			"base":     map[string]any{"ref": "main", "sha": "bbb"},
			"html_url": "https://github.com/o/r/pull/12",
		})
	})

	pr, err := newTestClient(t, mux).CreatePullRequest(context.Background(), "o", "r", CreatePullRequestRequest{
		Title: "Add feature", Head: "feature", Base: "main", Draft: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, pr.Number)
	assert.True(t, pr.Draft)
	require.NotNil(t, pr.User)
	assert.Equal(t, "octocat", *pr.User)
	assert.Equal(t, BranchRef{Ref: "feature", SHA: "aaa"}, pr.Head)
	assert.Equal(t, BranchRef{Ref: "main", SHA: "bbb"}, pr.Base)
}

func TestUpdatePullRequest_SendsOnlyGivenFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /repos/o/r/pulls/3", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"body": "", "base": "develop"}, body)
		writeJSON(w, http.StatusOK, map[string]any{
			"number": 3,
			"title":  "kept",
			"state":  "open",
			"base":   map[string]any{"ref": "develop", "sha": "ccc"},
		})
	})

	empty := ""
	pr, err := newTestClient(t, mux).UpdatePullRequest(context.Background(), "o", "r", 3, UpdatePullRequestRequest{
		Body: &empty, Base: "develop",
	})
	require.NoError(t, err)
	assert.Equal(t, "kept", pr.Title)
	assert.Equal(t, "", pr.Body)
	assert.Equal(t, BranchRef{Ref: "develop", SHA: "ccc"}, pr.Base)
}

func TestClosePullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /repos/o/r/pulls/4", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"state": "closed"}, body)
		writeJSON(w, http.StatusOK, map[string]any{
			"number":    4,
			"state":     "closed",
			"closed_at": "2024-05-01T10:00:00Z",
		})
	})

	pr, err := newTestClient(t, mux).ClosePullRequest(context.Background(), "o", "r", 4)
	require.NoError(t, err)
	assert.Equal(t, "closed", pr.State)
	require.NotNil(t, pr.ClosedAt)
	assert.Equal(t, 2024, pr.ClosedAt.Year())
}

func TestMergePullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/o/r/pulls/7/merge", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "squash", body["merge_method"])
		assert.Equal(t, "Release 1.0", body["commit_title"])
		writeJSON(w, http.StatusOK, map[string]any{"merged": true, "message": "Pull Request successfully merged", "sha": "ddd"})
	})

	res, err := newTestClient(t, mux).MergePullRequest(context.Background(), "o", "r", 7, MergePullRequestRequest{
		Method: "squash", CommitTitle: "Release 1.0",
	})
	require.NoError(t, err)
	assert.Equal(t, MergeResult{Merged: true, Message: "Pull Request successfully merged", SHA: "ddd"}, *res)
}

func TestMergePullRequest_NotMergeable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/o/r/pulls/7/merge", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "Pull Request is not mergeable"})
	})

	_, err := newTestClient(t, mux).MergePullRequest(context.Background(), "o", "r", 7, MergePullRequestRequest{})
	d := failure.Describe(err)
	assert.Equal(t, failure.CodeAPIError, d.Code)
	require.NotNil(t, d.Status)
	assert.Equal(t, 405, *d.Status)
}

func TestReviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/pulls/8/reviews", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "state": "APPROVED", "user": map[string]any{"login": "alice"}, "submitted_at": "2024-05-02T00:00:00Z"},
			{"id": 2, "state": "COMMENTED", "body": "nit"},
		})
	})
	mux.HandleFunc("POST /repos/o/r/pulls/8/reviews", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "REQUEST_CHANGES", body["event"])
		assert.Equal(t, "please add tests", body["body"])
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "state": "CHANGES_REQUESTED", "body": "please add tests"})
	})

	c := newTestClient(t, mux)
	reviews, err := c.ListReviews(context.Background(), "o", "r", 8)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "alice", *reviews[0].User)
	require.NotNil(t, reviews[0].SubmittedAt)
	assert.Nil(t, reviews[1].User)
	assert.Equal(t, "nit", reviews[1].Body)

	review, err := c.CreateReview(context.Background(), "o", "r", 8, CreateReviewRequest{Event: "REQUEST_CHANGES", Body: "please add tests"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), review.ID)
	assert.Equal(t, "CHANGES_REQUESTED", review.State)
}

func TestGetFileContent_File(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/contents/docs/README.md", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v1.0", r.URL.Query().Get("ref"))
		writeJSON(w, http.StatusOK, map[string]any{
			"type":         "file",
			"name":         "README.md",
			"path":         "docs/README.md",
			"size":         12,
			"sha":          "eee",
			"encoding":     "base64",
			"content":      "aGVsbG8gd29ybGQK",
			"download_url": "https://raw.githubusercontent.com/o/r/v1.0/docs/README.md",
			"html_url":     "https://github.com/o/r/blob/v1.0/docs/README.md",
		})
	})

	got, err := newTestClient(t, mux).GetFileContent(context.Background(), "o", "r", "docs/README.md", "v1.0")
	require.NoError(t, err)
	require.Nil(t, got.Directory)
	require.NotNil(t, got.File)
	assert.Equal(t, "file", got.File.Type)
	assert.Equal(t, "hello world\n", got.File.Content)
	require.NotNil(t, got.File.Encoding)
	assert.Equal(t, "base64", *got.File.Encoding)
	require.NotNil(t, got.File.DownloadURL)
}

func TestGetFileContent_Directory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/contents/docs", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("ref"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"type": "file", "name": "a.md", "path": "docs/a.md", "size": 3, "sha": "f1", "html_url": "https://github.com/o/r/blob/main/docs/a.md"},
			{"type": "dir", "name": "img", "path": "docs/img", "sha": "f2"},
		})
	})

	got, err := newTestClient(t, mux).GetFileContent(context.Background(), "o", "r", "docs", "")
	require.NoError(t, err)
	require.Nil(t, got.File)
	require.NotNil(t, got.Directory)
	assert.Equal(t, "directory", got.Directory.Type)
	assert.Equal(t, "docs", got.Directory.Path)
	require.Len(t, got.Directory.Items, 2)
	assert.Equal(t, DirectoryItem{Name: "a.md", Type: "file", Path: "docs/a.md", Size: 3, SHA: "f1", URL: "https://github.com/o/r/blob/main/docs/a.md"}, got.Directory.Items[0])
	assert.Equal(t, "dir", got.Directory.Items[1].Type)
}

func TestGetFileContent_LargeFileLeavesContentEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/contents/big.bin", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"type": "file", "name": "big.bin", "path": "big.bin", "encoding": "none", "content": ""})
	})

	got, err := newTestClient(t, mux).GetFileContent(context.Background(), "o", "r", "big.bin", "")
	require.NoError(t, err)
	require.NotNil(t, got.File)
	assert.Equal(t, "", got.File.Content)
	require.NotNil(t, got.File.Encoding)
	assert.Equal(t, "none", *got.File.Encoding)
}
