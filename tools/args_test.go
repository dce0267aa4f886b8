package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBind_AppliesDefaults(t *testing.T) {
	a := &searchRepositoriesArgs{}
	require.NoError(t, bind(map[string]any{"query": " topic:mcp "}, a))

	assert.Equal(t, "topic:mcp", a.Query)
	assert.Equal(t, "stars", a.Sort)
	assert.Equal(t, "desc", a.Order)
	assert.Equal(t, "search:topic%3Amcp:stars:desc:1:30", a.cacheKey())
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name string
		args arguments
		raw  map[string]any
		want string
	}{
		{"repos", &listRepositoriesArgs{}, nil, "repos:all:all:updated:desc:1:30"},
		{"repo", &repoArgs{}, map[string]any{"owner": "Octo", "repo": "Hello"}, "repo:octo:hello"},
		{"issues", &listIssuesArgs{}, map[string]any{"owner": "o", "repo": "r", "labels": "b, a"}, "issues:o:r:open:b,a::1:30"},
		{"prs", &listPullRequestsArgs{}, map[string]any{"owner": "o", "repo": "r", "base": "main"}, "prs:o:r:open::main:1:30"},
		{"pr", &pullArgs{prefix: "pr"}, map[string]any{"owner": "o", "repo": "r", "pull_number": 12}, "pr:o:r:12"},
		{"reviews", &pullArgs{prefix: "reviews"}, map[string]any{"owner": "O", "repo": "r", "pull_number": 12}, "reviews:o:r:12"},
		{"file", &fileContentArgs{}, map[string]any{"owner": "O", "repo": "R", "path": "docs/A.md", "ref": "v1"}, "file:o:r:docs/A.md:v1"},
		{"branches", &listBranchesArgs{}, map[string]any{"owner": "o", "repo": "r", "protected": true}, "branches:o:r:true:1:30"},
		{"tags", &pagedRepoArgs{prefix: "tags"}, map[string]any{"owner": "o", "repo": "r", "page": 3}, "tags:o:r:3:30"},
		{"commits", &listCommitsArgs{}, map[string]any{"owner": "o", "repo": "r", "sha": "dev"}, "commits:o:r:dev:::::1:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, bind(tt.raw, tt.args))
			assert.Equal(t, tt.want, tt.args.cacheKey())
		})
	}
}

func TestPullArgs_StaleKeys(t *testing.T) {
	a := &mergePullRequestArgs{}
	require.NoError(t, bind(map[string]any{"owner": "Octo", "repo": "r", "pull_number": 5}, a))
	assert.Equal(t, []string{"pr:octo:r:5", "reviews:octo:r:5"}, a.staleKeys())
	assert.Equal(t, "merge", a.MergeMethod)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b ,"))
}

// Owner and repo casing never changes the key, and normalizing twice is a
// no-op.
func TestRepoArgs_KeyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		owner := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9-]{0,20}`).Draw(t, "owner")
		repo := rapid.StringMatching(`[A-Za-z0-9._-]{1,30}`).Draw(t, "repo")

		a := &repoArgs{Owner: "  " + owner, Repo: repo + " "}
		a.normalize()
		first := a.cacheKey()
		a.normalize()
		if a.cacheKey() != first {
			t.Fatalf("normalize is not idempotent: %q vs %q", first, a.cacheKey())
		}

		b := &repoArgs{Owner: strings.ToUpper(owner), Repo: strings.ToLower(repo)}
		b.normalize()
		if b.cacheKey() != first {
			t.Fatalf("case changed the key: %q vs %q", first, b.cacheKey())
		}
	})
}
