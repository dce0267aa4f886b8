package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/ghtools/cache"
	"github.com/jonwraymond/ghtools/ghclient"
)

// Tool tags consulted by the cache skip rule and RBAC.
const (
	TagRead   = "read"
	TagWrite  = "write"
	TagMeta   = "meta"
	TagRepos  = "repos"
	TagIssues = "issues"
	TagPulls  = "pulls"
	TagRefs   = "refs"
	TagSearch = "search"
	TagUser   = "user"
)

func ownerRepo() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner (user or organization)")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
	}
}

func pagination() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("per_page",
			mcp.Description("Results per page (max 100)"),
			mcp.Min(1), mcp.Max(ghclient.MaxPerPage), mcp.DefaultNumber(defaultPerPage)),
		mcp.WithNumber("page",
			mcp.Description("Page number"),
			mcp.Min(1), mcp.DefaultNumber(defaultPage)),
	}
}

func readOnly(title string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	}
}

func mutating(title string, destructive, idempotent bool) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(destructive),
		mcp.WithIdempotentHintAnnotation(idempotent),
	}
}

func pullNumber() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("pull_number", mcp.Required(), mcp.Min(1),
			mcp.Description("Pull request number")),
	}
}

// defineWrite builds an entry for a tool that changes GitHub state. Its
// responses are never cached.
func defineWrite[A arguments](tool mcp.Tool, group string, newArgs func() A, run func(context.Context, A) (any, error)) entry {
	e := define(tool, cache.PullRequests, []string{TagWrite, group}, newArgs, run)
	e.nocache = true
	return e
}

func tool(name, description string, groups ...[]mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, g := range groups {
		opts = append(opts, g...)
	}
	return mcp.NewTool(name, opts...)
}

func (r *Registry) definitions() []entry {
	return []entry{
		define(
			tool("list_repositories", "List repositories for the authenticated user",
				readOnly("List Repositories"),
				[]mcp.ToolOption{
					mcp.WithString("visibility", mcp.Description("Repository visibility"),
						mcp.Enum("all", "public", "private"), mcp.DefaultString("all")),
					mcp.WithString("type", mcp.Description("Repository type"),
						mcp.Enum("all", "owner", "member"), mcp.DefaultString("all")),
					mcp.WithString("sort", mcp.Description("Sort field"),
						mcp.Enum("created", "updated", "pushed", "full_name"), mcp.DefaultString("updated")),
					mcp.WithString("direction", mcp.Description("Sort direction"),
						mcp.Enum("asc", "desc"), mcp.DefaultString("desc")),
				},
				pagination()),
			cache.RepositoryList, []string{TagRead, TagRepos},
			func() *listRepositoriesArgs { return &listRepositoriesArgs{} },
			r.listRepositories,
		),
		define(
			tool("get_repository", "Get detailed information about a specific repository",
				readOnly("Get Repository"), ownerRepo()),
			cache.RepositoryDetails, []string{TagRead, TagRepos},
			func() *repoArgs { return &repoArgs{} },
			r.getRepository,
		),
		define(
			tool("list_issues", "List issues for a repository",
				readOnly("List Issues"), ownerRepo(),
				[]mcp.ToolOption{
					mcp.WithString("state", mcp.Description("Issue state"),
						mcp.Enum("open", "closed", "all"), mcp.DefaultString("open")),
					mcp.WithString("labels", mcp.Description("Comma-separated list of label names")),
					mcp.WithString("assignee", mcp.Description("Filter by assignee username")),
				},
				pagination()),
			cache.Issues, []string{TagRead, TagIssues},
			func() *listIssuesArgs { return &listIssuesArgs{} },
			r.listIssues,
		),
		defineWrite(
			tool("create_issue", "Create a new issue in a repository",
				mutating("Create Issue", false, false), ownerRepo(),
				[]mcp.ToolOption{
					mcp.WithString("title", mcp.Required(), mcp.Description("Issue title")),
					mcp.WithString("body", mcp.Description("Issue body")),
					mcp.WithArray("labels", mcp.Description("Labels to add to the issue"),
						mcp.Items(map[string]any{"type": "string"})),
					mcp.WithArray("assignees", mcp.Description("Usernames to assign to the issue"),
						mcp.Items(map[string]any{"type": "string"})),
				}),
			TagIssues,
			func() *createIssueArgs { return &createIssueArgs{} },
			r.createIssue,
		),
		define(
			tool("list_pull_requests", "List pull requests for a repository",
				readOnly("List Pull Requests"), ownerRepo(),
				[]mcp.ToolOption{
					mcp.WithString("state", mcp.Description("Pull request state"),
						mcp.Enum("open", "closed", "all"), mcp.DefaultString("open")),
					mcp.WithString("head", mcp.Description("Filter by head user or head organization and branch name (user:ref-name)")),
					mcp.WithString("base", mcp.Description("Filter by base branch name")),
				},
				pagination()),
			cache.PullRequests, []string{TagRead, TagPulls},
			func() *listPullRequestsArgs { return &listPullRequestsArgs{} },
			r.listPullRequests,
		),
		define(
			tool("get_pull_request", "Get a single pull request with merge and diff statistics",
				readOnly("Get Pull Request"), ownerRepo(), pullNumber()),
			cache.PullRequests, []string{TagRead, TagPulls},
			func() *pullArgs { return &pullArgs{prefix: "pr"} },
			r.getPullRequest,
		),
		defineWrite(
			tool("create_pull_request", "Open a pull request from a head branch into a base branch",
				mutating("Create Pull Request", false, false), ownerRepo(),
				[]mcp.ToolOption{
					mcp.WithString("title", mcp.Required(), mcp.Description("Pull request title")),
					mcp.WithString("head", mcp.Required(), mcp.Description("Branch that contains the changes")),
					mcp.WithString("base", mcp.Required(), mcp.Description("Branch the changes should be merged into")),
					mcp.WithString("body", mcp.Description("Pull request description in Markdown")),
					mcp.WithBoolean("draft", mcp.Description("Open the pull request as a draft"), mcp.DefaultBool(false)),
				}),
			TagPulls,
			func() *createPullRequestArgs { return &createPullRequestArgs{} },
			r.createPullRequest,
		),
		defineWrite(
			tool("update_pull_request", "Change the title, description, state or base branch of a pull request",
				mutating("Update Pull Request", false, true), ownerRepo(), pullNumber(),
				[]mcp.ToolOption{
					mcp.WithString("title", mcp.Description("New title")),
					mcp.WithString("body", mcp.Description("New description in Markdown")),
					mcp.WithString("state", mcp.Description("New state"), mcp.Enum("open", "closed")),
					mcp.WithString("base", mcp.Description("New base branch")),
				}),
			TagPulls,
			func() *updatePullRequestArgs { return &updatePullRequestArgs{} },
			r.updatePullRequest,
		),
		defineWrite(
			tool("close_pull_request", "Close a pull request without merging it",
				mutating("Close Pull Request", false, true), ownerRepo(), pullNumber()),
			TagPulls,
			func() *pullArgs { return &pullArgs{} },
			r.closePullRequest,
		),
		defineWrite(
			tool("merge_pull_request", "Merge a pull request with a merge commit, squash or rebase",
				mutating("Merge Pull Request", true, false), ownerRepo(), pullNumber(),
				[]mcp.ToolOption{
					mcp.WithString("merge_method", mcp.Description("Merge method"),
						mcp.Enum("merge", "squash", "rebase"), mcp.DefaultString("merge")),
					mcp.WithString("commit_title", mcp.Description("Title of the merge commit")),
					mcp.WithString("commit_message", mcp.Description("Message of the merge commit")),
				}),
			TagPulls,
			func() *mergePullRequestArgs { return &mergePullRequestArgs{} },
			r.mergePullRequest,
		),
		define(
			tool("list_pull_request_reviews", "List the reviews submitted on a pull request",
				readOnly("List Pull Request Reviews"), ownerRepo(), pullNumber()),
			cache.PullRequests, []string{TagRead, TagPulls},
			func() *pullArgs { return &pullArgs{prefix: "reviews"} },
			r.listReviews,
		),
		defineWrite(
			tool("add_pull_request_review", "Approve, request changes on or comment on a pull request",
				mutating("Add Pull Request Review", false, false), ownerRepo(), pullNumber(),
				[]mcp.ToolOption{
					mcp.WithString("event", mcp.Required(), mcp.Description("Review action"),
						mcp.Enum("APPROVE", "REQUEST_CHANGES", "COMMENT")),
					mcp.WithString("body", mcp.Description("Review comment in Markdown")),
				}),
			TagPulls,
			func() *reviewArgs { return &reviewArgs{} },
			r.addReview,
		),
		define(
			tool("list_branches", "List branches for a repository",
				readOnly("List Branches"), ownerRepo(),
				[]mcp.ToolOption{
					mcp.WithBoolean("protected", mcp.Description("Only return protected branches")),
				},
				pagination()),
			cache.Branches, []string{TagRead, TagRefs},
			func() *listBranchesArgs { return &listBranchesArgs{} },
			r.listBranches,
		),
		define(
			tool("list_tags", "List tags for a repository",
				readOnly("List Tags"), ownerRepo(), pagination()),
			cache.Tags, []string{TagRead, TagRefs},
			func() *pagedRepoArgs { return &pagedRepoArgs{prefix: "tags"} },
			r.listTags,
		),
		define(
			tool("list_releases", "List releases for a repository",
				readOnly("List Releases"), ownerRepo(), pagination()),
			cache.Releases, []string{TagRead, TagRefs},
			func() *pagedRepoArgs { return &pagedRepoArgs{prefix: "releases"} },
			r.listReleases,
		),
		define(
			tool("list_commits", "List commits for a repository",
				readOnly("List Commits"), ownerRepo(),
				[]mcp.ToolOption{
					mcp.WithString("sha", mcp.Description("SHA or branch to start listing commits from")),
					mcp.WithString("path", mcp.Description("Only commits containing this file path")),
					mcp.WithString("author", mcp.Description("GitHub login or email address of the author")),
					mcp.WithString("since", mcp.Description("Only commits after this date (ISO 8601)")),
					mcp.WithString("until", mcp.Description("Only commits before this date (ISO 8601)")),
				},
				pagination()),
			cache.Commits, []string{TagRead, TagRefs},
			func() *listCommitsArgs { return &listCommitsArgs{} },
			r.listCommits,
		),
		define(
			tool("get_file_content", "Read a file, or list a directory, at a path in a repository",
				readOnly("Get File Content"), ownerRepo(),
				[]mcp.ToolOption{
					mcp.WithString("path", mcp.Required(), mcp.Description("Path of the file or directory")),
					mcp.WithString("ref", mcp.Description("Branch, tag or commit SHA (default branch when omitted)")),
				}),
			cache.Commits, []string{TagRead, TagRepos},
			func() *fileContentArgs { return &fileContentArgs{} },
			r.getFileContent,
		),
		define(
			tool("search_repositories", "Search for repositories on GitHub",
				readOnly("Search Repositories"),
				[]mcp.ToolOption{
					mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
					mcp.WithString("sort", mcp.Description("Sort field"),
						mcp.Enum("stars", "forks", "help-wanted-issues", "updated"), mcp.DefaultString("stars")),
					mcp.WithString("order", mcp.Description("Sort order"),
						mcp.Enum("asc", "desc"), mcp.DefaultString("desc")),
				},
				pagination()),
			cache.Search, []string{TagRead, TagSearch},
			func() *searchRepositoriesArgs { return &searchRepositoriesArgs{} },
			r.searchRepositories,
		),
		define(
			tool("get_user_info", "Get information about the authenticated user",
				readOnly("Get User Info")),
			cache.UserInfo, []string{TagRead, TagUser},
			func() *noArgs { return &noArgs{key: cache.Key("user")} },
			r.getUserInfo,
		),
		r.cacheStatsEntry(),
	}
}

func (r *Registry) cacheStatsEntry() entry {
	e := define(
		tool("cache_stats", "Report response cache, TTL table, log and rate limiter statistics",
			readOnly("Cache Statistics")),
		0, []string{TagRead, TagMeta},
		func() *noArgs { return &noArgs{} },
		func(ctx context.Context, _ *noArgs) (any, error) {
			return r.stats(ctx), nil
		},
	)
	e.local = true
	return e
}
