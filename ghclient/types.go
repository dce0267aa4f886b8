package ghclient

import "time"

// Repository is the reshaped form of a GitHub repository.
type Repository struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	Owner         *string    `json:"owner"`
	Description   string     `json:"description"`
	Private       bool       `json:"private"`
	Visibility    string     `json:"visibility,omitempty"`
	Language      string     `json:"language"`
	Stars         int        `json:"stars"`
	Forks         int        `json:"forks"`
	Watchers      *int       `json:"watchers,omitempty"`
	OpenIssues    int        `json:"open_issues"`
	DefaultBranch string     `json:"default_branch,omitempty"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	PushedAt      *time.Time `json:"pushed_at,omitempty"`
	HTMLURL       string     `json:"html_url"`
	CloneURL      string     `json:"clone_url"`
	SSHURL        string     `json:"ssh_url,omitempty"`
	Topics        []string   `json:"topics,omitempty"`
	License       *string    `json:"license,omitempty"`
	Archived      *bool      `json:"archived,omitempty"`
	Disabled      *bool      `json:"disabled,omitempty"`
}

// SearchResult is one page of repository search results.
type SearchResult struct {
	TotalCount   int          `json:"total_count"`
	Repositories []Repository `json:"repositories"`
}

// Label is an issue label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue is the reshaped form of a GitHub issue.
type Issue struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	State       string     `json:"state"`
	User        *string    `json:"user"`
	Labels      []Label    `json:"labels"`
	Assignees   []string   `json:"assignees"`
	Comments    int        `json:"comments"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	HTMLURL     string     `json:"html_url"`
	PullRequest bool       `json:"pull_request"`
}

// CreatedIssue is the summary returned after creating an issue.
type CreatedIssue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	HTMLURL   string     `json:"html_url"`
	CreatedAt *time.Time `json:"created_at"`
}

// BranchRef identifies one side of a pull request.
type BranchRef struct {
	Ref  string  `json:"ref"`
	SHA  string  `json:"sha"`
	Repo *string `json:"repo,omitempty"`
}

// PullRequest is the reshaped form of a GitHub pull request.
type PullRequest struct {
	Number         int        `json:"number"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	State          string     `json:"state"`
	Draft          bool       `json:"draft"`
	User           *string    `json:"user"`
	Head           BranchRef  `json:"head"`
	Base           BranchRef  `json:"base"`
	Merged         *bool      `json:"merged"`
	Mergeable      *bool      `json:"mergeable"`
	MergeableState *string    `json:"mergeable_state"`
	Comments       *int       `json:"comments"`
	ReviewComments *int       `json:"review_comments"`
	Commits        *int       `json:"commits"`
	Additions      *int       `json:"additions"`
	Deletions      *int       `json:"deletions"`
	ChangedFiles   *int       `json:"changed_files"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	ClosedAt       *time.Time `json:"closed_at"`
	MergedAt       *time.Time `json:"merged_at"`
	HTMLURL        string     `json:"html_url"`
	DiffURL        string     `json:"diff_url,omitempty"`
	PatchURL       string     `json:"patch_url,omitempty"`
}

// CreatedPullRequest is the summary returned after opening a pull request.
type CreatedPullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	Draft     bool       `json:"draft"`
	User      *string    `json:"user"`
	Head      BranchRef  `json:"head"`
	Base      BranchRef  `json:"base"`
	HTMLURL   string     `json:"html_url"`
	CreatedAt *time.Time `json:"created_at"`
}

// UpdatedPullRequest is the summary returned after editing a pull request.
type UpdatedPullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"`
	Draft     bool       `json:"draft"`
	Base      BranchRef  `json:"base"`
	HTMLURL   string     `json:"html_url"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ClosedPullRequest is the summary returned after closing a pull request.
type ClosedPullRequest struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	State    string     `json:"state"`
	ClosedAt *time.Time `json:"closed_at"`
	HTMLURL  string     `json:"html_url"`
}

// MergeResult reports the outcome of a merge.
type MergeResult struct {
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
	SHA     string `json:"sha"`
}

// Review is a pull request review.
type Review struct {
	ID          int64      `json:"id"`
	State       string     `json:"state"`
	Body        string     `json:"body"`
	User        *string    `json:"user"`
	SubmittedAt *time.Time `json:"submitted_at"`
	HTMLURL     string     `json:"html_url"`
}

// Contents is what a repository path resolves to. Exactly one of File and
// Directory is set.
type Contents struct {
	File      *File
	Directory *Directory
}

// File is a single file with its content decoded.
type File struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Size        int     `json:"size"`
	SHA         string  `json:"sha"`
	Encoding    *string `json:"encoding"`
	Content     string  `json:"content"`
	DownloadURL *string `json:"download_url"`
	HTMLURL     string  `json:"html_url"`
}

// Directory is a directory listing.
type Directory struct {
	Type  string          `json:"type"`
	Path  string          `json:"path"`
	Items []DirectoryItem `json:"items"`
}

// DirectoryItem is one entry of a directory listing.
type DirectoryItem struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
	Size int    `json:"size"`
	SHA  string `json:"sha"`
	URL  string `json:"url"`
}

// CommitRef is a commit pointer.
type CommitRef struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

// Branch is a repository branch.
type Branch struct {
	Name      string    `json:"name"`
	Protected bool      `json:"protected"`
	Commit    CommitRef `json:"commit"`
}

// Tag is a repository tag.
type Tag struct {
	Name       string    `json:"name"`
	Commit     CommitRef `json:"commit"`
	ZipballURL string    `json:"zipball_url"`
	TarballURL string    `json:"tarball_url"`
}

// Release is a published or draft release.
type Release struct {
	ID          int64      `json:"id"`
	TagName     string     `json:"tag_name"`
	Name        string     `json:"name"`
	Body        string     `json:"body"`
	Draft       bool       `json:"draft"`
	Prerelease  bool       `json:"prerelease"`
	Author      *string    `json:"author"`
	CreatedAt   *time.Time `json:"created_at"`
	PublishedAt *time.Time `json:"published_at"`
	HTMLURL     string     `json:"html_url"`
}

// Commit is a repository commit.
type Commit struct {
	SHA         string     `json:"sha"`
	Message     string     `json:"message"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail string     `json:"author_email"`
	Author      *string    `json:"author"`
	Date        *time.Time `json:"date"`
	HTMLURL     string     `json:"html_url"`
}

// User is the authenticated GitHub user.
type User struct {
	ID          int64      `json:"id"`
	Login       string     `json:"login"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Bio         string     `json:"bio"`
	Company     string     `json:"company"`
	Blog        string     `json:"blog"`
	Location    string     `json:"location"`
	PublicRepos int        `json:"public_repos"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	HTMLURL     string     `json:"html_url"`
	AvatarURL   string     `json:"avatar_url"`
}

// Rate is the quota state of one API resource.
type Rate struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// RateLimits holds the quotas the tools consume.
type RateLimits struct {
	Core   Rate `json:"core"`
	Search Rate `json:"search"`
}
