package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jonwraymond/ghtools/cache"
	"github.com/jonwraymond/ghtools/ghclient"
)

// arguments is implemented by every tool's argument struct.
type arguments interface {
	validation.Validatable

	// normalize trims strings and applies defaults so equivalent calls
	// share a cache key.
	normalize()

	// cacheKey returns the cache key for the normalized arguments.
	cacheKey() string
}

// Pagination defaults.
const (
	defaultPage    = 1
	defaultPerPage = 30
)

// bind decodes raw tool arguments into a, normalizes and validates them.
func bind(raw map[string]any, a arguments) error {
	if len(raw) > 0 {
		data, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		if err := json.Unmarshal(data, a); err != nil {
			return fmt.Errorf("invalid arguments: %s", describeJSONError(err))
		}
	}
	a.normalize()
	return a.Validate()
}

func describeJSONError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind())
	}
	return err.Error()
}

type paging struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func (p *paging) normalize() {
	if p.Page == 0 {
		p.Page = defaultPage
	}
	if p.PerPage == 0 {
		p.PerPage = defaultPerPage
	}
	p.PerPage = min(p.PerPage, ghclient.MaxPerPage)
}

func (p *paging) rules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&p.Page, validation.Min(1)),
		validation.Field(&p.PerPage, validation.Min(1)),
	}
}

func (p paging) page() ghclient.Page {
	return ghclient.Page{Page: p.Page, PerPage: p.PerPage}
}

func normalizeName(s string) string {
	return strings.TrimSpace(s)
}

// keyName lowercases owner and repo names, which GitHub treats
// case-insensitively.
func keyName(s string) string {
	return strings.ToLower(s)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var (
	states       = []any{"open", "closed", "all"}
	visibilities = []any{"all", "public", "private"}
	repoTypes    = []any{"all", "owner", "member"}
	repoSorts    = []any{"created", "updated", "pushed", "full_name"}
	directions   = []any{"asc", "desc"}
	searchSorts  = []any{"stars", "forks", "help-wanted-issues", "updated"}
	mergeMethods = []any{"merge", "squash", "rebase"}
	prStates     = []any{"open", "closed"}
	reviewEvents = []any{"APPROVE", "REQUEST_CHANGES", "COMMENT"}
)

type listRepositoriesArgs struct {
	Visibility string `json:"visibility"`
	Type       string `json:"type"`
	Sort       string `json:"sort"`
	Direction  string `json:"direction"`
	paging
}

func (a *listRepositoriesArgs) normalize() {
	a.Visibility = orDefault(normalizeName(a.Visibility), "all")
	a.Type = orDefault(normalizeName(a.Type), "all")
	a.Sort = orDefault(normalizeName(a.Sort), "updated")
	a.Direction = orDefault(normalizeName(a.Direction), "desc")
	a.paging.normalize()
}

func (a *listRepositoriesArgs) Validate() error {
	return validation.ValidateStruct(a, append([]*validation.FieldRules{
		validation.Field(&a.Visibility, validation.In(visibilities...)),
		validation.Field(&a.Type, validation.In(repoTypes...)),
		validation.Field(&a.Sort, validation.In(repoSorts...)),
		validation.Field(&a.Direction, validation.In(directions...)),
	}, a.paging.rules()...)...)
}

func (a *listRepositoriesArgs) cacheKey() string {
	return cache.Key("repos", a.Visibility, a.Type, a.Sort, a.Direction, a.Page, a.PerPage)
}

func (a *listRepositoriesArgs) options() ghclient.ListRepositoriesOptions {
	return ghclient.ListRepositoriesOptions{
		Visibility: a.Visibility,
		Type:       a.Type,
		Sort:       a.Sort,
		Direction:  a.Direction,
		Page:       a.page(),
	}
}

type repoArgs struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (a *repoArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
}

func (a *repoArgs) Validate() error {
	return validation.ValidateStruct(a, a.rules()...)
}

func (a *repoArgs) rules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
	}
}

func (a *repoArgs) cacheKey() string {
	return cache.Key("repo", keyName(a.Owner), keyName(a.Repo))
}

type listIssuesArgs struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	State    string `json:"state"`
	Labels   string `json:"labels"`
	Assignee string `json:"assignee"`
	paging
}

func (a *listIssuesArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
	a.State = orDefault(normalizeName(a.State), "open")
	a.Labels = strings.Join(splitList(a.Labels), ",")
	a.Assignee = normalizeName(a.Assignee)
	a.paging.normalize()
}

func (a *listIssuesArgs) Validate() error {
	return validation.ValidateStruct(a, append([]*validation.FieldRules{
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
		validation.Field(&a.State, validation.In(states...)),
	}, a.paging.rules()...)...)
}

func (a *listIssuesArgs) cacheKey() string {
	return cache.Key("issues", keyName(a.Owner), keyName(a.Repo), a.State, a.Labels, a.Assignee, a.Page, a.PerPage)
}

func (a *listIssuesArgs) options() ghclient.ListIssuesOptions {
	return ghclient.ListIssuesOptions{
		State:    a.State,
		Labels:   splitList(a.Labels),
		Assignee: a.Assignee,
		Page:     a.page(),
	}
}

type listPullRequestsArgs struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	State string `json:"state"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	paging
}

func (a *listPullRequestsArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
	a.State = orDefault(normalizeName(a.State), "open")
	a.Head = normalizeName(a.Head)
	a.Base = normalizeName(a.Base)
	a.paging.normalize()
}

func (a *listPullRequestsArgs) Validate() error {
	return validation.ValidateStruct(a, append([]*validation.FieldRules{
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
		validation.Field(&a.State, validation.In(states...)),
	}, a.paging.rules()...)...)
}

func (a *listPullRequestsArgs) cacheKey() string {
	return cache.Key("prs", keyName(a.Owner), keyName(a.Repo), a.State, a.Head, a.Base, a.Page, a.PerPage)
}

func (a *listPullRequestsArgs) options() ghclient.ListPullRequestsOptions {
	return ghclient.ListPullRequestsOptions{State: a.State, Head: a.Head, Base: a.Base, Page: a.page()}
}

// pullArgs addresses one pull request. prefix names the cached read it
// keys, "pr" or "reviews".
type pullArgs struct {
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
	PullNumber int    `json:"pull_number"`
	prefix     string
}

func (a *pullArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
}

func (a *pullArgs) rules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
		validation.Field(&a.PullNumber, validation.Required, validation.Min(1)),
	}
}

func (a *pullArgs) Validate() error {
	return validation.ValidateStruct(a, a.rules()...)
}

func (a *pullArgs) cacheKey() string {
	return a.keyFor(a.prefix)
}

func (a *pullArgs) keyFor(prefix string) string {
	return cache.Key(prefix, keyName(a.Owner), keyName(a.Repo), a.PullNumber)
}

// staleKeys lists the cached reads of this pull request.
func (a *pullArgs) staleKeys() []string {
	return []string{a.keyFor("pr"), a.keyFor("reviews")}
}

type listBranchesArgs struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	Protected bool   `json:"protected"`
	paging
}

func (a *listBranchesArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
	a.paging.normalize()
}

func (a *listBranchesArgs) Validate() error {
	return validation.ValidateStruct(a, append([]*validation.FieldRules{
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
	}, a.paging.rules()...)...)
}

func (a *listBranchesArgs) cacheKey() string {
	return cache.Key("branches", keyName(a.Owner), keyName(a.Repo), a.Protected, a.Page, a.PerPage)
}

// pagedRepoArgs serves list_tags and list_releases.
type pagedRepoArgs struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	paging

	prefix string
}

func (a *pagedRepoArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
	a.paging.normalize()
}

func (a *pagedRepoArgs) Validate() error {
	return validation.ValidateStruct(a, append([]*validation.FieldRules{
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
	}, a.paging.rules()...)...)
}

func (a *pagedRepoArgs) cacheKey() string {
	return cache.Key(a.prefix, keyName(a.Owner), keyName(a.Repo), a.Page, a.PerPage)
}

type listCommitsArgs struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	SHA    string `json:"sha"`
	Path   string `json:"path"`
	Author string `json:"author"`
	Since  string `json:"since"`
	Until  string `json:"until"`
	paging
}

func (a *listCommitsArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
	a.SHA = normalizeName(a.SHA)
	a.Path = normalizeName(a.Path)
	a.Author = normalizeName(a.Author)
	a.Since = normalizeName(a.Since)
	a.Until = normalizeName(a.Until)
	a.paging.normalize()
}

func (a *listCommitsArgs) Validate() error {
	return validation.ValidateStruct(a, append([]*validation.FieldRules{
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
		validation.Field(&a.Since, validation.Date(time.RFC3339).Error("must be an ISO 8601 timestamp")),
		validation.Field(&a.Until, validation.Date(time.RFC3339).Error("must be an ISO 8601 timestamp")),
	}, a.paging.rules()...)...)
}

func (a *listCommitsArgs) cacheKey() string {
	return cache.Key("commits", keyName(a.Owner), keyName(a.Repo), a.SHA, a.Path, a.Author, a.Since, a.Until, a.Page, a.PerPage)
}

func (a *listCommitsArgs) options() ghclient.ListCommitsOptions {
	opts := ghclient.ListCommitsOptions{SHA: a.SHA, Path: a.Path, Author: a.Author, Page: a.page()}
	opts.Since, _ = time.Parse(time.RFC3339, a.Since)
	opts.Until, _ = time.Parse(time.RFC3339, a.Until)
	return opts
}

type searchRepositoriesArgs struct {
	Query string `json:"query"`
	Sort  string `json:"sort"`
	Order string `json:"order"`
	paging
}

func (a *searchRepositoriesArgs) normalize() {
	a.Query = strings.TrimSpace(a.Query)
	a.Sort = orDefault(normalizeName(a.Sort), "stars")
	a.Order = orDefault(normalizeName(a.Order), "desc")
	a.paging.normalize()
}

func (a *searchRepositoriesArgs) Validate() error {
	return validation.ValidateStruct(a, append([]*validation.FieldRules{
		validation.Field(&a.Query, validation.Required),
		validation.Field(&a.Sort, validation.In(searchSorts...)),
		validation.Field(&a.Order, validation.In(directions...)),
	}, a.paging.rules()...)...)
}

func (a *searchRepositoriesArgs) cacheKey() string {
	return cache.Key("search", a.Query, a.Sort, a.Order, a.Page, a.PerPage)
}

type noArgs struct {
	key string
}

func (a *noArgs) normalize()       {}
func (a *noArgs) Validate() error  { return nil }
func (a *noArgs) cacheKey() string { return a.key }

type createIssueArgs struct {
	Owner     string   `json:"owner"`
	Repo      string   `json:"repo"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels"`
	Assignees []string `json:"assignees"`
}

func (a *createIssueArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
	a.Title = strings.TrimSpace(a.Title)
}

func (a *createIssueArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
		validation.Field(&a.Title, validation.Required),
	)
}

// cacheKey is never consulted: create_issue is tagged write.
func (a *createIssueArgs) cacheKey() string { return "" }

func (a *createIssueArgs) request() ghclient.CreateIssueRequest {
	return ghclient.CreateIssueRequest{Title: a.Title, Body: a.Body, Labels: a.Labels, Assignees: a.Assignees}
}

type fileContentArgs struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Path  string `json:"path"`
	Ref   string `json:"ref"`
}

func (a *fileContentArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
	a.Path = strings.TrimSpace(a.Path)
	a.Ref = strings.TrimSpace(a.Ref)
}

func (a *fileContentArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
		validation.Field(&a.Path, validation.Required),
	)
}

// cacheKey keeps path and ref case-sensitive; only owner and repo fold.
func (a *fileContentArgs) cacheKey() string {
	return cache.Key("file", keyName(a.Owner), keyName(a.Repo), a.Path, a.Ref)
}

type createPullRequestArgs struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body"`
	Draft bool   `json:"draft"`
}

func (a *createPullRequestArgs) normalize() {
	a.Owner = normalizeName(a.Owner)
	a.Repo = normalizeName(a.Repo)
	a.Title = strings.TrimSpace(a.Title)
	a.Head = strings.TrimSpace(a.Head)
	a.Base = strings.TrimSpace(a.Base)
}

func (a *createPullRequestArgs) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Owner, validation.Required),
		validation.Field(&a.Repo, validation.Required),
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Head, validation.Required),
		validation.Field(&a.Base, validation.Required),
	)
}

func (a *createPullRequestArgs) cacheKey() string { return "" }

func (a *createPullRequestArgs) request() ghclient.CreatePullRequestRequest {
	return ghclient.CreatePullRequestRequest{Title: a.Title, Head: a.Head, Base: a.Base, Body: a.Body, Draft: a.Draft}
}

type mergePullRequestArgs struct {
	pullArgs
	MergeMethod   string `json:"merge_method"`
	CommitTitle   string `json:"commit_title"`
	CommitMessage string `json:"commit_message"`
}

func (a *mergePullRequestArgs) normalize() {
	a.pullArgs.normalize()
	a.MergeMethod = orDefault(strings.TrimSpace(a.MergeMethod), "merge")
}

func (a *mergePullRequestArgs) Validate() error {
	return validation.ValidateStruct(a, append(a.pullArgs.rules(),
		validation.Field(&a.MergeMethod, validation.In(mergeMethods...)),
	)...)
}

func (a *mergePullRequestArgs) cacheKey() string { return "" }

func (a *mergePullRequestArgs) request() ghclient.MergePullRequestRequest {
	return ghclient.MergePullRequestRequest{Method: a.MergeMethod, CommitTitle: a.CommitTitle, CommitMessage: a.CommitMessage}
}

type updatePullRequestArgs struct {
	pullArgs
	Title string  `json:"title"`
	Body  *string `json:"body"`
	State string  `json:"state"`
	Base  string  `json:"base"`
}

func (a *updatePullRequestArgs) normalize() {
	a.pullArgs.normalize()
	a.Title = strings.TrimSpace(a.Title)
	a.State = strings.TrimSpace(a.State)
	a.Base = strings.TrimSpace(a.Base)
}

func (a *updatePullRequestArgs) Validate() error {
	return validation.ValidateStruct(a, append(a.pullArgs.rules(),
		validation.Field(&a.State, validation.In(prStates...)),
	)...)
}

func (a *updatePullRequestArgs) cacheKey() string { return "" }

func (a *updatePullRequestArgs) request() ghclient.UpdatePullRequestRequest {
	return ghclient.UpdatePullRequestRequest{Title: a.Title, Body: a.Body, State: a.State, Base: a.Base}
}

type reviewArgs struct {
	pullArgs
	Event string `json:"event"`
	Body  string `json:"body"`
}

func (a *reviewArgs) normalize() {
	a.pullArgs.normalize()
	a.Event = strings.TrimSpace(a.Event)
}

func (a *reviewArgs) Validate() error {
	return validation.ValidateStruct(a, append(a.pullArgs.rules(),
		validation.Field(&a.Event, validation.Required, validation.In(reviewEvents...)),
	)...)
}

func (a *reviewArgs) cacheKey() string { return "" }

func (a *reviewArgs) request() ghclient.CreateReviewRequest {
	return ghclient.CreateReviewRequest{Event: a.Event, Body: a.Body}
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
