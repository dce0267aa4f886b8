package cache

import (
	"strings"
	"time"
)

// Resource is a category of GitHub data with its own freshness window.
type Resource int

const (
	RepositoryList Resource = iota
	RepositoryDetails
	UserInfo
	Branches
	Tags
	Releases
	Commits
	Issues
	PullRequests
	Search
)

// resourceTTLs reflects how quickly each upstream resource changes.
// Search results go stale fastest, the authenticated user's profile slowest.
var resourceTTLs = map[Resource]time.Duration{
	RepositoryList:    5 * time.Minute,
	RepositoryDetails: 10 * time.Minute,
	UserInfo:          15 * time.Minute,
	Branches:          5 * time.Minute,
	Tags:              10 * time.Minute,
	Releases:          5 * time.Minute,
	Commits:           2 * time.Minute,
	Issues:            2 * time.Minute,
	PullRequests:      2 * time.Minute,
	Search:            1 * time.Minute,
}

var resourceNames = map[Resource]string{
	RepositoryList:    "REPOSITORY_LIST",
	RepositoryDetails: "REPOSITORY_DETAILS",
	UserInfo:          "USER_INFO",
	Branches:          "BRANCHES",
	Tags:              "TAGS",
	Releases:          "RELEASES",
	Commits:           "COMMITS",
	Issues:            "ISSUES",
	PullRequests:      "PRS",
	Search:            "SEARCH",
}

// Resources lists every resource category in declaration order.
func Resources() []Resource {
	return []Resource{
		RepositoryList, RepositoryDetails, UserInfo, Branches, Tags,
		Releases, Commits, Issues, PullRequests, Search,
	}
}

// TTL returns how long responses for r stay fresh. Unknown resources get 0,
// which Set treats as "use the cache default".
func (r Resource) TTL() time.Duration {
	return resourceTTLs[r]
}

// Millis returns TTL in milliseconds.
func (r Resource) Millis() int64 {
	return r.TTL().Milliseconds()
}

// String returns the symbolic name of the resource.
func (r Resource) String() string {
	if name, ok := resourceNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// TTLTable returns the resource table keyed by symbolic name, in milliseconds.
func TTLTable() map[string]int64 {
	table := make(map[string]int64, len(resourceTTLs))
	for r := range resourceTTLs {
		table[r.String()] = r.Millis()
	}
	return table
}

// ParseResource maps a symbolic name (case-insensitive, e.g. "commits" or
// "REPOSITORY_LIST") to its Resource.
func ParseResource(name string) (Resource, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for r, n := range resourceNames {
		if n == upper {
			return r, true
		}
	}
	return 0, false
}
