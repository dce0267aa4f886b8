// Package tools registers the GitHub MCP tools and resources.
//
// Every call runs through one pipeline: the observe middleware opens a span,
// records metrics and logs start and end; the authorizer checks the caller's
// identity against the tool's tags; arguments are decoded, defaulted and
// validated; cacheable tools consult the response cache under a key built
// from the normalized arguments and the per-resource TTL; misses reach
// GitHub through the resilience executor. Successful responses are indented
// JSON text. Any failure becomes a failure.Envelope, so handlers never
// return a Go error to the MCP server.
//
// Tools that change GitHub state (create_issue and the pull request
// create, update, close, merge and review tools) are tagged write and never
// cached. A successful pull request write drops the cached get_pull_request
// and list_pull_request_reviews entries for that pull request. cache_stats
// is answered locally.
package tools
