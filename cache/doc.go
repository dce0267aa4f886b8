// Package cache provides short-lived memoization of GitHub tool responses.
//
// MemoryCache is an in-process key/value store with per-entry TTLs and lazy
// expiry: expired entries are dropped when a read finds them, and Cleanup
// sweeps the rest. The cache owns no goroutines; a Sweeper driven by the
// caller invokes Cleanup on a schedule.
//
// Keys are built with Key, which joins a prefix and scalar parts with ":",
// escaping any ":" inside a part.
// The TTL table in ttl.go maps each GitHub resource category to how long its
// responses stay fresh.
package cache
