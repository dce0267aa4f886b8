package observe

import (
	"sync"
	"time"
)

// DefaultRecentCapacity is how many log entries a Recorder keeps by default.
const DefaultRecentCapacity = 1000

// Entry is one recorded log line.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Tool      string         `json:"tool,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LogStats summarizes the entries a Recorder currently holds.
type LogStats struct {
	Total   int            `json:"total"`
	ByLevel map[string]int `json:"by_level"`
	ByTool  map[string]int `json:"by_tool"`
}

// Recorder is a fixed-size ring of the most recent log entries. Once full,
// each new entry replaces the oldest one.
type Recorder struct {
	mu    sync.Mutex
	buf   []Entry
	next  int
	count int
}

// NewRecorder creates a recorder holding up to capacity entries. A
// non-positive capacity selects DefaultRecentCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecentCapacity
	}
	return &Recorder{buf: make([]Entry, capacity)}
}

// Capacity returns the maximum number of retained entries.
func (r *Recorder) Capacity() int {
	return len(r.buf)
}

func (r *Recorder) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = e
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Recent returns up to n of the newest entries, oldest first. A
// non-positive n returns every retained entry.
func (r *Recorder) Recent(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || n > r.count {
		n = r.count
	}
	out := make([]Entry, n)
	start := (r.next - n + len(r.buf)) % len(r.buf)
	for i := range n {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Stats counts retained entries by level and by tool. Every level key is
// always present.
func (r *Recorder) Stats() LogStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := LogStats{
		Total: r.count,
		ByLevel: map[string]int{
			LevelDebug.String(): 0,
			LevelInfo.String():  0,
			LevelWarn.String():  0,
			LevelError.String(): 0,
		},
		ByTool: make(map[string]int),
	}
	start := (r.next - r.count + len(r.buf)) % len(r.buf)
	for i := range r.count {
		e := r.buf[(start+i)%len(r.buf)]
		stats.ByLevel[e.Level]++
		if e.Tool != "" {
			stats.ByTool[e.Tool]++
		}
	}
	return stats
}

// Clear drops every retained entry.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.buf)
	r.next = 0
	r.count = 0
}
