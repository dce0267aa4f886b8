// Package observe provides tracing, metrics and structured logging for
// GitHub tool calls.
//
// The logger writes one JSON object per line to stderr, since stdout carries
// the stdio MCP transport. A Recorder attached to the logger keeps the most
// recent entries in memory so the server can report log statistics without
// an external sink. Middleware wraps a tool call with a span, execution
// metrics and start/end log lines.
package observe
