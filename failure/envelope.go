package failure

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// Payload renders d as indented JSON with the keys error, code, status and
// suggestion. Absent status and suggestion are omitted.
func Payload(d Details) string {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return `{"error":` + quote(d.Message) + `,"code":"` + string(d.Code) + `"}`
	}
	return string(b)
}

// Envelope classifies v and wraps the payload in a tool result with
// IsError set.
func Envelope(v any) *mcp.CallToolResult {
	return EnvelopeDetails(Describe(v))
}

// EnvelopeDetails wraps already classified details in a tool result.
func EnvelopeDetails(d Details) *mcp.CallToolResult {
	return mcp.NewToolResultError(Payload(d))
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
