package models

import "time"

// Conversation roles. Ordering of messages is chronological and significant:
// the slice is the entire working memory handed to the model each turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ContentPart is one typed element of a multi-part message body. Only parts
// with Type "text" carry answer text; other kinds (images etc.) are opaque.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Content is a tagged union: either a plain string or a list of typed parts.
// Parts being non-nil marks the parts variant, even when the list is empty.
type Content struct {
	Text  string        `json:"text,omitempty"`
	Parts []ContentPart `json:"parts,omitempty"`
}

// TextContent wraps a plain string body.
func TextContent(s string) Content {
	return Content{Text: s}
}

// PartsContent wraps a typed part list body.
func PartsContent(parts ...ContentPart) Content {
	if parts == nil {
		parts = []ContentPart{}
	}
	return Content{Parts: parts}
}

// IsParts reports whether the parts variant is set.
func (c Content) IsParts() bool {
	return c.Parts != nil
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Message is one role-tagged entry of the conversation. Tool-result messages
// carry the id of the call they answer plus the tool's name, which the
// extractor uses to find geocode output.
type Message struct {
	Role       string     `json:"role"`
	Content    Content    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// AgentResult is the final conversation state of one agent run: zero or more
// tool-call/tool-result pairs followed by one final assistant message.
type AgentResult struct {
	Messages []Message `json:"messages"`
}

// ChatHistoryEntry is one persisted history row. Append-only; this system
// never mutates or deletes entries.
type ChatHistoryEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
