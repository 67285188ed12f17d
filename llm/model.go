// Package llm holds the model backends the agent runtime drives. Both
// backends speak the same Model contract: given the conversation so far and
// the advertised tool catalog, produce the next assistant message, which
// either requests tool calls or is the final answer.
package llm

import (
	"context"
	"strings"

	"github.com/k3053/GeoInsight.AI/mcp"
	"github.com/k3053/GeoInsight.AI/models"
)

// Model is a single hosted language model handle. Implementations are safe
// for concurrent use; all state lives in the message slice.
type Model interface {
	Name() string
	Turn(ctx context.Context, systemPrompt string, msgs []models.Message, tools []mcp.Tool) (models.Message, error)
}

// flattenContent renders a message body as plain text for backends whose
// wire format takes a single string.
func flattenContent(c models.Content) string {
	if !c.IsParts() {
		return c.Text
	}
	var texts []string
	for _, part := range c.Parts {
		if part.Type == "text" && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}
