package tools

import (
	"context"
	"fmt"

	"github.com/k3053/GeoInsight.AI/mcp"
)

func (p *Provider) addNumbersTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "add_numbers",
			Description: "Adds two numbers",
			InputSchema: mcp.Schema{
				Type: "object",
				Properties: map[string]*mcp.Schema{
					"num1": {Type: "number"},
					"num2": {Type: "number"},
				},
				Required: []string{"num1", "num2"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			a, okA := argFloat(args, "num1")
			b, okB := argFloat(args, "num2")
			if !okA || !okB {
				return nil, fmt.Errorf("num1 and num2 are required")
			}
			return a + b, nil
		},
	}
}

// webSearchTool queries SerpAPI and condenses the response to the best
// available snippet, mirroring what the model actually consumes: an answer
// box when present, otherwise the top organic result.
func (p *Provider) webSearchTool() CatalogEntry {
	return CatalogEntry{
		Tool: mcp.Tool{
			Name:        "web_search",
			Description: "This tool does the web search using the users query",
			InputSchema: mcp.Schema{
				Type: "object",
				Properties: map[string]*mcp.Schema{
					"query": {Type: "string", Description: "Search query"},
				},
				Required: []string{"query"},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			query := argString(args, "query")
			if query == "" {
				return nil, fmt.Errorf("query is required")
			}
			parsed, err := p.getJSON(ctx, p.endpoints.SerpAPI, map[string]string{
				"q":       query,
				"api_key": p.serpKey,
			})
			if err != nil {
				return nil, err
			}
			return summarizeSearch(parsed), nil
		},
	}
}

func summarizeSearch(parsed any) any {
	body, ok := parsed.(map[string]any)
	if !ok {
		return parsed
	}
	if box, ok := body["answer_box"].(map[string]any); ok {
		if answer, ok := box["answer"].(string); ok && answer != "" {
			return answer
		}
		if snippet, ok := box["snippet"].(string); ok && snippet != "" {
			return snippet
		}
	}
	if organic, ok := body["organic_results"].([]any); ok && len(organic) > 0 {
		if first, ok := organic[0].(map[string]any); ok {
			if snippet, ok := first["snippet"].(string); ok && snippet != "" {
				return snippet
			}
		}
	}
	return parsed
}
