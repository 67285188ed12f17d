package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/k3053/GeoInsight.AI/mcp"
	"github.com/k3053/GeoInsight.AI/models"
)

// GeminiModel drives a Gemini model with function calling enabled.
type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) Name() string {
	return m.model
}

func (m *GeminiModel) Close() {
	m.client.Close()
}

func (m *GeminiModel) Turn(ctx context.Context, systemPrompt string, msgs []models.Message, tools []mcp.Tool) (models.Message, error) {
	gm := m.client.GenerativeModel(m.model)
	gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	if len(tools) > 0 {
		gm.Tools = []*genai.Tool{{FunctionDeclarations: toGeminiDeclarations(tools)}}
	}

	contents := toGeminiContents(msgs)
	if len(contents) == 0 {
		return models.Message{}, fmt.Errorf("empty conversation")
	}

	cs := gm.StartChat()
	cs.History = contents[:len(contents)-1]
	resp, err := cs.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return models.Message{}, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return models.Message{}, fmt.Errorf("gemini returned no candidates")
	}
	return fromGeminiContent(resp.Candidates[0].Content), nil
}

// toGeminiContents converts the conversation to Gemini turns. Assistant
// messages become "model" turns carrying text and function-call parts; tool
// results ride as function-response parts. Consecutive same-role turns are
// merged so the alternation the API expects is preserved.
func toGeminiContents(msgs []models.Message) []*genai.Content {
	var contents []*genai.Content
	appendParts := func(role string, parts []genai.Part) {
		if len(parts) == 0 {
			return
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, parts...)
			return
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	for _, msg := range msgs {
		switch msg.Role {
		case models.RoleUser:
			appendParts("user", []genai.Part{genai.Text(flattenContent(msg.Content))})
		case models.RoleAssistant:
			var parts []genai.Part
			if text := flattenContent(msg.Content); text != "" {
				parts = append(parts, genai.Text(text))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: call.Name, Args: call.Arguments})
			}
			appendParts("model", parts)
		case models.RoleTool:
			appendParts("user", []genai.Part{genai.FunctionResponse{
				Name:     msg.ToolName,
				Response: map[string]any{"result": parseToolOutput(flattenContent(msg.Content))},
			}})
		}
	}
	return contents
}

// parseToolOutput restores JSON structure for the model where possible; raw
// text is passed through untouched.
func parseToolOutput(text string) any {
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return text
	}
	return parsed
}

func fromGeminiContent(content *genai.Content) models.Message {
	msg := models.Message{Role: models.RoleAssistant}
	var textParts []models.ContentPart
	for _, part := range content.Parts {
		switch p := part.(type) {
		case genai.Text:
			textParts = append(textParts, models.ContentPart{Type: "text", Text: string(p)})
		case genai.FunctionCall:
			msg.ToolCalls = append(msg.ToolCalls, models.ToolCall{
				ID:        uuid.NewString(),
				Name:      p.Name,
				Arguments: p.Args,
			})
		}
	}
	switch len(textParts) {
	case 0:
		msg.Content = models.TextContent("")
	case 1:
		msg.Content = models.TextContent(textParts[0].Text)
	default:
		msg.Content = models.PartsContent(textParts...)
	}
	return msg
}

func toGeminiDeclarations(tools []mcp.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		schema := tool.InputSchema
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toGeminiSchema(&schema),
		})
	}
	return decls
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func toGeminiSchema(s *mcp.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        geminiTypes[s.Type],
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGeminiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}
