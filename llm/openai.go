package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/k3053/GeoInsight.AI/mcp"
	"github.com/k3053/GeoInsight.AI/models"
)

// OpenAIModel drives any Chat Completions-compatible endpoint with native
// tool calling. A custom base URL covers self-hosted gateways.
type OpenAIModel struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAIModel {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIModel{client: openai.NewClientWithConfig(cfg), model: model}
}

func (m *OpenAIModel) Name() string {
	return m.model
}

func (m *OpenAIModel) Turn(ctx context.Context, systemPrompt string, msgs []models.Message, tools []mcp.Tool) (models.Message, error) {
	req := openai.ChatCompletionRequest{
		Model:    m.model,
		Messages: toOpenAIMessages(systemPrompt, msgs),
		Tools:    toOpenAITools(tools),
	}
	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return models.Message{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Message{}, fmt.Errorf("openai returned no choices")
	}
	return fromOpenAIMessage(resp.Choices[0].Message), nil
}

func toOpenAIMessages(systemPrompt string, msgs []models.Message) []openai.ChatCompletionMessage {
	out := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, msg := range msgs {
		switch msg.Role {
		case models.RoleUser:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: flattenContent(msg.Content),
			})
		case models.RoleAssistant:
			m := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: flattenContent(msg.Content),
			}
			for _, call := range msg.ToolCalls {
				args, _ := json.Marshal(call.Arguments)
				m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			out = append(out, m)
		case models.RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    flattenContent(msg.Content),
				ToolCallID: msg.ToolCallID,
			})
		}
	}
	return out
}

func fromOpenAIMessage(m openai.ChatCompletionMessage) models.Message {
	msg := models.Message{
		Role:    models.RoleAssistant,
		Content: models.TextContent(m.Content),
	}
	for _, call := range m.ToolCalls {
		args := map[string]any{}
		// Malformed arguments degrade to an empty set; the tool will reject
		// them and the model gets another try.
		json.Unmarshal([]byte(call.Function.Arguments), &args)
		msg.ToolCalls = append(msg.ToolCalls, models.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: args,
		})
	}
	return msg
}

func toOpenAITools(tools []mcp.Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		})
	}
	return out
}
