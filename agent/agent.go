// Package agent runs the tool-calling loop: the model decides each turn
// whether to invoke a tool or produce the final answer, tool calls are
// executed over the transport session, and their results are fed back until
// the model stops asking.
package agent

import (
	"context"
	"fmt"
	"log"

	"github.com/k3053/GeoInsight.AI/llm"
	"github.com/k3053/GeoInsight.AI/mcp"
	"github.com/k3053/GeoInsight.AI/models"
)

// maxSteps guards against a model that never stops calling tools. The real
// bound on a run is the caller's wall-clock timeout.
const maxSteps = 16

// RunRequest is one agent invocation. ThreadID keys checkpointed state;
// coordinates and a client-supplied transcript are optional context.
type RunRequest struct {
	Message     string
	ThreadID    string
	Latitude    *float64
	Longitude   *float64
	ChatHistory []models.HistoryTurn
}

// Runner owns the model handle and checkpoint store; both are process-wide
// and shared across requests.
type Runner struct {
	model        llm.Model
	checkpointer *Checkpointer
}

func NewRunner(model llm.Model, checkpointer *Checkpointer) *Runner {
	return &Runner{model: model, checkpointer: checkpointer}
}

// Run executes one conversation turn against an open tool session and
// returns the full final conversation state. The context bounds the whole
// run; a deadline hit surfaces as ctx.Err.
func (r *Runner) Run(ctx context.Context, session mcp.Session, req RunRequest) (models.AgentResult, error) {
	msgs := r.buildConversation(req)
	tools := session.Tools()

	for step := 0; step < maxSteps; step++ {
		reply, err := r.model.Turn(ctx, SystemPrompt, msgs, tools)
		if err != nil {
			return models.AgentResult{}, fmt.Errorf("model turn: %w", err)
		}
		msgs = append(msgs, reply)

		if len(reply.ToolCalls) == 0 {
			r.checkpointer.Save(req.ThreadID, msgs)
			return models.AgentResult{Messages: msgs}, nil
		}

		for _, call := range reply.ToolCalls {
			output, err := session.CallTool(ctx, call.Name, call.Arguments)
			if err != nil {
				if ctx.Err() != nil {
					return models.AgentResult{}, ctx.Err()
				}
				// Transport-level failure degrades like a tool miss: the
				// model is told there was no result and decides what to do.
				log.Printf("tool call %s failed: %v", call.Name, err)
				output = "null"
			}
			msgs = append(msgs, models.Message{
				Role:       models.RoleTool,
				Content:    models.TextContent(output),
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}

	return models.AgentResult{}, fmt.Errorf("agent exceeded %d tool steps without a final answer", maxSteps)
}

// buildConversation assembles the working memory for this turn: checkpointed
// prior messages for the thread, any client-supplied transcript, an optional
// coordinates note, then the new user message.
func (r *Runner) buildConversation(req RunRequest) []models.Message {
	msgs := r.checkpointer.Load(req.ThreadID)

	// The client transcript only seeds a conversation the checkpointer has
	// not seen; checkpointed state already contains those turns.
	if len(msgs) == 0 {
		for _, turn := range req.ChatHistory {
			role := models.RoleUser
			if turn.Sender != "user" {
				role = models.RoleAssistant
			}
			msgs = append(msgs, models.Message{Role: role, Content: models.TextContent(turn.Text)})
		}
	}

	if req.Latitude != nil && req.Longitude != nil {
		note := fmt.Sprintf("Current location context: latitude=%v, longitude=%v", *req.Latitude, *req.Longitude)
		msgs = append(msgs, models.Message{Role: models.RoleUser, Content: models.TextContent(note)})
	}

	return append(msgs, models.Message{Role: models.RoleUser, Content: models.TextContent(req.Message)})
}
