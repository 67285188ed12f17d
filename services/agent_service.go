package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/k3053/GeoInsight.AI/agent"
	"github.com/k3053/GeoInsight.AI/extract"
	"github.com/k3053/GeoInsight.AI/mcp"
	"github.com/k3053/GeoInsight.AI/models"
)

// ErrAgentTimeout marks a run that exceeded the wall-clock budget; the API
// layer maps it to 504.
var ErrAgentTimeout = errors.New("agent timed out while processing the request")

const defaultThreadID = "default"

// agentRunner is the slice of the agent runtime this service depends on;
// tests substitute it.
type agentRunner interface {
	Run(ctx context.Context, session mcp.Session, req agent.RunRequest) (models.AgentResult, error)
}

// ChatHistory is the append-only history contract. A nil value disables
// persistence without touching the chat flow.
type ChatHistory interface {
	AddUserMessage(ctx context.Context, sessionID, text string) error
	AddAIMessage(ctx context.Context, sessionID, text string) error
}

// sessionDialer matches mcp.Dial.
type sessionDialer func(ctx context.Context, remoteURL, localCommand string) (mcp.Session, error)

// AgentService carries one chat request through the full chain: transport
// setup, agent run under timeout, answer/location extraction, and the
// fire-and-forget history append.
type AgentService struct {
	runner        agentRunner
	history       ChatHistory
	dial          sessionDialer
	toolServerCmd string
	timeout       time.Duration
}

func NewAgentService(runner agentRunner, history ChatHistory, toolServerCmd string, timeout time.Duration) *AgentService {
	return &AgentService{
		runner:        runner,
		history:       history,
		dial:          mcp.Dial,
		toolServerCmd: toolServerCmd,
		timeout:       timeout,
	}
}

// Query runs one chat turn. The returned response always has answer text
// unless the error is non-nil.
func (s *AgentService) Query(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.dial(runCtx, req.MCPURL, s.toolServerCmd)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("tool transport setup: %w", err)
	}
	defer session.Close()

	threadID := req.SessionID
	if threadID == "" {
		threadID = req.ChatID
	}
	if threadID == "" {
		threadID = defaultThreadID
	}

	result, err := s.runner.Run(runCtx, session, agent.RunRequest{
		Message:     req.Message,
		ThreadID:    threadID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ChatHistory: req.ChatHistory,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return models.ChatResponse{}, ErrAgentTimeout
		}
		return models.ChatResponse{}, err
	}

	answer := extract.Answer(result)
	location := extract.Location(result)
	s.appendTurn(threadID, req.Message, answer)

	return models.ChatResponse{Answer: answer, Location: location}, nil
}

// appendTurn persists the turn without blocking the response. A crash or
// failure between the two appends leaves only the user half in history;
// that is accepted (the store is not transactional).
func (s *AgentService) appendTurn(sessionID, userText, aiText string) {
	if s.history == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.history.AddUserMessage(ctx, sessionID, userText); err != nil {
			log.Printf("history append (user) failed for session %s: %v", sessionID, err)
			return
		}
		if err := s.history.AddAIMessage(ctx, sessionID, aiText); err != nil {
			log.Printf("history append (assistant) failed for session %s: %v", sessionID, err)
		}
	}()
}
