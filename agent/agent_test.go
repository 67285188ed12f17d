package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3053/GeoInsight.AI/mcp"
	"github.com/k3053/GeoInsight.AI/models"
)

// scriptedModel replays a fixed sequence of replies and records the
// conversation it was shown on each turn.
type scriptedModel struct {
	replies []models.Message
	err     error
	seen    [][]models.Message
}

func (m *scriptedModel) Name() string { return "scripted" }

func (m *scriptedModel) Turn(ctx context.Context, systemPrompt string, msgs []models.Message, tools []mcp.Tool) (models.Message, error) {
	if m.err != nil {
		return models.Message{}, m.err
	}
	m.seen = append(m.seen, append([]models.Message(nil), msgs...))
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

type fakeSession struct {
	tools   []mcp.Tool
	outputs map[string]string
	callErr error
	calls   []models.ToolCall
	closed  bool
}

func (s *fakeSession) Tools() []mcp.Tool { return s.tools }

func (s *fakeSession) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	s.calls = append(s.calls, models.ToolCall{Name: name, Arguments: args})
	if s.callErr != nil {
		return "", s.callErr
	}
	if out, ok := s.outputs[name]; ok {
		return out, nil
	}
	return "null", nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func assistantText(text string) models.Message {
	return models.Message{Role: models.RoleAssistant, Content: models.TextContent(text)}
}

func assistantToolCall(id, name string, args map[string]any) models.Message {
	return models.Message{
		Role:      models.RoleAssistant,
		ToolCalls: []models.ToolCall{{ID: id, Name: name, Arguments: args}},
	}
}

func TestRunDirectAnswer(t *testing.T) {
	model := &scriptedModel{replies: []models.Message{assistantText("hello there")}}
	runner := NewRunner(model, NewCheckpointer())
	session := &fakeSession{}

	result, err := runner.Run(context.Background(), session, RunRequest{Message: "hi", ThreadID: "t1"})

	require.NoError(t, err)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, "hello there", result.Messages[1].Content.Text)
	assert.Empty(t, session.calls)
}

func TestRunExecutesToolCalls(t *testing.T) {
	model := &scriptedModel{replies: []models.Message{
		assistantToolCall("c1", "geocode_address", map[string]any{"address": "Tokyo"}),
		assistantText("Tokyo is at 35.7, 139.7"),
	}}
	session := &fakeSession{outputs: map[string]string{
		"geocode_address": `[{"geometry":{"location":{"lat":35.7,"lng":139.7}}}]`,
	}}
	runner := NewRunner(model, NewCheckpointer())

	result, err := runner.Run(context.Background(), session, RunRequest{Message: "where is Tokyo", ThreadID: "t1"})

	require.NoError(t, err)
	require.Len(t, session.calls, 1)
	assert.Equal(t, "geocode_address", session.calls[0].Name)
	assert.Equal(t, map[string]any{"address": "Tokyo"}, session.calls[0].Arguments)

	// user, assistant tool call, tool result, final answer
	require.Len(t, result.Messages, 4)
	toolMsg := result.Messages[2]
	assert.Equal(t, models.RoleTool, toolMsg.Role)
	assert.Equal(t, "c1", toolMsg.ToolCallID)
	assert.Equal(t, "geocode_address", toolMsg.ToolName)
	assert.Contains(t, toolMsg.Content.Text, "35.7")
}

func TestRunToolTransportFailureDegradesToNull(t *testing.T) {
	model := &scriptedModel{replies: []models.Message{
		assistantToolCall("c1", "get_weather", nil),
		assistantText("could not fetch the weather"),
	}}
	session := &fakeSession{callErr: errors.New("pipe broke")}
	runner := NewRunner(model, NewCheckpointer())

	result, err := runner.Run(context.Background(), session, RunRequest{Message: "weather?", ThreadID: "t1"})

	require.NoError(t, err)
	assert.Equal(t, "null", result.Messages[2].Content.Text)
}

func TestRunContextDeadlineSurfaces(t *testing.T) {
	model := &scriptedModel{replies: []models.Message{
		assistantToolCall("c1", "get_weather", nil),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	session := &fakeSession{callErr: context.Canceled}
	runner := NewRunner(model, NewCheckpointer())

	cancel()
	_, err := runner.Run(ctx, session, RunRequest{Message: "weather?", ThreadID: "t1"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunModelErrorPropagates(t *testing.T) {
	model := &scriptedModel{err: errors.New("quota exhausted")}
	runner := NewRunner(model, NewCheckpointer())

	_, err := runner.Run(context.Background(), &fakeSession{}, RunRequest{Message: "hi", ThreadID: "t1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestRunStepLimit(t *testing.T) {
	replies := make([]models.Message, maxSteps)
	for i := range replies {
		replies[i] = assistantToolCall("c", "add_numbers", map[string]any{"a": 1.0, "b": 1.0})
	}
	model := &scriptedModel{replies: replies}
	session := &fakeSession{outputs: map[string]string{"add_numbers": "2"}}
	runner := NewRunner(model, NewCheckpointer())

	_, err := runner.Run(context.Background(), session, RunRequest{Message: "loop", ThreadID: "t1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool steps")
}

func TestRunCheckpointCarriesAcrossTurns(t *testing.T) {
	cp := NewCheckpointer()
	session := &fakeSession{}

	first := &scriptedModel{replies: []models.Message{assistantText("the answer is 4")}}
	_, err := NewRunner(first, cp).Run(context.Background(), session, RunRequest{Message: "2+2?", ThreadID: "t1"})
	require.NoError(t, err)

	second := &scriptedModel{replies: []models.Message{assistantText("as I said, 4")}}
	result, err := NewRunner(second, cp).Run(context.Background(), session, RunRequest{Message: "again?", ThreadID: "t1"})
	require.NoError(t, err)

	// prior user + prior answer + new user + new answer
	require.Len(t, result.Messages, 4)
	assert.Equal(t, "2+2?", result.Messages[0].Content.Text)
	require.Len(t, second.seen, 1)
	assert.Len(t, second.seen[0], 3)
}

func TestRunThreadsAreIsolated(t *testing.T) {
	cp := NewCheckpointer()
	session := &fakeSession{}

	first := &scriptedModel{replies: []models.Message{assistantText("a")}}
	_, err := NewRunner(first, cp).Run(context.Background(), session, RunRequest{Message: "one", ThreadID: "t1"})
	require.NoError(t, err)

	second := &scriptedModel{replies: []models.Message{assistantText("b")}}
	result, err := NewRunner(second, cp).Run(context.Background(), session, RunRequest{Message: "two", ThreadID: "t2"})
	require.NoError(t, err)

	require.Len(t, result.Messages, 2)
	assert.Equal(t, "two", result.Messages[0].Content.Text)
}

func TestBuildConversationClientHistorySeedsEmptyThread(t *testing.T) {
	runner := NewRunner(&scriptedModel{}, NewCheckpointer())

	msgs := runner.buildConversation(RunRequest{
		Message:  "next",
		ThreadID: "fresh",
		ChatHistory: []models.HistoryTurn{
			{Sender: "user", Text: "earlier question"},
			{Sender: "ai", Text: "earlier answer"},
		},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "next", msgs[2].Content.Text)
}

func TestBuildConversationCheckpointWinsOverClientHistory(t *testing.T) {
	cp := NewCheckpointer()
	cp.Save("t1", []models.Message{assistantText("checkpointed")})
	runner := NewRunner(&scriptedModel{}, cp)

	msgs := runner.buildConversation(RunRequest{
		Message:     "next",
		ThreadID:    "t1",
		ChatHistory: []models.HistoryTurn{{Sender: "user", Text: "client copy"}},
	})

	require.Len(t, msgs, 2)
	assert.Equal(t, "checkpointed", msgs[0].Content.Text)
}

func TestBuildConversationCoordinatesNote(t *testing.T) {
	runner := NewRunner(&scriptedModel{}, NewCheckpointer())
	lat, lng := 35.0, 139.0

	msgs := runner.buildConversation(RunRequest{Message: "nearby food", ThreadID: "t1", Latitude: &lat, Longitude: &lng})

	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Content.Text, "latitude=35")
	assert.Contains(t, msgs[0].Content.Text, "longitude=139")
}
