package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3053/GeoInsight.AI/models"
)

func TestAnswerPlainString(t *testing.T) {
	result := models.AgentResult{Messages: []models.Message{
		{Role: models.RoleUser, Content: models.TextContent("hi")},
		{Role: models.RoleAssistant, Content: models.TextContent("X")},
	}}

	assert.Equal(t, "X", Answer(result))
}

func TestAnswerJoinsTextParts(t *testing.T) {
	result := models.AgentResult{Messages: []models.Message{
		{Role: models.RoleAssistant, Content: models.PartsContent(
			models.ContentPart{Type: "text", Text: "A"},
			models.ContentPart{Type: "image"},
			models.ContentPart{Type: "text", Text: "B"},
		)},
	}}

	assert.Equal(t, "A\nB", Answer(result))
}

func TestAnswerNeverEmpty(t *testing.T) {
	cases := map[string]models.AgentResult{
		"no messages":      {},
		"empty text":       {Messages: []models.Message{{Role: models.RoleAssistant, Content: models.TextContent("")}}},
		"empty parts":      {Messages: []models.Message{{Role: models.RoleAssistant, Content: models.PartsContent()}}},
		"non-text parts":   {Messages: []models.Message{{Role: models.RoleAssistant, Content: models.PartsContent(models.ContentPart{Type: "image"})}}},
		"whitespace parts": {Messages: []models.Message{{Role: models.RoleAssistant, Content: models.PartsContent(models.ContentPart{Type: "text", Text: ""})}}},
	}
	for name, result := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, Answer(result))
		})
	}
}

func TestAnswerUsesLastMessage(t *testing.T) {
	result := models.AgentResult{Messages: []models.Message{
		{Role: models.RoleAssistant, Content: models.TextContent("first")},
		{Role: models.RoleAssistant, Content: models.TextContent("second")},
	}}

	assert.Equal(t, "second", Answer(result))
}

func geocodeResultMessage(text string) models.Message {
	return models.Message{
		Role:     models.RoleTool,
		ToolName: "geocode_address",
		Content:  models.TextContent(text),
	}
}

func TestLocationFromGeocodeOutput(t *testing.T) {
	result := models.AgentResult{Messages: []models.Message{
		geocodeResultMessage(`[{"geometry":{"location":{"lat":12.9,"lng":77.6}},"formatted_address":"X"}]`),
		{Role: models.RoleAssistant, Content: models.TextContent("done")},
	}}

	loc := Location(result)
	require.NotNil(t, loc)
	assert.Equal(t, 12.9, loc.Latitude)
	assert.Equal(t, 77.6, loc.Longitude)
	assert.Equal(t, "X", loc.DisplayName)
}

func TestLocationStringSerializedOutput(t *testing.T) {
	// Some transports stringify the tool value a second time.
	result := models.AgentResult{Messages: []models.Message{
		geocodeResultMessage(`"[{\"geometry\":{\"location\":{\"lat\":1.5,\"lng\":2.5}},\"formatted_address\":\"Y\"}]"`),
	}}

	loc := Location(result)
	require.NotNil(t, loc)
	assert.Equal(t, 1.5, loc.Latitude)
	assert.Equal(t, 2.5, loc.Longitude)
	assert.Equal(t, "Y", loc.DisplayName)
}

func TestLocationAbsentWithoutGeocodeCall(t *testing.T) {
	result := models.AgentResult{Messages: []models.Message{
		{Role: models.RoleTool, ToolName: "get_weather", Content: models.TextContent(`{"temperature":21}`)},
		{Role: models.RoleAssistant, Content: models.TextContent("warm")},
	}}

	assert.Nil(t, Location(result))
}

func TestLocationSkipsMalformedOutput(t *testing.T) {
	cases := map[string]string{
		"not JSON":         "oops not json",
		"null":             "null",
		"empty array":      "[]",
		"object":           `{"geometry":{}}`,
		"missing geometry": `[{"formatted_address":"X"}]`,
		"missing coords":   `[{"geometry":{"location":{"lat":"12.9"}}}]`,
		"empty":            "",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			result := models.AgentResult{Messages: []models.Message{geocodeResultMessage(text)}}
			assert.Nil(t, Location(result))
		})
	}
}

func TestLocationPrefersNewestGeocodeCall(t *testing.T) {
	result := models.AgentResult{Messages: []models.Message{
		geocodeResultMessage(`[{"geometry":{"location":{"lat":1.0,"lng":1.0}},"formatted_address":"old"}]`),
		geocodeResultMessage(`[{"geometry":{"location":{"lat":2.0,"lng":2.0}},"formatted_address":"new"}]`),
	}}

	loc := Location(result)
	require.NotNil(t, loc)
	assert.Equal(t, "new", loc.DisplayName)
}

func TestLocationFallsBackPastMalformedNewest(t *testing.T) {
	result := models.AgentResult{Messages: []models.Message{
		geocodeResultMessage(`[{"geometry":{"location":{"lat":3.0,"lng":4.0}},"formatted_address":"good"}]`),
		geocodeResultMessage(`not json`),
	}}

	loc := Location(result)
	require.NotNil(t, loc)
	assert.Equal(t, "good", loc.DisplayName)
}
