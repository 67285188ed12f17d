package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentVariants(t *testing.T) {
	text := TextContent("hello")
	assert.False(t, text.IsParts())
	assert.Equal(t, "hello", text.Text)

	empty := TextContent("")
	assert.False(t, empty.IsParts())

	parts := PartsContent(ContentPart{Type: "text", Text: "A"})
	assert.True(t, parts.IsParts())

	// The parts variant holds even when the list is empty.
	noParts := PartsContent()
	assert.True(t, noParts.IsParts())
	assert.Empty(t, noParts.Parts)
}
