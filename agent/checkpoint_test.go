package agent

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3053/GeoInsight.AI/models"
)

func TestCheckpointerLoadUnknownThread(t *testing.T) {
	cp := NewCheckpointer()

	assert.Nil(t, cp.Load("nobody"))
}

func TestCheckpointerSaveThenLoad(t *testing.T) {
	cp := NewCheckpointer()
	msgs := []models.Message{
		{Role: models.RoleUser, Content: models.TextContent("q")},
		{Role: models.RoleAssistant, Content: models.TextContent("a")},
	}

	cp.Save("t1", msgs)

	loaded := cp.Load("t1")
	require.Len(t, loaded, 2)
	assert.Equal(t, "q", loaded[0].Content.Text)
}

func TestCheckpointerCopiesOnSaveAndLoad(t *testing.T) {
	cp := NewCheckpointer()
	msgs := []models.Message{{Role: models.RoleUser, Content: models.TextContent("original")}}
	cp.Save("t1", msgs)

	// Mutating either side must not leak into the stored state.
	msgs[0].Content = models.TextContent("mutated input")
	loaded := cp.Load("t1")
	loaded[0].Content = models.TextContent("mutated output")

	fresh := cp.Load("t1")
	require.Len(t, fresh, 1)
	assert.Equal(t, "original", fresh[0].Content.Text)
}

func TestCheckpointerLastWriteWins(t *testing.T) {
	cp := NewCheckpointer()
	cp.Save("t1", []models.Message{{Role: models.RoleAssistant, Content: models.TextContent("old")}})
	cp.Save("t1", []models.Message{{Role: models.RoleAssistant, Content: models.TextContent("new")}})

	loaded := cp.Load("t1")
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].Content.Text)
}

func TestCheckpointerConcurrentAccess(t *testing.T) {
	cp := NewCheckpointer()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			thread := fmt.Sprintf("t%d", n%4)
			cp.Save(thread, []models.Message{{Role: models.RoleUser, Content: models.TextContent("m")}})
			cp.Load(thread)
		}(i)
	}
	wg.Wait()

	require.Len(t, cp.Load("t0"), 1)
}
