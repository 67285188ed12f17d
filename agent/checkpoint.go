package agent

import (
	"sync"

	"github.com/k3053/GeoInsight.AI/models"
)

// Checkpointer saves conversation state per thread id for the lifetime of
// the process, so follow-up turns within the same session keep their working
// memory. Persistence is best-effort only: a restarted process starts empty.
//
// Concurrent requests for the same thread id are last-write-wins; the store
// itself is race-free but does not serialize whole agent runs.
type Checkpointer struct {
	mu      sync.RWMutex
	threads map[string][]models.Message
}

func NewCheckpointer() *Checkpointer {
	return &Checkpointer{threads: make(map[string][]models.Message)}
}

// Load returns a copy of the saved conversation for a thread, or nil.
func (c *Checkpointer) Load(threadID string) []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	saved, ok := c.threads[threadID]
	if !ok {
		return nil
	}
	out := make([]models.Message, len(saved))
	copy(out, saved)
	return out
}

// Save replaces the saved conversation for a thread.
func (c *Checkpointer) Save(threadID string, msgs []models.Message) {
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	c.mu.Lock()
	c.threads[threadID] = out
	c.mu.Unlock()
}
