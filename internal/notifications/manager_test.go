package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeCovers(t *testing.T) {
	assert.True(t, scopeCovers("all", "Shree Fabricators"))
	assert.True(t, scopeCovers("ALL", "Shree Fabricators"))
	assert.True(t, scopeCovers("Shree Fabricators", "shree fabricators"))
	assert.True(t, scopeCovers(" Shree Fabricators ", "Shree Fabricators"))
	assert.False(t, scopeCovers("Shree Fabricators", "Other Firm"))
	assert.False(t, scopeCovers("", "Shree Fabricators"))
}

func TestSendToFirm_RoutesByScope(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	scoped := &Connection{ID: "c1", UserID: "u1", FirmScope: "Shree Fabricators", Send: make(chan Message, 1)}
	other := &Connection{ID: "c2", UserID: "u2", FirmScope: "Other Firm", Send: make(chan Message, 1)}
	admin := &Connection{ID: "c3", UserID: "u3", FirmScope: "all", Send: make(chan Message, 1)}
	m.connections = map[string]*Connection{"c1": scoped, "c2": other, "c3": admin}

	sent := m.SendToFirm("Shree Fabricators", Message{Type: MessageTypeStageCompleted})
	assert.Equal(t, 2, sent)
	assert.Len(t, scoped.Send, 1)
	assert.Len(t, other.Send, 0)
	assert.Len(t, admin.Send, 1)

	got := <-scoped.Send
	assert.Equal(t, "Shree Fabricators", got.Firm)
}

func TestSendToFirm_FullBufferSkipped(t *testing.T) {
	m := NewManager(nil)
	defer m.Close()

	stuck := &Connection{ID: "c1", UserID: "u1", FirmScope: "all", Send: make(chan Message)}
	m.connections = map[string]*Connection{"c1": stuck}

	sent := m.SendToFirm("Shree Fabricators", Message{Type: MessageTypeStageCompleted})
	assert.Equal(t, 0, sent)
}
