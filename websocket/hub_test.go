package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthenticateClientRegistersMarketer(t *testing.T) {
	hub := NewHub()
	client := &Client{}

	hub.mu.Lock()
	hub.unauthenticatedClients[client] = true
	hub.mu.Unlock()

	marketerID := primitive.NewObjectID()
	require.NoError(t, hub.AuthenticateClient(client, marketerID))

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.True(t, client.Authenticated)
	assert.Equal(t, marketerID, client.MarketerID)
	assert.Same(t, client, hub.clients[marketerID])
	assert.NotContains(t, hub.unauthenticatedClients, client)
}

func TestSendToMarketerUnknownMarketer(t *testing.T) {
	hub := NewHub()

	err := hub.SendToMarketer(primitive.NewObjectID(), Notification{Type: "test"})
	assert.Error(t, err)
}
