package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id        string
	profileID uuid.UUID
	messages  [][]byte
	mu        sync.Mutex
	closed    bool
}

func newMockClient(id string, profileID uuid.UUID) *mockClient {
	return &mockClient{
		id:        id,
		profileID: profileID,
		messages:  make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) ProfileID() uuid.UUID {
	return m.profileID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	profile1 := uuid.New()
	profile2 := uuid.New()

	client1 := newMockClient("client-1", profile1)
	client2 := newMockClient("client-2", profile1)
	client3 := newMockClient("client-3", profile2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(profile1))
	assert.Equal(t, 1, hub.ClientCount(profile2))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(profile1))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(profile1))
	assert.Equal(t, 0, hub.ClientCount(profile2))
}

func TestHub_Broadcast_ProfileIsolation(t *testing.T) {
	hub := NewHub()

	profile1 := uuid.New()
	profile2 := uuid.New()

	// Two tabs of the same profile
	client1a := newMockClient("client-1a", profile1)
	client1b := newMockClient("client-1b", profile1)

	// Another profile's client
	client2 := newMockClient("client-2", profile2)

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)

	evt := TransactionCreated(map[string]interface{}{"id": "t1"})
	hub.Broadcast(profile1, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client1a.GetMessages(), 1, "client1a should receive 1 message")
	assert.Len(t, client1b.GetMessages(), 1, "client1b should receive 1 message")
	assert.Len(t, client2.GetMessages(), 0, "client2 should not receive another profile's event")
}

func TestHub_Broadcast_MultipleFanOut(t *testing.T) {
	hub := NewHub()
	profileID := uuid.New()

	clients := make([]*mockClient, 5)
	for i := 0; i < 5; i++ {
		clients[i] = newMockClient("client-"+string(rune('a'+i)), profileID)
		hub.Register(clients[i])
	}

	evt := BudgetUpdated(map[string]interface{}{"category": "Groceries"})
	hub.Broadcast(profileID, evt)

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	for i, c := range clients {
		assert.Len(t, c.GetMessages(), 1, "client %d should receive message", i)
	}
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	profiles := make([]uuid.UUID, 5)
	for i := range profiles {
		profiles[i] = uuid.New()
	}

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(uuid.NewString(), profiles[i%5])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}

	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	// Concurrently broadcast and unregister
	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			evt := TransactionUpdated(map[string]interface{}{"id": idx})
			hub.Broadcast(profiles[idx%5], evt)
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", uuid.New())

	require.NotPanics(t, func() {
		hub.Unregister(client)
	})
}

func TestHub_BroadcastToEmptyProfile(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		evt := TransactionCreated(map[string]interface{}{"id": "t1"})
		hub.Broadcast(uuid.New(), evt)
	})
}
