package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pravacash/internal/models"
)

// testConnection builds a connection that is registered but never started,
// so sent frames stay in its buffer for inspection.
func testConnection(ownerID, role string) *Connection {
	return NewConnection(models.Identity{OwnerID: ownerID, Role: role}, nil, time.Second, zap.NewNop(), nil)
}

func receivedEvents(t *testing.T, conn *Connection) []envelope {
	t.Helper()
	var events []envelope
	for {
		select {
		case msg := <-conn.send:
			var env envelope
			require.NoError(t, json.Unmarshal(msg, &env))
			events = append(events, env)
		default:
			return events
		}
	}
}

func TestRegistryOwnerFanOut(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	phone := testConnection("alice", models.RoleUser)
	laptop := testConnection("alice", models.RoleUser)
	stranger := testConnection("bob", models.RoleUser)
	registry.Register(phone)
	registry.Register(laptop)
	registry.Register(stranger)

	registry.NotifyOwner("alice", "transactions:updated", map[string]int{"n": 1})

	assert.Len(t, receivedEvents(t, phone), 1)
	assert.Len(t, receivedEvents(t, laptop), 1)
	assert.Empty(t, receivedEvents(t, stranger), "fan-out must stay within the owner")
}

func TestRegistryAdminFanOut(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	admin := testConnection("root", models.RoleAdmin)
	regular := testConnection("alice", models.RoleUser)
	registry.Register(admin)
	registry.Register(regular)

	registry.NotifyAdmins("admin:stats:updated", map[string]int{"totalOwners": 2})

	events := receivedEvents(t, admin)
	require.Len(t, events, 1)
	assert.Equal(t, "admin:stats:updated", events[0].Event)
	assert.Empty(t, receivedEvents(t, regular))
}

func TestRegistryRemovesEmptyOwnerEntry(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	first := testConnection("alice", models.RoleUser)
	second := testConnection("alice", models.RoleUser)
	registry.Register(first)
	registry.Register(second)

	registry.Unregister(first)
	assert.Len(t, registry.SessionsFor("alice"), 1)

	registry.Unregister(second)
	assert.Empty(t, registry.SessionsFor("alice"))

	registry.mu.RLock()
	_, ok := registry.byOwner["alice"]
	registry.mu.RUnlock()
	assert.False(t, ok, "owner entry must disappear with its last session")
}

func TestRegistryUnregisterRemovesAdmin(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	admin := testConnection("root", models.RoleAdmin)
	registry.Register(admin)
	require.Len(t, registry.AdminSessions(), 1)

	registry.Unregister(admin)
	assert.Empty(t, registry.AdminSessions())
}

func TestRegistryConcurrentChurn(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner := fmt.Sprintf("owner-%d", i%5)
			conn := testConnection(owner, models.RoleUser)
			registry.Register(conn)
			registry.NotifyOwner(owner, "transactions:updated", nil)
			registry.Unregister(conn)
		}(i)
	}
	wg.Wait()

	registry.mu.RLock()
	defer registry.mu.RUnlock()
	assert.Empty(t, registry.byOwner, "churn must not leak owner entries")
	assert.Empty(t, registry.admins)
}

func TestDeliveryToFullBufferDoesNotBlockOthers(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	stuck := testConnection("alice", models.RoleUser)
	healthy := testConnection("alice", models.RoleUser)
	registry.Register(stuck)
	registry.Register(healthy)

	for i := 0; i < sendBuffer; i++ {
		stuck.Send([]byte("filler"))
	}

	done := make(chan struct{})
	go func() {
		registry.NotifyOwner("alice", "transactions:updated", map[string]int{"n": 1})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full session buffer")
	}
	assert.Len(t, receivedEvents(t, healthy), 1, "healthy sessions still receive the payload")
}

func TestSendOnClosedSessionIsSwallowed(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	closed := testConnection("alice", models.RoleUser)
	healthy := testConnection("alice", models.RoleUser)
	registry.Register(closed)
	registry.Register(healthy)

	close(closed.send)

	assert.NotPanics(t, func() {
		registry.NotifyOwner("alice", "transactions:updated", map[string]int{"n": 1})
	})
	assert.Len(t, receivedEvents(t, healthy), 1)
}
