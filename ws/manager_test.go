package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"finance-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	failing bool
	closed  bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("broken pipe")
	}
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestManager_PublishOnlyToOwner(t *testing.T) {
	m := NewManager()
	alice1, alice2, bob := &fakeConn{}, &fakeConn{}, &fakeConn{}
	m.Register(1, alice1)
	m.Register(1, alice2)
	m.Register(2, bob)
	assert.Equal(t, 2, m.Count(1))
	assert.Equal(t, 3, m.Total())

	err := m.Publish(entities.LedgerEvent{
		Type:        entities.TransactionCreated,
		UserID:      1,
		Transaction: entities.TransactionView{ID: 9, UserID: 1, Amount: 12.5},
	})
	require.NoError(t, err)

	assert.Len(t, alice1.written, 1)
	assert.Len(t, alice2.written, 1)
	assert.Empty(t, bob.written)

	var got entities.LedgerEvent
	require.NoError(t, json.Unmarshal(alice1.written[0], &got))
	assert.Equal(t, entities.TransactionCreated, got.Type)
	assert.Equal(t, uint(9), got.Transaction.ID)
}

func TestManager_DropsBrokenConnections(t *testing.T) {
	m := NewManager()
	good, broken := &fakeConn{}, &fakeConn{failing: true}
	m.Register(1, good)
	m.Register(1, broken)

	require.NoError(t, m.Publish(entities.LedgerEvent{UserID: 1}))

	assert.Equal(t, 1, m.Count(1))
	assert.True(t, broken.closed)
	assert.False(t, good.closed)
}

func TestManager_Unregister(t *testing.T) {
	m := NewManager()
	c := &fakeConn{}
	m.Register(4, c)
	m.Unregister(4, c)
	m.Unregister(4, c)

	assert.Equal(t, 0, m.Count(4))
	assert.Equal(t, 0, m.Total())
	assert.True(t, c.closed)
}
