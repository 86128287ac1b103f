package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/mintregistry/internal/api/websocket/types"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

func testClient(queue int) *client {
	return &client{send: make(chan []byte, queue), done: make(chan struct{})}
}

var testTypes = []event.EventType{registry.EventMinted, registry.EventPriceChanged}

func TestSubscribeFilters(t *testing.T) {
	m, err := NewSubscriptionManager(log.NewNop(), nil, testTypes)
	require.NoError(t, err)

	all := testClient(4)
	mintsOnly := testClient(4)
	_, err = m.Subscribe(all, nil)
	require.NoError(t, err)
	mintID, err := m.Subscribe(mintsOnly, []string{string(registry.EventMinted)})
	require.NoError(t, err)

	_, err = m.Subscribe(all, []string{"registry:unknown"})
	assert.Error(t, err)

	m.dispatch(registry.Event{ID: "1", Type: registry.EventPriceChanged, Payload: registry.ValueChangedPayload{Value: "7"}})
	m.dispatch(registry.Event{ID: "2", Type: registry.EventMinted, Payload: registry.MintedPayload{To: "a", TokenIDs: []uint32{6}}})

	assert.Len(t, all.send, 2)
	require.Len(t, mintsOnly.send, 1)

	var note types.Notification
	require.NoError(t, json.Unmarshal(<-mintsOnly.send, &note))
	assert.Equal(t, types.MethodNotification, note.Method)
	assert.Equal(t, mintID, note.Params.Subscription)
}

func TestSlowClientDropsInsteadOfBlocking(t *testing.T) {
	m, err := NewSubscriptionManager(log.NewNop(), nil, testTypes)
	require.NoError(t, err)

	slow := testClient(1)
	_, err = m.Subscribe(slow, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		m.dispatch(registry.Event{Type: registry.EventMinted})
	}
	assert.Len(t, slow.send, 1)
	assert.Equal(t, uint64(2), m.Dropped())
}

func TestUnsubscribeAndCleanup(t *testing.T) {
	m, err := NewSubscriptionManager(log.NewNop(), nil, testTypes)
	require.NoError(t, err)

	a, b := testClient(1), testClient(1)
	idA, _ := m.Subscribe(a, nil)
	_, _ = m.Subscribe(a, nil)
	idB, _ := m.Subscribe(b, nil)
	require.Equal(t, 3, m.Count())

	// 不能取消其他连接的订阅
	assert.False(t, m.Unsubscribe(a, idB))
	assert.True(t, m.Unsubscribe(a, idA))
	assert.False(t, m.Unsubscribe(a, idA))

	assert.Equal(t, 1, m.CleanupByClient(a))
	assert.Equal(t, 1, m.Count())

	// 已关闭的连接不再入队
	b.close()
	assert.False(t, b.enqueue([]byte("x")))
}

func TestDispatchReachesEverySubscriber(t *testing.T) {
	m, err := NewSubscriptionManager(log.NewNop(), nil, testTypes)
	require.NoError(t, err)

	clients := make([]*client, 5)
	ids := make(map[string]bool)
	for i := range clients {
		clients[i] = testClient(2)
		id, err := m.Subscribe(clients[i], nil)
		require.NoError(t, err)
		ids[id] = true
	}

	// 无法序列化的事件整体跳过，不影响后续事件
	m.dispatch(registry.Event{ID: "bad", Type: registry.EventMinted, Payload: func() {}})
	m.dispatch(registry.Event{ID: "ok", Type: registry.EventMinted, Payload: registry.MintedPayload{To: "a", TokenIDs: []uint32{6}}})

	for _, c := range clients {
		require.Len(t, c.send, 1)
		var note struct {
			Params struct {
				Subscription string         `json:"subscription"`
				Result       registry.Event `json:"result"`
			} `json:"params"`
		}
		require.NoError(t, json.Unmarshal(<-c.send, &note))
		assert.True(t, ids[note.Params.Subscription])
		assert.Equal(t, "ok", note.Params.Result.ID)
		delete(ids, note.Params.Subscription)
	}
	assert.Empty(t, ids)
	assert.Zero(t, m.Dropped())
}
