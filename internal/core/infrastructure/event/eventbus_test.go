package event

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/weisyn/mintregistry/internal/config/event"
	logimpl "github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/mintregistry/pkg/types"
)

func TestEventBus(t *testing.T) {
	eventBus := New(eventconfig.New(nil), logimpl.NewNop())

	t.Run("同步订阅", func(t *testing.T) {
		var received string
		handler := func(data string) { received = data }

		require.NoError(t, eventBus.Subscribe(event.EventType("test-event"), handler))
		assert.True(t, eventBus.HasCallback(event.EventType("test-event")))

		eventBus.Publish(event.EventType("test-event"), "hello world")
		assert.Equal(t, "hello world", received)

		// 取消订阅后不再接收事件
		require.NoError(t, eventBus.Unsubscribe(event.EventType("test-event"), handler))
		received = ""
		eventBus.Publish(event.EventType("test-event"), "should not receive")
		assert.Empty(t, received)
	})

	t.Run("异步订阅", func(t *testing.T) {
		var mu sync.Mutex
		var got []string
		handler := func(data string) {
			mu.Lock()
			got = append(got, data)
			mu.Unlock()
		}
		require.NoError(t, eventBus.SubscribeAsync(event.EventType("async-event"), handler, true))

		eventBus.Publish(event.EventType("async-event"), "a")
		eventBus.Publish(event.EventType("async-event"), "b")
		eventBus.WaitAsync()

		mu.Lock()
		defer mu.Unlock()
		assert.ElementsMatch(t, []string{"a", "b"}, got)
	})

	assert.Equal(t, uint64(4), eventBus.PublishedCount())
}

func TestDisabledEventBus(t *testing.T) {
	eventBus := New(eventconfig.New(&types.UserEventConfig{Enabled: types.BoolPtr(false)}), nil)

	var calls atomic.Int32
	require.NoError(t, eventBus.Subscribe(event.EventType("x"), func() { calls.Add(1) }))
	eventBus.Publish(event.EventType("x"))
	eventBus.WaitAsync()

	assert.Zero(t, calls.Load())
	assert.False(t, eventBus.HasCallback(event.EventType("x")))
	assert.Zero(t, eventBus.PublishedCount())
}
