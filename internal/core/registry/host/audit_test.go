package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/weisyn/mintregistry/internal/config/event"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/event"
	"github.com/weisyn/mintregistry/internal/core/infrastructure/log"
	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

func TestAuditLoggerSubscribesAllEvents(t *testing.T) {
	bus := event.New(eventconfig.New(nil), log.NewNop())
	audit := NewAuditLogger(log.NewNop())
	require.NoError(t, audit.Subscribe(bus))

	for _, et := range AllEventTypes {
		assert.True(t, bus.HasCallback(et), "missing subscriber for %s", et)
	}

	bus.Publish(registry.EventPriceChanged, registry.Event{
		ID:      "e1",
		Type:    registry.EventPriceChanged,
		Payload: registry.ValueChangedPayload{Value: "1"},
	})
	bus.WaitAsync()
}
