package event_test

import (
	"testing"

	"github.com/c360studio/kdd-engine/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAndPublishOrderPreserved(t *testing.T) {
	bus := event.NewBus()
	var order []string

	event.Subscribe(bus, func(e event.DocumentIndexed) {
		order = append(order, "first:"+e.DocumentID)
	})
	event.Subscribe(bus, func(e event.DocumentIndexed) {
		order = append(order, "second:"+e.DocumentID)
	})

	event.Publish(bus, event.DocumentIndexed{DocumentID: "Order"})

	require.Equal(t, []string{"first:Order", "second:Order"}, order)
}

func TestPublishOnlyReachesMatchingType(t *testing.T) {
	bus := event.NewBus()
	var indexedCount, deletedCount int

	event.Subscribe(bus, func(event.DocumentIndexed) { indexedCount++ })
	event.Subscribe(bus, func(event.DocumentDeleted) { deletedCount++ })

	event.Publish(bus, event.DocumentIndexed{DocumentID: "Order"})

	assert.Equal(t, 1, indexedCount)
	assert.Equal(t, 0, deletedCount)
}

func TestPublishIsolatesPanickingHandler(t *testing.T) {
	bus := event.NewBus()
	ran := false

	event.Subscribe(bus, func(event.DocumentIndexed) {
		panic("boom")
	})
	event.Subscribe(bus, func(event.DocumentIndexed) {
		ran = true
	})

	assert.NotPanics(t, func() {
		event.Publish(bus, event.DocumentIndexed{DocumentID: "Order"})
	})
	assert.True(t, ran)
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	bus := event.NewBus()
	assert.NotPanics(t, func() {
		event.Publish(bus, event.QueryFailed{Kind: "QRY-001"})
	})
}
