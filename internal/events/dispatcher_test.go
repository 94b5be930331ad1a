package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var order []int
	dispatcher.Subscribe(EventTokenIssued, func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	})
	dispatcher.Subscribe(EventTokenIssued, func(context.Context, Event) error {
		order = append(order, 2)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTokenIssued})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
}

func TestPublishUnsubscribedTypeIsNoop(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	err := dispatcher.Publish(context.Background(), Event{Type: EventProductDeleted})
	assert.NoError(t, err)
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	boom := errors.New("boom")
	var reached bool
	dispatcher.Subscribe(EventProductCreated, func(context.Context, Event) error {
		return boom
	})
	dispatcher.Subscribe(EventProductCreated, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventProductCreated})
	assert.ErrorIs(t, err, boom)
	assert.True(t, reached)
}
