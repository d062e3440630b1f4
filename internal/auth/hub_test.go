package auth_test

import (
	"testing"

	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestHub(t *testing.T) {
	hub := auth.NewHub()

	a, cancelA := hub.Subscribe("u1")
	b, cancelB := hub.Subscribe("u1")
	other, cancelOther := hub.Subscribe("u2")
	defer cancelOther()

	assert.Equal(t, 2, hub.Publish("u1", auth.Event{Event: auth.EventSignedOut}))
	assert.Equal(t, auth.EventSignedOut, (<-a).Event)
	assert.Equal(t, auth.EventSignedOut, (<-b).Event)
	assert.Len(t, other, 0)

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, hub.Publish("u1", auth.Event{Event: auth.EventSignedOut}))

	cancelB()
	assert.Equal(t, 0, hub.Publish("u1", auth.Event{Event: auth.EventSignedOut}))
}

func TestHubDropsOldestForSlowSubscriber(t *testing.T) {
	hub := auth.NewHub()
	ch, cancel := hub.Subscribe("u1")
	defer cancel()

	for i := 0; i < 10; i++ {
		hub.Publish("u1", auth.Event{Event: auth.EventSignedOut})
	}
	assert.Equal(t, 4, len(ch))
}
