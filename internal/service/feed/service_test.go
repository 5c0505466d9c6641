package feed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rloren/addressbook/internal/model/addressbook"
	"github.com/rloren/addressbook/internal/service/feed"
)

func TestPublishReachesSubscribers(t *testing.T) {
	svc := feed.NewService()
	ch, cancel := svc.Subscribe()
	defer cancel()

	published := svc.Publish(feed.OpCreate, addressbook.Person{ID: 1, Name: "Juan"})

	got := <-ch
	assert.Equal(t, published.ID, got.ID)
	assert.Equal(t, feed.OpCreate, got.Op)
	assert.Equal(t, 1, got.Person.ID)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.At.IsZero())
}

func TestEventIDsAreDistinct(t *testing.T) {
	svc := feed.NewService()

	a := svc.Publish(feed.OpCreate, addressbook.Person{ID: 1, Name: "Juan"})
	b := svc.Publish(feed.OpDelete, addressbook.Person{ID: 1, Name: "Juan"})

	assert.NotEqual(t, a.ID, b.ID)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	svc := feed.NewService()
	ch, cancel := svc.Subscribe()
	require.Equal(t, 1, svc.SubscriberCount())

	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, svc.SubscriberCount())

	// Cancel is safe to call twice.
	cancel()
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	svc := feed.NewService()
	_, cancel := svc.Subscribe()
	defer cancel()

	// Overrun the subscriber buffer; Publish must keep returning.
	for i := 0; i < 64; i++ {
		svc.Publish(feed.OpUpdate, addressbook.Person{ID: i, Name: "Juan"})
	}
}
