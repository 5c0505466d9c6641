package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rloren/addressbook/internal/model/addressbook"
)

// Op identifies the kind of mutation an event describes.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is one observed address book mutation.
type Event struct {
	ID     string             `json:"id"`
	Op     Op                 `json:"op"`
	Person addressbook.Person `json:"person"`
	At     time.Time          `json:"at"`
}

// Service fans address book mutations out to stream subscribers.
type Service struct {
	mu          sync.Mutex
	subscribers map[string]chan Event
}

// NewService bootstraps an in-memory feed suitable for a single process.
func NewService() *Service {
	return &Service{
		subscribers: make(map[string]chan Event),
	}
}

// Subscribe registers a new subscriber and returns its channel together
// with a cancel func that must be called when the consumer goes away.
func (s *Service) Subscribe() (<-chan Event, func()) {
	id := uuid.NewString()
	ch := make(chan Event, 16)

	s.mu.Lock()
	s.subscribers[id] = ch
	s.mu.Unlock()

	return ch, func() { s.unsubscribe(id) }
}

// Publish stamps the event and delivers it to every subscriber. Delivery
// never blocks: a subscriber whose buffer is full misses the event.
func (s *Service) Publish(op Op, person addressbook.Person) Event {
	event := Event{
		ID:     uuid.NewString(),
		Op:     op,
		Person: person,
		At:     time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
	return event
}

// SubscriberCount reports how many subscribers are registered.
func (s *Service) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *Service) unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}
