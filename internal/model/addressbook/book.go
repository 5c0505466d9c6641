package addressbook

import (
	"sync"
)

// AddressBook is an ordered collection of persons plus a monotonic id
// generator. All access is serialized by one mutex so that id allocation
// is atomic and readers never observe a half-applied mutation.
type AddressBook struct {
	mu      sync.Mutex
	persons []Person
	nextID  int
}

// New returns an empty address book. The first allocated id is 1.
func New() *AddressBook {
	return &AddressBook{nextID: 1}
}

// List returns a snapshot of the persons in insertion order.
func (b *AddressBook) List() []Person {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Person(nil), b.persons...)
}

// Find looks up a person by id.
func (b *AddressBook) Find(id int) (Person, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(id); i >= 0 {
		return b.persons[i], true
	}
	return Person{}, false
}

// Add allocates the next id and appends a new person under a single lock
// acquisition, so concurrent adds can never share an id. Ids are strictly
// increasing and never reused, even after deletes.
func (b *AddressBook) Add(name string) Person {
	b.mu.Lock()
	defer b.mu.Unlock()

	person := Person{ID: b.allocateID(), Name: name}
	b.persons = append(b.persons, person)
	return person
}

// Replace overwrites the name of the person with the given id, keeping its
// id and list position. It reports whether the person existed; an absent id
// leaves the book untouched.
func (b *AddressBook) Replace(id int, name string) (Person, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return Person{}, false
	}
	b.persons[i].Name = name
	return b.persons[i], true
}

// Delete removes the person with the given id and reports whether anything
// was removed. The id becomes permanently unused; nextID is not touched.
func (b *AddressBook) Delete(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return false
	}
	b.persons = append(b.persons[:i], b.persons[i+1:]...)
	return true
}

// Len reports the number of stored persons.
func (b *AddressBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.persons)
}

// NextID reports the id the next Add will assign.
func (b *AddressBook) NextID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextID
}

// allocateID hands out nextID and bumps the counter. Callers must hold mu.
func (b *AddressBook) allocateID() int {
	id := b.nextID
	b.nextID++
	return id
}

// index returns the position of id in persons, or -1. Callers must hold mu.
func (b *AddressBook) index(id int) int {
	for i, p := range b.persons {
		if p.ID == id {
			return i
		}
	}
	return -1
}
