package form

import "sync"

// Key identifies a key press delivered through a KeyBus.
type Key string

// KeyEnter is the key that submits the form.
const KeyEnter Key = "enter"

// KeyBus fans key presses out to subscribers.
type KeyBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Key)
}

// NewKeyBus returns an empty bus.
func NewKeyBus() *KeyBus {
	return &KeyBus{subs: make(map[int]func(Key))}
}

// Subscribe registers fn and returns the function that removes it.
// Unsubscribing more than once is harmless.
func (b *KeyBus) Subscribe(fn func(Key)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers k to every subscriber on the calling goroutine.
func (b *KeyBus) Publish(k Key) {
	b.mu.Lock()
	fns := make([]func(Key), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(k)
	}
}

// Len reports the number of live subscriptions.
func (b *KeyBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
