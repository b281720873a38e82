package tui

import (
	"sync"

	"go-chi-calculator/internal/form"
)

// region is a goroutine-safe display area. The controller writes it from the
// submission goroutine; View reads it from the program loop.
type region struct {
	mu      sync.RWMutex
	visible bool
	content string
}

func (r *region) Show() {
	r.mu.Lock()
	r.visible = true
	r.mu.Unlock()
}

func (r *region) Hide() {
	r.mu.Lock()
	r.visible = false
	r.mu.Unlock()
}

func (r *region) SetContent(text string) {
	r.mu.Lock()
	r.content = text
	r.mu.Unlock()
}

func (r *region) snapshot() (bool, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visible, r.content
}

type button struct {
	mu       sync.RWMutex
	disabled bool
}

func (b *button) SetDisabled(disabled bool) {
	b.mu.Lock()
	b.disabled = disabled
	b.mu.Unlock()
}

func (b *button) Disabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.disabled
}

// formValues holds the last values copied out of the inputs by Update.
type formValues struct {
	mu     sync.RWMutex
	values form.Values
}

func (f *formValues) set(v form.Values) {
	f.mu.Lock()
	f.values = v
	f.mu.Unlock()
}

func (f *formValues) Values() form.Values {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values
}
