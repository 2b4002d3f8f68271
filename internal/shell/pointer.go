package shell

import "sync"

// Rect is a screen region in terminal cells.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// PointerEvent is a pointer press at a cell.
type PointerEvent struct {
	X, Y int
}

// PointerBus fans pointer presses out to whoever holds a subscription.
// It is the only global pointer listener; components never register
// directly with the terminal.
type PointerBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(PointerEvent)
}

func NewPointerBus() *PointerBus {
	return &PointerBus{subs: make(map[int]func(PointerEvent))}
}

// Subscribe registers fn until the returned subscription is released.
func (b *PointerBus) Subscribe(fn func(PointerEvent)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return &Subscription{bus: b, id: id}
}

// Dispatch delivers ev to every current subscriber. Handlers may release
// their own subscription while running.
func (b *PointerBus) Dispatch(ev PointerEvent) {
	b.mu.Lock()
	fns := make([]func(PointerEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of live subscriptions.
func (b *PointerBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *PointerBus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Subscription is a handle on one PointerBus registration.
type Subscription struct {
	bus  *PointerBus
	id   int
	once sync.Once
}

// Release unregisters the handler. It is safe to call more than once.
func (s *Subscription) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.bus.remove(s.id) })
}
