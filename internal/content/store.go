package content

import (
	"log"
	"sync"
)

// MarkerRenderer is the capability the store needs from the map layer.
// The store owns items; the renderer owns markers and reacts to mutations.
type MarkerRenderer interface {
	WorkingSetReplaced(items []Item, focusID string)
	ItemAdded(item Item)
	ItemUpdated(item Item)
	ItemRemoved(itemID string)
}

// NopRenderer satisfies MarkerRenderer for headless use and tests.
type NopRenderer struct{}

func (NopRenderer) WorkingSetReplaced([]Item, string) {}
func (NopRenderer) ItemAdded(Item)                    {}
func (NopRenderer) ItemUpdated(Item)                  {}
func (NopRenderer) ItemRemoved(string)                {}

// Patch describes a partial item update; nil fields are left untouched.
type Patch struct {
	Text      *string
	ImageURL  *string
	VoteCount *int
	Status    *Status
}

// Store is the ordered working set of content items, the client's single
// source of truth. Mutations are serialized by a mutex because action
// handlers run on their own goroutines.
type Store struct {
	mu       sync.RWMutex
	items    []Item
	index    map[string]int
	renderer MarkerRenderer
}

func NewStore(renderer MarkerRenderer) *Store {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &Store{
		index:    make(map[string]int),
		renderer: renderer,
	}
}

// ReplaceAll atomically swaps the working set, dropping duplicate itemIds
// (first occurrence wins), and asks the renderer to rebuild, focusing on
// focusID when given.
func (s *Store) ReplaceAll(items []Item, focusID string) {
	s.mu.Lock()
	s.items = s.items[:0]
	s.index = make(map[string]int, len(items))
	for _, item := range items {
		if _, dup := s.index[item.ItemID]; dup {
			log.Printf("Duplicate itemId %q in working set, keeping first", item.ItemID)
			continue
		}
		s.index[item.ItemID] = len(s.items)
		s.items = append(s.items, item)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.renderer.WorkingSetReplaced(snapshot, focusID)
}

// Add appends an item. Adding an id already present is a logged no-op so a
// stale create confirmation cannot double an item.
func (s *Store) Add(item Item) {
	s.mu.Lock()
	if _, dup := s.index[item.ItemID]; dup {
		s.mu.Unlock()
		log.Printf("Item %q already in store, ignoring add", item.ItemID)
		return
	}
	s.index[item.ItemID] = len(s.items)
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.renderer.ItemAdded(item)
}

// Remove deletes the item; removing an unknown id is a logged no-op.
func (s *Store) Remove(itemID string) {
	s.mu.Lock()
	pos, ok := s.index[itemID]
	if !ok {
		s.mu.Unlock()
		log.Printf("Item %q not found in store, ignoring remove", itemID)
		return
	}
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, itemID)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].ItemID] = i
	}
	s.mu.Unlock()

	s.renderer.ItemRemoved(itemID)
}

// ApplyPatch merges the given fields into an existing item and returns the
// updated item. Patching an unknown id is a logged no-op.
func (s *Store) ApplyPatch(itemID string, patch Patch) (Item, bool) {
	s.mu.Lock()
	pos, ok := s.index[itemID]
	if !ok {
		s.mu.Unlock()
		log.Printf("Item %q not found in store, ignoring patch", itemID)
		return Item{}, false
	}
	item := &s.items[pos]
	if patch.Text != nil {
		item.Text = *patch.Text
	}
	if patch.ImageURL != nil {
		item.ImageURL = *patch.ImageURL
	}
	if patch.VoteCount != nil {
		item.VoteCount = *patch.VoteCount
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	updated := *item
	s.mu.Unlock()

	s.renderer.ItemUpdated(updated)
	return updated, true
}

func (s *Store) Get(itemID string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[itemID]
	if !ok {
		return Item{}, false
	}
	return s.items[pos], true
}

// Items returns a copy of the working set in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) snapshotLocked() []Item {
	snapshot := make([]Item, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}
