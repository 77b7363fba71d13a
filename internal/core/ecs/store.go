package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a generic typed component store. No reflect, no interface{} —
// pure generics. Get never fails: entities without an explicit instance
// resolve to the store's shared absent sentinel, so every entity has a
// well-defined value for every kind.
type Store[T any] struct {
	kind   Kind
	absent *T
	data   map[EntityID]*T
}

func NewStore[T any](kind Kind, absent *T) *Store[T] {
	return &Store[T]{
		kind:   kind,
		absent: absent,
		data:   make(map[EntityID]*T, 256),
	}
}

func (s *Store[T]) Kind() Kind { return s.kind }

// Absent returns the shared sentinel instance for this kind.
func (s *Store[T]) Absent() *T { return s.absent }

// Get returns the entity's instance, or the shared absent sentinel when the
// entity carries no explicit value for this kind.
func (s *Store[T]) Get(id EntityID) *T {
	if c, ok := s.data[id]; ok {
		return c
	}
	return s.absent
}

func (s *Store[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

// Registry tracks all component stores and supports bulk cleanup on entity destroy.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
	}
}

func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
