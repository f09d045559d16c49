package keylock

import "sync"

// Set hands out one mutex per key, so work for equal keys is serialized
// while work for distinct keys proceeds in parallel. Mutexes are never
// evicted; the expected key cardinality is small.
type Set[K comparable] struct {
  mu    sync.Mutex
  locks map[K]*sync.Mutex
}

func NewSet[K comparable]() *Set[K] {
  return &Set[K]{
    locks: make(map[K]*sync.Mutex),
  }
}

func (s *Set[K]) get(key K) *sync.Mutex {
  s.mu.Lock()
  defer s.mu.Unlock()

  lock, ok := s.locks[key]
  if !ok {
    lock = new(sync.Mutex)
    s.locks[key] = lock
  }

  return lock
}

func (s *Set[K]) Lock(key K) {
  s.get(key).Lock()
}

func (s *Set[K]) Unlock(key K) {
  s.get(key).Unlock()
}
