package listener

import "sync"

// ContextStorage is a run-scoped key/value store that keywords can use to
// pass state between tests without touching suite variables. Test-scoped
// entries are cleared when a test ends.
type ContextStorage struct {
	mu        sync.RWMutex
	run       map[string]interface{}
	testLocal map[string]interface{}
}

func NewContextStorage() *ContextStorage {
	return &ContextStorage{
		run:       make(map[string]interface{}),
		testLocal: make(map[string]interface{}),
	}
}

// Set stores a value for the rest of the run.
func (s *ContextStorage) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run[key] = value
}

// SetTestLocal stores a value that only lives until the current test ends.
func (s *ContextStorage) SetTestLocal(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.testLocal[key] = value
}

// Get looks a key up, test-local entries first.
func (s *ContextStorage) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.testLocal[key]; ok {
		return value, true
	}
	value, ok := s.run[key]
	return value, ok
}

// Delete removes a key from both scopes.
func (s *ContextStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.run, key)
	delete(s.testLocal, key)
}

// ClearTestLocal drops all test-scoped entries.
func (s *ContextStorage) ClearTestLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.testLocal = make(map[string]interface{})
}
