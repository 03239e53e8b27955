package session

import (
	"sync"

	"runt/internal/locator"
)

// Session holds the mutable run registers: the single-slot last-test
// register and the ordered, duplicate-free selection set. Created once on
// startup and passed explicitly, never ambient. Jobs complete on their own
// goroutines, so access is serialized here.
type Session struct {
	mu       sync.Mutex
	last     *locator.TestInfo
	selected []locator.TestInfo
}

func New() *Session {
	return &Session{}
}

// SetLast overwrites the register with a copy, every run.
func (s *Session) SetLast(info *locator.TestInfo) {
	if info == nil { return }
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *info
	s.last = &cp
}

func (s *Session) Last() *locator.TestInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil { return nil }
	cp := *s.last
	return &cp
}

// Select appends unless a test with the same (name, path) is already
// selected. Returns true if the set grew.
func (s *Session) Select(info *locator.TestInfo) bool {
	if info == nil { return false }
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sel := range s.selected {
		if sel.Name == info.Name && sel.Path == info.Path { return false }
	}
	s.selected = append(s.selected, *info)
	return true
}

func (s *Session) Selected() []locator.TestInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]locator.TestInfo{}, s.selected...)
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}
