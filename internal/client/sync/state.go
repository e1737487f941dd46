package sync

import "sync"

// runState состояние прогонов по пользователям под одним мьютексом.
// Для каждого пользователя: idle -> running -> idle.
type runState struct {
	running     map[string]bool
	needsReauth map[string]bool
	last        map[string]*Summary
	mu          sync.Mutex
}

func newRunState() *runState {
	return &runState{
		running:     make(map[string]bool),
		needsReauth: make(map[string]bool),
		last:        make(map[string]*Summary),
	}
}

// begin захватывает прогон. false, если прогон уже идет.
func (s *runState) begin(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running[userID] {
		return false
	}
	s.running[userID] = true
	return true
}

// end освобождает прогон и запоминает итог
func (s *runState) end(userID string, summary *Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.running, userID)
	s.last[userID] = summary

	switch {
	case summary.NeedsReauth:
		s.needsReauth[userID] = true
	case summary.Err == nil:
		// флаг снимается только прогоном, дошедшим до конца
		delete(s.needsReauth, userID)
	}
}

func (s *runState) isRunning(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[userID]
}

func (s *runState) reauth(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsReauth[userID]
}

func (s *runState) lastRun(userID string) *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[userID]
}

func (s *runState) forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.needsReauth, userID)
	delete(s.last, userID)
}
