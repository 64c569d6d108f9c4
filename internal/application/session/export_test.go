package session

// Tracked cuántas sesiones y generaciones conserva el store.
func (s *Store) Tracked() (sessions, gens int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), len(s.gens)
}
