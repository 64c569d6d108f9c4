package navigation

// Tracked cuántas sesiones sigue la máquina.
func (m *Machine) Tracked() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
