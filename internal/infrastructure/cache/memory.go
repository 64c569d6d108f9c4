package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

var _ Client = (*MemoryClient)(nil)

type memoryEntry struct {
	value     string
	expiresAt time.Time // cero = sin expiración
}

// MemoryClient caché del proceso; se usa cuando REDIS_ADDR está vacío.
// No se comparte entre instancias de la API.
type MemoryClient struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryClient crea una caché en memoria.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{entries: map[string]memoryEntry{}, now: time.Now}
}

// WithClock reemplaza el reloj (pruebas de expiración).
func (c *MemoryClient) WithClock(now func() time.Time) *MemoryClient {
	c.now = now
	return c
}

func (c *MemoryClient) live(key string) (memoryEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// Get recupera el valor de una clave.
func (c *MemoryClient) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return e.value, nil
}

// Set define un valor con expiración (0 = sin expiración).
func (c *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{value: fmt.Sprint(value)}
	if expiration > 0 {
		e.expiresAt = c.now().Add(expiration)
	}
	c.entries[key] = e
	return nil
}

// Delete elimina la clave.
func (c *MemoryClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Incr incrementa el contador; la ventana empieza con el primer incremento.
func (c *MemoryClient) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		e = memoryEntry{value: "0"}
		if window > 0 {
			e.expiresAt = c.now().Add(window)
		}
	}
	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache: %s no es un contador", key)
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	c.entries[key] = e
	return n, nil
}
