package store

import (
	"context"
	"sync"

	"github.com/address-guard/internal/types"
)

// MemoryBackend keeps state for the life of the process only
type MemoryBackend struct {
	mu    sync.Mutex
	state *State
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{state: emptyState()}
}

func (m *MemoryBackend) Kind() types.StoreBackend { return types.BackendMemory }

func (m *MemoryBackend) Load(_ context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := emptyState()
	for k, v := range m.state.Trust {
		out.Trust[k] = v
	}
	out.History = append(out.History, m.state.History...)
	return out, nil
}

func (m *MemoryBackend) PutTrust(_ context.Context, address string, entry types.TrustEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Trust[address] = entry
	return nil
}

func (m *MemoryBackend) RemoveTrust(_ context.Context, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.Trust, address)
	return nil
}

func (m *MemoryBackend) SaveHistory(_ context.Context, history []types.AddressCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.History = append([]types.AddressCheck{}, history...)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
