package store

import (
	"context"

	"github.com/address-guard/internal/types"
)

// State is the persisted layout shared by every backend
type State struct {
	Trust   map[string]types.TrustEntry `json:"trust"`
	History []types.AddressCheck        `json:"history"`
}

// Backend persists trust entries and the history list.
// Load is called once at startup; each mutation is written through.
type Backend interface {
	Kind() types.StoreBackend
	Load(ctx context.Context) (*State, error)
	PutTrust(ctx context.Context, address string, entry types.TrustEntry) error
	RemoveTrust(ctx context.Context, address string) error
	SaveHistory(ctx context.Context, history []types.AddressCheck) error
	Close() error
}

func emptyState() *State {
	return &State{
		Trust:   make(map[string]types.TrustEntry),
		History: []types.AddressCheck{},
	}
}
