// Package store holds the user's trust list and the bounded check history,
// written through to a pluggable persistence backend.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/address-guard/internal/errors"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/metrics"
	"github.com/address-guard/internal/types"
)

// DefaultHistoryMax is the number of checks kept in history
const DefaultHistoryMax = 10

// Options configures a Store
type Options struct {
	HistoryMax int
	Logger     *logging.Logger
	Now        func() time.Time
}

// Store is the in-memory view of trust and history state.
// Reads are served from memory; mutations update memory first and then the
// backend, so a failed write still leaves the process state current.
type Store struct {
	// writeMu orders trust writes so the backend sees them in the same
	// order as memory
	writeMu sync.Mutex

	mu         sync.RWMutex
	trust      map[string]types.TrustEntry
	history    []types.AddressCheck
	historyMax int

	backend Backend
	logger  *logging.Logger
	now     func() time.Time
}

// Open loads state from backend. A load failure never fails startup:
// it is logged and the store starts empty.
func Open(ctx context.Context, backend Backend, opts Options) *Store {
	if opts.HistoryMax < 1 {
		opts.HistoryMax = DefaultHistoryMax
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobalLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		historyMax: opts.HistoryMax,
		backend:    backend,
		logger:     opts.Logger.WithField("backend", string(backend.Kind())),
		now:        opts.Now,
	}

	state, err := backend.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("stored state unreadable, starting empty")
		state = emptyState()
	}
	if state == nil {
		state = emptyState()
	}
	if state.Trust == nil {
		state.Trust = make(map[string]types.TrustEntry)
	}

	s.trust = state.Trust
	s.history = normalizeHistory(state.History, s.historyMax)
	metrics.TrustedAddresses.Set(float64(len(s.trust)))

	s.logger.WithFields(map[string]interface{}{
		"trusted": len(s.trust),
		"history": len(s.history),
	}).Info("store loaded")

	return s
}

// Backend returns the persistence backend
func (s *Store) Backend() Backend {
	return s.backend
}

// HistoryMax returns the history bound
func (s *Store) HistoryMax() int {
	return s.historyMax
}

// LookupTrust is an exact, case-sensitive key lookup
func (s *Store) LookupTrust(address string) (types.TrustEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.trust[address]
	return entry, ok
}

// IsTrusted reports whether address is on the trust list
func (s *Store) IsTrusted(address string) bool {
	_, ok := s.LookupTrust(address)
	return ok
}

// SetTrusted adds address to the trust list. Re-trusting keeps the original
// AddedAt; a non-nil label replaces the stored one.
func (s *Store) SetTrusted(ctx context.Context, address string, label *string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	entry, exists := s.trust[address]
	if !exists {
		entry = types.TrustEntry{AddedAt: s.now().UnixMilli()}
	}
	if label != nil {
		l := *label
		entry.Label = &l
	}
	changed := !exists || label != nil
	s.trust[address] = entry
	metrics.TrustedAddresses.Set(float64(len(s.trust)))
	s.mu.Unlock()

	if !changed {
		return nil
	}

	s.logger.WithAddress(address).Debug("address trusted")
	if err := s.backend.PutTrust(ctx, address, entry); err != nil {
		return s.writeError("put trust", err)
	}
	return nil
}

// UnsetTrusted removes address from the trust list. Removing an absent
// address is a no-op.
func (s *Store) UnsetTrusted(ctx context.Context, address string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	_, exists := s.trust[address]
	delete(s.trust, address)
	metrics.TrustedAddresses.Set(float64(len(s.trust)))
	s.mu.Unlock()

	if !exists {
		return nil
	}

	s.logger.WithAddress(address).Debug("address untrusted")
	if err := s.backend.RemoveTrust(ctx, address); err != nil {
		return s.writeError("remove trust", err)
	}
	return nil
}

// RecordCheck puts check at the front of history, evicting any earlier
// check of the same address and truncating to the bound.
func (s *Store) RecordCheck(ctx context.Context, check types.AddressCheck) error {
	s.mu.Lock()
	s.history = pushBounded(s.history, check, s.historyMax)
	snapshot := append([]types.AddressCheck(nil), s.history...)
	s.mu.Unlock()

	if err := s.backend.SaveHistory(ctx, snapshot); err != nil {
		return s.writeError("save history", err)
	}
	return nil
}

func (s *Store) writeError(op string, err error) error {
	metrics.StoreWriteFailures.WithLabelValues(string(s.backend.Kind())).Inc()
	return apperrors.NewPersistenceError(s.backend.Kind(), op, err)
}

// History returns a copy of the history, most recent first
func (s *Store) History() []types.AddressCheck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.AddressCheck{}, s.history...)
}

// TrustList returns a copy of the trust map
func (s *Store) TrustList() map[string]types.TrustEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.TrustEntry, len(s.trust))
	for k, v := range s.trust {
		out[k] = v
	}
	return out
}

// TrustedAddresses returns the trust list sorted by AddedAt, oldest first
func (s *Store) TrustedAddresses() []types.TrustedAddress {
	list := s.TrustList()
	out := make([]types.TrustedAddress, 0, len(list))
	for addr, e := range list {
		out = append(out, types.TrustedAddress{Address: addr, AddedAt: e.AddedAt, Label: e.Label})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt != out[j].AddedAt {
			return out[i].AddedAt < out[j].AddedAt
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// Snapshot returns an immutable copy of the current state, for analyses
// that run outside the store's lock.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trust := make(map[string]types.TrustEntry, len(s.trust))
	for k, v := range s.trust {
		trust[k] = v
	}
	return &Snapshot{
		trust:   trust,
		history: append([]types.AddressCheck{}, s.history...),
	}
}

// Close closes the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// Snapshot is a read-only view of the store at a point in time
type Snapshot struct {
	trust   map[string]types.TrustEntry
	history []types.AddressCheck
}

// LookupTrust looks address up in the snapshot
func (sn *Snapshot) LookupTrust(address string) (types.TrustEntry, bool) {
	e, ok := sn.trust[address]
	return e, ok
}

// TrustedAddresses returns the snapshot's trusted keys in no particular order
func (sn *Snapshot) TrustedAddresses() []string {
	out := make([]string, 0, len(sn.trust))
	for k := range sn.trust {
		out = append(out, k)
	}
	return out
}

// History returns the snapshot's history
func (sn *Snapshot) History() []types.AddressCheck {
	return append([]types.AddressCheck{}, sn.history...)
}
