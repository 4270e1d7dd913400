package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/address-guard/internal/types"
)

// FileBackend stores the whole state as one JSON document.
// Every write rewrites the document through a temp file and rename so a
// crash mid-write leaves the previous version intact.
type FileBackend struct {
	path string

	mu    sync.Mutex
	state *State
}

// NewFileBackend creates a backend persisting to path. The parent
// directory is created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path, state: emptyState()}
}

func (f *FileBackend) Kind() types.StoreBackend { return types.BackendFile }

// Path returns the document path
func (f *FileBackend) Path() string { return f.path }

// Load reads the document. A missing file is an empty store; a corrupt one
// is an error the Store turns into an empty start.
func (f *FileBackend) Load(_ context.Context) (*State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.state = emptyState()
		return f.copyState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	st := emptyState()
	if err := json.Unmarshal(data, st); err != nil {
		f.state = emptyState()
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if st.Trust == nil {
		st.Trust = make(map[string]types.TrustEntry)
	}
	if st.History == nil {
		st.History = []types.AddressCheck{}
	}
	f.state = st
	return f.copyState(), nil
}

func (f *FileBackend) PutTrust(_ context.Context, address string, entry types.TrustEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Trust[address] = entry
	return f.flush()
}

func (f *FileBackend) RemoveTrust(_ context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state.Trust, address)
	return f.flush()
}

func (f *FileBackend) SaveHistory(_ context.Context, history []types.AddressCheck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.History = append([]types.AddressCheck{}, history...)
	return f.flush()
}

func (f *FileBackend) Close() error { return nil }

func (f *FileBackend) copyState() *State {
	out := emptyState()
	for k, v := range f.state.Trust {
		out.Trust[k] = v
	}
	out.History = append(out.History, f.state.History...)
	return out
}

// flush must be called with f.mu held
func (f *FileBackend) flush() error {
	data, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
