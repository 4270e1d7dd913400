package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-guard/internal/logging"
)

func TestFileBackendRoundTrip(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	s := Open(ctx, NewFileBackend(path), Options{Logger: logging.Discard(), Now: fixedClock(7)})
	label := "exchange"
	require.NoError(t, s.SetTrusted(ctx, "0xAAA", &label))
	require.NoError(t, s.RecordCheck(ctx, check("0xAAA")))
	require.NoError(t, s.RecordCheck(ctx, check("0xBBB")))

	reopened := Open(ctx, NewFileBackend(path), Options{Logger: logging.Discard()})
	entry, ok := reopened.LookupTrust("0xAAA")
	require.True(t, ok)
	assert.Equal(t, int64(7), entry.AddedAt)
	require.NotNil(t, entry.Label)
	assert.Equal(t, "exchange", *entry.Label)
	assert.Equal(t, []string{"0xBBB", "0xAAA"}, addresses(reopened.History()))
}

func TestFileBackendDocumentLayout(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "store.json")

	s := Open(ctx, NewFileBackend(path), Options{Logger: logging.Discard(), Now: fixedClock(99)})
	require.NoError(t, s.SetTrusted(ctx, "addr", nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "trust")
	assert.Contains(t, doc, "history")
	assert.JSONEq(t, `{"addr":{"addedAt":99}}`, string(doc["trust"]))
	assert.JSONEq(t, `[]`, string(doc["history"]))
}

func TestFileBackendMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	st, err := NewFileBackend(path).Load(testContext(t))
	require.NoError(t, err)
	assert.Empty(t, st.Trust)
	assert.Empty(t, st.History)
}

func TestFileBackendCorruptFileDegrades(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"trust": {"x": `), 0o600))

	_, err := NewFileBackend(path).Load(ctx)
	require.Error(t, err)

	s := Open(ctx, NewFileBackend(path), Options{Logger: logging.Discard()})
	assert.Empty(t, s.TrustList())
	assert.Empty(t, s.History())

	// the next write replaces the corrupt document
	require.NoError(t, s.RecordCheck(ctx, check("fresh")))
	reopened := Open(ctx, NewFileBackend(path), Options{Logger: logging.Discard()})
	assert.Equal(t, []string{"fresh"}, addresses(reopened.History()))
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	s := Open(ctx, NewFileBackend(path), Options{Logger: logging.Discard()})
	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.RecordCheck(ctx, check(a)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "store.json", entries[0].Name())
}
