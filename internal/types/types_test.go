package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressCheckPersistedLayout(t *testing.T) {
	check := AddressCheck{
		ID:           "id-1",
		Address:      "0xabc",
		Timestamp:    1700000000000,
		Network:      NetworkEVM,
		IsSuspicious: true,
		Prefix:       "0xabc",
		Fingerprint:  "0xabc",
	}

	raw, err := json.Marshal(check)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, key := range []string{"id", "address", "timestamp", "network", "isSuspicious", "prefix", "middle", "suffix", "fingerprint"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "Ethereum / EVM", fields["network"])
}

func TestTrustEntryOmitsEmptyLabel(t *testing.T) {
	raw, err := json.Marshal(TrustEntry{AddedAt: 42})
	require.NoError(t, err)
	assert.JSONEq(t, `{"addedAt":42}`, string(raw))

	label := "cold wallet"
	raw, err = json.Marshal(TrustEntry{AddedAt: 42, Label: &label})
	require.NoError(t, err)
	assert.JSONEq(t, `{"addedAt":42,"label":"cold wallet"}`, string(raw))
}

func TestAllNetworksPriorityOrder(t *testing.T) {
	require.Len(t, AllNetworks, 6)
	assert.Equal(t, NetworkEVM, AllNetworks[0])
	assert.Equal(t, NetworkUnknown, AllNetworks[len(AllNetworks)-1])
}
