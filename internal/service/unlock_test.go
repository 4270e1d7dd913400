package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyUnlockKey(t *testing.T) {
	tests := []struct {
		name    string
		address string
		key     string
		want    bool
	}{
		{name: "exact tail", address: evmAddress, key: "EE7", want: true},
		{name: "case-insensitive", address: evmAddress, key: "ee7", want: true},
		{name: "surrounding whitespace", address: " " + evmAddress + " ", key: " eE7 ", want: true},
		{name: "wrong tail", address: evmAddress, key: "EE8"},
		{name: "too short key", address: evmAddress, key: "E7"},
		{name: "too long key", address: evmAddress, key: "9EE7"},
		{name: "empty address", address: "", key: ""},
		{name: "address shorter than key", address: "ab", key: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyUnlockKey(tt.address, tt.key))
		})
	}
}

func TestCopyTail(t *testing.T) {
	assert.Equal(t, "9EE7", CopyTail(evmAddress))
	assert.Equal(t, "EE7", UnlockKey(evmAddress))
	assert.Equal(t, "ab", CopyTail("ab"))

	assert.True(t, VerifyPasted(evmAddress, evmAddress))
	assert.False(t, VerifyPasted(evmAddress, "0x52908400098527886E0F7030069857D2E4169ee7"))
	assert.False(t, VerifyPasted("", "anything"))
}
