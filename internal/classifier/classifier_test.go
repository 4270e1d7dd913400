package classifier

import (
	"strings"
	"testing"

	"github.com/address-guard/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    types.NetworkType
	}{
		{"evm checksummed", "0x52908400098527886E0F7030069857D2E4169EE7", types.NetworkEVM},
		{"evm lowercase", "0x" + strings.Repeat("a", 40), types.NetworkEVM},
		{"evm uppercase prefix is not evm", "0X52908400098527886E0F7030069857D2E4169EE7", types.NetworkUnknown},
		{"evm too short", "0x" + strings.Repeat("a", 39), types.NetworkUnknown},
		{"evm without prefix", strings.Repeat("a", 40), types.NetworkSolana},
		{"bitcoin p2pkh", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", types.NetworkBitcoinLegacy},
		{"bitcoin p2sh", "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", types.NetworkBitcoinLegacy},
		{"bitcoin segwit", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", types.NetworkBitcoinSegWit},
		{"solana", "DRpbCBMxVnDK7maPM5tGv6MvB3v1sRMC86PZ8okm21hy", types.NetworkSolana},
		{"solana wrapped sol mint", "So11111111111111111111111111111111111111112", types.NetworkSolana},
		{"ens", "vitalik.eth", types.NetworkENS},
		{"ens is trimmed", "  vitalik.eth \n", types.NetworkENS},
		{"evm is trimmed", "\t0x" + strings.Repeat("b", 40) + "  ", types.NetworkEVM},
		{"garbage", "helloworld", types.NetworkUnknown},
		{"empty", "", types.NetworkUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.address))
		})
	}
}

// Shapes overlap; these cases pin the first-match-wins order.
func TestClassifyPriorityOrder(t *testing.T) {
	t.Run("legacy beats solana", func(t *testing.T) {
		// 32 ones is a valid Solana-length base58 string and also starts with version byte 1
		addr := strings.Repeat("1", 32)
		assert.True(t, patterns.Solana.MatchString(addr))
		assert.Equal(t, types.NetworkBitcoinLegacy, Classify(addr))
	})

	t.Run("segwit beats solana", func(t *testing.T) {
		addr := "bc1q" + strings.Repeat("q", 35)
		assert.True(t, patterns.Solana.MatchString(addr))
		assert.True(t, patterns.BitcoinSegWit.MatchString(addr))
		assert.Equal(t, types.NetworkBitcoinSegWit, Classify(addr))
	})

	t.Run("segwit example", func(t *testing.T) {
		assert.Equal(t, types.NetworkBitcoinSegWit, Classify("bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"))
	})

	t.Run("solana beats ens", func(t *testing.T) {
		// base58 has no '.', so an ENS name can never reach the solana branch
		assert.Equal(t, types.NetworkENS, Classify(strings.Repeat("z", 36)+".eth"))
	})
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"evm", "0x" + strings.Repeat("a", 40), true},
		{"ens is short but classified", "a.eth", true},
		{"unknown ten chars", "helloworld", false},
		{"unknown at lower bound", strings.Repeat("!", 26), true},
		{"unknown below lower bound", strings.Repeat("!", 25), false},
		{"unknown at upper bound", strings.Repeat("!", 80), true},
		{"unknown above upper bound", strings.Repeat("!", 81), false},
		{"surrounding whitespace is not counted", "  " + strings.Repeat("!", 25) + "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.address))
			assert.Equal(t, !tt.want, DefaultPolicy().IsSuspicious(tt.address))
		})
	}
}

func TestPolicy(t *testing.T) {
	strict := Policy{MinLength: 30, MaxLength: 40}
	assert.NoError(t, strict.Validate())
	assert.False(t, strict.IsValid(strings.Repeat("!", 26)))
	assert.True(t, strict.IsValid(strings.Repeat("!", 30)))

	assert.Error(t, Policy{MinLength: -1, MaxLength: 10}.Validate())
	assert.Error(t, Policy{MinLength: 50, MaxLength: 10}.Validate())
}

func TestEndToEndScenarios(t *testing.T) {
	evm := "0x" + strings.Repeat("a", 40)
	assert.Equal(t, types.NetworkEVM, Classify(evm))
	assert.True(t, IsValid(evm))
	assert.False(t, DefaultPolicy().IsSuspicious(evm))

	short := "zz--zz--zz"
	assert.Len(t, short, 10)
	assert.Equal(t, types.NetworkUnknown, Classify(short))
	assert.False(t, IsValid(short))
}

func TestClassifyIsDeterministic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("classify returns the same label on repeated calls", prop.ForAll(
		func(s string) bool {
			return Classify(s) == Classify(s) && IsValid(s) == IsValid(s)
		},
		gen.AnyString(),
	))

	properties.Property("classify always returns a known label", prop.ForAll(
		func(s string) bool {
			got := Classify(s)
			for _, n := range types.AllNetworks {
				if n == got {
					return true
				}
			}
			return false
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
