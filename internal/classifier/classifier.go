// Package classifier recognizes wallet address shapes.
//
// Classification is shape-based only: no checksum (Base58Check, EIP-55,
// bech32) is verified. Shapes overlap, so patterns are evaluated in a fixed
// priority order and the first match wins.
package classifier

import (
	"regexp"
	"strings"

	"github.com/address-guard/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

// Base58Class is the regexp character class of the Bitcoin base58 alphabet
const Base58Class = `[1-9A-HJ-NP-Za-km-z]`

// Bech32Class is the regexp character class of the bech32 data alphabet
const Bech32Class = `[ac-hj-np-z02-9]`

// ENSSuffix marks an ENS name
const ENSSuffix = ".eth"

// AddressPatterns holds the compiled address shapes
type AddressPatterns struct {
	// Bitcoin legacy: version byte 1 (P2PKH) or 3 (P2SH) plus 25-34 base58 chars
	BitcoinLegacy *regexp.Regexp

	// Bitcoin SegWit: bc1 plus 11-71 bech32 chars
	BitcoinSegWit *regexp.Regexp

	// Solana: 32-44 base58 chars with no structural anchor
	Solana *regexp.Regexp
}

// GetAddressPatterns returns compiled regular expressions for the base58 and bech32 shapes
func GetAddressPatterns() *AddressPatterns {
	return &AddressPatterns{
		BitcoinLegacy: regexp.MustCompile(`^[13]` + Base58Class + `{25,34}$`),
		BitcoinSegWit: regexp.MustCompile(`^bc1` + Bech32Class + `{11,71}$`),
		Solana:        regexp.MustCompile(`^` + Base58Class + `{32,44}$`),
	}
}

var patterns = GetAddressPatterns()

// Classify returns the network label for address. It never fails; anything
// without a recognizable shape is NetworkUnknown.
func Classify(address string) types.NetworkType {
	trimmed := strings.TrimSpace(address)

	switch {
	case isEVM(trimmed):
		return types.NetworkEVM
	case patterns.BitcoinLegacy.MatchString(trimmed):
		return types.NetworkBitcoinLegacy
	case patterns.BitcoinSegWit.MatchString(trimmed):
		return types.NetworkBitcoinSegWit
	case patterns.Solana.MatchString(trimmed):
		return types.NetworkSolana
	case strings.HasSuffix(trimmed, ENSSuffix):
		return types.NetworkENS
	default:
		return types.NetworkUnknown
	}
}

// isEVM requires a lowercase 0x prefix followed by exactly 40 hex digits.
// common.IsHexAddress also accepts "0X" and a missing prefix, hence the explicit check.
func isEVM(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}
