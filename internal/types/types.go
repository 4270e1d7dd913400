// Package types provides common type definitions for the address guard system.
package types

// NetworkType represents the network an address was classified as.
// Values are the display labels shown to the user.
type NetworkType string

const (
	// NetworkEVM represents Ethereum and EVM-compatible hex addresses
	NetworkEVM NetworkType = "Ethereum / EVM"
	// NetworkBitcoinLegacy represents base58 P2PKH/P2SH Bitcoin addresses
	NetworkBitcoinLegacy NetworkType = "Bitcoin (Legacy)"
	// NetworkBitcoinSegWit represents bech32 Bitcoin addresses
	NetworkBitcoinSegWit NetworkType = "Bitcoin (SegWit)"
	// NetworkSolana represents base58 Solana public keys
	NetworkSolana NetworkType = "Solana"
	// NetworkENS represents ENS names
	NetworkENS NetworkType = "ENS Domain"
	// NetworkUnknown represents anything with no recognizable shape
	NetworkUnknown NetworkType = "Unknown / Generic"
)

// AllNetworks lists every network label in classification priority order.
var AllNetworks = []NetworkType{
	NetworkEVM,
	NetworkBitcoinLegacy,
	NetworkBitcoinSegWit,
	NetworkSolana,
	NetworkENS,
	NetworkUnknown,
}

// StoreBackend names a persistence backend for the trust and history store
type StoreBackend string

const (
	// BackendMemory keeps state in process memory only
	BackendMemory StoreBackend = "memory"
	// BackendFile persists state as a single JSON document on disk
	BackendFile StoreBackend = "file"
	// BackendRedis persists state in Redis
	BackendRedis StoreBackend = "redis"
	// BackendPostgres persists state in Postgres
	BackendPostgres StoreBackend = "postgres"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// AddressCheck is the immutable record produced by a single analysis.
// Prefix+Middle+Suffix always equals Address.
type AddressCheck struct {
	ID           string      `json:"id"`
	Address      string      `json:"address"`
	Timestamp    int64       `json:"timestamp"` // Epoch milliseconds
	Network      NetworkType `json:"network"`
	IsSuspicious bool        `json:"isSuspicious"`
	Prefix       string      `json:"prefix"`
	Middle       string      `json:"middle"`
	Suffix       string      `json:"suffix"`
	Fingerprint  string      `json:"fingerprint"` // Currently identical to Address
}

// TrustEntry marks an address as explicitly trusted by the user
type TrustEntry struct {
	AddedAt int64   `json:"addedAt"`         // Epoch milliseconds
	Label   *string `json:"label,omitempty"` // Optional user label
}

// TrustedAddress pairs a trust entry with its key, used for listings
type TrustedAddress struct {
	Address string  `json:"address"`
	AddedAt int64   `json:"addedAt"`
	Label   *string `json:"label,omitempty"`
}
