// Package segment splits an address into the prefix, middle and suffix
// shown with distinct highlighting.
package segment

const (
	// DefaultPrefixLen is the number of leading characters kept in the prefix
	DefaultPrefixLen = 6
	// DefaultSuffixLen is the number of trailing characters kept in the suffix
	DefaultSuffixLen = 6
)

// Segments is a lossless partition of an address
type Segments struct {
	Prefix string `json:"prefix"`
	Middle string `json:"middle"`
	Suffix string `json:"suffix"`
}

// String reassembles the original address
func (s Segments) String() string {
	return s.Prefix + s.Middle + s.Suffix
}

// Masked renders the address with its middle elided, e.g. "0x1234…abcdef".
// Short addresses are returned unchanged.
func (s Segments) Masked() string {
	if s.Middle == "" && s.Suffix == "" {
		return s.Prefix
	}
	return s.Prefix + "…" + s.Suffix
}

// Split partitions address into prefix/middle/suffix by byte offset.
// When the address is not longer than prefixLen+suffixLen the whole string
// becomes the prefix.
func Split(address string, prefixLen, suffixLen int) Segments {
	if prefixLen < 0 {
		prefixLen = 0
	}
	if suffixLen < 0 {
		suffixLen = 0
	}

	n := len(address)
	if n <= prefixLen+suffixLen {
		return Segments{Prefix: address}
	}

	return Segments{
		Prefix: address[:prefixLen],
		Middle: address[prefixLen : n-suffixLen],
		Suffix: address[n-suffixLen:],
	}
}

// Default splits with the 6/6 layout
func Default(address string) Segments {
	return Split(address, DefaultPrefixLen, DefaultSuffixLen)
}
