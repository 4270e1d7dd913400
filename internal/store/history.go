package store

import "github.com/address-guard/internal/types"

// pushBounded returns a new history with check at the front, any earlier
// entry for the same address removed, and at most max entries.
// The input slice is not modified.
func pushBounded(history []types.AddressCheck, check types.AddressCheck, max int) []types.AddressCheck {
	out := make([]types.AddressCheck, 0, min(len(history)+1, max))
	out = append(out, check)
	for _, h := range history {
		if len(out) >= max {
			break
		}
		if h.Address == check.Address {
			continue
		}
		out = append(out, h)
	}
	return out
}

// normalizeHistory enforces the dedupe and bound on loaded data,
// keeping the first (most recent) occurrence of each address.
func normalizeHistory(history []types.AddressCheck, max int) []types.AddressCheck {
	seen := make(map[string]struct{}, len(history))
	out := make([]types.AddressCheck, 0, min(len(history), max))
	for _, h := range history {
		if len(out) >= max {
			break
		}
		if _, dup := seen[h.Address]; dup {
			continue
		}
		seen[h.Address] = struct{}{}
		out = append(out, h)
	}
	return out
}
