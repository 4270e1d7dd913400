package service

import "strings"

const (
	// UnlockKeyLength is how many trailing characters the user must type
	// back before a copy is allowed
	UnlockKeyLength = 3
	// CopyTailLength is how many trailing characters to re-check after paste
	CopyTailLength = 4
)

// UnlockKey returns the trailing characters the user has to confirm
func UnlockKey(address string) string {
	return tail(strings.TrimSpace(address), UnlockKeyLength)
}

// VerifyUnlockKey reports whether key matches the address's last
// UnlockKeyLength characters, ignoring case. Addresses shorter than the
// key never unlock.
func VerifyUnlockKey(address, key string) bool {
	address = strings.TrimSpace(address)
	key = strings.TrimSpace(key)
	if len(address) < UnlockKeyLength || len(key) != UnlockKeyLength {
		return false
	}
	return strings.EqualFold(tail(address, UnlockKeyLength), key)
}

// CopyTail returns the characters to compare after pasting into the
// destination wallet
func CopyTail(address string) string {
	return tail(strings.TrimSpace(address), CopyTailLength)
}

// VerifyPasted reports whether the pasted text ends with the copied
// address's tail, exactly
func VerifyPasted(copied, pasted string) bool {
	want := CopyTail(copied)
	if want == "" {
		return false
	}
	return strings.HasSuffix(strings.TrimSpace(pasted), want)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
