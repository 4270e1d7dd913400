package store

const (
	ScoreTrusted = 100
	ScoreValid   = 85
	ScoreUnknown = 25
)

// TrustScore is the scoring policy: trusted beats valid beats everything else.
func TrustScore(isValid, isTrusted bool) int {
	switch {
	case isTrusted:
		return ScoreTrusted
	case isValid:
		return ScoreValid
	default:
		return ScoreUnknown
	}
}

// TrustScoreFor is TrustScore with the address carried along for callers
// that score per address. The address does not affect the result.
func TrustScoreFor(_ string, isValid, isTrusted bool) int {
	return TrustScore(isValid, isTrusted)
}
