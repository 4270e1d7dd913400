package cli

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/address-guard/internal/types"
)

// maxMatches caps the number of results printed by trust find
const maxMatches = 10

// FuzzySource adapts the trust list to fuzzy.Source. Each entry is matched
// as "<label>_<address>" with spaces in the label replaced by underscores.
type FuzzySource []types.TrustedAddress

func (s FuzzySource) Len() int {
	return len(s)
}

func (s FuzzySource) String(i int) string {
	label := ""
	if s[i].Label != nil {
		label = strings.ReplaceAll(*s[i].Label, " ", "_")
	}
	return fmt.Sprintf("%s_%s", label, s[i].Address)
}

// Match is one trust find result
type Match struct {
	Entry types.TrustedAddress
	Score int
}

// findTrusted returns at most maxMatches entries matching query, best first
func findTrusted(query string, source FuzzySource) []Match {
	matches := fuzzy.FindFrom(strings.ReplaceAll(query, " ", "_"), source)
	out := make([]Match, 0, maxMatches)
	for i := 0; i < len(matches) && i < maxMatches; i++ {
		out = append(out, Match{
			Entry: source[matches[i].Index],
			Score: matches[i].Score,
		})
	}
	return out
}
