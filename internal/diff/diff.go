// Package diff compares a pasted candidate address against a reference,
// position by position. Every position gets its own verdict; nothing is
// aggregated, so a single swapped character is always visible.
package diff

// Placeholder stands in for a position the candidate does not reach
const Placeholder = "·"

// Cell is the verdict for one position
type Cell struct {
	Position int    `json:"position"`
	Char     string `json:"char"`     // Candidate character, original case
	Expected string `json:"expected"` // Reference character, empty past its end
	IsMatch  bool   `json:"isMatch"`
}

// Compare aligns reference and candidate by byte offset. The result has
// max(len(reference), len(candidate)) cells; positions past the end of either
// string never match.
func Compare(reference, candidate string, ignoreCase bool) []Cell {
	n := len(reference)
	if len(candidate) > n {
		n = len(candidate)
	}

	cells := make([]Cell, n)
	for i := 0; i < n; i++ {
		cell := Cell{Position: i, Char: Placeholder}

		inRef := i < len(reference)
		inCand := i < len(candidate)
		if inCand {
			cell.Char = candidate[i : i+1]
		}
		if inRef {
			cell.Expected = reference[i : i+1]
		}
		if inRef && inCand {
			cell.IsMatch = fold(reference[i], ignoreCase) == fold(candidate[i], ignoreCase)
		}

		cells[i] = cell
	}
	return cells
}

func fold(c byte, ignoreCase bool) byte {
	if ignoreCase && c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Mismatches returns the positions that did not match
func Mismatches(cells []Cell) []int {
	positions := make([]int, 0)
	for _, c := range cells {
		if !c.IsMatch {
			positions = append(positions, c.Position)
		}
	}
	return positions
}

// AllMatch reports whether every position matched. An empty comparison matches.
func AllMatch(cells []Cell) bool {
	for _, c := range cells {
		if !c.IsMatch {
			return false
		}
	}
	return true
}

// Identical is the strict equality check behind the compare banner
func Identical(reference, candidate string) bool {
	return reference == candidate
}
