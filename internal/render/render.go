// Package render draws analyses, diffs and fingerprints for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/address-guard/internal/diff"
	"github.com/address-guard/internal/fingerprint"
	"github.com/address-guard/internal/segment"
	"github.com/address-guard/internal/service"
	"github.com/address-guard/internal/types"
)

// BoxWidth is the standard width for display boxes
const BoxWidth = 72

// ColorScheme defines a set of colors for consistent output
type ColorScheme struct {
	Header   *color.Color // Box borders
	Title    *color.Color // Box titles
	Label    *color.Color // Field names
	Normal   *color.Color // Plain values
	Edge     *color.Color // Address prefix and suffix
	Middle   *color.Color // Address middle
	Match    *color.Color // Diff positions that agree
	Mismatch *color.Color // Diff positions that differ
	Success  *color.Color
	Warning  *color.Color
	Error    *color.Color
	Key      *color.Color // Unlock key and copy tail
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:   color.New(color.FgBlue, color.Bold),
		Title:    color.New(color.FgHiWhite, color.Bold),
		Label:    color.New(color.FgCyan),
		Normal:   color.New(color.FgWhite),
		Edge:     color.New(color.FgHiGreen, color.Bold),
		Middle:   color.New(color.FgWhite, color.Faint),
		Match:    color.New(color.FgGreen),
		Mismatch: color.New(color.FgHiWhite, color.BgRed, color.Bold, color.Underline),
		Success:  color.New(color.FgGreen, color.Bold),
		Warning:  color.New(color.FgYellow, color.Bold),
		Error:    color.New(color.FgRed, color.Bold),
		Key:      color.New(color.FgHiCyan, color.Bold),
	}
}

// paletteAttrs follows fingerprint.Palette order
var paletteAttrs = []color.Attribute{
	color.FgRed,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgHiMagenta,
	color.FgCyan,
	color.FgHiRed,
}

// Header prints a boxed title
func Header(w io.Writer, cs *ColorScheme, title string) {
	padding := BoxWidth - 4 - len([]rune(title))
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat("─", BoxWidth-2)

	fmt.Fprintln(w)
	cs.Header.Fprintln(w, "╭"+line+"╮")
	cs.Header.Fprint(w, "│  ")
	cs.Title.Fprint(w, title)
	cs.Header.Fprintf(w, "%s│\n", strings.Repeat(" ", padding))
	cs.Header.Fprintln(w, "╰"+line+"╯")
}

func field(w io.Writer, cs *ColorScheme, name string) {
	cs.Label.Fprintf(w, "  %-12s", name)
}

// Segments prints the address with prefix and suffix emphasized
func Segments(w io.Writer, cs *ColorScheme, seg segment.Segments) {
	cs.Edge.Fprint(w, seg.Prefix)
	cs.Middle.Fprint(w, seg.Middle)
	cs.Edge.Fprint(w, seg.Suffix)
	fmt.Fprintln(w)
}

// Diff prints the candidate with every position colored by its verdict,
// then a marker line pointing at each mismatch
func Diff(w io.Writer, cs *ColorScheme, cells []diff.Cell) {
	var markers strings.Builder
	fmt.Fprint(w, "  ")
	for _, c := range cells {
		if c.IsMatch {
			cs.Match.Fprint(w, c.Char)
			markers.WriteByte(' ')
			continue
		}
		cs.Mismatch.Fprint(w, c.Char)
		markers.WriteByte('^')
	}
	fmt.Fprintln(w)
	cs.Error.Fprintln(w, "  "+strings.TrimRight(markers.String(), " "))
}

// DiffSummary prints the verdict line under a diff
func DiffSummary(w io.Writer, cs *ColorScheme, reference, candidate string, cells []diff.Cell) {
	mismatches := diff.Mismatches(cells)
	switch {
	case diff.Identical(reference, candidate):
		cs.Success.Fprintln(w, "  IDENTICAL: every character matches")
	case len(mismatches) == 0:
		cs.Warning.Fprintln(w, "  Matches ignoring case only")
	default:
		cs.Error.Fprintf(w, "  %d MISMATCH(ES) at positions %v\n", len(mismatches), mismatches)
	}
}

// Grid prints the fingerprint grid, two columns per cell
func Grid(w io.Writer, fp *fingerprint.Fingerprint) {
	for _, row := range fp.Grid {
		fmt.Fprint(w, "  ")
		for _, v := range row {
			style := fingerprint.CellStyle(v)
			attrs := []color.Attribute{paletteAttrs[style.ColorIndex]}
			if style.Dimmed {
				attrs = append(attrs, color.Faint)
			}
			glyph := "██"
			if style.Shrunk {
				glyph = "▪▪"
			}
			color.New(attrs...).Fprint(w, glyph)
		}
		fmt.Fprintln(w)
	}
}

// Tokens prints the 4-token sequence
func Tokens(w io.Writer, cs *ColorScheme, fp *fingerprint.Fingerprint) {
	parts := make([]string, len(fp.Symbols))
	for i, s := range fp.Symbols {
		parts[i] = "[" + s + "]"
	}
	cs.Title.Fprintln(w, "  "+strings.Join(parts, " "))
}

func scoreColor(cs *ColorScheme, score int) *color.Color {
	switch {
	case score >= 100:
		return cs.Success
	case score >= 85:
		return cs.Warning
	default:
		return cs.Error
	}
}

// Result prints a full analysis
func Result(w io.Writer, cs *ColorScheme, res *service.Result) {
	Header(w, cs, "Address analysis")

	field(w, cs, "Network")
	cs.Normal.Fprintln(w, res.Check.Network)

	field(w, cs, "Address")
	Segments(w, cs, segment.Segments{Prefix: res.Check.Prefix, Middle: res.Check.Middle, Suffix: res.Check.Suffix})

	field(w, cs, "Shape")
	if res.Check.IsSuspicious {
		cs.Error.Fprintln(w, "SUSPICIOUS")
	} else {
		cs.Success.Fprintln(w, "valid")
	}

	field(w, cs, "Trust")
	scoreColor(cs, res.TrustScore).Fprintf(w, "%d/100", res.TrustScore)
	if res.Trusted {
		label := ""
		if res.TrustEntry != nil && res.TrustEntry.Label != nil {
			label = " (" + *res.TrustEntry.Label + ")"
		}
		cs.Success.Fprintf(w, "  trusted%s", label)
	}
	fmt.Fprintln(w)

	if res.Fingerprint != nil {
		fmt.Fprintln(w)
		Grid(w, res.Fingerprint)
		fmt.Fprintln(w)
		Tokens(w, cs, res.Fingerprint)
	}

	for _, l := range res.Lookalikes {
		fmt.Fprintln(w)
		cs.Error.Fprintf(w, "  WARNING: looks like trusted address %s", segment.Default(l.Address).Masked())
		if l.Label != nil {
			cs.Error.Fprintf(w, " (%s)", *l.Label)
		}
		fmt.Fprintln(w)
		Diff(w, cs, diff.Compare(l.Address, res.Check.Address, false))
	}

	fmt.Fprintln(w)
	field(w, cs, "Unlock key")
	cs.Normal.Fprint(w, "type the last 3 characters: ")
	cs.Key.Fprintf(w, "…%s\n", res.UnlockHint)
}

// TrustList prints the trust list
func TrustList(w io.Writer, cs *ColorScheme, list []types.TrustedAddress) {
	Header(w, cs, fmt.Sprintf("Trusted addresses (%d)", len(list)))
	if len(list) == 0 {
		cs.Normal.Fprintln(w, "  (none)")
		return
	}
	for _, t := range list {
		fmt.Fprint(w, "  ")
		Segments(w, cs, segment.Default(t.Address))
		cs.Label.Fprintf(w, "    added %s", time.UnixMilli(t.AddedAt).UTC().Format(time.RFC3339))
		if t.Label != nil {
			cs.Normal.Fprintf(w, "  %s", *t.Label)
		}
		fmt.Fprintln(w)
	}
}

// History prints the check history, most recent first
func History(w io.Writer, cs *ColorScheme, history []types.AddressCheck) {
	Header(w, cs, fmt.Sprintf("Recent checks (%d)", len(history)))
	if len(history) == 0 {
		cs.Normal.Fprintln(w, "  (none)")
		return
	}
	for i, h := range history {
		cs.Label.Fprintf(w, "  %2d. ", i+1)
		cs.Edge.Fprint(w, h.Prefix)
		cs.Middle.Fprint(w, h.Middle)
		cs.Edge.Fprint(w, h.Suffix)
		status := cs.Success
		if h.IsSuspicious {
			status = cs.Error
		}
		status.Fprintf(w, "  %s\n", h.Network)
	}
}
