package fingerprint

// Palette is the 8-colour cell palette, indexed by value mod 8
var Palette = []string{
	"#ef4444", // red
	"#22c55e", // green
	"#eab308", // yellow
	"#3b82f6", // blue
	"#a855f7", // purple
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#f97316", // orange
}

// Style holds the rendering hints for one grid cell
type Style struct {
	ColorIndex int    `json:"colorIndex"`
	Color      string `json:"color"`
	Dimmed     bool   `json:"dimmed"` // Drawn at reduced opacity
	Shrunk     bool   `json:"shrunk"` // Drawn at reduced scale
}

// CellStyle maps a cell value (0-15) to its rendering hints
func CellStyle(v int) Style {
	idx := ((v % len(Palette)) + len(Palette)) % len(Palette)
	return Style{
		ColorIndex: idx,
		Color:      Palette[idx],
		Dimmed:     v%4 == 0,
		Shrunk:     v%2 != 0,
	}
}
