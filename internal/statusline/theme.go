package statusline

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// SegmentColor is a background/foreground pair.
type SegmentColor struct {
	BG lipgloss.Color
	FG lipgloss.Color
}

type Theme struct {
	Block    SegmentColor
	Weekly   SegmentColor
	Warning  SegmentColor // near the warning threshold
	Critical SegmentColor // at or over the limit
	Muted    lipgloss.Color
}

var themes = map[string]Theme{
	"dark": {
		Block:    SegmentColor{BG: "#2a2a2a", FG: "#87ceeb"},
		Weekly:   SegmentColor{BG: "#1a1a1a", FG: "#98fb98"},
		Warning:  SegmentColor{BG: "#d75f00", FG: "#ffffff"},
		Critical: SegmentColor{BG: "#af0000", FG: "#ffffff"},
		Muted:    "#6c6c6c",
	},
	"light": {
		Block:    SegmentColor{BG: "#6366f1", FG: "#ffffff"},
		Weekly:   SegmentColor{BG: "#10b981", FG: "#ffffff"},
		Warning:  SegmentColor{BG: "#f59e0b", FG: "#000000"},
		Critical: SegmentColor{BG: "#ef4444", FG: "#ffffff"},
		Muted:    "#9ca3af",
	},
	"nord": {
		Block:    SegmentColor{BG: "#3b4252", FG: "#81a1c1"},
		Weekly:   SegmentColor{BG: "#2e3440", FG: "#8fbcbb"},
		Warning:  SegmentColor{BG: "#d08770", FG: "#2e3440"},
		Critical: SegmentColor{BG: "#bf616a", FG: "#eceff4"},
		Muted:    "#4c566a",
	},
	"gruvbox": {
		Block:    SegmentColor{BG: "#3c3836", FG: "#83a598"},
		Weekly:   SegmentColor{BG: "#282828", FG: "#fabd2f"},
		Warning:  SegmentColor{BG: "#d79921", FG: "#282828"},
		Critical: SegmentColor{BG: "#cc241d", FG: "#ebdbb2"},
		Muted:    "#665c54",
	},
	"tokyo-night": {
		Block:    SegmentColor{BG: "#2d3748", FG: "#7aa2f7"},
		Weekly:   SegmentColor{BG: "#1a202c", FG: "#4fd6be"},
		Warning:  SegmentColor{BG: "#e0af68", FG: "#1a1b26"},
		Critical: SegmentColor{BG: "#f7768e", FG: "#1a1b26"},
		Muted:    "#565f89",
	},
	"rose-pine": {
		Block:    SegmentColor{BG: "#2a273f", FG: "#eb6f92"},
		Weekly:   SegmentColor{BG: "#232136", FG: "#9ccfd8"},
		Warning:  SegmentColor{BG: "#f6c177", FG: "#191724"},
		Critical: SegmentColor{BG: "#eb6f92", FG: "#191724"},
		Muted:    "#6e6a86",
	},
	// Catppuccin Mocha
	"catppuccin": {
		Block:    SegmentColor{BG: "#313244", FG: "#89b4fa"},
		Weekly:   SegmentColor{BG: "#181825", FG: "#a6e3a1"},
		Warning:  SegmentColor{BG: "#f9e2af", FG: "#1e1e2e"},
		Critical: SegmentColor{BG: "#f38ba8", FG: "#1e1e2e"},
		Muted:    "#6c7086",
	},
}

// ThemeNames lists the built-in themes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns the named theme, falling back to dark.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["dark"]
}

type symbolSet struct {
	block, weekly   string
	separator       string
	arrow           string
	barFull, barOff string
}

var (
	nerdSymbols = symbolSet{
		block:     "\uf017", // clock
		weekly:    "\uf073", // calendar
		separator: "│",
		arrow:     "\ue0b0",
		barFull:   "█",
		barOff:    "░",
	}
	textSymbols = symbolSet{
		block:     "BLK",
		weekly:    "WK",
		separator: "|",
		arrow:     ">",
		barFull:   "=",
		barOff:    "-",
	}
)
