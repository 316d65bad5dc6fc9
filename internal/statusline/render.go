package statusline

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zsprackett/claude-limitline/internal/config"
	"github.com/zsprackett/claude-limitline/internal/segments"
	"github.com/zsprackett/claude-limitline/internal/trend"
)

// Data is everything one statusline line shows. Nil infos are disabled
// segments.
type Data struct {
	Block  *segments.BlockInfo
	Weekly *segments.WeeklyInfo
	Trend  trend.Result
}

type segment struct {
	text   string
	colors SegmentColor
}

type Renderer struct {
	cfg       config.Config
	theme     Theme
	symbols   symbolSet
	lip       *lipgloss.Renderer
	powerline bool
}

// NewRenderer renders with the given color profile. The host statusline reads
// stdout through a pipe, so the profile is set explicitly rather than
// detected from the terminal. Nerd fonts imply powerline arrows; without them
// segments are joined by a plain separator.
func NewRenderer(cfg config.Config, w io.Writer, profile termenv.Profile) *Renderer {
	lip := lipgloss.NewRenderer(w)
	lip.SetColorProfile(profile)
	symbols := textSymbols
	if cfg.Display.UseNerdFonts {
		symbols = nerdSymbols
	}
	return &Renderer{
		cfg:       cfg,
		theme:     ThemeByName(cfg.Theme),
		symbols:   symbols,
		lip:       lip,
		powerline: cfg.Display.UseNerdFonts,
	}
}

func (r *Renderer) Render(d Data) string {
	var segs []segment
	if s, ok := r.blockSegment(d.Block, d.Trend.FiveHour); ok {
		segs = append(segs, s)
	}
	if s, ok := r.weeklySegment(d.Weekly, d.Trend.SevenDay); ok {
		segs = append(segs, s)
	}
	if len(segs) == 0 {
		return ""
	}
	if r.powerline {
		return r.renderPowerline(segs)
	}
	return r.renderMinimal(segs)
}

func (r *Renderer) blockSegment(info *segments.BlockInfo, dir trend.Direction) (segment, bool) {
	if info == nil || !r.cfg.Block.Enabled {
		return segment{}, false
	}
	if info.PercentUsed == nil {
		return segment{text: fmt.Sprintf(" %s -- ", r.symbols.block), colors: r.theme.Block}, true
	}
	pct := *info.PercentUsed
	text := r.usageText(pct, r.cfg.Block.DisplayStyle, r.cfg.Block.BarWidth) + dir.Arrow()
	if r.cfg.Block.ShowTimeRemaining && info.TimeRemaining != nil {
		text += fmt.Sprintf(" (%s)", FormatTimeRemaining(*info.TimeRemaining))
	}
	return segment{
		text:   fmt.Sprintf(" %s %s ", r.symbols.block, text),
		colors: r.colorsFor(pct, r.theme.Block),
	}, true
}

func (r *Renderer) weeklySegment(info *segments.WeeklyInfo, dir trend.Direction) (segment, bool) {
	if info == nil || !r.cfg.Weekly.Enabled {
		return segment{}, false
	}
	if info.PercentUsed == nil {
		return segment{text: fmt.Sprintf(" %s -- ", r.symbols.weekly), colors: r.theme.Weekly}, true
	}
	pct := *info.PercentUsed
	text := r.usageText(pct, r.cfg.Weekly.DisplayStyle, r.cfg.Weekly.BarWidth) + dir.Arrow()
	if r.cfg.Weekly.ShowWeekProgress {
		text += fmt.Sprintf(" (wk %d%%)", info.WeekProgressPercent)
	}
	// Weekly keeps its own colors at any level; only the block segment
	// switches to warning/critical.
	return segment{
		text:   fmt.Sprintf(" %s %s ", r.symbols.weekly, text),
		colors: r.theme.Weekly,
	}, true
}

func (r *Renderer) usageText(pct float64, style string, width int) string {
	if style == "bar" {
		return fmt.Sprintf("%s %d%%", r.progressBar(pct, width), int(math.Round(pct)))
	}
	return fmt.Sprintf("%d%%", int(math.Round(pct)))
}

func (r *Renderer) progressBar(pct float64, width int) string {
	filled := int(math.Round(pct / 100 * float64(width)))
	filled = max(0, min(width, filled))
	return strings.Repeat(r.symbols.barFull, filled) + strings.Repeat(r.symbols.barOff, width-filled)
}

func (r *Renderer) colorsFor(pct float64, base SegmentColor) SegmentColor {
	switch {
	case pct >= 100:
		return r.theme.Critical
	case pct >= float64(r.cfg.Budget.WarningThreshold):
		return r.theme.Warning
	default:
		return base
	}
}

func (r *Renderer) style(c SegmentColor) lipgloss.Style {
	return r.lip.NewStyle().Background(c.BG).Foreground(c.FG)
}

func (r *Renderer) renderMinimal(segs []segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = r.style(s.colors).Render(s.text)
	}
	sep := r.lip.NewStyle().Foreground(r.theme.Muted).Render(r.symbols.separator)
	return strings.Join(parts, " "+sep+" ")
}

func (r *Renderer) renderPowerline(segs []segment) string {
	var sb strings.Builder
	for i, s := range segs {
		sb.WriteString(r.style(s.colors).Render(s.text))
		arrow := r.lip.NewStyle().Foreground(s.colors.BG)
		if i < len(segs)-1 {
			arrow = arrow.Background(segs[i+1].colors.BG)
		}
		sb.WriteString(arrow.Render(r.symbols.arrow))
	}
	return sb.String()
}

// FormatTimeRemaining renders minutes as "45m", "2h" or "2h15m".
func FormatTimeRemaining(minutes int) string {
	if minutes >= 60 {
		h, m := minutes/60, minutes%60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", minutes)
}
