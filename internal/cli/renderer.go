package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgpai22/subtity/internal/player"
	"github.com/mgpai22/subtity/internal/subtitle"
)

// draws frames to a terminal, one block per cue change
type terminalRenderer struct {
	out   io.Writer
	width int
	last  int
}

func newTerminalRenderer(out io.Writer, width int) *terminalRenderer {
	return &terminalRenderer{out: out, width: width, last: -2}
}

func (r *terminalRenderer) Render(f player.Frame) {
	if f.Index == r.last {
		return
	}
	r.last = f.Index

	stamp := subtitle.FormatTimestamp(f.Time, ":", ".")
	if f.Index < 0 {
		fmt.Fprintf(r.out, "[%s]\n", stamp)
		return
	}
	fmt.Fprintf(r.out, "[%s]\n%s\n", stamp, lineStyle(f.Style, r.width).Render(strings.Join(f.Lines, "\n")))
}

func lineStyle(s player.Style, width int) lipgloss.Style {
	style := lipgloss.NewStyle().Width(width)

	switch s.Align {
	case "left", "start":
		style = style.Align(lipgloss.Left)
	case "right", "end":
		style = style.Align(lipgloss.Right)
	default:
		style = style.Align(lipgloss.Center)
	}

	if c := terminalColor(s.Color); c != "" {
		style = style.Foreground(lipgloss.Color(c))
	}
	if c := terminalColor(s.Background); c != "" {
		style = style.Background(lipgloss.Color(c))
	}
	if s.Weight == "bold" || s.Weight == "700" || s.Weight == "800" || s.Weight == "900" {
		style = style.Bold(true)
	}
	if s.Opacity > 0 && s.Opacity < 0.5 {
		style = style.Faint(true)
	}
	return style
}

var namedColors = map[string]string{
	"white":   "#ffffff",
	"black":   "#000000",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"gray":    "#808080",
	"grey":    "#808080",
}

// CSS color in hex form for lipgloss, empty when it cannot be mapped
func terminalColor(css string) string {
	css = strings.ToLower(strings.TrimSpace(css))
	if css == "" {
		return ""
	}
	if strings.HasPrefix(css, "#") {
		return css
	}
	if hex, ok := namedColors[css]; ok {
		return hex
	}

	for _, prefix := range []string{"rgba(", "rgb("} {
		if !strings.HasPrefix(css, prefix) || !strings.HasSuffix(css, ")") {
			continue
		}
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(css, prefix), ")"), ",")
		if len(parts) < 3 {
			return ""
		}
		if len(parts) == 4 {
			if alpha, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64); err == nil && alpha == 0 {
				return ""
			}
		}
		var rgb [3]int
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || v < 0 || v > 255 {
				return ""
			}
			rgb[i] = v
		}
		return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
	}
	return ""
}
