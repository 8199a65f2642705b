package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/dropalert/internal/banner"
)

// renderBanner draws the banner block: width x height cells of background
// with the visible labels placed at their frames. Translucent colors are
// flattened over backdrop since terminals have no alpha.
func renderBanner(b *banner.Banner, width, height int, backdrop banner.Color) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	bg := lipgloss.Color(b.Background().Over(backdrop).Hex())
	fill := lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", width))

	rows := make([]string, height)
	for i := range rows {
		rows[i] = fill
	}
	block := strings.Join(rows, "\n")

	for _, l := range []banner.Label{b.Title(), b.Message()} {
		if l.Hidden || l.Text == "" {
			continue
		}
		x := int(math.Round(l.Frame.X))
		y := int(math.Floor(l.Frame.Y))
		w := int(math.Round(l.Frame.Width))
		if x+w > width {
			w = width - x
		}
		if w <= 0 || y >= height {
			continue
		}
		text := renderLabel(l, w, bg, backdrop)
		block = overlayAt(block, text, x, y, width, height)
	}

	return block
}

// renderLabel renders a label centred in w cells, wrapped to at most
// MaxLines rows and never more rows than its frame holds.
func renderLabel(l banner.Label, w int, bg lipgloss.Color, backdrop banner.Color) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(l.Color.Over(backdrop).Hex())).
		Background(bg).
		Bold(l.Font.Bold).
		Italic(l.Font.Italic).
		Underline(l.Font.Underline).
		Width(w).
		Align(lipgloss.Center)

	maxRows := int(math.Round(l.Frame.Height))
	if l.MaxLines > 0 && (maxRows <= 0 || l.MaxLines < maxRows) {
		maxRows = l.MaxLines
	}
	if maxRows < 1 {
		maxRows = 1
	}

	lines := splitLines(style.Render(l.Text))
	if len(lines) > maxRows {
		lines = lines[:maxRows]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, w, "")
	}
	return strings.Join(lines, "\n")
}

// overlayAt composites overlay on top of base at cell (x, y). Both are
// line-based grids of the given screen size; parts of overlay that fall
// outside the screen are clipped, including negative offsets.
func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitLines(base)
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)

	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}

		line = padRight(line, overlayWidth)
		ox := x
		if ox < 0 {
			line = ansi.TruncateLeft(line, -ox, "")
			ox = 0
		}
		if ox >= width {
			continue
		}
		if ox+ansi.StringWidth(line) > width {
			line = ansi.Truncate(line, width-ox, "")
		}

		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, ox, "")
		if lw := ansi.StringWidth(left); lw < ox {
			left += strings.Repeat(" ", ox-lw)
		}

		pos := ox + ansi.StringWidth(line)
		right := ansi.TruncateLeft(target, pos, "")
		if gap := width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}

		baseLines[row] = left + line + right
	}

	return strings.Join(baseLines, "\n")
}

// splitLines splits a string on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// maxLineWidth returns the visual width of the widest line.
func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
