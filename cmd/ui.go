package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	brand  = color.New(color.FgHiRed, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
	bad    = color.New(color.FgRed)
)

// table prints an aligned two-space-indented table. Cells must be plain text,
// color escape codes would break the width computation.
func table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	subtle.Println(headerLine)
	subtle.Println(sepLine)

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println(line)
	}
}

// multiplierCell pads text to width first so the color escape codes cannot
// disturb the column alignment.
func multiplierCell(text string, width int, m float64) string {
	padded := fmt.Sprintf("%-*s", width, text)
	switch {
	case m == 0:
		return bad.Sprint(padded)
	case m < 1:
		return warn.Sprint(padded)
	case m > 1:
		return good.Sprint(padded)
	}
	return subtle.Sprint(padded)
}

// multiplierText renders an effectiveness multiplier the compact chart way.
func multiplierText(m float64) string {
	switch m {
	case 0:
		return "0"
	case 0.25:
		return "1/4"
	case 0.5:
		return "1/2"
	case 1:
		return "."
	}
	return fmt.Sprintf("%g", m)
}

// deltaCell pads a signed difference before coloring it, keeping columns
// aligned.
func deltaCell(d, width int) string {
	padded := fmt.Sprintf("%+*d", width, d)
	switch {
	case d > 0:
		return good.Sprint(padded)
	case d < 0:
		return bad.Sprint(padded)
	}
	return subtle.Sprint(padded)
}

// probabilityCell colors a capture percentage by how promising it is.
func probabilityCell(p float64) string {
	text := fmt.Sprintf("%.2f%%", p)
	switch {
	case p >= 50:
		return good.Sprint(text)
	case p >= 15:
		return warn.Sprint(text)
	}
	return bad.Sprint(text)
}

func statusIcon(ok bool) string {
	if ok {
		return good.Sprint("✓")
	}
	return bad.Sprint("✗")
}
