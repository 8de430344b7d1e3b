package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	amountStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	barStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(40).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// pad fills s with spaces to w display cells, on the left when right is set.
func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func rule(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
	return b.String()
}

// RenderTable renders a bordered table with headers and rows. The first
// column is left-aligned, the rest right-aligned.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + pad(h, widths[i], false) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(" " + pad(cell, widths[i], i > 0) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

// RenderExpenses renders expenses as a numbered table with the display
// line of each record.
func RenderExpenses(title, currency string, expenses []core.Expense) string {
	rows := make([][]string, len(expenses))
	for i, e := range expenses {
		rows[i] = []string{e.Category, core.FormatAmount(currency, e.Amount), e.Date, fmt.Sprintf("%d", i+1)}
	}
	return RenderTable(Table{
		Title:   title,
		Headers: []string{"Category", "Amount", "Date", "#"},
		Rows:    rows,
	})
}

// RenderChart renders category shares as horizontal bars scaled to width,
// each annotated with its amount and share of the absolute total.
func RenderChart(currency string, total decimal.Decimal, shares []core.CategoryShare, width int) string {
	if len(shares) == 0 {
		return ""
	}

	labelW := 0
	amountW := 0
	for _, s := range shares {
		labelW = max(labelW, lipgloss.Width(s.Category))
		amountW = max(amountW, lipgloss.Width(core.FormatAmount(currency, s.Amount)))
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Expenses by category"))
	b.WriteString("\n\n")

	for _, s := range shares {
		n := barLength(s.Percent, width)
		bar := strings.Repeat("█", n) + strings.Repeat("░", width-n)
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(pad(s.Category, labelW, false)))
		b.WriteString("  ")
		b.WriteString(barStyle.Render(bar))
		b.WriteString("  ")
		b.WriteString(amountStyle.Render(pad(core.FormatAmount(currency, s.Amount), amountW, true)))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %5s%%", s.Percent.StringFixed(1))))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(mutedStyle.Render("Total " + core.FormatAmount(currency, total)))
	b.WriteString("\n")
	return b.String()
}

// barLength maps a percentage to filled cells. Any non-zero share gets at
// least one cell.
func barLength(percent decimal.Decimal, width int) int {
	if width <= 0 || percent.Sign() <= 0 {
		return 0
	}
	n := int(percent.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).Round(0).IntPart())
	return min(max(n, 1), width)
}

// RenderMessage renders an informational line.
func RenderMessage(msg string) string { return mutedStyle.Render(msg) }

// RenderSuccess renders a confirmation line.
func RenderSuccess(msg string) string { return amountStyle.Render(msg) }

// RenderWarning renders a caution line.
func RenderWarning(msg string) string { return warnStyle.Render(msg) }

// RenderError renders an error line.
func RenderError(msg string) string { return errorStyle.Render(msg) }
