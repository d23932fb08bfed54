package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table prints rows under headers
func (p *Printer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			return p.styles.cell
		})
	fmt.Fprintln(p.out, t.Render())
}

// Pair is one row of a key/value listing
type Pair struct {
	Key   string
	Value string
}

// Pairs prints aligned key/value rows
func (p *Printer) Pairs(pairs []Pair) {
	width := 0
	for _, kv := range pairs {
		if len(kv.Key) > width {
			width = len(kv.Key)
		}
	}
	for _, kv := range pairs {
		pad := strings.Repeat(" ", width-len(kv.Key))
		fmt.Fprintf(p.out, "%s%s %s\n", p.styles.label.Render(kv.Key+":"), pad, kv.Value)
	}
}
