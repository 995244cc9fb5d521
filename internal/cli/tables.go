package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tideman/pkg/tideman"
)

// headerRow is the row index lipgloss passes to StyleFunc for the header.
const headerRow = -1

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...)
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// matrixTable renders the pairwise matrix: the cell in row i, column j is the
// weight of voters preferring candidate i to candidate j.
func matrixTable(res *tideman.Result) string {
	n := len(res.Candidates)
	headers := make([]string, 0, n+1)
	headers = append(headers, "")
	for i := range n {
		headers = append(headers, res.Label(i))
	}

	rows := make([][]string, n)
	for i := range n {
		row := make([]string, 0, n+1)
		row = append(row, res.Label(i))
		for j := range n {
			if i == j {
				row = append(row, "-")
				continue
			}
			row = append(row, formatWeight(res.Matrix.At(i, j)))
		}
		rows[i] = row
	}

	t := newTable(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == headerRow || col == 0:
				return styleHeader.Padding(0, 1)
			case row == col-1:
				return base.Foreground(colorDim)
			case res.Matrix.At(row, col-1) > res.Matrix.At(col-1, row):
				return base.Foreground(colorGreen)
			}
			return base
		})
	return t.Render()
}

// lockTable renders the sorted pairs with the lock decision for each.
func lockTable(res *tideman.Result) string {
	rows := make([][]string, len(res.Edges))
	for i, e := range res.Edges {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			res.Label(e.Winner) + " " + iconArrow + " " + res.Label(e.Loser),
			formatWeight(e.WinWeight),
			formatWeight(e.LoseWeight),
			formatWeight(e.Margin),
			e.Status.String(),
		}
	}

	t := newTable("#", "Pair", "For", "Against", "Margin", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == headerRow {
				return styleHeader.Padding(0, 1)
			}
			if col == 5 {
				if res.Edges[row].Status == tideman.StatusLocked {
					return base.Foreground(colorGreen)
				}
				return base.Foreground(colorRed)
			}
			return base
		})
	return t.Render()
}

// rankingTable renders the social ranking, winner first.
func rankingTable(res *tideman.Result) string {
	rows := make([][]string, len(res.Ranking))
	for i, c := range res.Ranking {
		rows[i] = []string{strconv.Itoa(i + 1), res.Label(c), res.Name(c)}
	}

	t := newTable("Rank", "Candidate", "Name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == headerRow:
				return styleHeader.Padding(0, 1)
			case row == 0:
				return base.Inherit(StyleWinner)
			}
			return base
		})
	return t.Render()
}

// tieBreakLines describes each tie-break in the order it was applied.
func tieBreakLines(res *tideman.Result) []string {
	lines := make([]string, len(res.TieBreaks))
	for i, tb := range res.TieBreaks {
		labels := make([]string, len(tb.Candidates))
		for j, c := range tb.Candidates {
			labels[j] = res.Label(c)
		}
		lines[i] = string(tb.Kind) + ": " + strings.Join(labels, ", ")
		if tb.Detail != "" {
			lines[i] += " (" + tb.Detail + ")"
		}
	}
	return lines
}
