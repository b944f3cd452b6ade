package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringavatar/pkg/avatar"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var matrix bool

	cmd := &cobra.Command{
		Use:   "stats <digits|->",
		Short: "Print digit counts, arc angles, and transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := readSeeds(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := avatar.Compute(seeds[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render("Digits of "+seedLabel(seeds[0])))
			fmt.Fprintln(out, digitTable(&s).Render())
			if matrix {
				fmt.Fprintln(out, StyleTitle.Render("Transitions (row → column)"))
				fmt.Fprintln(out, transitionTable(&s).Render())
			}
			fmt.Fprintln(out, statsLine(s.Total, distinctDigits(&s), false))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&matrix, "matrix", "m", false, "also print the 10×10 transition matrix")
	return cmd
}

// digitRows returns one row per digit value: count, share of the string,
// arc start and end in degrees, and the most frequent successor.
func digitRows(s *avatar.Snapshot) [][]string {
	rows := make([][]string, 0, avatar.Digits)
	for d, e := range s.Entries {
		share, start, end := "-", "-", "-"
		if s.Total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(e.Count)/float64(s.Total))
		}
		if e.Count > 0 {
			start = degrees(e.StartAngle)
			end = degrees(e.EndAngle)
		}
		rows = append(rows, []string{strconv.Itoa(d), strconv.Itoa(e.Count), share, start, end, topSuccessor(e)})
	}
	return rows
}

// topSuccessor formats the digit most often following e as "d ×n", lowest
// digit first on ties.
func topSuccessor(e avatar.Entry) string {
	best, n := -1, 0
	for d, c := range e.Next {
		if c > n {
			best, n = d, c
		}
	}
	if best < 0 {
		return "-"
	}
	return fmt.Sprintf("%d ×%d", best, n)
}

func degrees(rad float64) string {
	return fmt.Sprintf("%.1f°", rad*180/math.Pi)
}

func distinctDigits(s *avatar.Snapshot) int {
	n := 0
	for _, e := range s.Entries {
		if e.Count > 0 {
			n++
		}
	}
	return n
}

func digitTable(s *avatar.Snapshot) *table.Table {
	colors := paletteColors()
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Digit", "Count", "Share", "Start", "End", "Next").
		Rows(digitRows(s)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return cell.Inherit(styleHeader)
			case col == 0:
				return cell.Foreground(colors[row]).Bold(true)
			case s.Entries[row].Count == 0:
				return cell.Foreground(colorDim)
			}
			return cell.Foreground(colorWhite)
		})
}

func transitionTable(s *avatar.Snapshot) *table.Table {
	headers := make([]string, 0, avatar.Digits+1)
	headers = append(headers, "")
	rows := make([][]string, avatar.Digits)
	for a := 0; a < avatar.Digits; a++ {
		headers = append(headers, strconv.Itoa(a))
		rows[a] = append(rows[a], strconv.Itoa(a))
		for b := 0; b < avatar.Digits; b++ {
			cell := "·"
			if n := s.Transitions(a, b); n > 0 {
				cell = strconv.Itoa(n)
			}
			rows[a] = append(rows[a], cell)
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Align(lipgloss.Right)
			if row == table.HeaderRow || col == 0 {
				return cell.Inherit(styleHeader)
			}
			if s.Transitions(row, col-1) == 0 {
				return cell.Foreground(colorDim)
			}
			return cell.Foreground(colorCyan)
		})
}

// paletteColors returns the default digit colors for terminal output.
func paletteColors() [avatar.Digits]lipgloss.Color {
	var out [avatar.Digits]lipgloss.Color
	for i, c := range avatar.DefaultPalette {
		if i < avatar.Digits {
			out[i] = lipgloss.Color(c)
		}
	}
	return out
}
