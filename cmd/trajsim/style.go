package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/trajsim/internal/diagnostics"
	"github.com/san-kum/trajsim/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

func statusStyle(s sim.Status) lipgloss.Style {
	switch s {
	case sim.Completed, sim.Terminated:
		return okStyle
	case sim.Canceled:
		return warnStyle
	default:
		return errStyle
	}
}

func kv(key string, value any) string {
	return keyStyle.Render(fmt.Sprintf("%-26s", key)) + valueStyle.Render(fmt.Sprint(value))
}

// renderSummary prints the outcome of one run as a bordered block.
func renderSummary(w io.Writer, title, runID string, res *sim.Result, set diagnostics.Set) {
	var lines []string
	lines = append(lines, titleStyle.Render(title))
	if runID != "" {
		lines = append(lines, kv("run id", runID))
	}
	lines = append(lines,
		kv("status", statusStyle(res.Status).Render(res.Status.String())),
		kv("reason", res.Reason),
		kv("steps", res.StepsTaken),
		kv("final time", fmt.Sprintf("%.6g", res.Final().T)),
	)
	for _, c := range res.Events {
		lines = append(lines, kv("event", c.String()))
	}
	for _, w := range res.Warnings {
		lines = append(lines, warnStyle.Render("warning: "+w.Error()))
	}
	if res.Err != nil {
		lines = append(lines, errStyle.Render(res.Err.Error()))
	}
	if len(set) > 0 {
		lines = append(lines, "", titleStyle.Render("diagnostics"))
		for _, k := range set.Keys() {
			lines = append(lines, kv(k, fmt.Sprintf("%.9g", set[k])))
		}
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// renderTable prints rows under a styled header.
func renderTable(w io.Writer, header []string, rows [][]string) {
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(keyStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return cell
		})
	fmt.Fprintln(w, t.Render())
}
