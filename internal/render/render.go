// Package render provides helpers for formatting CLI output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

const (
	tabWriterMinWidth = 0
	tabWriterTabWidth = 2
	tabWriterPadding  = 2
	tabWriterFlags    = 0

	titleRuleWidth = 4
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// JSON writes the supplied value as indented JSON.
func JSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Title writes a bold section title with a short leading rule.
func Title(w io.Writer, text string) error {
	rule := strings.Repeat("─", titleRuleWidth)
	if _, err := fmt.Fprintf(w, "%s %s\n", rule, titleStyle.Render(text)); err != nil {
		return fmt.Errorf("write title: %w", err)
	}
	return nil
}

// Table renders the provided headers and rows via a tabwriter. Headers are
// bolded; styling is applied per cell before alignment so tab stops stay
// consistent.
func Table(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, tabWriterMinWidth, tabWriterTabWidth, tabWriterPadding, ' ', tabWriterFlags)
	if len(headers) > 0 {
		styled := make([]string, len(headers))
		for i, h := range headers {
			styled[i] = headerStyle.Render(h)
		}
		if err := writeRow(tw, styled); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := writeRow(tw, row); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}

// ErrorCell styles an error message for a table cell.
func ErrorCell(msg string) string {
	return errorStyle.Render(msg)
}

// NoneCell is the placeholder for an absent value.
func NoneCell() string {
	return mutedStyle.Render("None")
}

// OKCell styles an affirmative status value.
func OKCell(msg string) string {
	return okStyle.Render(msg)
}

func writeRow(w io.Writer, columns []string) error {
	if len(columns) == 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		return nil
	}

	line := strings.Join(columns, "\t")
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	return nil
}
