package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for output formatters.
// This enables consistent output formatting across all commands.
type Formatter interface {
	// Format writes the given data to the output writer
	Format(data interface{}) error
}

// FormatterOptions contains configuration for formatters
type FormatterOptions struct {
	// Writer is where output is written (defaults to os.Stdout)
	Writer io.Writer
	// NoColor disables colored output for text formatters
	NoColor bool
	// Compact enables compact output (no indentation for JSON/YAML)
	Compact bool
}

// Formats lists the names accepted by NewFormatter.
var Formats = []string{"text", "json", "yaml"}

// NewFormatter creates a formatter based on the format string
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	if opts == nil {
		opts = &FormatterOptions{Writer: os.Stdout}
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case "json":
		return &JSONFormatter{opts: opts}, nil
	case "yaml":
		return &YAMLFormatter{opts: opts}, nil
	case "text", "":
		return &TextFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// IsText reports whether format selects the human-readable formatter.
func IsText(format string) bool {
	return format == "" || format == "text"
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts *FormatterOptions
}

// Format writes data as JSON
func (f *JSONFormatter) Format(data interface{}) error {
	encoder := json.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	opts *FormatterOptions
}

// Format writes data as YAML
func (f *YAMLFormatter) Format(data interface{}) error {
	encoder := yaml.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent(2)
	}
	defer encoder.Close()
	return encoder.Encode(data)
}

// Table is tabular text output.
type Table struct {
	Header []string
	Rows   [][]string
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// Field is one labelled value of a record.
type Field struct {
	Label string
	Value string
}

// Fields renders a single record as aligned "label: value" lines.
type Fields []Field

// TextFormatter formats output as human-readable text
type TextFormatter struct {
	opts *FormatterOptions
}

// Format writes data as formatted text. Supported values are strings,
// Table, Fields and anything implementing fmt.Stringer.
func (f *TextFormatter) Format(data interface{}) error {
	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(f.opts.Writer, v)
		return err
	case Table:
		_, err := fmt.Fprintln(f.opts.Writer, f.renderTable(v))
		return err
	case Fields:
		_, err := fmt.Fprint(f.opts.Writer, f.renderFields(v))
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.opts.Writer, v.String())
		return err
	default:
		return fmt.Errorf("text formatter requires a string, Table, Fields or fmt.Stringer, got %T", data)
	}
}

func (f *TextFormatter) renderTable(t Table) string {
	if len(t.Rows) == 0 {
		if t.Empty != "" {
			return t.Empty
		}
		return "No results"
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	border := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if f.opts.NoColor {
		border = lipgloss.NewStyle()
		header = cell
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		Headers(t.Header...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return tbl.Render()
}

func (f *TextFormatter) renderFields(fields Fields) string {
	width := 0
	for _, fl := range fields {
		width = max(width, len(fl.Label))
	}
	label := lipgloss.NewStyle().Bold(true)
	if f.opts.NoColor {
		label = lipgloss.NewStyle()
	}
	var b strings.Builder
	for _, fl := range fields {
		pad := strings.Repeat(" ", width-len(fl.Label))
		fmt.Fprintf(&b, "%s:%s %s\n", label.Render(fl.Label), pad, fl.Value)
	}
	return b.String()
}

// Compile-time verification that formatters implement Formatter
var _ Formatter = (*JSONFormatter)(nil)
var _ Formatter = (*YAMLFormatter)(nil)
var _ Formatter = (*TextFormatter)(nil)
