// Package output provides utilities for formatting command output.
package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the display width of a string, accounting for
// unicode characters.
//
// It calculates the visual width of a string as it would appear in a
// terminal, correctly handling wide characters (e.g., CJK characters)
// that occupy more than one character cell. Package titles are free-form
// user text, so every width calculation goes through here.
//
// Parameters:
//   - val: The string to measure
//
// Returns:
//   - int: The display width in character cells (wide characters count as 2)
func DisplayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// ToWidth pads a string to a specific display width.
//
// Parameters:
//   - val: The string to pad
//   - width: The target display width in character cells
//
// Returns:
//   - string: The padded string, or original if already wide enough or width <= 0
func ToWidth(val string, width int) string {
	if width <= 0 {
		return val
	}
	current := DisplayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}

// Column represents a single table column with its header and current width.
//
// Fields:
//   - Header: The display text for this column's header
//   - Width: The current display width for this column in characters
type Column struct {
	Header string
	Width  int
}

// Table provides a flexible table formatter with dynamic column widths.
// It handles unicode-aware width calculations and consistent formatting.
type Table struct {
	columns   []Column
	separator string
}

// NewTable creates a new table formatter and returns a pointer to it.
//
// The table is initialized with an empty column list and a default
// separator of two spaces ("  ").
//
// Returns:
//   - *Table: A new table instance ready for column configuration
func NewTable() *Table {
	return &Table{
		columns:   make([]Column, 0),
		separator: "  ",
	}
}

// AddColumn adds a column with the given header and returns the table.
//
// The initial width is set to the display width of the header.
//
// Parameters:
//   - header: The text to display in the column header
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) AddColumn(header string) *Table {
	t.columns = append(t.columns, Column{
		Header: header,
		Width:  DisplayWidth(header),
	})
	return t
}

// UpdateWidths updates column widths based on a row of values and returns
// the table.
//
// Each value's display width is compared with the current column width
// and the larger of the two is kept, so all content fits.
//
// Parameters:
//   - values: Variable number of strings representing a data row
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) UpdateWidths(values ...string) *Table {
	for i, val := range values {
		if i < len(t.columns) {
			width := DisplayWidth(val)
			if width > t.columns[i].Width {
				t.columns[i].Width = width
			}
		}
	}
	return t
}

// HeaderRow returns the formatted header row string.
//
// Returns:
//   - string: Formatted header row with columns separated by the separator
func (t *Table) HeaderRow() string {
	parts := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		parts = append(parts, ToWidth(col.Header, col.Width))
	}
	return strings.Join(parts, t.separator)
}

// SeparatorRow returns a separator row with dashes matching column widths.
//
// Returns:
//   - string: Formatted separator row dividing header from data rows
func (t *Table) SeparatorRow() string {
	parts := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		parts = append(parts, strings.Repeat("-", col.Width))
	}
	return strings.Join(parts, t.separator)
}

// FormatRow formats a data row with proper padding for each column and
// returns the formatted string.
//
// Missing values (when fewer values than columns are provided) are
// treated as empty strings.
//
// Parameters:
//   - values: Variable number of strings representing the row data, one per column
//
// Returns:
//   - string: Formatted row with values separated by the separator
func (t *Table) FormatRow(values ...string) string {
	parts := make([]string, 0, len(t.columns))
	for i, col := range t.columns {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		parts = append(parts, ToWidth(val, col.Width))
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}
