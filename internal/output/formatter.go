// Package output provides a set of formatters for execution plans and
// dispatch results, adapted from the teacher's diff/migration formatter
// package (internal/output/formatter.go originally dispatched on
// *diff.SchemaDiff and *migration.Migration; the same Format
// enum/registry idiom now dispatches on *core.ExecutionPlan and
// []*dispatch.OperationResult instead). It is extendable and currently
// provides three formats: human, JSON, and summary.
package output

import (
	"fmt"
	"strings"

	"medalc/internal/core"
	"medalc/internal/dispatch"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatHuman   Format = "human"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter is an interface for formatting an execution plan and the
// results of dispatching it.
type Formatter interface {
	FormatPlan(*core.ExecutionPlan) (string, error)
	FormatResults([]*dispatch.OperationResult) (string, error)
}

// NewFormatter creates a new Formatter instance based on the given name.
// If no format is specified, defaults to human format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'human', 'json', or 'summary'", name)
	}
}
