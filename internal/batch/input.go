package batch

import (
	"fmt"
	"slices"
	"strings"
)

// Input is the parameter collected for an operation that requires input.
// Its concrete type is determined by the operation: *TagInput, *MoveInput
// or *ExportInput.
type Input interface {
	Valid() bool
	isInput()
}

// TagInput collects a list of tags
type TagInput struct {
	tags []string
}

func (*TagInput) isInput() {}

// Add appends tag unless it is blank or already present
func (t *TagInput) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(t.tags, tag) {
		return false
	}
	t.tags = append(t.tags, tag)
	return true
}

// Remove drops tag from the list
func (t *TagInput) Remove(tag string) {
	t.tags = slices.DeleteFunc(t.tags, func(s string) bool { return s == tag })
}

// Tags returns a copy of the collected tags
func (t *TagInput) Tags() []string {
	return append([]string(nil), t.tags...)
}

func (t *TagInput) Valid() bool {
	return len(t.tags) > 0
}

// MoveInput collects the target category
type MoveInput struct {
	Category string
	Options  []string
}

func (*MoveInput) isInput() {}

func (m *MoveInput) Valid() bool {
	return strings.TrimSpace(m.Category) != ""
}

// Target returns the trimmed category
func (m *MoveInput) Target() string {
	return strings.TrimSpace(m.Category)
}

// ExportFormat is an export file format
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
	FormatPDF   ExportFormat = "pdf"
)

// ExportFormats lists supported formats in menu order
var ExportFormats = []ExportFormat{FormatJSON, FormatCSV, FormatExcel, FormatPDF}

// ParseExportFormat converts a raw string into an ExportFormat
func ParseExportFormat(raw string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(ExportFormats, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", raw)
}

// ExportInput collects the export format. It always holds a valid format.
type ExportInput struct {
	Format ExportFormat
}

func (*ExportInput) isInput() {}

func (e *ExportInput) Valid() bool {
	return slices.Contains(ExportFormats, e.Format)
}

// Next cycles to the following format
func (e *ExportInput) Next() {
	i := slices.Index(ExportFormats, e.Format)
	e.Format = ExportFormats[(i+1)%len(ExportFormats)]
}

// Prev cycles to the preceding format
func (e *ExportInput) Prev() {
	i := slices.Index(ExportFormats, e.Format)
	if i <= 0 {
		i = len(ExportFormats)
	}
	e.Format = ExportFormats[i-1]
}

// newInput returns a fresh input for op, or nil if op takes no input
func newInput(op OperationID, categories []string) Input {
	switch op {
	case OpTag:
		return &TagInput{}
	case OpMove:
		return &MoveInput{Options: append([]string(nil), categories...)}
	case OpExport:
		return &ExportInput{Format: FormatJSON}
	default:
		return nil
	}
}
