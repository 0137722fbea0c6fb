// Package export writes selected items to files in the export directory
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
)

// ErrUnsupportedFormat is returned for formats that are listed but not written
var ErrUnsupportedFormat = errors.New("unsupported export format")

var columns = []string{"id", "name", "kind", "category", "tags", "archived", "created_at"}

// Exporter writes export files into Dir
type Exporter struct {
	Dir string
}

// New returns an exporter writing to dir
func New(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// Extension returns the file extension used for format
func Extension(format batch.ExportFormat) string {
	switch format {
	case batch.FormatExcel:
		return "xml"
	default:
		return string(format)
	}
}

// Export writes items in format and returns the path of the new file.
// Nothing is left behind on failure.
func (e *Exporter) Export(ctx context.Context, kind domain.Kind, items []*domain.Item, format batch.ExportFormat) (string, error) {
	var write func(io.Writer, []*domain.Item) error
	switch format {
	case batch.FormatJSON:
		write = writeJSON
	case batch.FormatCSV:
		write = writeCSV
	case batch.FormatExcel:
		write = func(w io.Writer, items []*domain.Item) error {
			return writeSpreadsheet(w, kind.Noun(), items)
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	tmp, err := os.CreateTemp(e.Dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp, items); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	path := filepath.Join(e.Dir, fmt.Sprintf("%s-%s.%s", kind, strings.ToLower(ulid.Make().String()), Extension(format)))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to finalize export: %w", err)
	}
	return path, nil
}

func record(item *domain.Item) []string {
	return []string{
		item.ID,
		item.Name,
		string(item.Kind),
		item.Category,
		strings.Join(item.Tags, ";"),
		strconv.FormatBool(item.Archived),
		item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeJSON(w io.Writer, items []*domain.Item) error {
	if items == nil {
		items = []*domain.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeCSV(w io.Writer, items []*domain.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write(record(item)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SpreadsheetML 2003, which spreadsheet applications open as a workbook

type workbook struct {
	XMLName   xml.Name  `xml:"Workbook"`
	Xmlns     string    `xml:"xmlns,attr"`
	XmlnsSS   string    `xml:"xmlns:ss,attr"`
	Worksheet worksheet `xml:"Worksheet"`
}

type worksheet struct {
	Name string `xml:"ss:Name,attr"`
	Rows []row  `xml:"Table>Row"`
}

type row struct {
	Cells []cell `xml:"Cell"`
}

type cell struct {
	Data cellData `xml:"Data"`
}

type cellData struct {
	Type  string `xml:"ss:Type,attr"`
	Value string `xml:",chardata"`
}

func textRow(values []string) row {
	r := row{Cells: make([]cell, len(values))}
	for i, v := range values {
		r.Cells[i] = cell{Data: cellData{Type: "String", Value: v}}
	}
	return r
}

func writeSpreadsheet(w io.Writer, sheet string, items []*domain.Item) error {
	const ns = "urn:schemas-microsoft-com:office:spreadsheet"
	wb := workbook{
		Xmlns:     ns,
		XmlnsSS:   ns,
		Worksheet: worksheet{Name: sheet},
	}
	wb.Worksheet.Rows = append(wb.Worksheet.Rows, textRow(columns))
	for _, item := range items {
		wb.Worksheet.Rows = append(wb.Worksheet.Rows, textRow(record(item)))
	}

	if _, err := io.WriteString(w, xml.Header+`<?mso-application progid="Excel.Sheet"?>`+"\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(wb); err != nil {
		return err
	}
	return enc.Close()
}
