// Package export renders a generated BRD into the downloadable formats the
// UI offers: Word, PDF, Excel and JSON.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/gomutex/godocx"
	"github.com/xuri/excelize/v2"

	"agenthub/internal/brd"
)

// Filename returns the conventional export name, e.g. BRD_20240115_143000.pdf.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("BRD_%s.%s", now.Format("20060102_150405"), ext)
}

// ToJSON renders the BRD as indented JSON.
func ToJSON(b brd.BRD) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding brd: %w", err)
	}
	return data, nil
}

// ToPDF renders the BRD as a paginated PDF document.
func ToPDF(b brd.BRD) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 11)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.MultiCell(0, 10, "Business Requirements Document", "", "C", false)
	doc.SetFont("Helvetica", "", 9)
	doc.MultiCell(0, 6, "Generated "+b.GeneratedAt.Format("2006-01-02 15:04"), "", "C", false)
	doc.Ln(4)

	for _, s := range b.Sections {
		doc.SetFont("Helvetica", "B", 13)
		doc.MultiCell(0, 8, s.Title, "", "L", false)
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 6, s.Content, "", "L", false)
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ToWord renders the BRD as a .docx document.
func ToWord(b brd.BRD) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("creating docx: %w", err)
	}

	if _, err := doc.AddHeading("Business Requirements Document", 0); err != nil {
		return nil, fmt.Errorf("writing docx heading: %w", err)
	}
	doc.AddParagraph("Generated " + b.GeneratedAt.Format("2006-01-02 15:04"))

	for _, s := range b.Sections {
		if _, err := doc.AddHeading(s.Title, 1); err != nil {
			return nil, fmt.Errorf("writing docx heading: %w", err)
		}
		doc.AddParagraph(s.Content)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing docx: %w", err)
	}
	return buf.Bytes(), nil
}

// ToExcel renders the BRD as an .xlsx workbook with one row per section and
// a compliance sheet.
func ToExcel(b brd.BRD) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"Section", "Content", "Quality Score"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing xlsx header: %w", err)
		}
	}
	for row, s := range b.Sections {
		values := []any{s.Title, s.Content, b.QualityScores[s.Title]}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing xlsx row: %w", err)
			}
		}
	}

	if len(b.ComplianceChecks) > 0 {
		const compliance = "Compliance"
		if _, err := f.NewSheet(compliance); err != nil {
			return nil, fmt.Errorf("adding compliance sheet: %w", err)
		}
		f.SetCellValue(compliance, "A1", "Framework")
		f.SetCellValue(compliance, "B1", "Status")

		frameworks := make([]string, 0, len(b.ComplianceChecks))
		for fw := range b.ComplianceChecks {
			frameworks = append(frameworks, fw)
		}
		sort.Strings(frameworks)
		for i, fw := range frameworks {
			f.SetCellValue(compliance, fmt.Sprintf("A%d", i+2), fw)
			f.SetCellValue(compliance, fmt.Sprintf("B%d", i+2), b.ComplianceChecks[fw])
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
