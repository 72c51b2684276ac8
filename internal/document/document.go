// Package document turns an uploaded file into extracted text plus the
// analysis the BRD generator consumes: mathematical formulas, regulatory
// framework detection and a document classification.
package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gonfva/docxlib"
	"github.com/ledongthuc/pdf"
)

// Options control optional extraction passes.
type Options struct {
	ExtractImages   bool `json:"extract_images"`
	ExtractFormulas bool `json:"extract_formulas"`
}

// Formula is one extracted mathematical expression.
type Formula struct {
	Expression string  `json:"expression"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Analysis summarizes the document for downstream generation.
type Analysis struct {
	DocumentType           string   `json:"document_type"`
	MathematicalComplexity string   `json:"mathematical_complexity"`
	RegulatoryFrameworks   []string `json:"regulatory_frameworks"`
	TableCount             int      `json:"table_count"`
	WordCount              int      `json:"word_count"`
}

// Extraction is the full pipeline output for one document.
type Extraction struct {
	Name     string            `json:"name"`
	Text     string            `json:"text"`
	Images   map[string]string `json:"images,omitempty"`
	Formulas []Formula         `json:"formulas,omitempty"`
	Analysis Analysis          `json:"analysis"`
}

// Process extracts text from data according to the file extension of name
// (.pdf, .docx, .txt, .md), then runs the analysis passes. Unsupported
// extensions are an error; extraction failures of a supported type are too.
func Process(name string, data []byte, opts Options) (Extraction, error) {
	var text string
	var err error

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".txt", ".md":
		text = string(data)
	default:
		return Extraction{}, fmt.Errorf("unsupported document type %q", ext)
	}
	if err != nil {
		return Extraction{}, fmt.Errorf("extracting text from %s: %w", name, err)
	}

	result := Extraction{
		Name: name,
		Text: text,
	}
	if opts.ExtractFormulas {
		result.Formulas = ExtractFormulas(text)
	}
	if opts.ExtractImages {
		// Image extraction is a placeholder map keyed by page marker; the
		// PDF library exposes no image stream decoding.
		result.Images = map[string]string{}
	}
	result.Analysis = Analyze(text, result.Formulas)
	return result, nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docxlib.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing docx: %w", err)
	}

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, child := range para.Children() {
			if child.Run != nil && child.Run.Text != nil {
				sb.WriteString(child.Run.Text.Text)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
