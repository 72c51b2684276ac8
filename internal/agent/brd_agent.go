package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"agenthub/internal/brd"
	"agenthub/internal/document"
	"agenthub/internal/session"
)

const noDocumentReply = "I don't have a document to work from yet. Please upload a requirements document (PDF, Word, or text) first."

// BRDAgent turns uploaded requirement documents into business requirements
// documents. It keeps the latest extraction and generated BRD so follow-up
// questions and exports operate on them.
type BRDAgent struct {
	Base

	gen *brd.Generator

	mu         sync.Mutex
	extraction *document.Extraction
	current    *brd.BRD
}

func NewBRDAgent(cfg Config, store *session.Store) *BRDAgent {
	return &BRDAgent{
		Base: NewBase(cfg, store),
		gen:  brd.NewGenerator(),
	}
}

// SetDocument records a processed upload as the working document and drops
// any previously generated BRD, which no longer matches the source.
func (a *BRDAgent) SetDocument(ext document.Extraction) {
	a.mu.Lock()
	a.extraction = &ext
	a.current = nil
	a.mu.Unlock()

	a.UpdateSessionData(map[string]any{
		"document_name":   ext.Name,
		"document_type":   ext.Analysis.DocumentType,
		"word_count":      ext.Analysis.WordCount,
		"formula_count":   len(ext.Formulas),
		"frameworks":      ext.Analysis.RegulatoryFrameworks,
		"math_complexity": ext.Analysis.MathematicalComplexity,
		"brd_generated":   false,
	})
}

// Document returns the working extraction, or false when none was uploaded.
func (a *BRDAgent) Document() (document.Extraction, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.extraction == nil {
		return document.Extraction{}, false
	}
	return *a.extraction, true
}

// Generate builds a BRD from the working document and keeps it as the
// current one for questions and export.
func (a *BRDAgent) Generate(opts brd.Options) (brd.BRD, error) {
	a.mu.Lock()
	ext := a.extraction
	a.mu.Unlock()
	if ext == nil {
		return brd.BRD{}, fmt.Errorf("no document uploaded")
	}

	result := a.gen.Generate(*ext, opts)

	a.mu.Lock()
	a.current = &result
	a.mu.Unlock()

	a.UpdateSessionData(map[string]any{
		"brd_generated": true,
		"brd_sections":  len(result.Sections),
	})
	return result, nil
}

// CurrentBRD returns the most recently generated BRD, or false when none
// has been generated for the working document.
func (a *BRDAgent) CurrentBRD() (brd.BRD, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return brd.BRD{}, false
	}
	return *a.current, true
}

// ProcessInput routes on the question's subject: document status,
// generation, formulas, export, quality, or regulatory coverage. Anything
// else gets the capability overview.
func (a *BRDAgent) ProcessInput(_ context.Context, input string) (string, error) {
	lower := strings.ToLower(input)

	switch {
	case containsAnyWord(lower, "upload", "document", "file"):
		return a.documentReply(), nil
	case containsAnyWord(lower, "generate", "create", "brd"):
		return a.generateReply(), nil
	case containsAnyWord(lower, "formula", "mathematical", "equation"):
		return a.formulaReply(), nil
	case containsAnyWord(lower, "export", "download", "save"):
		return "I can export the generated BRD as Word, PDF, Excel, or JSON. Use the export endpoint with the format you need, e.g. `/brd/export/pdf`.", nil
	case containsAnyWord(lower, "quality", "score"):
		return a.qualityReply(), nil
	case containsAnyWord(lower, "regulatory", "compliance", "basel", "sox", "gdpr", "ifrs", "mifid"):
		return a.complianceReply(), nil
	default:
		return "I generate business requirements documents from uploaded files. I can:\n" +
			"- Analyze uploaded documents (PDF, Word, text)\n" +
			"- Extract mathematical formulas and detect regulatory frameworks\n" +
			"- Generate a structured BRD with quality scoring\n" +
			"- Export the BRD as Word, PDF, Excel, or JSON\n\n" +
			"Upload a document to get started, or ask about the current one.", nil
	}
}

func (a *BRDAgent) documentReply() string {
	ext, ok := a.Document()
	if !ok {
		return noDocumentReply
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Current document: %s**\n", ext.Name)
	fmt.Fprintf(&sb, "- Type: %s\n", ext.Analysis.DocumentType)
	fmt.Fprintf(&sb, "- Words: %d\n", ext.Analysis.WordCount)
	fmt.Fprintf(&sb, "- Tables: %d\n", ext.Analysis.TableCount)
	fmt.Fprintf(&sb, "- Formulas: %d (%s complexity)\n", len(ext.Formulas), ext.Analysis.MathematicalComplexity)
	if len(ext.Analysis.RegulatoryFrameworks) > 0 {
		fmt.Fprintf(&sb, "- Regulatory frameworks: %s\n", strings.Join(ext.Analysis.RegulatoryFrameworks, ", "))
	}
	return sb.String()
}

func (a *BRDAgent) generateReply() string {
	if _, ok := a.Document(); !ok {
		return noDocumentReply
	}
	result, err := a.Generate(brd.Options{})
	if err != nil {
		return fmt.Sprintf("BRD generation failed: %v", err)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**BRD generated** with %d sections (overall quality %.0f/100):\n", len(result.Sections), result.OverallQuality())
	for _, s := range result.Sections {
		fmt.Fprintf(&sb, "- %s\n", s.Title)
	}
	sb.WriteString("\nAsk about quality scores or compliance coverage, or export it when you're ready.")
	return sb.String()
}

func (a *BRDAgent) formulaReply() string {
	ext, ok := a.Document()
	if !ok {
		return noDocumentReply
	}
	if len(ext.Formulas) == 0 {
		return "No mathematical formulas were detected in the current document."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Extracted formulas (%d):**\n", len(ext.Formulas))
	for _, f := range ext.Formulas {
		fmt.Fprintf(&sb, "- `%s` (%s, confidence %.2f)\n", f.Expression, f.Type, f.Confidence)
	}
	return sb.String()
}

func (a *BRDAgent) qualityReply() string {
	result, ok := a.CurrentBRD()
	if !ok {
		return "No BRD has been generated yet. Ask me to generate one first."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Quality report (overall %.0f/100):**\n", result.OverallQuality())
	for _, s := range result.Sections {
		fmt.Fprintf(&sb, "- %s: %d/100\n", s.Title, result.QualityScores[s.Title])
	}
	return sb.String()
}

func (a *BRDAgent) complianceReply() string {
	result, ok := a.CurrentBRD()
	if ok {
		var sb strings.Builder
		sb.WriteString("**Compliance coverage:**\n")
		for framework, status := range result.ComplianceChecks {
			fmt.Fprintf(&sb, "- %s: %s\n", framework, status)
		}
		return sb.String()
	}
	ext, ok := a.Document()
	if !ok {
		return noDocumentReply
	}
	if len(ext.Analysis.RegulatoryFrameworks) == 0 {
		return "No regulatory frameworks were detected in the current document."
	}
	return fmt.Sprintf("Detected regulatory frameworks: %s. Generate a BRD to get per-framework coverage.",
		strings.Join(ext.Analysis.RegulatoryFrameworks, ", "))
}

func (a *BRDAgent) QuickActions() []QuickAction {
	return []QuickAction{
		{Name: "generate_brd", Label: "Generate BRD", Question: "Generate a BRD from the uploaded document"},
		{Name: "show_formulas", Label: "Show Formulas", Question: "Show the extracted formulas"},
		{Name: "quality_report", Label: "Quality Report", Question: "Show the BRD quality scores"},
	}
}

func (a *BRDAgent) RunQuickAction(_ context.Context, name string) (string, error) {
	switch name {
	case "generate_brd":
		return a.generateReply(), nil
	case "show_formulas":
		return a.formulaReply(), nil
	case "quality_report":
		return a.qualityReply(), nil
	default:
		return "", fmt.Errorf("unknown quick action %q", name)
	}
}

func containsAnyWord(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
