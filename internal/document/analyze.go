package document

import (
	"regexp"
	"sort"
	"strings"
)

// frameworkKeywords maps each recognised regulatory framework to the
// lower-cased phrases that indicate it.
var frameworkKeywords = map[string][]string{
	"Basel III": {"basel iii", "basel 3", "tier 1 capital", "capital adequacy", "liquidity coverage", "leverage ratio"},
	"SOX":       {"sarbanes-oxley", "sarbanes oxley", "sox", "internal controls over financial reporting"},
	"GDPR":      {"gdpr", "general data protection", "data subject", "right to erasure"},
	"IFRS 9":    {"ifrs 9", "expected credit loss", "ecl model"},
	"MiFID II":  {"mifid ii", "mifid 2", "best execution"},
}

var formulaPatterns = []struct {
	re   *regexp.Regexp
	typ  string
	conf float64
}{
	{regexp.MustCompile(`[A-Za-z_]\w*\s*=\s*[A-Za-z0-9_]+\s*/\s*[A-Za-z0-9_]+`), "ratio", 0.9},
	{regexp.MustCompile(`[ΣΠ∑∏]\s*\S+`), "summation", 0.85},
	{regexp.MustCompile(`[A-Za-z_]\w*\s*=\s*[^=\n]{3,80}`), "equation", 0.7},
	{regexp.MustCompile(`\b\d+(?:\.\d+)?\s*%`), "percentage", 0.5},
}

// ExtractFormulas scans text for mathematical expressions. Each match is
// classified by the first pattern that produced it; overlapping duplicates
// are dropped.
func ExtractFormulas(text string) []Formula {
	seen := make(map[string]bool)
	var out []Formula
	for _, p := range formulaPatterns {
		for _, m := range p.re.FindAllString(text, -1) {
			expr := strings.TrimSpace(m)
			if expr == "" || seen[expr] {
				continue
			}
			seen[expr] = true
			out = append(out, Formula{Expression: expr, Type: p.typ, Confidence: p.conf})
		}
	}
	return out
}

// DetectFrameworks returns the regulatory frameworks mentioned in text,
// sorted by name for stable output.
func DetectFrameworks(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for name, keywords := range frameworkKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				found = append(found, name)
				break
			}
		}
	}
	sort.Strings(found)
	return found
}

// Analyze classifies the document and estimates its structure.
func Analyze(text string, formulas []Formula) Analysis {
	frameworks := DetectFrameworks(text)

	return Analysis{
		DocumentType:           classify(text, frameworks),
		MathematicalComplexity: complexity(len(formulas)),
		RegulatoryFrameworks:   frameworks,
		TableCount:             estimateTables(text),
		WordCount:              len(strings.Fields(text)),
	}
}

func classify(text string, frameworks []string) string {
	if len(frameworks) > 0 {
		return "regulatory"
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "api") || strings.Contains(lower, "architecture") || strings.Contains(lower, "interface"):
		return "technical"
	case strings.Contains(lower, "balance sheet") || strings.Contains(lower, "revenue") || strings.Contains(lower, "portfolio"):
		return "financial"
	default:
		return "general"
	}
}

func complexity(formulaCount int) string {
	switch {
	case formulaCount >= 10:
		return "High"
	case formulaCount >= 3:
		return "Medium"
	case formulaCount >= 1:
		return "Low"
	default:
		return "None"
	}
}

// estimateTables counts lines that look like table rows: pipe-delimited or
// multi-gap aligned columns. Adjacent rows count as one table.
func estimateTables(text string) int {
	lines := strings.Split(text, "\n")
	tables := 0
	inTable := false
	for _, line := range lines {
		isRow := strings.Count(line, "|") >= 2 || strings.Count(line, "\t") >= 2
		if isRow && !inTable {
			tables++
		}
		inTable = isRow
	}
	return tables
}
