// Package nlsql maps a closed set of natural-language intents onto SQL
// templates. It is a fixed rule table over case-insensitive substring tests,
// not a language model; inputs outside the rule set yield no query and the
// caller is expected to ask the user to rephrase.
package nlsql

import "strings"

const sampleRows = 10

var (
	listKeywords   = []string{"show", "list", "display"}
	countKeywords  = []string{"count", "how many", "total"}
	selectKeywords = []string{"show", "display", "list", "all"}
	sampleKeywords = []string{"first", "top", "10", "sample"}
)

// Translator converts free-text questions into SQL for a known table
// catalog. Rules apply first-match-wins; when two catalog tables both occur
// in the input, the first one in catalog order wins. That tie-break is part
// of the contract, not an accident.
type Translator struct {
	dialect Dialect
}

func New(d Dialect) *Translator {
	return &Translator{dialect: d}
}

// Translate returns the SQL for input given the catalog tables, or
// ok == false when no rule matches. A false result is a request for
// clarification, distinct from a query with an empty result set.
func (t *Translator) Translate(input string, tables []string) (sql string, ok bool) {
	lower := strings.ToLower(input)

	if containsAny(lower, listKeywords) && strings.Contains(lower, "table") {
		return t.dialect.ListTablesQuery(), true
	}

	var mentioned string
	for _, table := range tables {
		if strings.Contains(lower, strings.ToLower(table)) {
			mentioned = table
			break
		}
	}

	if mentioned != "" {
		switch {
		case containsAny(lower, countKeywords):
			return "SELECT COUNT(*) FROM " + mentioned, true
		case containsAny(lower, selectKeywords):
			if containsAny(lower, sampleKeywords) {
				return t.dialect.SampleQuery(mentioned, sampleRows), true
			}
			return "SELECT * FROM " + mentioned, true
		case strings.Contains(lower, "describe") || strings.Contains(lower, "structure"):
			return t.dialect.DescribeQuery(mentioned), true
		}
	}

	if strings.Contains(lower, "tables") && containsAny(lower, []string{"show", "list"}) {
		return t.dialect.ListTablesQuery(), true
	}

	return "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
