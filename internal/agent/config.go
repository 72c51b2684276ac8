// Package agent defines the conversational agents: their static catalog,
// the Agent interface every variant implements, and the turn driver that
// gives each variant the same request/response cycle.
package agent

// Type enumerates the agent variants the catalog can declare.
type Type string

const (
	TypeDocumentProcessor Type = "document_processor"
	TypeBRDGenerator      Type = "brd_generator"
	TypeDatabaseChat      Type = "database_chat"
	TypeDataAnalyst       Type = "data_analyst"
	TypeComplianceChecker Type = "compliance_checker"
)

// Status values for an agent.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusLoading  = "loading"
)

// Capability describes one declared ability of an agent.
type Capability struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	InputTypes  []string `json:"input_types"`
	OutputTypes []string `json:"output_types"`
}

// Config is the identity and metadata of one agent. Built once at process
// start from the fixed catalog; never mutated afterwards.
type Config struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Type         Type         `json:"type"`
	Capabilities []Capability `json:"capabilities"`
	Icon         string       `json:"icon"`
	Color        string       `json:"color"`
	Status       string       `json:"status"`
	Version      string       `json:"version"`
	Dependencies []string     `json:"dependencies,omitempty"`
}

// Agent ids.
const (
	BRDGeneratorID = "brd_generator"
	DatabaseChatID = "database_chat"
)

// Catalog returns the static agent table. Callers receive fresh copies.
func Catalog() map[string]Config {
	return map[string]Config{
		BRDGeneratorID: {
			ID:          BRDGeneratorID,
			Name:        "BRD Generator",
			Description: "Business Requirements Document generation from regulatory documents with analysis and mathematical formula extraction",
			Type:        TypeBRDGenerator,
			Capabilities: []Capability{
				{
					Name:        "Document Analysis",
					Description: "Extract and analyze content from PDF, DOCX, and TXT files with mathematical formula detection",
					InputTypes:  []string{"pdf", "docx", "txt"},
					OutputTypes: []string{"analysis", "formulas", "regulatory_insights"},
				},
				{
					Name:        "Regulatory Compliance",
					Description: "Detect and analyze regulatory frameworks like Basel III, SOX, GDPR with compliance assessment",
					InputTypes:  []string{"regulatory_documents"},
					OutputTypes: []string{"compliance_analysis", "framework_detection"},
				},
				{
					Name:        "BRD Generation",
					Description: "Generate comprehensive, audit-ready Business Requirements Documents with regulatory focus",
					InputTypes:  []string{"document_analysis", "requirements"},
					OutputTypes: []string{"brd_document", "quality_assessment"},
				},
				{
					Name:        "Export & Quality Control",
					Description: "Export BRDs in multiple formats with quality scoring and compliance verification",
					InputTypes:  []string{"brd_content"},
					OutputTypes: []string{"word", "pdf", "excel", "json", "quality_metrics"},
				},
			},
			Icon:         "📄",
			Color:        "#667eea",
			Status:       StatusActive,
			Version:      "1.0.0",
			Dependencies: []string{"document", "brd", "export"},
		},
		DatabaseChatID: {
			ID:          DatabaseChatID,
			Name:        "Database Assistant",
			Description: "Natural language interface for Oracle database interactions with query generation and data analysis",
			Type:        TypeDatabaseChat,
			Capabilities: []Capability{
				{
					Name:        "Natural Language to SQL",
					Description: "Convert natural language questions to SQL queries with safety validation",
					InputTypes:  []string{"natural_language", "business_questions"},
					OutputTypes: []string{"sql_query", "query_explanation"},
				},
				{
					Name:        "Database Schema Intelligence",
					Description: "Analyze database schemas, relationships, and data structures",
					InputTypes:  []string{"connection_info"},
					OutputTypes: []string{"schema_analysis", "data_dictionary"},
				},
				{
					Name:        "Data Analysis & Insights",
					Description: "Execute queries safely and report results with row-level detail",
					InputTypes:  []string{"sql_queries", "data_requests"},
					OutputTypes: []string{"query_results", "data_insights"},
				},
			},
			Icon:         "💾",
			Color:        "#10B981",
			Status:       StatusActive,
			Version:      "1.0.0",
			Dependencies: []string{"database", "nlsql"},
		},
	}
}
