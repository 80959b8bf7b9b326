package schemas

import (
	"strings"
	"time"
)

// -- Finding Schemas --

// Severity represents the severity level of a security finding, ranging from
// critical to informational. The values are lowercase to align with database ENUMs.
type Severity string

// Constants defining the standard severity levels for findings.
const (
	SeverityCritical Severity = "critical" // Represents a critical vulnerability.
	SeverityHigh     Severity = "high"     // Represents a high-severity vulnerability.
	SeverityMedium   Severity = "medium"   // Represents a medium-severity vulnerability.
	SeverityLow      Severity = "low"      // Represents a low-severity vulnerability.
	SeverityInfo     Severity = "info"     // Represents an informational finding.
)

// NormalizeSeverity maps the severity vocabulary seen across scanner output
// (numeric scales, "moderate", "error", "note", ...) onto the five canonical
// levels. Unrecognized input falls back to SeverityInfo. Individual parsers
// layer their own tool-specific tables on top of this shared one.
func NormalizeSeverity(value string) Severity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "critical", "crit", "5":
		return SeverityCritical
	case "high", "4", "error":
		return SeverityHigh
	case "medium", "med", "moderate", "3", "warning":
		return SeverityMedium
	case "low", "2":
		return SeverityLow
	default:
		// "info", "informational", "note", "none", "unknown", "0", "1" and
		// anything unrecognized all land here.
		return SeverityInfo
	}
}

// Category classifies a scanner by the kind of analysis it performs.
type Category string

// Scanner categories recognized by the parser registry.
const (
	CategorySAST           Category = "sast"
	CategoryDAST           Category = "dast"
	CategorySCA            Category = "sca"
	CategoryInfrastructure Category = "infrastructure"
	CategoryContainer      Category = "container"
	CategoryCloud          Category = "cloud"
	CategorySecrets        Category = "secrets"
	CategoryNetwork        Category = "network"
	CategoryMobile         Category = "mobile"
	CategoryBugBounty      Category = "bugbounty"
	CategoryGeneric        Category = "generic"
	CategoryOther          Category = "other"
)

// ParsedFinding is the normalized, not-yet-persisted record every parser
// emits regardless of the scanner's native schema. Severity is always one of
// the five canonical values; Asset defaults to "unknown" when the input names
// no affected resource.
type ParsedFinding struct {
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Tool     string   `json:"tool"`

	Description string `json:"description,omitempty"`
	Asset       string `json:"asset"`

	FilePath   string  `json:"file_path,omitempty"`
	LineNumber int     `json:"line_number,omitempty"`
	CWEID      int     `json:"cwe_id,omitempty"`
	CVEID      string  `json:"cve_id,omitempty"`
	CVSSScore  float64 `json:"cvss_score,omitempty"`

	Recommendation string   `json:"recommendation,omitempty"`
	References     []string `json:"references,omitempty"`
	Tags           []string `json:"tags,omitempty"`

	// RawData preserves the original record for audit purposes.
	RawData map[string]any `json:"raw_data,omitempty"`

	DetectedAt time.Time `json:"detected_at,omitempty"`
}

// ParserInfo is the static metadata every registered parser declares,
// surfaced by the listing endpoints for discovery and UI purposes.
type ParserInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Category    Category `json:"category"`
	FileTypes   []string `json:"file_types"`
	Description string   `json:"description"`
}
