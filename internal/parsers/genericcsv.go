package parsers

import "github.com/djvirus9/secops-dashboard/api/schemas"

// genericCSVParser is the CSV fallback for tools without a dedicated
// adapter. Like generic-json it never auto-detects.
type genericCSVParser struct{}

func (genericCSVParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "generic-csv",
		DisplayName: "Generic CSV",
		Category:    schemas.CategoryGeneric,
		FileTypes:   []string{"csv"},
		Description: "Generic CSV findings import",
	}
}

func (genericCSVParser) Detect(_, _ string) bool { return false }

func (genericCSVParser) Parse(content, _ string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, row := range csvRows(content) {
		title := csvField(row, "title", "name", "summary", "message", "vulnerability", "issue")
		if title == "" {
			continue
		}
		f := schemas.ParsedFinding{
			Title:          truncate(title, 200),
			Severity:       schemas.SeverityMedium,
			Tool:           "generic-csv",
			Description:    csvField(row, "description", "details", "message", "info"),
			Asset:          nonEmpty(csvField(row, "asset", "host", "target", "url", "file", "resource"), "unknown"),
			FilePath:       csvField(row, "file", "file_path", "path", "filename"),
			CVEID:          csvField(row, "cve", "cve_id", "vulnerability_id"),
			CWEID:          cweNumber(csvField(row, "cwe", "cwe_id")),
			Recommendation: csvField(row, "recommendation", "remediation", "fix", "solution"),
			RawData:        rawRow(row),
		}
		if sev := csvField(row, "severity", "level", "risk", "priority"); sev != "" {
			f.Severity = schemas.NormalizeSeverity(sev)
		}
		if line, ok := parseFloat(csvField(row, "line", "line_number", "linenumber")); ok {
			f.LineNumber = int(line)
		}
		if cvss, ok := parseFloat(csvField(row, "cvss", "cvss_score", "score")); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}
