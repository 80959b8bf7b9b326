package parsers

import (
	"encoding/base64"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type burpEnterpriseParser struct{}

func (burpEnterpriseParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "burp-enterprise",
		DisplayName: "Burp Suite Enterprise",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json"},
		Description: "Burp Suite Enterprise scan exports",
	}
}

func (burpEnterpriseParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "scan_status", "issue_events") {
		return true
	}
	return has(doc, "issues") && has(doc, "scan_metrics")
}

func burpEnterpriseSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "info", "information":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

// Burp Enterprise base64-encodes issue descriptions in its API exports.
// Plain-text exports pass through unchanged.
func burpDecodeDescription(raw string) string {
	if raw == "" {
		return ""
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return string(decoded)
	}
	return raw
}

func (burpEnterpriseParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	items := asSlice(doc["issue_events"])
	if items == nil {
		items = asSlice(doc["issues"])
	}
	var findings []schemas.ParsedFinding
	for _, item := range items {
		issue := asMap(item)
		if nested := asMap(issue["issue"]); len(nested) > 0 {
			issue = nested
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(issue, "name"), "Burp Enterprise Finding"),
			Severity:    burpEnterpriseSeverity(str(issue, "severity")),
			Tool:        "burp-enterprise",
			Description: truncate(burpDecodeDescription(str(issue, "description")), 2000),
			Asset:       str(issue, "origin") + str(issue, "path"),
			Tags:        []string{"dast"},
			RawData:     issue,
		})
	}
	return findings
}
