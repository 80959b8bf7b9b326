package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type edgescanParser struct{}

func (edgescanParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "edgescan",
		DisplayName: "Edgescan",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json"},
		Description: "Edgescan continuous vulnerability management",
	}
}

func (edgescanParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok || !has(doc, "vulnerabilities") {
		return false
	}
	return strings.Contains(strings.ToLower(content), "edgescan") || strings.Contains(content, "asset_id")
}

func edgescanSeverity(v any) schemas.Severity {
	if n, ok := v.(float64); ok {
		switch {
		case n >= 4:
			return schemas.SeverityCritical
		case n >= 3:
			return schemas.SeverityHigh
		case n >= 2:
			return schemas.SeverityMedium
		}
		return schemas.SeverityLow
	}
	switch strings.ToLower(strings.TrimSpace(toString(v))) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	}
	return schemas.SeverityMedium
}

func (edgescanParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, item := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(item)
		sev := vuln["severity"]
		if sev == nil {
			sev = vuln["risk"]
		}
		f := schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "name", "title"), "Edgescan Finding"),
			Severity:    edgescanSeverity(sev),
			Tool:        "edgescan",
			Description: truncate(firstStr(vuln, "description", "details"), 2000),
			Asset:       nonEmpty(firstStr(vuln, "location", "asset_name", "host"), "unknown"),
			CVEID:       str(vuln, "cve"),
			Tags:        []string{"dast"},
			RawData:     vuln,
		}
		if cvss, ok := num(vuln, "cvss_score"); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}
