package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type cobaltIOParser struct{}

func (cobaltIOParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "cobaltio",
		DisplayName: "Cobalt.io",
		Category:    schemas.CategoryBugBounty,
		FileTypes:   []string{"json", "csv"},
		Description: "Cobalt.io Pentest as a Service findings",
	}
}

func (cobaltIOParser) Detect(content, _ string) bool {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "cobalt") {
		return true
	}
	if data, ok := decodeObject(content); ok {
		return has(data, "findings") || strings.Contains(lower, "pentest")
	}
	return strings.Contains(content, "Finding Title") ||
		(strings.Contains(content, "Severity") && strings.Contains(content, "Cobalt"))
}

func (p cobaltIOParser) Parse(content, _ string) []schemas.ParsedFinding {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return p.parseJSON(content)
	}
	return p.parseCSV(content)
}

func (p cobaltIOParser) parseJSON(content string) []schemas.ParsedFinding {
	var items []any
	if obj, ok := decodeObject(content); ok {
		if items = asSlice(firstOf(obj, "findings", "data")); items == nil {
			items = []any{obj}
		}
	} else if arr, ok := decodeArray(content); ok {
		items = arr
	}

	var findings []schemas.ParsedFinding
	for _, v := range items {
		item := asMap(v)
		if len(item) == 0 {
			continue
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(item, "title"), nonEmpty(str(item, "name"), "Cobalt.io Finding")),
			Description: nonEmpty(str(item, "description"), str(item, "proof_of_concept")),
			Severity:    p.mapSeverity(nonEmpty(firstStr(item, "severity", "criticality"), "medium")),
			Tool:        "cobaltio",
			Asset:       nonEmpty(str(item, "affected_asset"), nonEmpty(str(item, "asset"), "unknown")),
			CWEID:       cweNumber(item["cwe"]),
			RawData:     item,
		})
	}
	return findings
}

func (p cobaltIOParser) parseCSV(content string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, row := range csvRows(content) {
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(csvField(row, "Finding Title", "Title"), "Cobalt.io Finding"),
			Description: nonEmpty(csvField(row, "Description"), csvField(row, "Proof of Concept")),
			Severity:    p.mapSeverity(nonEmpty(csvField(row, "Severity", "Criticality"), "medium")),
			Tool:        "cobaltio",
			Asset:       nonEmpty(csvField(row, "Affected Asset", "Asset"), "unknown"),
			RawData:     rawRow(row),
		})
	}
	return findings
}

func (cobaltIOParser) mapSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "informational":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}
