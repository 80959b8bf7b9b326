package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type bugcrowdParser struct{}

func (bugcrowdParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "bugcrowd",
		DisplayName: "Bugcrowd",
		Category:    schemas.CategoryBugBounty,
		FileTypes:   []string{"json", "csv"},
		Description: "Bugcrowd crowdsourced security reports",
	}
}

func (bugcrowdParser) Detect(content, _ string) bool {
	if strings.Contains(strings.ToLower(content), "bugcrowd") {
		return true
	}
	if data, ok := decodeObject(content); ok {
		return has(data, "submissions") || strings.Contains(content, "vulnerability_references")
	}
	return strings.Contains(content, "Title") && strings.Contains(content, "Severity") &&
		strings.Contains(content, "Target")
}

func (p bugcrowdParser) Parse(content, _ string) []schemas.ParsedFinding {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return p.parseJSON(content)
	}
	return p.parseCSV(content)
}

func (p bugcrowdParser) parseJSON(content string) []schemas.ParsedFinding {
	var submissions []any
	if obj, ok := decodeObject(content); ok {
		if submissions = asSlice(firstOf(obj, "submissions", "data")); submissions == nil {
			submissions = []any{obj}
		}
	} else if arr, ok := decodeArray(content); ok {
		submissions = arr
	}

	var findings []schemas.ParsedFinding
	for _, v := range submissions {
		sub := asMap(v)
		if len(sub) == 0 {
			continue
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(sub, "title"), nonEmpty(str(sub, "name"), "Bugcrowd Submission")),
			Description: nonEmpty(str(sub, "description"), str(sub, "vulnerability_description")),
			Severity:    p.mapSeverity(firstOf(sub, "severity", "priority")),
			Tool:        "bugcrowd",
			Asset:       nonEmpty(str(sub, "target"), nonEmpty(str(sub, "asset"), "unknown")),
			CWEID:       cweNumber(sub["cwe"]),
			RawData:     sub,
		})
	}
	return findings
}

func (p bugcrowdParser) parseCSV(content string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, row := range csvRows(content) {
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(csvField(row, "Title"), "Bugcrowd Submission"),
			Description: csvField(row, "Description"),
			Severity:    p.mapSeverity(csvField(row, "Severity", "Priority")),
			Tool:        "bugcrowd",
			Asset:       nonEmpty(csvField(row, "Target", "Asset"), "unknown"),
			RawData:     rawRow(row),
		})
	}
	return findings
}

// mapSeverity accepts either the numeric severity (1-5) or the Bugcrowd
// priority labels (P1-P4).
func (bugcrowdParser) mapSeverity(sev any) schemas.Severity {
	if n, ok := sev.(float64); ok {
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
	switch strings.ToLower(toString(sev)) {
	case "critical", "p1":
		return schemas.SeverityCritical
	case "high", "p2":
		return schemas.SeverityHigh
	case "low", "p4":
		return schemas.SeverityLow
	case "medium", "p3":
		return schemas.SeverityMedium
	}
	return schemas.SeverityMedium
}
