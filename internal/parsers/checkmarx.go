package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type checkmarxParser struct{}

func (checkmarxParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "checkmarx",
		DisplayName: "Checkmarx",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json", "xml", "csv"},
		Description: "Enterprise SAST solution for secure code review",
	}
}

func (checkmarxParser) Detect(content, _ string) bool {
	if data, ok := decodeObject(content); ok {
		return has(data, "scanId") || strings.Contains(content, "CxXMLResults") ||
			strings.Contains(strings.ToLower(content), "checkmarx")
	}
	return strings.Contains(content, "CxXMLResults") || strings.Contains(content, "Checkmarx")
}

func (checkmarxParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	results := asSlice(data["results"])
	if results == nil {
		results = asSlice(data["vulnerabilities"])
	}
	if results == nil {
		results = []any{data}
	}

	var findings []schemas.ParsedFinding
	for _, v := range results {
		item := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(item, "queryName", "name"), "Checkmarx Finding"),
			Description: firstStr(item, "description", "resultDescription"),
			Severity:    checkmarxSeverity(str(item, "severity")),
			Tool:        "checkmarx",
			Asset:       nonEmpty(firstStr(item, "sourceFile", "file"), "unknown"),
			CWEID:       cweNumber(item["cweId"]),
			RawData:     item,
		})
	}
	return findings
}

func checkmarxSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "info", "information":
		return schemas.SeverityInfo
	default:
		return schemas.SeverityMedium
	}
}
