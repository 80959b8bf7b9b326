package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type coverityParser struct{}

func (coverityParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "coverity",
		DisplayName: "Synopsys Coverity",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json", "csv"},
		Description: "Synopsys Coverity static analysis for finding defects",
	}
}

func (coverityParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(data, "issues") || has(data, "mergedDefects") ||
		strings.Contains(strings.ToLower(content), "coverity")
}

func (coverityParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	issues := asSlice(data["issues"])
	if issues == nil {
		issues = asSlice(data["mergedDefects"])
	}

	var findings []schemas.ParsedFinding
	for _, v := range issues {
		issue := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(issue, "type", "checkerName"), "Coverity Issue"),
			Description: firstStr(issue, "mainEventDescription", "longDescription"),
			Severity:    coveritySeverity(firstStr(issue, "impact", "severity")),
			Tool:        "coverity",
			Asset:       nonEmpty(firstStr(issue, "strippedMainEventFilePathname", "file"), "unknown"),
			CWEID:       cweNumber(issue["cwe"]),
			RawData:     issue,
		})
	}
	return findings
}

func coveritySeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "audit":
		return schemas.SeverityInfo
	default:
		return schemas.SeverityMedium
	}
}
