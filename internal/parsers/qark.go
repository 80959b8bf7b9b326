package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type qarkParser struct{}

func (qarkParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "qark",
		DisplayName: "QARK",
		Category:    schemas.CategoryMobile,
		FileTypes:   []string{"json"},
		Description: "Quick Android Review Kit for Android app security",
	}
}

func (qarkParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	lower := strings.ToLower(content)
	return has(data, "issues") || strings.Contains(lower, "qark") ||
		(strings.Contains(lower, "apk") && strings.Contains(content, "severity"))
}

func (p qarkParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	issues := asSlice(firstOf(data, "issues", "findings"))
	app := nonEmpty(str(data, "apk_name"), nonEmpty(str(data, "app"), "Android App"))

	var findings []schemas.ParsedFinding
	for _, v := range issues {
		issue := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(issue, "name"), nonEmpty(str(issue, "issue"), "QARK Finding")),
			Description: nonEmpty(str(issue, "description"), str(issue, "details")),
			Severity:    p.mapSeverity(nonEmpty(str(issue, "severity"), "medium")),
			Tool:        "qark",
			Asset:       nonEmpty(str(issue, "file"), app),
			CWEID:       cweNumber(issue["cwe"]),
			RawData:     issue,
		})
	}
	return findings
}

func (qarkParser) mapSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "info":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}
