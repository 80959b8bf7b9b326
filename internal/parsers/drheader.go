package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type drHeaderParser struct{}

func (drHeaderParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "drheader",
		DisplayName: "DrHeader",
		Category:    schemas.CategoryOther,
		FileTypes:   []string{"json"},
		Description: "Security header analyzer",
	}
}

func (drHeaderParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	first := asMap(arr[0])
	return has(first, "rule") || (has(first, "message") && has(first, "severity"))
}

func (drHeaderParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, v := range arr {
		item := asMap(v)
		severity := schemas.SeverityMedium
		switch strings.ToLower(str(item, "severity")) {
		case "high":
			severity = schemas.SeverityHigh
		case "low":
			severity = schemas.SeverityLow
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(item, "rule"), nonEmpty(str(item, "header"), "DrHeader Finding")),
			Description: str(item, "message"),
			Severity:    severity,
			Tool:        "drheader",
			Asset:       nonEmpty(str(item, "url"), "unknown"),
			RawData:     item,
		})
	}
	return findings
}
