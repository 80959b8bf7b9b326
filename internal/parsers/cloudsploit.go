package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type cloudsploitParser struct{}

func (cloudsploitParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "cloudsploit",
		DisplayName: "CloudSploit",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "Aqua CloudSploit cloud security configuration scanner",
	}
}

func (cloudsploitParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	first := asMap(arr[0])
	if has(first, "plugin") {
		return true
	}
	return has(first, "category") && has(first, "status")
}

// Passing checks carry no risk; only FAIL, WARN, and UNKNOWN become findings.
func cloudsploitSeverity(status string) schemas.Severity {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "FAIL":
		return schemas.SeverityHigh
	case "WARN":
		return schemas.SeverityMedium
	case "UNKNOWN", "OK", "PASS":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (cloudsploitParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, entry := range arr {
		item := asMap(entry)
		status := str(item, "status")
		if status != "FAIL" && status != "WARN" && status != "UNKNOWN" {
			continue
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(item, "title", "plugin"), "CloudSploit Finding"),
			Severity:    cloudsploitSeverity(status),
			Tool:        "cloudsploit",
			Description: truncate(firstStr(item, "message", "description"), 2000),
			Asset:       nonEmpty(firstStr(item, "resource", "region"), "unknown"),
			Tags:        []string{"cloud"},
			RawData:     item,
		})
	}
	return findings
}
