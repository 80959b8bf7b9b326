package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type testsslParser struct{}

func (testsslParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "testssl",
		DisplayName: "testssl.sh",
		Category:    schemas.CategoryNetwork,
		FileTypes:   []string{"json"},
		Description: "testssl.sh SSL/TLS testing tool",
	}
}

func (testsslParser) Detect(content, _ string) bool {
	if arr, ok := decodeArray(content); ok {
		if len(arr) == 0 {
			return false
		}
		first := asMap(arr[0])
		return has(first, "id") && has(first, "severity") && has(first, "finding")
	}
	obj, ok := decodeObject(content)
	return ok && (has(obj, "scanResult") || strings.Contains(strings.ToLower(content), "testssl"))
}

func (p testsslParser) Parse(content, _ string) []schemas.ParsedFinding {
	var results []any
	if arr, ok := decodeArray(content); ok {
		results = arr
	} else if obj, ok := decodeObject(content); ok {
		results = asSlice(obj["scanResult"])
	}
	var findings []schemas.ParsedFinding
	for _, v := range results {
		item := asMap(v)
		if len(item) == 0 {
			continue
		}
		rawSev := str(item, "severity")
		if rawSev == "OK" || rawSev == "INFO" || rawSev == "DEBUG" {
			continue
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(item, "id"), "testssl Finding"),
			Description: str(item, "finding"),
			Severity:    p.mapSeverity(nonEmpty(rawSev, "medium")),
			Tool:        "testssl",
			Asset:       nonEmpty(str(item, "ip"), nonEmpty(str(item, "targetHost"), "unknown")),
			CVEID:       str(item, "cve"),
			RawData:     item,
		})
	}
	return findings
}

func (testsslParser) mapSeverity(sev string) schemas.Severity {
	switch strings.ToUpper(sev) {
	case "CRITICAL":
		return schemas.SeverityCritical
	case "HIGH":
		return schemas.SeverityHigh
	case "LOW":
		return schemas.SeverityLow
	case "OK", "INFO":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}
