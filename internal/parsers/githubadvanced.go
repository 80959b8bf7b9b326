package parsers

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type githubAdvancedParser struct{}

func (githubAdvancedParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "github_advanced_security",
		DisplayName: "GitHub Advanced Security",
		Category:    schemas.CategoryOther,
		FileTypes:   []string{"json"},
		Description: "GitHub Advanced Security (code scanning, secret scanning, Dependabot)",
	}
}

func (githubAdvancedParser) Detect(content, _ string) bool {
	if arr, ok := decodeArray(content); ok {
		if len(arr) == 0 {
			return false
		}
		first := asMap(arr[0])
		return (has(first, "rule") && has(first, "tool")) || has(first, "secret_type")
	}
	obj, ok := decodeObject(content)
	return ok && has(obj, "number") && has(obj, "state") && has(obj, "rule")
}

func (p githubAdvancedParser) Parse(content, _ string) []schemas.ParsedFinding {
	var alerts []any
	if arr, ok := decodeArray(content); ok {
		alerts = arr
	} else if obj, ok := decodeObject(content); ok {
		alerts = []any{obj}
	}

	var findings []schemas.ParsedFinding
	for _, v := range alerts {
		alert := asMap(v)
		switch {
		case has(alert, "secret_type"):
			findings = append(findings, schemas.ParsedFinding{
				Title:       fmt.Sprintf("Secret Detected: %s", nonEmpty(firstStr(alert, "secret_type_display_name", "secret_type"), "Unknown")),
				Description: fmt.Sprintf("Secret found in %s", nonEmpty(str(alert, "locations_url"), "repository")),
				Severity:    schemas.SeverityHigh,
				Tool:        "github_advanced_security",
				Asset:       nonEmpty(str(asMap(alert["repository"]), "full_name"), "unknown"),
				RawData:     alert,
			})
		case has(alert, "rule"):
			rule := asMap(alert["rule"])
			instance := asMap(alert["most_recent_instance"])
			findings = append(findings, schemas.ParsedFinding{
				Title:       nonEmpty(firstStr(rule, "description", "name", "id"), "GitHub Code Scanning Alert"),
				Description: str(asMap(instance["message"]), "text"),
				Severity:    p.mapSeverity(nonEmpty(firstStr(rule, "security_severity_level", "severity"), "medium")),
				Tool:        "github_advanced_security",
				Asset:       nonEmpty(str(asMap(instance["location"]), "path"), "unknown"),
				CWEID:       p.extractCWE(rule["tags"]),
				RawData:     alert,
			})
		case has(alert, "security_advisory"):
			advisory := asMap(alert["security_advisory"])
			findings = append(findings, schemas.ParsedFinding{
				Title:       nonEmpty(str(advisory, "summary"), "Dependabot Alert"),
				Description: str(advisory, "description"),
				Severity:    p.mapSeverity(nonEmpty(str(advisory, "severity"), "medium")),
				Tool:        "github_advanced_security",
				Asset:       nonEmpty(str(asMap(asMap(alert["dependency"])["package"]), "name"), "unknown"),
				CVEID:       str(advisory, "cve_id"),
				RawData:     alert,
			})
		}
	}
	return findings
}

func (githubAdvancedParser) extractCWE(tags any) int {
	for _, tag := range stringList(tags) {
		if strings.HasPrefix(tag, "cwe-") || strings.HasPrefix(tag, "CWE-") {
			return cweNumber(tag)
		}
	}
	return 0
}

func (githubAdvancedParser) mapSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high", "error":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "note":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}
