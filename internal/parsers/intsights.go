package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type intSightsParser struct{}

func (intSightsParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "intsights",
		DisplayName: "IntSights",
		Category:    schemas.CategoryOther,
		FileTypes:   []string{"json"},
		Description: "IntSights threat intelligence reports",
	}
}

func (intSightsParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(data, "Alerts") || strings.Contains(strings.ToLower(content), "intsights") ||
		strings.Contains(content, "ThreatCommand")
}

func (p intSightsParser) Parse(content, _ string) []schemas.ParsedFinding {
	var alerts []any
	if obj, ok := decodeObject(content); ok {
		if alerts = asSlice(firstOf(obj, "Alerts", "alerts")); alerts == nil {
			alerts = []any{obj}
		}
	} else if arr, ok := decodeArray(content); ok {
		alerts = arr
	}

	var findings []schemas.ParsedFinding
	for _, v := range alerts {
		alert := asMap(v)
		asset := "unknown"
		if assets := asSlice(alert["Assets"]); len(assets) > 0 {
			asset = nonEmpty(str(asMap(assets[0]), "Value"), nonEmpty(str(alert, "asset"), "unknown"))
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(alert, "Title", "title"), "IntSights Alert"),
			Description: firstStr(alert, "Description", "description"),
			Severity:    p.mapSeverity(nonEmpty(firstStr(alert, "Severity", "severity"), "medium")),
			Tool:        "intsights",
			Asset:       asset,
			RawData:     alert,
		})
	}
	return findings
}

func (intSightsParser) mapSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	}
	return schemas.SeverityMedium
}
