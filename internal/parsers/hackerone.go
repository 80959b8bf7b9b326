package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type hackerOneParser struct{}

func (hackerOneParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "hackerone",
		DisplayName: "HackerOne",
		Category:    schemas.CategoryBugBounty,
		FileTypes:   []string{"json"},
		Description: "HackerOne bug bounty and VDP reports",
	}
}

func (hackerOneParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(data, "data") && strings.Contains(content, "type") &&
		(strings.Contains(strings.ToLower(content), "hackerone") || strings.Contains(content, "report"))
}

func (p hackerOneParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	reports := asSlice(data["data"])
	if reports == nil {
		if nested := asMap(data["data"]); len(nested) > 0 {
			reports = []any{nested}
		} else {
			reports = []any{data}
		}
	}

	var findings []schemas.ParsedFinding
	for _, v := range reports {
		report := asMap(v)
		attrs := asMap(report["attributes"])
		if len(attrs) == 0 {
			attrs = report
		}
		weakness := asMap(asMap(asMap(asMap(report["relationships"])["weakness"])["data"])["attributes"])
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(attrs, "title"), "HackerOne Report"),
			Description: nonEmpty(str(attrs, "vulnerability_information"), str(attrs, "description")),
			Severity:    p.mapSeverity(nonEmpty(firstStr(attrs, "severity_rating", "severity"), "medium")),
			Tool:        "hackerone",
			Asset:       nonEmpty(str(asMap(attrs["structured_scope"]), "asset_identifier"), nonEmpty(str(attrs, "asset"), "unknown")),
			CWEID:       cweNumber(weakness["external_id"]),
			RawData:     report,
		})
	}
	return findings
}

func (hackerOneParser) mapSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "none":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}
