package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type blackduckParser struct{}

func (blackduckParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "blackduck",
		DisplayName: "Black Duck",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json", "csv"},
		Description: "Synopsys Black Duck software composition analysis",
	}
}

func (blackduckParser) Detect(content, _ string) bool {
	if doc, ok := decodeObject(content); ok {
		if has(doc, "items") && has(doc, "totalCount") {
			return true
		}
		return strings.Contains(strings.ToLower(content), "blackduck") ||
			strings.Contains(content, "componentVersion")
	}
	return strings.Contains(content, "Component Name") || strings.Contains(content, "Vulnerability ID")
}

func blackduckSeverity(v any) schemas.Severity {
	if score, ok := v.(float64); ok {
		return cvssSeverity(score)
	}
	switch strings.ToLower(strings.TrimSpace(toString(v))) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "ok":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (p blackduckParser) Parse(content, _ string) []schemas.ParsedFinding {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return p.parseJSON(content)
	}
	return p.parseCSV(content)
}

func (blackduckParser) parseJSON(content string) []schemas.ParsedFinding {
	var items []any
	if doc, ok := decodeObject(content); ok {
		items = asSlice(doc["items"])
	} else if arr, ok := decodeArray(content); ok {
		items = arr
	}
	var findings []schemas.ParsedFinding
	for _, entry := range items {
		item := asMap(entry)
		vuln := item
		if v := asMap(item["vulnerabilityWithRemediation"]); len(v) > 0 {
			vuln = v
		}
		comp := asMap(item["component"])
		name := nonEmpty(str(comp, "componentName"), str(item, "componentName"))
		version := nonEmpty(str(comp, "componentVersionName"), str(item, "versionName"))

		vulnName := str(vuln, "vulnerabilityName")
		cve := ""
		if strings.HasPrefix(vulnName, "CVE") {
			cve = vulnName
		}
		f := schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "vulnerabilityName", "name"), "Black Duck Vulnerability"),
			Severity:    blackduckSeverity(firstOf(vuln, "severity", "overallScore")),
			Tool:        "blackduck",
			Description: truncate(str(vuln, "description"), 2000),
			Asset:       nonEmpty(name, "unknown") + "@" + version,
			CVEID:       cve,
			Tags:        []string{"sca"},
			RawData:     item,
		}
		if cvss, ok := num(vuln, "overallScore"); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}

func (blackduckParser) parseCSV(content string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, row := range csvRows(content) {
		id := csvField(row, "Vulnerability ID")
		cve := ""
		if strings.HasPrefix(id, "CVE") {
			cve = id
		}
		f := schemas.ParsedFinding{
			Title:       nonEmpty(csvField(row, "Vulnerability ID", "Vulnerability Name"), "Black Duck Vulnerability"),
			Severity:    blackduckSeverity(csvField(row, "Severity", "Security Risk")),
			Tool:        "blackduck",
			Description: truncate(csvField(row, "Description", "Vulnerability Description"), 2000),
			Asset:       nonEmpty(csvField(row, "Component Name"), "unknown") + "@" + csvField(row, "Component Version"),
			CVEID:       cve,
			Tags:        []string{"sca"},
			RawData:     rawRow(row),
		}
		if cvss, ok := parseFloat(csvField(row, "CVSS Score", "Base Score")); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}
