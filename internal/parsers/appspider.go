package parsers

import (
	"strconv"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type appspiderParser struct{}

func (appspiderParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "appspider",
		DisplayName: "Rapid7 AppSpider",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"xml", "json"},
		Description: "Rapid7 AppSpider dynamic scan reports",
	}
}

func (appspiderParser) Detect(content, _ string) bool {
	return strings.Contains(content, "AppSpider") ||
		strings.Contains(content, "VulnSummary") ||
		strings.Contains(content, "WebAppScan")
}

// AppSpider reports severity either as a 0-10 attack score or as a label.
func appspiderSeverity(raw string) schemas.Severity {
	raw = strings.TrimSpace(raw)
	if score, err := strconv.ParseFloat(raw, 64); err == nil {
		switch {
		case score >= 8:
			return schemas.SeverityCritical
		case score >= 6:
			return schemas.SeverityHigh
		case score >= 4:
			return schemas.SeverityMedium
		}
		return schemas.SeverityLow
	}
	switch strings.ToLower(raw) {
	case "critical", "urgent":
		return schemas.SeverityCritical
	case "high", "important":
		return schemas.SeverityHigh
	case "medium", "moderate":
		return schemas.SeverityMedium
	case "low", "minor":
		return schemas.SeverityLow
	case "info", "informational":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (p appspiderParser) Parse(content, filename string) []schemas.ParsedFinding {
	if doc, ok := decodeObject(content); ok {
		return p.parseJSON(doc)
	}
	return p.parseXML(content)
}

func (appspiderParser) parseJSON(doc map[string]any) []schemas.ParsedFinding {
	items := asSlice(doc["vulnerabilities"])
	if items == nil {
		items = asSlice(doc["findings"])
	}
	var findings []schemas.ParsedFinding
	for _, item := range items {
		v := asMap(item)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(v, "vulnType", "name", "title"), "AppSpider Finding"),
			Severity:    appspiderSeverity(str(v, "severity")),
			Tool:        "appspider",
			Description: truncate(firstStr(v, "description", "summary"), 2000),
			Asset:       firstStr(v, "attackedUrl", "url"),
			Tags:        []string{"dast"},
			RawData:     v,
		})
	}
	return findings
}

func (appspiderParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	items := root.findAll("VulnSummary")
	items = append(items, root.findAll("Vuln")...)
	items = append(items, root.findAll("Finding")...)

	var findings []schemas.ParsedFinding
	for _, item := range items {
		title := item.findText("VulnType", "")
		if title == "" {
			title = item.findText("Name", "")
		}
		if title == "" {
			title = item.findText("Title", "AppSpider Finding")
		}
		sev := item.findText("AttackScore", "")
		if sev == "" {
			sev = item.findText("Severity", "medium")
		}
		asset := item.findText("AttackedUrl", "")
		if asset == "" {
			asset = item.findText("Url", "")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       title,
			Severity:    appspiderSeverity(sev),
			Tool:        "appspider",
			Description: truncate(item.findText("Description", ""), 2000),
			Asset:       asset,
			Tags:        []string{"dast"},
		})
	}
	return findings
}
