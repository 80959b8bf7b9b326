package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type immuniwebParser struct{}

func (immuniwebParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "immuniweb",
		DisplayName: "ImmuniWeb",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"xml", "json"},
		Description: "ImmuniWeb web security scanner",
	}
}

func (immuniwebParser) Detect(content, _ string) bool {
	return strings.Contains(strings.ToLower(content), "immuniweb")
}

func immuniwebSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "info":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (p immuniwebParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "<") {
		return p.parseXML(content)
	}
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	items := asSlice(doc["vulnerabilities"])
	if items == nil {
		items = asSlice(doc["findings"])
	}
	var findings []schemas.ParsedFinding
	for _, item := range items {
		vuln := asMap(item)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "name", "title"), "ImmuniWeb Finding"),
			Severity:    immuniwebSeverity(str(vuln, "severity")),
			Tool:        "immuniweb",
			Description: truncate(str(vuln, "description"), 2000),
			Asset:       nonEmpty(firstStr(vuln, "url", "target"), "unknown"),
			CWEID:       cweNumber(vuln["cwe"]),
			Tags:        []string{"dast"},
			RawData:     vuln,
		})
	}
	return findings
}

func (immuniwebParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	items := root.findAll("vulnerability")
	if len(items) == 0 {
		items = root.findAll("finding")
	}
	var findings []schemas.ParsedFinding
	for _, vuln := range items {
		title := vuln.findText("name", "")
		if title == "" {
			title = vuln.findText("title", "ImmuniWeb Finding")
		}
		asset := vuln.findText("url", "")
		if asset == "" {
			asset = vuln.findText("target", "unknown")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       title,
			Severity:    immuniwebSeverity(vuln.findText("severity", "medium")),
			Tool:        "immuniweb",
			Description: truncate(vuln.findText("description", ""), 2000),
			Asset:       asset,
			CWEID:       cweNumber(vuln.findText("cwe", "")),
			Tags:        []string{"dast"},
		})
	}
	return findings
}
