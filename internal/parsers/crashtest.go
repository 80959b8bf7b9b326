package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type crashtestParser struct{}

func (crashtestParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "crashtest",
		DisplayName: "Crashtest Security",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json", "xml"},
		Description: "Crashtest Security scan reports",
	}
}

func (crashtestParser) Detect(content, _ string) bool {
	if strings.Contains(strings.ToLower(content), "crashtest") {
		return true
	}
	doc, ok := decodeObject(content)
	return ok && has(doc, "scan_result")
}

func crashtestSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "info", "informational":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (p crashtestParser) Parse(content, filename string) []schemas.ParsedFinding {
	if doc, ok := decodeObject(content); ok {
		return p.parseJSON(doc)
	}
	return p.parseXML(content)
}

func (crashtestParser) parseJSON(doc map[string]any) []schemas.ParsedFinding {
	items := asSlice(doc["vulnerabilities"])
	if items == nil {
		items = asSlice(doc["findings"])
	}
	if items == nil {
		items = asSlice(asMap(doc["scan_result"])["vulnerabilities"])
	}
	var findings []schemas.ParsedFinding
	for _, item := range items {
		v := asMap(item)
		f := schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(v, "title", "name"), "Crashtest Finding"),
			Severity:    crashtestSeverity(str(v, "severity")),
			Tool:        "crashtest",
			Description: truncate(str(v, "description"), 2000),
			Asset:       firstStr(v, "url", "target"),
			Tags:        []string{"dast"},
			RawData:     v,
		}
		if cvss, ok := num(v, "cvss"); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}

func (crashtestParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	items := root.findAll("vulnerability")
	items = append(items, root.findAll("finding")...)

	var findings []schemas.ParsedFinding
	for _, item := range items {
		findings = append(findings, schemas.ParsedFinding{
			Title:       item.findText("title", "Crashtest Finding"),
			Severity:    crashtestSeverity(item.findText("severity", "medium")),
			Tool:        "crashtest",
			Description: truncate(item.findText("description", ""), 2000),
			Asset:       item.findText("url", ""),
			Tags:        []string{"dast"},
		})
	}
	return findings
}
