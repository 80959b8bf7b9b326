package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type netsparkerParser struct{}

func (netsparkerParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "netsparker",
		DisplayName: "Netsparker / Invicti",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json", "xml"},
		Description: "Enterprise web application security scanner",
	}
}

func (netsparkerParser) Detect(content, _ string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		doc, ok := decodeObject(content)
		return ok && has(doc, "vulnerabilities") && has(doc, "target")
	}
	if strings.HasPrefix(trimmed, "<") {
		head := strings.ToLower(truncate(content, 1000))
		return strings.Contains(head, "netsparker") || strings.Contains(head, "invicti")
	}
	return false
}

// Netsparker labels severity with capitalized words plus "BestPractice".
func netsparkerSeverity(raw string) schemas.Severity {
	switch raw {
	case "Critical":
		return schemas.SeverityCritical
	case "High":
		return schemas.SeverityHigh
	case "Medium":
		return schemas.SeverityMedium
	case "Low":
		return schemas.SeverityLow
	}
	return schemas.SeverityInfo
}

func (p netsparkerParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return p.parseJSON(content)
	}
	return p.parseXML(content)
}

func (netsparkerParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	target := str(asMap(doc["target"]), "url")
	if target == "" {
		target = "unknown"
	}
	var findings []schemas.ParsedFinding
	for _, item := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(item)
		tags := []string{"netsparker"}
		if t := str(vuln, "type"); t != "" {
			tags = append(tags, t)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(firstStr(vuln, "name", "type"), "Unknown"),
			Severity:       netsparkerSeverity(str(vuln, "severity")),
			Tool:           "netsparker",
			Description:    truncate(str(vuln, "description"), 2000),
			Asset:          nonEmpty(str(vuln, "url"), target),
			CWEID:          cweNumber(asMap(vuln["classification"])["cwe"]),
			Recommendation: str(vuln, "remedy"),
			Tags:           tags,
			RawData:        vuln,
		})
	}
	return findings
}

func (netsparkerParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	target := "unknown"
	if t := root.find("target"); t != nil {
		target = t.findText("url", "unknown")
	}
	var findings []schemas.ParsedFinding
	for _, vuln := range root.findAll("vulnerability") {
		title := vuln.findText("name", "")
		if title == "" {
			title = vuln.findText("type", "Unknown")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          title,
			Severity:       netsparkerSeverity(vuln.findText("severity", "Information")),
			Tool:           "netsparker",
			Description:    truncate(vuln.findText("description", ""), 2000),
			Asset:          nonEmpty(vuln.findText("url", ""), target),
			CWEID:          cweNumber(vuln.findText("cwe", "")),
			Recommendation: vuln.findText("remedy", ""),
			Tags:           []string{"netsparker"},
		})
	}
	return findings
}
