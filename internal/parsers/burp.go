package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type burpParser struct{}

func (burpParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "burp",
		DisplayName: "Burp Suite",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json", "xml"},
		Description: "Burp Suite issue exports",
	}
}

func (burpParser) Detect(content, _ string) bool {
	if strings.Contains(strings.ToLower(content), "burp") {
		return true
	}
	if doc, ok := decodeObject(content); ok {
		return has(doc, "issue_events")
	}
	return strings.Contains(content, "<issues") && strings.Contains(content, "<issue>")
}

func burpSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "information", "info":
		return schemas.SeverityInfo
	}
	return schemas.SeverityInfo
}

func (p burpParser) Parse(content, filename string) []schemas.ParsedFinding {
	if doc, ok := decodeObject(content); ok {
		return p.parseJSON(doc)
	}
	return p.parseXML(content)
}

func (burpParser) parseJSON(doc map[string]any) []schemas.ParsedFinding {
	items := asSlice(doc["issue_events"])
	if items == nil {
		items = asSlice(doc["issues"])
	}
	var findings []schemas.ParsedFinding
	for _, item := range items {
		issue := asMap(item)
		// The REST API wraps each issue in an event envelope.
		if nested := asMap(issue["issue"]); len(nested) > 0 {
			issue = nested
		}
		tags := []string{"dast"}
		if ti := str(issue, "type_index"); ti != "" {
			tags = append(tags, "type-"+ti)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(issue, "name"), "Burp Finding"),
			Severity:    burpSeverity(str(issue, "severity")),
			Tool:        "burp",
			Description: truncate(firstStr(issue, "description", "issue_background"), 2000),
			Asset:       firstStr(issue, "origin", "host"),
			Tags:        tags,
			RawData:     issue,
		})
	}
	return findings
}

func (burpParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, issue := range root.findAll("issue") {
		desc := issue.findText("issueDetail", "")
		if desc == "" {
			desc = issue.findText("issueBackground", "")
		}
		tags := []string{"dast"}
		if t := issue.findText("type", ""); t != "" {
			tags = append(tags, "type-"+t)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          issue.findText("name", "Burp Finding"),
			Severity:       burpSeverity(issue.findText("severity", "info")),
			Tool:           "burp",
			Description:    truncate(desc, 2000),
			Asset:          issue.findText("host", ""),
			Recommendation: issue.findText("remediationBackground", ""),
			Tags:           tags,
		})
	}
	return findings
}
