package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type hclAppScanParser struct{}

func (hclAppScanParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "hcl-appscan",
		DisplayName: "HCL AppScan",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"xml", "json"},
		Description: "HCL AppScan dynamic application security testing",
	}
}

func (hclAppScanParser) Detect(content, _ string) bool {
	lower := strings.ToLower(content)
	if strings.Contains(content, "AppScan") || strings.Contains(lower, "appscan") {
		return true
	}
	return strings.Contains(lower, "hcl") && strings.Contains(lower, "scan")
}

func appscanSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "informational":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (p hclAppScanParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "<") {
		return p.parseXML(content)
	}
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	items := asSlice(doc["issues"])
	if items == nil {
		items = asSlice(doc["findings"])
	}
	var findings []schemas.ParsedFinding
	for _, item := range items {
		issue := asMap(item)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(issue, "name", "issueType"), "HCL AppScan Finding"),
			Severity:    appscanSeverity(str(issue, "severity")),
			Tool:        "hcl-appscan",
			Description: truncate(firstStr(issue, "description", "advisory"), 2000),
			Asset:       nonEmpty(firstStr(issue, "url", "affectedUrl"), "unknown"),
			CWEID:       cweNumber(issue["cwe"]),
			Tags:        []string{"dast"},
			RawData:     issue,
		})
	}
	return findings
}

func (hclAppScanParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	items := root.findAll("issue")
	if len(items) == 0 {
		items = root.findAll("Issue")
	}
	if len(items) == 0 {
		items = root.findAll("item")
	}
	var findings []schemas.ParsedFinding
	for _, issue := range items {
		title := issue.findText("name", "")
		if title == "" {
			title = issue.findText("issue-type", "HCL AppScan Finding")
		}
		desc := issue.findText("description", "")
		if desc == "" {
			desc = issue.findText("advisory", "")
		}
		asset := issue.findText("url", "")
		if asset == "" {
			asset = issue.findText("affected-url", "unknown")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       title,
			Severity:    appscanSeverity(issue.findText("severity", "medium")),
			Tool:        "hcl-appscan",
			Description: truncate(desc, 2000),
			Asset:       asset,
			CWEID:       cweNumber(issue.findText("cwe", "")),
			Tags:        []string{"dast"},
		})
	}
	return findings
}
