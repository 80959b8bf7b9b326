package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type ibmAppScanParser struct{}

func (ibmAppScanParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "ibm-appscan",
		DisplayName: "IBM AppScan",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"xml"},
		Description: "IBM Security AppScan vulnerability scanner",
	}
}

func (ibmAppScanParser) Detect(content, _ string) bool {
	if !strings.Contains(content, "AppScan") {
		return false
	}
	return strings.Contains(content, "IBM") ||
		strings.Contains(content, "xml-report") ||
		strings.Contains(strings.ToLower(content), "issues")
}

func (ibmAppScanParser) Parse(content, _ string) []schemas.ParsedFinding {
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
		title := issue.findText("issue-type", "")
		if title == "" {
			title = issue.findText("name", "")
		}
		if title == "" {
			title = issue.findText("IssueType", "IBM AppScan Finding")
		}
		desc := issue.findText("advisory", "")
		if desc == "" {
			desc = issue.findText("description", "")
		}
		sev := issue.findText("severity", "")
		if sev == "" {
			sev = issue.findText("Severity", "medium")
		}
		asset := issue.findText("url", "")
		if asset == "" {
			asset = issue.findText("Url", "unknown")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       title,
			Severity:    appscanSeverity(sev),
			Tool:        "ibm-appscan",
			Description: truncate(desc, 2000),
			Asset:       asset,
			CWEID:       cweNumber(issue.findText("cwe", "")),
			Tags:        []string{"dast"},
		})
	}
	return findings
}
