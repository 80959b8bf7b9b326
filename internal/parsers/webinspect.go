package parsers

import (
	"strconv"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type webinspectParser struct{}

func (webinspectParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "webinspect",
		DisplayName: "Micro Focus WebInspect",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"xml"},
		Description: "Micro Focus WebInspect dynamic application security testing",
	}
}

func (webinspectParser) Detect(content, _ string) bool {
	return strings.Contains(strings.ToLower(content), "webinspect")
}

// WebInspect severity is either a 0-4 level or a label; "best practice" is
// informational.
func webinspectSeverity(raw string) schemas.Severity {
	if level, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		switch {
		case level >= 4:
			return schemas.SeverityCritical
		case level >= 3:
			return schemas.SeverityHigh
		case level >= 2:
			return schemas.SeverityMedium
		}
		return schemas.SeverityLow
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "best practice":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (webinspectParser) Parse(content, _ string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	items := root.findAll("Issue")
	if len(items) == 0 {
		items = root.findAll("issue")
	}
	if len(items) == 0 {
		items = root.findAll("Vulnerability")
	}
	var findings []schemas.ParsedFinding
	for _, issue := range items {
		title := issue.findText("Name", "")
		if title == "" {
			title = issue.findText("name", "")
		}
		if title == "" {
			title = issue.findText("CheckType", "WebInspect Finding")
		}
		desc := issue.findText("Description", "")
		if desc == "" {
			desc = issue.findText("description", "")
		}
		sev := issue.findText("Severity", "")
		if sev == "" {
			sev = issue.findText("severity", "medium")
		}
		asset := issue.findText("URL", "")
		if asset == "" {
			asset = issue.findText("url", "")
		}
		if asset == "" {
			asset = issue.findText("Host", "unknown")
		}
		cwe := issue.findText("CWE", "")
		if cwe == "" {
			cwe = issue.findText("cwe", "")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       title,
			Severity:    webinspectSeverity(sev),
			Tool:        "webinspect",
			Description: truncate(desc, 2000),
			Asset:       asset,
			CWEID:       cweNumber(cwe),
			Tags:        []string{"dast"},
		})
	}
	return findings
}
