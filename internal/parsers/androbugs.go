package parsers

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type androbugsParser struct{}

func (androbugsParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "androbugs",
		DisplayName: "AndroBugs",
		Category:    schemas.CategoryMobile,
		FileTypes:   []string{"json", "txt"},
		Description: "AndroBugs Framework for Android vulnerability scanning",
	}
}

func (androbugsParser) Detect(content, _ string) bool {
	if data, ok := decodeObject(content); ok {
		return strings.Contains(strings.ToLower(content), "androbugs") || has(data, "analyze_result")
	}
	return strings.Contains(content, "AndroBugs") ||
		strings.Contains(content, "[Critical]") || strings.Contains(content, "[Warning]")
}

func (p androbugsParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return p.parseJSON(content)
	}
	return p.parseText(content)
}

func (p androbugsParser) parseJSON(content string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	sections := asMap(data["analyze_result"])
	if len(sections) == 0 {
		sections = data
	}
	var findings []schemas.ParsedFinding
	for category, issues := range sections {
		for _, v := range asSlice(issues) {
			issue := asMap(v)
			findings = append(findings, schemas.ParsedFinding{
				Title:       nonEmpty(str(issue, "title"), category),
				Description: nonEmpty(str(issue, "description"), fmt.Sprintf("%v", v)),
				Severity:    p.mapSeverity(nonEmpty(str(issue, "severity"), "medium")),
				Tool:        "androbugs",
				Asset:       nonEmpty(str(data, "apk_name"), "Android App"),
				RawData:     issue,
			})
		}
	}
	return findings
}

// parseText handles the plain-text console report, tracking the current
// severity bracket as headings go by.
func (androbugsParser) parseText(content string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	severity := schemas.SeverityMedium
	for _, line := range lines(content) {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "[Critical]"):
			severity = schemas.SeverityCritical
		case strings.Contains(line, "[Warning]"):
			severity = schemas.SeverityHigh
		case strings.Contains(line, "[Notice]"):
			severity = schemas.SeverityMedium
		case strings.Contains(line, "[Info]"):
			severity = schemas.SeverityInfo
		case line != "" && !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "="):
			if strings.Contains(line, "vulnerability") || strings.Contains(line, "issue") ||
				strings.Contains(line, "found") || strings.Contains(line, "detected") {
				findings = append(findings, schemas.ParsedFinding{
					Title:       truncate(line, 100),
					Description: line,
					Severity:    severity,
					Tool:        "androbugs",
					Asset:       "Android App",
					RawData:     map[string]any{"line": line},
				})
			}
		}
	}
	return findings
}

func (androbugsParser) mapSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high", "warning":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "info":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}
