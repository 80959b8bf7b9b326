package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type arachniParser struct{}

func (arachniParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "arachni",
		DisplayName: "Arachni",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json"},
		Description: "Arachni web application scanner reports",
	}
}

func (arachniParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	return ok && has(doc, "issues") && has(doc, "sitemap")
}

func arachniSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "informational":
		return schemas.SeverityInfo
	}
	return schemas.SeverityInfo
}

func (arachniParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, item := range asSlice(doc["issues"]) {
		issue := asMap(item)

		var refs []string
		if rm, ok := issue["references"].(map[string]any); ok {
			for _, v := range rm {
				if s := toString(v); s != "" {
					refs = append(refs, s)
				}
			}
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(str(issue, "name"), "Arachni Finding"),
			Severity:       arachniSeverity(str(issue, "severity")),
			Tool:           "arachni",
			Description:    truncate(str(issue, "description"), 2000),
			Asset:          str(asMap(issue["vector"]), "url"),
			CWEID:          cweNumber(issue["cwe"]),
			Recommendation: str(issue, "remedy_guidance"),
			References:     refs,
			Tags:           []string{"dast"},
			RawData:        issue,
		})
	}
	return findings
}
