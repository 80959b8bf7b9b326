package parsers

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type crunch42Parser struct{}

func (crunch42Parser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "crunch42",
		DisplayName: "42Crunch",
		Category:    schemas.CategoryOther,
		FileTypes:   []string{"json"},
		Description: "42Crunch API security audit",
	}
}

func (crunch42Parser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(data, "audit", "openapiState") || strings.Contains(strings.ToLower(content), "42crunch")
}

func (p crunch42Parser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	audit := asMap(data["audit"])
	if len(audit) == 0 {
		audit = data
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(firstOf(audit, "issues", "findings")) {
		issue := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(issue, "id"), nonEmpty(str(issue, "title"), "42Crunch Issue")),
			Description: nonEmpty(str(issue, "description"), str(issue, "message")),
			Severity:    p.mapSeverity(firstOf(issue, "severity", "criticality")),
			Tool:        "crunch42",
			Asset:       nonEmpty(str(issue, "pointer"), nonEmpty(str(issue, "path"), "API")),
			RawData:     issue,
		})
	}

	// Per-category audit scores below 70 become their own findings.
	for _, category := range []string{"security", "data", "operation"} {
		for key, v := range asMap(audit[category]) {
			issue := asMap(v)
			if len(issue) == 0 {
				continue
			}
			score := 100.0
			if s, ok := num(issue, "score"); ok {
				score = s
			}
			if score >= 70 {
				continue
			}
			desc := str(issue, "description")
			if desc == "" {
				desc = fmt.Sprintf("Score: %v", score)
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       fmt.Sprintf("%s: %s", strings.ToUpper(category[:1])+category[1:], key),
				Description: desc,
				Severity:    p.scoreToSeverity(score),
				Tool:        "crunch42",
				Asset:       "API",
				RawData:     issue,
			})
		}
	}
	return findings
}

func (p crunch42Parser) mapSeverity(sev any) schemas.Severity {
	if n, ok := sev.(float64); ok {
		return p.scoreToSeverity(100 - n*20)
	}
	switch strings.ToLower(toString(sev)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "info":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (crunch42Parser) scoreToSeverity(score float64) schemas.Severity {
	switch {
	case score < 30:
		return schemas.SeverityCritical
	case score < 50:
		return schemas.SeverityHigh
	case score < 70:
		return schemas.SeverityMedium
	}
	return schemas.SeverityLow
}
