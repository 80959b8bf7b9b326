package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type twistlockParser struct{}

func (twistlockParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "twistlock",
		DisplayName: "Twistlock / Prisma Cloud",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "Palo Alto Prisma Cloud (formerly Twistlock) container security",
	}
}

func (twistlockParser) Detect(content, _ string) bool {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "twistlock") || strings.Contains(lower, "prisma") {
		return true
	}
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(doc, "results") &&
		(strings.Contains(content, "vulnerabilities") || strings.Contains(content, "complianceIssues"))
}

func twistlockSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high", "important":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	}
	return schemas.SeverityMedium
}

func (twistlockParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	results := asSlice(doc["results"])
	if results == nil {
		results = []any{doc}
	}
	var findings []schemas.ParsedFinding
	for _, r := range results {
		result := asMap(r)
		image := nonEmpty(firstStr(result, "id", "imageName"), "unknown")

		for _, v := range asSlice(result["vulnerabilities"]) {
			vuln := asMap(v)
			f := schemas.ParsedFinding{
				Title:       nonEmpty(firstStr(vuln, "cve", "id"), "Twistlock Vulnerability"),
				Severity:    twistlockSeverity(str(vuln, "severity")),
				Tool:        "twistlock",
				Description: truncate(str(vuln, "description"), 2000),
				Asset:       image + ":" + nonEmpty(str(vuln, "packageName"), "unknown") + "@" + str(vuln, "packageVersion"),
				CVEID:       str(vuln, "cve"),
				Tags:        []string{"container"},
				RawData:     vuln,
			}
			if cvss, ok := num(vuln, "cvss"); ok {
				f.CVSSScore = cvss
			}
			findings = append(findings, f)
		}
		for _, i := range asSlice(result["complianceIssues"]) {
			issue := asMap(i)
			findings = append(findings, schemas.ParsedFinding{
				Title:       nonEmpty(firstStr(issue, "title", "id"), "Twistlock Compliance Issue"),
				Severity:    twistlockSeverity(str(issue, "severity")),
				Tool:        "twistlock",
				Description: truncate(str(issue, "description"), 2000),
				Asset:       image,
				Tags:        []string{"container", "compliance"},
				RawData:     issue,
			})
		}
	}
	return findings
}
