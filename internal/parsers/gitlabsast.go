package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type gitlabSASTParser struct{}

func (gitlabSASTParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "gitlab-sast",
		DisplayName: "GitLab SAST/DAST",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "GitLab Security Scanning (SAST, DAST, Secret Detection)",
	}
}

func (gitlabSASTParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(doc, "vulnerabilities") && has(doc, "version", "scan", "remediations")
}

func gitlabSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "info", "unknown":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (gitlabSASTParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	scanType := nonEmpty(str(asMap(doc["scan"]), "type"), "gitlab")

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(v)
		location := asMap(vuln["location"])

		cve := ""
		cwe := 0
		for _, i := range asSlice(vuln["identifiers"]) {
			ident := asMap(i)
			switch str(ident, "type") {
			case "cve":
				cve = str(ident, "value")
			case "cwe":
				cwe = cweNumber(ident["value"])
			}
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "name", "message"), "GitLab Finding"),
			Severity:    gitlabSeverity(str(vuln, "severity")),
			Tool:        "gitlab_" + scanType,
			Description: truncate(str(vuln, "description"), 2000),
			Asset:       nonEmpty(firstStr(location, "file", "hostname"), "unknown"),
			CVEID:       cve,
			CWEID:       cwe,
			Tags:        []string{"gitlab"},
			RawData:     vuln,
		})
	}
	return findings
}
