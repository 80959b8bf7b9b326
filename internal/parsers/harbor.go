package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type harborParser struct{}

func (harborParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "harbor",
		DisplayName: "Harbor Vulnerability",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "Harbor container registry vulnerability scan results",
	}
}

func (harborParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "scan_overview") {
		return true
	}
	return has(doc, "vulnerabilities") &&
		(strings.Contains(content, "severity") || strings.Contains(content, "package"))
}

func harborSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "negligible", "unknown":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (harborParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	artifact := str(asMap(doc["artifact"]), "digest")
	if artifact == "" {
		artifact = nonEmpty(str(doc, "repository"), "unknown")
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(v)
		id := str(vuln, "id")
		cve := ""
		if strings.HasPrefix(id, "CVE") {
			cve = id
		}
		f := schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "id", "cve_id"), "Harbor Vulnerability"),
			Severity:    harborSeverity(str(vuln, "severity")),
			Tool:        "harbor",
			Description: truncate(str(vuln, "description"), 2000),
			Asset:       artifact + ":" + nonEmpty(str(vuln, "package"), "unknown") + "@" + str(vuln, "version"),
			CVEID:       cve,
			Tags:        []string{"container"},
			RawData:     vuln,
		}
		if cvss, ok := num(vuln, "cvss_score_v3"); ok {
			f.CVSSScore = cvss
		} else if cvss, ok := num(vuln, "cvss_score_v2"); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}
