package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type sysdigParser struct{}

func (sysdigParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "sysdig",
		DisplayName: "Sysdig",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "Sysdig container and Kubernetes security",
	}
}

func (sysdigParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "imageDigest", "vulnsBySeverity") {
		return true
	}
	return strings.Contains(strings.ToLower(content), "sysdig")
}

func sysdigSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "negligible":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (sysdigParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	image := nonEmpty(firstStr(doc, "imageDigest", "imageName"), "unknown")

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(v)
		id := str(vuln, "vuln")
		cve := ""
		if strings.HasPrefix(id, "CVE") {
			cve = id
		}
		f := schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "vuln", "name"), "Sysdig Vulnerability"),
			Severity:    sysdigSeverity(str(vuln, "severity")),
			Tool:        "sysdig",
			Description: truncate(str(vuln, "description"), 2000),
			Asset:       image + ":" + nonEmpty(str(vuln, "package"), "unknown") + "@" + str(vuln, "version"),
			CVEID:       cve,
			Tags:        []string{"container"},
			RawData:     vuln,
		}
		if score, ok := num(asMap(asMap(vuln["cvss_score"])["value"]), "score"); ok {
			f.CVSSScore = score
		}
		findings = append(findings, f)
	}
	return findings
}
