package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type kubeHunterParser struct{}

func (kubeHunterParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "kube-hunter",
		DisplayName: "kube-hunter",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "Kubernetes penetration testing tool",
	}
}

func (kubeHunterParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(doc, "vulnerabilities") && has(doc, "hunter_statistics", "nodes", "services")
}

func kubeHunterSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	}
	return schemas.SeverityMedium
}

func (kubeHunterParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, v := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "vulnerability", "location"), "kube-hunter Finding"),
			Severity:    kubeHunterSeverity(str(vuln, "severity")),
			Tool:        "kube-hunter",
			Description: truncate(firstStr(vuln, "description", "evidence"), 2000),
			Asset:       nonEmpty(firstStr(vuln, "location", "category"), "kubernetes"),
			Tags:        []string{"kubernetes"},
			RawData:     vuln,
		})
	}
	return findings
}
