package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type dawnscannerParser struct{}

func (dawnscannerParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "dawnscanner",
		DisplayName: "DawnScanner",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Security scanner for Ruby web applications",
	}
}

func (dawnscannerParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(data, "dawn_version") || (has(data, "vulnerabilities") && has(data, "target"))
}

func (dawnscannerParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	target := nonEmpty(str(data, "target"), "unknown")
	var findings []schemas.ParsedFinding
	for _, v := range asSlice(data["vulnerabilities"]) {
		vuln := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "name", "title"), "DawnScanner Finding"),
			Description: firstStr(vuln, "message", "remediation"),
			Severity:    dawnscannerSeverity(firstStr(vuln, "severity", "priority")),
			Tool:        "dawnscanner",
			Asset:       target,
			CVEID:       str(vuln, "cve"),
			CWEID:       cweNumber(vuln["cwe"]),
			RawData:     vuln,
		})
	}
	return findings
}

func dawnscannerSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "info":
		return schemas.SeverityInfo
	default:
		return schemas.SeverityMedium
	}
}
