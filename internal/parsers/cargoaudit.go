package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type cargoAuditParser struct{}

func (cargoAuditParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "cargo-audit",
		DisplayName: "Cargo Audit",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Rust cargo-audit for auditing Cargo.lock dependencies",
	}
}

func (cargoAuditParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "vulnerabilities") && has(doc, "database", "lockfile") {
		return true
	}
	return has(doc, "warnings")
}

func cargoAuditSeverity(raw string) schemas.Severity {
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

func (cargoAuditParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	vulnList := asSlice(doc["vulnerabilities"])
	if vulnList == nil {
		vulnList = asSlice(asMap(doc["vulnerabilities"])["list"])
	}

	var findings []schemas.ParsedFinding
	for _, item := range vulnList {
		vuln := asMap(item)
		advisory := asMap(vuln["advisory"])
		pkg := asMap(vuln["package"])

		id := str(advisory, "id")
		cve := ""
		if strings.HasPrefix(id, "CVE") {
			cve = id
		}
		sev := str(advisory, "severity")
		if sev == "" {
			sev = str(vuln, "severity")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(advisory, "title", "id"), "Cargo Audit Vulnerability"),
			Severity:    cargoAuditSeverity(sev),
			Tool:        "cargo-audit",
			Description: truncate(str(advisory, "description"), 2000),
			Asset:       nonEmpty(str(pkg, "name"), "unknown") + "@" + str(pkg, "version"),
			CVEID:       cve,
			Tags:        []string{"sca"},
			RawData:     vuln,
		})
	}
	for _, item := range asSlice(asMap(doc["warnings"])["unmaintained"]) {
		warning := asMap(item)
		advisory := asMap(warning["advisory"])
		pkg := asMap(warning["package"])
		findings = append(findings, schemas.ParsedFinding{
			Title:       "Unmaintained: " + nonEmpty(str(advisory, "title"), nonEmpty(str(pkg, "name"), "Unknown")),
			Severity:    schemas.SeverityLow,
			Tool:        "cargo-audit",
			Description: truncate(nonEmpty(str(advisory, "description"), "This package is unmaintained"), 2000),
			Asset:       nonEmpty(str(pkg, "name"), "unknown") + "@" + str(pkg, "version"),
			Tags:        []string{"sca"},
			RawData:     warning,
		})
	}
	return findings
}
