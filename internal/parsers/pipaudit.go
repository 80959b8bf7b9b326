package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type pipAuditParser struct{}

func (pipAuditParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "pip-audit",
		DisplayName: "pip-audit",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Python package vulnerability scanner",
	}
}

func (pipAuditParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	first := asMap(arr[0])
	return has(first, "name") && has(first, "vulns")
}

// pip-audit exposes no severity of its own; every hit lands at high.
func (pipAuditParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, p := range arr {
		pkg := asMap(p)
		pkgName := nonEmpty(str(pkg, "name"), "unknown")
		version := str(pkg, "version")

		for _, v := range asSlice(pkg["vulns"]) {
			vuln := asMap(v)
			vulnID := str(vuln, "id")

			cveID := ""
			if strings.HasPrefix(vulnID, "CVE-") {
				cveID = vulnID
			}
			for _, alias := range stringList(vuln["aliases"]) {
				if strings.HasPrefix(alias, "CVE-") {
					cveID = alias
					break
				}
			}
			recommendation := ""
			if fixed := stringList(vuln["fix_versions"]); len(fixed) > 0 {
				recommendation = "Upgrade " + pkgName + " to version: " + strings.Join(fixed, ", ")
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:          vulnID + ": " + pkgName + " " + version,
				Severity:       schemas.SeverityHigh,
				Tool:           "pip-audit",
				Description:    truncate(str(vuln, "description"), 2000),
				Asset:          pkgName + "==" + version,
				CVEID:          cveID,
				Recommendation: recommendation,
				Tags:           []string{"python", "pip", pkgName},
				RawData:        vuln,
			})
		}
	}
	return findings
}
