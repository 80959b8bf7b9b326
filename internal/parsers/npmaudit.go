package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type npmAuditParser struct{}

func (npmAuditParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "npm-audit",
		DisplayName: "npm audit",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Node.js npm package vulnerability scanner",
	}
}

func (npmAuditParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(doc, "advisories", "vulnerabilities") && has(doc, "metadata", "auditReportVersion")
}

func (p npmAuditParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	if has(doc, "vulnerabilities") {
		return p.parseV2(doc)
	}
	return p.parseV1(doc)
}

// v7+ format: vulnerabilities keyed by package, advisories nested in "via".
func (npmAuditParser) parseV2(doc map[string]any) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for pkgName, v := range asMap(doc["vulnerabilities"]) {
		vulnData := asMap(v)
		pkgSeverity := nonEmpty(str(vulnData, "severity"), "moderate")

		for _, entry := range asSlice(vulnData["via"]) {
			via, ok := entry.(map[string]any)
			if !ok {
				// Transitive entries are bare package-name strings.
				continue
			}
			var refs []string
			if url := str(via, "url"); url != "" {
				refs = []string{url}
			}
			tags := []string{"npm", pkgName}
			if r := str(vulnData, "range"); r != "" {
				tags = append(tags, r)
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:          nonEmpty(str(via, "title"), "Vulnerability in "+pkgName),
				Severity:       schemas.NormalizeSeverity(nonEmpty(str(via, "severity"), pkgSeverity)),
				Tool:           "npm-audit",
				Description:    str(via, "title"),
				Asset:          pkgName,
				CWEID:          cweNumber(via["cwe"]),
				Recommendation: fmt.Sprintf("Fix available: %v", vulnData["fixAvailable"]),
				References:     refs,
				Tags:           tags,
				RawData:        via,
			})
		}
	}
	return findings
}

// v6 format: flat advisories map.
func (npmAuditParser) parseV1(doc map[string]any) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for advisoryID, a := range asMap(doc["advisories"]) {
		advisory := asMap(a)
		var refs []string
		if url := str(advisory, "url"); url != "" {
			refs = []string{url}
		}
		module := str(advisory, "module_name")
		tags := []string{"npm"}
		if module != "" {
			tags = append(tags, module)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(str(advisory, "title"), "Advisory "+advisoryID),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(advisory, "severity"), "moderate")),
			Tool:           "npm-audit",
			Description:    truncate(str(advisory, "overview"), 2000),
			Asset:          nonEmpty(module, "unknown"),
			CWEID:          cweNumber(advisory["cwe"]),
			Recommendation: str(advisory, "recommendation"),
			References:     refs,
			Tags:           tags,
			RawData:        advisory,
		})
	}
	return findings
}
