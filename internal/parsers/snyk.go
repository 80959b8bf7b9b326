package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type snykParser struct{}

func (snykParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "snyk",
		DisplayName: "Snyk",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Developer security platform for code, dependencies, containers, and IaC",
	}
}

func (snykParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(doc, "vulnerabilities") && has(doc, "projectName", "path", "displayTargetFile")
}

func (snykParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	project := nonEmpty(firstStr(doc, "projectName", "path"), "unknown")

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(v)
		identifiers := asMap(vuln["identifiers"])

		cveID := ""
		if cves := stringList(identifiers["CVE"]); len(cves) > 0 {
			cveID = cves[0]
		}
		pkgName := firstStr(vuln, "packageName", "name")
		version := str(vuln, "version")

		recommendation := ""
		if fixedIn := stringList(vuln["fixedIn"]); len(fixedIn) > 0 {
			recommendation = "Upgrade to version: " + strings.Join(fixedIn, ", ")
		} else if path := stringList(vuln["upgradePath"]); len(path) > 0 {
			recommendation = "Upgrade path: " + strings.Join(path, " > ")
		}

		title := str(vuln, "title")
		if title == "" {
			title = nonEmpty(cveID, nonEmpty(str(vuln, "id"), "Vulnerability")) + ": " + pkgName
		}
		tags := []string{pkgName}
		if version != "" {
			tags = append(tags, version)
		}
		f := schemas.ParsedFinding{
			Title:          title,
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(vuln, "severity"), "medium")),
			Tool:           "snyk",
			Description:    truncate(str(vuln, "description"), 2000),
			Asset:          project,
			CVEID:          cveID,
			CWEID:          cweNumber(identifiers["CWE"]),
			Recommendation: recommendation,
			References:     stringList(vuln["references"]),
			Tags:           tags,
			RawData:        vuln,
		}
		if cvss, ok := num(vuln, "cvssScore"); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}
