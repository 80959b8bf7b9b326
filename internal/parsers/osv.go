package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type osvParser struct{}

func (osvParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "osv-scanner",
		DisplayName: "OSV Scanner",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Google Open Source Vulnerabilities scanner",
	}
}

func (osvParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	_, isList := doc["results"].([]any)
	return isList
}

func (osvParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, r := range asSlice(doc["results"]) {
		result := asMap(r)
		sourcePath := nonEmpty(str(asMap(result["source"]), "path"), "unknown")

		for _, p := range asSlice(result["packages"]) {
			pkg := asMap(p)
			pkgInfo := asMap(pkg["package"])
			pkgName := nonEmpty(str(pkgInfo, "name"), "unknown")

			for _, v := range asSlice(pkg["vulnerabilities"]) {
				vuln := asMap(v)
				vulnID := str(vuln, "id")

				cveID := ""
				for _, alias := range stringList(vuln["aliases"]) {
					if strings.HasPrefix(alias, "CVE-") {
						cveID = alias
						break
					}
				}
				if cveID == "" && strings.HasPrefix(vulnID, "CVE-") {
					cveID = vulnID
				}

				fixedVersion := ""
				if affected := asSlice(vuln["affected"]); len(affected) > 0 {
					for _, r := range asSlice(asMap(affected[0])["ranges"]) {
						for _, e := range asSlice(asMap(r)["events"]) {
							if fixed := str(asMap(e), "fixed"); fixed != "" {
								fixedVersion = fixed
								break
							}
						}
					}
				}
				recommendation := ""
				if fixedVersion != "" {
					recommendation = "Upgrade " + pkgName + " to version " + fixedVersion
				}

				var refs []string
				for _, ref := range asSlice(vuln["references"]) {
					if url := str(asMap(ref), "url"); url != "" {
						refs = append(refs, url)
					}
				}
				tags := []string{"osv", pkgName}
				if eco := str(pkgInfo, "ecosystem"); eco != "" {
					tags = append(tags, eco)
				}
				sev := str(asMap(vuln["database_specific"]), "severity")
				findings = append(findings, schemas.ParsedFinding{
					Title:          vulnID + ": " + pkgName,
					Severity:       schemas.NormalizeSeverity(nonEmpty(sev, "MEDIUM")),
					Tool:           "osv-scanner",
					Description:    truncate(firstStr(vuln, "summary", "details"), 2000),
					Asset:          sourcePath,
					CVEID:          cveID,
					Recommendation: recommendation,
					References:     refs,
					Tags:           tags,
					RawData:        vuln,
				})
			}
		}
	}
	return findings
}
