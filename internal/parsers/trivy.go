package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type trivyParser struct{}

func (trivyParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "trivy",
		DisplayName: "Trivy",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Aqua Security comprehensive vulnerability scanner",
	}
}

func (trivyParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "Results") {
		return true
	}
	return has(doc, "SchemaVersion") && has(doc, "ArtifactName")
}

func (trivyParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	artifactName := nonEmpty(str(doc, "ArtifactName"), "unknown")

	var findings []schemas.ParsedFinding
	for _, r := range asSlice(doc["Results"]) {
		result := asMap(r)
		target := nonEmpty(str(result, "Target"), artifactName)
		resultType := str(result, "Type")

		for _, v := range asSlice(result["Vulnerabilities"]) {
			vuln := asMap(v)
			cveID := str(vuln, "VulnerabilityID")

			cvss := 0.0
			cvssData := asMap(vuln["CVSS"])
			for _, source := range []string{"nvd", "redhat", "ghsa"} {
				entry := asMap(cvssData[source])
				if len(entry) == 0 {
					continue
				}
				if score, ok := num(entry, "V3Score"); ok {
					cvss = score
					break
				}
				if score, ok := num(entry, "V2Score"); ok {
					cvss = score
					break
				}
			}

			pkgName := str(vuln, "PkgName")
			installed := str(vuln, "InstalledVersion")
			fixed := str(vuln, "FixedVersion")
			recommendation := ""
			if fixed != "" {
				recommendation = "Upgrade " + pkgName + " from " + installed + " to " + fixed
			}
			tags := []string{pkgName}
			if resultType != "" {
				tags = []string{resultType, pkgName}
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:          nonEmpty(cveID, nonEmpty(str(vuln, "Title"), "Vulnerability")) + ": " + pkgName,
				Severity:       schemas.NormalizeSeverity(nonEmpty(str(vuln, "Severity"), "UNKNOWN")),
				Tool:           "trivy",
				Description:    truncate(str(vuln, "Description"), 2000),
				Asset:          target,
				CVEID:          cveID,
				CWEID:          cweNumber(vuln["CweIDs"]),
				CVSSScore:      cvss,
				Recommendation: recommendation,
				References:     stringList(vuln["References"]),
				Tags:           tags,
				RawData:        vuln,
			})
		}
		for _, m := range asSlice(result["Misconfigurations"]) {
			misconfig := asMap(m)
			tags := []string{"misconfiguration"}
			if t := str(misconfig, "Type"); t != "" {
				tags = append(tags, t)
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:          nonEmpty(firstStr(misconfig, "Title", "ID"), "Misconfiguration"),
				Severity:       schemas.NormalizeSeverity(nonEmpty(str(misconfig, "Severity"), "MEDIUM")),
				Tool:           "trivy",
				Description:    truncate(str(misconfig, "Description"), 2000),
				Asset:          target,
				Recommendation: str(misconfig, "Resolution"),
				References:     stringList(misconfig["References"]),
				Tags:           tags,
				RawData:        misconfig,
			})
		}
		for _, s := range asSlice(result["Secrets"]) {
			secret := asMap(s)
			tags := []string{"secrets"}
			if c := str(secret, "Category"); c != "" {
				tags = append(tags, c)
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       "Secret Detected: " + nonEmpty(firstStr(secret, "RuleID", "Category"), "Unknown"),
				Severity:    schemas.SeverityHigh,
				Tool:        "trivy",
				Description: truncate(str(secret, "Title"), 2000),
				Asset:       target,
				FilePath:    target,
				LineNumber:  intval(secret, "StartLine"),
				Tags:        tags,
				RawData:     secret,
			})
		}
	}
	return findings
}
