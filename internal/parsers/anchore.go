package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type anchoreParser struct{}

func (anchoreParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "anchore",
		DisplayName: "Anchore Engine",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "Anchore container security analysis",
	}
}

func (anchoreParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	return ok && has(doc, "vulnerabilities") && has(doc, "imageDigest", "image")
}

func (anchoreParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	image := str(doc, "imageDigest")
	if image == "" {
		image = nonEmpty(str(asMap(doc["image"]), "imageDigest"), "unknown")
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(v)
		cveID := firstStr(vuln, "vuln", "cve")

		cvss := 0.0
		if nvd := asSlice(vuln["nvd_data"]); len(nvd) > 0 {
			cvss, _ = num(asMap(asMap(nvd[0])["cvss_v3"]), "base_score")
		}
		recommendation := ""
		if fix := str(vuln, "fix"); fix != "" {
			recommendation = "Fix available: " + fix
		}
		var refs []string
		if url := str(vuln, "url"); url != "" {
			refs = []string{url}
		}
		tags := []string{"container"}
		for _, t := range []string{str(vuln, "package_type"), str(vuln, "package")} {
			if t != "" {
				tags = append(tags, t)
			}
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          cveID + ": " + nonEmpty(str(vuln, "package"), "unknown"),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(vuln, "severity"), "Unknown")),
			Tool:           "anchore",
			Description:    truncate(str(vuln, "description"), 2000),
			Asset:          image,
			CVEID:          cveID,
			CVSSScore:      cvss,
			Recommendation: recommendation,
			References:     refs,
			Tags:           tags,
			RawData:        vuln,
		})
	}
	return findings
}
