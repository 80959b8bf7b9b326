package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type cyclonedxParser struct{}

func (cyclonedxParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "cyclonedx",
		DisplayName: "CycloneDX",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json", "xml"},
		Description: "OWASP CycloneDX Software Bill of Materials",
	}
}

func (cyclonedxParser) Detect(content, _ string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		doc, ok := decodeObject(content)
		return ok && str(doc, "bomFormat") == "CycloneDX"
	}
	if strings.HasPrefix(trimmed, "<") {
		return strings.Contains(strings.ToLower(truncate(content, 500)), "cyclonedx")
	}
	return false
}

func (p cyclonedxParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return p.parseJSON(content)
	}
	return p.parseXML(content)
}

func (cyclonedxParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, item := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(item)
		vulnID := nonEmpty(str(vuln, "id"), "unknown")

		cve := ""
		if strings.HasPrefix(vulnID, "CVE-") {
			cve = vulnID
		}
		sev := "medium"
		cvss := 0.0
		for _, r := range asSlice(vuln["ratings"]) {
			rating := asMap(r)
			if s := str(rating, "severity"); s != "" {
				sev = s
			}
			if score, ok := num(rating, "score"); ok {
				cvss = score
			}
		}
		var refs []string
		if source := asMap(vuln["source"]); len(source) > 0 {
			for _, ref := range asSlice(source["references"]) {
				if url := str(asMap(ref), "url"); url != "" {
					refs = append(refs, url)
				}
			}
		}
		var affected []string
		for _, a := range asSlice(vuln["affects"]) {
			if ref := str(asMap(a), "ref"); ref != "" {
				affected = append(affected, ref)
			}
		}
		asset := strings.Join(affected, ", ")
		if asset == "" {
			asset = "unknown"
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          vulnID + ": " + truncate(nonEmpty(str(vuln, "description"), "Vulnerability"), 50),
			Severity:       schemas.NormalizeSeverity(sev),
			Tool:           "cyclonedx",
			Description:    truncate(str(vuln, "description"), 2000),
			Asset:          asset,
			CVEID:          cve,
			CWEID:          cweNumber(vuln["cwes"]),
			CVSSScore:      cvss,
			Recommendation: str(vuln, "recommendation"),
			References:     refs,
			Tags:           []string{"sbom", "cyclonedx"},
			RawData:        vuln,
		})
	}
	return findings
}

func (cyclonedxParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, vuln := range root.findAll("vulnerability") {
		vulnID := vuln.findText("id", "unknown")
		cve := ""
		if strings.HasPrefix(vulnID, "CVE-") {
			cve = vulnID
		}
		sev := "medium"
		if r := vuln.find("rating"); r != nil {
			sev = r.findText("severity", sev)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       vulnID,
			Severity:    schemas.NormalizeSeverity(sev),
			Tool:        "cyclonedx",
			Description: truncate(vuln.findText("description", ""), 2000),
			Asset:       "unknown",
			CVEID:       cve,
			Tags:        []string{"sbom", "cyclonedx"},
		})
	}
	return findings
}
