package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type aquaParser struct{}

func (aquaParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "aqua",
		DisplayName: "Aqua Security",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "Aqua Security container and cloud-native security",
	}
}

func (aquaParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "resources", "image_assurance") {
		return true
	}
	return strings.Contains(strings.ToLower(content), "aqua") && has(doc, "vulnerabilities")
}

func aquaSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "negligible":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (aquaParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	resources := asSlice(doc["resources"])
	if resources == nil {
		resources = []any{doc}
	}
	var findings []schemas.ParsedFinding
	for _, r := range resources {
		resource := asMap(r)
		vulns := asSlice(resource["vulnerabilities"])
		if vulns == nil {
			vulns = asSlice(resource["results"])
		}
		image := nonEmpty(str(asMap(resource["resource"]), "name"), nonEmpty(str(resource, "image"), "unknown"))

		for _, v := range vulns {
			vuln := asMap(v)
			name := str(vuln, "name")
			cve := ""
			if strings.HasPrefix(name, "CVE") {
				cve = name
			}
			sev := str(vuln, "aqua_severity")
			if sev == "" {
				sev = str(vuln, "severity")
			}
			f := schemas.ParsedFinding{
				Title:       nonEmpty(firstStr(vuln, "name", "vulnerability_id"), "Aqua Finding"),
				Severity:    aquaSeverity(nonEmpty(sev, "medium")),
				Tool:        "aqua",
				Description: truncate(str(vuln, "description"), 2000),
				Asset:       image,
				CVEID:       cve,
				Tags:        []string{"container"},
				RawData:     vuln,
			}
			if score, ok := num(vuln, "aqua_score"); ok {
				f.CVSSScore = score
			} else if score, ok := num(vuln, "nvd_score"); ok {
				f.CVSSScore = score
			}
			findings = append(findings, f)
		}
	}
	return findings
}
