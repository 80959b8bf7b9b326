package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type jfrogXrayParser struct{}

func (jfrogXrayParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "jfrog-xray",
		DisplayName: "JFrog Xray",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "JFrog Xray universal software composition analysis",
	}
}

func (jfrogXrayParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "security_violations", "violations") {
		return true
	}
	return has(doc, "vulnerabilities") && strings.Contains(strings.ToLower(content), "xray")
}

func jfrogXraySeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "unknown":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (jfrogXrayParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	violations := asSlice(firstOf(doc, "security_violations", "violations", "vulnerabilities"))

	var findings []schemas.ParsedFinding
	for _, item := range violations {
		violation := asMap(item)
		base := schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(violation, "summary", "cve", "issue_id"), "JFrog Xray Finding"),
			Severity:    jfrogXraySeverity(str(violation, "severity")),
			Tool:        "jfrog-xray",
			Description: truncate(str(violation, "description"), 2000),
			CVEID:       str(violation, "cve"),
			Tags:        []string{"sca"},
		}
		if cvss, ok := num(violation, "cvss_v3_score"); ok {
			base.CVSSScore = cvss
		} else if cvss, ok := num(violation, "cvss_v2_score"); ok {
			base.CVSSScore = cvss
		}

		components := asSlice(violation["components"])
		if len(components) == 0 {
			f := base
			f.Asset = nonEmpty(str(violation, "impacted_artifact"), "unknown")
			f.RawData = violation
			findings = append(findings, f)
			continue
		}
		for _, c := range components {
			comp := asMap(c)
			f := base
			f.Asset = nonEmpty(firstStr(comp, "component_id", "id"), nonEmpty(str(violation, "impacted_artifact"), "unknown"))
			raw := map[string]any{"component": comp}
			for k, v := range violation {
				raw[k] = v
			}
			f.RawData = raw
			findings = append(findings, f)
		}
	}
	return findings
}
