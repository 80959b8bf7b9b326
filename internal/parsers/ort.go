package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type ortParser struct{}

func (ortParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "ort",
		DisplayName: "OSS Review Toolkit (ORT)",
		Category:    schemas.CategoryOther,
		FileTypes:   []string{"json", "xml"},
		Description: "OSS Review Toolkit for license compliance and vulnerability scanning",
	}
}

func (ortParser) Detect(content, _ string) bool {
	if data, ok := decodeObject(content); ok {
		return has(data, "analyzer", "advisor", "scanner") ||
			(has(data, "repository") && has(data, "config"))
	}
	return strings.Contains(strings.ToLower(content), "ort-result")
}

func (p ortParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for pkgID, advisories := range asMap(asMap(data["advisor"])["results"]) {
		for _, av := range asSlice(asMap(advisories)["advisories"]) {
			for _, vv := range asSlice(asMap(av)["vulnerabilities"]) {
				vuln := asMap(vv)
				id := str(vuln, "id")
				f := schemas.ParsedFinding{
					Title:       nonEmpty(firstStr(vuln, "id", "externalId"), "ORT Vulnerability"),
					Description: firstStr(vuln, "summary", "description"),
					Severity:    p.mapSeverity(nonEmpty(str(vuln, "severity"), "medium")),
					Tool:        "ort",
					Asset:       pkgID,
					RawData:     vuln,
				}
				if strings.HasPrefix(id, "CVE") {
					f.CVEID = id
				}
				findings = append(findings, f)
			}
		}
	}
	for _, v := range asSlice(asMap(data["evaluator"])["violations"]) {
		violation := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(violation, "rule", "message"), "ORT Violation"),
			Description: str(violation, "message"),
			Severity:    p.mapSeverity(nonEmpty(str(violation, "severity"), "medium")),
			Tool:        "ort",
			Asset:       nonEmpty(str(violation, "pkg"), "unknown"),
			RawData:     violation,
		})
	}
	return findings
}

func (ortParser) mapSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high", "error":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "hint":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}
