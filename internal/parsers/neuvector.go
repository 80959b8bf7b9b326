package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type neuvectorParser struct{}

func (neuvectorParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "neuvector",
		DisplayName: "NeuVector",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "NeuVector full lifecycle container security",
	}
}

func (neuvectorParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(asMap(doc["report"]), "vulnerabilities") {
		return true
	}
	return strings.Contains(strings.ToLower(content), "neuvector")
}

func neuvectorSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	}
	return schemas.SeverityMedium
}

func (neuvectorParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	report := doc
	if r := asMap(doc["report"]); len(r) > 0 {
		report = r
	}
	image := nonEmpty(firstStr(report, "image_id", "repository"), "unknown")

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(report["vulnerabilities"]) {
		vuln := asMap(v)
		name := str(vuln, "name")
		cve := ""
		if strings.HasPrefix(name, "CVE") {
			cve = name
		}
		f := schemas.ParsedFinding{
			Title:       nonEmpty(name, "NeuVector Vulnerability"),
			Severity:    neuvectorSeverity(str(vuln, "severity")),
			Tool:        "neuvector",
			Description: truncate(str(vuln, "description"), 2000),
			Asset:       image + ":" + nonEmpty(str(vuln, "package_name"), "unknown") + "@" + str(vuln, "package_version"),
			CVEID:       cve,
			Tags:        []string{"container"},
			RawData:     vuln,
		}
		if score, ok := num(vuln, "score"); ok {
			f.CVSSScore = score
		}
		findings = append(findings, f)
	}
	return findings
}
