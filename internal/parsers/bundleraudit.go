package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type bundlerAuditParser struct{}

func (bundlerAuditParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "bundler-audit",
		DisplayName: "Bundler-Audit",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"txt", "json"},
		Description: "Ruby Bundler dependency vulnerability scanner",
	}
}

func (bundlerAuditParser) Detect(content, _ string) bool {
	if strings.Contains(content, "Insecure Source URI") {
		return true
	}
	if strings.Contains(content, "Name:") && strings.Contains(content, "Version:") && strings.Contains(content, "CVE") {
		return true
	}
	doc, ok := decodeObject(content)
	return ok && has(doc, "results", "vulnerabilities")
}

func bundlerAuditSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium", "unknown":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	}
	return schemas.SeverityMedium
}

func (p bundlerAuditParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return p.parseJSON(content)
	}
	return p.parseText(content)
}

func (bundlerAuditParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	items := asSlice(doc["results"])
	if items == nil {
		items = asSlice(doc["vulnerabilities"])
	}
	var findings []schemas.ParsedFinding
	for _, item := range items {
		vuln := asMap(item)
		advisory := asMap(vuln["advisory"])
		gem := asMap(vuln["gem"])

		title := str(vuln, "title")
		if title == "" {
			title = nonEmpty(str(advisory, "title"), "Bundler-Audit Finding")
		}
		desc := str(vuln, "description")
		if desc == "" {
			desc = str(advisory, "description")
		}
		cve := str(vuln, "cve")
		if cve == "" {
			cve = str(advisory, "cve")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       title,
			Severity:    bundlerAuditSeverity(str(vuln, "criticality")),
			Tool:        "bundler-audit",
			Description: truncate(desc, 2000),
			Asset:       nonEmpty(str(gem, "name"), "unknown") + "@" + str(gem, "version"),
			CVEID:       cve,
			Tags:        []string{"sca"},
			RawData:     vuln,
		})
	}
	return findings
}

// The plain-text report lists one advisory per blank-line-separated block of
// "Key: value" lines.
func (bundlerAuditParser) parseText(content string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	current := map[string]any{}

	flush := func() {
		if toString(current["name"]) == "" {
			return
		}
		name := toString(current["name"])
		version := toString(current["version"])
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(toString(current["title"]), "Bundler-Audit Finding"),
			Severity:    bundlerAuditSeverity(toString(current["severity"])),
			Tool:        "bundler-audit",
			Description: "Vulnerable gem: " + name + "@" + version,
			Asset:       name + "@" + version,
			CVEID:       toString(current["cve"]),
			Tags:        []string{"sca"},
			RawData:     current,
		})
		current = map[string]any{}
	}

	for _, line := range lines(content) {
		switch {
		case strings.HasPrefix(line, "Name:"):
			current["name"] = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "Version:"):
			current["version"] = strings.TrimSpace(strings.TrimPrefix(line, "Version:"))
		case strings.HasPrefix(line, "Title:"):
			current["title"] = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		case strings.HasPrefix(line, "CVE:"):
			current["cve"] = strings.TrimSpace(strings.TrimPrefix(line, "CVE:"))
		case strings.HasPrefix(line, "Criticality:"):
			current["severity"] = strings.TrimSpace(strings.TrimPrefix(line, "Criticality:"))
		case strings.HasPrefix(line, "URL:"):
			current["url"] = strings.TrimSpace(strings.TrimPrefix(line, "URL:"))
		case line == "":
			flush()
		}
	}
	flush()
	return findings
}
