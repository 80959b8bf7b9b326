package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type outpost24Parser struct{}

func (outpost24Parser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "outpost24",
		DisplayName: "Outpost24",
		Category:    schemas.CategoryOther,
		FileTypes:   []string{"xml", "json"},
		Description: "Outpost24 vulnerability management",
	}
}

func (outpost24Parser) Detect(content, _ string) bool {
	return strings.Contains(strings.ToLower(content), "outpost24")
}

func (p outpost24Parser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "<") {
		return p.parseXML(content)
	}
	return p.parseJSON(content)
}

func (p outpost24Parser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	vulns := root.findAll("vulnerability")
	if len(vulns) == 0 {
		vulns = root.findAll("finding")
	}
	var findings []schemas.ParsedFinding
	for _, vuln := range vulns {
		findings = append(findings, schemas.ParsedFinding{
			Title:       vuln.findText("name", vuln.findText("title", "Outpost24 Finding")),
			Description: vuln.findText("description", ""),
			Severity:    p.mapSeverity(vuln.findText("severity", vuln.findText("risk", "medium"))),
			Tool:        "outpost24",
			Asset:       vuln.findText("host", vuln.findText("target", "unknown")),
			CVEID:       vuln.findText("cve", ""),
			RawData:     map[string]any{"xml": true},
		})
	}
	return findings
}

func (p outpost24Parser) parseJSON(content string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, v := range asSlice(firstOf(data, "vulnerabilities", "findings")) {
		vuln := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "name", "title"), "Outpost24 Finding"),
			Description: str(vuln, "description"),
			Severity:    p.mapSeverity(nonEmpty(firstStr(vuln, "severity", "risk"), "medium")),
			Tool:        "outpost24",
			Asset:       nonEmpty(firstStr(vuln, "host", "target"), "unknown"),
			CVEID:       str(vuln, "cve"),
			RawData:     vuln,
		})
	}
	return findings
}

// mapSeverity accepts either the 1-4 numeric risk level or a label.
func (outpost24Parser) mapSeverity(sev string) schemas.Severity {
	if level, ok := parseFloat(sev); ok {
		switch {
		case level >= 4:
			return schemas.SeverityCritical
		case level >= 3:
			return schemas.SeverityHigh
		case level >= 2:
			return schemas.SeverityMedium
		}
		return schemas.SeverityLow
	}
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	}
	return schemas.SeverityMedium
}
