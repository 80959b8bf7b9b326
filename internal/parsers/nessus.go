package parsers

import (
	"strconv"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type nessusParser struct{}

func (nessusParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "nessus",
		DisplayName: "Nessus",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"xml", "json", "nessus"},
		Description: "Tenable Nessus vulnerability scanner",
	}
}

func (nessusParser) Detect(content, _ string) bool {
	return strings.Contains(content, "NessusClientData") ||
		strings.Contains(strings.ToLower(content), "nessus") ||
		strings.Contains(content, "ReportHost")
}

// Nessus severity is a 0-4 integer; 0 is informational noise and dropped in
// the XML path.
func nessusSeverity(raw string) schemas.Severity {
	level, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return schemas.SeverityMedium
	}
	switch {
	case level >= 4:
		return schemas.SeverityCritical
	case level >= 3:
		return schemas.SeverityHigh
	case level >= 2:
		return schemas.SeverityMedium
	case level >= 1:
		return schemas.SeverityLow
	}
	return schemas.SeverityInfo
}

func (p nessusParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "<") {
		return p.parseXML(content)
	}
	return p.parseJSON(content)
}

func (nessusParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, host := range root.findAll("ReportHost") {
		hostName := nonEmpty(host.attr("name"), "unknown")
		for _, item := range host.findAll("ReportItem") {
			severity := item.attr("severity")
			if level, err := strconv.Atoi(severity); err != nil || level <= 0 {
				continue
			}
			desc := item.findText("description", "")
			if desc == "" {
				desc = item.findText("synopsis", "")
			}
			cvssText := item.findText("cvss3_base_score", "")
			if cvssText == "" {
				cvssText = item.findText("cvss_base_score", "")
			}
			f := schemas.ParsedFinding{
				Title:       nonEmpty(item.attr("pluginName"), "Nessus Finding"),
				Severity:    nessusSeverity(severity),
				Tool:        "nessus",
				Description: truncate(desc, 2000),
				Asset:       hostName + ":" + item.attr("port"),
				CVEID:       item.findText("cve", ""),
				Tags:        []string{"network"},
				RawData:     map[string]any{"plugin_id": item.attr("pluginID"), "host": hostName},
			}
			if cvss, ok := parseFloat(cvssText); ok {
				f.CVSSScore = cvss
			}
			findings = append(findings, f)
		}
	}
	return findings
}

func (nessusParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, v := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(v)
		f := schemas.ParsedFinding{
			Title:       nonEmpty(str(vuln, "plugin_name"), "Nessus Finding"),
			Severity:    nessusSeverity(toString(vuln["severity"])),
			Tool:        "nessus",
			Description: truncate(str(vuln, "description"), 2000),
			Asset:       nonEmpty(str(vuln, "host_name"), "unknown"),
			CVEID:       str(vuln, "cve"),
			Tags:        []string{"network"},
			RawData:     vuln,
		}
		if cvss, ok := num(vuln, "cvss_base_score"); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}
