package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type openvasParser struct{}

func (openvasParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "openvas",
		DisplayName: "OpenVAS",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"xml", "json"},
		Description: "OpenVAS/Greenbone vulnerability scanner",
	}
}

func (openvasParser) Detect(content, _ string) bool {
	if strings.Contains(strings.ToLower(content), "openvas") || strings.Contains(content, "Greenbone") {
		return true
	}
	return strings.Contains(content, "<report") && strings.Contains(content, "<result")
}

func openvasSeverity(threat string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(threat)) {
	case "critical", "alarm":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "log":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (p openvasParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "<") {
		return p.parseXML(content)
	}
	return p.parseJSON(content)
}

func openvasCVE(nvt *xmlNode) string {
	if nvt == nil {
		return ""
	}
	if refs := nvt.find("refs"); refs != nil {
		for _, ref := range refs.findAll("ref") {
			if ref.attr("type") == "cve" {
				return ref.attr("id")
			}
		}
	}
	return nvt.findText("cve", "")
}

func (openvasParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, result := range root.findAll("result") {
		threat := result.findText("threat", "medium")
		lower := strings.ToLower(threat)
		if lower == "log" || lower == "false positive" {
			continue
		}
		nvt := result.find("nvt")
		title := "OpenVAS Finding"
		if nvt != nil {
			title = nvt.findText("name", title)
		}
		host := "unknown"
		if h := result.find("host"); h != nil {
			host = nonEmpty(h.trimmedText(), "unknown")
		}
		raw := map[string]any{}
		if nvt != nil {
			raw["nvt_oid"] = nvt.attr("oid")
		}
		f := schemas.ParsedFinding{
			Title:       title,
			Severity:    openvasSeverity(threat),
			Tool:        "openvas",
			Description: truncate(result.findText("description", ""), 2000),
			Asset:       host + ":" + result.findText("port", ""),
			CVEID:       openvasCVE(nvt),
			Tags:        []string{"network"},
			RawData:     raw,
		}
		if nvt != nil {
			if cvss, ok := parseFloat(nvt.findText("cvss_base", "")); ok {
				f.CVSSScore = cvss
			}
		}
		findings = append(findings, f)
	}
	return findings
}

func (openvasParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, r := range asSlice(doc["results"]) {
		result := asMap(r)
		sev := str(result, "threat")
		if sev == "" {
			sev = str(result, "severity")
		}
		f := schemas.ParsedFinding{
			Title:       nonEmpty(str(result, "name"), "OpenVAS Finding"),
			Severity:    openvasSeverity(nonEmpty(sev, "medium")),
			Tool:        "openvas",
			Description: truncate(str(result, "description"), 2000),
			Asset:       nonEmpty(str(result, "host"), "unknown"),
			CVEID:       str(result, "cve"),
			Tags:        []string{"network"},
			RawData:     result,
		}
		if cvss, ok := num(result, "cvss_base"); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}
