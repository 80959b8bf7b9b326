package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type acunetixParser struct{}

func (acunetixParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "acunetix",
		DisplayName: "Acunetix",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json", "xml"},
		Description: "Web application vulnerability scanner",
	}
}

func (acunetixParser) Detect(content, filename string) bool {
	if strings.Contains(strings.ToLower(content), "acunetix") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".xml") && strings.Contains(content, "<ReportItem")
}

func acunetixSeverity(v any) schemas.Severity {
	switch n := v.(type) {
	case float64:
		switch int(n) {
		case 4:
			return schemas.SeverityCritical
		case 3:
			return schemas.SeverityHigh
		case 2:
			return schemas.SeverityMedium
		case 1:
			return schemas.SeverityLow
		}
		return schemas.SeverityInfo
	case string:
		return schemas.NormalizeSeverity(n)
	}
	return schemas.SeverityInfo
}

func (p acunetixParser) Parse(content, filename string) []schemas.ParsedFinding {
	if doc, ok := decodeObject(content); ok {
		return p.parseJSON(doc)
	}
	return p.parseXML(content)
}

func (acunetixParser) parseJSON(doc map[string]any) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, item := range asSlice(doc["vulnerabilities"]) {
		v := asMap(item)
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(firstStr(v, "vt_name", "name"), "Acunetix Finding"),
			Severity:       acunetixSeverity(v["severity"]),
			Tool:           "acunetix",
			Description:    truncate(firstStr(v, "description", "details"), 2000),
			Asset:          firstStr(v, "affects_url", "target"),
			CWEID:          cweNumber(v["cwe"]),
			Recommendation: str(v, "recommendation"),
			Tags:           []string{"dast"},
			RawData:        v,
		})
	}
	return findings
}

func (acunetixParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, item := range root.findAll("ReportItem") {
		asset := item.findText("AffectedItem", "")
		if asset == "" {
			asset = item.findText("Affects", "")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          item.findText("Name", "Acunetix Finding"),
			Severity:       schemas.NormalizeSeverity(item.findText("Severity", "info")),
			Tool:           "acunetix",
			Description:    truncate(item.findText("Description", ""), 2000),
			Asset:          asset,
			CWEID:          cweNumber(item.findText("CWE", "")),
			Recommendation: item.findText("Recommendation", ""),
			Tags:           []string{"dast"},
		})
	}
	return findings
}
