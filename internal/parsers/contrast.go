package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type contrastParser struct{}

func (contrastParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "contrast",
		DisplayName: "Contrast Security",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json", "csv"},
		Description: "Contrast Security IAST/RASP findings",
	}
}

func (contrastParser) Detect(content, _ string) bool {
	if data, ok := decodeObject(content); ok {
		return has(data, "traces") || has(data, "vulnerabilities") ||
			strings.Contains(strings.ToLower(content), "contrast")
	}
	return strings.Contains(content, "Vulnerability Name") && strings.Contains(content, "Severity")
}

func (contrastParser) Parse(content, _ string) []schemas.ParsedFinding {
	trimmed := strings.TrimSpace(content)

	var findings []schemas.ParsedFinding
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		traces, ok := decodeArray(content)
		if !ok {
			data, okObj := decodeObject(content)
			if !okObj {
				return nil
			}
			traces = asSlice(data["traces"])
			if traces == nil {
				traces = asSlice(data["vulnerabilities"])
			}
		}
		for _, v := range traces {
			trace := asMap(v)
			asset := str(asMap(trace["application"]), "name")
			if asset == "" {
				asset = str(trace, "app_name")
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       nonEmpty(firstStr(trace, "title", "rule_name"), "Contrast Finding"),
				Description: firstStr(trace, "story", "description"),
				Severity:    contrastSeverity(str(trace, "severity")),
				Tool:        "contrast",
				Asset:       nonEmpty(asset, "unknown"),
				CWEID:       cweNumber(trace["cwe"]),
				RawData:     trace,
			})
		}
		return findings
	}

	for _, row := range csvRows(content) {
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(csvField(row, "Vulnerability Name", "title"), "Contrast Finding"),
			Description: csvField(row, "Description"),
			Severity:    contrastSeverity(csvField(row, "Severity")),
			Tool:        "contrast",
			Asset:       nonEmpty(csvField(row, "Application"), "unknown"),
			RawData:     rawRow(row),
		})
	}
	return findings
}

func contrastSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "note":
		return schemas.SeverityInfo
	default:
		return schemas.SeverityMedium
	}
}
