package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type auditjsParser struct{}

func (auditjsParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "auditjs",
		DisplayName: "AuditJS",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "AuditJS for auditing JavaScript packages via npm registry",
	}
}

func (auditjsParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	return has(asMap(arr[0]), "coordinates", "vulnerabilities")
}

// cvssSeverity buckets a numeric CVSS score into the usual bands.
func cvssSeverity(score float64) schemas.Severity {
	switch {
	case score >= 9.0:
		return schemas.SeverityCritical
	case score >= 7.0:
		return schemas.SeverityHigh
	case score >= 4.0:
		return schemas.SeverityMedium
	}
	return schemas.SeverityLow
}

func auditjsSeverity(v any) schemas.Severity {
	if score, ok := v.(float64); ok {
		return cvssSeverity(score)
	}
	switch strings.ToLower(strings.TrimSpace(toString(v))) {
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

func (auditjsParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, entry := range arr {
		item := asMap(entry)
		coords := nonEmpty(str(item, "coordinates"), "unknown")
		for _, v := range asSlice(item["vulnerabilities"]) {
			vuln := asMap(v)
			sev := vuln["severity"]
			if sev == nil {
				sev = vuln["cvssScore"]
			}
			raw := map[string]any{"coordinates": coords}
			for k, val := range vuln {
				raw[k] = val
			}
			f := schemas.ParsedFinding{
				Title:       nonEmpty(firstStr(vuln, "title", "id"), "AuditJS Vulnerability"),
				Severity:    auditjsSeverity(sev),
				Tool:        "auditjs",
				Description: truncate(str(vuln, "description"), 2000),
				Asset:       coords,
				CVEID:       str(vuln, "cve"),
				Tags:        []string{"sca"},
				RawData:     raw,
			}
			if cvss, ok := num(vuln, "cvssScore"); ok {
				f.CVSSScore = cvss
			}
			findings = append(findings, f)
		}
	}
	return findings
}
