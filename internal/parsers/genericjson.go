package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

// genericJSONParser is the JSON fallback for tools without a dedicated
// adapter. It never auto-detects; callers must request it by name.
type genericJSONParser struct{}

func (genericJSONParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "generic-json",
		DisplayName: "Generic JSON",
		Category:    schemas.CategoryGeneric,
		FileTypes:   []string{"json"},
		Description: "Generic JSON findings import",
	}
}

func (genericJSONParser) Detect(_, _ string) bool { return false }

func (p genericJSONParser) Parse(content, _ string) []schemas.ParsedFinding {
	var items []any
	if arr, ok := decodeArray(content); ok {
		items = arr
	} else if obj, ok := decodeObject(content); ok {
		for _, key := range []string{"findings", "vulnerabilities", "issues", "results", "alerts", "items", "data"} {
			if arr := asSlice(obj[key]); arr != nil {
				items = arr
				break
			}
		}
		if items == nil {
			items = []any{obj}
		}
	}

	var findings []schemas.ParsedFinding
	for _, v := range items {
		item := asMap(v)
		if len(item) == 0 {
			continue
		}
		title := looseField(item, "title", "name", "summary", "message", "description", "rule_id", "id")
		if title == nil {
			continue
		}
		f := schemas.ParsedFinding{
			Title:          truncate(toString(title), 200),
			Severity:       schemas.SeverityMedium,
			Tool:           "generic-json",
			Description:    toString(looseField(item, "description", "message", "details", "body", "content")),
			Asset:          nonEmpty(toString(looseField(item, "asset", "host", "target", "url", "file", "path", "resource", "component")), "unknown"),
			FilePath:       toString(looseField(item, "file", "file_path", "filepath", "path", "filename", "location")),
			CVEID:          toString(looseField(item, "cve", "cve_id", "cveId", "vulnerability_id")),
			CWEID:          cweNumber(looseField(item, "cwe", "cwe_id", "cweId")),
			Recommendation: toString(looseField(item, "recommendation", "remediation", "fix", "solution", "mitigation")),
			References:     stringList(firstOf(item, "references", "links", "urls")),
			RawData:        item,
		}
		if sev := looseField(item, "severity", "level", "risk", "priority", "criticality"); sev != nil {
			f.Severity = schemas.NormalizeSeverity(toString(sev))
		}
		if line, ok := parseFloat(toString(looseField(item, "line", "line_number", "lineNumber", "start_line"))); ok {
			f.LineNumber = int(line)
		}
		if cvss, ok := parseFloat(toString(looseField(item, "cvss", "cvss_score", "cvssScore", "score"))); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}

// looseField matches keys exactly first, then case-insensitively.
func looseField(item map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := item[key]; ok && v != nil {
			return v
		}
		lower := strings.ToLower(key)
		for k, v := range item {
			if strings.ToLower(k) == lower && v != nil {
				return v
			}
		}
	}
	return nil
}
