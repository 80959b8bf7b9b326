package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type checkovParser struct{}

func (checkovParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "checkov",
		DisplayName: "Checkov",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "Infrastructure as Code security scanner",
	}
}

func (checkovParser) Detect(content, _ string) bool {
	if arr, ok := decodeArray(content); ok {
		return len(arr) > 0 && has(asMap(arr[0]), "check_type")
	}
	doc, ok := decodeObject(content)
	return ok && has(doc, "check_type", "passed_checks", "failed_checks")
}

func (p checkovParser) Parse(content, _ string) []schemas.ParsedFinding {
	if arr, ok := decodeArray(content); ok {
		var findings []schemas.ParsedFinding
		for _, entry := range arr {
			findings = append(findings, p.parseCheckResult(asMap(entry))...)
		}
		return findings
	}
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	return p.parseCheckResult(doc)
}

func (checkovParser) parseCheckResult(doc map[string]any) []schemas.ParsedFinding {
	checkType := str(doc, "check_type")

	var findings []schemas.ParsedFinding
	for _, c := range asSlice(asMap(doc["results"])["failed_checks"]) {
		check := asMap(c)
		guideline := str(check, "guideline")

		line := 0
		if r := asSlice(check["file_line_range"]); len(r) > 0 {
			if f, ok := r[0].(float64); ok {
				line = int(f)
			}
		}
		var refs []string
		if strings.HasPrefix(guideline, "http") {
			refs = []string{guideline}
		}
		tags := []string{checkType}
		if id := str(check, "check_id"); id != "" {
			tags = append(tags, id)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(str(check, "check_id"), "CKV") + ": " + nonEmpty(str(check, "check_name"), "Unknown Check"),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(check, "severity"), "MEDIUM")),
			Tool:           "checkov",
			Description:    str(check, "check_name"),
			Asset:          nonEmpty(firstStr(check, "resource", "file_path"), "unknown"),
			FilePath:       str(check, "file_path"),
			LineNumber:     line,
			Recommendation: guideline,
			References:     refs,
			Tags:           tags,
			RawData:        check,
		})
	}
	return findings
}
