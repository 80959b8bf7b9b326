package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

// jfrogUnifiedParser is a permissive catch-all for JFrog's unified report
// shapes. It accepts any valid JSON document, so it must stay near the end of
// the registration order.
type jfrogUnifiedParser struct{}

func (jfrogUnifiedParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "jfrog-unified",
		DisplayName: "JFrog Xray Unified",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "JFrog Xray unified vulnerability report",
	}
}

func (jfrogUnifiedParser) Detect(content, _ string) bool {
	if _, ok := decodeObject(content); ok {
		return true
	}
	_, ok := decodeArray(content)
	return ok
}

func (jfrogUnifiedParser) Parse(content, _ string) []schemas.ParsedFinding {
	var items []any
	if arr, ok := decodeArray(content); ok {
		items = arr
	} else if doc, ok := decodeObject(content); ok {
		items = asSlice(firstOf(doc, "results", "vulnerabilities", "findings"))
		if items == nil {
			items = []any{doc}
		}
	} else {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(item, "title", "name", "rule_id", "id"), "JFrog Xray Unified Finding"),
			Severity:    schemas.NormalizeSeverity(nonEmpty(firstStr(item, "severity", "level", "risk"), "medium")),
			Tool:        "jfrog-unified",
			Description: truncate(firstStr(item, "description", "message"), 2000),
			Asset:       nonEmpty(firstStr(item, "file", "path", "target", "host"), "unknown"),
			FilePath:    firstStr(item, "file", "path"),
			LineNumber:  intval(item, "line"),
			CVEID:       firstStr(item, "cve", "cve_id"),
			Tags:        []string{"sca"},
			RawData:     item,
		})
	}
	return findings
}
